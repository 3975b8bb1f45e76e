package controller

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// Health returns 200 if the process is alive. Used by load balancers.
func (h *Controller) Health(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

// Ready returns 200 if every configured dependency answers. Used by K8s readiness probes.
// Checks run in parallel; the first failure is reported.
func (h *Controller) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	for _, chk := range h.checks {
		g.Go(func() error {
			if err := chk.Pinger.Ping(gctx); err != nil {
				return fmt.Errorf("%s unavailable", chk.Name)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": err.Error()})
		return
	}
	c.String(http.StatusOK, "OK")
}
