package controller

import (
	"errors"
	"net/http"

	"taskboard/internal/backend"
	"taskboard/internal/middleware"
	"taskboard/internal/models"
	"taskboard/internal/tasklist"
	"taskboard/pkg/logger"

	"github.com/gin-gonic/gin"
)

type taskListResponse struct {
	Upcoming  []models.Task `json:"upcoming"`
	Completed []models.Task `json:"completed"`
}

func listResponse(v tasklist.View) taskListResponse {
	return taskListResponse{Upcoming: v.Upcoming, Completed: v.Completed}
}

// GetTasks (auth): returns the partitioned task list.
func (h *Controller) GetTasks(c *gin.Context) {
	v := h.tasks.View(c.Request.Context(), middleware.Token(c))
	c.JSON(http.StatusOK, listResponse(v))
}

// CreateTask (auth): inserts a task, returns the reloaded list.
func (h *Controller) CreateTask(c *gin.Context) {
	ctx := c.Request.Context()
	var body struct {
		Title    string          `json:"title"`
		Priority models.Priority `json:"priority"`
		Deadline string          `json:"deadline"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	v, err := h.tasks.Add(ctx, middleware.Token(c), body.Title, body.Priority, body.Deadline)
	if err != nil {
		h.apiError(c, "CreateTask", err)
		return
	}
	status := http.StatusCreated
	if !v.Saved {
		status = http.StatusOK
	}
	c.JSON(status, listResponse(v))
}

// CompleteTaskAPI (auth): marks the task completed, returns the reloaded list.
func (h *Controller) CompleteTaskAPI(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing task id"})
		return
	}
	v, err := h.tasks.Complete(c.Request.Context(), middleware.Token(c), id)
	if err != nil {
		h.apiError(c, "CompleteTask", err)
		return
	}
	c.JSON(http.StatusOK, listResponse(v))
}

// DeleteTaskAPI (auth): removes the task, returns the reloaded list.
func (h *Controller) DeleteTaskAPI(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing task id"})
		return
	}
	v, err := h.tasks.Delete(c.Request.Context(), middleware.Token(c), id)
	if err != nil {
		h.apiError(c, "DeleteTask", err)
		return
	}
	c.JSON(http.StatusOK, listResponse(v))
}

func (h *Controller) apiError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, tasklist.ErrMissingField):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, tasklist.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": tasklist.UnauthenticatedMessage})
	case errors.Is(err, tasklist.ErrDeleteUnsupported):
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": err.Error()})
	default:
		logger.Error(c.Request.Context(), op+" failed", "error", err, "status", backend.StatusOf(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	}
}
