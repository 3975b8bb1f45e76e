package controller

import (
	"context"
	"time"

	"taskboard/internal/backend"
	"taskboard/internal/flash"
	"taskboard/internal/session"
	"taskboard/internal/tasklist"
)

// Check is a named readiness probe.
type Check struct {
	Name   string
	Pinger backend.Pinger
}

// Deps are the collaborators handlers need; all are created once in main.
type Deps struct {
	Tasks   *tasklist.Model
	Gate    *session.Gate
	Cookies session.Cookies
	Flash   flash.Store
	Events  tasklist.Publisher
	Checks  []Check
}

// Controller serves pages, the JSON API and probes.
type Controller struct {
	tasks   *tasklist.Model
	gate    *session.Gate
	cookies session.Cookies
	flash   flash.Store
	events  tasklist.Publisher
	checks  []Check
}

// New builds a Controller.
func New(d Deps) *Controller {
	if d.Flash == nil {
		d.Flash = flash.NewMemoryStore(time.Minute)
	}
	return &Controller{
		tasks:   d.Tasks,
		gate:    d.Gate,
		cookies: d.Cookies,
		flash:   d.Flash,
		events:  d.Events,
		checks:  d.Checks,
	}
}

// view loads the list when an operation returned before reconciling.
func (h *Controller) view(ctx context.Context, token string, v tasklist.View) tasklist.View {
	if v.Tasks == nil {
		return h.tasks.View(ctx, token)
	}
	return v
}
