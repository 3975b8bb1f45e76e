// Package backend defines the collaborator that owns identity and task rows.
// Pages and the task list never talk to a concrete SDK; they go through these interfaces.
package backend

import (
	"context"
	"errors"
	"fmt"

	"taskboard/internal/models"
)

// Collection is the name of the task collection on the backend.
const Collection = "tasks"

// Auth is the identity half of the backend.
type Auth interface {
	// SignIn exchanges email and password for a session.
	SignIn(ctx context.Context, email, password string) (*models.Session, error)

	// SignUp creates an account that still needs email verification.
	SignUp(ctx context.Context, email, password string) error

	// User resolves the user behind an access token.
	// Returns (nil, nil) when the token is empty or no longer valid.
	User(ctx context.Context, token string) (*models.User, error)

	// SignOut revokes the session behind token.
	SignOut(ctx context.Context, token string) error
}

// TaskStore is the row-oriented half of the backend, scoped to the "tasks" collection.
// token is the caller's access token; stores that enforce row-level access use it to
// decide which rows are visible.
type TaskStore interface {
	// ListTasks returns every visible task ordered by created_at descending.
	ListTasks(ctx context.Context, token string) ([]models.Task, error)

	InsertTask(ctx context.Context, token string, task models.NewTask) error

	// UpdateTask sets the given columns on the row with id.
	UpdateTask(ctx context.Context, token, id string, fields map[string]any) error

	DeleteTask(ctx context.Context, token, id string) error
}

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Backend is the collaborator handle built once at process start.
type Backend struct {
	Auth  Auth
	Tasks TaskStore
}

// ErrUnavailable is returned when the backend is not configured.
var ErrUnavailable = errors.New("backend unavailable")

// Error is a failure reported by the backend. Message is shown to users verbatim.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.Status)
	}
	return e.Message
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var be *Error
	if errors.As(err, &be) {
		return be.Status
	}
	return 0
}
