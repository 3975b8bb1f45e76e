package tasklist

import (
	"context"

	"taskboard/internal/models"
)

// Mutation kinds passed to a Reconciler.
const (
	MutationAdd      = "add"
	MutationComplete = "complete"
	MutationDelete   = "delete"
)

// Mutation describes the operation that just ran. Err is the backend's
// answer; reconciliation runs regardless.
type Mutation struct {
	Kind   string
	TaskID string
	Err    error
}

// Reconciler produces the task list shown after a mutation.
type Reconciler interface {
	Reconcile(ctx context.Context, m *Model, token string, mu Mutation) []models.Task
}

// ReconcileFunc adapts a function to Reconciler.
type ReconcileFunc func(ctx context.Context, m *Model, token string, mu Mutation) []models.Task

func (f ReconcileFunc) Reconcile(ctx context.Context, m *Model, token string, mu Mutation) []models.Task {
	return f(ctx, m, token, mu)
}

// FullReload re-fetches the whole collection after every mutation.
var FullReload Reconciler = ReconcileFunc(func(ctx context.Context, m *Model, token string, _ Mutation) []models.Task {
	return m.Load(ctx, token)
})
