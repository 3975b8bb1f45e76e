// Package tasklist is the view-model behind the dashboard: it loads the task
// collection, applies the three mutations and reconciles the view afterwards.
package tasklist

import (
	"context"
	"errors"
	"strings"
	"time"

	"taskboard/internal/backend"
	"taskboard/internal/models"
	"taskboard/pkg/logger"
)

var (
	// ErrMissingField means title or deadline was empty; nothing was sent.
	ErrMissingField = errors.New("title and deadline are required")

	// ErrUnauthenticated means ownership is enforced and no user is signed in.
	ErrUnauthenticated = errors.New("not signed in")

	// ErrDeleteUnsupported is returned by Delete when ownership is not enforced.
	ErrDeleteUnsupported = errors.New("deleting tasks is not available")
)

// UnauthenticatedMessage is shown when an add is attempted without a session.
const UnauthenticatedMessage = "You must be logged in to add tasks"

// Publisher receives an event after each applied mutation.
type Publisher interface {
	Publish(ctx context.Context, ev models.TaskEvent) error
}

// Options parameterizes a Model.
type Options struct {
	// EnforceOwnership stamps new tasks with the signed-in user, surfaces
	// backend errors and enables Delete.
	EnforceOwnership bool

	// Reconcile rebuilds the task list after a mutation. Defaults to FullReload.
	Reconcile Reconciler

	// Events is optional.
	Events Publisher

	// Now is used for event timestamps (tests).
	Now func() time.Time
}

// Model is safe for concurrent use; it holds no per-session state.
type Model struct {
	store backend.TaskStore
	auth  backend.Auth
	opts  Options
}

// View is what a page renders after an operation.
type View struct {
	Tasks []models.Task
	Partition
	// Saved reports whether the mutation was applied.
	Saved bool
}

// New builds a Model around the backend collaborator.
func New(store backend.TaskStore, auth backend.Auth, opts Options) *Model {
	if opts.Reconcile == nil {
		opts.Reconcile = FullReload
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Model{store: store, auth: auth, opts: opts}
}

// EnforcesOwnership reports which variant this Model runs.
func (m *Model) EnforcesOwnership() bool { return m.opts.EnforceOwnership }

// Load fetches every task, newest first. Failures yield an empty list.
func (m *Model) Load(ctx context.Context, token string) []models.Task {
	tasks, err := m.store.ListTasks(ctx, token)
	if err != nil {
		logger.Warn(ctx, "Load tasks failed", "error", err)
		return []models.Task{}
	}
	if tasks == nil {
		return []models.Task{}
	}
	return tasks
}

// View loads the list and partitions it.
func (m *Model) View(ctx context.Context, token string) View {
	return newView(m.Load(ctx, token), false)
}

// Add inserts an upcoming task and reconciles. Missing title or deadline is a
// no-op returning ErrMissingField.
func (m *Model) Add(ctx context.Context, token, title string, priority models.Priority, deadline string) (View, error) {
	title = strings.TrimSpace(title)
	deadline = strings.TrimSpace(deadline)
	if title == "" || deadline == "" {
		return View{}, ErrMissingField
	}

	task := models.NewTask{
		Title:     title,
		Priority:  models.ParsePriority(string(priority)),
		Deadline:  deadline,
		Completed: false,
	}
	if m.opts.EnforceOwnership {
		user, err := m.auth.User(ctx, token)
		if err != nil {
			return View{}, err
		}
		if user == nil {
			return View{}, ErrUnauthenticated
		}
		task.UserID = user.ID
	}

	err := m.store.InsertTask(ctx, token, task)
	if err == nil {
		by := task.UserID
		if by == "" {
			by = m.actor(ctx, token)
		}
		m.publish(ctx, models.TaskEvent{Action: models.ActionCreated, Title: task.Title, UserID: by})
	}
	return m.reconcile(ctx, token, Mutation{Kind: MutationAdd, Err: err})
}

// Complete marks the task done and reconciles. There is no way back.
func (m *Model) Complete(ctx context.Context, token, id string) (View, error) {
	err := m.store.UpdateTask(ctx, token, id, map[string]any{"completed": true})
	if err == nil {
		m.publish(ctx, models.TaskEvent{Action: models.ActionCompleted, TaskID: id, UserID: m.actor(ctx, token)})
	}
	return m.reconcile(ctx, token, Mutation{Kind: MutationComplete, TaskID: id, Err: err})
}

// Delete removes the task and reconciles. Only available with ownership enforced.
func (m *Model) Delete(ctx context.Context, token, id string) (View, error) {
	if !m.opts.EnforceOwnership {
		return View{}, ErrDeleteUnsupported
	}
	err := m.store.DeleteTask(ctx, token, id)
	if err == nil {
		m.publish(ctx, models.TaskEvent{Action: models.ActionDeleted, TaskID: id, UserID: m.actor(ctx, token)})
	}
	return m.reconcile(ctx, token, Mutation{Kind: MutationDelete, TaskID: id, Err: err})
}

// reconcile runs whether or not the mutation succeeded.
func (m *Model) reconcile(ctx context.Context, token string, mu Mutation) (View, error) {
	if mu.Err != nil {
		logger.Warn(ctx, "Task mutation failed", "kind", mu.Kind, "id", mu.TaskID, "error", mu.Err)
	}
	v := newView(m.opts.Reconcile.Reconcile(ctx, m, token, mu), mu.Err == nil)
	if mu.Err != nil && !m.opts.EnforceOwnership {
		return v, nil
	}
	return v, mu.Err
}

// actor resolves the user behind token for event attribution; "" when
// nobody is signed in or no one is listening.
func (m *Model) actor(ctx context.Context, token string) string {
	if m.opts.Events == nil || token == "" {
		return ""
	}
	u, err := m.auth.User(ctx, token)
	if err != nil {
		logger.Warn(ctx, "Resolve event user failed", "error", err)
		return ""
	}
	if u == nil {
		return ""
	}
	return u.ID
}

func (m *Model) publish(ctx context.Context, ev models.TaskEvent) {
	if m.opts.Events == nil {
		return
	}
	ev.OccurredAt = m.opts.Now()
	if err := m.opts.Events.Publish(ctx, ev); err != nil {
		logger.Warn(ctx, "Publish task event failed", "action", ev.Action, "error", err)
	}
}

func newView(tasks []models.Task, saved bool) View {
	return View{Tasks: tasks, Partition: Split(tasks), Saved: saved}
}
