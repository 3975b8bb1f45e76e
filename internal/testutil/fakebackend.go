// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"taskboard/internal/backend"
	"taskboard/internal/models"
)

// FakeBackend is an in-memory backend.Auth and backend.TaskStore.
// Tokens are "token-<userID>"; accounts are registered with AddUser.
type FakeBackend struct {
	mu     sync.Mutex
	users  map[string]fakeUser // email -> user
	tasks  []models.Task       // oldest first
	nextID int
	clock  time.Time

	// Writes counts insert, update and delete calls that reached the store.
	Writes int
	// Lists counts ListTasks calls.
	Lists int

	// Error injection for testing
	SignInErr error
	SignUpErr error
	UserErr   error
	ListErr   error
	InsertErr error
	UpdateErr error
	DeleteErr error
}

type fakeUser struct {
	id       string
	password string
}

// NewFakeBackend returns an empty backend.
func NewFakeBackend() *FakeBackend {
	return &FakeBackend{
		users: make(map[string]fakeUser),
		clock: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC),
	}
}

// TokenFor returns the access token the fake issues for userID.
func TokenFor(userID string) string { return "token-" + userID }

// AddUser registers an account.
func (f *FakeBackend) AddUser(id, email, password string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[email] = fakeUser{id: id, password: password}
}

// Seed inserts a task directly and returns its id. Later seeds sort first.
func (f *FakeBackend) Seed(title string, completed bool, userID string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.insertLocked(models.NewTask{
		Title:     title,
		Priority:  models.PriorityTop,
		Deadline:  "2025-01-01",
		Completed: completed,
		UserID:    userID,
	})
}

// Tasks returns a snapshot of stored tasks, oldest first.
func (f *FakeBackend) Tasks() []models.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Task, len(f.tasks))
	copy(out, f.tasks)
	return out
}

func (f *FakeBackend) insertLocked(t models.NewTask) string {
	f.nextID++
	f.clock = f.clock.Add(time.Minute)
	id := fmt.Sprintf("task-%d", f.nextID)
	f.tasks = append(f.tasks, models.Task{
		ID:        id,
		Title:     t.Title,
		Priority:  t.Priority,
		Deadline:  t.Deadline,
		Completed: t.Completed,
		UserID:    t.UserID,
		CreatedAt: f.clock,
	})
	return id
}

func (f *FakeBackend) userForToken(token string) *models.User {
	for email, u := range f.users {
		if TokenFor(u.id) == token {
			return &models.User{ID: u.id, Email: email}
		}
	}
	return nil
}

// SignIn implements backend.Auth.
func (f *FakeBackend) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	if f.SignInErr != nil {
		return nil, f.SignInErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[email]
	if !ok || u.password != password {
		return nil, &backend.Error{Status: http.StatusBadRequest, Message: "Invalid login credentials"}
	}
	return &models.Session{
		AccessToken: TokenFor(u.id),
		ExpiresAt:   time.Now().Add(time.Hour),
		User:        models.User{ID: u.id, Email: email},
	}, nil
}

// SignUp implements backend.Auth. The account is not usable until added with AddUser.
func (f *FakeBackend) SignUp(ctx context.Context, email, password string) error {
	if f.SignUpErr != nil {
		return f.SignUpErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[email]; ok {
		return &backend.Error{Status: http.StatusUnprocessableEntity, Message: "User already registered"}
	}
	return nil
}

// User implements backend.Auth.
func (f *FakeBackend) User(ctx context.Context, token string) (*models.User, error) {
	if f.UserErr != nil {
		return nil, f.UserErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.userForToken(token), nil
}

// SignOut implements backend.Auth.
func (f *FakeBackend) SignOut(ctx context.Context, token string) error {
	return nil
}

// ListTasks implements backend.TaskStore. All rows are visible, newest first.
func (f *FakeBackend) ListTasks(ctx context.Context, token string) ([]models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Lists++
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	out := make([]models.Task, 0, len(f.tasks))
	for i := len(f.tasks) - 1; i >= 0; i-- {
		out = append(out, f.tasks[i])
	}
	return out, nil
}

// InsertTask implements backend.TaskStore.
func (f *FakeBackend) InsertTask(ctx context.Context, token string, task models.NewTask) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Writes++
	if f.InsertErr != nil {
		return f.InsertErr
	}
	f.insertLocked(task)
	return nil
}

// UpdateTask implements backend.TaskStore.
func (f *FakeBackend) UpdateTask(ctx context.Context, token, id string, fields map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Writes++
	if f.UpdateErr != nil {
		return f.UpdateErr
	}
	for i := range f.tasks {
		if f.tasks[i].ID != id {
			continue
		}
		if v, ok := fields["completed"].(bool); ok {
			f.tasks[i].Completed = v
		}
		if v, ok := fields["title"].(string); ok {
			f.tasks[i].Title = v
		}
	}
	return nil
}

// DeleteTask implements backend.TaskStore.
func (f *FakeBackend) DeleteTask(ctx context.Context, token, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Writes++
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return nil
}
