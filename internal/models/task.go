package models

import "time"

// Priority is the urgency label shown next to a task.
type Priority string

const (
	PriorityTop    Priority = "Top Priority"
	PriorityMedium Priority = "Medium Priority"
	PriorityLow    Priority = "Low Priority"
)

// Priorities lists the selectable priorities in form order.
var Priorities = []Priority{PriorityTop, PriorityMedium, PriorityLow}

// ParsePriority maps form input to a Priority, falling back to Top Priority.
func ParsePriority(s string) Priority {
	switch p := Priority(s); p {
	case PriorityTop, PriorityMedium, PriorityLow:
		return p
	}
	return PriorityTop
}

// Badge returns the CSS classes for the priority pill.
func (p Priority) Badge() string {
	switch p {
	case PriorityTop:
		return "bg-red-100 text-red-700"
	case PriorityMedium:
		return "bg-yellow-100 text-yellow-700"
	}
	return "bg-green-100 text-green-700"
}

// Task is a row of the "tasks" collection.
type Task struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Priority  Priority  `json:"priority"`
	Deadline  string    `json:"deadline"` // YYYY-MM-DD
	Completed bool      `json:"completed"`
	UserID    string    `json:"user_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewTask is the insert payload. UserID is empty when ownership is not enforced.
type NewTask struct {
	Title     string   `json:"title"`
	Priority  Priority `json:"priority"`
	Deadline  string   `json:"deadline"`
	Completed bool     `json:"completed"`
	UserID    string   `json:"user_id,omitempty"`
}

// User is the identity returned by the auth service.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is the result of a successful sign-in.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"-"`
	User         User      `json:"user"`
}

// TaskEvent is the activity message published after a mutation (create/complete/delete/signin).
type TaskEvent struct {
	Action     string    `json:"action"`
	TaskID     string    `json:"task_id,omitempty"`
	Title      string    `json:"title,omitempty"`
	UserID     string    `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

const (
	ActionCreated   = "created"
	ActionCompleted = "completed"
	ActionDeleted   = "deleted"
	ActionSignedIn  = "signed_in"
)
