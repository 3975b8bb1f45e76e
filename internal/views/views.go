// Package views holds the embedded page templates and the data each page renders.
package views

import (
	"embed"
	"html/template"

	"taskboard/internal/models"
	"taskboard/internal/tasklist"
)

//go:embed templates/*.tmpl
var files embed.FS

// Template names.
const (
	LoginPage     = "login.tmpl"
	DashboardPage = "dashboard.tmpl"
)

// Templates parses every page template.
func Templates() *template.Template {
	return template.Must(template.New("").Funcs(template.FuncMap{
		"badge": func(p models.Priority) string { return p.Badge() },
	}).ParseFS(files, "templates/*.tmpl"))
}

// Notice is a one-line message with its tone.
type Notice struct {
	Text string
	OK   bool
}

// Login is the data for the login page.
type Login struct {
	Email   string
	Message *Notice
}

// TaskForm echoes the add-task inputs.
type TaskForm struct {
	Title    string
	Priority models.Priority
	Deadline string
}

// Dashboard is the data for the task list page.
type Dashboard struct {
	Upcoming   []models.Task
	Completed  []models.Task
	Form       TaskForm
	Priorities []models.Priority
	Error      string
	Flash      *Notice
	CanDelete  bool

	EmptyUpcoming  string
	EmptyCompleted string
}

// NewDashboard fills the static parts of the dashboard.
func NewDashboard(p tasklist.Partition, form TaskForm, canDelete bool) Dashboard {
	if form.Priority == "" {
		form.Priority = models.PriorityTop
	}
	return Dashboard{
		Upcoming:       p.Upcoming,
		Completed:      p.Completed,
		Form:           form,
		Priorities:     models.Priorities,
		CanDelete:      canDelete,
		EmptyUpcoming:  tasklist.EmptyUpcoming,
		EmptyCompleted: tasklist.EmptyCompleted,
	}
}
