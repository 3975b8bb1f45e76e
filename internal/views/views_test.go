package views

import (
	"bytes"
	"strings"
	"testing"

	"taskboard/internal/models"
	"taskboard/internal/tasklist"
)

func render(t *testing.T, name string, data any) string {
	t.Helper()
	var buf bytes.Buffer
	if err := Templates().ExecuteTemplate(&buf, name, data); err != nil {
		t.Fatalf("execute %s: %v", name, err)
	}
	return buf.String()
}

func TestDashboard_EmptyStates(t *testing.T) {
	out := render(t, DashboardPage, NewDashboard(tasklist.Split(nil), TaskForm{}, true))

	if !strings.Contains(out, "You&#39;re all caught up 🎉") {
		t.Error("missing upcoming empty state")
	}
	if !strings.Contains(out, "No completed tasks yet") {
		t.Error("missing completed empty state")
	}
	if !strings.Contains(out, "<option selected>Top Priority</option>") {
		t.Error("Top Priority should be preselected")
	}
}

func TestDashboard_Tasks(t *testing.T) {
	tasks := []models.Task{
		{ID: "a", Title: "Buy milk", Priority: models.PriorityMedium, Deadline: "2025-01-01"},
		{ID: "b", Title: "File taxes", Priority: models.PriorityLow, Deadline: "2025-04-15", Completed: true},
	}

	withDelete := render(t, DashboardPage, NewDashboard(tasklist.Split(tasks), TaskForm{}, true))
	for _, want := range []string{"Buy milk", "bg-yellow-100 text-yellow-700", "/tasks/a/complete", "File taxes", "/tasks/b/delete"} {
		if !strings.Contains(withDelete, want) {
			t.Errorf("missing %q", want)
		}
	}
	if strings.Contains(withDelete, "all caught up") || strings.Contains(withDelete, "No completed tasks yet") {
		t.Error("empty states rendered with tasks present")
	}

	noDelete := render(t, DashboardPage, NewDashboard(tasklist.Split(tasks), TaskForm{}, false))
	if strings.Contains(noDelete, "/tasks/b/delete") {
		t.Error("delete offered without ownership")
	}
}

func TestDashboard_KeepsFormAndError(t *testing.T) {
	d := NewDashboard(tasklist.Split(nil), TaskForm{Title: "Buy <milk>", Priority: models.PriorityLow, Deadline: "2025-01-01"}, true)
	d.Error = "You must be logged in to add tasks"

	out := render(t, DashboardPage, d)
	for _, want := range []string{`value="Buy &lt;milk&gt;"`, `value="2025-01-01"`, "<option selected>Low Priority</option>", "You must be logged in to add tasks"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q", want)
		}
	}
}

func TestLogin_Notice(t *testing.T) {
	out := render(t, LoginPage, Login{Email: "a@b.c", Message: &Notice{Text: "❌ Invalid login credentials"}})
	if !strings.Contains(out, "bg-red-100 text-red-700") || !strings.Contains(out, "❌ Invalid login credentials") {
		t.Error("failure notice not rendered")
	}
	if !strings.Contains(out, `value="a@b.c"`) {
		t.Error("email not echoed")
	}

	out = render(t, LoginPage, Login{})
	if strings.Contains(out, "bg-red-100") || strings.Contains(out, "bg-green-100") {
		t.Error("notice rendered without message")
	}
}
