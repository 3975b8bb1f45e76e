package tasklist

import "taskboard/internal/models"

// Empty-state texts for the two sections of the dashboard.
const (
	EmptyUpcoming  = "You're all caught up 🎉"
	EmptyCompleted = "No completed tasks yet"
)

// Partition splits the list by the completed flag.
type Partition struct {
	Upcoming  []models.Task
	Completed []models.Task
}

// Split partitions tasks into upcoming and completed, keeping fetch order in
// each half. Every task lands in exactly one half.
func Split(tasks []models.Task) Partition {
	p := Partition{
		Upcoming:  make([]models.Task, 0, len(tasks)),
		Completed: make([]models.Task, 0),
	}
	for _, t := range tasks {
		if t.Completed {
			p.Completed = append(p.Completed, t)
		} else {
			p.Upcoming = append(p.Upcoming, t)
		}
	}
	return p
}
