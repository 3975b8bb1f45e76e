package tasklist

import (
	"fmt"
	"testing"

	"taskboard/internal/models"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name          string
		completed     []bool
		wantUpcoming  []string
		wantCompleted []string
	}{
		{"empty", nil, nil, nil},
		{"all upcoming", []bool{false, false}, []string{"t0", "t1"}, nil},
		{"all completed", []bool{true, true}, nil, []string{"t0", "t1"}},
		{"interleaved keeps order", []bool{false, true, false, true, true}, []string{"t0", "t2"}, []string{"t1", "t3", "t4"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var tasks []models.Task
			for i, c := range tt.completed {
				tasks = append(tasks, models.Task{ID: fmt.Sprintf("t%d", i), Completed: c})
			}

			p := Split(tasks)

			if p.Upcoming == nil || p.Completed == nil {
				t.Fatal("partitions must be non-nil")
			}
			assertIDs(t, "upcoming", p.Upcoming, tt.wantUpcoming)
			assertIDs(t, "completed", p.Completed, tt.wantCompleted)
			if len(p.Upcoming)+len(p.Completed) != len(tasks) {
				t.Errorf("union has %d tasks, want %d", len(p.Upcoming)+len(p.Completed), len(tasks))
			}
			seen := map[string]bool{}
			for _, u := range p.Upcoming {
				if u.Completed {
					t.Errorf("%s is completed but upcoming", u.ID)
				}
				seen[u.ID] = true
			}
			for _, c := range p.Completed {
				if !c.Completed {
					t.Errorf("%s is upcoming but completed", c.ID)
				}
				if seen[c.ID] {
					t.Errorf("%s in both partitions", c.ID)
				}
			}
		})
	}
}

func assertIDs(t *testing.T, label string, got []models.Task, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s: got %d tasks, want %d", label, len(got), len(want))
	}
	for i := range want {
		if got[i].ID != want[i] {
			t.Errorf("%s[%d] = %s, want %s", label, i, got[i].ID, want[i])
		}
	}
}
