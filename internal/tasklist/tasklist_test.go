package tasklist_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"taskboard/internal/backend"
	"taskboard/internal/models"
	"taskboard/internal/tasklist"
	"taskboard/internal/testutil"
)

const userID = "user-1"

func newModel(t *testing.T, enforce bool) (*tasklist.Model, *testutil.FakeBackend, *testutil.RecordingPublisher) {
	t.Helper()
	fb := testutil.NewFakeBackend()
	fb.AddUser(userID, "a@b.c", "pw")
	pub := &testutil.RecordingPublisher{}
	m := tasklist.New(fb, fb, tasklist.Options{
		EnforceOwnership: enforce,
		Events:           pub,
		Now:              func() time.Time { return time.Unix(1700000000, 0) },
	})
	return m, fb, pub
}

func TestAdd_MissingFieldsSkipsNetwork(t *testing.T) {
	for _, enforce := range []bool{true, false} {
		m, fb, _ := newModel(t, enforce)
		tok := testutil.TokenFor(userID)

		if _, err := m.Add(context.Background(), tok, "", models.PriorityTop, "2025-01-01"); !errors.Is(err, tasklist.ErrMissingField) {
			t.Errorf("missing title: err = %v", err)
		}
		if _, err := m.Add(context.Background(), tok, "Buy milk", models.PriorityTop, ""); !errors.Is(err, tasklist.ErrMissingField) {
			t.Errorf("missing deadline: err = %v", err)
		}
		if _, err := m.Add(context.Background(), tok, "   ", models.PriorityTop, "2025-01-01"); !errors.Is(err, tasklist.ErrMissingField) {
			t.Errorf("blank title: err = %v", err)
		}
		if fb.Writes != 0 || fb.Lists != 0 {
			t.Errorf("enforce=%v: writes=%d lists=%d, want none", enforce, fb.Writes, fb.Lists)
		}
	}
}

func TestAdd_UnauthenticatedWritesNothing(t *testing.T) {
	m, fb, pub := newModel(t, true)

	_, err := m.Add(context.Background(), "", "Buy milk", models.PriorityTop, "2025-01-01")
	if !errors.Is(err, tasklist.ErrUnauthenticated) {
		t.Fatalf("err = %v, want ErrUnauthenticated", err)
	}
	if fb.Writes != 0 {
		t.Errorf("writes = %d, want 0", fb.Writes)
	}
	if len(pub.Events()) != 0 {
		t.Errorf("events = %v, want none", pub.Events())
	}
}

func TestAdd_StampsOwnerAndReloads(t *testing.T) {
	m, fb, pub := newModel(t, true)
	fb.Seed("older", false, userID)

	v, err := m.Add(context.Background(), testutil.TokenFor(userID), "Buy milk", models.PriorityMedium, "2025-01-01")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if !v.Saved {
		t.Error("Saved = false")
	}
	if len(v.Tasks) != 2 || v.Tasks[0].Title != "Buy milk" {
		t.Fatalf("tasks = %+v, want new task first", v.Tasks)
	}
	got := v.Tasks[0]
	if got.UserID != userID || got.Completed || got.Priority != models.PriorityMedium {
		t.Errorf("inserted = %+v", got)
	}
	if len(v.Upcoming) != 2 || len(v.Completed) != 0 {
		t.Errorf("partition = %d/%d", len(v.Upcoming), len(v.Completed))
	}

	evs := pub.Events()
	if len(evs) != 1 || evs[0].Action != models.ActionCreated || evs[0].UserID != userID || evs[0].OccurredAt.Unix() != 1700000000 {
		t.Errorf("events = %+v", evs)
	}
}

func TestAdd_WithoutOwnershipOmitsUser(t *testing.T) {
	m, fb, _ := newModel(t, false)
	fb.UserErr = errors.New("auth must not be consulted")

	if _, err := m.Add(context.Background(), "", "Buy milk", models.PriorityLow, "2025-01-01"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	tasks := fb.Tasks()
	if len(tasks) != 1 || tasks[0].UserID != "" {
		t.Errorf("tasks = %+v", tasks)
	}
}

func TestAdd_InsertFailure(t *testing.T) {
	insertErr := &backend.Error{Status: 403, Message: "new row violates row-level security policy"}

	t.Run("surfaced with ownership", func(t *testing.T) {
		m, fb, pub := newModel(t, true)
		fb.InsertErr = insertErr

		v, err := m.Add(context.Background(), testutil.TokenFor(userID), "Buy milk", models.PriorityTop, "2025-01-01")
		if !errors.Is(err, insertErr) {
			t.Fatalf("err = %v", err)
		}
		if v.Saved {
			t.Error("Saved = true after failure")
		}
		if fb.Lists != 1 {
			t.Errorf("lists = %d, want reload after failure", fb.Lists)
		}
		if len(pub.Events()) != 0 {
			t.Error("failed insert must not publish")
		}
	})

	t.Run("swallowed without ownership", func(t *testing.T) {
		m, fb, _ := newModel(t, false)
		fb.InsertErr = insertErr

		v, err := m.Add(context.Background(), "", "Buy milk", models.PriorityTop, "2025-01-01")
		if err != nil {
			t.Fatalf("err = %v, want nil", err)
		}
		if v.Saved {
			t.Error("Saved = true after failure")
		}
		if fb.Lists != 1 {
			t.Errorf("lists = %d, want reload after failure", fb.Lists)
		}
	})
}

func TestComplete_MovesToCompleted(t *testing.T) {
	m, fb, pub := newModel(t, true)
	id := fb.Seed("Buy milk", false, userID)
	fb.Seed("Walk dog", false, userID)
	tok := testutil.TokenFor(userID)

	if _, err := m.Complete(context.Background(), tok, id); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	p := tasklist.Split(m.Load(context.Background(), tok))
	if len(p.Completed) != 1 || p.Completed[0].ID != id || !p.Completed[0].Completed {
		t.Fatalf("completed = %+v", p.Completed)
	}
	for _, u := range p.Upcoming {
		if u.ID == id {
			t.Fatalf("task %s still upcoming", id)
		}
	}
	if evs := pub.Events(); len(evs) != 1 || evs[0].Action != models.ActionCompleted || evs[0].TaskID != id {
		t.Errorf("events = %+v", evs)
	}
}

func TestDelete_RemovesTask(t *testing.T) {
	m, fb, _ := newModel(t, true)
	id := fb.Seed("Buy milk", true, userID)
	tok := testutil.TokenFor(userID)

	v, err := m.Delete(context.Background(), tok, id)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	for _, task := range v.Tasks {
		if task.ID == id {
			t.Fatalf("task %s still listed", id)
		}
	}
	for _, task := range m.Load(context.Background(), tok) {
		if task.ID == id {
			t.Fatalf("task %s still loaded", id)
		}
	}
}

func TestDelete_UnsupportedWithoutOwnership(t *testing.T) {
	m, fb, _ := newModel(t, false)
	id := fb.Seed("Buy milk", true, "")

	if _, err := m.Delete(context.Background(), "", id); !errors.Is(err, tasklist.ErrDeleteUnsupported) {
		t.Fatalf("err = %v", err)
	}
	if fb.Writes != 0 || len(fb.Tasks()) != 1 {
		t.Errorf("writes = %d tasks = %d", fb.Writes, len(fb.Tasks()))
	}
}

func TestMutationFailure_StillReloads(t *testing.T) {
	m, fb, _ := newModel(t, true)
	id := fb.Seed("Buy milk", false, userID)
	fb.UpdateErr = errors.New("boom")

	v, err := m.Complete(context.Background(), testutil.TokenFor(userID), id)
	if err == nil {
		t.Fatal("expected error")
	}
	if fb.Lists != 1 || len(v.Upcoming) != 1 {
		t.Errorf("lists = %d upcoming = %d", fb.Lists, len(v.Upcoming))
	}
}

func TestLoad_EmptyAndFailed(t *testing.T) {
	m, fb, _ := newModel(t, true)

	if got := m.Load(context.Background(), ""); got == nil || len(got) != 0 {
		t.Errorf("empty load = %#v", got)
	}

	fb.ListErr = errors.New("network down")
	if got := m.Load(context.Background(), ""); got == nil || len(got) != 0 {
		t.Errorf("failed load = %#v", got)
	}

	v := m.View(context.Background(), "")
	if v.Upcoming == nil || v.Completed == nil {
		t.Error("partitions must be non-nil")
	}
}

func TestCustomReconciler(t *testing.T) {
	fb := testutil.NewFakeBackend()
	var seen []tasklist.Mutation
	m := tasklist.New(fb, fb, tasklist.Options{
		Reconcile: tasklist.ReconcileFunc(func(ctx context.Context, m *tasklist.Model, token string, mu tasklist.Mutation) []models.Task {
			seen = append(seen, mu)
			return nil
		}),
	})

	if _, err := m.Complete(context.Background(), "", "task-9"); err != nil {
		t.Fatal(err)
	}
	if len(seen) != 1 || seen[0].Kind != tasklist.MutationComplete || seen[0].TaskID != "task-9" {
		t.Errorf("seen = %+v", seen)
	}
	if fb.Lists != 0 {
		t.Errorf("lists = %d, custom reconciler should replace the reload", fb.Lists)
	}
}

func TestEvents_CarryUserForEveryAction(t *testing.T) {
	for _, enforce := range []bool{true, false} {
		m, fb, pub := newModel(t, enforce)
		tok := testutil.TokenFor(userID)
		ctx := context.Background()

		if _, err := m.Add(ctx, tok, "Buy milk", models.PriorityTop, "2025-01-01"); err != nil {
			t.Fatalf("Add: %v", err)
		}
		id := fb.Tasks()[0].ID
		if _, err := m.Complete(ctx, tok, id); err != nil {
			t.Fatalf("Complete: %v", err)
		}
		want := []string{models.ActionCreated, models.ActionCompleted}
		if enforce {
			if _, err := m.Delete(ctx, tok, id); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			want = append(want, models.ActionDeleted)
		}

		evs := pub.Events()
		if len(evs) != len(want) {
			t.Fatalf("enforce=%v: events = %+v", enforce, evs)
		}
		for i, ev := range evs {
			if ev.Action != want[i] {
				t.Errorf("enforce=%v: event %d action = %s, want %s", enforce, i, ev.Action, want[i])
			}
			if ev.UserID != userID {
				t.Errorf("enforce=%v: %s event user = %q, want %q", enforce, ev.Action, ev.UserID, userID)
			}
		}
	}
}
