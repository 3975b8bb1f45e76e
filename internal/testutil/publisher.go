package testutil

import (
	"context"
	"sync"

	"taskboard/internal/models"
)

// RecordingPublisher keeps every published event.
type RecordingPublisher struct {
	mu     sync.Mutex
	events []models.TaskEvent
	Err    error
}

// Publish records ev and returns Err.
func (p *RecordingPublisher) Publish(ctx context.Context, ev models.TaskEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.Err
}

// Events returns a copy of the recorded events.
func (p *RecordingPublisher) Events() []models.TaskEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.TaskEvent, len(p.events))
	copy(out, p.events)
	return out
}
