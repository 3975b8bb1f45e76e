// Package flash carries one message across a redirect.
package flash

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// Message is a flash line with its tone.
type Message struct {
	Text string `json:"text"`
	OK   bool   `json:"ok"`
}

// Store holds at most one pending message per key. Pop removes it.
type Store interface {
	Set(ctx context.Context, key string, msg Message) error
	Pop(ctx context.Context, key string) (Message, bool)
}

func encode(msg Message) ([]byte, error) { return json.Marshal(msg) }

func decode(b []byte) (Message, error) {
	var m Message
	err := json.Unmarshal(b, &m)
	return m, err
}

type memEntry struct {
	msg     Message
	expires time.Time
}

// MemoryStore is the in-process Store used when Redis is not configured.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memEntry
	now     func() time.Time
}

// NewMemoryStore creates a store whose messages expire after ttl.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, entries: make(map[string]memEntry), now: time.Now}
}

func (s *MemoryStore) Set(ctx context.Context, key string, msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for k, e := range s.entries {
		if now.After(e.expires) {
			delete(s.entries, k)
		}
	}
	s.entries[key] = memEntry{msg: msg, expires: now.Add(s.ttl)}
	return nil
}

func (s *MemoryStore) Pop(ctx context.Context, key string) (Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return Message{}, false
	}
	delete(s.entries, key)
	if s.now().After(e.expires) {
		return Message{}, false
	}
	return e.msg, true
}
