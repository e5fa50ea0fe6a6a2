// Package analytics keeps a bounded in-memory event log. It is declared
// non-authoritative: events are trimmed oldest-first at capacity and are
// lost on restart.
package analytics

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

const DefaultCapacity = 1000

type Event struct {
	Event      string         `json:"event"`
	Properties map[string]any `json:"properties"`
	Timestamp  string         `json:"timestamp,omitempty"`
	SessionID  string         `json:"sessionId,omitempty"`
	UserID     string         `json:"userId,omitempty"`
	UserEmail  string         `json:"userEmail,omitempty"`
}

type Store struct {
	mu       sync.Mutex
	events   []Event
	capacity int
	now      func() time.Time
}

func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{capacity: capacity, now: time.Now}
}

// Track stamps and stores a batch of events, trimming the oldest entries
// once capacity is exceeded. Events missing a name or properties are
// rejected before anything in the batch is stored.
func (s *Store) Track(events []Event) (int, error) {
	for _, ev := range events {
		if ev.Event == "" || ev.Properties == nil {
			return 0, fmt.Errorf("missing required fields: event, properties")
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ts := s.now().UTC().Format(time.RFC3339)
	for _, ev := range events {
		ev.Timestamp = ts
		if ev.SessionID == "" {
			ev.SessionID = fmt.Sprintf("session_%d_%06d", s.now().UnixMilli(), rand.Intn(1000000))
		}
		s.events = append(s.events, ev)
	}

	if len(s.events) > s.capacity {
		s.events = s.events[len(s.events)-s.capacity:]
	}
	return len(events), nil
}

// Recent returns up to limit events, newest first, optionally filtered by
// event name.
func (s *Store) Recent(eventType string, limit int) []Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = 50
	}

	out := make([]Event, 0, limit)
	for i := len(s.events) - 1; i >= 0 && len(out) < limit; i-- {
		if eventType != "" && s.events[i].Event != eventType {
			continue
		}
		out = append(out, s.events[i])
	}
	return out
}

// Len reports the number of stored events.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}
