package ingest

import (
	"context"
	"sync"
	"time"
)

// Event is a log event as received by the ingestion endpoint.
type Event struct {
	ID          string            `json:"id"`
	Level       string            `json:"level"`
	APIKey      string            `json:"api"`
	Environment string            `json:"environment"`
	Message     string            `json:"message"`
	Category    string            `json:"category"`
	Params      map[string]string `json:"params,omitempty"`
	ReceivedAt  time.Time         `json:"received_at"`
	RemoteAddr  string            `json:"remote_addr,omitempty"`
	UserAgent   string            `json:"user_agent,omitempty"`
}

// Store persists received events.
type Store interface {
	Save(ctx context.Context, event Event) error
}

// NopStore discards every event.
type NopStore struct{}

func (NopStore) Save(context.Context, Event) error { return nil }

// MemoryStore keeps events in memory, in arrival order.
type MemoryStore struct {
	mu     sync.Mutex
	events []Event
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Save(_ context.Context, event Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

// Events returns a copy of the stored events.
func (m *MemoryStore) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}
