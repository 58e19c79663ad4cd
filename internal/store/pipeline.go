package store

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pulseboard/pulseboard/internal/domain"
)

// Entry is any pipeline entry type that can carry a stamped identity.
type Entry[T any] interface {
	WithStamp(id string, ts time.Time) T
	GetID() string
}

// Pipeline is a newest-first queue of classified events. Alerts, insights
// and notifications are the three instantiations; they share add, dismiss
// and read semantics.
type Pipeline[T Entry[T]] struct {
	mu      sync.RWMutex
	entries []T
}

// NewPipeline creates an empty pipeline.
func NewPipeline[T Entry[T]]() *Pipeline[T] {
	return &Pipeline[T]{}
}

// Add stamps the entry with a fresh id and timestamp and prepends it, so
// reading the pipeline always yields entries in reverse call order.
func (p *Pipeline[T]) Add(entry T, now time.Time) T {
	p.mu.Lock()
	defer p.mu.Unlock()

	stamped := entry.WithStamp(uuid.NewString(), now)
	p.entries = append([]T{stamped}, p.entries...)
	return stamped
}

// Dismiss removes an entry. Dismissing a missing or already-dismissed id
// is a no-op, never an error; a dismissed entry cannot come back.
func (p *Pipeline[T]) Dismiss(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, e := range p.entries {
		if e.GetID() == id {
			p.entries = append(p.entries[:i], p.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Update mutates an entry in place. Unknown ids are a no-op.
func (p *Pipeline[T]) Update(id string, fn func(T) T) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, e := range p.entries {
		if e.GetID() == id {
			p.entries[i] = fn(e)
			return true
		}
	}
	return false
}

// List returns a copy of the entries, newest first.
func (p *Pipeline[T]) List() []T {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]T, len(p.entries))
	copy(out, p.entries)
	return out
}

// Clear drops every entry.
func (p *Pipeline[T]) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries = nil
}

// Len returns the number of entries.
func (p *Pipeline[T]) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.entries)
}

// NotificationStore adds read-state handling on top of the pipeline.
type NotificationStore struct {
	*Pipeline[domain.Notification]
}

// NewNotificationStore creates an empty notification store.
func NewNotificationStore() *NotificationStore {
	return &NotificationStore{Pipeline: NewPipeline[domain.Notification]()}
}

// MarkRead flags a notification as read. Idempotent; unknown ids are a
// no-op.
func (s *NotificationStore) MarkRead(id string) bool {
	return s.Update(id, func(n domain.Notification) domain.Notification {
		n.IsRead = true
		return n
	})
}

// UnreadCount is computed from the collection on every call rather than
// cached, so it cannot drift out of sync.
func (s *NotificationStore) UnreadCount() int {
	count := 0
	for _, n := range s.List() {
		if !n.IsRead {
			count++
		}
	}
	return count
}
