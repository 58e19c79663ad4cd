// Package store holds the engine's mutex-guarded in-memory state. Each
// logical store owns exactly one lock; cross-store operations live in the
// service layer and acquire locks in the fixed order
// widgets, layouts, alerts, insights, notifications, goals, jobs.
package store

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pulseboard/pulseboard/internal/domain"
)

// WidgetStore is the live widget set of the active layout, ordered by
// position. Positions are always exactly 0..n-1 with no gaps or duplicates.
type WidgetStore struct {
	mu      sync.RWMutex
	widgets []domain.Widget
}

// NewWidgetStore creates an empty widget store.
func NewWidgetStore() *WidgetStore {
	return &WidgetStore{}
}

// Add appends a widget at the end of the ordering. A missing id is
// generated; position is assigned, not taken from the input.
func (s *WidgetStore) Add(w domain.Widget) domain.Widget {
	s.mu.Lock()
	defer s.mu.Unlock()

	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	w.Position = len(s.widgets)
	w.IsExpanded = false
	s.widgets = append(s.widgets, w)
	return w
}

// Remove deletes a widget and renumbers the remainder. Unknown ids are a
// no-op; the boolean reports whether anything changed.
func (s *WidgetStore) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return false
	}
	s.widgets = append(s.widgets[:idx], s.widgets[idx+1:]...)
	s.renumber()
	return true
}

// Update applies a partial update to a widget. A non-nil Data in the patch
// replaces the payload wholesale. Unknown ids are a no-op.
func (s *WidgetStore) Update(id string, patch domain.WidgetPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return false
	}
	patch.Apply(&s.widgets[idx])
	return true
}

// ReplaceData swaps the widget's payload and bumps lastUpdated. Used by the
// refresh scheduler; unknown ids (widget removed mid-refresh) are a no-op.
func (s *WidgetStore) ReplaceData(id string, payload domain.WidgetPayload, at time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return false
	}
	s.widgets[idx].Data = payload
	s.widgets[idx].LastUpdated = at
	return true
}

// Expand marks one widget expanded and collapses every other, so at most
// one widget is expanded at any time.
func (s *WidgetStore) Expand(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return false
	}
	for i := range s.widgets {
		s.widgets[i].IsExpanded = i == idx
	}
	return true
}

// Collapse clears the expanded widget, if any.
func (s *WidgetStore) Collapse() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.widgets {
		s.widgets[i].IsExpanded = false
	}
}

// Move extracts the widget, splices it in at newPosition, then renumbers
// every widget to its array index. This is the normalization rule: after
// any move the positions are exactly 0..n-1.
func (s *WidgetStore) Move(id string, newPosition int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return false
	}
	moved := s.widgets[idx]
	rest := append(s.widgets[:idx], s.widgets[idx+1:]...)

	if newPosition < 0 {
		newPosition = 0
	}
	if newPosition > len(rest) {
		newPosition = len(rest)
	}
	s.widgets = append(rest[:newPosition], append([]domain.Widget{moved}, rest[newPosition:]...)...)
	s.renumber()
	return true
}

// Reorder replaces the widget set with the given ordering. Ids not present
// in the live set are skipped; live widgets omitted from the input are
// dropped. This is replace-by-new-order, and callers wanting a pure
// permutation must pass the complete id set.
func (s *WidgetStore) Reorder(ids []string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	byID := make(map[string]domain.Widget, len(s.widgets))
	for _, w := range s.widgets {
		byID[w.ID] = w
	}

	reordered := make([]domain.Widget, 0, len(ids))
	var dropped []string
	for _, w := range s.widgets {
		if !contains(ids, w.ID) {
			dropped = append(dropped, w.ID)
		}
	}
	for _, id := range ids {
		if w, ok := byID[id]; ok {
			reordered = append(reordered, w)
		}
	}
	s.widgets = reordered
	s.renumber()
	return dropped
}

// Replace swaps the entire widget set, renumbering positions. Used when
// switching layouts: the incoming set is the layout's own snapshot.
func (s *WidgetStore) Replace(widgets []domain.Widget) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.widgets = make([]domain.Widget, len(widgets))
	copy(s.widgets, widgets)
	s.renumber()
	for i := range s.widgets {
		s.widgets[i].IsExpanded = false
	}
}

// Get returns a widget by id.
func (s *WidgetStore) Get(id string) (domain.Widget, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return domain.Widget{}, false
	}
	return s.widgets[idx], true
}

// List returns a copy of the widget set in position order.
func (s *WidgetStore) List() []domain.Widget {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Widget, len(s.widgets))
	copy(out, s.widgets)
	return out
}

// Expanded returns the id of the expanded widget, or "".
func (s *WidgetStore) Expanded() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, w := range s.widgets {
		if w.IsExpanded {
			return w.ID
		}
	}
	return ""
}

func (s *WidgetStore) indexOf(id string) int {
	for i, w := range s.widgets {
		if w.ID == id {
			return i
		}
	}
	return -1
}

func (s *WidgetStore) renumber() {
	for i := range s.widgets {
		s.widgets[i].Position = i
	}
}

func contains(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
