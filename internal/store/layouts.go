package store

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pulseboard/pulseboard/internal/domain"
)

// LayoutStore holds the named layouts and the active layout id.
//
// Known invariant gap, kept deliberately: the store does not enforce
// isDefault exclusivity on Update, so a caller can mark two layouts
// default. Create-time seeding guarantees a single default; later drift is
// the caller's responsibility.
type LayoutStore struct {
	mu       sync.RWMutex
	layouts  []domain.Layout
	activeID string
}

// NewLayoutStore creates an empty layout store.
func NewLayoutStore() *LayoutStore {
	return &LayoutStore{}
}

// cloneLayout copies a layout together with its widget snapshot. A
// layout owns its snapshot, so neither the store nor a caller may hold a
// slice header into the other's memory.
func cloneLayout(l domain.Layout) domain.Layout {
	l.Widgets = append([]domain.Widget(nil), l.Widgets...)
	return l
}

// Seed installs the initial layouts and active id. Intended for startup
// (defaults or a restored snapshot).
func (s *LayoutStore) Seed(layouts []domain.Layout, activeID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.layouts = make([]domain.Layout, len(layouts))
	for i, l := range layouts {
		s.layouts[i] = cloneLayout(l)
	}
	s.activeID = activeID
}

// Create stamps a new id and timestamps and appends the layout.
func (s *LayoutStore) Create(l domain.Layout, now time.Time) domain.Layout {
	s.mu.Lock()
	defer s.mu.Unlock()

	l.ID = uuid.NewString()
	l.CreatedAt = now
	l.UpdatedAt = now
	s.layouts = append(s.layouts, cloneLayout(l))
	return l
}

// Get returns a layout by id.
func (s *LayoutStore) Get(id string) (domain.Layout, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return domain.Layout{}, false
	}
	return cloneLayout(s.layouts[idx]), true
}

// List returns a copy of all layouts.
func (s *LayoutStore) List() []domain.Layout {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Layout, len(s.layouts))
	for i, l := range s.layouts {
		out[i] = cloneLayout(l)
	}
	return out
}

// Update applies a patch and bumps updatedAt. The patch is validated as a
// whole first; an invalid patch leaves the layout untouched.
func (s *LayoutStore) Update(id string, patch domain.LayoutPatch, now time.Time) (bool, error) {
	if err := patch.Validate(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return false, nil
	}
	patch.Apply(&s.layouts[idx])
	s.layouts[idx].UpdatedAt = now
	return true, nil
}

// SetActive records the active layout id. Unknown ids are a no-op so a
// stale switch cannot strand the engine without a widget set.
func (s *LayoutStore) SetActive(id string) (domain.Layout, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return domain.Layout{}, false
	}
	s.activeID = id
	return cloneLayout(s.layouts[idx]), true
}

// Active returns the active layout id.
func (s *LayoutStore) Active() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeID
}

// Delete removes a layout. Deleting the active layout falls back to the
// default layout, then to the first remaining one; the successor (if any)
// is returned so the caller can swap in its widget snapshot.
func (s *LayoutStore) Delete(id string) (successor *domain.Layout, removed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil, false
	}
	wasActive := s.activeID == id
	s.layouts = append(s.layouts[:idx], s.layouts[idx+1:]...)

	if !wasActive {
		return nil, true
	}

	s.activeID = ""
	for i := range s.layouts {
		if s.layouts[i].IsDefault {
			s.activeID = s.layouts[i].ID
			next := cloneLayout(s.layouts[i])
			return &next, true
		}
	}
	if len(s.layouts) > 0 {
		s.activeID = s.layouts[0].ID
		next := cloneLayout(s.layouts[0])
		return &next, true
	}
	return nil, true
}

// Default returns the first layout marked default.
func (s *LayoutStore) Default() (domain.Layout, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, l := range s.layouts {
		if l.IsDefault {
			return cloneLayout(l), true
		}
	}
	return domain.Layout{}, false
}

// RemoveWidgetRefs deletes a widget from every layout's snapshot so a
// removed widget leaves no orphan references.
func (s *LayoutStore) RemoveWidgetRefs(widgetID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.layouts {
		// Fresh allocation: compacting in place would write through the
		// backing array that earlier Get/List copies still reference.
		kept := make([]domain.Widget, 0, len(s.layouts[i].Widgets))
		for _, w := range s.layouts[i].Widgets {
			if w.ID != widgetID {
				kept = append(kept, w)
			}
		}
		for j := range kept {
			kept[j].Position = j
		}
		s.layouts[i].Widgets = kept
	}
}

func (s *LayoutStore) indexOf(id string) int {
	for i, l := range s.layouts {
		if l.ID == id {
			return i
		}
	}
	return -1
}
