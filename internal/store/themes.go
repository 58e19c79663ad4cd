package store

import (
	"sync"

	"github.com/google/uuid"
	"github.com/pulseboard/pulseboard/internal/domain"
)

// ThemeStore holds the theme registry and the active theme id. Themes are
// append-only; there is no delete operation.
type ThemeStore struct {
	mu       sync.RWMutex
	themes   []domain.Theme
	activeID string
}

// NewThemeStore creates a store seeded with the default light and dark
// themes, light active.
func NewThemeStore() *ThemeStore {
	return &ThemeStore{
		themes:   domain.DefaultThemes(),
		activeID: "light",
	}
}

// Seed replaces the registry and active id from a restored snapshot. The
// light and dark seeds are re-added if the snapshot lost them.
func (s *ThemeStore) Seed(themes []domain.Theme, activeID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.themes = make([]domain.Theme, len(themes))
	copy(s.themes, themes)
	for _, seed := range domain.DefaultThemes() {
		if s.indexOf(seed.ID) < 0 {
			s.themes = append(s.themes, seed)
		}
	}
	if s.indexOf(activeID) >= 0 {
		s.activeID = activeID
	} else {
		s.activeID = "light"
	}
}

// CreateCustom appends a caller-defined theme under a fresh id.
func (s *ThemeStore) CreateCustom(t domain.Theme) domain.Theme {
	s.mu.Lock()
	defer s.mu.Unlock()

	t.ID = uuid.NewString()
	s.themes = append(s.themes, t)
	return t
}

// SetActive switches the active theme. Unknown ids are a no-op.
func (s *ThemeStore) SetActive(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(id) < 0 {
		return false
	}
	s.activeID = id
	return true
}

// Active returns the active theme id.
func (s *ThemeStore) Active() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeID
}

// Get returns a theme by id.
func (s *ThemeStore) Get(id string) (domain.Theme, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return domain.Theme{}, false
	}
	return s.themes[idx], true
}

// List returns a copy of all themes.
func (s *ThemeStore) List() []domain.Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Theme, len(s.themes))
	copy(out, s.themes)
	return out
}

func (s *ThemeStore) indexOf(id string) int {
	for i, t := range s.themes {
		if t.ID == id {
			return i
		}
	}
	return -1
}
