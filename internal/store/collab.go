package store

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pulseboard/pulseboard/internal/domain"
)

// CollabStore holds the collaboration and preference bags: global filters,
// the search query, comments, uploaded datasets, active users, settings and
// the customization flag. These are plain attribute bags; the only
// invariant is id uniqueness.
type CollabStore struct {
	mu            sync.RWMutex
	filters       []domain.GlobalFilter
	searchQuery   string
	comments      []domain.Comment
	datasets      []domain.Dataset
	activeUsers   map[string]domain.ActiveUser
	settings      domain.DashboardSettings
	isCustomizing bool
}

// NewCollabStore creates a store with default settings.
func NewCollabStore() *CollabStore {
	return &CollabStore{
		activeUsers: make(map[string]domain.ActiveUser),
		settings:    domain.DefaultSettings(),
	}
}

// AddFilter stamps and stores a global filter.
func (s *CollabStore) AddFilter(f domain.GlobalFilter) domain.GlobalFilter {
	s.mu.Lock()
	defer s.mu.Unlock()

	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	s.filters = append(s.filters, f)
	return f
}

// UpdateFilter patches a filter in place. Unknown ids are a no-op.
func (s *CollabStore) UpdateFilter(id string, update domain.GlobalFilter) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.filters {
		if s.filters[i].ID == id {
			update.ID = id
			s.filters[i] = update
			return true
		}
	}
	return false
}

// RemoveFilter deletes a filter. Unknown ids are a no-op.
func (s *CollabStore) RemoveFilter(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.filters {
		if s.filters[i].ID == id {
			s.filters = append(s.filters[:i], s.filters[i+1:]...)
			return true
		}
	}
	return false
}

// Filters returns a copy of the filters.
func (s *CollabStore) Filters() []domain.GlobalFilter {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.GlobalFilter, len(s.filters))
	copy(out, s.filters)
	return out
}

// SetSearchQuery records the global search query.
func (s *CollabStore) SetSearchQuery(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchQuery = q
}

// SearchQuery returns the global search query.
func (s *CollabStore) SearchQuery() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.searchQuery
}

// AddComment stamps and stores a comment.
func (s *CollabStore) AddComment(c domain.Comment, now time.Time) domain.Comment {
	s.mu.Lock()
	defer s.mu.Unlock()

	c.ID = uuid.NewString()
	c.Timestamp = now
	s.comments = append(s.comments, c)
	return c
}

// UpdateComment patches a comment. Unknown ids are a no-op.
func (s *CollabStore) UpdateComment(id string, patch domain.CommentPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.comments {
		if s.comments[i].ID == id {
			patch.Apply(&s.comments[i])
			return true
		}
	}
	return false
}

// DeleteComment removes a comment. Unknown ids are a no-op.
func (s *CollabStore) DeleteComment(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.comments {
		if s.comments[i].ID == id {
			s.comments = append(s.comments[:i], s.comments[i+1:]...)
			return true
		}
	}
	return false
}

// Comments returns a copy of all comments.
func (s *CollabStore) Comments() []domain.Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Comment, len(s.comments))
	copy(out, s.comments)
	return out
}

// AddDataset stamps and stores an uploaded dataset.
func (s *CollabStore) AddDataset(d domain.Dataset, now time.Time) domain.Dataset {
	s.mu.Lock()
	defer s.mu.Unlock()

	d.ID = uuid.NewString()
	d.UploadedAt = now
	s.datasets = append(s.datasets, d)
	return d
}

// RemoveDataset deletes a dataset. Unknown ids are a no-op.
func (s *CollabStore) RemoveDataset(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.datasets {
		if s.datasets[i].ID == id {
			s.datasets = append(s.datasets[:i], s.datasets[i+1:]...)
			return true
		}
	}
	return false
}

// Datasets returns a copy of the uploaded datasets.
func (s *CollabStore) Datasets() []domain.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Dataset, len(s.datasets))
	copy(out, s.datasets)
	return out
}

// TouchUser upserts a user's presence entry.
func (s *CollabStore) TouchUser(u domain.ActiveUser, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u.LastSeen = now
	s.activeUsers[u.ID] = u
}

// PruneUsers drops users not seen within maxAge.
func (s *CollabStore) PruneUsers(now time.Time, maxAge time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, u := range s.activeUsers {
		if now.Sub(u.LastSeen) > maxAge {
			delete(s.activeUsers, id)
		}
	}
}

// ActiveUsers returns the present collaborators.
func (s *CollabStore) ActiveUsers() []domain.ActiveUser {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.ActiveUser, 0, len(s.activeUsers))
	for _, u := range s.activeUsers {
		out = append(out, u)
	}
	return out
}

// Settings returns a copy of the settings.
func (s *CollabStore) Settings() domain.DashboardSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// SeedSettings replaces the settings from a restored snapshot.
func (s *CollabStore) SeedSettings(settings domain.DashboardSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
}

// UpdateSettings applies a partial settings update.
func (s *CollabStore) UpdateSettings(patch domain.SettingsPatch) domain.DashboardSettings {
	s.mu.Lock()
	defer s.mu.Unlock()

	patch.Apply(&s.settings)
	return s.settings
}

// MirrorTheme writes the active theme id into the settings copy. Called
// under the same logical operation as the theme switch so the two never
// diverge.
func (s *CollabStore) MirrorTheme(themeID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.Theme = themeID
}

// MirrorLayout writes the active layout id into the settings copy.
func (s *CollabStore) MirrorLayout(layoutID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.Layout = layoutID
}

// SetCustomizing toggles edit mode.
func (s *CollabStore) SetCustomizing(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isCustomizing = on
}

// Customizing reports whether edit mode is on.
func (s *CollabStore) Customizing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isCustomizing
}
