package store

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pulseboard/pulseboard/internal/domain"
)

// GoalStore holds tracked goals. Status is derived on every read via
// domain.DeriveStatus; the store never persists a status field.
type GoalStore struct {
	mu    sync.RWMutex
	goals []domain.Goal
	slack float64
}

// NewGoalStore creates an empty goal store with the given at-risk slack.
func NewGoalStore(slack float64) *GoalStore {
	return &GoalStore{slack: slack}
}

// Seed installs restored goals.
func (s *GoalStore) Seed(goals []domain.Goal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.goals = make([]domain.Goal, len(goals))
	copy(s.goals, goals)
	for i := range s.goals {
		s.goals[i].Status = ""
	}
}

// Add stamps a new goal and stores it.
func (s *GoalStore) Add(g domain.Goal, now time.Time) domain.Goal {
	s.mu.Lock()
	defer s.mu.Unlock()

	g.ID = uuid.NewString()
	g.CreatedAt = now
	g.UpdatedAt = now
	g.Status = ""
	s.goals = append(s.goals, g)
	return s.derived(g, now)
}

// Update applies a patch. The patch is validated as a whole first and
// carries no status field, so callers cannot assert completion. Unknown
// ids are a no-op.
func (s *GoalStore) Update(id string, patch domain.GoalPatch, now time.Time) (domain.Goal, bool, error) {
	if err := patch.Validate(); err != nil {
		return domain.Goal{}, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return domain.Goal{}, false, nil
	}
	patch.Apply(&s.goals[idx])
	s.goals[idx].UpdatedAt = now
	return s.derived(s.goals[idx], now), true, nil
}

// Delete removes a goal. Unknown ids are a no-op.
func (s *GoalStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return false
	}
	s.goals = append(s.goals[:idx], s.goals[idx+1:]...)
	return true
}

// Get returns a goal with its status derived at the given instant.
func (s *GoalStore) Get(id string, now time.Time) (domain.Goal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return domain.Goal{}, false
	}
	return s.derived(s.goals[idx], now), true
}

// List returns all goals with statuses derived at the given instant.
func (s *GoalStore) List(now time.Time) []domain.Goal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Goal, len(s.goals))
	for i, g := range s.goals {
		out[i] = s.derived(g, now)
	}
	return out
}

// Raw returns the stored goals without derived statuses, for persistence.
func (s *GoalStore) Raw() []domain.Goal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Goal, len(s.goals))
	copy(out, s.goals)
	return out
}

// Summary aggregates goals by derived status.
func (s *GoalStore) Summary(now time.Time) domain.GoalSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summary := domain.GoalSummary{Total: len(s.goals)}
	for _, g := range s.goals {
		switch domain.DeriveStatus(g, now, s.slack) {
		case domain.StatusOnTrack:
			summary.OnTrack++
		case domain.StatusAtRisk:
			summary.AtRisk++
		case domain.StatusBehind:
			summary.Behind++
		case domain.StatusCompleted:
			summary.Completed++
		}
	}
	return summary
}

func (s *GoalStore) derived(g domain.Goal, now time.Time) domain.Goal {
	g.Status = domain.DeriveStatus(g, now, s.slack)
	return g
}

func (s *GoalStore) indexOf(id string) int {
	for i, g := range s.goals {
		if g.ID == id {
			return i
		}
	}
	return -1
}
