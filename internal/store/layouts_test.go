package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pulseboard/pulseboard/internal/domain"
)

func seedLayouts(t *testing.T) *LayoutStore {
	t.Helper()
	s := NewLayoutStore()
	s.Seed([]domain.Layout{
		{
			ID:        "default",
			Name:      "Default",
			IsDefault: true,
			Widgets: []domain.Widget{
				{ID: "w1", Kind: domain.KindKPICard, Position: 0},
				{ID: "w2", Kind: domain.KindPieChart, Position: 1},
			},
			GridConfig: domain.GridConfig{Columns: 12, Gap: 16},
		},
		{
			ID:         "exec",
			Name:       "Executive",
			Widgets:    []domain.Widget{{ID: "w1", Kind: domain.KindKPICard, Position: 0}},
			GridConfig: domain.GridConfig{Columns: 8, Gap: 24},
		},
	}, "default")
	return s
}

func TestLayoutStoreCreate(t *testing.T) {
	s := NewLayoutStore()
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	created := s.Create(domain.Layout{ID: "ignored", Name: "Mine"}, now)

	assert.NotEqual(t, "ignored", created.ID, "ids are always generated")
	assert.Equal(t, now, created.CreatedAt)
	assert.Equal(t, now, created.UpdatedAt)

	got, ok := s.Get(created.ID)
	assert.True(t, ok)
	assert.Equal(t, "Mine", got.Name)
}

func TestLayoutStoreSetActiveUnknownIsNoOp(t *testing.T) {
	s := seedLayouts(t)

	_, ok := s.SetActive("ghost")
	assert.False(t, ok)
	assert.Equal(t, "default", s.Active(), "a stale switch keeps the previous active layout")

	l, ok := s.SetActive("exec")
	assert.True(t, ok)
	assert.Equal(t, "Executive", l.Name)
	assert.Equal(t, "exec", s.Active())
}

func TestLayoutStoreUpdateAtomicValidation(t *testing.T) {
	s := seedLayouts(t)
	now := time.Now()

	name := "Renamed"
	bad := domain.GridConfig{Columns: 0, Gap: 16}
	changed, err := s.Update("exec", domain.LayoutPatch{Name: &name, GridConfig: &bad}, now)

	assert.Error(t, err, "invalid grid rejects the patch")
	assert.False(t, changed)

	// The valid part of the patch must not have been applied.
	l, _ := s.Get("exec")
	assert.Equal(t, "Executive", l.Name)
	assert.Equal(t, 8, l.GridConfig.Columns)

	good := domain.GridConfig{Columns: 6, Gap: 8, Responsive: true}
	changed, err = s.Update("exec", domain.LayoutPatch{Name: &name, GridConfig: &good}, now)
	assert.NoError(t, err)
	assert.True(t, changed)

	l, _ = s.Get("exec")
	assert.Equal(t, "Renamed", l.Name)
	assert.Equal(t, 6, l.GridConfig.Columns)
}

func TestLayoutStoreDeleteFallback(t *testing.T) {
	t.Run("inactive layout leaves active untouched", func(t *testing.T) {
		s := seedLayouts(t)
		successor, removed := s.Delete("exec")
		assert.True(t, removed)
		assert.Nil(t, successor)
		assert.Equal(t, "default", s.Active())
	})

	t.Run("active layout falls back to default", func(t *testing.T) {
		s := seedLayouts(t)
		s.SetActive("exec")

		successor, removed := s.Delete("exec")
		assert.True(t, removed)
		assert.NotNil(t, successor)
		assert.Equal(t, "default", successor.ID)
		assert.Equal(t, "default", s.Active())
	})

	t.Run("no default falls back to first remaining", func(t *testing.T) {
		s := NewLayoutStore()
		s.Seed([]domain.Layout{
			{ID: "a", Name: "A"},
			{ID: "b", Name: "B"},
		}, "b")

		successor, removed := s.Delete("b")
		assert.True(t, removed)
		assert.NotNil(t, successor)
		assert.Equal(t, "a", successor.ID)
		assert.Equal(t, "a", s.Active())
	})

	t.Run("last layout leaves no active id", func(t *testing.T) {
		s := NewLayoutStore()
		s.Seed([]domain.Layout{{ID: "only", Name: "Only"}}, "only")

		successor, removed := s.Delete("only")
		assert.True(t, removed)
		assert.Nil(t, successor)
		assert.Equal(t, "", s.Active())
	})

	t.Run("unknown id", func(t *testing.T) {
		s := seedLayouts(t)
		successor, removed := s.Delete("ghost")
		assert.False(t, removed)
		assert.Nil(t, successor)
	})
}

func TestLayoutStoreRemoveWidgetRefs(t *testing.T) {
	s := seedLayouts(t)

	s.RemoveWidgetRefs("w1")

	def, _ := s.Get("default")
	assert.Len(t, def.Widgets, 1)
	assert.Equal(t, "w2", def.Widgets[0].ID)
	assert.Equal(t, 0, def.Widgets[0].Position, "snapshots are renumbered")

	exec, _ := s.Get("exec")
	assert.Empty(t, exec.Widgets)
}

func TestLayoutStoreSnapshotsAreOwned(t *testing.T) {
	s := NewLayoutStore()
	s.Seed([]domain.Layout{{
		ID:   "l1",
		Name: "L1",
		Widgets: []domain.Widget{
			{ID: "w0", Position: 0},
			{ID: "w1", Position: 1},
			{ID: "w2", Position: 2},
		},
	}}, "l1")

	// A copy handed out earlier must not change under later mutations.
	before, ok := s.Get("l1")
	assert.True(t, ok)

	s.RemoveWidgetRefs("w0")

	assert.Len(t, before.Widgets, 3)
	assert.Equal(t, "w0", before.Widgets[0].ID)
	assert.Equal(t, "w1", before.Widgets[1].ID)
	assert.Equal(t, "w2", before.Widgets[2].ID)

	// Nor may a caller mutate the store through a returned copy.
	listed := s.List()
	listed[0].Widgets[0].ID = "mutated"
	after, _ := s.Get("l1")
	assert.Equal(t, "w1", after.Widgets[0].ID)

	// The seed slice is not aliased either.
	seed := []domain.Layout{{ID: "l2", Widgets: []domain.Widget{{ID: "x"}}}}
	s.Seed(seed, "l2")
	seed[0].Widgets[0].ID = "clobbered"
	got, _ := s.Get("l2")
	assert.Equal(t, "x", got.Widgets[0].ID)
}
