package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pulseboard/pulseboard/internal/domain"
)

func seedWidgets(t *testing.T, ids ...string) *WidgetStore {
	t.Helper()
	s := NewWidgetStore()
	for _, id := range ids {
		s.Add(domain.Widget{
			ID:     id,
			Kind:   domain.KindKPICard,
			Title:  id,
			Width:  domain.WidthSmall,
			Height: domain.HeightSmall,
		})
	}
	return s
}

func widgetIDs(widgets []domain.Widget) []string {
	out := make([]string, len(widgets))
	for i, w := range widgets {
		out[i] = w.ID
	}
	return out
}

func TestWidgetStoreAdd(t *testing.T) {
	s := NewWidgetStore()

	first := s.Add(domain.Widget{Kind: domain.KindKPICard, Position: 99, IsExpanded: true})
	second := s.Add(domain.Widget{ID: "w2", Kind: domain.KindPieChart})

	assert.NotEmpty(t, first.ID, "missing id should be generated")
	assert.Equal(t, 0, first.Position, "position is assigned, not taken from input")
	assert.False(t, first.IsExpanded, "widgets are added collapsed")
	assert.Equal(t, "w2", second.ID)
	assert.Equal(t, 1, second.Position)
}

func TestWidgetStoreRemoveRenumbers(t *testing.T) {
	s := seedWidgets(t, "a", "b", "c", "d")

	assert.True(t, s.Remove("b"))
	assert.False(t, s.Remove("b"), "second remove is a no-op")

	widgets := s.List()
	assert.Equal(t, []string{"a", "c", "d"}, widgetIDs(widgets))
	for i, w := range widgets {
		assert.Equal(t, i, w.Position)
	}
}

func TestWidgetStoreMove(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		position int
		want     []string
	}{
		{"to front", "c", 0, []string{"c", "a", "b", "d"}},
		{"to back", "a", 3, []string{"b", "c", "d", "a"}},
		{"to middle", "d", 1, []string{"a", "d", "b", "c"}},
		{"negative clamps to front", "b", -5, []string{"b", "a", "c", "d"}},
		{"past end clamps to back", "b", 42, []string{"a", "c", "d", "b"}},
		{"same position", "b", 1, []string{"a", "b", "c", "d"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := seedWidgets(t, "a", "b", "c", "d")
			assert.True(t, s.Move(tt.id, tt.position))

			widgets := s.List()
			assert.Equal(t, tt.want, widgetIDs(widgets))
			for i, w := range widgets {
				assert.Equal(t, i, w.Position, "positions must be 0..n-1 after a move")
			}
		})
	}

	t.Run("unknown id", func(t *testing.T) {
		s := seedWidgets(t, "a", "b")
		assert.False(t, s.Move("nope", 0))
		assert.Equal(t, []string{"a", "b"}, widgetIDs(s.List()))
	})
}

func TestWidgetStoreReorder(t *testing.T) {
	t.Run("full permutation", func(t *testing.T) {
		s := seedWidgets(t, "a", "b", "c")
		dropped := s.Reorder([]string{"c", "a", "b"})

		assert.Empty(t, dropped)
		assert.Equal(t, []string{"c", "a", "b"}, widgetIDs(s.List()))
	})

	t.Run("omitted widgets are dropped", func(t *testing.T) {
		s := seedWidgets(t, "a", "b", "c")
		dropped := s.Reorder([]string{"c", "a"})

		assert.Equal(t, []string{"b"}, dropped)
		widgets := s.List()
		assert.Equal(t, []string{"c", "a"}, widgetIDs(widgets))
		assert.Equal(t, 0, widgets[0].Position)
		assert.Equal(t, 1, widgets[1].Position)
	})

	t.Run("unknown ids are skipped", func(t *testing.T) {
		s := seedWidgets(t, "a", "b")
		dropped := s.Reorder([]string{"b", "ghost", "a"})

		assert.Empty(t, dropped)
		assert.Equal(t, []string{"b", "a"}, widgetIDs(s.List()))
	})
}

func TestWidgetStoreSingleExpansion(t *testing.T) {
	s := seedWidgets(t, "a", "b", "c")

	assert.True(t, s.Expand("a"))
	assert.Equal(t, "a", s.Expanded())

	// Expanding another widget collapses the first.
	assert.True(t, s.Expand("b"))
	assert.Equal(t, "b", s.Expanded())

	expanded := 0
	for _, w := range s.List() {
		if w.IsExpanded {
			expanded++
		}
	}
	assert.Equal(t, 1, expanded)

	s.Collapse()
	assert.Equal(t, "", s.Expanded())

	assert.False(t, s.Expand("ghost"))
}

func TestWidgetStoreReplaceData(t *testing.T) {
	s := seedWidgets(t, "a")
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	ok := s.ReplaceData("a", domain.KPICardPayload{Value: 42}, at)
	assert.True(t, ok)

	w, _ := s.Get("a")
	assert.Equal(t, at, w.LastUpdated)
	payload, isKPI := w.Data.(domain.KPICardPayload)
	assert.True(t, isKPI)
	assert.Equal(t, float64(42), payload.Value)

	assert.False(t, s.ReplaceData("ghost", domain.KPICardPayload{}, at))
}

func TestWidgetStoreReplaceClearsExpansion(t *testing.T) {
	s := seedWidgets(t, "a", "b")
	s.Expand("a")

	s.Replace([]domain.Widget{
		{ID: "x", Kind: domain.KindLineChart, Position: 7, IsExpanded: true},
		{ID: "y", Kind: domain.KindPieChart, Position: 3},
	})

	widgets := s.List()
	assert.Equal(t, []string{"x", "y"}, widgetIDs(widgets))
	assert.Equal(t, 0, widgets[0].Position)
	assert.Equal(t, 1, widgets[1].Position)
	assert.Equal(t, "", s.Expanded())
}

func TestWidgetStoreUpdate(t *testing.T) {
	s := seedWidgets(t, "a")

	title := "Revenue"
	width := domain.WidthFull
	interval := 10 * time.Second
	ok := s.Update("a", domain.WidgetPatch{
		Title:           &title,
		Width:           &width,
		RefreshInterval: &interval,
	})
	assert.True(t, ok)

	w, _ := s.Get("a")
	assert.Equal(t, "Revenue", w.Title)
	assert.Equal(t, domain.WidthFull, w.Width)
	assert.Equal(t, 10*time.Second, w.RefreshInterval)
	assert.Equal(t, domain.HeightSmall, w.Height, "unset fields are untouched")

	assert.False(t, s.Update("ghost", domain.WidgetPatch{Title: &title}))
}
