package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulseboard/pulseboard/internal/domain"
)

func TestCollabFilters(t *testing.T) {
	s := NewCollabStore()

	f := s.AddFilter(domain.GlobalFilter{Field: "region", Operator: "eq", Value: "EMEA"})
	assert.NotEmpty(t, f.ID)

	assert.True(t, s.UpdateFilter(f.ID, domain.GlobalFilter{Field: "region", Operator: "neq", Value: "EMEA"}))
	assert.False(t, s.UpdateFilter("ghost", domain.GlobalFilter{}))

	filters := s.Filters()
	require.Len(t, filters, 1)
	assert.Equal(t, f.ID, filters[0].ID, "update keeps the original id")
	assert.Equal(t, "neq", filters[0].Operator)

	assert.True(t, s.RemoveFilter(f.ID))
	assert.False(t, s.RemoveFilter(f.ID))
	assert.Empty(t, s.Filters())
}

func TestCollabSearchQuery(t *testing.T) {
	s := NewCollabStore()

	assert.Empty(t, s.SearchQuery())
	s.SetSearchQuery("revenue")
	assert.Equal(t, "revenue", s.SearchQuery())
	s.SetSearchQuery("")
	assert.Empty(t, s.SearchQuery())
}

func TestCollabComments(t *testing.T) {
	s := NewCollabStore()
	now := time.Now()

	c := s.AddComment(domain.Comment{WidgetID: "w1", Author: "ana", Text: "spike?"}, now)
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, now, c.Timestamp)

	text := "spike resolved"
	resolved := true
	assert.True(t, s.UpdateComment(c.ID, domain.CommentPatch{Text: &text, Resolved: &resolved}))

	comments := s.Comments()
	require.Len(t, comments, 1)
	assert.Equal(t, "spike resolved", comments[0].Text)
	assert.True(t, comments[0].Resolved)

	assert.True(t, s.DeleteComment(c.ID))
	assert.Empty(t, s.Comments())
}

func TestCollabDatasets(t *testing.T) {
	s := NewCollabStore()
	now := time.Now()

	d := s.AddDataset(domain.Dataset{
		Name: "q1-revenue.csv",
		Rows: []map[string]any{{"month": "jan", "value": 1200.0}},
	}, now)
	assert.NotEmpty(t, d.ID)
	assert.Equal(t, now, d.UploadedAt)

	datasets := s.Datasets()
	require.Len(t, datasets, 1)
	assert.Equal(t, "q1-revenue.csv", datasets[0].Name)

	assert.False(t, s.RemoveDataset("ghost"))
	assert.True(t, s.RemoveDataset(d.ID))
	assert.Empty(t, s.Datasets())
}

func TestCollabPresencePruning(t *testing.T) {
	s := NewCollabStore()
	base := time.Now()

	s.TouchUser(domain.ActiveUser{ID: "u1", Name: "Ana"}, base)
	s.TouchUser(domain.ActiveUser{ID: "u2", Name: "Bo"}, base.Add(90*time.Second))

	// Touching again refreshes lastSeen, so u1 survives the prune below.
	s.TouchUser(domain.ActiveUser{ID: "u1", Name: "Ana"}, base.Add(100*time.Second))

	s.PruneUsers(base.Add(100*time.Second), 2*time.Minute)
	assert.Len(t, s.ActiveUsers(), 2)

	s.PruneUsers(base.Add(100*time.Second+2*time.Minute+time.Millisecond), 2*time.Minute)
	users := s.ActiveUsers()
	assert.Empty(t, users)
}

func TestCollabSettingsMirrors(t *testing.T) {
	s := NewCollabStore()

	s.MirrorTheme("dark")
	s.MirrorLayout("executive")
	settings := s.Settings()
	assert.Equal(t, "dark", settings.Theme)
	assert.Equal(t, "executive", settings.Layout)

	// Partial update touches only the provided fields.
	tz := "Europe/Berlin"
	updated := s.UpdateSettings(domain.SettingsPatch{Timezone: &tz})
	assert.Equal(t, "Europe/Berlin", updated.Timezone)
	assert.Equal(t, "dark", updated.Theme)
	assert.Equal(t, "executive", updated.Layout)
}

func TestCollabCustomizing(t *testing.T) {
	s := NewCollabStore()

	assert.False(t, s.Customizing())
	s.SetCustomizing(true)
	assert.True(t, s.Customizing())
	s.SetCustomizing(false)
	assert.False(t, s.Customizing())
}
