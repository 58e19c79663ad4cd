package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pulseboard/pulseboard/internal/domain"
)

func TestPipelineNewestFirst(t *testing.T) {
	p := NewPipeline[domain.Alert]()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	first := p.Add(domain.Alert{Title: "first"}, base)
	second := p.Add(domain.Alert{Title: "second"}, base.Add(time.Minute))
	third := p.Add(domain.Alert{Title: "third"}, base.Add(2*time.Minute))

	entries := p.List()
	assert.Equal(t, []string{"third", "second", "first"},
		[]string{entries[0].Title, entries[1].Title, entries[2].Title})

	assert.NotEmpty(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, base.Add(2*time.Minute), third.Timestamp)
}

func TestPipelineAddStampsOverInput(t *testing.T) {
	p := NewPipeline[domain.Alert]()

	added := p.Add(domain.Alert{ID: "caller-chosen", Timestamp: time.Unix(0, 0)}, time.Now())

	assert.NotEqual(t, "caller-chosen", added.ID, "ids are always assigned by the pipeline")
	assert.False(t, added.Timestamp.IsZero())
}

func TestPipelineDismissIdempotent(t *testing.T) {
	p := NewPipeline[domain.Insight]()
	added := p.Add(domain.Insight{Title: "spike"}, time.Now())

	assert.True(t, p.Dismiss(added.ID))
	assert.False(t, p.Dismiss(added.ID), "dismissing twice is a no-op")
	assert.False(t, p.Dismiss("ghost"))
	assert.Equal(t, 0, p.Len())
}

func TestPipelineClear(t *testing.T) {
	p := NewPipeline[domain.Notification]()
	p.Add(domain.Notification{Title: "a"}, time.Now())
	p.Add(domain.Notification{Title: "b"}, time.Now())

	p.Clear()
	assert.Equal(t, 0, p.Len())
	assert.Empty(t, p.List())
}

func TestNotificationStoreUnreadCount(t *testing.T) {
	s := NewNotificationStore()
	now := time.Now()

	a := s.Add(domain.Notification{Title: "a"}, now)
	b := s.Add(domain.Notification{Title: "b"}, now)
	s.Add(domain.Notification{Title: "c"}, now)

	assert.Equal(t, 3, s.UnreadCount())

	assert.True(t, s.MarkRead(a.ID))
	assert.Equal(t, 2, s.UnreadCount())

	// Marking read is idempotent.
	assert.True(t, s.MarkRead(a.ID))
	assert.Equal(t, 2, s.UnreadCount())

	assert.False(t, s.MarkRead("ghost"))

	// Dismissing an unread notification lowers the count; it is derived,
	// never cached.
	s.Dismiss(b.ID)
	assert.Equal(t, 1, s.UnreadCount())
}
