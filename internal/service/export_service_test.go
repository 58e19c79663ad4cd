package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/pulseboard/pulseboard/internal/config"
	"github.com/pulseboard/pulseboard/internal/domain"
)

func newExportService(t *testing.T) (*ExportService, *time.Time) {
	t.Helper()
	cfg := &config.Config{
		Export: config.ExportConfig{
			TTL:             24 * time.Hour,
			ProcessingDelay: time.Hour, // completion driven manually in tests
		},
	}
	s := NewExportService(cfg, nil, zap.NewNop())

	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }
	return s, &clock
}

func TestExportSubmit(t *testing.T) {
	s, clock := newExportService(t)

	job, err := s.Submit(domain.ExportConfig{Format: domain.FormatPDF, Title: "Q1"})
	assert.NoError(t, err)
	assert.NotEmpty(t, job.ID)
	assert.Equal(t, domain.ExportPending, job.Status)
	assert.Equal(t, *clock, job.CreatedAt)
	assert.Equal(t, clock.Add(24*time.Hour), job.ExpiresAt)

	// Identical configs make independent jobs.
	again, err := s.Submit(domain.ExportConfig{Format: domain.FormatPDF, Title: "Q1"})
	assert.NoError(t, err)
	assert.NotEqual(t, job.ID, again.ID)
}

func TestExportSubmitRejectsUnknownFormat(t *testing.T) {
	s, _ := newExportService(t)

	_, err := s.Submit(domain.ExportConfig{Format: "docx"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestExportComplete(t *testing.T) {
	s, _ := newExportService(t)

	job, _ := s.Submit(domain.ExportConfig{Format: domain.FormatCSV})
	s.complete(job.ID)

	done, err := s.Get(job.ID)
	assert.NoError(t, err)
	assert.Equal(t, domain.ExportCompleted, done.Status)
	assert.Equal(t, "/v1/exports/"+job.ID+"/download", done.DownloadURL)
	assert.NotNil(t, done.CompletedAt)

	// Completed is terminal; a second completion changes nothing.
	first := *done.CompletedAt
	s.complete(job.ID)
	done, _ = s.Get(job.ID)
	assert.Equal(t, first, *done.CompletedAt)
}

func TestExportExpiryReadsAsNotFound(t *testing.T) {
	s, clock := newExportService(t)

	job, _ := s.Submit(domain.ExportConfig{Format: domain.FormatPNG})
	s.complete(job.ID)

	// Exactly at expiresAt the job is still readable.
	*clock = job.ExpiresAt
	_, err := s.Get(job.ID)
	assert.NoError(t, err)

	// One instant past expiry it reads as not found, same as an unknown id.
	*clock = job.ExpiresAt.Add(time.Millisecond)
	_, err = s.Get(job.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, unknownErr := s.Get("ghost")
	assert.Equal(t, unknownErr, err, "expired and unknown are indistinguishable")
}

func TestExportDownloadRequiresCompletion(t *testing.T) {
	s, _ := newExportService(t)

	job, _ := s.Submit(domain.ExportConfig{Format: domain.FormatCSV})

	// The download URL does not exist until the job completes.
	_, err := s.Download(job.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	s.complete(job.ID)
	done, err := s.Download(job.ID)
	assert.NoError(t, err)
	assert.Equal(t, domain.ExportCompleted, done.Status)
}

func TestExportSweepRemovesExpired(t *testing.T) {
	s, clock := newExportService(t)

	expired, _ := s.Submit(domain.ExportConfig{Format: domain.FormatExcel})
	*clock = clock.Add(12 * time.Hour)
	fresh, _ := s.Submit(domain.ExportConfig{Format: domain.FormatExcel})

	*clock = expired.ExpiresAt.Add(time.Minute)
	s.sweep()

	s.jobsMu.RLock()
	_, hasExpired := s.jobs[expired.ID]
	_, hasFresh := s.jobs[fresh.ID]
	s.jobsMu.RUnlock()

	assert.False(t, hasExpired)
	assert.True(t, hasFresh)
}
