package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pulseboard/pulseboard/internal/config"
	"github.com/pulseboard/pulseboard/internal/domain"
)

// ExportService runs asynchronous export jobs. Every submission creates an
// independent job; identical configs are never deduplicated. A job's
// expiry is fixed at submission and reads past it return not-found no
// matter what the job's internal status is.
type ExportService struct {
	jobs   map[string]*domain.ExportJob
	jobsMu sync.RWMutex

	ttl   time.Duration
	delay time.Duration
	now   func() time.Time

	hub    *EventHub
	logger *zap.Logger
}

// NewExportService creates the export subsystem.
func NewExportService(cfg *config.Config, hub *EventHub, logger *zap.Logger) *ExportService {
	return &ExportService{
		jobs:   make(map[string]*domain.ExportJob),
		ttl:    cfg.Export.TTL,
		delay:  cfg.Export.ProcessingDelay,
		now:    time.Now,
		hub:    hub,
		logger: logger,
	}
}

// Submit creates a job in pending state and schedules its completion
// after the configured processing delay. There is no cancellation
// primitive: an in-flight job always resolves.
func (s *ExportService) Submit(cfg domain.ExportConfig) (domain.ExportJob, error) {
	if !cfg.Format.Valid() {
		var errs domain.ValidationErrors
		errs.Add("format", "format must be one of: pdf, csv, excel, png")
		return domain.ExportJob{}, errs
	}

	now := s.now()
	job := &domain.ExportJob{
		ID:        uuid.NewString(),
		Config:    cfg,
		Status:    domain.ExportPending,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	s.jobsMu.Lock()
	s.jobs[job.ID] = job
	s.jobsMu.Unlock()

	time.AfterFunc(s.delay, func() {
		s.complete(job.ID)
	})

	s.logger.Info("submitted export job",
		zap.String("job_id", job.ID),
		zap.String("format", string(cfg.Format)),
	)
	return *job, nil
}

// Get returns the current job record. Expiry is evaluated lazily against
// the fixed expiresAt; an expired and an unknown id both surface as
// domain.ErrNotFound.
func (s *ExportService) Get(id string) (domain.ExportJob, error) {
	s.jobsMu.RLock()
	defer s.jobsMu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return domain.ExportJob{}, domain.ErrNotFound
	}
	if job.Expired(s.now()) {
		return domain.ExportJob{}, domain.ErrNotFound
	}
	return *job, nil
}

// Download returns a completed job for artifact rendering. A pending or
// failed job reads as not-found, same as an expired or unknown one: the
// download URL only exists once the job completes.
func (s *ExportService) Download(id string) (domain.ExportJob, error) {
	job, err := s.Get(id)
	if err != nil {
		return domain.ExportJob{}, err
	}
	if job.Status != domain.ExportCompleted {
		return domain.ExportJob{}, domain.ErrNotFound
	}
	return job, nil
}

// RunSweep periodically deletes jobs past their expiry so memory stays
// bounded. Lazy expiry at read time never depends on this running.
func (s *ExportService) RunSweep(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-ctx.Done():
			return
		}
	}
}

func (s *ExportService) sweep() {
	now := s.now()

	s.jobsMu.Lock()
	defer s.jobsMu.Unlock()

	removed := 0
	for id, job := range s.jobs {
		if job.Expired(now) {
			delete(s.jobs, id)
			removed++
		}
	}
	if removed > 0 {
		s.logger.Info("swept expired export jobs", zap.Int("removed", removed))
	}
}

// complete moves a pending job to completed and publishes the download
// URL. Completed and failed are terminal; a job found in either state is
// left alone.
func (s *ExportService) complete(id string) {
	s.jobsMu.Lock()
	job, ok := s.jobs[id]
	if !ok || job.Status != domain.ExportPending {
		s.jobsMu.Unlock()
		return
	}
	now := s.now()
	job.Status = domain.ExportCompleted
	job.DownloadURL = fmt.Sprintf("/v1/exports/%s/download", id)
	job.CompletedAt = &now
	done := *job
	s.jobsMu.Unlock()

	if s.hub != nil {
		s.hub.Broadcast(EventExportCompleted, done)
	}
	s.logger.Info("export job completed", zap.String("job_id", id))
}
