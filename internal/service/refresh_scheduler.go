package service

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pulseboard/pulseboard/internal/domain"
)

// RefreshTarget is the callback invoked on every widget tick. An error is
// confined to the failing widget; other timers are unaffected.
type RefreshTarget interface {
	RefreshWidget(id string) error
}

// RefreshScheduler runs one independent timer per widget with a positive
// refresh interval. Intervals are deliberately not aligned to a shared
// tick, so widgets drift relative to each other.
//
// The global realtime gate suspends all timers without discarding their
// configured intervals; re-enabling restarts every countdown from zero.
type RefreshScheduler struct {
	mu        sync.Mutex
	timers    map[string]*time.Timer
	intervals map[string]time.Duration
	realtime  bool
	stopped   bool

	target      RefreshTarget
	minInterval time.Duration
	logger      *zap.Logger
}

// NewRefreshScheduler creates a scheduler. realtime is the initial gate
// state; the target is attached separately to break the construction
// cycle with the dashboard service.
func NewRefreshScheduler(realtime bool, minInterval time.Duration, logger *zap.Logger) *RefreshScheduler {
	return &RefreshScheduler{
		timers:      make(map[string]*time.Timer),
		intervals:   make(map[string]time.Duration),
		realtime:    realtime,
		minInterval: minInterval,
		logger:      logger,
	}
}

// AttachTarget sets the refresh callback. Must be called before Schedule.
func (s *RefreshScheduler) AttachTarget(target RefreshTarget) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.target = target
}

// Schedule installs (or replaces) a widget's timer. A non-positive
// interval cancels any existing timer: such widgets never auto-refresh.
func (s *RefreshScheduler) Schedule(w domain.Widget) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}

	s.cancelLocked(w.ID)

	if w.RefreshInterval <= 0 {
		delete(s.intervals, w.ID)
		return
	}

	interval := w.RefreshInterval
	if interval < s.minInterval {
		interval = s.minInterval
	}
	s.intervals[w.ID] = interval

	if s.realtime {
		s.armLocked(w.ID, interval)
	}
}

// Cancel removes a widget's timer and configuration, used when the widget
// itself is removed.
func (s *RefreshScheduler) Cancel(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelLocked(id)
	delete(s.intervals, id)
}

// ScheduleAll replaces the entire schedule with the given widget set,
// used after a layout switch or reset.
func (s *RefreshScheduler) ScheduleAll(widgets []domain.Widget) {
	s.mu.Lock()
	for id := range s.timers {
		s.cancelLocked(id)
	}
	s.intervals = make(map[string]time.Duration)
	s.mu.Unlock()

	for _, w := range widgets {
		s.Schedule(w)
	}
}

// SetRealTime toggles the global gate. Disabling suspends every timer but
// keeps the configured intervals; enabling re-arms each timer with its
// full interval. There is no resumption of partially elapsed countdowns.
func (s *RefreshScheduler) SetRealTime(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.realtime == enabled || s.stopped {
		s.realtime = enabled
		return
	}
	s.realtime = enabled

	if !enabled {
		for id := range s.timers {
			s.cancelLocked(id)
		}
		s.logger.Info("real-time refresh suspended")
		return
	}

	for id, interval := range s.intervals {
		s.armLocked(id, interval)
	}
	s.logger.Info("real-time refresh resumed", zap.Int("widgets", len(s.intervals)))
}

// RealTime reports the gate state.
func (s *RefreshScheduler) RealTime() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.realtime
}

// Stop cancels everything; the scheduler cannot be restarted.
func (s *RefreshScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopped = true
	for id := range s.timers {
		s.cancelLocked(id)
	}
	s.logger.Info("refresh scheduler stopped")
}

func (s *RefreshScheduler) armLocked(id string, interval time.Duration) {
	s.timers[id] = time.AfterFunc(interval, func() {
		s.tick(id)
	})
}

func (s *RefreshScheduler) cancelLocked(id string) {
	if t, ok := s.timers[id]; ok {
		t.Stop()
		delete(s.timers, id)
	}
}

// tick runs one widget refresh and re-arms that widget's timer. A failed
// producer leaves the widget's data and lastUpdated untouched and never
// touches any other widget's timer.
func (s *RefreshScheduler) tick(id string) {
	s.mu.Lock()
	target := s.target
	gated := !s.realtime || s.stopped
	s.mu.Unlock()

	if gated || target == nil {
		return
	}

	if err := target.RefreshWidget(id); err != nil {
		s.logger.Warn("widget refresh failed, keeping stale data",
			zap.String("widget_id", id),
			zap.Error(err),
		)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped || !s.realtime {
		return
	}
	interval, ok := s.intervals[id]
	if !ok {
		// Widget was removed while refreshing.
		return
	}
	// Schedule may have armed a fresh timer while this tick was off the
	// lock; replace it rather than stack a second chain.
	s.cancelLocked(id)
	s.armLocked(id, interval)
}
