package service

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/pulseboard/pulseboard/internal/domain"
)

type recordingTarget struct {
	mu      sync.Mutex
	counts  map[string]int
	failing map[string]bool
}

func newRecordingTarget() *recordingTarget {
	return &recordingTarget{
		counts:  make(map[string]int),
		failing: make(map[string]bool),
	}
}

func (r *recordingTarget) RefreshWidget(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts[id]++
	if r.failing[id] {
		return errors.New("producer unavailable")
	}
	return nil
}

func (r *recordingTarget) count(id string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[id]
}

func testWidget(id string, interval time.Duration) domain.Widget {
	return domain.Widget{ID: id, Kind: domain.KindKPICard, RefreshInterval: interval}
}

func TestSchedulerTicksIndependently(t *testing.T) {
	target := newRecordingTarget()
	s := NewRefreshScheduler(true, time.Millisecond, zap.NewNop())
	s.AttachTarget(target)
	defer s.Stop()

	s.Schedule(testWidget("fast", 10*time.Millisecond))
	s.Schedule(testWidget("slow", 50*time.Millisecond))

	time.Sleep(120 * time.Millisecond)

	assert.GreaterOrEqual(t, target.count("fast"), 3)
	assert.GreaterOrEqual(t, target.count("slow"), 1)
	assert.Greater(t, target.count("fast"), target.count("slow"))
}

func TestSchedulerFailureIsConfined(t *testing.T) {
	target := newRecordingTarget()
	target.failing["bad"] = true

	s := NewRefreshScheduler(true, time.Millisecond, zap.NewNop())
	s.AttachTarget(target)
	defer s.Stop()

	s.Schedule(testWidget("bad", 10*time.Millisecond))
	s.Schedule(testWidget("good", 10*time.Millisecond))

	time.Sleep(100 * time.Millisecond)

	// The failing widget keeps ticking and the healthy one is unaffected.
	assert.GreaterOrEqual(t, target.count("bad"), 2)
	assert.GreaterOrEqual(t, target.count("good"), 2)
}

func TestSchedulerZeroIntervalNeverTicks(t *testing.T) {
	target := newRecordingTarget()
	s := NewRefreshScheduler(true, time.Millisecond, zap.NewNop())
	s.AttachTarget(target)
	defer s.Stop()

	s.Schedule(testWidget("manual", 0))

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, target.count("manual"))
}

func TestSchedulerRealTimeGate(t *testing.T) {
	target := newRecordingTarget()
	s := NewRefreshScheduler(true, time.Millisecond, zap.NewNop())
	s.AttachTarget(target)
	defer s.Stop()

	s.Schedule(testWidget("w", 10*time.Millisecond))
	time.Sleep(50 * time.Millisecond)

	s.SetRealTime(false)
	assert.False(t, s.RealTime())
	before := target.count("w")

	time.Sleep(60 * time.Millisecond)
	// One in-flight tick may land right after gating; nothing beyond that.
	assert.LessOrEqual(t, target.count("w"), before+1)

	s.SetRealTime(true)
	assert.True(t, s.RealTime())
	time.Sleep(60 * time.Millisecond)
	assert.Greater(t, target.count("w"), before, "re-enabling restarts countdowns")
}

func TestSchedulerGateOffAtConstruction(t *testing.T) {
	target := newRecordingTarget()
	s := NewRefreshScheduler(false, time.Millisecond, zap.NewNop())
	s.AttachTarget(target)
	defer s.Stop()

	s.Schedule(testWidget("w", 10*time.Millisecond))
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, target.count("w"), "timers are not armed while the gate is off")

	s.SetRealTime(true)
	time.Sleep(50 * time.Millisecond)
	assert.Greater(t, target.count("w"), 0)
}

func TestSchedulerCancel(t *testing.T) {
	target := newRecordingTarget()
	s := NewRefreshScheduler(true, time.Millisecond, zap.NewNop())
	s.AttachTarget(target)
	defer s.Stop()

	s.Schedule(testWidget("w", 10*time.Millisecond))
	time.Sleep(35 * time.Millisecond)

	s.Cancel("w")
	after := target.count("w")

	time.Sleep(60 * time.Millisecond)
	assert.LessOrEqual(t, target.count("w"), after+1)
}

func TestSchedulerScheduleAllReplaces(t *testing.T) {
	target := newRecordingTarget()
	s := NewRefreshScheduler(true, time.Millisecond, zap.NewNop())
	s.AttachTarget(target)
	defer s.Stop()

	s.Schedule(testWidget("old", 10*time.Millisecond))
	s.ScheduleAll([]domain.Widget{testWidget("new", 10*time.Millisecond)})

	time.Sleep(60 * time.Millisecond)
	assert.LessOrEqual(t, target.count("old"), 1)
	assert.GreaterOrEqual(t, target.count("new"), 2)
}

// targetFunc adapts a function to RefreshTarget for tests that need to
// call back into the scheduler mid-refresh.
type targetFunc func(id string) error

func (f targetFunc) RefreshWidget(id string) error { return f(id) }

func TestSchedulerMidRefreshRescheduleKeepsOneChain(t *testing.T) {
	s := NewRefreshScheduler(true, time.Millisecond, zap.NewNop())
	defer s.Stop()

	w := testWidget("w", 20*time.Millisecond)

	var mu sync.Mutex
	count := 0
	var once sync.Once
	s.AttachTarget(targetFunc(func(id string) error {
		mu.Lock()
		count++
		mu.Unlock()
		// Re-schedule from inside a running refresh, as an interval
		// update or layout switch would.
		once.Do(func() { s.Schedule(w) })
		return nil
	}))

	s.Schedule(w)
	time.Sleep(400 * time.Millisecond)
	s.Stop()

	mu.Lock()
	got := count
	mu.Unlock()

	// A second live timer chain would roughly double the tick rate.
	assert.GreaterOrEqual(t, got, 10)
	assert.LessOrEqual(t, got, 28)
}

func TestSchedulerMinIntervalClamp(t *testing.T) {
	target := newRecordingTarget()
	s := NewRefreshScheduler(true, 40*time.Millisecond, zap.NewNop())
	s.AttachTarget(target)
	defer s.Stop()

	// Requested interval is below the floor; ticks arrive at the floor rate.
	s.Schedule(testWidget("w", time.Millisecond))
	time.Sleep(100 * time.Millisecond)

	assert.LessOrEqual(t, target.count("w"), 3)
	assert.GreaterOrEqual(t, target.count("w"), 1)
}
