package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGoalProgressClamped(t *testing.T) {
	tests := []struct {
		name    string
		current float64
		target  float64
		want    float64
	}{
		{"halfway", 50, 100, 50},
		{"overachieved clamps to 100", 150, 100, 100},
		{"negative clamps to 0", -10, 100, 0},
		{"zero target", 50, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Goal{Current: tt.current, Target: tt.target}
			assert.Equal(t, tt.want, g.Progress())
		})
	}
}

func TestDeriveStatus(t *testing.T) {
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	deadline := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	const slack = 0.15

	tests := []struct {
		name string
		goal Goal
		now  time.Time
		want GoalStatus
	}{
		{
			name: "target reached without milestones",
			goal: Goal{Target: 100, Current: 100, CreatedAt: created, Deadline: deadline},
			now:  created.AddDate(0, 0, 10),
			want: StatusCompleted,
		},
		{
			name: "all milestones complete",
			goal: Goal{
				Target: 100, Current: 10,
				CreatedAt: created, Deadline: deadline,
				Milestones: []Milestone{
					{Title: "m1", Completed: true},
					{Title: "m2", Completed: true},
				},
			},
			now:  created.AddDate(0, 0, 10),
			want: StatusCompleted,
		},
		{
			name: "milestones gate completion even when target reached",
			goal: Goal{
				Target: 100, Current: 120,
				CreatedAt: created, Deadline: deadline,
				Milestones: []Milestone{
					{Title: "m1", Completed: true},
					{Title: "m2", Completed: false},
				},
			},
			now:  created.AddDate(0, 0, 10),
			want: StatusOnTrack,
		},
		{
			name: "past deadline under target",
			goal: Goal{Target: 100, Current: 80, CreatedAt: created, Deadline: deadline},
			now:  deadline.AddDate(0, 0, 1),
			want: StatusBehind,
		},
		{
			name: "lagging the schedule beyond slack",
			goal: Goal{Target: 100, Current: 10, CreatedAt: created, Deadline: deadline},
			// 50% of the window elapsed, 10% progress.
			now:  created.Add(deadline.Sub(created) / 2),
			want: StatusAtRisk,
		},
		{
			name: "lagging within slack",
			goal: Goal{Target: 100, Current: 40, CreatedAt: created, Deadline: deadline},
			now:  created.Add(deadline.Sub(created) / 2),
			want: StatusOnTrack,
		},
		{
			name: "fresh goal is on track",
			goal: Goal{Target: 100, Current: 0, CreatedAt: created, Deadline: deadline},
			now:  created,
			want: StatusOnTrack,
		},
		{
			name: "zero target never completes before deadline",
			goal: Goal{Target: 0, Current: 50, CreatedAt: created, Deadline: deadline},
			now:  created.AddDate(0, 0, 10),
			want: StatusOnTrack,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStatus(tt.goal, tt.now, slack))
		})
	}
}

func TestDeriveStatusIsPure(t *testing.T) {
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	g := Goal{Target: 100, Current: 10, CreatedAt: created, Deadline: created.AddDate(0, 2, 0)}
	now := created.AddDate(0, 1, 0)

	first := DeriveStatus(g, now, 0.15)
	// A previously observed status must not influence later derivations.
	g.Status = StatusCompleted
	second := DeriveStatus(g, now, 0.15)

	assert.Equal(t, first, second)
}

func TestGoalPatchCannotSetStatus(t *testing.T) {
	g := Goal{Title: "Revenue", Target: 100, Current: 10}

	current := 60.0
	patch := GoalPatch{Current: &current}
	patch.Apply(&g)

	assert.Equal(t, 60.0, g.Current)
	assert.Empty(t, g.Status, "status is derived on read, never stored via patch")
}
