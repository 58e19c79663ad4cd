package domain

import "time"

// GoalStatus is derived from (current, target, deadline, milestones, now).
// It is never stored and never settable by callers, so status and progress
// cannot diverge.
type GoalStatus string

// Goal statuses
const (
	StatusOnTrack   GoalStatus = "on-track"
	StatusAtRisk    GoalStatus = "at-risk"
	StatusBehind    GoalStatus = "behind"
	StatusCompleted GoalStatus = "completed"
)

// Milestone is an ordered sub-checkpoint of a goal.
type Milestone struct {
	Title     string    `json:"title"`
	Target    float64   `json:"target"`
	Deadline  time.Time `json:"deadline"`
	Completed bool      `json:"completed"`
}

// Goal tracks a metric against a target and deadline. Current may exceed
// Target; progress is clamped for display only.
type Goal struct {
	ID             string      `json:"id"`
	Title          string      `json:"title"`
	Description    string      `json:"description,omitempty"`
	Metric         string      `json:"metric"`
	Target         float64     `json:"target"`
	Current        float64     `json:"current"`
	Unit           string      `json:"unit,omitempty"`
	Deadline       time.Time   `json:"deadline"`
	Category       string      `json:"category,omitempty"`
	Priority       Priority    `json:"priority"`
	Status         GoalStatus  `json:"status"` // populated on read, never stored
	Milestones     []Milestone `json:"milestones,omitempty"`
	AssignedTo     []string    `json:"assignedTo,omitempty"`
	RelatedWidgets []string    `json:"relatedWidgets,omitempty"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
}

// Progress returns completion as a percentage clamped to [0, 100].
func (g Goal) Progress() float64 {
	if g.Target <= 0 {
		return 0
	}
	p := g.Current / g.Target * 100
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// DeriveStatus computes the goal status at the given instant. slack is the
// fraction of schedule lag tolerated before a goal counts as at risk.
//
// The function is pure: it depends only on its arguments, so repeated calls
// with the same inputs always agree regardless of any previously returned
// status.
func DeriveStatus(g Goal, now time.Time, slack float64) GoalStatus {
	if len(g.Milestones) > 0 {
		allDone := true
		for _, m := range g.Milestones {
			if !m.Completed {
				allDone = false
				break
			}
		}
		if allDone {
			return StatusCompleted
		}
	} else if g.Target > 0 && g.Current >= g.Target {
		return StatusCompleted
	}

	if now.After(g.Deadline) && g.Current < g.Target {
		return StatusBehind
	}

	// Compare progress against elapsed schedule. The schedule runs from
	// CreatedAt to Deadline; a goal with no usable window is on track until
	// the deadline passes.
	total := g.Deadline.Sub(g.CreatedAt)
	if total > 0 && g.Target > 0 {
		elapsed := now.Sub(g.CreatedAt)
		if elapsed < 0 {
			elapsed = 0
		}
		elapsedFrac := float64(elapsed) / float64(total)
		if elapsedFrac > 1 {
			elapsedFrac = 1
		}
		progressFrac := g.Current / g.Target
		if progressFrac > 1 {
			progressFrac = 1
		}
		if progressFrac < elapsedFrac-slack {
			return StatusAtRisk
		}
	}

	return StatusOnTrack
}

// GoalPatch is a partial goal update. Status is deliberately absent.
type GoalPatch struct {
	Title          *string     `json:"title,omitempty"`
	Description    *string     `json:"description,omitempty"`
	Metric         *string     `json:"metric,omitempty"`
	Target         *float64    `json:"target,omitempty"`
	Current        *float64    `json:"current,omitempty"`
	Unit           *string     `json:"unit,omitempty"`
	Deadline       *time.Time  `json:"deadline,omitempty"`
	Category       *string     `json:"category,omitempty"`
	Priority       *Priority   `json:"priority,omitempty"`
	Milestones     []Milestone `json:"milestones,omitempty"`
	AssignedTo     []string    `json:"assignedTo,omitempty"`
	RelatedWidgets []string    `json:"relatedWidgets,omitempty"`
}

// Validate rejects the whole patch if any field is invalid; patches are
// applied atomically or not at all. A non-positive target would silently
// disable the completed and at-risk derivations, so it never gets in.
func (p GoalPatch) Validate() error {
	var errs ValidationErrors
	if p.Title != nil && *p.Title == "" {
		errs.Add("title", "title must not be empty")
	}
	if p.Target != nil && *p.Target <= 0 {
		errs.Add("target", "target must be positive")
	}
	if p.Priority != nil {
		switch *p.Priority {
		case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		default:
			errs.Add("priority", "priority must be one of: low, medium, high, critical")
		}
	}
	if errs.HasErrors() {
		return errs
	}
	return nil
}

// Apply copies the patch's set fields onto g.
func (p GoalPatch) Apply(g *Goal) {
	if p.Title != nil {
		g.Title = *p.Title
	}
	if p.Description != nil {
		g.Description = *p.Description
	}
	if p.Metric != nil {
		g.Metric = *p.Metric
	}
	if p.Target != nil {
		g.Target = *p.Target
	}
	if p.Current != nil {
		g.Current = *p.Current
	}
	if p.Unit != nil {
		g.Unit = *p.Unit
	}
	if p.Deadline != nil {
		g.Deadline = *p.Deadline
	}
	if p.Category != nil {
		g.Category = *p.Category
	}
	if p.Priority != nil {
		g.Priority = *p.Priority
	}
	if p.Milestones != nil {
		g.Milestones = p.Milestones
	}
	if p.AssignedTo != nil {
		g.AssignedTo = p.AssignedTo
	}
	if p.RelatedWidgets != nil {
		g.RelatedWidgets = p.RelatedWidgets
	}
}

// GoalSummary aggregates goals by derived status.
type GoalSummary struct {
	Total     int `json:"total"`
	OnTrack   int `json:"onTrack"`
	AtRisk    int `json:"atRisk"`
	Behind    int `json:"behind"`
	Completed int `json:"completed"`
}
