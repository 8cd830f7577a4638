// Package streak folds a plan's weekly completion history into a bounded,
// non-negative streak score.
//
// Like the correlation engine, it is a pure function of its inputs: no I/O,
// no hidden state, empty inputs degrade to a zero score.
package streak

import (
	"context"
	"time"

	"github.com/alramalho/self-tracking-software-sub007/internal/domain/calendar"
	"github.com/alramalho/self-tracking-software-sub007/internal/domain/model"
)

// Default engine configuration constants.
const (
	// DefaultTimeRangeDays bounds how far back the weekly walk reaches.
	DefaultTimeRangeDays = 60

	// DefaultHabitWeeks and DefaultLifestyleWeeks are the badge thresholds:
	// a score at or above the threshold earns the badge.
	DefaultHabitWeeks     = 4
	DefaultLifestyleWeeks = 12
)

// Badge names awarded at the score thresholds.
const (
	BadgeHabit     = "habit"
	BadgeLifestyle = "lifestyle"
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithTimeRangeDays bounds the lookback of the weekly walk.
func WithTimeRangeDays(days int) Option {
	return func(e *Engine) {
		if days > 0 {
			e.timeRangeDays = days
		}
	}
}

// WithBadgeThresholds sets the scores at which the habit and lifestyle
// badges are awarded.
func WithBadgeThresholds(habitWeeks, lifestyleWeeks int) Option {
	return func(e *Engine) {
		if habitWeeks > 0 && lifestyleWeeks >= habitWeeks {
			e.habitWeeks = habitWeeks
			e.lifestyleWeeks = lifestyleWeeks
		}
	}
}

// Summary is the derived streak state for one plan.
type Summary struct {
	Score int
	Emoji string
	Badge string
}

// Engine computes streak summaries for plans.
type Engine struct {
	timeRangeDays  int
	habitWeeks     int
	lifestyleWeeks int
}

// NewEngine creates an Engine with configuration options.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		timeRangeDays:  DefaultTimeRangeDays,
		habitWeeks:     DefaultHabitWeeks,
		lifestyleWeeks: DefaultLifestyleWeeks,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Streak walks week-by-week from the plan's anchor (explicit start, or the
// earliest relevant entry, clipped to the configured time range) up to but
// not including the current in-progress week, and folds the per-week
// completion outcomes into the score:
//
//   - completed week: score+1, miss run resets
//   - missed week: the first miss in a run is free; each further
//     consecutive miss decrements, clamped at 0
//
// Weeks the plan does not apply to (no target, no scheduled sessions) are
// skipped outright, neither rewarding nor penalizing.
func (e *Engine) Streak(_ context.Context, plan model.Plan, entries []model.ActivityEntry, now time.Time) Summary {
	relevant := plan.EntriesFor(entries)

	anchor, ok := anchorDate(plan, relevant)
	if !ok {
		return Summary{Score: 0, Emoji: plan.Emoji}
	}

	walk := calendar.StartOfWeek(anchor)
	if floor := calendar.StartOfWeek(now.AddDate(0, 0, -e.timeRangeDays)); walk.Before(floor) {
		walk = floor
	}
	currentWeek := calendar.StartOfWeek(now)

	score := 0
	consecutiveMisses := 0
	for ; walk.Before(currentWeek); walk = calendar.NextWeek(walk) {
		completed, counted := weekCompleted(walk, plan.Outline, relevant)
		if !counted {
			continue
		}
		if completed {
			score++
			consecutiveMisses = 0
			continue
		}
		consecutiveMisses++
		if consecutiveMisses > 1 && score > 0 {
			score--
		}
	}

	return Summary{Score: score, Emoji: plan.Emoji, Badge: e.badge(score)}
}

// badge maps a score to the highest badge it has earned.
func (e *Engine) badge(score int) string {
	switch {
	case score >= e.lifestyleWeeks:
		return BadgeLifestyle
	case score >= e.habitWeeks:
		return BadgeHabit
	default:
		return ""
	}
}

// anchorDate picks the date the weekly walk starts from: the plan's explicit
// start when set, otherwise the earliest relevant entry.
func anchorDate(plan model.Plan, relevant []model.ActivityEntry) (time.Time, bool) {
	if !plan.Start.IsZero() {
		return plan.Start, true
	}
	if len(relevant) == 0 {
		return time.Time{}, false
	}
	earliest := relevant[0].Date
	for _, entry := range relevant[1:] {
		if entry.Date.Before(earliest) {
			earliest = entry.Date
		}
	}
	return earliest, true
}
