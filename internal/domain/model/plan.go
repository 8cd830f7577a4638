package model

import "time"

// Plan is a recurring commitment against one or more activities. Its Outline
// determines how a week counts as completed.
type Plan struct {
	ID          string
	Emoji       string
	ActivityIDs []string
	// Start is an optional explicit start; when zero, the earliest relevant
	// activity entry anchors the streak walk.
	Start time.Time
	// Outline is the commitment shape. A nil Outline contributes nothing.
	Outline Outline
}

// Outline is a sealed sum type over the two commitment shapes. Modeling the
// shapes as variants rather than optional fields keeps the week-completion
// predicate exhaustive.
type Outline interface {
	isOutline()
}

// TimesPerWeek commits to hitting a plan activity on a target number of
// distinct days each week.
type TimesPerWeek struct {
	Target int
}

func (TimesPerWeek) isOutline() {}

// Sessions commits to a fixed list of scheduled session days.
type Sessions struct {
	Scheduled []time.Time
}

func (Sessions) isOutline() {}

// EntriesFor selects the activity entries belonging to the plan's activities.
func (p Plan) EntriesFor(entries []ActivityEntry) []ActivityEntry {
	ids := make(map[string]struct{}, len(p.ActivityIDs))
	for _, id := range p.ActivityIDs {
		ids[id] = struct{}{}
	}
	var out []ActivityEntry
	for _, e := range entries {
		if _, ok := ids[e.ActivityID]; ok {
			out = append(out, e)
		}
	}
	return out
}
