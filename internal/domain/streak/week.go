package streak

import (
	"time"

	"github.com/alramalho/self-tracking-software-sub007/internal/domain/calendar"
	"github.com/alramalho/self-tracking-software-sub007/internal/domain/model"
)

// weekCompleted evaluates one week of a plan. counted is false when the plan
// does not apply to the week at all: a times-per-week plan without a positive
// target, a sessions plan with no session scheduled that week, or a plan with
// no outline. Such weeks are skipped by the walk.
func weekCompleted(weekStart time.Time, outline model.Outline, entries []model.ActivityEntry) (completed, counted bool) {
	switch o := outline.(type) {
	case model.TimesPerWeek:
		if o.Target <= 0 {
			// Unset or zero target means "no commitment"; treating it as
			// always-complete would inflate scores and as always-missed
			// would punish a plan the user never quantified.
			return false, false
		}
		return distinctDaysIn(weekStart, entries) >= o.Target, true
	case model.Sessions:
		scheduled := sessionsIn(weekStart, o.Scheduled)
		if len(scheduled) == 0 {
			return false, false
		}
		for _, session := range scheduled {
			if !entryOn(session, entries) {
				return false, true
			}
		}
		return true, true
	default:
		return false, false
	}
}

// distinctDaysIn counts the distinct calendar days inside the week that have
// at least one entry.
func distinctDaysIn(weekStart time.Time, entries []model.ActivityEntry) int {
	days := make(map[time.Time]struct{})
	for _, entry := range entries {
		if calendar.StartOfWeek(entry.Date).Equal(weekStart) {
			days[calendar.StartOfDay(entry.Date)] = struct{}{}
		}
	}
	return len(days)
}

// sessionsIn selects the scheduled session days falling inside the week.
func sessionsIn(weekStart time.Time, scheduled []time.Time) []time.Time {
	var out []time.Time
	for _, s := range scheduled {
		if calendar.StartOfWeek(s).Equal(weekStart) {
			out = append(out, s)
		}
	}
	return out
}

// entryOn reports whether any entry landed on the given day.
func entryOn(day time.Time, entries []model.ActivityEntry) bool {
	for _, entry := range entries {
		if calendar.SameDay(entry.Date, day) {
			return true
		}
	}
	return false
}
