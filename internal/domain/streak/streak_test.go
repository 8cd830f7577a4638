package streak_test

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alramalho/self-tracking-software-sub007/internal/domain/model"
	streak "github.com/alramalho/self-tracking-software-sub007/internal/domain/streak"
	. "github.com/smartystreets/goconvey/convey"
)

// week1 is a Monday; the test timeline counts weeks from it.
var week1 = time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)

// at returns a date offset in weeks and days from week1.
func at(week, day int) time.Time {
	return week1.AddDate(0, 0, (week-1)*7+day)
}

// logged builds entries for the activity on the given dates.
func logged(activityID string, dates ...time.Time) []model.ActivityEntry {
	entries := make([]model.ActivityEntry, len(dates))
	for i, d := range dates {
		entries[i] = model.ActivityEntry{
			ID:         activityID + "-" + strconv.Itoa(i),
			ActivityID: activityID,
			Date:       d,
			Quantity:   1,
		}
	}
	return entries
}

func twiceWeeklyPlan() model.Plan {
	return model.Plan{
		ID:          "plan-run",
		Emoji:       "🏃",
		ActivityIDs: []string{"act-run"},
		Outline:     model.TimesPerWeek{Target: 2},
	}
}

func TestStreakGraceBuffer(t *testing.T) {
	Convey("Given a twice-a-week plan", t, func() {
		engine := streak.NewEngine()
		ctx := context.Background()
		plan := twiceWeeklyPlan()

		// Weeks 1, 2 and 4 completed; week 3 fully missed.
		entries := logged("act-run",
			at(1, 0), at(1, 3),
			at(2, 1), at(2, 4),
			at(4, 0), at(4, 2),
		)

		Convey("When evaluated mid-week-5 after the [complete, complete, incomplete, complete] run", func() {
			now := at(5, 2)

			Convey("Then the single miss cost nothing and the score is 3", func() {
				s := engine.Streak(ctx, plan, entries, now)
				So(s.Score, ShouldEqual, 3)
				So(s.Emoji, ShouldEqual, "🏃")
			})
		})

		Convey("When evaluated week by week", func() {
			Convey("Then the scores after each week are 1, 2, 2, 3", func() {
				So(engine.Streak(ctx, plan, entries, at(2, 0)).Score, ShouldEqual, 1)
				So(engine.Streak(ctx, plan, entries, at(3, 0)).Score, ShouldEqual, 2)
				So(engine.Streak(ctx, plan, entries, at(4, 0)).Score, ShouldEqual, 2)
				So(engine.Streak(ctx, plan, entries, at(5, 0)).Score, ShouldEqual, 3)
			})
		})
	})
}

func TestStreakDoubleMiss(t *testing.T) {
	Convey("Given a twice-a-week plan completed only in week 1", t, func() {
		engine := streak.NewEngine()
		ctx := context.Background()
		plan := twiceWeeklyPlan()
		entries := logged("act-run", at(1, 0), at(1, 3))

		Convey("When two consecutive weeks are missed", func() {
			Convey("Then the scores run 1, 1, 0", func() {
				So(engine.Streak(ctx, plan, entries, at(2, 0)).Score, ShouldEqual, 1)
				So(engine.Streak(ctx, plan, entries, at(3, 0)).Score, ShouldEqual, 1)
				So(engine.Streak(ctx, plan, entries, at(4, 0)).Score, ShouldEqual, 0)
			})
		})

		Convey("When the misses keep coming", func() {
			Convey("Then the score clamps at 0 and never goes negative", func() {
				So(engine.Streak(ctx, plan, entries, at(7, 0)).Score, ShouldEqual, 0)
			})
		})
	})
}

func TestStreakEdgeCases(t *testing.T) {
	Convey("Given a streak engine", t, func() {
		engine := streak.NewEngine()
		ctx := context.Background()

		Convey("When the plan has no qualifying entries at all", func() {
			s := engine.Streak(ctx, twiceWeeklyPlan(), nil, at(5, 0))

			Convey("Then the score is 0 with the plan's emoji, no error", func() {
				So(s.Score, ShouldEqual, 0)
				So(s.Emoji, ShouldEqual, "🏃")
				So(s.Badge, ShouldBeEmpty)
			})
		})

		Convey("When entries belong to an unrelated activity", func() {
			entries := logged("act-other", at(1, 0), at(1, 3))
			So(engine.Streak(ctx, twiceWeeklyPlan(), entries, at(3, 0)).Score, ShouldEqual, 0)
		})

		Convey("When a times-per-week plan has no positive target", func() {
			plan := model.Plan{
				ID:          "plan-vague",
				ActivityIDs: []string{"act-run"},
				Outline:     model.TimesPerWeek{Target: 0},
			}
			entries := logged("act-run", at(1, 0), at(1, 1), at(2, 0))

			Convey("Then every week is skipped, neither scoring nor penalizing", func() {
				So(engine.Streak(ctx, plan, entries, at(6, 0)).Score, ShouldEqual, 0)
			})
		})

		Convey("When the plan has no outline", func() {
			plan := model.Plan{ID: "plan-none", ActivityIDs: []string{"act-run"}}
			entries := logged("act-run", at(1, 0), at(1, 1))
			So(engine.Streak(ctx, plan, entries, at(3, 0)).Score, ShouldEqual, 0)
		})

		Convey("When the current week is already complete", func() {
			entries := logged("act-run", at(1, 0), at(1, 3))
			now := at(1, 4)

			Convey("Then the in-progress week is never itself scored", func() {
				So(engine.Streak(ctx, twiceWeeklyPlan(), entries, now).Score, ShouldEqual, 0)
			})
		})

		Convey("When two entries land on the same day", func() {
			entries := logged("act-run", at(1, 0), at(1, 0))

			Convey("Then they count as one qualifying day", func() {
				So(engine.Streak(ctx, twiceWeeklyPlan(), entries, at(2, 0)).Score, ShouldEqual, 0)
			})
		})

		Convey("Then identical inputs produce identical output", func() {
			entries := logged("act-run", at(1, 0), at(1, 3), at(2, 1), at(2, 2))
			first := engine.Streak(ctx, twiceWeeklyPlan(), entries, at(3, 3))
			second := engine.Streak(ctx, twiceWeeklyPlan(), entries, at(3, 3))
			So(second, ShouldResemble, first)
		})
	})
}

func TestStreakTimeRange(t *testing.T) {
	Convey("Given an engine with a two-week range", t, func() {
		engine := streak.NewEngine(streak.WithTimeRangeDays(14))
		ctx := context.Background()
		plan := twiceWeeklyPlan()

		Convey("When old completed weeks fall outside the range", func() {
			entries := logged("act-run",
				at(1, 0), at(1, 3), // outside the clipped walk
				at(5, 0), at(5, 2),
				at(6, 1), at(6, 4),
			)
			now := at(7, 1)

			Convey("Then only the in-range weeks contribute", func() {
				So(engine.Streak(ctx, plan, entries, now).Score, ShouldEqual, 2)
			})
		})
	})
}

func TestStreakSessionsOutline(t *testing.T) {
	Convey("Given a plan with fixed scheduled sessions", t, func() {
		engine := streak.NewEngine()
		ctx := context.Background()
		plan := model.Plan{
			ID:          "plan-gym",
			Emoji:       "🏋️",
			ActivityIDs: []string{"act-gym"},
			Outline: model.Sessions{Scheduled: []time.Time{
				at(1, 1), at(1, 3), // week 1: Tuesday and Thursday
				at(2, 1), // week 2: Tuesday only
			}},
		}

		Convey("When all of week 1's sessions landed and week 2's did not", func() {
			entries := logged("act-gym", at(1, 1), at(1, 3))

			Convey("Then week 1 scores and week 2's miss is the free one", func() {
				So(engine.Streak(ctx, plan, entries, at(3, 0)).Score, ShouldEqual, 1)
			})
		})

		Convey("When only one of week 1's two sessions landed", func() {
			entries := logged("act-gym", at(1, 1))

			Convey("Then week 1 counts as missed", func() {
				So(engine.Streak(ctx, plan, entries, at(2, 0)).Score, ShouldEqual, 0)
			})
		})

		Convey("When weeks after the schedule have no sessions", func() {
			entries := logged("act-gym", at(1, 1), at(1, 3), at(2, 1))

			Convey("Then those weeks are skipped, not penalized", func() {
				So(engine.Streak(ctx, plan, entries, at(6, 0)).Score, ShouldEqual, 2)
			})
		})
	})
}

func TestStreakBadges(t *testing.T) {
	Convey("Given a once-a-week plan completed for many weeks", t, func() {
		ctx := context.Background()
		plan := model.Plan{
			ID:          "plan-read",
			Emoji:       "📚",
			ActivityIDs: []string{"act-read"},
			Outline:     model.TimesPerWeek{Target: 1},
		}
		var dates []time.Time
		for w := 1; w <= 5; w++ {
			dates = append(dates, at(w, 2))
		}
		entries := logged("act-read", dates...)

		Convey("When the default thresholds apply", func() {
			engine := streak.NewEngine()
			s := engine.Streak(ctx, plan, entries, at(6, 0))

			Convey("Then four-plus weeks earn the habit badge", func() {
				So(s.Score, ShouldEqual, 5)
				So(s.Badge, ShouldEqual, streak.BadgeHabit)
			})
		})

		Convey("When the thresholds are lowered", func() {
			engine := streak.NewEngine(streak.WithBadgeThresholds(2, 4))
			s := engine.Streak(ctx, plan, entries, at(6, 0))

			Convey("Then the lifestyle badge is reachable", func() {
				So(s.Badge, ShouldEqual, streak.BadgeLifestyle)
			})
		})
	})
}
