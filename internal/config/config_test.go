package config_test

import (
	"runtime"
	"testing"

	"github.com/alramalho/self-tracking-software-sub007/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestNew(t *testing.T) {
	convey.Convey("Given default configuration", t, func() {
		cfg := config.New()

		convey.Convey("Then all defaults are populated", func() {
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
			convey.So(cfg.QueueSize, convey.ShouldEqual, 100_000)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU()*2)
			convey.So(cfg.DedupeSize, convey.ShouldEqual, 50_000)
			convey.So(cfg.MinimumSampleSize, convey.ShouldEqual, 7)
			convey.So(cfg.LookbackWindowDays, convey.ShouldEqual, 1)
			convey.So(cfg.StreakTimeRangeDays, convey.ShouldEqual, 60)
			convey.So(cfg.HabitBadgeWeeks, convey.ShouldEqual, 4)
			convey.So(cfg.LifestyleBadgeWeeks, convey.ShouldEqual, 12)
			convey.So(cfg.MaxCorrelationLimit, convey.ShouldEqual, 100)
		})
	})
}
