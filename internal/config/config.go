// Package config defines service configuration structures and loading hooks.
package config

import (
	"runtime"

	"github.com/alramalho/self-tracking-software-sub007/internal/domain/correlation"
	"github.com/alramalho/self-tracking-software-sub007/internal/domain/streak"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory record queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of ingestion workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// MinimumSampleSize gates correlation computation; activities with fewer
	// overlapping samples are omitted from reports.
	MinimumSampleSize int `koanf:"minimum_sample_size"`

	// LookbackWindowDays sets how many days before a rating an activity
	// occurrence still counts toward it.
	LookbackWindowDays int `koanf:"lookback_window_days"`

	// StreakTimeRangeDays bounds how far back the streak walk reaches.
	StreakTimeRangeDays int `koanf:"streak_time_range_days"`

	// HabitBadgeWeeks and LifestyleBadgeWeeks set the badge thresholds.
	HabitBadgeWeeks     int `koanf:"habit_badge_weeks"`
	LifestyleBadgeWeeks int `koanf:"lifestyle_badge_weeks"`

	// MaxCorrelationLimit caps GET /correlations?limit.
	MaxCorrelationLimit int `koanf:"max_correlation_limit"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":8080",
		QueueSize:           100_000,
		WorkerCount:         runtime.NumCPU() * 2,
		DedupeSize:          50_000,
		MinimumSampleSize:   correlation.DefaultMinimumSampleSize,
		LookbackWindowDays:  correlation.DefaultLookbackDays,
		StreakTimeRangeDays: streak.DefaultTimeRangeDays,
		HabitBadgeWeeks:     streak.DefaultHabitWeeks,
		LifestyleBadgeWeeks: streak.DefaultLifestyleWeeks,
		MaxCorrelationLimit: 100,
	}
}
