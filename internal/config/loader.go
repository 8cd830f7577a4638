package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if TRACKING_CONFIG is set
//  3. env (prefix TRACKING_)
func Load(_ context.Context) (*Config, error) {
	// Start with defaults
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("TRACKING_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: TRACKING_ADDR, TRACKING_QUEUE_SIZE, ...
	// Map env keys like TRACKING_QUEUE_SIZE -> queue_size (flat keys)
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("TRACKING_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "tracking_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.QueueSize < 1:
		return fmt.Errorf("%w: queue_size must be positive", ErrInvalidConfig)
	case c.MinimumSampleSize < 1:
		return fmt.Errorf("%w: minimum_sample_size must be positive", ErrInvalidConfig)
	case c.LookbackWindowDays < 1:
		return fmt.Errorf("%w: lookback_window_days must be positive", ErrInvalidConfig)
	case c.StreakTimeRangeDays < 1:
		return fmt.Errorf("%w: streak_time_range_days must be positive", ErrInvalidConfig)
	case c.HabitBadgeWeeks < 1 || c.LifestyleBadgeWeeks < c.HabitBadgeWeeks:
		return fmt.Errorf("%w: badge thresholds must be positive and ordered", ErrInvalidConfig)
	case c.MaxCorrelationLimit < 1:
		return fmt.Errorf("%w: max_correlation_limit must be positive", ErrInvalidConfig)
	}
	return nil
}
