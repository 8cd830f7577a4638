// Package types contains common read-side types used across the application
package types

import "strconv"

// CorrelationEntry is one ranked activity↔metric correlation row.
type CorrelationEntry struct {
	ActivityID    string  `json:"activity_id"`
	ActivityTitle string  `json:"activity_title"`
	Emoji         string  `json:"emoji"`
	Coefficient   float64 `json:"coefficient"`
	SampleSize    int     `json:"sample_size"`
}

// Label renders the display form consumed by the UI, "{emoji} {title}".
func (e CorrelationEntry) Label() string {
	if e.Emoji == "" {
		return e.ActivityTitle
	}
	return e.Emoji + " " + e.ActivityTitle
}

// CorrelationReport bundles the ranked correlation rows with their
// sign partitions for a single metric.
type CorrelationReport struct {
	MetricID string             `json:"metric_id"`
	Entries  []CorrelationEntry `json:"entries"`
	Positive []CorrelationEntry `json:"positive"`
	Negative []CorrelationEntry `json:"negative"`
}

// StreakEntry is a plan's current streak state.
type StreakEntry struct {
	PlanID string `json:"plan_id"`
	Score  int    `json:"score"`
	Emoji  string `json:"emoji"`
	Badge  string `json:"badge,omitempty"`
}

// Label renders the streak badge form consumed by the UI, "x{score} {emoji}".
func (e StreakEntry) Label() string {
	return "x" + strconv.Itoa(e.Score) + " " + e.Emoji
}
