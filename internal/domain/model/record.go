// Package model contains domain models passed between layers.
package model

import "time"

// Activity is a user-defined trackable thing, referenced read-only by the
// insight engines.
type Activity struct {
	ID      string // stable identifier
	Title   string // display title, e.g. "Running"
	Emoji   string // display-only
	Measure string // unit-of-measure label, e.g. "minutes"
}

// ActivityEntry is one dated occurrence of an activity.
type ActivityEntry struct {
	ID         string
	ActivityID string
	Date       time.Time // calendar day; time-of-day is not significant
	Quantity   float64   // amount in the activity's unit
}

// Metric is a user-defined subjective scale, e.g. "Energy".
type Metric struct {
	ID    string
	Title string
	Emoji string
}

// MetricEntry is one dated rating for a metric.
type MetricEntry struct {
	ID       string
	MetricID string
	Date     time.Time
	Rating   int // 1..5 inclusive
}

// RatingMin and RatingMax bound a metric entry's rating.
const (
	RatingMin = 1
	RatingMax = 5
)

// RecordKind tags the payload carried by a Record.
type RecordKind string

// Record kinds accepted by the ingestion pipeline.
const (
	KindActivityEntry RecordKind = "activity_entry"
	KindMetricEntry   RecordKind = "metric_entry"
)

// Record is the ingestion envelope flowing from the HTTP layer through the
// queue to the repository. Exactly one of the payload fields is set,
// according to Kind.
type Record struct {
	RecordID string // unique id for idempotency
	UserID   string // owning user
	Kind     RecordKind
	Activity ActivityEntry // set when Kind == KindActivityEntry
	Metric   MetricEntry   // set when Kind == KindMetricEntry
}
