package seed

import "time"

// Config holds configuration for the seed run
type Config struct {
	BaseURL  string        // Base URL of the service
	NumUsers int           // Number of synthetic users to create
	Days     int           // Length of the generated timeline in days
	Workers  int           // Number of concurrent workers
	Timeout  time.Duration // HTTP request timeout
	Wait     time.Duration // Wait for async ingestion before verifying
	LogFile  string        // Log file for seed output
	Verbose  bool          // Enable verbose logging
}

// Record mirrors the POST /records wire schema.
type Record struct {
	RecordID string         `json:"record_id"`
	UserID   string         `json:"user_id"`
	Kind     string         `json:"kind"`
	Activity *ActivityEntry `json:"activity_entry,omitempty"`
	Metric   *MetricEntry   `json:"metric_entry,omitempty"`
}

// ActivityEntry mirrors the activity payload of a record.
type ActivityEntry struct {
	ID         string  `json:"id"`
	ActivityID string  `json:"activity_id"`
	Date       string  `json:"date"`
	Quantity   float64 `json:"quantity"`
}

// MetricEntry mirrors the metric payload of a record.
type MetricEntry struct {
	ID       string `json:"id"`
	MetricID string `json:"metric_id"`
	Date     string `json:"date"`
	Rating   int    `json:"rating"`
}

// Catalog mirrors the PUT /catalog wire schema.
type Catalog struct {
	UserID     string     `json:"user_id"`
	Activities []Activity `json:"activities"`
	Metrics    []Metric   `json:"metrics"`
	Plans      []Plan     `json:"plans"`
}

// Activity is a catalog activity.
type Activity struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Emoji   string `json:"emoji"`
	Measure string `json:"measure"`
}

// Metric is a catalog metric.
type Metric struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Emoji string `json:"emoji"`
}

// Plan is a catalog plan.
type Plan struct {
	ID          string   `json:"id"`
	Emoji       string   `json:"emoji"`
	ActivityIDs []string `json:"activity_ids"`
	Outline     Outline  `json:"outline"`
}

// Outline is a plan commitment shape on the wire.
type Outline struct {
	Type     string   `json:"type"`
	Target   int      `json:"target,omitempty"`
	Sessions []string `json:"sessions,omitempty"`
}

// CorrelationEntry mirrors one correlation report row.
type CorrelationEntry struct {
	ActivityID    string  `json:"activity_id"`
	ActivityTitle string  `json:"activity_title"`
	Emoji         string  `json:"emoji"`
	Coefficient   float64 `json:"coefficient"`
	SampleSize    int     `json:"sample_size"`
}

// CorrelationReport mirrors the GET /correlations response.
type CorrelationReport struct {
	MetricID string             `json:"metric_id"`
	Entries  []CorrelationEntry `json:"entries"`
	Positive []CorrelationEntry `json:"positive"`
	Negative []CorrelationEntry `json:"negative"`
}

// StreakEntry mirrors the GET /streaks response rows.
type StreakEntry struct {
	PlanID string `json:"plan_id"`
	Score  int    `json:"score"`
	Emoji  string `json:"emoji"`
	Badge  string `json:"badge,omitempty"`
}

// AckResponse represents the response from record submission
type AckResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

// User bundles one synthetic user's catalog and records.
type User struct {
	ID      string
	Catalog Catalog
	Records []Record
}

// Stats holds seed run statistics
type Stats struct {
	UsersGenerated    int
	RecordsGenerated  int
	RecordsSubmitted  int
	RecordsSuccessful int
	RecordsDuplicate  int
	RecordsFailed     int
	UsersVerified     int
	StartTime         time.Time
	EndTime           time.Time
	Duration          time.Duration
}
