// Package repository defines the tracking store interface and errors.
package repository

import (
	"context"

	"github.com/alramalho/self-tracking-software-sub007/internal/domain/model"
)

// Snapshot is one immutable, consistent view of a user's tracked data. The
// insight engines always compute over a single snapshot so a computation
// never observes a half-applied write.
type Snapshot struct {
	UserID          string
	Activities      []model.Activity
	Metrics         []model.Metric
	Plans           []model.Plan
	ActivityEntries []model.ActivityEntry
	MetricEntries   []model.MetricEntry
}

// Store provides read/write access to per-user tracking journals.
type Store interface {
	// ReplaceCatalog installs the user's activities, metrics and plans,
	// replacing any previous catalog. Logged entries are untouched.
	ReplaceCatalog(ctx context.Context, userID string, activities []model.Activity, metrics []model.Metric, plans []model.Plan) error

	// AppendActivityEntry appends one logged activity occurrence.
	// Returns false if an entry with the same ID is already stored.
	AppendActivityEntry(ctx context.Context, userID string, entry model.ActivityEntry) (bool, error)

	// AppendMetricEntry appends one metric rating.
	// Returns false if an entry with the same ID is already stored.
	// Returns ErrInvalidRating when the rating is outside 1..5.
	AppendMetricEntry(ctx context.Context, userID string, entry model.MetricEntry) (bool, error)

	// Snapshot returns a copied, consistent view of the user's data.
	// Returns ErrNotFound for a user the store has never seen.
	Snapshot(ctx context.Context, userID string) (Snapshot, error)

	// Users lists the known user ids.
	Users(ctx context.Context) []string

	// Counts returns the number of users and total stored records.
	Counts(ctx context.Context) (users, records int)
}
