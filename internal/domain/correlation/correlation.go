// Package correlation computes ranked activity↔metric correlations from a
// user's logged history.
//
// The engine is a pure function of its inputs: it performs no I/O, holds no
// state between calls, and degrades to an empty result rather than raising
// on thin or degenerate data.
package correlation

import (
	"context"
	"math"
	"sort"

	"github.com/alramalho/self-tracking-software-sub007/internal/domain/calendar"
	"github.com/alramalho/self-tracking-software-sub007/internal/domain/model"
)

// Default engine configuration constants.
const (
	// DefaultMinimumSampleSize gates computation: metrics with fewer rated
	// entries produce no correlations at all, since the coefficient would be
	// statistically meaningless.
	DefaultMinimumSampleSize = 7

	// DefaultLookbackDays is the size of the half-open window ending at a
	// metric entry's date inside which an activity occurrence counts as
	// "preceding" the rating. The window never extends past the rating date,
	// so the signal stays a plausible cause→effect one.
	DefaultLookbackDays = 1
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithMinimumSampleSize sets the sample-size gate.
func WithMinimumSampleSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.minimumSampleSize = n
		}
	}
}

// WithLookbackDays sets the occurrence lookback window in days.
func WithLookbackDays(days int) Option {
	return func(e *Engine) {
		if days > 0 {
			e.lookbackDays = days
		}
	}
}

// Result is one computed correlation row. Coefficient is always in [-1, 1].
type Result struct {
	Activity    model.Activity
	Coefficient float64
	SampleSize  int
}

// Engine computes correlations between activity occurrence and metric
// ratings.
type Engine struct {
	minimumSampleSize int
	lookbackDays      int
}

// NewEngine creates an Engine with configuration options.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		minimumSampleSize: DefaultMinimumSampleSize,
		lookbackDays:      DefaultLookbackDays,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Correlations returns, for every activity that occurred at least once in a
// qualifying window, the Pearson correlation between "activity occurred in
// the lookback window before this rating" and the rating value, ranked by
// coefficient magnitude descending. Ties break on activity ID ascending so
// output is deterministic. Metrics with fewer than the minimum sample size
// of entries yield an empty result.
func (e *Engine) Correlations(
	_ context.Context,
	metricID string,
	metricEntries []model.MetricEntry,
	activities []model.Activity,
	activityEntries []model.ActivityEntry,
) []Result {
	rated := selectAndSort(metricID, metricEntries)
	if len(rated) < e.minimumSampleSize {
		return nil
	}

	ratings := make([]float64, len(rated))
	for i, m := range rated {
		ratings[i] = float64(m.Rating)
	}

	byActivity := make(map[string][]model.ActivityEntry, len(activities))
	for _, entry := range activityEntries {
		byActivity[entry.ActivityID] = append(byActivity[entry.ActivityID], entry)
	}

	results := make([]Result, 0, len(activities))
	for _, activity := range activities {
		occurred, any := e.occurrenceVector(rated, byActivity[activity.ID])
		if !any {
			// The activity never happened inside a window; emitting a zero
			// row would read as "no relationship" when there is no data.
			continue
		}
		results = append(results, Result{
			Activity:    activity,
			Coefficient: Pearson(ratings, occurred),
			SampleSize:  len(rated),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		mi, mj := math.Abs(results[i].Coefficient), math.Abs(results[j].Coefficient)
		if mi != mj {
			return mi > mj
		}
		return results[i].Activity.ID < results[j].Activity.ID
	})
	return results
}

// Partition splits a ranked result list into its positive and negative
// subsets, preserving rank order. Zero-coefficient rows land in neither.
func Partition(results []Result) (positive, negative []Result) {
	for _, r := range results {
		switch {
		case r.Coefficient > 0:
			positive = append(positive, r)
		case r.Coefficient < 0:
			negative = append(negative, r)
		}
	}
	return positive, negative
}

// occurrenceVector builds the binary vector aligned 1:1 with the sorted
// metric entries. The second return is false when the vector is all zeros.
func (e *Engine) occurrenceVector(rated []model.MetricEntry, entries []model.ActivityEntry) ([]float64, bool) {
	occurred := make([]float64, len(rated))
	any := false
	for i, m := range rated {
		for _, entry := range entries {
			if calendar.InLookback(entry.Date, m.Date, e.lookbackDays) {
				occurred[i] = 1
				any = true
				break
			}
		}
	}
	return occurred, any
}

// selectAndSort picks the entries belonging to metricID sorted ascending by
// date. Input slices are never mutated.
func selectAndSort(metricID string, metricEntries []model.MetricEntry) []model.MetricEntry {
	var rated []model.MetricEntry
	for _, m := range metricEntries {
		if m.MetricID == metricID {
			rated = append(rated, m)
		}
	}
	sort.SliceStable(rated, func(i, j int) bool {
		return rated[i].Date.Before(rated[j].Date)
	})
	return rated
}
