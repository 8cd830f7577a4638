package repository

import (
	"context"
	"sync"
	"time"

	"github.com/alramalho/self-tracking-software-sub007/internal/domain/model"
	"github.com/alramalho/self-tracking-software-sub007/pkg/metrics"
)

// journal holds one user's data. Entry slices are append-only; the catalog
// is replaced wholesale.
type journal struct {
	activities      []model.Activity
	metrics         []model.Metric
	plans           []model.Plan
	activityEntries []model.ActivityEntry
	metricEntries   []model.MetricEntry
	entryIDs        map[string]struct{}
}

// MemStore is the in-memory Store implementation: a map of per-user
// journals behind a single RWMutex. Reads copy, so a returned Snapshot is
// immune to later writes.
type MemStore struct {
	mu       sync.RWMutex
	journals map[string]*journal
}

// NewMemStore creates an empty in-memory store.
func NewMemStore(_ context.Context) *MemStore {
	return &MemStore{
		journals: make(map[string]*journal),
	}
}

// ReplaceCatalog installs the user's activities, metrics and plans.
func (s *MemStore) ReplaceCatalog(_ context.Context, userID string, activities []model.Activity, metricsList []model.Metric, plans []model.Plan) error {
	start := time.Now()
	defer func() {
		metrics.RecordStoreUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	j := s.journal(userID)
	j.activities = append([]model.Activity(nil), activities...)
	j.metrics = append([]model.Metric(nil), metricsList...)
	j.plans = append([]model.Plan(nil), plans...)

	s.updateGauges()
	return nil
}

// AppendActivityEntry appends one logged activity occurrence.
func (s *MemStore) AppendActivityEntry(_ context.Context, userID string, entry model.ActivityEntry) (bool, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	j := s.journal(userID)
	if _, dup := j.entryIDs[entry.ID]; dup {
		return false, nil
	}
	j.entryIDs[entry.ID] = struct{}{}
	j.activityEntries = append(j.activityEntries, entry)

	s.updateGauges()
	return true, nil
}

// AppendMetricEntry appends one metric rating.
func (s *MemStore) AppendMetricEntry(_ context.Context, userID string, entry model.MetricEntry) (bool, error) {
	if entry.Rating < model.RatingMin || entry.Rating > model.RatingMax {
		return false, ErrInvalidRating
	}

	start := time.Now()
	defer func() {
		metrics.RecordStoreUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	j := s.journal(userID)
	if _, dup := j.entryIDs[entry.ID]; dup {
		return false, nil
	}
	j.entryIDs[entry.ID] = struct{}{}
	j.metricEntries = append(j.metricEntries, entry)

	s.updateGauges()
	return true, nil
}

// Snapshot returns a copied, consistent view of the user's data.
func (s *MemStore) Snapshot(_ context.Context, userID string) (Snapshot, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()

	j, ok := s.journals[userID]
	if !ok {
		return Snapshot{}, ErrNotFound
	}
	return Snapshot{
		UserID:          userID,
		Activities:      append([]model.Activity(nil), j.activities...),
		Metrics:         append([]model.Metric(nil), j.metrics...),
		Plans:           append([]model.Plan(nil), j.plans...),
		ActivityEntries: append([]model.ActivityEntry(nil), j.activityEntries...),
		MetricEntries:   append([]model.MetricEntry(nil), j.metricEntries...),
	}, nil
}

// Users lists the known user ids.
func (s *MemStore) Users(_ context.Context) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]string, 0, len(s.journals))
	for id := range s.journals {
		users = append(users, id)
	}
	return users
}

// Counts returns the number of users and total stored records.
func (s *MemStore) Counts(_ context.Context) (users, records int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.counts()
}

// journal returns the user's journal, creating it on first touch.
// Callers must hold the write lock.
func (s *MemStore) journal(userID string) *journal {
	j, ok := s.journals[userID]
	if !ok {
		j = &journal{entryIDs: make(map[string]struct{})}
		s.journals[userID] = j
	}
	return j
}

// counts tallies users and records. Callers must hold at least a read lock.
func (s *MemStore) counts() (users, records int) {
	users = len(s.journals)
	for _, j := range s.journals {
		records += len(j.activityEntries) + len(j.metricEntries)
	}
	return users, records
}

// updateGauges refreshes store gauges. Callers must hold the write lock.
func (s *MemStore) updateGauges() {
	users, records := s.counts()
	metrics.UpdateStoreUsers(users)
	metrics.UpdateStoreRecords(records)
}
