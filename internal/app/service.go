// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	recordqueue "github.com/alramalho/self-tracking-software-sub007/internal/adapters/mq/queue"
	workerpool "github.com/alramalho/self-tracking-software-sub007/internal/adapters/mq/worker"
	repository "github.com/alramalho/self-tracking-software-sub007/internal/adapters/repository"
	"github.com/alramalho/self-tracking-software-sub007/internal/domain/correlation"
	"github.com/alramalho/self-tracking-software-sub007/internal/domain/dedupe"
	"github.com/alramalho/self-tracking-software-sub007/internal/domain/model"
	"github.com/alramalho/self-tracking-software-sub007/internal/domain/streak"
	"github.com/alramalho/self-tracking-software-sub007/internal/domain/types"
	"github.com/alramalho/self-tracking-software-sub007/pkg/logger"
	"github.com/alramalho/self-tracking-software-sub007/pkg/metrics"
)

// Service implements the API dependencies for the tracking insights system.
type Service struct {
	mu sync.RWMutex

	// Core components
	store       repository.Store
	deduper     dedupe.Deduper
	recordQueue recordqueue.Queue
	workerPool  *workerpool.Pool
	correlator  *correlation.Engine
	streaker    *streak.Engine

	// Configuration
	workerCount        int
	queueSize          int
	dedupeSize         int
	correlationOptions []correlation.Option
	streakOptions      []streak.Option

	// now is swappable so streak walks are deterministic in tests.
	now func() time.Time

	// State
	started bool
	stopCh  chan struct{}

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the record queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCorrelationOptions forwards options to the correlation engine.
func WithCorrelationOptions(opts ...correlation.Option) Option {
	return func(s *Service) {
		s.correlationOptions = append(s.correlationOptions, opts...)
	}
}

// WithStreakOptions forwards options to the streak engine.
func WithStreakOptions(opts ...streak.Option) Option {
	return func(s *Service) {
		s.streakOptions = append(s.streakOptions, opts...)
	}
}

// WithClock overrides the wall clock used for streak computations.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: runtime.NumCPU() * 2,
		queueSize:   100000,
		dedupeSize:  50000,
		now:         time.Now,
		stopCh:      make(chan struct{}),
		logger:      nil, // Will be replaced when service starts
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting tracking insights service...")

	s.store = repository.NewMemStore(ctx)
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.recordQueue = recordqueue.NewInMemoryQueue(
		recordqueue.WithCapacity(s.queueSize),
	)
	s.correlator = correlation.NewEngine(s.correlationOptions...)
	s.streaker = streak.NewEngine(s.streakOptions...)

	s.workerPool = workerpool.NewPool(s.workerCount, s.recordQueue, s.store)
	s.workerPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "tracking insights service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping tracking insights service...")

	// Closing the queue lets the workers drain the backlog before exiting.
	if err := s.workerPool.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "worker pool shutdown", logger.Error(err))
	}

	select {
	case <-s.stopCh:
		// Channel already closed
	default:
		close(s.stopCh)
	}

	s.started = false
	s.logger.Info(ctx, "tracking insights service stopped")
}

// SeenAndRecord atomically checks if a record id was seen and records it if not.
// Returns true if the record was already seen, false if it was newly recorded.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	seen := s.deduper.SeenAndRecord(ctx, id)
	if seen {
		metrics.RecordRecordDuplicate()
	}
	return seen
}

// Unrecord removes a record ID from the seen list, allowing it to be retried.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// Enqueue submits a record for asynchronous processing.
func (s *Service) Enqueue(ctx context.Context, record model.Record) bool {
	s.logger.Debug(ctx, "enqueueing record",
		logger.String("recordID", record.RecordID),
		logger.String("userID", record.UserID),
		logger.String("kind", string(record.Kind)),
	)

	ok := s.recordQueue.Enqueue(ctx, record)
	if ok {
		metrics.UpdateQueueSize(s.recordQueue.Len(ctx))
	}
	return ok
}

// ReplaceCatalog installs a user's activities, metrics and plans.
func (s *Service) ReplaceCatalog(ctx context.Context, userID string, activities []model.Activity, metricList []model.Metric, plans []model.Plan) error {
	if err := s.store.ReplaceCatalog(ctx, userID, activities, metricList, plans); err != nil {
		return fmt.Errorf("replace catalog for %s: %w", userID, err)
	}
	s.logger.Info(ctx, "catalog replaced",
		logger.String("userID", userID),
		logger.Int("activities", len(activities)),
		logger.Int("metrics", len(metricList)),
		logger.Int("plans", len(plans)),
	)
	return nil
}

// Correlations computes the ranked correlation report for one user metric.
func (s *Service) Correlations(ctx context.Context, userID, metricID string) (types.CorrelationReport, error) {
	start := time.Now()
	defer func() {
		metrics.RecordCorrelationLatency(float64(time.Since(start).Milliseconds()))
	}()

	snap, err := s.store.Snapshot(ctx, userID)
	if err != nil {
		return types.CorrelationReport{}, fmt.Errorf("snapshot for %s: %w", userID, err)
	}

	ratings := make([]model.MetricEntry, 0, len(snap.MetricEntries))
	for _, e := range snap.MetricEntries {
		if e.MetricID == metricID {
			ratings = append(ratings, e)
		}
	}

	results := s.correlator.Correlations(ctx, metricID, ratings, snap.Activities, snap.ActivityEntries)
	positive, negative := correlation.Partition(results)

	report := types.CorrelationReport{
		MetricID: metricID,
		Entries:  toCorrelationEntries(results),
		Positive: toCorrelationEntries(positive),
		Negative: toCorrelationEntries(negative),
	}
	return report, nil
}

// Streaks computes streak summaries for all of a user's plans.
func (s *Service) Streaks(ctx context.Context, userID string) ([]types.StreakEntry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStreakLatency(float64(time.Since(start).Milliseconds()))
	}()

	snap, err := s.store.Snapshot(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("snapshot for %s: %w", userID, err)
	}

	now := s.now()
	entries := make([]types.StreakEntry, 0, len(snap.Plans))
	for _, plan := range snap.Plans {
		summary := s.streaker.Streak(ctx, plan, snap.ActivityEntries, now)
		entries = append(entries, toStreakEntry(plan.ID, summary))
	}
	return entries, nil
}

// Streak computes the streak summary for a single plan.
func (s *Service) Streak(ctx context.Context, userID, planID string) (types.StreakEntry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStreakLatency(float64(time.Since(start).Milliseconds()))
	}()

	snap, err := s.store.Snapshot(ctx, userID)
	if err != nil {
		return types.StreakEntry{}, fmt.Errorf("snapshot for %s: %w", userID, err)
	}

	for _, plan := range snap.Plans {
		if plan.ID == planID {
			summary := s.streaker.Streak(ctx, plan, snap.ActivityEntries, s.now())
			return toStreakEntry(plan.ID, summary), nil
		}
	}
	return types.StreakEntry{}, fmt.Errorf("plan %s: %w", planID, repository.ErrNotFound)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
	}

	if s.started {
		queueLen := s.recordQueue.Len(ctx)
		users, records := s.store.Counts(ctx)

		stats["queueLength"] = queueLen
		stats["users"] = users
		stats["records"] = records
		stats["dedupeEntries"] = s.deduper.Size()

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateStoreUsers(users)
		metrics.UpdateStoreRecords(records)
	}

	return stats
}

// Size returns the current number of entries in the deduper.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}

func toCorrelationEntries(results []correlation.Result) []types.CorrelationEntry {
	entries := make([]types.CorrelationEntry, len(results))
	for i, r := range results {
		entries[i] = types.CorrelationEntry{
			ActivityID:    r.Activity.ID,
			ActivityTitle: r.Activity.Title,
			Emoji:         r.Activity.Emoji,
			Coefficient:   r.Coefficient,
			SampleSize:    r.SampleSize,
		}
	}
	return entries
}

func toStreakEntry(planID string, summary streak.Summary) types.StreakEntry {
	return types.StreakEntry{
		PlanID: planID,
		Score:  summary.Score,
		Emoji:  summary.Emoji,
		Badge:  summary.Badge,
	}
}
