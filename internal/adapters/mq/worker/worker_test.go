package worker_test

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	queue "github.com/alramalho/self-tracking-software-sub007/internal/adapters/mq/queue"
	worker "github.com/alramalho/self-tracking-software-sub007/internal/adapters/mq/worker"
	"github.com/alramalho/self-tracking-software-sub007/internal/domain/model"
	"github.com/alramalho/self-tracking-software-sub007/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeAppender records appended entries for assertions.
type fakeAppender struct {
	mu         sync.Mutex
	activities []model.ActivityEntry
	ratings    []model.MetricEntry
	failAll    bool
}

func (f *fakeAppender) AppendActivityEntry(_ context.Context, _ string, entry model.ActivityEntry) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return false, errors.New("store unavailable")
	}
	f.activities = append(f.activities, entry)
	return true, nil
}

func (f *fakeAppender) AppendMetricEntry(_ context.Context, _ string, entry model.MetricEntry) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return false, errors.New("store unavailable")
	}
	f.ratings = append(f.ratings, entry)
	return true, nil
}

func (f *fakeAppender) counts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.activities), len(f.ratings)
}

func activityRecord(id string) worker.Record {
	return worker.Record{
		RecordID: id,
		UserID:   "user-1",
		Kind:     model.KindActivityEntry,
		Activity: model.ActivityEntry{ID: id, ActivityID: "act-run", Date: time.Now()},
	}
}

func metricRecord(id string) worker.Record {
	return worker.Record{
		RecordID: id,
		UserID:   "user-1",
		Kind:     model.KindMetricEntry,
		Metric:   model.MetricEntry{ID: id, MetricID: "met-energy", Date: time.Now(), Rating: 4},
	}
}

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func TestIngestWorker(t *testing.T) {
	if err := logger.Init(); err != nil {
		t.Fatalf("logger init: %v", err)
	}

	Convey("Given a worker draining a queue into a store", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		q := queue.NewInMemoryQueue(queue.WithCapacity(32))
		store := &fakeAppender{}
		w := worker.NewIngestWorker(q, store, worker.WithName("worker-test"))
		go w.Run(ctx)

		Convey("When activity and metric records are queued", func() {
			So(q.Enqueue(ctx, activityRecord("r-1")), ShouldBeTrue)
			So(q.Enqueue(ctx, metricRecord("r-2")), ShouldBeTrue)

			Convey("Then both land in the store", func() {
				ok := waitFor(func() bool {
					a, m := store.counts()
					return a == 1 && m == 1
				})
				So(ok, ShouldBeTrue)
			})
		})

		Convey("When a record has an unknown kind", func() {
			bad := worker.Record{RecordID: "r-bad", UserID: "user-1", Kind: "mystery"}
			So(q.Enqueue(ctx, bad), ShouldBeTrue)
			So(q.Enqueue(ctx, activityRecord("r-after")), ShouldBeTrue)

			Convey("Then the worker keeps processing subsequent records", func() {
				ok := waitFor(func() bool {
					a, _ := store.counts()
					return a == 1
				})
				So(ok, ShouldBeTrue)
			})
		})

		Convey("When the store fails", func() {
			store.failAll = true
			So(q.Enqueue(ctx, activityRecord("r-err")), ShouldBeTrue)
			So(q.Enqueue(ctx, activityRecord("r-err-2")), ShouldBeTrue)

			Convey("Then the worker survives the errors", func() {
				So(waitFor(func() bool { return q.Len(ctx) == 0 }), ShouldBeTrue)
				So(w.Shutdown(context.Background()), ShouldBeNil)
			})
		})
	})
}

func TestPool(t *testing.T) {
	if err := logger.Init(); err != nil {
		t.Fatalf("logger init: %v", err)
	}

	Convey("Given a pool of workers", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		q := queue.NewInMemoryQueue(queue.WithCapacity(256))
		store := &fakeAppender{}
		pool := worker.NewPool(4, q, store)
		pool.Start(ctx)

		Convey("When many records are queued", func() {
			const total = 60
			for i := 0; i < total; i++ {
				So(q.Enqueue(ctx, activityRecord("r-"+strconv.Itoa(i))), ShouldBeTrue)
			}

			Convey("Then the pool drains them all", func() {
				ok := waitFor(func() bool {
					a, _ := store.counts()
					return a == total
				})
				So(ok, ShouldBeTrue)
			})

			Convey("And Shutdown closes the queue and returns", func() {
				So(pool.Shutdown(ctx), ShouldBeNil)
				So(q.IsClosed(), ShouldBeTrue)
			})
		})
	})
}
