package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alramalho/self-tracking-software-sub007/internal/adapters/http/api"
	"github.com/alramalho/self-tracking-software-sub007/internal/adapters/repository"
	"github.com/alramalho/self-tracking-software-sub007/internal/domain/model"
	"github.com/alramalho/self-tracking-software-sub007/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

// Mock implementations for testing
type mockDeduper struct {
	seen map[string]bool
}

func (m *mockDeduper) SeenAndRecord(ctx context.Context, id string) bool {
	if m.seen == nil {
		m.seen = make(map[string]bool)
	}
	if m.seen[id] {
		return true
	}
	m.seen[id] = true
	return false
}

func (m *mockDeduper) Unrecord(ctx context.Context, id string) {
	if m.seen != nil {
		delete(m.seen, id)
	}
}

func (m *mockDeduper) Size() int64 {
	return int64(len(m.seen))
}

type mockQueue struct {
	enqueueSuccess bool
	enqueued       []model.Record
}

func (m *mockQueue) Enqueue(ctx context.Context, record model.Record) bool {
	if m.enqueueSuccess {
		m.enqueued = append(m.enqueued, record)
		return true
	}
	return false
}

type mockInsights struct {
	report       types.CorrelationReport
	reportErr    error
	streaks      []types.StreakEntry
	streaksErr   error
	streak       types.StreakEntry
	streakErr    error
	catalogErr   error
	catalogCalls int
}

func (m *mockInsights) Correlations(ctx context.Context, userID, metricID string) (types.CorrelationReport, error) {
	if m.reportErr != nil {
		return types.CorrelationReport{}, m.reportErr
	}
	return m.report, nil
}

func (m *mockInsights) Streaks(ctx context.Context, userID string) ([]types.StreakEntry, error) {
	if m.streaksErr != nil {
		return nil, m.streaksErr
	}
	return m.streaks, nil
}

func (m *mockInsights) Streak(ctx context.Context, userID, planID string) (types.StreakEntry, error) {
	if m.streakErr != nil {
		return types.StreakEntry{}, m.streakErr
	}
	return m.streak, nil
}

func (m *mockInsights) ReplaceCatalog(ctx context.Context, userID string, activities []model.Activity, metrics []model.Metric, plans []model.Plan) error {
	m.catalogCalls++
	return m.catalogErr
}

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

// Mock dependencies that implements the Dependencies interface
type mockDependencies struct {
	dedupe   *mockDeduper
	queue    *mockQueue
	insights *mockInsights
}

func (m *mockDependencies) SeenAndRecord(ctx context.Context, id string) bool {
	return m.dedupe.SeenAndRecord(ctx, id)
}

func (m *mockDependencies) Unrecord(ctx context.Context, id string) {
	m.dedupe.Unrecord(ctx, id)
}

func (m *mockDependencies) Size() int64 {
	return m.dedupe.Size()
}

func (m *mockDependencies) Enqueue(ctx context.Context, record model.Record) bool {
	return m.queue.Enqueue(ctx, record)
}

func (m *mockDependencies) ReplaceCatalog(ctx context.Context, userID string, activities []model.Activity, metrics []model.Metric, plans []model.Plan) error {
	return m.insights.ReplaceCatalog(ctx, userID, activities, metrics, plans)
}

func (m *mockDependencies) Correlations(ctx context.Context, userID, metricID string) (types.CorrelationReport, error) {
	return m.insights.Correlations(ctx, userID, metricID)
}

func (m *mockDependencies) Streaks(ctx context.Context, userID string) ([]types.StreakEntry, error) {
	return m.insights.Streaks(ctx, userID)
}

func (m *mockDependencies) Streak(ctx context.Context, userID, planID string) (types.StreakEntry, error) {
	return m.insights.Streak(ctx, userID, planID)
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func newMockDependencies() *mockDependencies {
	return &mockDependencies{
		dedupe:   &mockDeduper{},
		queue:    &mockQueue{enqueueSuccess: true},
		insights: &mockInsights{},
	}
}

const validRecord = `{
	"record_id": "rec-123",
	"user_id": "user-456",
	"kind": "activity_entry",
	"activity_entry": {
		"id": "ae-1",
		"activity_id": "act-run",
		"date": "2025-06-02T00:00:00Z",
		"quantity": 30
	}
}`

func TestServer_Register(t *testing.T) {
	Convey("Given a new API server", t, func() {
		deps := newMockDependencies()
		statsProvider := &mockStatsProvider{}
		server := api.NewServer(deps, statsProvider, 100)
		mux := http.NewServeMux()

		Convey("When registering routes", func() {
			server.Register(context.Background(), mux)

			Convey("And health endpoint should be accessible", func() {
				req := httptest.NewRequest("GET", "/healthz", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
			})

			Convey("And stats endpoint should be accessible", func() {
				req := httptest.NewRequest("GET", "/stats", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
			})

			Convey("And records endpoint should reject empty bodies", func() {
				req := httptest.NewRequest("POST", "/records", strings.NewReader(`{}`))
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})

			Convey("And correlations endpoint should be accessible", func() {
				req := httptest.NewRequest("GET", "/correlations?user=u&metric=m", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
			})

			Convey("And streaks endpoints should be accessible", func() {
				req := httptest.NewRequest("GET", "/streaks?user=u", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)

				req = httptest.NewRequest("GET", "/streaks/plan-1?user=u", nil)
				w = httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
			})

			Convey("And unknown paths should 404", func() {
				req := httptest.NewRequest("GET", "/unknown", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestRecordsHandler_HandlePostRecord(t *testing.T) {
	Convey("Given a records handler", t, func() {
		deps := newMockDependencies()
		handler := api.NewRecordsHandler(deps)

		Convey("When handling a valid activity entry", func() {
			req := httptest.NewRequest("POST", "/records", strings.NewReader(validRecord))
			w := httptest.NewRecorder()

			Convey("Then it should return accepted status", func() {
				handler.HandlePostRecord(w, req)
				So(w.Code, ShouldEqual, http.StatusAccepted)

				var response ackResponse
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response.Status, ShouldEqual, "accepted")
				So(response.Duplicate, ShouldBeFalse)
			})

			Convey("And the enqueued record carries the parsed payload", func() {
				handler.HandlePostRecord(w, req)
				So(len(deps.queue.enqueued), ShouldEqual, 1)
				record := deps.queue.enqueued[0]
				So(record.Kind, ShouldEqual, model.KindActivityEntry)
				So(record.Activity.ActivityID, ShouldEqual, "act-run")
				So(record.Activity.Quantity, ShouldEqual, 30)
			})
		})

		Convey("When handling a valid metric entry", func() {
			body := `{
				"record_id": "rec-200",
				"user_id": "user-456",
				"kind": "metric_entry",
				"metric_entry": {
					"id": "me-1",
					"metric_id": "met-energy",
					"date": "2025-06-02T00:00:00Z",
					"rating": 4
				}
			}`
			req := httptest.NewRequest("POST", "/records", strings.NewReader(body))
			w := httptest.NewRecorder()

			Convey("Then it should return accepted status", func() {
				handler.HandlePostRecord(w, req)
				So(w.Code, ShouldEqual, http.StatusAccepted)
				So(deps.queue.enqueued[0].Metric.Rating, ShouldEqual, 4)
			})
		})

		Convey("When handling a duplicate record", func() {
			req1 := httptest.NewRequest("POST", "/records", strings.NewReader(validRecord))
			w1 := httptest.NewRecorder()
			handler.HandlePostRecord(w1, req1)

			req2 := httptest.NewRequest("POST", "/records", strings.NewReader(validRecord))
			w2 := httptest.NewRecorder()

			Convey("Then it should return duplicate status", func() {
				handler.HandlePostRecord(w2, req2)
				So(w2.Code, ShouldEqual, http.StatusOK)

				var response ackResponse
				err := json.NewDecoder(w2.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response.Status, ShouldEqual, "duplicate")
				So(response.Duplicate, ShouldBeTrue)
			})
		})

		Convey("When handling an invalid JSON request", func() {
			req := httptest.NewRequest("POST", "/records", strings.NewReader(`{invalid json`))
			w := httptest.NewRecorder()

			Convey("Then it should return bad request status", func() {
				handler.HandlePostRecord(w, req)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the rating is out of range", func() {
			body := `{
				"record_id": "rec-300",
				"user_id": "user-456",
				"kind": "metric_entry",
				"metric_entry": {
					"id": "me-2",
					"metric_id": "met-energy",
					"date": "2025-06-02T00:00:00Z",
					"rating": 9
				}
			}`
			req := httptest.NewRequest("POST", "/records", strings.NewReader(body))
			w := httptest.NewRecorder()

			Convey("Then it should return bad request status", func() {
				handler.HandlePostRecord(w, req)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the kind does not match the payload", func() {
			body := `{
				"record_id": "rec-400",
				"user_id": "user-456",
				"kind": "activity_entry",
				"metric_entry": {
					"id": "me-3",
					"metric_id": "met-energy",
					"date": "2025-06-02T00:00:00Z",
					"rating": 3
				}
			}`
			req := httptest.NewRequest("POST", "/records", strings.NewReader(body))
			w := httptest.NewRecorder()

			Convey("Then it should return bad request status", func() {
				handler.HandlePostRecord(w, req)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When handling a non-POST request", func() {
			req := httptest.NewRequest("GET", "/records", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return not found status", func() {
				handler.HandlePostRecord(w, req)
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When enqueue fails due to backpressure", func() {
			deps.queue.enqueueSuccess = false
			req := httptest.NewRequest("POST", "/records", strings.NewReader(validRecord))
			w := httptest.NewRecorder()

			Convey("Then it should return too many requests and roll back dedupe", func() {
				handler.HandlePostRecord(w, req)
				So(w.Code, ShouldEqual, http.StatusTooManyRequests)

				var response errorResponse
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response.Code, ShouldEqual, "backpressure")
				So(deps.dedupe.Size(), ShouldEqual, 0)
			})
		})
	})
}

func TestCatalogHandler_HandlePutCatalog(t *testing.T) {
	Convey("Given a catalog handler", t, func() {
		insights := &mockInsights{}
		handler := api.NewCatalogHandler(insights)

		Convey("When handling a valid catalog", func() {
			body := `{
				"user_id": "user-456",
				"activities": [{"id": "act-run", "title": "Running", "emoji": "🏃", "measure": "minutes"}],
				"metrics": [{"id": "met-energy", "title": "Energy", "emoji": "⚡"}],
				"plans": [{
					"id": "plan-1",
					"emoji": "🏃",
					"activity_ids": ["act-run"],
					"outline": {"type": "times_per_week", "target": 3}
				}]
			}`
			req := httptest.NewRequest("PUT", "/catalog", strings.NewReader(body))
			w := httptest.NewRecorder()

			Convey("Then it should install the catalog", func() {
				handler.HandlePutCatalog(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
				So(insights.catalogCalls, ShouldEqual, 1)

				var response map[string]interface{}
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response["status"], ShouldEqual, "updated")
				So(response["plans"], ShouldEqual, 1)
			})
		})

		Convey("When the catalog carries a sessions plan", func() {
			body := `{
				"user_id": "user-456",
				"plans": [{
					"id": "plan-2",
					"activity_ids": ["act-yoga"],
					"outline": {"type": "sessions", "sessions": ["2025-06-03T00:00:00Z", "2025-06-05T00:00:00Z"]}
				}]
			}`
			req := httptest.NewRequest("PUT", "/catalog", strings.NewReader(body))
			w := httptest.NewRecorder()

			Convey("Then it should be accepted", func() {
				handler.HandlePutCatalog(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
			})
		})

		Convey("When the user id is missing", func() {
			req := httptest.NewRequest("PUT", "/catalog", strings.NewReader(`{}`))
			w := httptest.NewRecorder()

			Convey("Then it should return bad request status", func() {
				handler.HandlePutCatalog(w, req)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When a plan has an unknown outline type", func() {
			body := `{
				"user_id": "user-456",
				"plans": [{"id": "plan-3", "activity_ids": ["a"], "outline": {"type": "daily"}}]
			}`
			req := httptest.NewRequest("PUT", "/catalog", strings.NewReader(body))
			w := httptest.NewRecorder()

			Convey("Then it should return bad request status", func() {
				handler.HandlePutCatalog(w, req)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When handling a non-PUT request", func() {
			req := httptest.NewRequest("GET", "/catalog", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return not found status", func() {
				handler.HandlePutCatalog(w, req)
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When the store fails", func() {
			insights.catalogErr = fmt.Errorf("store unavailable")
			body := `{"user_id": "user-456"}`
			req := httptest.NewRequest("PUT", "/catalog", strings.NewReader(body))
			w := httptest.NewRecorder()

			Convey("Then it should return internal server error", func() {
				handler.HandlePutCatalog(w, req)
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
			})
		})
	})
}

func TestCorrelationsHandler_HandleGetCorrelations(t *testing.T) {
	Convey("Given a correlations handler", t, func() {
		insights := &mockInsights{
			report: types.CorrelationReport{
				MetricID: "met-energy",
				Entries: []types.CorrelationEntry{
					{ActivityID: "act-run", ActivityTitle: "Running", Coefficient: 0.9, SampleSize: 10},
					{ActivityID: "act-late", ActivityTitle: "Late nights", Coefficient: -0.7, SampleSize: 12},
					{ActivityID: "act-read", ActivityTitle: "Reading", Coefficient: 0.2, SampleSize: 9},
				},
				Positive: []types.CorrelationEntry{
					{ActivityID: "act-run", Coefficient: 0.9},
					{ActivityID: "act-read", Coefficient: 0.2},
				},
				Negative: []types.CorrelationEntry{
					{ActivityID: "act-late", Coefficient: -0.7},
				},
			},
		}
		handler := api.NewCorrelationsHandler(insights, 100)

		Convey("When requesting a correlation report", func() {
			req := httptest.NewRequest("GET", "/correlations?user=user-456&metric=met-energy", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return the full ranked report", func() {
				handler.HandleGetCorrelations(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)

				var response types.CorrelationReport
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(len(response.Entries), ShouldEqual, 3)
				So(response.Entries[0].ActivityID, ShouldEqual, "act-run")
				So(len(response.Positive), ShouldEqual, 2)
				So(len(response.Negative), ShouldEqual, 1)
			})
		})

		Convey("When a limit bounds the report", func() {
			req := httptest.NewRequest("GET", "/correlations?user=user-456&metric=met-energy&limit=2", nil)
			w := httptest.NewRecorder()

			Convey("Then entries and partitions are truncated consistently", func() {
				handler.HandleGetCorrelations(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)

				var response types.CorrelationReport
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(len(response.Entries), ShouldEqual, 2)
				So(len(response.Positive), ShouldEqual, 1)
				So(len(response.Negative), ShouldEqual, 1)
			})
		})

		Convey("When user or metric is missing", func() {
			req := httptest.NewRequest("GET", "/correlations?user=user-456", nil)
			w := httptest.NewRecorder()

			handler.HandleGetCorrelations(w, req)

			Convey("Then it should return 400 Bad Request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the limit exceeds the maximum", func() {
			req := httptest.NewRequest("GET", "/correlations?user=u&metric=m&limit=1000", nil)
			w := httptest.NewRecorder()

			handler.HandleGetCorrelations(w, req)

			Convey("Then it should return 400 Bad Request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)

				var response errorResponse
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response.Code, ShouldEqual, "limit_exceeded")
			})
		})

		Convey("When the user is unknown", func() {
			insights.reportErr = repository.ErrNotFound
			req := httptest.NewRequest("GET", "/correlations?user=ghost&metric=met-energy", nil)
			w := httptest.NewRecorder()

			handler.HandleGetCorrelations(w, req)

			Convey("Then it should return not found status", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When the service returns another error", func() {
			insights.reportErr = fmt.Errorf("store unavailable")
			req := httptest.NewRequest("GET", "/correlations?user=u&metric=m", nil)
			w := httptest.NewRecorder()

			handler.HandleGetCorrelations(w, req)

			Convey("Then it should return internal server error", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
			})
		})
	})
}

func TestStreaksHandler(t *testing.T) {
	Convey("Given a streaks handler", t, func() {
		insights := &mockInsights{
			streaks: []types.StreakEntry{
				{PlanID: "plan-1", Score: 5, Emoji: "🏃", Badge: "habit"},
				{PlanID: "plan-2", Score: 1, Emoji: "🧘"},
			},
			streak: types.StreakEntry{PlanID: "plan-1", Score: 5, Emoji: "🏃", Badge: "habit"},
		}
		handler := api.NewStreaksHandler(insights)

		Convey("When requesting all streaks for a user", func() {
			req := httptest.NewRequest("GET", "/streaks?user=user-456", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return every plan summary", func() {
				handler.HandleGetStreaks(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)

				var response []types.StreakEntry
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(len(response), ShouldEqual, 2)
				So(response[0].Badge, ShouldEqual, "habit")
			})
		})

		Convey("When requesting a single plan streak", func() {
			req := httptest.NewRequest("GET", "/streaks/plan-1?user=user-456", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return the plan summary", func() {
				handler.HandleGetStreak(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)

				var response types.StreakEntry
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response.PlanID, ShouldEqual, "plan-1")
				So(response.Score, ShouldEqual, 5)
			})
		})

		Convey("When the user parameter is missing", func() {
			req := httptest.NewRequest("GET", "/streaks", nil)
			w := httptest.NewRecorder()

			handler.HandleGetStreaks(w, req)

			Convey("Then it should return 400 Bad Request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the plan path is malformed", func() {
			req := httptest.NewRequest("GET", "/streaks/plan-1/extra?user=u", nil)
			w := httptest.NewRecorder()

			handler.HandleGetStreak(w, req)

			Convey("Then it should return 400 Bad Request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the plan is unknown", func() {
			insights.streakErr = fmt.Errorf("plan plan-9: %w", repository.ErrNotFound)
			req := httptest.NewRequest("GET", "/streaks/plan-9?user=user-456", nil)
			w := httptest.NewRecorder()

			handler.HandleGetStreak(w, req)

			Convey("Then it should return not found status", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestStatsHandler_HandleStats(t *testing.T) {
	Convey("Given a stats handler", t, func() {
		mockStats := &mockStatsProvider{
			stats: map[string]interface{}{
				"users":   3,
				"records": 120,
			},
		}
		handler := api.NewStatsHandler(mockStats)

		Convey("When handling stats request", func() {
			req := httptest.NewRequest("GET", "/stats", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return stats", func() {
				handler.HandleStats(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)

				var response map[string]interface{}
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response["users"], ShouldEqual, 3)
				So(response["records"], ShouldEqual, 120)
			})
		})
	})
}

func TestHealthHandler_HandleHealth(t *testing.T) {
	Convey("Given a health handler", t, func() {
		handler := api.NewHealthHandler()

		Convey("When handling health check request", func() {
			req := httptest.NewRequest("GET", "/healthz", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return OK status", func() {
				handler.HandleHealth(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
			})
		})
	})
}
