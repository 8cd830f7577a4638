// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/alramalho/self-tracking-software-sub007/internal/domain/dedupe"
	"github.com/alramalho/self-tracking-software-sub007/internal/domain/model"
	"github.com/alramalho/self-tracking-software-sub007/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	dedupe.Deduper

	// Enqueue pushes a record for async processing. Returns false on backpressure.
	Enqueue(ctx context.Context, record model.Record) bool

	// ReplaceCatalog installs a user's activities, metrics and plans.
	ReplaceCatalog(ctx context.Context, userID string, activities []model.Activity, metrics []model.Metric, plans []model.Plan) error

	// Read operations expose the insight engines.
	Correlations(ctx context.Context, userID, metricID string) (types.CorrelationReport, error)
	Streaks(ctx context.Context, userID string) ([]types.StreakEntry, error)
	Streak(ctx context.Context, userID, planID string) (types.StreakEntry, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler       *HealthHandler
	statsHandler        *StatsHandler
	recordsHandler      *RecordsHandler
	catalogHandler      *CatalogHandler
	correlationsHandler *CorrelationsHandler
	streaksHandler      *StreaksHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxCorrelationLimit int) *Server {
	return &Server{
		healthHandler:       NewHealthHandler(),
		statsHandler:        NewStatsHandler(statsProvider),
		recordsHandler:      NewRecordsHandler(deps),
		catalogHandler:      NewCatalogHandler(deps),
		correlationsHandler: NewCorrelationsHandler(deps, maxCorrelationLimit),
		streaksHandler:      NewStreaksHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/records", MetricsMiddleware(s.recordsHandler.HandlePostRecord, "records"))
	mux.HandleFunc("/catalog", MetricsMiddleware(s.catalogHandler.HandlePutCatalog, "catalog"))
	mux.HandleFunc("/correlations", MetricsMiddleware(s.correlationsHandler.HandleGetCorrelations, "correlations"))
	mux.HandleFunc("/streaks", MetricsMiddleware(s.streaksHandler.HandleGetStreaks, "streaks"))
	mux.HandleFunc("/streaks/", MetricsMiddleware(s.streaksHandler.HandleGetStreak, "streak"))
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
