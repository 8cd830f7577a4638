// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/alramalho/self-tracking-software-sub007/internal/domain/dedupe"
	"github.com/alramalho/self-tracking-software-sub007/internal/domain/model"
)

// RecordDependencies defines the interface for record ingestion dependencies.
type RecordDependencies interface {
	dedupe.Deduper
	Enqueue(ctx context.Context, record model.Record) bool
}

// RecordsHandler handles record ingestion requests.
type RecordsHandler struct {
	deps RecordDependencies
}

// NewRecordsHandler creates a new records handler.
func NewRecordsHandler(deps RecordDependencies) *RecordsHandler {
	return &RecordsHandler{deps: deps}
}

// recordRequest mirrors the OpenAPI schema for POST /records.
type recordRequest struct {
	RecordID string                `json:"record_id"`
	UserID   string                `json:"user_id"`
	Kind     string                `json:"kind"`
	Activity *activityEntryPayload `json:"activity_entry,omitempty"`
	Metric   *metricEntryPayload   `json:"metric_entry,omitempty"`
}

type activityEntryPayload struct {
	ID         string  `json:"id"`
	ActivityID string  `json:"activity_id"`
	Date       string  `json:"date"`
	Quantity   float64 `json:"quantity"`
}

type metricEntryPayload struct {
	ID       string `json:"id"`
	MetricID string `json:"metric_id"`
	Date     string `json:"date"`
	Rating   int    `json:"rating"`
}

func (r recordRequest) validate() error {
	switch {
	case strings.TrimSpace(r.RecordID) == "":
		return errors.New("missing record_id")
	case strings.TrimSpace(r.UserID) == "":
		return errors.New("missing user_id")
	}
	switch model.RecordKind(r.Kind) {
	case model.KindActivityEntry:
		if r.Activity == nil {
			return errors.New("missing activity_entry")
		}
		return r.Activity.validate()
	case model.KindMetricEntry:
		if r.Metric == nil {
			return errors.New("missing metric_entry")
		}
		return r.Metric.validate()
	default:
		return errors.New("kind must be activity_entry or metric_entry")
	}
}

func (p activityEntryPayload) validate() error {
	switch {
	case strings.TrimSpace(p.ID) == "":
		return errors.New("missing activity_entry.id")
	case strings.TrimSpace(p.ActivityID) == "":
		return errors.New("missing activity_entry.activity_id")
	}
	if _, err := time.Parse(time.RFC3339, p.Date); err != nil {
		return errors.New("invalid activity_entry.date; must be RFC3339")
	}
	return nil
}

func (p metricEntryPayload) validate() error {
	switch {
	case strings.TrimSpace(p.ID) == "":
		return errors.New("missing metric_entry.id")
	case strings.TrimSpace(p.MetricID) == "":
		return errors.New("missing metric_entry.metric_id")
	case p.Rating < model.RatingMin || p.Rating > model.RatingMax:
		return errors.New("metric_entry.rating must be between 1 and 5")
	}
	if _, err := time.Parse(time.RFC3339, p.Date); err != nil {
		return errors.New("invalid metric_entry.date; must be RFC3339")
	}
	return nil
}

// toRecord converts a validated request into the ingestion envelope.
func (r recordRequest) toRecord() model.Record {
	record := model.Record{
		RecordID: r.RecordID,
		UserID:   r.UserID,
		Kind:     model.RecordKind(r.Kind),
	}
	switch record.Kind {
	case model.KindActivityEntry:
		date, _ := time.Parse(time.RFC3339, r.Activity.Date)
		record.Activity = model.ActivityEntry{
			ID:         r.Activity.ID,
			ActivityID: r.Activity.ActivityID,
			Date:       date,
			Quantity:   r.Activity.Quantity,
		}
	case model.KindMetricEntry:
		date, _ := time.Parse(time.RFC3339, r.Metric.Date)
		record.Metric = model.MetricEntry{
			ID:       r.Metric.ID,
			MetricID: r.Metric.MetricID,
			Date:     date,
			Rating:   r.Metric.Rating,
		}
	}
	return record
}

// HandlePostRecord handles POST /records requests.
func (h *RecordsHandler) HandlePostRecord(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_record"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req recordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	// Idempotency check - mark as seen first
	if h.deps.SeenAndRecord(r.Context(), req.RecordID) {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true})
		return
	}

	// Try to enqueue for async processing
	if ok := h.deps.Enqueue(r.Context(), req.toRecord()); !ok {
		// Rollback the "seen" status since enqueue failed
		h.deps.Unrecord(r.Context(), req.RecordID)
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", Duplicate: false})
}
