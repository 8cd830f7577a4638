// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/alramalho/self-tracking-software-sub007/internal/adapters/repository"
	"github.com/alramalho/self-tracking-software-sub007/internal/domain/types"
)

// CorrelationDependencies defines the interface for correlation queries.
type CorrelationDependencies interface {
	Correlations(ctx context.Context, userID, metricID string) (types.CorrelationReport, error)
}

// CorrelationsHandler handles correlation report requests.
type CorrelationsHandler struct {
	deps     CorrelationDependencies
	maxLimit int
}

// NewCorrelationsHandler creates a new correlations handler.
func NewCorrelationsHandler(deps CorrelationDependencies, maxLimit int) *CorrelationsHandler {
	return &CorrelationsHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleGetCorrelations handles GET /correlations?user=&metric=&limit= requests.
func (h *CorrelationsHandler) HandleGetCorrelations(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_correlations"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	userID := strings.TrimSpace(r.URL.Query().Get("user"))
	metricID := strings.TrimSpace(r.URL.Query().Get("metric"))
	if userID == "" || metricID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	// limit is optional; when present it bounds the ranked list.
	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		if n > h.maxLimit {
			writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
			return
		}
		limit = n
	}

	report, err := h.deps.Correlations(r.Context(), userID, metricID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	if limit > 0 && limit < len(report.Entries) {
		report = truncateReport(report, limit)
	}
	writeJSON(w, http.StatusOK, report)
}

// truncateReport bounds the ranked list and re-derives the partitions so the
// response stays self-consistent.
func truncateReport(report types.CorrelationReport, limit int) types.CorrelationReport {
	out := types.CorrelationReport{
		MetricID: report.MetricID,
		Entries:  report.Entries[:limit],
	}
	for _, e := range out.Entries {
		switch {
		case e.Coefficient > 0:
			out.Positive = append(out.Positive, e)
		case e.Coefficient < 0:
			out.Negative = append(out.Negative, e)
		}
	}
	return out
}
