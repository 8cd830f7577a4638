// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/alramalho/self-tracking-software-sub007/internal/domain/model"
)

// CatalogDependencies defines the interface for catalog operations.
type CatalogDependencies interface {
	ReplaceCatalog(ctx context.Context, userID string, activities []model.Activity, metrics []model.Metric, plans []model.Plan) error
}

// CatalogHandler handles catalog replacement requests.
type CatalogHandler struct {
	deps CatalogDependencies
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(deps CatalogDependencies) *CatalogHandler {
	return &CatalogHandler{deps: deps}
}

// catalogRequest mirrors the OpenAPI schema for PUT /catalog.
type catalogRequest struct {
	UserID     string            `json:"user_id"`
	Activities []activityPayload `json:"activities"`
	Metrics    []metricPayload   `json:"metrics"`
	Plans      []planPayload     `json:"plans"`
}

type activityPayload struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Emoji   string `json:"emoji"`
	Measure string `json:"measure"`
}

type metricPayload struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Emoji string `json:"emoji"`
}

type planPayload struct {
	ID          string         `json:"id"`
	Emoji       string         `json:"emoji"`
	ActivityIDs []string       `json:"activity_ids"`
	Start       string         `json:"start,omitempty"`
	Outline     outlinePayload `json:"outline"`
}

// Outline type discriminators on the wire.
const (
	outlineTimesPerWeek = "times_per_week"
	outlineSessions     = "sessions"
)

type outlinePayload struct {
	Type     string   `json:"type"`
	Target   int      `json:"target,omitempty"`
	Sessions []string `json:"sessions,omitempty"`
}

func (c catalogRequest) validate() error {
	if strings.TrimSpace(c.UserID) == "" {
		return errors.New("missing user_id")
	}
	for i, a := range c.Activities {
		if strings.TrimSpace(a.ID) == "" {
			return fmt.Errorf("activities[%d]: missing id", i)
		}
	}
	for i, m := range c.Metrics {
		if strings.TrimSpace(m.ID) == "" {
			return fmt.Errorf("metrics[%d]: missing id", i)
		}
	}
	for i, p := range c.Plans {
		if err := p.validate(); err != nil {
			return fmt.Errorf("plans[%d]: %w", i, err)
		}
	}
	return nil
}

func (p planPayload) validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return errors.New("missing id")
	}
	if p.Start != "" {
		if _, err := time.Parse(time.RFC3339, p.Start); err != nil {
			return errors.New("invalid start; must be RFC3339")
		}
	}
	switch p.Outline.Type {
	case outlineTimesPerWeek:
		return nil
	case outlineSessions:
		for _, s := range p.Outline.Sessions {
			if _, err := time.Parse(time.RFC3339, s); err != nil {
				return errors.New("invalid outline session; must be RFC3339")
			}
		}
		return nil
	default:
		return errors.New("outline.type must be times_per_week or sessions")
	}
}

func (c catalogRequest) toModel() ([]model.Activity, []model.Metric, []model.Plan) {
	activities := make([]model.Activity, 0, len(c.Activities))
	for _, a := range c.Activities {
		activities = append(activities, model.Activity{
			ID:      a.ID,
			Title:   a.Title,
			Emoji:   a.Emoji,
			Measure: a.Measure,
		})
	}
	metricList := make([]model.Metric, 0, len(c.Metrics))
	for _, m := range c.Metrics {
		metricList = append(metricList, model.Metric{ID: m.ID, Title: m.Title, Emoji: m.Emoji})
	}
	plans := make([]model.Plan, 0, len(c.Plans))
	for _, p := range c.Plans {
		plan := model.Plan{
			ID:          p.ID,
			Emoji:       p.Emoji,
			ActivityIDs: p.ActivityIDs,
		}
		if p.Start != "" {
			plan.Start, _ = time.Parse(time.RFC3339, p.Start)
		}
		switch p.Outline.Type {
		case outlineTimesPerWeek:
			plan.Outline = model.TimesPerWeek{Target: p.Outline.Target}
		case outlineSessions:
			scheduled := make([]time.Time, 0, len(p.Outline.Sessions))
			for _, s := range p.Outline.Sessions {
				t, _ := time.Parse(time.RFC3339, s)
				scheduled = append(scheduled, t)
			}
			plan.Outline = model.Sessions{Scheduled: scheduled}
		}
		plans = append(plans, plan)
	}
	return activities, metricList, plans
}

type catalogResponse struct {
	Status     string `json:"status"`
	Activities int    `json:"activities"`
	Metrics    int    `json:"metrics"`
	Plans      int    `json:"plans"`
}

// HandlePutCatalog handles PUT /catalog requests.
func (h *CatalogHandler) HandlePutCatalog(w http.ResponseWriter, r *http.Request) {
	const op = "api.put_catalog"
	if r.Method != http.MethodPut {
		http.NotFound(w, r)
		return
	}
	var req catalogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	activities, metricList, plans := req.toModel()
	if err := h.deps.ReplaceCatalog(r.Context(), req.UserID, activities, metricList, plans); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, catalogResponse{
		Status:     "updated",
		Activities: len(activities),
		Metrics:    len(metricList),
		Plans:      len(plans),
	})
}
