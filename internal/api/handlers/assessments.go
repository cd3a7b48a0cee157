// Package handlers contains the HTTP handler implementations for the
// FloodWatch API.
package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"floodwatch/internal/assessment"
	"floodwatch/internal/core"
	"floodwatch/internal/types"
)

// AssessmentServiceInterface defines the service contract for the assessment
// handler. It matches the assessment.Service API but is defined locally to
// avoid tight coupling, per the handler injection pattern.
type AssessmentServiceInterface interface {
	Assess(ctx context.Context, req *types.ScenarioRequest) (*types.FloodAssessment, error)
	History(ctx context.Context, limit int) []types.HistoryEntry
}

// AssessmentHandler maps HTTP requests to assessment service methods.
type AssessmentHandler struct {
	service   AssessmentServiceInterface
	validator *core.Validator
	logger    *slog.Logger
}

// NewAssessmentHandler creates a handler with the provided dependencies.
func NewAssessmentHandler(
	svc AssessmentServiceInterface,
	val *core.Validator,
	logger *slog.Logger,
) *AssessmentHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AssessmentHandler{
		service:   svc,
		validator: val,
		logger:    logger,
	}
}

// RegisterRoutes mounts the assessment endpoints onto the mux.
func (h *AssessmentHandler) RegisterRoutes(r chi.Router) {
	r.Post("/assessments", h.HandleAssess)
	r.Get("/assessments/history", h.HandleHistory)
}

// HandleAssess handles POST /v1/assessments:
//  1. Decode and validate the scenario payload.
//  2. Run the assessment workflow.
//  3. Return the assessment JSON.
func (h *AssessmentHandler) HandleAssess(w http.ResponseWriter, r *http.Request) {
	var req types.ScenarioRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		core.Error(w, r, err)
		return
	}

	result, err := h.service.Assess(r.Context(), &req)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	core.JSON(w, r, http.StatusOK, result.Payload())
}

// historyResponse is the envelope for GET /v1/assessments/history.
type historyResponse struct {
	Items []types.HistoryEntry `json:"items"`
}

// HandleHistory handles GET /v1/assessments/history. The limit query
// parameter must lie in [1,30] and defaults to 10.
func (h *AssessmentHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	limit := assessment.DefaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > assessment.MaxHistoryLimit {
			core.Error(w, r, types.NewAppError(
				types.ErrCodeValidationHistoryLimit,
				"limit must be an integer between 1 and 30",
				err,
			))
			return
		}
		limit = parsed
	}

	items := h.service.History(r.Context(), limit)
	core.JSON(w, r, http.StatusOK, historyResponse{Items: items})
}
