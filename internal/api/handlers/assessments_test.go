package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"floodwatch/internal/core"
	"floodwatch/internal/types"
)

// stubService records calls and returns canned results.
type stubService struct {
	assessResult *types.FloodAssessment
	assessErr    error

	historyLimit int
	history      []types.HistoryEntry
}

func (s *stubService) Assess(ctx context.Context, req *types.ScenarioRequest) (*types.FloodAssessment, error) {
	if s.assessErr != nil {
		return nil, s.assessErr
	}
	return s.assessResult, nil
}

func (s *stubService) History(ctx context.Context, limit int) []types.HistoryEntry {
	s.historyLimit = limit
	return s.history
}

func newTestRouter(svc *stubService) *chi.Mux {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewAssessmentHandler(svc, core.NewValidator(logger), logger)

	r := chi.NewRouter()
	r.Route("/v1", func(r chi.Router) {
		handler.RegisterRoutes(r)
	})
	return r
}

func ptr(v float64) *float64 { return &v }

func validBody(t *testing.T) string {
	t.Helper()
	req := &types.ScenarioRequest{
		MonsoonIntensity:                ptr(85),
		TopographyDrainage:              ptr(40),
		RiverManagement:                 ptr(35),
		Deforestation:                   ptr(70),
		Urbanization:                    ptr(80),
		ClimateChange:                   ptr(65),
		DamsQuality:                     ptr(30),
		Siltation:                       ptr(75),
		AgriculturalPractices:           ptr(55),
		Encroachments:                   ptr(60),
		IneffectiveDisasterPreparedness: ptr(70),
		DrainageSystems:                 ptr(35),
		CoastalVulnerability:            ptr(20),
		Landslides:                      ptr(45),
		Watersheds:                      ptr(40),
		DeterioratingInfrastructure:     ptr(65),
		PopulationScore:                 ptr(85),
		WetlandLoss:                     ptr(60),
		InadequatePlanning:              ptr(70),
		PoliticalFactors:                ptr(50),
		District:                        "Patna",
		State:                           "Bihar",
	}
	encoded, err := json.Marshal(req)
	require.NoError(t, err)
	return string(encoded)
}

func sampleAssessment() *types.FloodAssessment {
	return &types.FloodAssessment{
		ID: "4f1c2d9a",
		Risk: &types.FloodRiskResult{
			Score:      0.78,
			Band:       types.BandSevere,
			Confidence: 99.96,
			Scenario: &types.Scenario{
				District:  "Patna",
				State:     "Bihar",
				Timestamp: time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC),
			},
		},
		Actions: map[string]string{
			"NDMA": "Emergency: Broadcast multi-lingual evacuation orders via SANCHAR network",
		},
	}
}

func TestHandleAssess(t *testing.T) {
	t.Run("valid request returns assessment", func(t *testing.T) {
		svc := &stubService{assessResult: sampleAssessment()}
		router := newTestRouter(svc)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/assessments", strings.NewReader(validBody(t))))

		require.Equal(t, http.StatusOK, rec.Code)

		var body types.AssessmentPayload
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, types.BandSevere, body.Risk.Band)
		assert.Equal(t, 0.78, body.Risk.Score)
		assert.Equal(t, "Patna", body.Risk.District)
		assert.Contains(t, body.Actions, "NDMA")
	})

	t.Run("malformed json", func(t *testing.T) {
		router := newTestRouter(&stubService{})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/assessments", strings.NewReader(`{"District":`)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "validation_invalid_json")
	})

	t.Run("missing indicator", func(t *testing.T) {
		router := newTestRouter(&stubService{})

		body := strings.Replace(validBody(t), `"MonsoonIntensity":85,`, "", 1)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/assessments", strings.NewReader(body)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "validation_missing_required_field")
		assert.Contains(t, rec.Body.String(), "MonsoonIntensity")
	})

	t.Run("out of range indicator", func(t *testing.T) {
		router := newTestRouter(&stubService{})

		body := strings.Replace(validBody(t), `"Siltation":75`, `"Siltation":130`, 1)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/assessments", strings.NewReader(body)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "validation_indicator_out_of_range")
	})

	t.Run("scoring failure returns 500", func(t *testing.T) {
		svc := &stubService{assessErr: types.NewAppError(types.ErrCodeInternalScoring, "regression backend prediction failed", nil)}
		router := newTestRouter(svc)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/assessments", strings.NewReader(validBody(t))))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "internal_scoring_error")
	})
}

func TestHandleHistory(t *testing.T) {
	t.Run("default limit", func(t *testing.T) {
		svc := &stubService{history: []types.HistoryEntry{{District: "Patna", Band: types.BandHigh}}}
		router := newTestRouter(svc)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/assessments/history", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 10, svc.historyLimit)

		var body historyResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body.Items, 1)
		assert.Equal(t, "Patna", body.Items[0].District)
	})

	t.Run("explicit limit", func(t *testing.T) {
		svc := &stubService{}
		router := newTestRouter(svc)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/assessments/history?limit=5", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 5, svc.historyLimit)
	})

	t.Run("empty history serializes as empty array", func(t *testing.T) {
		svc := &stubService{history: []types.HistoryEntry{}}
		router := newTestRouter(svc)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/assessments/history", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"items":[]}`, rec.Body.String())
	})

	invalid := []struct {
		name  string
		query string
	}{
		{"not a number", "limit=abc"},
		{"zero", "limit=0"},
		{"negative", "limit=-2"},
		{"above maximum", "limit=31"},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&stubService{})

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/assessments/history?"+tt.query, nil))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "validation_invalid_history_limit")
		})
	}
}
