package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/praxisflow/hr-engine/pkg/apperrors"
	"github.com/praxisflow/hr-engine/pkg/audit"
	"github.com/praxisflow/hr-engine/pkg/models"
	"github.com/praxisflow/hr-engine/pkg/services"
)

// passthrough satisfies the middleware slots without auth or DB scoping.
func passthrough(next http.HandlerFunc) http.HandlerFunc { return next }

// mockOverviewService implements services.OverviewService.
type mockOverviewService struct {
	response *models.HROverviewResponse
	err      error
	calls    int
	params   services.OverviewParams
}

func (m *mockOverviewService) Overview(_ context.Context, _ uuid.UUID, params services.OverviewParams) (*models.HROverviewResponse, error) {
	m.calls++
	m.params = params
	return m.response, m.err
}

func newOverviewServer(svc services.OverviewService) *httptest.Server {
	mux := http.NewServeMux()
	h := NewHROverviewHandler(svc, audit.NewSecurityAuditor(zap.NewNop()), zap.NewNop())
	h.RegisterRoutes(mux, passthrough, passthrough)
	return httptest.NewServer(mux)
}

func overviewURL(server *httptest.Server, practiceID, query string) string {
	return server.URL + "/api/practices/" + practiceID + "/hr/overview" + query
}

func TestGetOverview(t *testing.T) {
	practiceID := uuid.New().String()

	t.Run("returns the assembled payload", func(t *testing.T) {
		svc := &mockOverviewService{response: &models.HROverviewResponse{
			RequestedLevel:   models.LevelRole,
			AggregationLevel: models.LevelRole,
			Snapshots:        []models.KpiSnapshot{},
			AlertsBySnapshot: []models.SnapshotAlerts{},
			Warnings:         []string{},
		}}
		server := newOverviewServer(svc)
		defer server.Close()

		resp, err := http.Get(overviewURL(server, practiceID, "?level=role&kMin=4"))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

		var body models.HROverviewResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, models.LevelRole, body.AggregationLevel)

		// Query parameters pass through untouched; validation happens in
		// the service.
		assert.Equal(t, "role", svc.params.Level)
		assert.Equal(t, "4", svc.params.KMin)
	})

	t.Run("rejects malformed practice ID", func(t *testing.T) {
		svc := &mockOverviewService{}
		server := newOverviewServer(svc)
		defer server.Close()

		resp, err := http.Get(overviewURL(server, "not-a-uuid", ""))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, 0, svc.calls)
	})

	t.Run("maps validation errors to 400", func(t *testing.T) {
		svc := &mockOverviewService{err: apperrors.NewValidation("kMin", "must be at least 3, got 2")}
		server := newOverviewServer(svc)
		defer server.Close()

		resp, err := http.Get(overviewURL(server, practiceID, "?kMin=2"))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "invalid_parameter", body["error"])
		assert.Contains(t, body["message"], "kMin")
	})

	t.Run("maps internal errors to 500 without detail", func(t *testing.T) {
		svc := &mockOverviewService{err: apperrors.NewInternal("anonymity-gate", assert.AnError)}
		server := newOverviewServer(svc)
		defer server.Close()

		resp, err := http.Get(overviewURL(server, practiceID, ""))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "internal_error", body["error"])
		assert.NotContains(t, body["message"], "anonymity-gate")
	})

	t.Run("rejects injection probes before the service runs", func(t *testing.T) {
		svc := &mockOverviewService{}
		server := newOverviewServer(svc)
		defer server.Close()

		resp, err := http.Get(overviewURL(server, practiceID, "?level=practice%27%20OR%20%271%27%3D%271"))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, 0, svc.calls)
	})
}
