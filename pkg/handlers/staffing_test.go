package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
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

// mockStaffingService implements services.StaffingService.
type mockStaffingService struct {
	response *models.StaffingResponse
	err      error

	manualCalls  int
	lastInput    models.StaffingInput
	lastCurrent  models.CurrentStaffingFte
	autoCalls    int
}

func (m *mockStaffingService) ComputeManual(input models.StaffingInput, current models.CurrentStaffingFte) (*models.StaffingResponse, error) {
	m.manualCalls++
	m.lastInput = input
	m.lastCurrent = current
	return m.response, m.err
}

func (m *mockStaffingService) ComputeAutomatic(_ context.Context, _ uuid.UUID) (*models.StaffingResponse, error) {
	m.autoCalls++
	return m.response, m.err
}

var _ services.StaffingService = (*mockStaffingService)(nil)

func newStaffingServer(svc services.StaffingService) *httptest.Server {
	mux := http.NewServeMux()
	h := NewStaffingHandler(svc, audit.NewSecurityAuditor(zap.NewNop()), zap.NewNop())
	h.RegisterRoutes(mux, passthrough, passthrough)
	return httptest.NewServer(mux)
}

func staffingURL(server *httptest.Server, practiceID string) string {
	return server.URL + "/api/practices/" + practiceID + "/hr/staffing-demand"
}

func staffingResponseFixture() *models.StaffingResponse {
	return &models.StaffingResponse{
		EngineVersion: services.StaffingEngineVersion,
		Result: models.StaffingResult{
			Roles:          map[string]models.RoleStaffing{"doctor": {TargetFte: 5.21}},
			TotalTargetFte: 5.21,
			EngineVersion:  services.StaffingEngineVersion,
		},
	}
}

func TestGetStaffingDemand(t *testing.T) {
	practiceID := uuid.New().String()

	t.Run("returns the automatic computation", func(t *testing.T) {
		svc := &mockStaffingService{response: staffingResponseFixture()}
		server := newStaffingServer(svc)
		defer server.Close()

		resp, err := http.Get(staffingURL(server, practiceID))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, 1, svc.autoCalls)

		var body models.StaffingResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, 5.21, body.Result.Roles["doctor"].TargetFte)
	})

	t.Run("maps failures to 500", func(t *testing.T) {
		svc := &mockStaffingService{err: assert.AnError}
		server := newStaffingServer(svc)
		defer server.Close()

		resp, err := http.Get(staffingURL(server, practiceID))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})
}

func TestPostStaffingDemand(t *testing.T) {
	practiceID := uuid.New().String()

	t.Run("passes body input and current staffing through", func(t *testing.T) {
		svc := &mockStaffingService{response: staffingResponseFixture()}
		server := newStaffingServer(svc)
		defer server.Close()

		body := `{
			"patientVolume": 100,
			"operatingHours": 8,
			"avgServiceMinutes": {"doctor": 20},
			"utilizationFactor": 0.8,
			"current": {"doctor": 4}
		}`
		resp, err := http.Post(staffingURL(server, practiceID), "application/json", strings.NewReader(body))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, 1, svc.manualCalls)
		assert.Equal(t, 100.0, svc.lastInput.PatientVolume)
		assert.Equal(t, 20.0, svc.lastInput.AvgServiceMinutes["doctor"])
		assert.Equal(t, 4.0, svc.lastCurrent["doctor"])
	})

	t.Run("rejects malformed body", func(t *testing.T) {
		svc := &mockStaffingService{}
		server := newStaffingServer(svc)
		defer server.Close()

		resp, err := http.Post(staffingURL(server, practiceID), "application/json", strings.NewReader("{not json"))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, 0, svc.manualCalls)
	})

	t.Run("maps validation errors to 400", func(t *testing.T) {
		svc := &mockStaffingService{err: apperrors.NewValidation("operatingHours", "must be positive, got 0")}
		server := newStaffingServer(svc)
		defer server.Close()

		resp, err := http.Post(staffingURL(server, practiceID), "application/json",
			strings.NewReader(`{"patientVolume": 100, "operatingHours": 0, "avgServiceMinutes": {"doctor": 20}}`))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "invalid_parameter", body["error"])
		assert.Contains(t, body["message"], "operatingHours")
	})

	t.Run("rejects malformed practice ID", func(t *testing.T) {
		svc := &mockStaffingService{}
		server := newStaffingServer(svc)
		defer server.Close()

		resp, err := http.Post(staffingURL(server, "42"), "application/json", strings.NewReader("{}"))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, 0, svc.manualCalls)
	})
}
