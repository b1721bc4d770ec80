package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/praxisflow/hr-engine/pkg/apperrors"
	"github.com/praxisflow/hr-engine/pkg/audit"
	"github.com/praxisflow/hr-engine/pkg/models"
	"github.com/praxisflow/hr-engine/pkg/services"
)

// StaffingHandler serves the staffing-demand endpoints.
type StaffingHandler struct {
	staffing services.StaffingService
	auditor  *audit.SecurityAuditor
	logger   *zap.Logger
}

// NewStaffingHandler creates a new staffing handler.
func NewStaffingHandler(staffing services.StaffingService, auditor *audit.SecurityAuditor, logger *zap.Logger) *StaffingHandler {
	return &StaffingHandler{
		staffing: staffing,
		auditor:  auditor,
		logger:   logger,
	}
}

// RegisterRoutes registers both staffing-demand endpoints. GET derives the
// input from the practice's own operating data and needs the practice
// scope; POST is a pure what-if computation on the request body.
func (h *StaffingHandler) RegisterRoutes(
	mux *http.ServeMux,
	requireAuth func(http.HandlerFunc) http.HandlerFunc,
	practiceScope func(http.HandlerFunc) http.HandlerFunc,
) {
	mux.HandleFunc("GET /api/practices/{pid}/hr/staffing-demand", requireAuth(practiceScope(h.GetStaffingDemand)))
	mux.HandleFunc("POST /api/practices/{pid}/hr/staffing-demand", requireAuth(h.PostStaffingDemand))
}

// GetStaffingDemand handles GET /api/practices/{pid}/hr/staffing-demand.
// The input is derived from recent visit volume, configured service times
// and the room layout.
func (h *StaffingHandler) GetStaffingDemand(w http.ResponseWriter, r *http.Request) {
	practiceID, ok := ParsePracticeID(w, r, h.logger)
	if !ok {
		return
	}

	response, err := h.staffing.ComputeAutomatic(r.Context(), practiceID)
	if err != nil {
		h.logger.Error("Failed to compute staffing demand",
			zap.String("practice_id", practiceID.String()),
			zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to compute staffing demand"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to write staffing response", zap.Error(err))
	}
}

// staffingDemandRequest is the POST body: the what-if operating parameters
// plus optional current staffing per role.
type staffingDemandRequest struct {
	models.StaffingInput
	Current models.CurrentStaffingFte `json:"current,omitempty"`
}

// PostStaffingDemand handles POST /api/practices/{pid}/hr/staffing-demand.
// The computation runs entirely on the supplied body; nothing is read from
// or written to the practice's data.
func (h *StaffingHandler) PostStaffingDemand(w http.ResponseWriter, r *http.Request) {
	practiceID, ok := ParsePracticeID(w, r, h.logger)
	if !ok {
		return
	}

	var req staffingDemandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.auditor.LogValidationFailure(r.Context(), practiceID, r.URL.Path, "malformed request body", clientIP(r))
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	response, err := h.staffing.ComputeManual(req.StaffingInput, req.Current)
	if err != nil {
		if apperrors.IsValidation(err) {
			h.auditor.LogValidationFailure(r.Context(), practiceID, r.URL.Path, err.Error(), clientIP(r))
			if err := ErrorResponse(w, http.StatusBadRequest, "invalid_parameter", err.Error()); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}

		h.logger.Error("Failed to compute staffing demand",
			zap.String("practice_id", practiceID.String()),
			zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to compute staffing demand"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to write staffing response", zap.Error(err))
	}
}
