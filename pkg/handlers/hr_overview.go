package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/praxisflow/hr-engine/pkg/apperrors"
	"github.com/praxisflow/hr-engine/pkg/audit"
	"github.com/praxisflow/hr-engine/pkg/services"
)

// HROverviewHandler serves the aggregated HR overview endpoint.
type HROverviewHandler struct {
	overview services.OverviewService
	auditor  *audit.SecurityAuditor
	logger   *zap.Logger
}

// NewHROverviewHandler creates a new HR overview handler.
func NewHROverviewHandler(overview services.OverviewService, auditor *audit.SecurityAuditor, logger *zap.Logger) *HROverviewHandler {
	return &HROverviewHandler{
		overview: overview,
		auditor:  auditor,
		logger:   logger,
	}
}

// RegisterRoutes registers the overview endpoint. Requests pass
// authentication first, then receive a practice-scoped database
// connection.
func (h *HROverviewHandler) RegisterRoutes(
	mux *http.ServeMux,
	requireAuth func(http.HandlerFunc) http.HandlerFunc,
	practiceScope func(http.HandlerFunc) http.HandlerFunc,
) {
	mux.HandleFunc("GET /api/practices/{pid}/hr/overview", requireAuth(practiceScope(h.GetOverview)))
}

// GetOverview handles GET /api/practices/{pid}/hr/overview.
//
// Query parameters: level (practice|role), kMin, periodStart, periodEnd.
// All are optional; defaults are practice level, the configured k and the
// trailing default window.
func (h *HROverviewHandler) GetOverview(w http.ResponseWriter, r *http.Request) {
	practiceID, ok := ParsePracticeID(w, r, h.logger)
	if !ok {
		return
	}

	params := services.OverviewParams{
		Level:       r.URL.Query().Get("level"),
		KMin:        r.URL.Query().Get("kMin"),
		PeriodStart: r.URL.Query().Get("periodStart"),
		PeriodEnd:   r.URL.Query().Get("periodEnd"),
	}

	// Parameters never legitimately contain SQL; a hit is an attack probe
	// and the request is rejected before any validation detail leaks back.
	for name, value := range map[string]string{
		"level":       params.Level,
		"kMin":        params.KMin,
		"periodStart": params.PeriodStart,
		"periodEnd":   params.PeriodEnd,
	} {
		if h.auditor.ScanParam(r.Context(), practiceID, r.URL.Path, name, value, clientIP(r)) {
			if err := ErrorResponse(w, http.StatusBadRequest, "invalid_parameter", "Invalid query parameter"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
	}

	response, err := h.overview.Overview(r.Context(), practiceID, params)
	if err != nil {
		if apperrors.IsValidation(err) {
			h.auditor.LogValidationFailure(r.Context(), practiceID, r.URL.Path, err.Error(), clientIP(r))
			if err := ErrorResponse(w, http.StatusBadRequest, "invalid_parameter", err.Error()); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}

		h.logger.Error("Failed to compute HR overview",
			zap.String("practice_id", practiceID.String()),
			zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to compute HR overview"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to write overview response", zap.Error(err))
	}
}
