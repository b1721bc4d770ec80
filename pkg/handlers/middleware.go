package handlers

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/praxisflow/hr-engine/pkg/database"
)

// PracticeScopeMiddleware binds a practice-scoped database connection to
// the request context. Every query a downstream repository runs on that
// connection is constrained to the practice by row-level security; the
// scope is released when the handler returns.
//
// The middleware runs after authentication, so the path practice ID has
// already been matched against the token.
func PracticeScopeMiddleware(scopes *database.PracticeScopeProvider, logger *zap.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			practiceID, ok := ParsePracticeID(w, r, logger)
			if !ok {
				return
			}

			scopedCtx, cleanup, err := scopes.WithPracticeScope(r.Context(), practiceID)
			if err != nil {
				logger.Error("Failed to acquire practice scope",
					zap.String("practice_id", practiceID.String()),
					zap.Error(err))
				if err := ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to scope request"); err != nil {
					logger.Error("Failed to write error response", zap.Error(err))
				}
				return
			}
			defer cleanup()

			next(w, r.WithContext(scopedCtx))
		}
	}
}

// clientIP extracts the client address for audit logging, preferring the
// first X-Forwarded-For hop when the service runs behind a proxy.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if idx := strings.IndexByte(fwd, ','); idx >= 0 {
			return strings.TrimSpace(fwd[:idx])
		}
		return strings.TrimSpace(fwd)
	}
	return r.RemoteAddr
}
