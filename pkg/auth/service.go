package auth

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Common authentication errors.
var (
	ErrMissingAuthorization = errors.New("missing authorization")
	ErrInvalidAuthFormat    = errors.New("invalid authorization header format")
	ErrMissingPracticeID    = errors.New("missing practice ID in token")
	ErrPracticeIDMismatch   = errors.New("practice ID mismatch between token and URL")
)

// AuthService defines the interface for authentication operations.
// This abstraction enables clean separation between HTTP handling and
// authentication logic, making both easier to test.
type AuthService interface {
	// ValidateRequest extracts and validates a JWT from the request.
	// It checks for the token in:
	//   1. The browser session cookie (practice UI)
	//   2. Authorization header with "Bearer" scheme (API clients)
	// Returns the validated claims, the raw token string, or an error.
	ValidateRequest(r *http.Request) (*Claims, string, error)

	// RequirePracticeID validates that the claims contain a practice ID.
	RequirePracticeID(claims *Claims) error

	// ValidatePracticeIDMatch ensures the URL practice ID matches the
	// token practice ID. If urlPracticeID is empty, validation is skipped.
	ValidatePracticeIDMatch(claims *Claims, urlPracticeID string) error
}

// authService implements AuthService.
type authService struct {
	jwksClient JWKSClientInterface
	sessions   *SessionStore
	logger     *zap.Logger
}

// NewAuthService creates a new AuthService. sessions may be nil when the
// deployment serves API clients only.
func NewAuthService(jwksClient JWKSClientInterface, sessions *SessionStore, logger *zap.Logger) AuthService {
	return &authService{
		jwksClient: jwksClient,
		sessions:   sessions,
		logger:     logger,
	}
}

// ValidateRequest extracts and validates a JWT from the request.
func (s *authService) ValidateRequest(r *http.Request) (*Claims, string, error) {
	var tokenString string
	var tokenSource string

	if s.sessions != nil {
		if token := s.sessions.TokenFromRequest(r); token != "" {
			tokenString = token
			tokenSource = "session"
		}
	}

	if tokenString == "" {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			s.logger.Debug("No JWT found in request",
				zap.String("path", r.URL.Path),
				zap.String("method", r.Method))
			return nil, "", ErrMissingAuthorization
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			s.logger.Debug("Invalid Authorization header format",
				zap.String("path", r.URL.Path))
			return nil, "", ErrInvalidAuthFormat
		}
		tokenString = parts[1]
		tokenSource = "header"
	}

	claims, err := s.jwksClient.ValidateToken(tokenString)
	if err != nil {
		s.logger.Debug("JWT validation failed",
			zap.Error(err),
			zap.String("path", r.URL.Path),
			zap.String("token_source", tokenSource))
		return nil, "", err
	}

	return claims, tokenString, nil
}

// RequirePracticeID validates that the claims contain a practice ID.
func (s *authService) RequirePracticeID(claims *Claims) error {
	if claims.PracticeID == "" {
		return ErrMissingPracticeID
	}
	return nil
}

// ValidatePracticeIDMatch ensures the URL practice ID matches the token
// practice ID. Cross-practice access is the one auth failure that must be
// distinguishable (403, not 401) for the UI contract.
func (s *authService) ValidatePracticeIDMatch(claims *Claims, urlPracticeID string) error {
	if urlPracticeID != "" && claims.PracticeID != urlPracticeID {
		s.logger.Warn("Practice ID mismatch",
			zap.String("url_practice_id", urlPracticeID),
			zap.String("token_practice_id", claims.PracticeID))
		return ErrPracticeIDMismatch
	}
	return nil
}

// Ensure authService implements AuthService at compile time.
var _ AuthService = (*authService)(nil)
