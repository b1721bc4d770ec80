// Package auth provides JWT-based authentication for the HR engine. Tokens
// are issued by the PraxisFlow auth server and validated against its JWKS
// endpoints. The engine never issues tokens itself.
package auth

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// ClaimsKey is the context key for storing JWT claims.
	ClaimsKey contextKey = "claims"
	// TokenKey is the context key for storing the raw JWT token string.
	TokenKey contextKey = "token"
)

// Claims represents the JWT claims structure from the PraxisFlow auth
// server. It embeds RegisteredClaims for standard JWT fields (sub, iss,
// exp, ...) and adds the practice scope.
type Claims struct {
	jwt.RegisteredClaims
	PracticeID string   `json:"prc,omitempty"`   // Practice UUID the session is scoped to
	Email      string   `json:"email,omitempty"` // Operator email address
	Roles      []string `json:"roles,omitempty"` // Operator roles within the practice
}

// GetClaims retrieves JWT claims from the request context.
// Returns nil and false if claims are not present.
func GetClaims(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*Claims)
	return claims, ok
}

// GetUserIDFromContext extracts the operator ID from JWT claims in the
// context. Returns empty string if not authenticated.
func GetUserIDFromContext(ctx context.Context) string {
	claims, ok := GetClaims(ctx)
	if !ok || claims == nil {
		return ""
	}
	return claims.Subject
}

// GetPracticeIDFromContext extracts the practice ID from JWT claims in the
// context. Returns uuid.Nil if not authenticated or the claim is missing.
func GetPracticeIDFromContext(ctx context.Context) uuid.UUID {
	claims, ok := GetClaims(ctx)
	if !ok || claims == nil || claims.PracticeID == "" {
		return uuid.Nil
	}
	practiceID, err := uuid.Parse(claims.PracticeID)
	if err != nil {
		return uuid.Nil
	}
	return practiceID
}

// RequirePracticeIDFromContext extracts the practice ID from context and
// returns an error if it is missing or malformed.
func RequirePracticeIDFromContext(ctx context.Context) (uuid.UUID, error) {
	practiceID := GetPracticeIDFromContext(ctx)
	if practiceID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("practice ID not found in context")
	}
	return practiceID, nil
}
