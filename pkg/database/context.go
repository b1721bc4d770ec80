package database

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	// PracticeScopeKey is the context key for storing the practice-scoped
	// database connection.
	PracticeScopeKey contextKey = "practiceScope"
)

// GetPracticeScope retrieves the practice-scoped database connection from
// context. Returns nil and false if not present.
func GetPracticeScope(ctx context.Context) (*PracticeScope, bool) {
	scope, ok := ctx.Value(PracticeScopeKey).(*PracticeScope)
	return scope, ok
}

// SetPracticeScope stores the practice-scoped database connection in context.
func SetPracticeScope(ctx context.Context, scope *PracticeScope) context.Context {
	return context.WithValue(ctx, PracticeScopeKey, scope)
}

// PracticeScopeProvider creates practice-scoped contexts for database
// operations.
type PracticeScopeProvider struct {
	db *DB
}

// NewPracticeScopeProvider creates a PracticeScopeProvider for the given
// database.
func NewPracticeScopeProvider(db *DB) *PracticeScopeProvider {
	return &PracticeScopeProvider{db: db}
}

// WithPracticeScope returns a context with practice scope set for the given
// practice. The cleanup function must be called when the scope is no longer
// needed.
func (p *PracticeScopeProvider) WithPracticeScope(ctx context.Context, practiceID uuid.UUID) (context.Context, func(), error) {
	scope, err := p.db.WithPractice(ctx, practiceID)
	if err != nil {
		return nil, nil, err
	}
	scopedCtx := SetPracticeScope(ctx, scope)
	return scopedCtx, func() { scope.Close() }, nil
}
