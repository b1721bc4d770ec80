package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PracticeScope wraps a connection with practice context and ensures
// cleanup. The connection has app.current_practice_id set for RLS policy
// evaluation, so a request can never read another practice's staff rows.
type PracticeScope struct {
	Conn *pgxpool.Conn
}

// Close resets practice context and releases the connection to the pool.
// This MUST be called to prevent practice context from leaking to the next
// request.
func (s *PracticeScope) Close() {
	if s.Conn == nil {
		return
	}
	_, _ = s.Conn.Exec(context.Background(), "RESET app.current_practice_id")
	s.Conn.Release()
}

// WithPractice acquires a connection and sets the practice context for RLS.
// The returned PracticeScope MUST be closed with defer scope.Close().
func (db *DB) WithPractice(ctx context.Context, practiceID uuid.UUID) (*PracticeScope, error) {
	conn, err := db.Pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}

	_, err = conn.Exec(ctx, "SELECT set_config('app.current_practice_id', $1, false)", practiceID.String())
	if err != nil {
		conn.Release()
		return nil, err
	}

	return &PracticeScope{Conn: conn}, nil
}
