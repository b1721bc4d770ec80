package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/praxisflow/hr-engine/pkg/database"
)

// PracticeRepository reads practice registry data. Unlike the workforce
// queries it runs on the shared pool, not a practice-scoped connection,
// because the cache warm-up job iterates all practices.
type PracticeRepository interface {
	ListActivePracticeIDs(ctx context.Context) ([]uuid.UUID, error)
}

type practiceRepository struct {
	db *database.DB
}

// NewPracticeRepository creates a PracticeRepository backed by db.
func NewPracticeRepository(db *database.DB) PracticeRepository {
	return &practiceRepository{db: db}
}

var _ PracticeRepository = (*practiceRepository)(nil)

func (r *practiceRepository) ListActivePracticeIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id FROM practices WHERE active ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query practices: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan practice id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read practices: %w", err)
	}
	return ids, nil
}
