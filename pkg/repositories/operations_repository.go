package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/praxisflow/hr-engine/pkg/database"
	"github.com/praxisflow/hr-engine/pkg/models"
)

// OperatingSnapshot is the practice's recent operating data used to derive
// an automatic staffing input.
type OperatingSnapshot struct {
	// TotalVisits is the patient contact count over the horizon.
	TotalVisits float64
	// OpenDays is the number of days the practice was open in the horizon.
	OpenDays int
	// OperatingHoursPerDay comes from the practice settings.
	OperatingHoursPerDay float64
	// ServiceMinutes maps role keys to the practice's configured average
	// service minutes per patient contact.
	ServiceMinutes map[string]float64
	// RoomLabels are the raw room labels of the current layout.
	RoomLabels []string
	// CurrentFteByRole is the currently observed FTE per role.
	CurrentFteByRole map[string]float64
}

// OperationsRepository reads operating data (visits, settings, rooms) for
// the staffing-demand engine's automatic mode.
type OperationsRepository interface {
	OperatingSnapshot(ctx context.Context, practiceID uuid.UUID, period models.Period) (*OperatingSnapshot, error)
}

type operationsRepository struct{}

// NewOperationsRepository creates an OperationsRepository.
func NewOperationsRepository() OperationsRepository {
	return &operationsRepository{}
}

var _ OperationsRepository = (*operationsRepository)(nil)

func (r *operationsRepository) OperatingSnapshot(ctx context.Context, practiceID uuid.UUID, period models.Period) (*OperatingSnapshot, error) {
	scope, ok := database.GetPracticeScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no practice scope in context")
	}

	snapshot := &OperatingSnapshot{
		ServiceMinutes:   make(map[string]float64),
		CurrentFteByRole: make(map[string]float64),
	}

	err := scope.Conn.QueryRow(ctx, `
		SELECT COALESCE(SUM(v.visit_count), 0),
		       COUNT(DISTINCT v.day)
		FROM hr_visits v
		WHERE v.practice_id = $1
		  AND v.day BETWEEN $2 AND $3`,
		practiceID, period.Start, period.End).Scan(&snapshot.TotalVisits, &snapshot.OpenDays)
	if err != nil {
		return nil, fmt.Errorf("failed to query visit volume: %w", err)
	}

	err = scope.Conn.QueryRow(ctx, `
		SELECT operating_hours_per_day
		FROM practice_settings
		WHERE practice_id = $1`,
		practiceID).Scan(&snapshot.OperatingHoursPerDay)
	if err != nil {
		if err == pgx.ErrNoRows {
			snapshot.OperatingHoursPerDay = 8
		} else {
			return nil, fmt.Errorf("failed to query practice settings: %w", err)
		}
	}

	rows, err := scope.Conn.Query(ctx, `
		SELECT role, avg_service_minutes
		FROM hr_role_service_times
		WHERE practice_id = $1`,
		practiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query service times: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var role string
		var minutes float64
		if err := rows.Scan(&role, &minutes); err != nil {
			return nil, fmt.Errorf("failed to scan service time: %w", err)
		}
		snapshot.ServiceMinutes[role] = minutes
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read service times: %w", err)
	}

	roomRows, err := scope.Conn.Query(ctx, `
		SELECT room_type
		FROM practice_rooms
		WHERE practice_id = $1`,
		practiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rooms: %w", err)
	}
	defer roomRows.Close()
	for roomRows.Next() {
		var label string
		if err := roomRows.Scan(&label); err != nil {
			return nil, fmt.Errorf("failed to scan room: %w", err)
		}
		snapshot.RoomLabels = append(snapshot.RoomLabels, label)
	}
	if err := roomRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rooms: %w", err)
	}

	fteRows, err := scope.Conn.Query(ctx, `
		SELECT role, COALESCE(SUM(weekly_hours / NULLIF(full_time_hours, 0)), 0)
		FROM hr_staff
		WHERE practice_id = $1
		  AND active_from <= $3
		  AND (active_to IS NULL OR active_to >= $2)
		GROUP BY role`,
		practiceID, period.Start, period.End)
	if err != nil {
		return nil, fmt.Errorf("failed to query current FTE: %w", err)
	}
	defer fteRows.Close()
	for fteRows.Next() {
		var role string
		var fte float64
		if err := fteRows.Scan(&role, &fte); err != nil {
			return nil, fmt.Errorf("failed to scan current FTE: %w", err)
		}
		snapshot.CurrentFteByRole[role] = fte
	}
	if err := fteRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read current FTE: %w", err)
	}

	return snapshot, nil
}
