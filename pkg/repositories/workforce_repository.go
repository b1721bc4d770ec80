package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/praxisflow/hr-engine/pkg/database"
	"github.com/praxisflow/hr-engine/pkg/models"
)

// RoleStaffAggregate is one row of headcount/FTE aggregates for a role.
type RoleStaffAggregate struct {
	Role       string
	Headcount  int
	CurrentFte float64
	TargetFte  float64
}

// RoleTimeAggregate carries the absence/overtime raw sums for a role.
type RoleTimeAggregate struct {
	AbsenceDays   float64
	PlannedDays   float64
	OvertimeHours float64
	ContractHours float64
}

// RoleCostAggregate carries optional labor cost inputs for a role. Roles
// without cost rows simply do not appear in the result map.
type RoleCostAggregate struct {
	LaborCost float64
	Revenue   float64
}

// WorkforceRepository reads the raw personnel aggregates the KPI pipeline
// runs on. All queries execute on the practice-scoped connection from the
// request context, so RLS confines them to one practice.
type WorkforceRepository interface {
	// StaffAggregates returns headcount and FTE per role for staff active
	// at any point inside the period.
	StaffAggregates(ctx context.Context, practiceID uuid.UUID, period models.Period) ([]RoleStaffAggregate, error)

	// TimeAggregates returns absence and overtime raw sums per role over
	// the period.
	TimeAggregates(ctx context.Context, practiceID uuid.UUID, period models.Period) (map[string]RoleTimeAggregate, error)

	// CostAggregates returns labor cost inputs per role over the period
	// for roles that have cost data.
	CostAggregates(ctx context.Context, practiceID uuid.UUID, period models.Period) (map[string]RoleCostAggregate, error)
}

type workforceRepository struct{}

// NewWorkforceRepository creates a WorkforceRepository.
func NewWorkforceRepository() WorkforceRepository {
	return &workforceRepository{}
}

var _ WorkforceRepository = (*workforceRepository)(nil)

func (r *workforceRepository) StaffAggregates(ctx context.Context, practiceID uuid.UUID, period models.Period) ([]RoleStaffAggregate, error) {
	scope, ok := database.GetPracticeScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no practice scope in context")
	}

	rows, err := scope.Conn.Query(ctx, `
		SELECT s.role,
		       COUNT(DISTINCT s.id) AS headcount,
		       COALESCE(SUM(s.weekly_hours / NULLIF(s.full_time_hours, 0)), 0) AS current_fte,
		       COALESCE(MAX(p.target_fte), 0) AS target_fte
		FROM hr_staff s
		LEFT JOIN hr_staffing_plans p
		       ON p.practice_id = s.practice_id AND p.role = s.role
		WHERE s.practice_id = $1
		  AND s.active_from <= $3
		  AND (s.active_to IS NULL OR s.active_to >= $2)
		GROUP BY s.role
		ORDER BY s.role`,
		practiceID, period.Start, period.End)
	if err != nil {
		return nil, fmt.Errorf("failed to query staff aggregates: %w", err)
	}
	defer rows.Close()

	var aggregates []RoleStaffAggregate
	for rows.Next() {
		var agg RoleStaffAggregate
		if err := rows.Scan(&agg.Role, &agg.Headcount, &agg.CurrentFte, &agg.TargetFte); err != nil {
			return nil, fmt.Errorf("failed to scan staff aggregate: %w", err)
		}
		aggregates = append(aggregates, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read staff aggregates: %w", err)
	}
	return aggregates, nil
}

func (r *workforceRepository) TimeAggregates(ctx context.Context, practiceID uuid.UUID, period models.Period) (map[string]RoleTimeAggregate, error) {
	scope, ok := database.GetPracticeScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no practice scope in context")
	}

	rows, err := scope.Conn.Query(ctx, `
		SELECT w.role,
		       COALESCE(SUM(CASE WHEN w.status = 'absent' THEN 1 ELSE 0 END), 0) AS absence_days,
		       COUNT(*) AS planned_days,
		       COALESCE(SUM(w.overtime_hours), 0) AS overtime_hours,
		       COALESCE(SUM(w.contract_hours), 0) AS contract_hours
		FROM hr_work_records w
		WHERE w.practice_id = $1
		  AND w.day BETWEEN $2 AND $3
		GROUP BY w.role`,
		practiceID, period.Start, period.End)
	if err != nil {
		return nil, fmt.Errorf("failed to query time aggregates: %w", err)
	}
	defer rows.Close()

	aggregates := make(map[string]RoleTimeAggregate)
	for rows.Next() {
		var role string
		var agg RoleTimeAggregate
		if err := rows.Scan(&role, &agg.AbsenceDays, &agg.PlannedDays, &agg.OvertimeHours, &agg.ContractHours); err != nil {
			return nil, fmt.Errorf("failed to scan time aggregate: %w", err)
		}
		aggregates[role] = agg
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read time aggregates: %w", err)
	}
	return aggregates, nil
}

func (r *workforceRepository) CostAggregates(ctx context.Context, practiceID uuid.UUID, period models.Period) (map[string]RoleCostAggregate, error) {
	scope, ok := database.GetPracticeScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no practice scope in context")
	}

	rows, err := scope.Conn.Query(ctx, `
		SELECT c.role,
		       SUM(c.labor_cost) AS labor_cost,
		       SUM(c.revenue) AS revenue
		FROM hr_labor_costs c
		WHERE c.practice_id = $1
		  AND c.period_month >= date_trunc('month', $2::date)
		  AND c.period_month <= date_trunc('month', $3::date)
		GROUP BY c.role`,
		practiceID, period.Start, period.End)
	if err != nil {
		return nil, fmt.Errorf("failed to query cost aggregates: %w", err)
	}
	defer rows.Close()

	aggregates := make(map[string]RoleCostAggregate)
	for rows.Next() {
		var role string
		var agg RoleCostAggregate
		if err := rows.Scan(&role, &agg.LaborCost, &agg.Revenue); err != nil {
			return nil, fmt.Errorf("failed to scan cost aggregate: %w", err)
		}
		aggregates[role] = agg
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read cost aggregates: %w", err)
	}
	return aggregates, nil
}
