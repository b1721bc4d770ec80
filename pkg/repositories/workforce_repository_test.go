package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxisflow/hr-engine/pkg/database"
	"github.com/praxisflow/hr-engine/pkg/models"
	"github.com/praxisflow/hr-engine/pkg/testhelpers"
)

func seedPractice(t *testing.T, db *database.DB, name string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	_, err := db.Exec(context.Background(),
		`INSERT INTO practices (id, name) VALUES ($1, $2)`, id, name)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = db.Exec(context.Background(), `DELETE FROM practices WHERE id = $1`, id)
	})
	return id
}

func seedStaff(t *testing.T, db *database.DB, practiceID uuid.UUID, role string, weeklyHours float64) uuid.UUID {
	t.Helper()
	id := uuid.New()
	_, err := db.Exec(context.Background(), `
		INSERT INTO hr_staff (id, practice_id, role, weekly_hours, full_time_hours, active_from)
		VALUES ($1, $2, $3, $4, 40, '2024-01-01')`,
		id, practiceID, role, weeklyHours)
	require.NoError(t, err)
	return id
}

func scopedContext(t *testing.T, db *database.DB, practiceID uuid.UUID) context.Context {
	t.Helper()
	scopes := database.NewPracticeScopeProvider(db)
	ctx, cleanup, err := scopes.WithPracticeScope(context.Background(), practiceID)
	require.NoError(t, err)
	t.Cleanup(cleanup)
	return ctx
}

func testPeriod() models.Period {
	return models.Period{
		Start: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC),
	}
}

func TestWorkforceRepositoryIntegration(t *testing.T) {
	engine := testhelpers.GetEngineDB(t)
	db := engine.DB
	repo := NewWorkforceRepository()

	practiceID := seedPractice(t, db, "Praxis Sonnenschein")
	otherID := seedPractice(t, db, "Praxis Nebenan")

	doctorA := seedStaff(t, db, practiceID, "doctor", 40)
	seedStaff(t, db, practiceID, "doctor", 20)
	seedStaff(t, db, practiceID, "assistant", 40)
	seedStaff(t, db, otherID, "doctor", 40)

	_, err := db.Exec(context.Background(), `
		INSERT INTO hr_staffing_plans (practice_id, role, target_fte)
		VALUES ($1, 'doctor', 2.0)`, practiceID)
	require.NoError(t, err)

	_, err = db.Exec(context.Background(), `
		INSERT INTO hr_work_records (practice_id, staff_id, role, day, status, overtime_hours, contract_hours)
		VALUES
			($1, $2, 'doctor', '2025-05-05', 'present', 2.0, 8.0),
			($1, $2, 'doctor', '2025-05-06', 'absent', 0, 8.0),
			($1, $2, 'doctor', '2025-04-01', 'absent', 0, 8.0)`,
		practiceID, doctorA)
	require.NoError(t, err)

	_, err = db.Exec(context.Background(), `
		INSERT INTO hr_labor_costs (practice_id, role, period_month, labor_cost, revenue)
		VALUES ($1, 'doctor', '2025-05-01', 30000, 60000)`, practiceID)
	require.NoError(t, err)

	ctx := scopedContext(t, db, practiceID)

	t.Run("staff aggregates group by role", func(t *testing.T) {
		staff, err := repo.StaffAggregates(ctx, practiceID, testPeriod())
		require.NoError(t, err)
		require.Len(t, staff, 2)

		assert.Equal(t, "assistant", staff[0].Role)
		assert.Equal(t, 1, staff[0].Headcount)

		assert.Equal(t, "doctor", staff[1].Role)
		assert.Equal(t, 2, staff[1].Headcount)
		assert.InDelta(t, 1.5, staff[1].CurrentFte, 1e-6)
		assert.InDelta(t, 2.0, staff[1].TargetFte, 1e-6)
	})

	t.Run("time aggregates stay inside the period", func(t *testing.T) {
		times, err := repo.TimeAggregates(ctx, practiceID, testPeriod())
		require.NoError(t, err)

		doctor, ok := times["doctor"]
		require.True(t, ok)
		// The April absence is outside the period.
		assert.InDelta(t, 1.0, doctor.AbsenceDays, 1e-6)
		assert.InDelta(t, 2.0, doctor.PlannedDays, 1e-6)
		assert.InDelta(t, 2.0, doctor.OvertimeHours, 1e-6)
		assert.InDelta(t, 16.0, doctor.ContractHours, 1e-6)
	})

	t.Run("cost aggregates only cover roles with data", func(t *testing.T) {
		costs, err := repo.CostAggregates(ctx, practiceID, testPeriod())
		require.NoError(t, err)

		require.Contains(t, costs, "doctor")
		assert.InDelta(t, 30000.0, costs["doctor"].LaborCost, 1e-6)
		assert.NotContains(t, costs, "assistant")
	})

	t.Run("queries never cross the practice boundary", func(t *testing.T) {
		otherCtx := scopedContext(t, db, otherID)
		staff, err := repo.StaffAggregates(otherCtx, otherID, testPeriod())
		require.NoError(t, err)
		require.Len(t, staff, 1)
		assert.Equal(t, 1, staff[0].Headcount)
	})

	t.Run("missing scope is an error", func(t *testing.T) {
		_, err := repo.StaffAggregates(context.Background(), practiceID, testPeriod())
		require.Error(t, err)
	})
}
