package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func f64(v float64) *float64 { return &v }

func TestCohortAggregateMerge(t *testing.T) {
	t.Run("sums counts and raw aggregates", func(t *testing.T) {
		a := CohortAggregate{
			GroupKey: "doctor", Level: LevelRole,
			Size: 4, CurrentFte: 3.5, TargetFte: 4,
			AbsenceDays: 6, PlannedDays: 80, OvertimeHrs: 12, ContractHrs: 560,
		}
		b := CohortAggregate{
			GroupKey: "assistant", Level: LevelRole,
			Size: 5, CurrentFte: 4.2, TargetFte: 5,
			AbsenceDays: 10, PlannedDays: 100, OvertimeHrs: 8, ContractHrs: 640,
		}

		merged := a.Merge(b)

		assert.Equal(t, 9, merged.Size)
		assert.InDelta(t, 7.7, merged.CurrentFte, 1e-9)
		assert.InDelta(t, 9.0, merged.TargetFte, 1e-9)
		assert.InDelta(t, 16.0, merged.AbsenceDays, 1e-9)
		assert.InDelta(t, 180.0, merged.PlannedDays, 1e-9)
		assert.InDelta(t, 20.0, merged.OvertimeHrs, 1e-9)
		assert.InDelta(t, 1200.0, merged.ContractHrs, 1e-9)
	})

	t.Run("cost survives only when both sides carry it", func(t *testing.T) {
		withCost := CohortAggregate{Size: 3, LaborCost: f64(10000), Revenue: f64(25000)}
		alsoCost := CohortAggregate{Size: 4, LaborCost: f64(8000), Revenue: f64(20000)}
		noCost := CohortAggregate{Size: 5}

		merged := withCost.Merge(alsoCost)
		assert.NotNil(t, merged.LaborCost)
		assert.NotNil(t, merged.Revenue)
		assert.InDelta(t, 18000.0, *merged.LaborCost, 1e-9)
		assert.InDelta(t, 45000.0, *merged.Revenue, 1e-9)

		// A cohort without cost data poisons the merged cost: a partial sum
		// would look like a complete one.
		partial := withCost.Merge(noCost)
		assert.Nil(t, partial.LaborCost)
		assert.Nil(t, partial.Revenue)

		reversed := noCost.Merge(withCost)
		assert.Nil(t, reversed.LaborCost)
		assert.Nil(t, reversed.Revenue)
	})
}

func TestValidAggregationLevel(t *testing.T) {
	assert.True(t, ValidAggregationLevel("practice"))
	assert.True(t, ValidAggregationLevel("role"))
	assert.False(t, ValidAggregationLevel(""))
	assert.False(t, ValidAggregationLevel("person"))
	assert.False(t, ValidAggregationLevel("Practice"))
}
