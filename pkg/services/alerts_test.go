package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxisflow/hr-engine/pkg/config"
	"github.com/praxisflow/hr-engine/pkg/models"
)

func snapshotWithMetrics(m models.KpiMetrics) models.KpiSnapshot {
	return models.KpiSnapshot{
		Level:    models.LevelRole,
		GroupKey: "assistant",
		Metrics:  m,
	}
}

func TestAlertGeneratorEvaluate(t *testing.T) {
	gen := NewAlertGenerator(config.DefaultThresholds())

	t.Run("healthy snapshot yields no alerts", func(t *testing.T) {
		alerts := gen.Evaluate(snapshotWithMetrics(models.KpiMetrics{
			FteQuote: 1.0, TargetFte: 5, CurrentFte: 5,
			AbsenceRatePercent:  3,
			OvertimeRatePercent: 2,
		}))
		assert.Empty(t, alerts)
	})

	t.Run("critical boundary beats warning boundary", func(t *testing.T) {
		alerts := gen.Evaluate(snapshotWithMetrics(models.KpiMetrics{
			FteQuote: 0.7, TargetFte: 5, CurrentFte: 3.5,
		}))
		require.Len(t, alerts, 1)

		a := alerts[0]
		assert.Equal(t, models.AlertCodeUnderstaffing, a.Code)
		assert.Equal(t, models.AlertSeverityCritical, a.Severity)
		assert.Equal(t, "fteQuote", a.Metric)
		assert.InDelta(t, 0.7, a.CurrentValue, 1e-9)
		assert.InDelta(t, 0.75, a.ThresholdValue, 1e-9)
		assert.Len(t, a.RecommendedActions, 3)
		assert.Equal(t, "assistant", a.GroupKey)
	})

	t.Run("fteQuote skipped without a target", func(t *testing.T) {
		alerts := gen.Evaluate(snapshotWithMetrics(models.KpiMetrics{
			FteQuote: 0, TargetFte: 0, CurrentFte: 2,
		}))
		assert.Empty(t, alerts)
	})

	t.Run("nil labor cost ratio is never evaluated", func(t *testing.T) {
		alerts := gen.Evaluate(snapshotWithMetrics(models.KpiMetrics{
			FteQuote: 1, TargetFte: 5,
			LaborCostRatioPercent: nil,
		}))
		assert.Empty(t, alerts)
	})

	t.Run("alerts come out in fixed metric order", func(t *testing.T) {
		ratio := 90.0
		metrics := models.KpiMetrics{
			FteQuote: 0.8, TargetFte: 5, CurrentFte: 4,
			AbsenceRatePercent:    22,
			OvertimeRatePercent:   12,
			LaborCostRatioPercent: &ratio,
		}

		alerts := gen.Evaluate(snapshotWithMetrics(metrics))
		require.Len(t, alerts, 4)
		assert.Equal(t, models.AlertCodeUnderstaffing, alerts[0].Code)
		assert.Equal(t, models.AlertCodeHighAbsence, alerts[1].Code)
		assert.Equal(t, models.AlertCodeHighOvertime, alerts[2].Code)
		assert.Equal(t, models.AlertCodeHighLaborCost, alerts[3].Code)

		// Same snapshot, same sequence - repeat to rule out map-order leaks.
		for i := 0; i < 20; i++ {
			again := gen.Evaluate(snapshotWithMetrics(metrics))
			assert.Equal(t, alerts, again)
		}
	})

	t.Run("alerts carry cohort facts only", func(t *testing.T) {
		alerts := gen.Evaluate(snapshotWithMetrics(models.KpiMetrics{
			FteQuote: 0.7, TargetFte: 5, CurrentFte: 3.5,
		}))
		require.Len(t, alerts, 1)
		assert.Equal(t, models.LevelRole, alerts[0].AggregationLevel)
		assert.Equal(t, "assistant", alerts[0].GroupKey)
	})
}
