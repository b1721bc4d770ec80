package services

import (
	"math"

	"github.com/praxisflow/hr-engine/pkg/config"
	"github.com/praxisflow/hr-engine/pkg/models"
)

// KpiCalculator derives KpiMetrics from raw cohort aggregates. It is a
// pure calculator: no I/O, no state beyond the threshold policy.
type KpiCalculator struct {
	thresholds config.Thresholds
}

// NewKpiCalculator creates a calculator with the given threshold policy.
func NewKpiCalculator(thresholds config.Thresholds) *KpiCalculator {
	return &KpiCalculator{thresholds: thresholds}
}

// Compute derives the metrics for one cohort.
//
// Numeric semantics:
//   - fteQuote = currentFte / targetFte, defined as 0 when targetFte is 0
//   - fteDelta = currentFte - targetFte (negative = understaffed)
//   - absence/overtime rates are percentages clamped to [0, 100] and
//     rounded to one decimal
//   - laborCostRatioPercent stays nil without cost data; nil and 0 are
//     different answers
func (c *KpiCalculator) Compute(agg models.CohortAggregate) models.KpiMetrics {
	metrics := models.KpiMetrics{
		CurrentFte: round2(agg.CurrentFte),
		TargetFte:  round2(agg.TargetFte),
	}

	if agg.TargetFte == 0 {
		metrics.FteQuote = 0
	} else {
		metrics.FteQuote = round2(agg.CurrentFte / agg.TargetFte)
	}
	metrics.FteDelta = round2(agg.CurrentFte - agg.TargetFte)

	metrics.AbsenceRatePercent = ratePercent(agg.AbsenceDays, agg.PlannedDays)
	metrics.OvertimeRatePercent = ratePercent(agg.OvertimeHrs, agg.ContractHrs)

	if agg.LaborCost != nil && agg.Revenue != nil && *agg.Revenue > 0 {
		ratio := ratePercent(*agg.LaborCost, *agg.Revenue)
		metrics.LaborCostRatioPercent = &ratio
	}

	metrics.OverallStatus = c.overallStatus(metrics)
	return metrics
}

// overallStatus evaluates each metric against its thresholds and takes the
// most severe outcome. Ties resolve toward the more severe status.
func (c *KpiCalculator) overallStatus(m models.KpiMetrics) models.KpiStatus {
	status := models.StatusOK

	// fteQuote alerts below its boundaries, but only when a target exists:
	// a zero quote from a zero target is "no plan", not "no staff".
	if m.TargetFte > 0 {
		status = status.Worst(statusBelow(m.FteQuote, c.thresholds.FteQuote))
	}
	status = status.Worst(statusAbove(m.AbsenceRatePercent, c.thresholds.AbsenceRate))
	status = status.Worst(statusAbove(m.OvertimeRatePercent, c.thresholds.OvertimeRate))
	if m.LaborCostRatioPercent != nil {
		status = status.Worst(statusAbove(*m.LaborCostRatioPercent, c.thresholds.LaborCostRatio))
	}
	return status
}

func statusBelow(value float64, t config.MetricThreshold) models.KpiStatus {
	switch {
	case value <= t.Critical:
		return models.StatusCritical
	case value <= t.Warning:
		return models.StatusWarning
	default:
		return models.StatusOK
	}
}

func statusAbove(value float64, t config.MetricThreshold) models.KpiStatus {
	switch {
	case value >= t.Critical:
		return models.StatusCritical
	case value >= t.Warning:
		return models.StatusWarning
	default:
		return models.StatusOK
	}
}

// ratePercent computes part/whole as a percentage clamped to [0, 100],
// rounded to one decimal. A zero denominator yields 0, not an error; the
// undefined-ratio case is defused here rather than raised.
func ratePercent(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	pct := part / whole * 100
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return round1(pct)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
