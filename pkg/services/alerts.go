package services

import (
	"fmt"

	"github.com/praxisflow/hr-engine/pkg/config"
	"github.com/praxisflow/hr-engine/pkg/models"
)

// AlertGenerator derives person-free alerts from a snapshot. The same
// snapshot always yields the same alert sequence: metrics are evaluated in
// a fixed priority order, not discovery order.
type AlertGenerator struct {
	thresholds config.Thresholds
}

// NewAlertGenerator creates a generator with the given threshold policy.
func NewAlertGenerator(thresholds config.Thresholds) *AlertGenerator {
	return &AlertGenerator{thresholds: thresholds}
}

// metricOrder fixes the evaluation and output order of monitored metrics.
// Staffing first: it is the metric operators act on fastest.
var metricOrder = []string{
	"fteQuote",
	"absenceRatePercent",
	"overtimeRatePercent",
	"laborCostRatioPercent",
}

// Evaluate returns the alerts for one snapshot, possibly empty, in fixed
// metric-priority order.
func (g *AlertGenerator) Evaluate(snapshot models.KpiSnapshot) []models.Alert {
	alerts := make([]models.Alert, 0, len(metricOrder))
	m := snapshot.Metrics

	for _, metric := range metricOrder {
		switch metric {
		case "fteQuote":
			// Only meaningful when a staffing target exists.
			if m.TargetFte <= 0 {
				continue
			}
			if a, ok := g.buildBelow(snapshot, metric, m.FteQuote, g.thresholds.FteQuote); ok {
				alerts = append(alerts, a)
			}
		case "absenceRatePercent":
			if a, ok := g.buildAbove(snapshot, metric, m.AbsenceRatePercent, g.thresholds.AbsenceRate); ok {
				alerts = append(alerts, a)
			}
		case "overtimeRatePercent":
			if a, ok := g.buildAbove(snapshot, metric, m.OvertimeRatePercent, g.thresholds.OvertimeRate); ok {
				alerts = append(alerts, a)
			}
		case "laborCostRatioPercent":
			if m.LaborCostRatioPercent == nil {
				continue
			}
			if a, ok := g.buildAbove(snapshot, metric, *m.LaborCostRatioPercent, g.thresholds.LaborCostRatio); ok {
				alerts = append(alerts, a)
			}
		}
	}

	return alerts
}

func (g *AlertGenerator) buildBelow(snapshot models.KpiSnapshot, metric string, value float64, t config.MetricThreshold) (models.Alert, bool) {
	switch {
	case value <= t.Critical:
		return g.build(snapshot, metric, value, t.Critical, models.AlertSeverityCritical), true
	case value <= t.Warning:
		return g.build(snapshot, metric, value, t.Warning, models.AlertSeverityWarn), true
	default:
		return models.Alert{}, false
	}
}

func (g *AlertGenerator) buildAbove(snapshot models.KpiSnapshot, metric string, value float64, t config.MetricThreshold) (models.Alert, bool) {
	switch {
	case value >= t.Critical:
		return g.build(snapshot, metric, value, t.Critical, models.AlertSeverityCritical), true
	case value >= t.Warning:
		return g.build(snapshot, metric, value, t.Warning, models.AlertSeverityWarn), true
	default:
		return models.Alert{}, false
	}
}

func (g *AlertGenerator) build(snapshot models.KpiSnapshot, metric string, value, threshold float64, severity string) models.Alert {
	tpl := alertTemplates[metric]
	return models.Alert{
		Code:               tpl.code,
		Severity:           severity,
		Title:              tpl.title,
		Explanation:        fmt.Sprintf(tpl.explanation, value, threshold),
		RecommendedActions: tpl.actions,
		Metric:             metric,
		CurrentValue:       value,
		ThresholdValue:     threshold,
		AggregationLevel:   snapshot.Level,
		GroupKey:           snapshot.GroupKey,
	}
}

type alertTemplate struct {
	code        string
	title       string
	explanation string
	actions     []string
}

// alertTemplates carries the static, reviewable alert content. Actions are
// phrased at cohort level; no template has a slot for a person.
var alertTemplates = map[string]alertTemplate{
	"fteQuote": {
		code:        models.AlertCodeUnderstaffing,
		title:       "Staffing below target",
		explanation: "The FTE quote is %.2f, below the threshold of %.2f.",
		actions: []string{
			"Review open positions and active recruitings for this group",
			"Check whether planned absences cluster in the reporting period",
			"Consider temporary staffing or schedule adjustments",
		},
	},
	"absenceRatePercent": {
		code:        models.AlertCodeHighAbsence,
		title:       "Elevated absence rate",
		explanation: "The absence rate is %.1f%%, above the threshold of %.1f%%.",
		actions: []string{
			"Review absence distribution over the reporting period",
			"Check for seasonal effects before structural measures",
			"Verify return-to-work processes are being followed",
		},
	},
	"overtimeRatePercent": {
		code:        models.AlertCodeHighOvertime,
		title:       "Elevated overtime rate",
		explanation: "The overtime rate is %.1f%%, above the threshold of %.1f%%.",
		actions: []string{
			"Compare scheduled capacity against recent patient volume",
			"Run a staffing-demand computation for this group",
			"Review shift distribution for avoidable peaks",
		},
	},
	"laborCostRatioPercent": {
		code:        models.AlertCodeHighLaborCost,
		title:       "Elevated labor cost ratio",
		explanation: "The labor cost ratio is %.1f%%, above the threshold of %.1f%%.",
		actions: []string{
			"Review the revenue development of the reporting period",
			"Check overtime-driven cost components",
			"Compare the staffing plan against the demand computation",
		},
	},
}
