package models

// KpiStatus classifies a cohort's overall staffing health.
type KpiStatus string

const (
	StatusOK       KpiStatus = "ok"
	StatusWarning  KpiStatus = "warning"
	StatusCritical KpiStatus = "critical"
)

// statusRank orders statuses by severity for the worst-of rule.
var statusRank = map[KpiStatus]int{
	StatusOK:       0,
	StatusWarning:  1,
	StatusCritical: 2,
}

// Worst returns the more severe of the two statuses. Ties resolve toward
// the more severe value by construction.
func (s KpiStatus) Worst(other KpiStatus) KpiStatus {
	if statusRank[other] > statusRank[s] {
		return other
	}
	return s
}

// KpiMetrics is the numeric-only derived record for one cohort. It carries
// no staff identifiers of any kind.
type KpiMetrics struct {
	FteQuote   float64 `json:"fteQuote"`
	CurrentFte float64 `json:"currentFte"`
	TargetFte  float64 `json:"targetFte"`
	// FteDelta is signed; negative means understaffed.
	FteDelta            float64 `json:"fteDelta"`
	AbsenceRatePercent  float64 `json:"absenceRatePercent"`
	OvertimeRatePercent float64 `json:"overtimeRatePercent"`
	// LaborCostRatioPercent is nil when cost data is unavailable for the
	// cohort. Callers must treat nil distinctly from 0.
	LaborCostRatioPercent *float64  `json:"laborCostRatioPercent"`
	OverallStatus         KpiStatus `json:"overallStatus"`
}
