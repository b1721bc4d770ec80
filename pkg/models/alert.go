package models

// Alert severity values. "warn" (not "warning") is the wire value for
// alerts, kept distinct from KpiStatus on purpose.
const (
	AlertSeverityInfo     = "info"
	AlertSeverityWarn     = "warn"
	AlertSeverityCritical = "critical"
)

// Stable alert codes. Codes are part of the API contract; the UI keys
// translations and icons off them.
const (
	AlertCodeUnderstaffing = "UNDERSTAFFING"
	AlertCodeOverstaffing  = "OVERSTAFFING"
	AlertCodeHighAbsence   = "HIGH_ABSENCE"
	AlertCodeHighOvertime  = "HIGH_OVERTIME"
	AlertCodeHighLaborCost = "HIGH_LABOR_COST"
)

// Alert is a structured, person-free finding derived from one snapshot.
// The type deliberately has no field that could hold a staff identifier;
// the privacy guarantee is structural, not conventional.
type Alert struct {
	Code               string           `json:"code"`
	Severity           string           `json:"severity"`
	Title              string           `json:"title"`
	Explanation        string           `json:"explanation"`
	RecommendedActions []string         `json:"recommendedActions"`
	Metric             string           `json:"metric"`
	CurrentValue       float64          `json:"currentValue"`
	ThresholdValue     float64          `json:"thresholdValue"`
	AggregationLevel   AggregationLevel `json:"aggregationLevel"`
	GroupKey           string           `json:"groupKey"`
}
