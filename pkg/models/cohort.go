package models

// AggregationLevel describes the grouping granularity of a cohort.
type AggregationLevel string

const (
	// LevelPractice aggregates all staff of the practice into one cohort.
	LevelPractice AggregationLevel = "practice"
	// LevelRole produces one cohort per distinct role observed in the period.
	LevelRole AggregationLevel = "role"
)

// ValidAggregationLevel reports whether s is a known level value.
func ValidAggregationLevel(s string) bool {
	return s == string(LevelPractice) || s == string(LevelRole)
}

// PracticeGroupKey is the group key of the whole-practice cohort.
const PracticeGroupKey = "practice"

// MinKAnonymity is the smallest k the engine ever accepts. Requests with a
// lower kMin are rejected before any aggregation runs.
const MinKAnonymity = 3

// CohortAggregate carries the raw, still-unreleased aggregates for one
// cohort. It is an internal value and never serialized to a caller; only
// gated snapshots leave the engine.
type CohortAggregate struct {
	GroupKey string
	Level    AggregationLevel

	// Size is the number of distinct staff members underlying the cohort.
	Size int

	CurrentFte float64
	TargetFte  float64

	// Absence and overtime raw sums for the period.
	AbsenceDays  float64
	PlannedDays  float64
	OvertimeHrs  float64
	ContractHrs  float64

	// Cost inputs are optional; nil means no cost data for this cohort.
	LaborCost *float64
	Revenue   *float64
}

// Merge folds other into a, summing counts and raw aggregates. Cost values
// only survive when both sides carry them; otherwise the merged cohort is
// treated as having no cost data.
func (a CohortAggregate) Merge(other CohortAggregate) CohortAggregate {
	merged := a
	merged.Size += other.Size
	merged.CurrentFte += other.CurrentFte
	merged.TargetFte += other.TargetFte
	merged.AbsenceDays += other.AbsenceDays
	merged.PlannedDays += other.PlannedDays
	merged.OvertimeHrs += other.OvertimeHrs
	merged.ContractHrs += other.ContractHrs

	if a.LaborCost != nil && other.LaborCost != nil {
		sum := *a.LaborCost + *other.LaborCost
		merged.LaborCost = &sum
	} else {
		merged.LaborCost = nil
	}
	if a.Revenue != nil && other.Revenue != nil {
		sum := *a.Revenue + *other.Revenue
		merged.Revenue = &sum
	} else {
		merged.Revenue = nil
	}
	return merged
}
