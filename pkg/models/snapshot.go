package models

import "fmt"

// KpiSnapshot is one computed, immutable KPI result for a cohort and period.
// Snapshots are created fresh on every query and never persisted or mutated;
// recent snapshots may be cached verbatim by the boundary layer.
type KpiSnapshot struct {
	Period   Period           `json:"period"`
	Level    AggregationLevel `json:"aggregationLevel"`
	GroupKey string           `json:"groupKey"`
	// GroupSize is only ever populated after the cohort has passed the
	// k-anonymity gate; it is never below the applied kMin.
	GroupSize int        `json:"groupSize"`
	Metrics   KpiMetrics `json:"metrics"`
	Audit     AuditInfo  `json:"audit"`
}

// NewKpiSnapshot builds a snapshot and enforces its construction
// invariants: complete audit metadata and a group size at or above the
// stamped kUsed. A snapshot that would violate either is a programming
// error, not a caller error.
func NewKpiSnapshot(period Period, level AggregationLevel, groupKey string, groupSize int, metrics KpiMetrics, audit AuditInfo) (KpiSnapshot, error) {
	if !audit.Valid() {
		return KpiSnapshot{}, fmt.Errorf("snapshot for %q rejected: incomplete audit metadata", groupKey)
	}
	if groupSize < audit.KUsed {
		return KpiSnapshot{}, fmt.Errorf("snapshot for %q rejected: group size %d below k=%d", groupKey, groupSize, audit.KUsed)
	}
	return KpiSnapshot{
		Period:    period,
		Level:     level,
		GroupKey:  groupKey,
		GroupSize: groupSize,
		Metrics:   metrics,
		Audit:     audit,
	}, nil
}
