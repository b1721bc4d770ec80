package models

import "time"

// SnapshotAlerts pairs a snapshot's group key with the alerts derived from
// it, preserving the generator's deterministic ordering.
type SnapshotAlerts struct {
	GroupKey string  `json:"groupKey"`
	Alerts   []Alert `json:"alerts"`
}

// HROverviewResponse is the assembled payload of the overview endpoint.
// RequestedLevel and AggregationLevel diverge when the k-anonymity gate
// merged cohorts upward; any divergence is accompanied by warnings.
type HROverviewResponse struct {
	Timestamp        time.Time        `json:"timestamp"`
	PeriodStart      string           `json:"periodStart"`
	PeriodEnd        string           `json:"periodEnd"`
	RequestedLevel   AggregationLevel `json:"requestedLevel"`
	AggregationLevel AggregationLevel `json:"aggregationLevel"`
	Snapshots        []KpiSnapshot    `json:"snapshots"`
	AlertsBySnapshot []SnapshotAlerts `json:"alertsBySnapshot"`
	Compliance       AuditInfo        `json:"compliance"`
	Warnings         []string         `json:"warnings"`
}

// OverviewRequest is the validated form of the overview query parameters.
type OverviewRequest struct {
	Level  AggregationLevel
	KMin   int
	Period Period
}
