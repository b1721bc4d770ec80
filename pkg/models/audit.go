package models

import "time"

// AuditInfo is the compliance metadata stamped onto every released snapshot.
// It is immutable after creation; nothing in the engine updates an AuditInfo
// once a snapshot carries it.
type AuditInfo struct {
	AggregationLevel AggregationLevel `json:"aggregationLevel"`
	// KUsed is the k-anonymity minimum actually applied by the gate, which
	// may be stricter than the caller's request but never weaker.
	KUsed             int       `json:"kUsed"`
	LegalBasis        string    `json:"legalBasis"`
	CreatedAt         time.Time `json:"createdAt"`
	ComplianceVersion string    `json:"complianceVersion"`
}

// Valid reports whether the audit metadata is complete. A snapshot cannot be
// constructed around an invalid AuditInfo.
func (a AuditInfo) Valid() bool {
	return a.AggregationLevel != "" &&
		a.KUsed >= MinKAnonymity &&
		a.LegalBasis != "" &&
		a.ComplianceVersion != "" &&
		!a.CreatedAt.IsZero()
}
