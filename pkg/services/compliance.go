package services

import (
	"time"

	"github.com/praxisflow/hr-engine/pkg/config"
	"github.com/praxisflow/hr-engine/pkg/models"
)

// ComplianceStamper attaches the legal metadata to released snapshots.
// LegalBasis and ComplianceVersion are static per deployment; KUsed and
// the aggregation level reflect what the gate actually applied, not what
// the caller requested.
type ComplianceStamper struct {
	legalBasis        string
	complianceVersion string
	now               func() time.Time
}

// NewComplianceStamper creates a stamper from the deployment configuration.
func NewComplianceStamper(cfg config.ComplianceConfig) *ComplianceStamper {
	return &ComplianceStamper{
		legalBasis:        cfg.LegalBasis,
		complianceVersion: cfg.ComplianceVersion,
		now:               time.Now,
	}
}

// Stamp produces the audit metadata for one release. CreatedAt is the
// computation instant, not the reporting period.
func (s *ComplianceStamper) Stamp(level models.AggregationLevel, kUsed int) models.AuditInfo {
	return models.AuditInfo{
		AggregationLevel:  level,
		KUsed:             kUsed,
		LegalBasis:        s.legalBasis,
		CreatedAt:         s.now().UTC(),
		ComplianceVersion: s.complianceVersion,
	}
}
