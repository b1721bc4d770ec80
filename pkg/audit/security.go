// Package audit provides security audit logging for SIEM consumption.
// It logs security-relevant events in structured JSON format for easy
// parsing and integration with the operator's monitoring stack.
package audit

import (
	"context"
	"time"

	"github.com/corazawaf/libinjection-go"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/praxisflow/hr-engine/pkg/auth"
)

// SecurityEventType categorizes security-relevant events for filtering and
// alerting.
type SecurityEventType string

const (
	// EventInjectionAttempt is logged when libinjection detects SQL
	// injection patterns in a query parameter.
	EventInjectionAttempt SecurityEventType = "sql_injection_attempt"
	// EventParameterValidation is logged when parameter validation fails.
	EventParameterValidation SecurityEventType = "parameter_validation_failure"
)

// SecurityEvent represents an auditable security event with all relevant
// context for SIEM ingestion and analysis.
type SecurityEvent struct {
	Timestamp  time.Time         `json:"timestamp"`
	EventType  SecurityEventType `json:"event_type"`
	PracticeID uuid.UUID         `json:"practice_id"`
	UserID     string            `json:"user_id,omitempty"`
	ClientIP   string            `json:"client_ip,omitempty"`
	Details    any               `json:"details"`
	Severity   string            `json:"severity"` // info, warning, critical
}

// InjectionDetails contains specifics of a detected injection attempt.
type InjectionDetails struct {
	ParamName   string `json:"param_name"`
	ParamValue  string `json:"param_value"`
	Fingerprint string `json:"fingerprint"` // libinjection fingerprint for pattern analysis
	Endpoint    string `json:"endpoint"`
}

// SecurityAuditor logs security events for SIEM consumption.
type SecurityAuditor struct {
	logger *zap.Logger
}

// NewSecurityAuditor creates a new security auditor with a dedicated logger
// namespace ("security_audit") for easy filtering in SIEM systems.
func NewSecurityAuditor(logger *zap.Logger) *SecurityAuditor {
	return &SecurityAuditor{logger: logger.Named("security_audit")}
}

// ScanParam checks a single query parameter value for SQL injection
// patterns. When a pattern is found, the attempt is logged at ERROR level
// with "critical" severity and true is returned. The caller decides whether
// to reject the request; the overview endpoints do, since no legitimate
// parameter value ever looks like SQL.
func (a *SecurityAuditor) ScanParam(ctx context.Context, practiceID uuid.UUID, endpoint, name, value, clientIP string) bool {
	if value == "" {
		return false
	}

	injected, fingerprint := libinjection.IsSQLi(value)
	if !injected {
		return false
	}

	a.logEvent(SecurityEvent{
		Timestamp:  time.Now().UTC(),
		EventType:  EventInjectionAttempt,
		PracticeID: practiceID,
		UserID:     auth.GetUserIDFromContext(ctx),
		ClientIP:   clientIP,
		Severity:   "critical",
		Details: InjectionDetails{
			ParamName:   name,
			ParamValue:  value,
			Fingerprint: fingerprint,
			Endpoint:    endpoint,
		},
	})
	return true
}

// LogValidationFailure records a failed parameter validation for anomaly
// tracking. Logged at WARN level with "warning" severity.
func (a *SecurityAuditor) LogValidationFailure(ctx context.Context, practiceID uuid.UUID, endpoint, detail, clientIP string) {
	a.logEvent(SecurityEvent{
		Timestamp:  time.Now().UTC(),
		EventType:  EventParameterValidation,
		PracticeID: practiceID,
		UserID:     auth.GetUserIDFromContext(ctx),
		ClientIP:   clientIP,
		Severity:   "warning",
		Details:    map[string]string{"endpoint": endpoint, "detail": detail},
	})
}

func (a *SecurityAuditor) logEvent(event SecurityEvent) {
	fields := []zap.Field{
		zap.Time("event_timestamp", event.Timestamp),
		zap.String("event_type", string(event.EventType)),
		zap.String("practice_id", event.PracticeID.String()),
		zap.String("severity", event.Severity),
		zap.Any("details", event.Details),
	}
	if event.UserID != "" {
		fields = append(fields, zap.String("user_id", event.UserID))
	}
	if event.ClientIP != "" {
		fields = append(fields, zap.String("client_ip", event.ClientIP))
	}

	switch event.Severity {
	case "critical":
		a.logger.Error("Security event", fields...)
	case "warning":
		a.logger.Warn("Security event", fields...)
	default:
		a.logger.Info("Security event", fields...)
	}
}
