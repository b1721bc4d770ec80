package audit

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestScanParam(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	auditor := NewSecurityAuditor(zap.New(core))
	practiceID := uuid.New()

	t.Run("clean values pass silently", func(t *testing.T) {
		for _, value := range []string{"", "role", "practice", "2025-05-01", "5"} {
			hit := auditor.ScanParam(context.Background(), practiceID, "/hr/overview", "level", value, "10.0.0.1")
			assert.False(t, hit, "value %q", value)
		}
		assert.Zero(t, logs.Len())
	})

	t.Run("injection patterns are flagged and logged", func(t *testing.T) {
		hit := auditor.ScanParam(context.Background(), practiceID, "/hr/overview", "level", "practice' OR '1'='1", "10.0.0.1")
		assert.True(t, hit)

		entries := logs.TakeAll()
		assert.NotEmpty(t, entries)
		entry := entries[len(entries)-1]
		assert.Equal(t, zap.ErrorLevel, entry.Level)
		assert.Equal(t, "Security event", entry.Message)
	})
}

func TestLogValidationFailure(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	auditor := NewSecurityAuditor(zap.New(core))

	auditor.LogValidationFailure(context.Background(), uuid.New(), "/hr/overview", "kMin below minimum", "10.0.0.1")

	entries := logs.TakeAll()
	assert.Len(t, entries, 1)
	assert.Equal(t, zap.WarnLevel, entries[0].Level)
}
