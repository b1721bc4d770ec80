package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxisflow/hr-engine/pkg/apperrors"
)

func TestResolvePeriod(t *testing.T) {
	now := time.Date(2025, 6, 15, 13, 45, 0, 0, time.UTC)

	t.Run("defaults to trailing window", func(t *testing.T) {
		p, err := ResolvePeriod("", "", now)
		require.NoError(t, err)

		assert.Equal(t, "2025-06-15", p.EndString())
		assert.Equal(t, "2025-05-16", p.StartString())
		assert.Equal(t, DefaultTrailingDays+1, p.Days())
	})

	t.Run("explicit boundaries", func(t *testing.T) {
		p, err := ResolvePeriod("2025-01-01", "2025-01-31", now)
		require.NoError(t, err)

		assert.Equal(t, "2025-01-01", p.StartString())
		assert.Equal(t, "2025-01-31", p.EndString())
		assert.Equal(t, 31, p.Days())
	})

	t.Run("start only keeps default end", func(t *testing.T) {
		p, err := ResolvePeriod("2025-06-01", "", now)
		require.NoError(t, err)

		assert.Equal(t, "2025-06-01", p.StartString())
		assert.Equal(t, "2025-06-15", p.EndString())
	})

	t.Run("rejects malformed dates", func(t *testing.T) {
		for _, value := range []string{"2025/01/01", "01-01-2025", "2025-1-1", "not-a-date", "2025-01-01T00:00:00Z"} {
			_, err := ResolvePeriod(value, "", now)
			require.Error(t, err, "value %q", value)
			assert.True(t, apperrors.IsValidation(err))
		}
	})

	t.Run("rejects impossible calendar dates", func(t *testing.T) {
		_, err := ResolvePeriod("2025-02-30", "", now)
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("rejects inverted range", func(t *testing.T) {
		_, err := ResolvePeriod("2025-02-01", "2025-01-01", now)
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
		assert.Contains(t, err.Error(), "after")
	})

	t.Run("single-day period is valid", func(t *testing.T) {
		p, err := ResolvePeriod("2025-03-01", "2025-03-01", now)
		require.NoError(t, err)
		assert.Equal(t, 1, p.Days())
	})
}
