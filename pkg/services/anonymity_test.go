package services

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxisflow/hr-engine/pkg/models"
)

func roleCohort(key string, size int) models.CohortAggregate {
	return models.CohortAggregate{
		GroupKey:   key,
		Level:      models.LevelRole,
		Size:       size,
		CurrentFte: float64(size),
		TargetFte:  float64(size),
	}
}

func TestAnonymityGatePracticeLevel(t *testing.T) {
	gate := NewAnonymityGate(PolicyMerge)

	t.Run("releases compliant practice cohort", func(t *testing.T) {
		result, err := gate.Apply([]models.CohortAggregate{
			{GroupKey: models.PracticeGroupKey, Level: models.LevelPractice, Size: 7},
		}, 3, models.LevelPractice)
		require.NoError(t, err)

		require.Len(t, result.Released, 1)
		assert.Equal(t, models.LevelPractice, result.EffectiveLevel)
		assert.Equal(t, 3, result.KUsed)
		assert.Empty(t, result.Warnings)
	})

	t.Run("tiny practice releases nothing", func(t *testing.T) {
		result, err := gate.Apply([]models.CohortAggregate{
			{GroupKey: models.PracticeGroupKey, Level: models.LevelPractice, Size: 2},
		}, 3, models.LevelPractice)
		require.NoError(t, err)

		assert.Empty(t, result.Released)
		require.Len(t, result.Warnings, 1)
		assert.Contains(t, result.Warnings[0], "no metrics released")
	})
}

func TestAnonymityGateMergePolicy(t *testing.T) {
	gate := NewAnonymityGate(PolicyMerge)

	t.Run("all roles compliant releases role cohorts unchanged", func(t *testing.T) {
		result, err := gate.Apply([]models.CohortAggregate{
			roleCohort("assistant", 5),
			roleCohort("doctor", 4),
		}, 3, models.LevelRole)
		require.NoError(t, err)

		assert.Len(t, result.Released, 2)
		assert.Equal(t, models.LevelRole, result.EffectiveLevel)
		assert.Empty(t, result.Warnings)
	})

	t.Run("one small role merges everything upward", func(t *testing.T) {
		result, err := gate.Apply([]models.CohortAggregate{
			roleCohort("assistant", 5),
			roleCohort("doctor", 4),
			roleCohort("reception", 2),
		}, 3, models.LevelRole)
		require.NoError(t, err)

		// No role cohort survives: releasing the compliant ones next to a
		// practice total would allow reconstructing the suppressed one.
		require.Len(t, result.Released, 1)
		released := result.Released[0]
		assert.Equal(t, models.PracticeGroupKey, released.GroupKey)
		assert.Equal(t, models.LevelPractice, released.Level)
		assert.Equal(t, 11, released.Size)
		assert.Equal(t, models.LevelPractice, result.EffectiveLevel)

		require.Len(t, result.Warnings, 1)
		assert.Contains(t, result.Warnings[0], `"reception"`)
		assert.Contains(t, result.Warnings[0], "merged into practice-level aggregate")
	})

	t.Run("merged aggregate still below k releases nothing", func(t *testing.T) {
		result, err := gate.Apply([]models.CohortAggregate{
			roleCohort("doctor", 1),
			roleCohort("reception", 1),
		}, 3, models.LevelRole)
		require.NoError(t, err)

		assert.Empty(t, result.Released)
		assert.Equal(t, models.LevelPractice, result.EffectiveLevel)
		assert.NotEmpty(t, result.Warnings)
	})

	t.Run("warnings list suppressed roles in key order", func(t *testing.T) {
		result, err := gate.Apply([]models.CohortAggregate{
			roleCohort("reception", 2),
			roleCohort("assistant", 1),
			roleCohort("doctor", 6),
		}, 3, models.LevelRole)
		require.NoError(t, err)

		require.Len(t, result.Warnings, 2)
		assert.Contains(t, result.Warnings[0], `"assistant"`)
		assert.Contains(t, result.Warnings[1], `"reception"`)
	})
}

func TestAnonymityGateDropPolicy(t *testing.T) {
	gate := NewAnonymityGate(PolicyDrop)

	result, err := gate.Apply([]models.CohortAggregate{
		roleCohort("assistant", 5),
		roleCohort("reception", 2),
	}, 3, models.LevelRole)
	require.NoError(t, err)

	require.Len(t, result.Released, 1)
	assert.Equal(t, "assistant", result.Released[0].GroupKey)
	assert.Equal(t, models.LevelRole, result.EffectiveLevel)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "omitted")
}

// TestAnonymityGateNeverReleasesSmallCohorts drives both policies with
// random cohort populations and checks the single hard guarantee: nothing
// of size < kMin ever leaves the gate.
func TestAnonymityGateNeverReleasesSmallCohorts(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for _, policy := range []SuppressionPolicy{PolicyMerge, PolicyDrop} {
		gate := NewAnonymityGate(policy)

		for i := 0; i < 500; i++ {
			kMin := 3 + rng.Intn(5)
			n := rng.Intn(8)
			cohorts := make([]models.CohortAggregate, 0, n)
			for j := 0; j < n; j++ {
				cohorts = append(cohorts, roleCohort(fmt.Sprintf("role%d", j), rng.Intn(12)))
			}

			result, err := gate.Apply(cohorts, kMin, models.LevelRole)
			require.NoError(t, err)

			for _, c := range result.Released {
				assert.GreaterOrEqual(t, c.Size, kMin,
					"policy %s released cohort %q below k=%d", policy, c.GroupKey, kMin)
			}
		}
	}
}
