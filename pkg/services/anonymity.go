package services

import (
	"fmt"
	"sort"

	"github.com/praxisflow/hr-engine/pkg/models"
)

// SuppressionPolicy controls what happens to cohorts below the k-anonymity
// threshold.
type SuppressionPolicy string

const (
	// PolicyMerge folds below-threshold cohorts into the practice-level
	// aggregate (default).
	PolicyMerge SuppressionPolicy = "merge"
	// PolicyDrop omits below-threshold cohorts entirely.
	PolicyDrop SuppressionPolicy = "drop"
)

// GateResult is the outcome of applying the k-anonymity gate.
type GateResult struct {
	// Released cohorts, every one of size >= KUsed.
	Released []models.CohortAggregate
	// EffectiveLevel may differ from the requested level when role cohorts
	// had to be merged upward.
	EffectiveLevel models.AggregationLevel
	// KUsed is the k actually enforced.
	KUsed int
	// Warnings describe every suppression that happened, in group-key
	// order, without naming any individual.
	Warnings []string
}

// AnonymityGate enforces the minimum cohort size before anything about a
// cohort is released.
type AnonymityGate struct {
	policy SuppressionPolicy
}

// NewAnonymityGate creates a gate with the given suppression policy.
func NewAnonymityGate(policy SuppressionPolicy) *AnonymityGate {
	return &AnonymityGate{policy: policy}
}

// Apply gates the cohorts against kMin. Callers must only pass kMin values
// already validated to be >= models.MinKAnonymity.
//
// Role cohorts below kMin are merged into the practice-level aggregate
// (PolicyMerge) or dropped (PolicyDrop); either way a warning is recorded.
// If the merged practice aggregate itself stays below kMin, nothing is
// released at all - the practice is too small for anonymous statistics in
// this period.
//
// Postcondition: every released cohort has Size >= kMin. Apply double-checks
// this before returning and fails loudly on violation, because nothing
// downstream is allowed to compensate for a gate bug.
func (g *AnonymityGate) Apply(cohorts []models.CohortAggregate, kMin int, requestedLevel models.AggregationLevel) (GateResult, error) {
	result := GateResult{
		EffectiveLevel: requestedLevel,
		KUsed:          kMin,
	}

	if requestedLevel == models.LevelPractice {
		for _, c := range cohorts {
			if c.Size < kMin {
				result.Warnings = append(result.Warnings, fmt.Sprintf(
					"Practice-level aggregate below k-anonymity threshold (k=%d); no metrics released", kMin))
				continue
			}
			result.Released = append(result.Released, c)
		}
		return g.check(result, kMin)
	}

	var released []models.CohortAggregate
	var suppressed []models.CohortAggregate
	for _, c := range cohorts {
		if c.Size < kMin {
			suppressed = append(suppressed, c)
		} else {
			released = append(released, c)
		}
	}

	if len(suppressed) == 0 {
		result.Released = released
		return g.check(result, kMin)
	}

	sort.Slice(suppressed, func(i, j int) bool { return suppressed[i].GroupKey < suppressed[j].GroupKey })

	switch g.policy {
	case PolicyDrop:
		for _, c := range suppressed {
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"Role %q below k-anonymity threshold (k=%d); omitted from role-level results", c.GroupKey, kMin))
		}
		result.Released = released

	default: // PolicyMerge
		// Fold everything - released role cohorts included - into one
		// practice-level aggregate. Releasing the compliant roles alongside
		// a practice total would let a reader subtract them back out and
		// reconstruct the suppressed cohorts.
		practice := models.CohortAggregate{}
		for i, c := range append(append([]models.CohortAggregate{}, released...), suppressed...) {
			if i == 0 {
				practice = c
			} else {
				practice = practice.Merge(c)
			}
		}
		practice.GroupKey = models.PracticeGroupKey
		practice.Level = models.LevelPractice

		for _, c := range suppressed {
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"Role %q below k-anonymity threshold (k=%d); merged into practice-level aggregate", c.GroupKey, kMin))
		}

		result.EffectiveLevel = models.LevelPractice
		if practice.Size < kMin {
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"Practice-level aggregate below k-anonymity threshold (k=%d); no metrics released", kMin))
		} else {
			result.Released = []models.CohortAggregate{practice}
		}
	}

	return g.check(result, kMin)
}

// check is the hard postcondition: no released cohort below kMin.
func (g *AnonymityGate) check(result GateResult, kMin int) (GateResult, error) {
	for _, c := range result.Released {
		if c.Size < kMin {
			return GateResult{}, fmt.Errorf("k-anonymity postcondition violated: cohort %q has size %d < k=%d", c.GroupKey, c.Size, kMin)
		}
	}
	return result, nil
}
