package services

import (
	"sort"
	"strconv"
	"strings"

	"github.com/jinzhu/inflection"

	"github.com/praxisflow/hr-engine/pkg/apperrors"
	"github.com/praxisflow/hr-engine/pkg/models"
	"github.com/praxisflow/hr-engine/pkg/repositories"
)

// OverviewParams are the raw query parameters of an overview request,
// before validation.
type OverviewParams struct {
	Level       string
	KMin        string
	PeriodStart string
	PeriodEnd   string
}

// RoleTime and RoleCost decouple the grouping input from the repository
// row types so the calculator layer stays free of database imports.
type RoleTime struct {
	AbsenceDays   float64
	PlannedDays   float64
	OvertimeHours float64
	ContractHours float64
}

type RoleCost struct {
	LaborCost float64
	Revenue   float64
}

// NormalizeRoleKey maps a raw role label onto its cohort group key: lower
// case, trimmed, singularized ("Doctors" and "doctor" are one cohort).
func NormalizeRoleKey(role string) string {
	key := strings.ToLower(strings.TrimSpace(role))
	if key == "" {
		return "unspecified"
	}
	return inflection.Singular(key)
}

// ValidateOverviewParams turns the raw query parameters into a validated
// OverviewRequest. defaultKMin applies when kMin is absent; an explicit
// kMin below models.MinKAnonymity is rejected, never silently raised.
// All validation failures surface here, before any aggregation runs.
func ValidateOverviewParams(params OverviewParams, defaultKMin int, resolvePeriod func(start, end string) (models.Period, error)) (models.OverviewRequest, error) {
	level := params.Level
	if level == "" {
		level = string(models.LevelPractice)
	}
	if !models.ValidAggregationLevel(level) {
		return models.OverviewRequest{}, apperrors.NewValidation("level", "must be practice or role, got %q", params.Level)
	}

	kMin := defaultKMin
	if params.KMin != "" {
		parsed, err := strconv.Atoi(params.KMin)
		if err != nil {
			return models.OverviewRequest{}, apperrors.NewValidation("kMin", "must be an integer, got %q", params.KMin)
		}
		kMin = parsed
	}
	if kMin < models.MinKAnonymity {
		return models.OverviewRequest{}, apperrors.NewValidation("kMin", "must be at least %d, got %d", models.MinKAnonymity, kMin)
	}

	period, err := resolvePeriod(params.PeriodStart, params.PeriodEnd)
	if err != nil {
		return models.OverviewRequest{}, err
	}

	return models.OverviewRequest{
		Level:  models.AggregationLevel(level),
		KMin:   kMin,
		Period: period,
	}, nil
}

// BuildCohorts maps raw per-role aggregates into cohorts at the requested
// level. At practice level all roles fold into the single practice cohort;
// at role level every normalized role key becomes its own cohort, with
// colliding keys (e.g. "Doctor" and "doctors") merged. Role cohorts come
// back sorted by group key so downstream output is deterministic.
func BuildCohorts(
	level models.AggregationLevel,
	staff []repositories.RoleStaffAggregate,
	times map[string]RoleTime,
	costs map[string]RoleCost,
) []models.CohortAggregate {
	byKey := make(map[string]models.CohortAggregate)

	for _, s := range staff {
		key := NormalizeRoleKey(s.Role)

		agg := models.CohortAggregate{
			GroupKey:   key,
			Level:      models.LevelRole,
			Size:       s.Headcount,
			CurrentFte: s.CurrentFte,
			TargetFte:  s.TargetFte,
		}
		if t, ok := times[s.Role]; ok {
			agg.AbsenceDays = t.AbsenceDays
			agg.PlannedDays = t.PlannedDays
			agg.OvertimeHrs = t.OvertimeHours
			agg.ContractHrs = t.ContractHours
		}
		if c, ok := costs[s.Role]; ok {
			cost := c.LaborCost
			revenue := c.Revenue
			agg.LaborCost = &cost
			agg.Revenue = &revenue
		}

		if existing, ok := byKey[key]; ok {
			merged := existing.Merge(agg)
			merged.GroupKey = key
			byKey[key] = merged
		} else {
			byKey[key] = agg
		}
	}

	keys := make([]string, 0, len(byKey))
	for key := range byKey {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	if level == models.LevelPractice {
		practice := models.CohortAggregate{
			GroupKey: models.PracticeGroupKey,
			Level:    models.LevelPractice,
		}
		for i, key := range keys {
			if i == 0 {
				practice = byKey[key]
			} else {
				practice = practice.Merge(byKey[key])
			}
		}
		practice.GroupKey = models.PracticeGroupKey
		practice.Level = models.LevelPractice
		return []models.CohortAggregate{practice}
	}

	cohorts := make([]models.CohortAggregate, 0, len(keys))
	for _, key := range keys {
		cohorts = append(cohorts, byKey[key])
	}
	return cohorts
}
