package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// MetricThreshold holds the warning and critical boundaries for one metric.
// Direction is implicit per metric: fteQuote alerts below the boundary,
// every other metric alerts above it.
type MetricThreshold struct {
	Warning  float64 `yaml:"warning"`
	Critical float64 `yaml:"critical"`
}

// Thresholds is the KPI threshold policy. It is deployment-static: loaded
// once at startup, never mutated afterwards, so concurrent requests can
// share it without locking.
type Thresholds struct {
	// FteQuote boundaries are ratios; a cohort alerts when its quote falls
	// below them.
	FteQuote MetricThreshold `yaml:"fte_quote"`
	// AbsenceRate and OvertimeRate boundaries are percentages.
	AbsenceRate  MetricThreshold `yaml:"absence_rate"`
	OvertimeRate MetricThreshold `yaml:"overtime_rate"`
	// LaborCostRatio boundaries are percentages; cohorts without cost data
	// are never evaluated against them.
	LaborCostRatio MetricThreshold `yaml:"labor_cost_ratio"`
}

// DefaultThresholds returns the compiled-in threshold policy used when no
// thresholds.yaml is deployed.
func DefaultThresholds() Thresholds {
	return Thresholds{
		FteQuote:       MetricThreshold{Warning: 0.9, Critical: 0.75},
		AbsenceRate:    MetricThreshold{Warning: 10, Critical: 20},
		OvertimeRate:   MetricThreshold{Warning: 10, Critical: 25},
		LaborCostRatio: MetricThreshold{Warning: 65, Critical: 80},
	}
}

// LoadThresholds reads the threshold policy from path, falling back to the
// defaults when the file does not exist. A file that exists but fails to
// parse is a startup error, not a silent fallback.
func LoadThresholds(path string) (Thresholds, error) {
	if path == "" {
		return DefaultThresholds(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultThresholds(), nil
		}
		return Thresholds{}, fmt.Errorf("failed to read thresholds file %s: %w", path, err)
	}

	t := DefaultThresholds()
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Thresholds{}, fmt.Errorf("failed to parse thresholds file %s: %w", path, err)
	}

	if err := t.validate(); err != nil {
		return Thresholds{}, fmt.Errorf("invalid thresholds in %s: %w", path, err)
	}
	return t, nil
}

func (t Thresholds) validate() error {
	// For below-direction metrics critical < warning; above-direction the
	// other way around.
	if t.FteQuote.Critical >= t.FteQuote.Warning {
		return fmt.Errorf("fte_quote.critical must be below fte_quote.warning")
	}
	for name, mt := range map[string]MetricThreshold{
		"absence_rate":     t.AbsenceRate,
		"overtime_rate":    t.OvertimeRate,
		"labor_cost_ratio": t.LaborCostRatio,
	} {
		if mt.Critical <= mt.Warning {
			return fmt.Errorf("%s.critical must be above %s.warning", name, name)
		}
	}
	return nil
}
