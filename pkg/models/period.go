package models

import (
	"fmt"
	"regexp"
	"time"

	"github.com/praxisflow/hr-engine/pkg/apperrors"
)

// DateFormat is the wire format for period boundaries (date-only).
const DateFormat = "2006-01-02"

// DefaultTrailingDays is the reporting window used when the caller supplies
// no period boundaries.
const DefaultTrailingDays = 30

var dateParamPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Period is a half-open reporting interval with date granularity.
// Start <= End always holds for a Period built through ResolvePeriod.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ResolvePeriod turns optional date-only query parameters into a concrete
// Period. Empty parameters default to the trailing DefaultTrailingDays
// window ending at now. Malformed dates and inverted ranges fail with a
// ValidationError.
func ResolvePeriod(startStr, endStr string, now time.Time) (Period, error) {
	end := now.UTC().Truncate(24 * time.Hour)
	start := end.AddDate(0, 0, -DefaultTrailingDays)

	if startStr != "" {
		t, err := parseDateParam("periodStart", startStr)
		if err != nil {
			return Period{}, err
		}
		start = t
	}
	if endStr != "" {
		t, err := parseDateParam("periodEnd", endStr)
		if err != nil {
			return Period{}, err
		}
		end = t
	}

	if start.After(end) {
		return Period{}, apperrors.NewValidation("period", "periodStart %s is after periodEnd %s",
			start.Format(DateFormat), end.Format(DateFormat))
	}

	return Period{Start: start, End: end}, nil
}

func parseDateParam(field, value string) (time.Time, error) {
	if !dateParamPattern.MatchString(value) {
		return time.Time{}, apperrors.NewValidation(field, "must match YYYY-MM-DD, got %q", value)
	}
	t, err := time.ParseInLocation(DateFormat, value, time.UTC)
	if err != nil {
		return time.Time{}, apperrors.NewValidation(field, "invalid date %q", value)
	}
	return t, nil
}

// Days returns the inclusive number of days covered by the period.
func (p Period) Days() int {
	return int(p.End.Sub(p.Start).Hours()/24) + 1
}

// StartString returns the period start in wire format.
func (p Period) StartString() string { return p.Start.Format(DateFormat) }

// EndString returns the period end in wire format.
func (p Period) EndString() string { return p.End.Format(DateFormat) }

// String implements fmt.Stringer for log output.
func (p Period) String() string {
	return fmt.Sprintf("%s..%s", p.StartString(), p.EndString())
}
