package models

import "time"

// StaffingInput describes the operating parameters a staffing-demand
// computation runs on. It is either supplied by the caller (what-if mode)
// or derived from the practice's own recent operating data.
type StaffingInput struct {
	// PatientVolume is the expected number of patient contacts in the
	// planning window.
	PatientVolume float64 `json:"patientVolume"`
	// OperatingHours is the length of the planning window in hours.
	OperatingHours float64 `json:"operatingHours"`
	// AvgServiceMinutes maps role keys to the average minutes of that
	// role's time one patient contact consumes.
	AvgServiceMinutes map[string]float64 `json:"avgServiceMinutes"`
	// UtilizationFactor discounts nominal capacity for breaks, admin work
	// and idle time. Defaults to the configured factor when zero.
	UtilizationFactor float64 `json:"utilizationFactor,omitempty"`
	// TreatmentRooms is informational in what-if mode and populated from
	// the room layout in automatic mode.
	TreatmentRooms int `json:"treatmentRooms,omitempty"`
}

// CurrentStaffingFte maps role keys to currently observed FTE.
type CurrentStaffingFte map[string]float64

// RoleStaffing is the per-role outcome of a staffing computation.
type RoleStaffing struct {
	TargetFte float64 `json:"targetFte"`
	// CurrentFte and Gap are nil when no current staffing was supplied.
	CurrentFte *float64 `json:"currentFte,omitempty"`
	// Gap = current - target; negative means the role is under target.
	Gap *float64 `json:"gap,omitempty"`
}

// StaffingResult is the computed staffing demand. EngineVersion and
// Timestamp make every recommendation attributable to a formula version,
// so historical results stay interpretable after formula changes.
type StaffingResult struct {
	Roles map[string]RoleStaffing `json:"roles"`
	// TotalTargetFte is the sum of all role targets.
	TotalTargetFte float64 `json:"totalTargetFte"`
	// CoverageScorePercent is only present when current staffing was
	// supplied: 100 means every role is at or above target.
	CoverageScorePercent *float64  `json:"coverageScorePercent,omitempty"`
	EngineVersion        string    `json:"engineVersion"`
	Timestamp            time.Time `json:"timestamp"`
}

// StaffingResponse is the HTTP payload for both staffing endpoints.
type StaffingResponse struct {
	Timestamp     time.Time      `json:"timestamp"`
	EngineVersion string         `json:"engineVersion"`
	Input         StaffingInput  `json:"input"`
	Result        StaffingResult `json:"result"`
}
