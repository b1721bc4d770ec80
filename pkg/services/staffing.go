package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/praxisflow/hr-engine/pkg/apperrors"
	"github.com/praxisflow/hr-engine/pkg/config"
	"github.com/praxisflow/hr-engine/pkg/models"
	"github.com/praxisflow/hr-engine/pkg/repositories"
	"github.com/praxisflow/hr-engine/pkg/rooms"
)

// StaffingEngineVersion identifies the demand formula. It is stamped onto
// every result so historical recommendations stay attributable after
// formula changes. Bump on any change to the computation.
const StaffingEngineVersion = "staffing/1.2.0"

// defaultServiceMinutes applies for roles the practice has not configured
// service times for in automatic mode.
var defaultServiceMinutes = map[string]float64{
	"doctor":    20,
	"assistant": 12,
	"reception": 5,
}

// StaffingService computes staffing demand, either from caller-supplied
// what-if parameters or from the practice's own recent operating data.
type StaffingService interface {
	// ComputeManual validates the caller-supplied input and computes the
	// demand. current may be nil.
	ComputeManual(input models.StaffingInput, current models.CurrentStaffingFte) (*models.StaffingResponse, error)

	// ComputeAutomatic derives the input from recent operating data and
	// computes the demand against the currently observed FTE.
	ComputeAutomatic(ctx context.Context, practiceID uuid.UUID) (*models.StaffingResponse, error)
}

type staffingService struct {
	operations repositories.OperationsRepository
	cfg        config.StaffingConfig
	logger     *zap.Logger
	now        func() time.Time
}

// NewStaffingService creates a StaffingService.
func NewStaffingService(operations repositories.OperationsRepository, cfg config.StaffingConfig, logger *zap.Logger) StaffingService {
	return &staffingService{
		operations: operations,
		cfg:        cfg,
		logger:     logger.Named("staffing"),
		now:        time.Now,
	}
}

var _ StaffingService = (*staffingService)(nil)

func (s *staffingService) ComputeManual(input models.StaffingInput, current models.CurrentStaffingFte) (*models.StaffingResponse, error) {
	if err := s.validateInput(input, current); err != nil {
		return nil, err
	}
	return s.compute(input, current), nil
}

func (s *staffingService) ComputeAutomatic(ctx context.Context, practiceID uuid.UUID) (*models.StaffingResponse, error) {
	end := s.now().UTC().Truncate(24 * time.Hour)
	period := models.Period{
		Start: end.AddDate(0, 0, -s.cfg.PlanningHorizonDays),
		End:   end,
	}

	snapshot, err := s.operations.OperatingSnapshot(ctx, practiceID, period)
	if err != nil {
		return nil, fmt.Errorf("failed to load operating snapshot: %w", err)
	}

	input := s.deriveInput(snapshot)
	current := models.CurrentStaffingFte(snapshot.CurrentFteByRole)

	// Derived inputs are validated like caller input; bad operating data
	// must not slip through as a silent zero-demand result.
	if err := s.validateInput(input, nil); err != nil {
		return nil, apperrors.NewInternal("staffing.automatic", err)
	}

	// Current FTE may contain roles without configured service times;
	// those roles get no target rather than failing the computation.
	known := make(models.CurrentStaffingFte)
	for role, fte := range current {
		if _, ok := input.AvgServiceMinutes[NormalizeRoleKey(role)]; ok {
			known[NormalizeRoleKey(role)] = fte
		}
	}

	return s.compute(input, known), nil
}

// deriveInput builds a StaffingInput from recent operating data.
func (s *staffingService) deriveInput(snapshot *repositories.OperatingSnapshot) models.StaffingInput {
	serviceMinutes := make(map[string]float64)
	for role, minutes := range defaultServiceMinutes {
		serviceMinutes[role] = minutes
	}
	for role, minutes := range snapshot.ServiceMinutes {
		serviceMinutes[NormalizeRoleKey(role)] = minutes
	}

	openDays := snapshot.OpenDays
	if openDays == 0 {
		openDays = 1
	}

	roomCounts := rooms.CountByType(snapshot.RoomLabels)

	return models.StaffingInput{
		// Average volume per open day; the formula operates on one
		// operating window.
		PatientVolume:     snapshot.TotalVisits / float64(openDays),
		OperatingHours:    snapshot.OperatingHoursPerDay,
		AvgServiceMinutes: serviceMinutes,
		UtilizationFactor: s.cfg.UtilizationFactor,
		TreatmentRooms:    roomCounts[rooms.RoomTreatment],
	}
}

func (s *staffingService) validateInput(input models.StaffingInput, current models.CurrentStaffingFte) error {
	if input.PatientVolume < 0 {
		return apperrors.NewValidation("patientVolume", "must not be negative, got %v", input.PatientVolume)
	}
	if input.OperatingHours <= 0 {
		return apperrors.NewValidation("operatingHours", "must be positive, got %v", input.OperatingHours)
	}
	if len(input.AvgServiceMinutes) == 0 {
		return apperrors.NewValidation("avgServiceMinutes", "at least one role is required")
	}
	for role, minutes := range input.AvgServiceMinutes {
		if minutes < 0 {
			return apperrors.NewValidation("avgServiceMinutes", "minutes for role %q must not be negative, got %v", role, minutes)
		}
	}
	if f := input.UtilizationFactor; f < 0 || f > 1 {
		return apperrors.NewValidation("utilizationFactor", "must be in (0, 1], got %v", f)
	}
	for role := range current {
		if _, ok := input.AvgServiceMinutes[role]; !ok {
			return apperrors.NewValidation("current", "unknown role key %q", role)
		}
	}
	return nil
}

// compute runs the demand formula:
//
//	targetFte[role] = (patientVolume * avgServiceMinutes[role]) / (operatingMinutes * utilizationFactor)
func (s *staffingService) compute(input models.StaffingInput, current models.CurrentStaffingFte) *models.StaffingResponse {
	utilization := input.UtilizationFactor
	if utilization == 0 {
		utilization = s.cfg.UtilizationFactor
		input.UtilizationFactor = utilization
	}
	operatingMinutes := rooms.HoursToMinutes(input.OperatingHours)

	result := models.StaffingResult{
		Roles:         make(map[string]models.RoleStaffing, len(input.AvgServiceMinutes)),
		EngineVersion: StaffingEngineVersion,
		Timestamp:     s.now().UTC(),
	}

	var total float64
	var coverageSum float64
	coverageRoles := 0

	for role, minutes := range input.AvgServiceMinutes {
		target := round2((input.PatientVolume * minutes) / (operatingMinutes * utilization))
		total += target

		staffing := models.RoleStaffing{TargetFte: target}
		if current != nil {
			if fte, ok := current[role]; ok {
				currentFte := round2(fte)
				gap := round2(currentFte - target)
				staffing.CurrentFte = &currentFte
				staffing.Gap = &gap

				if target > 0 {
					ratio := currentFte / target
					if ratio > 1 {
						ratio = 1
					}
					coverageSum += ratio
					coverageRoles++
				}
			}
		}
		result.Roles[role] = staffing
	}

	result.TotalTargetFte = round2(total)
	if coverageRoles > 0 {
		score := round1(coverageSum / float64(coverageRoles) * 100)
		result.CoverageScorePercent = &score
	}

	return &models.StaffingResponse{
		Timestamp:     result.Timestamp,
		EngineVersion: StaffingEngineVersion,
		Input:         input,
		Result:        result,
	}
}
