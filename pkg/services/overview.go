package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/praxisflow/hr-engine/pkg/apperrors"
	"github.com/praxisflow/hr-engine/pkg/config"
	"github.com/praxisflow/hr-engine/pkg/models"
	"github.com/praxisflow/hr-engine/pkg/repositories"
)

// OverviewService runs the full HR aggregation pipeline for one practice:
// grouping, k-anonymity gate, KPI calculation, alert generation, audit
// stamping and response assembly. Each request is computed on
// request-scoped values only; nothing is shared or mutated across
// requests.
type OverviewService interface {
	// Overview validates params and computes (or serves from cache) the
	// overview payload.
	Overview(ctx context.Context, practiceID uuid.UUID, params OverviewParams) (*models.HROverviewResponse, error)
}

type overviewService struct {
	workforce  repositories.WorkforceRepository
	gate       *AnonymityGate
	calculator *KpiCalculator
	alerts     *AlertGenerator
	stamper    *ComplianceStamper
	cache      *SnapshotCache
	notifier   *AlertNotifier

	defaultKMin int
	schema      *jsonschema.Resolved
	logger      *zap.Logger
	now         func() time.Time
}

// NewOverviewService wires the pipeline. It resolves the shared response
// schema once; a schema that fails to resolve is a startup error.
func NewOverviewService(
	workforce repositories.WorkforceRepository,
	gate *AnonymityGate,
	calculator *KpiCalculator,
	alerts *AlertGenerator,
	stamper *ComplianceStamper,
	cache *SnapshotCache,
	notifier *AlertNotifier,
	cfg config.ComplianceConfig,
	logger *zap.Logger,
) (OverviewService, error) {
	resolved, err := overviewSchema().Resolve(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve overview schema: %w", err)
	}

	return &overviewService{
		workforce:   workforce,
		gate:        gate,
		calculator:  calculator,
		alerts:      alerts,
		stamper:     stamper,
		cache:       cache,
		notifier:    notifier,
		defaultKMin: cfg.DefaultKMin,
		schema:      resolved,
		logger:      logger.Named("hr-overview"),
		now:         time.Now,
	}, nil
}

var _ OverviewService = (*overviewService)(nil)

func (s *overviewService) Overview(ctx context.Context, practiceID uuid.UUID, params OverviewParams) (*models.HROverviewResponse, error) {
	req, err := ValidateOverviewParams(params, s.defaultKMin, func(start, end string) (models.Period, error) {
		return models.ResolvePeriod(start, end, s.now())
	})
	if err != nil {
		return nil, err
	}

	if cached := s.cache.Get(ctx, practiceID, req); cached != nil {
		s.logger.Debug("Serving overview from cache",
			zap.String("practice_id", practiceID.String()),
			zap.String("level", string(req.Level)))
		return cached, nil
	}

	response, err := s.compute(ctx, practiceID, req)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, practiceID, req, response)

	// Notify asynchronously so a Slack outage can never affect the
	// response. Alerts are person-free by construction.
	go s.notifier.NotifyCritical(FilterCritical(response.AlertsBySnapshot))

	return response, nil
}

func (s *overviewService) compute(ctx context.Context, practiceID uuid.UUID, req models.OverviewRequest) (*models.HROverviewResponse, error) {
	var (
		staff []repositories.RoleStaffAggregate
		times map[string]repositories.RoleTimeAggregate
		costs map[string]repositories.RoleCostAggregate
	)

	// The three aggregate reads are independent; fetch them concurrently
	// on the request's practice-scoped connection context.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		staff, err = s.workforce.StaffAggregates(gctx, practiceID, req.Period)
		return err
	})
	g.Go(func() error {
		var err error
		times, err = s.workforce.TimeAggregates(gctx, practiceID, req.Period)
		return err
	})
	g.Go(func() error {
		var err error
		costs, err = s.workforce.CostAggregates(gctx, practiceID, req.Period)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load workforce aggregates: %w", err)
	}

	cohorts := BuildCohorts(req.Level, staff, toRoleTimes(times), toRoleCosts(costs))

	gated, err := s.gate.Apply(cohorts, req.KMin, req.Level)
	if err != nil {
		return nil, apperrors.NewInternal("anonymity-gate", err)
	}

	audit := s.stamper.Stamp(gated.EffectiveLevel, gated.KUsed)

	snapshots := make([]models.KpiSnapshot, 0, len(gated.Released))
	alertsBySnapshot := make([]models.SnapshotAlerts, 0, len(gated.Released))
	for _, cohort := range gated.Released {
		metrics := s.calculator.Compute(cohort)

		snapshot, err := models.NewKpiSnapshot(req.Period, cohort.Level, cohort.GroupKey, cohort.Size, metrics, audit)
		if err != nil {
			return nil, apperrors.NewInternal("snapshot-construction", err)
		}

		snapshots = append(snapshots, snapshot)
		alertsBySnapshot = append(alertsBySnapshot, models.SnapshotAlerts{
			GroupKey: snapshot.GroupKey,
			Alerts:   s.alerts.Evaluate(snapshot),
		})
	}

	warnings := gated.Warnings
	if warnings == nil {
		warnings = []string{}
	}

	response := &models.HROverviewResponse{
		Timestamp:        audit.CreatedAt,
		PeriodStart:      req.Period.StartString(),
		PeriodEnd:        req.Period.EndString(),
		RequestedLevel:   req.Level,
		AggregationLevel: gated.EffectiveLevel,
		Snapshots:        snapshots,
		AlertsBySnapshot: alertsBySnapshot,
		Compliance:       audit,
		Warnings:         warnings,
	}

	if err := s.validateAgainstSchema(response); err != nil {
		s.logger.Error("Assembled overview failed its own schema",
			zap.String("practice_id", practiceID.String()),
			zap.Error(err))
		return nil, apperrors.NewInternal("response-schema", err)
	}

	return response, nil
}

// validateAgainstSchema checks the serialized payload against the shared
// response schema. Failing here means the assembler produced an invalid
// payload - a programming error, never a caller problem.
func (s *overviewService) validateAgainstSchema(response *models.HROverviewResponse) error {
	data, err := json.Marshal(response)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	var instance any
	if err := json.Unmarshal(data, &instance); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	return s.schema.Validate(instance)
}

func toRoleTimes(in map[string]repositories.RoleTimeAggregate) map[string]RoleTime {
	out := make(map[string]RoleTime, len(in))
	for role, t := range in {
		out[role] = RoleTime{
			AbsenceDays:   t.AbsenceDays,
			PlannedDays:   t.PlannedDays,
			OvertimeHours: t.OvertimeHours,
			ContractHours: t.ContractHours,
		}
	}
	return out
}

func toRoleCosts(in map[string]repositories.RoleCostAggregate) map[string]RoleCost {
	out := make(map[string]RoleCost, len(in))
	for role, c := range in {
		out[role] = RoleCost{LaborCost: c.LaborCost, Revenue: c.Revenue}
	}
	return out
}
