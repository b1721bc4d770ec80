package services

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/praxisflow/hr-engine/pkg/database"
	"github.com/praxisflow/hr-engine/pkg/repositories"
)

// WarmupScheduler precomputes the default overview for every active
// practice on a cron schedule, so the first operator of the day hits a
// warm cache. Warm-up runs with the engine's own practice scope, not a
// user session; results land in the same cache keyed the same way.
type WarmupScheduler struct {
	cron      *cron.Cron
	overview  OverviewService
	practices repositories.PracticeRepository
	scopes    *database.PracticeScopeProvider
	logger    *zap.Logger
}

// NewWarmupScheduler creates a scheduler. spec is standard cron syntax;
// an empty spec disables warm-up and Start becomes a no-op.
func NewWarmupScheduler(
	spec string,
	overview OverviewService,
	practices repositories.PracticeRepository,
	scopes *database.PracticeScopeProvider,
	logger *zap.Logger,
) (*WarmupScheduler, error) {
	s := &WarmupScheduler{
		overview:  overview,
		practices: practices,
		scopes:    scopes,
		logger:    logger.Named("warmup"),
	}

	if spec == "" {
		return s, nil
	}

	c := cron.New()
	if _, err := c.AddFunc(spec, s.run); err != nil {
		return nil, err
	}
	s.cron = c
	return s, nil
}

// Start begins the schedule. No-op when warm-up is disabled.
func (s *WarmupScheduler) Start() {
	if s.cron != nil {
		s.cron.Start()
	}
}

// Stop halts the schedule and waits for a running warm-up to finish.
func (s *WarmupScheduler) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

func (s *WarmupScheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	ids, err := s.practices.ListActivePracticeIDs(ctx)
	if err != nil {
		s.logger.Error("Warm-up failed to list practices", zap.Error(err))
		return
	}

	warmed := 0
	for _, practiceID := range ids {
		scopedCtx, cleanup, err := s.scopes.WithPracticeScope(ctx, practiceID)
		if err != nil {
			s.logger.Warn("Warm-up failed to scope practice",
				zap.String("practice_id", practiceID.String()),
				zap.Error(err))
			continue
		}

		// Default parameters mirror what the UI requests on load.
		_, err = s.overview.Overview(scopedCtx, practiceID, OverviewParams{})
		cleanup()
		if err != nil {
			s.logger.Warn("Warm-up computation failed",
				zap.String("practice_id", practiceID.String()),
				zap.Error(err))
			continue
		}
		warmed++
	}

	s.logger.Info("Cache warm-up finished",
		zap.Int("practices", len(ids)),
		zap.Int("warmed", warmed))
}
