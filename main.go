package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/praxisflow/hr-engine/pkg/audit"
	"github.com/praxisflow/hr-engine/pkg/auth"
	"github.com/praxisflow/hr-engine/pkg/config"
	"github.com/praxisflow/hr-engine/pkg/database"
	"github.com/praxisflow/hr-engine/pkg/handlers"
	"github.com/praxisflow/hr-engine/pkg/logging"
	"github.com/praxisflow/hr-engine/pkg/middleware"
	"github.com/praxisflow/hr-engine/pkg/repositories"
	"github.com/praxisflow/hr-engine/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	// Optional .env for local development; ignored when absent.
	_ = godotenv.Load()

	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.NewLogger(&cfg.Logging, cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("base_url", cfg.BaseURL),
		zap.Bool("auth_verification", cfg.Auth.EnableVerification),
		zap.String("database", logging.SanitizeConnectionString(cfg.Database.ConnectionString())),
		zap.Bool("cache_enabled", cfg.Redis.Host != ""),
		zap.String("suppression_policy", cfg.Compliance.SuppressionPolicy))

	thresholds, err := config.LoadThresholds(cfg.ThresholdsPath)
	if err != nil {
		logger.Fatal("Failed to load KPI thresholds", zap.Error(err))
	}

	ctx := context.Background()

	db, err := database.NewConnection(ctx, &database.Config{
		URL:            cfg.Database.ConnectionString(),
		MaxConnections: cfg.Database.MaxConnections,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Migrations run on a separate database/sql handle; golang-migrate
	// does not speak pgxpool.
	migrationDB, err := sql.Open("pgx", cfg.Database.ConnectionString())
	if err != nil {
		logger.Fatal("Failed to open migration connection", zap.Error(err))
	}
	if err := database.RunMigrations(migrationDB, cfg.Database.MigrationsPath, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	if err := migrationDB.Close(); err != nil {
		logger.Warn("Failed to close migration connection", zap.Error(err))
	}

	redisClient, err := database.NewRedisClient(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}

	// Authentication
	jwksClient, err := auth.NewJWKSClient(&auth.JWKSConfig{
		EnableVerification: cfg.Auth.EnableVerification,
		JWKSEndpoints:      cfg.Auth.JWKSEndpoints,
	})
	if err != nil {
		logger.Fatal("Failed to create JWKS client", zap.Error(err))
	}
	sessions := auth.NewSessionStore(cfg.Auth.SessionKey, cfg.BaseURL, cfg.Auth.CookieDomain)
	authService := auth.NewAuthService(jwksClient, sessions, logger)
	authMiddleware := auth.NewMiddleware(authService, logger)

	// Repositories and services
	scopes := database.NewPracticeScopeProvider(db)
	workforceRepo := repositories.NewWorkforceRepository()
	operationsRepo := repositories.NewOperationsRepository()
	practiceRepo := repositories.NewPracticeRepository(db)

	gate := services.NewAnonymityGate(services.SuppressionPolicy(cfg.Compliance.SuppressionPolicy))
	calculator := services.NewKpiCalculator(thresholds)
	alertGenerator := services.NewAlertGenerator(thresholds)
	stamper := services.NewComplianceStamper(cfg.Compliance)
	cache := services.NewSnapshotCache(redisClient,
		time.Duration(cfg.Redis.SnapshotTTLMinutes)*time.Minute, logger)
	notifier := services.NewAlertNotifier(cfg.Slack.Token, cfg.Slack.Channel, logger)

	overviewService, err := services.NewOverviewService(
		workforceRepo, gate, calculator, alertGenerator, stamper,
		cache, notifier, cfg.Compliance, logger)
	if err != nil {
		logger.Fatal("Failed to create overview service", zap.Error(err))
	}
	staffingService := services.NewStaffingService(operationsRepo, cfg.Staffing, logger)

	scheduler, err := services.NewWarmupScheduler(
		cfg.Redis.WarmupCron, overviewService, practiceRepo, scopes, logger)
	if err != nil {
		logger.Fatal("Failed to create warm-up scheduler", zap.Error(err))
	}
	scheduler.Start()
	defer scheduler.Stop()

	// HTTP surface
	mux := http.NewServeMux()
	auditor := audit.NewSecurityAuditor(logger)
	requireAuth := authMiddleware.RequireAuthWithPracticeScope("pid")
	practiceScope := handlers.PracticeScopeMiddleware(scopes, logger)

	handlers.NewHealthHandler(db, cfg.Version, logger).RegisterRoutes(mux)
	handlers.NewHROverviewHandler(overviewService, auditor, logger).
		RegisterRoutes(mux, requireAuth, practiceScope)
	handlers.NewStaffingHandler(staffingService, auditor, logger).
		RegisterRoutes(mux, requireAuth, practiceScope)

	handler := middleware.RequestLogger(logger)(mux)

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("Starting hr-engine",
		zap.String("addr", addr),
		zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}
