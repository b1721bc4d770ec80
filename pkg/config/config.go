package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for the HR engine.
// Configuration can come from YAML file (config.yaml) or environment
// variables; environment variables always override YAML values. Secrets
// (passwords, signing keys) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8087"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	BaseURL  string `yaml:"base_url" env:"BASE_URL" env-default:""` // Auto-derived from Port if empty
	Version  string `yaml:"-"`                                     // Set at load time, not from config

	// Authentication configuration
	Auth AuthConfig `yaml:"auth"`

	// Database configuration (PostgreSQL)
	Database DatabaseConfig `yaml:"database"`

	// Redis snapshot cache (optional; empty host disables caching)
	Redis RedisConfig `yaml:"redis"`

	// Compliance parameters stamped onto every released snapshot
	Compliance ComplianceConfig `yaml:"compliance"`

	// Staffing-demand engine parameters
	Staffing StaffingConfig `yaml:"staffing"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging"`

	// Slack ops notifications for critical alerts (optional)
	Slack SlackConfig `yaml:"slack"`

	// ThresholdsPath points to the KPI threshold policy file. Compiled-in
	// defaults apply when the file is absent.
	ThresholdsPath string `yaml:"thresholds_path" env:"THRESHOLDS_PATH" env-default:"thresholds.yaml"`
}

// AuthConfig holds authentication-related configuration.
type AuthConfig struct {
	// EnableVerification controls whether JWT tokens are validated.
	// Set to false for local development without the auth server.
	EnableVerification bool `yaml:"enable_verification" env:"AUTH_ENABLE_VERIFICATION" env-default:"true"`

	// JWKSEndpointsStr is a comma-separated list of issuer=jwks_url pairs.
	JWKSEndpointsStr string `yaml:"jwks_endpoints" env:"JWKS_ENDPOINTS" env-default:"https://auth.praxisflow.de=https://auth.praxisflow.de/.well-known/jwks.json"`

	// JWKSEndpoints is the parsed map from JWKSEndpointsStr.
	JWKSEndpoints map[string]string `yaml:"-"`

	// SessionKey signs the browser session cookie. Secret - env only.
	SessionKey string `yaml:"-" env:"SESSION_KEY"`

	// CookieDomain for the session cookie (optional).
	CookieDomain string `yaml:"cookie_domain" env:"COOKIE_DOMAIN" env-default:""`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"praxisflow"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"praxisflow_hr"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"25"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
	MigrationsPath string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"migrations"`
}

// RedisConfig holds the snapshot cache configuration.
type RedisConfig struct {
	Host     string `yaml:"host" env:"REDIS_HOST" env-default:""`
	Port     int    `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password string `yaml:"-" env:"REDIS_PASSWORD"` // Secret - not in YAML
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
	// SnapshotTTLMinutes bounds how long a cached overview stays valid.
	SnapshotTTLMinutes int `yaml:"snapshot_ttl_minutes" env:"REDIS_SNAPSHOT_TTL_MINUTES" env-default:"15"`
	// WarmupCron, when non-empty, precomputes the default overview for all
	// practices on schedule (cron syntax).
	WarmupCron string `yaml:"warmup_cron" env:"REDIS_WARMUP_CRON" env-default:""`
}

// ComplianceConfig carries the static legal metadata for audit stamping.
type ComplianceConfig struct {
	LegalBasis        string `yaml:"legal_basis" env:"COMPLIANCE_LEGAL_BASIS" env-default:"Art. 6 Abs. 1 lit. f DSGVO i.V.m. § 26 BDSG"`
	ComplianceVersion string `yaml:"compliance_version" env:"COMPLIANCE_VERSION" env-default:"2025.2"`
	// DefaultKMin applies when the caller does not pass kMin. Must be >= 3.
	DefaultKMin int `yaml:"default_k_min" env:"COMPLIANCE_DEFAULT_K_MIN" env-default:"3"`
	// SuppressionPolicy is "merge" (fold small cohorts into the practice
	// aggregate) or "drop" (omit them entirely).
	SuppressionPolicy string `yaml:"suppression_policy" env:"COMPLIANCE_SUPPRESSION_POLICY" env-default:"merge"`
}

// StaffingConfig holds staffing-demand engine defaults.
type StaffingConfig struct {
	UtilizationFactor float64 `yaml:"utilization_factor" env:"STAFFING_UTILIZATION_FACTOR" env-default:"0.8"`
	// PlanningHorizonDays is the window automatic mode averages visit
	// volume over.
	PlanningHorizonDays int `yaml:"planning_horizon_days" env:"STAFFING_PLANNING_HORIZON_DAYS" env-default:"30"`
}

// LoggingConfig controls zap output and optional file rotation.
type LoggingConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	// FilePath enables rotating file output alongside stderr when set.
	FilePath   string `yaml:"file_path" env:"LOG_FILE_PATH" env-default:""`
	MaxSizeMB  int    `yaml:"max_size_mb" env:"LOG_MAX_SIZE_MB" env-default:"50"`
	MaxBackups int    `yaml:"max_backups" env:"LOG_MAX_BACKUPS" env-default:"5"`
	MaxAgeDays int    `yaml:"max_age_days" env:"LOG_MAX_AGE_DAYS" env-default:"30"`
}

// SlackConfig gates the ops notifier for critical alerts.
type SlackConfig struct {
	Token   string `yaml:"-" env:"SLACK_TOKEN"` // Secret - not in YAML
	Channel string `yaml:"channel" env:"SLACK_CHANNEL" env-default:""`
}

// Enabled reports whether Slack notifications are configured.
func (c *SlackConfig) Enabled() bool {
	return c.Token != "" && c.Channel != ""
}

// Load reads configuration from config.yaml with environment variable
// overrides. The version parameter is injected at build time.
func Load(version string) (*Config, error) {
	cfg := &Config{Version: version}

	if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
		return nil, fmt.Errorf("failed to read config.yaml: %w", err)
	}

	cfg.Auth.JWKSEndpoints = parseJWKSEndpoints(cfg.Auth.JWKSEndpointsStr)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	// Auto-derive BaseURL from Port if not explicitly set
	if cfg.BaseURL == "" {
		cfg.BaseURL = (&url.URL{Scheme: "http", Host: "localhost:" + cfg.Port}).String()
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Compliance.DefaultKMin < 3 {
		return fmt.Errorf("compliance.default_k_min must be >= 3, got %d", c.Compliance.DefaultKMin)
	}
	if p := c.Compliance.SuppressionPolicy; p != "merge" && p != "drop" {
		return fmt.Errorf("compliance.suppression_policy must be merge or drop, got %q", p)
	}
	if f := c.Staffing.UtilizationFactor; f <= 0 || f > 1 {
		return fmt.Errorf("staffing.utilization_factor must be in (0, 1], got %v", f)
	}
	if c.Compliance.LegalBasis == "" || c.Compliance.ComplianceVersion == "" {
		return fmt.Errorf("compliance.legal_basis and compliance.compliance_version must be set")
	}
	return nil
}

// parseJWKSEndpoints parses the JWKS endpoints string into a map.
// Format: "issuer1=url1,issuer2=url2"
func parseJWKSEndpoints(value string) map[string]string {
	endpoints := make(map[string]string)
	if value == "" {
		return endpoints
	}
	for _, pair := range strings.Split(value, ",") {
		parts := strings.Split(pair, "=")
		if len(parts) == 2 {
			endpoints[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
		}
	}
	return endpoints
}

// ConnectionString returns a PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}
