package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Host                  string `toml:"host"`
	Port                  int    `toml:"port"`
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`
	Environment           string `toml:"environment"`
	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`
	// postgres
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`
	PostgresUser   string `toml:"postgres_user"`
	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`
	// auth
	LoginRateLimitAllowedPerMin int    `toml:"login_rate_limit_allowed_per_min"`
	SessionTTLHours             int    `toml:"session_ttl_hours"`
	SessionCleanupSchedule      string `toml:"session_cleanup_schedule"`
	// muscles catalog
	MusclesCacheTTLSeconds int `toml:"muscles_cache_ttl_seconds"`
	// emails of the users allowed to add muscles and exercises
	CatalogAdmins []string `toml:"catalog_admins"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

// Load reads the TOML file at path and returns the config of the given env.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}
	return fromToml(&t, env)
}

// Parse is Load for an in-memory TOML document.
func Parse(env, content string) (*Config, error) {
	var t Toml
	if _, err := toml.Decode(content, &t); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return fromToml(&t, env)
}

func fromToml(t *Toml, env string) (*Config, error) {
	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("config for env [%s] missing", env)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.PostgresUser == "" {
		c.PostgresUser = "postgres"
	}
	if c.LoginRateLimitAllowedPerMin == 0 {
		c.LoginRateLimitAllowedPerMin = 10
	}
	if c.SessionTTLHours == 0 {
		c.SessionTTLHours = 24 * 7
	}
	if c.SessionCleanupSchedule == "" {
		c.SessionCleanupSchedule = "@every 8h"
	}
	if c.MusclesCacheTTLSeconds == 0 {
		c.MusclesCacheTTLSeconds = 300
	}
}

func (c *Config) validate() error {
	var errs []error
	if c.Port <= 0 {
		errs = append(errs, errors.New("port must be set"))
	}
	if c.PostgresHost == "" || c.PostgresPort == "" || c.PostgresDBName == "" {
		errs = append(errs, errors.New("postgres host, port and db name must be set"))
	}
	if c.RedisHost == "" || c.RedisPort == "" {
		errs = append(errs, errors.New("redis host and port must be set"))
	}
	if c.LoginRateLimitAllowedPerMin < 0 || c.SessionTTLHours < 0 || c.MusclesCacheTTLSeconds < 0 {
		errs = append(errs, errors.New("limits and TTLs must not be negative"))
	}
	return errors.Join(errs...)
}
