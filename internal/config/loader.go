package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the path checked for YAML configuration.
const DefaultConfigFile = "saasmesh.yaml"

// Load returns a Config using the hierarchy: defaults < YAML < ENV.
// YAML file is optional; missing file is not an error.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigFile)
}

// LoadFrom returns a Config loaded from the given YAML path using the
// hierarchy: defaults < YAML < ENV. The YAML file is optional.
func LoadFrom(yamlPath string) (*Config, error) {
	cfg := Defaults()

	if err := loadYAML(&cfg, yamlPath); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	loadEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	return &cfg, nil
}

// loadYAML reads the YAML file and unmarshals it over cfg.
// Returns nil if the file does not exist.
func loadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is validated by caller
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

// loadEnv overlays environment variables onto cfg.
// Only non-empty env values override the current config.
func loadEnv(cfg *Config) {
	setString(&cfg.Server.Port, "SAASMESH_PORT")
	setString(&cfg.Metrics.Port, "SAASMESH_METRICS_PORT")
	setString(&cfg.Postgres.DSN, "DATABASE_URL")
	setInt32(&cfg.Postgres.MaxConns, "SAASMESH_PG_MAX_CONNS")
	setInt32(&cfg.Postgres.MinConns, "SAASMESH_PG_MIN_CONNS")
	setDuration(&cfg.Postgres.MaxConnLifetime, "SAASMESH_PG_MAX_CONN_LIFETIME")
	setDuration(&cfg.Postgres.MaxConnIdleTime, "SAASMESH_PG_MAX_CONN_IDLE_TIME")
	setDuration(&cfg.Postgres.HealthCheck, "SAASMESH_PG_HEALTH_CHECK")
	setString(&cfg.NATS.URL, "NATS_URL")
	setString(&cfg.Services.ProductEndpoint, "PRODUCT_ENDPOINT")
	setString(&cfg.Services.FulfillmentEndpoint, "FULFILLMENT_ENDPOINT")
	setInt(&cfg.Worker.Batch, "SAASMESH_WORKER_BATCH")
	setDuration(&cfg.Worker.Wait, "SAASMESH_WORKER_WAIT")
	setInt(&cfg.Worker.MaxIterations, "SAASMESH_WORKER_MAX_ITERATIONS")
	setString(&cfg.Vendor.Port, "TOKEN_VENDOR_ENDPOINT_PORT")
	setString(&cfg.Vendor.Secret, "TOKEN_VENDOR_SECRET")
	setDuration(&cfg.Vendor.TTL, "TOKEN_VENDOR_TTL")
	setInt(&cfg.Breaker.MaxFailures, "SAASMESH_BREAKER_MAX_FAILURES")
	setDuration(&cfg.Breaker.Timeout, "SAASMESH_BREAKER_TIMEOUT")
	setBool(&cfg.Tracing.Enabled, "SAASMESH_TRACING_ENABLED")
	setString(&cfg.Tracing.Endpoint, "OTEL_EXPORTER_OTLP_ENDPOINT")
	setString(&cfg.Logging.Level, "SAASMESH_LOG_LEVEL")
	setString(&cfg.Logging.Service, "SERVICE_NAME")
}

// validate rejects configuration no service can start with. Per-binary
// requirements (database, queue, downstream endpoints) are checked by the
// respective main, since not every service needs every section.
func validate(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.New("server port is required")
	}
	if cfg.Worker.Batch <= 0 {
		return errors.New("worker batch must be positive")
	}
	if cfg.Worker.MaxIterations <= 0 {
		return errors.New("worker max_iterations must be positive")
	}
	return nil
}

// RequireService fails startup when a named value needed by this binary is
// missing. Missing configuration is a fatal startup error, never a runtime one.
func RequireService(name, value string) error {
	if value == "" {
		return fmt.Errorf("missing required configuration: %s", name)
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt32(dst *int32, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil {
			*dst = int32(n)
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
