// Package config provides hierarchical configuration loading for the
// SaaSMesh services. Precedence: defaults < YAML file < environment variables.
package config

import "time"

// Config holds all runtime configuration. One struct serves every binary;
// each binary validates the sections it actually depends on at startup and
// treats the result as read-only afterwards.
type Config struct {
	Server   Server   `yaml:"server"`
	Metrics  Metrics  `yaml:"metrics"`
	Postgres Postgres `yaml:"postgres"`
	NATS     NATS     `yaml:"nats"`
	Services Services `yaml:"services"`
	Worker   Worker   `yaml:"worker"`
	Vendor   Vendor   `yaml:"vendor"`
	Breaker  Breaker  `yaml:"breaker"`
	Tracing  Tracing  `yaml:"tracing"`
	Logging  Logging  `yaml:"logging"`
}

// Server holds HTTP server configuration.
type Server struct {
	Port string `yaml:"port"`
}

// Metrics holds the Prometheus side-listener configuration.
type Metrics struct {
	Port string `yaml:"port"`
}

// Postgres holds PostgreSQL connection configuration.
type Postgres struct {
	DSN             string        `yaml:"dsn"`
	MaxConns        int32         `yaml:"max_conns"`
	MinConns        int32         `yaml:"min_conns"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time"`
	HealthCheck     time.Duration `yaml:"health_check"`
}

// NATS holds NATS JetStream configuration.
type NATS struct {
	URL string `yaml:"url"`
}

// Services holds downstream service addresses for cross-service calls.
type Services struct {
	ProductEndpoint     string `yaml:"product_endpoint"`
	FulfillmentEndpoint string `yaml:"fulfillment_endpoint"`
}

// Worker holds the invoice worker's polling configuration.
type Worker struct {
	Batch         int           `yaml:"batch"`          // messages fetched per poll
	Wait          time.Duration `yaml:"wait"`           // bounded wait per poll
	MaxIterations int           `yaml:"max_iterations"` // safety valve per drain pass
}

// Vendor holds the token-vendor sidecar configuration. The sidecar listens
// on loopback only; exposing it further is a deployment decision, not ours.
type Vendor struct {
	Port   string        `yaml:"port"`
	Secret string        `yaml:"secret"`
	TTL    time.Duration `yaml:"ttl"`
}

// Breaker holds circuit breaker configuration for downstream HTTP calls.
type Breaker struct {
	MaxFailures int           `yaml:"max_failures"`
	Timeout     time.Duration `yaml:"timeout"`
}

// Tracing holds OpenTelemetry exporter configuration.
type Tracing struct {
	Enabled  bool   `yaml:"enabled"`
	Endpoint string `yaml:"endpoint"`
}

// Logging holds structured logging configuration. Service tags every log
// and metric record emitted by the process.
type Logging struct {
	Level   string `yaml:"level"`
	Service string `yaml:"service"`
}

// Defaults returns the built-in configuration defaults.
func Defaults() Config {
	return Config{
		Server:  Server{Port: "8080"},
		Metrics: Metrics{Port: "9090"},
		Postgres: Postgres{
			MaxConns:        10,
			MinConns:        2,
			MaxConnLifetime: time.Hour,
			MaxConnIdleTime: 30 * time.Minute,
			HealthCheck:     time.Minute,
		},
		NATS: NATS{URL: "nats://localhost:4222"},
		Worker: Worker{
			Batch:         5,
			Wait:          20 * time.Second,
			MaxIterations: 100,
		},
		Vendor: Vendor{
			Port: "8088",
			TTL:  15 * time.Minute,
		},
		Breaker: Breaker{
			MaxFailures: 5,
			Timeout:     30 * time.Second,
		},
		Logging: Logging{Level: "info"},
	}
}
