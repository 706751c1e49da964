// Package config loads runtime configuration from the environment
package config

import (
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/dmforge/encounter-api/internal/errors"
)

// Config holds every runtime knob for the encounter service
type Config struct {
	// HTTPPort is the port the API server listens on
	HTTPPort int `env:"HTTP_PORT" envDefault:"8080"`

	// RedisAddr backs telemetry history; empty keeps history in memory
	RedisAddr string `env:"REDIS_ADDR"`

	// TelemetryBaseURL points at an external telemetry service; empty
	// serves adjustments from the local history store instead
	TelemetryBaseURL string `env:"TELEMETRY_BASE_URL"`

	// PeerValidation runs the rules interpreter agent and routes
	// validation through it
	PeerValidation bool `env:"PEER_VALIDATION" envDefault:"true"`

	// PeerTimeout bounds the peer validation round trip
	PeerTimeout time.Duration `env:"PEER_TIMEOUT" envDefault:"5s"`

	// TriggerCooldown is the dwell time between encounter triggers per
	// session
	TriggerCooldown time.Duration `env:"TRIGGER_COOLDOWN" envDefault:"120s"`

	// TelemetryCacheTTL bounds adjustment factor reuse within a planning
	// burst
	TelemetryCacheTTL time.Duration `env:"TELEMETRY_CACHE_TTL" envDefault:"30s"`

	// TelemetryHistoryWindow caps records kept per (session, difficulty)
	TelemetryHistoryWindow int `env:"TELEMETRY_HISTORY_WINDOW" envDefault:"10"`
}

// Load parses and validates configuration from the environment
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse environment")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the parsed configuration for nonsense values
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		vb.Fieldf("HTTP_PORT", "must be in (0, 65535], got %d", c.HTTPPort)
	}
	if c.PeerTimeout <= 0 {
		vb.Field("PEER_TIMEOUT", "must be positive")
	}
	if c.TriggerCooldown <= 0 {
		vb.Field("TRIGGER_COOLDOWN", "must be positive")
	}
	if c.TelemetryCacheTTL <= 0 {
		vb.Field("TELEMETRY_CACHE_TTL", "must be positive")
	}
	if c.TelemetryHistoryWindow <= 0 {
		vb.Field("TELEMETRY_HISTORY_WINDOW", "must be positive")
	}

	return vb.Build()
}
