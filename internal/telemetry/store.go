package telemetry

import (
	"context"

	"github.com/dmforge/encounter-api/internal/entities/encounter"
	"github.com/dmforge/encounter-api/internal/errors"
	telemetryrepo "github.com/dmforge/encounter-api/internal/repositories/telemetry"
)

// StoreConfig holds the configuration for the store-backed client
type StoreConfig struct {
	Repository telemetryrepo.Repository
}

// Validate ensures all required dependencies are provided
func (c *StoreConfig) Validate() error {
	if c.Repository == nil {
		return errors.InvalidArgument("telemetry repository is required")
	}
	return nil
}

// StoreClient serves the telemetry contract from a local repository instead
// of an external service. Used when no telemetry service URL is configured.
type StoreClient struct {
	repo telemetryrepo.Repository
}

// NewStoreClient creates a telemetry client backed by a repository
func NewStoreClient(cfg *StoreConfig) (*StoreClient, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &StoreClient{repo: cfg.Repository}, nil
}

var _ Client = (*StoreClient)(nil)

// PostEncounterTelemetry appends the record to its history bucket
func (c *StoreClient) PostEncounterTelemetry(ctx context.Context, record *encounter.TelemetryRecord) error {
	_, err := c.repo.Append(ctx, telemetryrepo.AppendInput{Record: record})
	return err
}

// GetEncounterAdjustment derives the factor from the stored history window
func (c *StoreClient) GetEncounterAdjustment(ctx context.Context, sessionID string, difficulty encounter.Difficulty) (float64, error) {
	if sessionID == "" {
		return 0, errors.InvalidArgument("session ID cannot be empty")
	}

	out, err := c.repo.List(ctx, telemetryrepo.ListInput{
		SessionID:  sessionID,
		Difficulty: difficulty,
	})
	if err != nil {
		return 0, errors.WrapWithCode(err, errors.CodeUnavailable, "telemetry history unavailable")
	}

	return ComputeAdjustment(out.Records), nil
}
