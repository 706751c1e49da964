package telemetry

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmforge/encounter-api/internal/entities/encounter"
	"github.com/dmforge/encounter-api/internal/errors"
	"github.com/dmforge/encounter-api/internal/pkg/clock"
	redisclient "github.com/dmforge/encounter-api/internal/redis"
)

const (
	// Key pattern: telemetry:{session_id}:{difficulty}
	telemetryKeyPrefix = "telemetry:"

	errRecordNil     = "record cannot be nil"
	errSessionEmpty  = "session ID cannot be empty"
	errDifficultyBad = "difficulty must be one of the known tiers"
)

// Config holds the configuration for the Redis repository
type Config struct {
	Client redisclient.Client
	Clock  clock.Clock

	// HistoryWindow caps records per bucket; 0 uses DefaultHistoryWindow
	HistoryWindow int
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c.Client == nil {
		return errors.InvalidArgument("redis client is required")
	}
	if c.Clock == nil {
		return errors.InvalidArgument("clock is required")
	}
	return nil
}

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
	window int
}

// NewRedisRepository creates a new Redis repository for telemetry records
func NewRedisRepository(cfg *Config) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	window := cfg.HistoryWindow
	if window <= 0 {
		window = DefaultHistoryWindow
	}

	return &redisRepository{
		client: cfg.Client,
		clock:  cfg.Clock,
		window: window,
	}, nil
}

var _ Repository = (*redisRepository)(nil)

// Append adds a record to its bucket and trims the bucket to the window
func (r *redisRepository) Append(ctx context.Context, input AppendInput) (*AppendOutput, error) {
	if err := validateRecord(input.Record); err != nil {
		return nil, err
	}

	record := *input.Record
	if record.Timestamp == 0 {
		record.Timestamp = r.clock.Now().Unix()
	}

	recordJSON, err := json.Marshal(&record)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal telemetry record")
	}

	key := buildKey(record.SessionID, record.Difficulty)

	pipe := r.client.TxPipeline()
	pipe.LPush(ctx, key, recordJSON)
	pipe.LTrim(ctx, key, 0, int64(r.window-1))
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to store telemetry record")
	}

	return &AppendOutput{Record: &record}, nil
}

// List returns up to Limit records for a bucket, newest first
func (r *redisRepository) List(ctx context.Context, input ListInput) (*ListOutput, error) {
	if input.SessionID == "" {
		return nil, errors.InvalidArgument(errSessionEmpty)
	}

	limit := input.Limit
	if limit <= 0 || limit > r.window {
		limit = r.window
	}

	key := buildKey(input.SessionID, input.Difficulty)
	raw, err := r.client.LRange(ctx, key, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list telemetry records")
	}

	records := make([]*encounter.TelemetryRecord, 0, len(raw))
	for _, item := range raw {
		var record encounter.TelemetryRecord
		if err := json.Unmarshal([]byte(item), &record); err != nil {
			return nil, errors.WrapWithCode(err, errors.CodeDataLoss, "telemetry record is malformed")
		}
		records = append(records, &record)
	}

	return &ListOutput{Records: records}, nil
}

func validateRecord(record *encounter.TelemetryRecord) error {
	if record == nil {
		return errors.InvalidArgument(errRecordNil)
	}
	if record.SessionID == "" {
		return errors.InvalidArgument(errSessionEmpty)
	}
	switch record.Difficulty {
	case encounter.DifficultyEasy, encounter.DifficultyMedium,
		encounter.DifficultyHard, encounter.DifficultyDeadly:
	default:
		return errors.InvalidArgument(errDifficultyBad)
	}
	if record.ResourcesUsedEst < 0 || record.ResourcesUsedEst > 1 {
		return errors.InvalidArgument("resources used estimate must be in [0, 1]")
	}
	return nil
}

func buildKey(sessionID string, difficulty encounter.Difficulty) string {
	return fmt.Sprintf("%s%s:%s", telemetryKeyPrefix, sessionID, difficulty)
}
