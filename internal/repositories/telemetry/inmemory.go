package telemetry

import (
	"context"
	"sync"

	"github.com/dmforge/encounter-api/internal/entities/encounter"
	"github.com/dmforge/encounter-api/internal/errors"
	"github.com/dmforge/encounter-api/internal/pkg/clock"
)

// InMemoryConfig holds the configuration for the in-memory repository
type InMemoryConfig struct {
	Clock clock.Clock

	// HistoryWindow caps records per bucket; 0 uses DefaultHistoryWindow
	HistoryWindow int
}

type inMemoryRepository struct {
	clock  clock.Clock
	window int

	mu      sync.RWMutex
	buckets map[string][]*encounter.TelemetryRecord
}

// NewInMemoryRepository creates a telemetry repository backed by process
// memory, for single-instance deployments and tests
func NewInMemoryRepository(cfg *InMemoryConfig) (Repository, error) {
	if cfg == nil {
		cfg = &InMemoryConfig{}
	}

	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}

	window := cfg.HistoryWindow
	if window <= 0 {
		window = DefaultHistoryWindow
	}

	return &inMemoryRepository{
		clock:   c,
		window:  window,
		buckets: make(map[string][]*encounter.TelemetryRecord),
	}, nil
}

var _ Repository = (*inMemoryRepository)(nil)

func (r *inMemoryRepository) Append(_ context.Context, input AppendInput) (*AppendOutput, error) {
	if err := validateRecord(input.Record); err != nil {
		return nil, err
	}

	record := *input.Record
	if record.Timestamp == 0 {
		record.Timestamp = r.clock.Now().Unix()
	}

	key := buildKey(record.SessionID, record.Difficulty)

	r.mu.Lock()
	defer r.mu.Unlock()

	bucket := append([]*encounter.TelemetryRecord{&record}, r.buckets[key]...)
	if len(bucket) > r.window {
		bucket = bucket[:r.window]
	}
	r.buckets[key] = bucket

	return &AppendOutput{Record: &record}, nil
}

func (r *inMemoryRepository) List(_ context.Context, input ListInput) (*ListOutput, error) {
	if input.SessionID == "" {
		return nil, errors.InvalidArgument(errSessionEmpty)
	}

	limit := input.Limit
	if limit <= 0 || limit > r.window {
		limit = r.window
	}

	key := buildKey(input.SessionID, input.Difficulty)

	r.mu.RLock()
	defer r.mu.RUnlock()

	bucket := r.buckets[key]
	if len(bucket) > limit {
		bucket = bucket[:limit]
	}

	records := make([]*encounter.TelemetryRecord, len(bucket))
	copy(records, bucket)

	return &ListOutput{Records: records}, nil
}
