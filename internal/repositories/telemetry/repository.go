// Package telemetry provides repository interface and types for encounter
// outcome telemetry. Records are kept per (session, difficulty) bucket in a
// bounded, newest-first history window.
package telemetry

import (
	"context"

	"github.com/dmforge/encounter-api/internal/entities/encounter"
)

//go:generate mockgen -destination=mock/mock_repository.go -package=telemetrymock github.com/dmforge/encounter-api/internal/repositories/telemetry Repository

// DefaultHistoryWindow bounds how many records a bucket retains
const DefaultHistoryWindow = 10

// Repository stores and retrieves telemetry records
type Repository interface {
	// Append adds a record to its (session, difficulty) bucket, trimming
	// the bucket to the history window
	Append(ctx context.Context, input AppendInput) (*AppendOutput, error)

	// List returns up to Limit records for a bucket, newest first
	List(ctx context.Context, input ListInput) (*ListOutput, error)
}

// AppendInput contains parameters for appending a telemetry record
type AppendInput struct {
	Record *encounter.TelemetryRecord
}

// AppendOutput contains the result of appending a telemetry record
type AppendOutput struct {
	Record *encounter.TelemetryRecord
}

// ListInput contains parameters for listing telemetry records
type ListInput struct {
	SessionID  string
	Difficulty encounter.Difficulty

	// Limit caps the number of records returned; 0 means the full window
	Limit int
}

// ListOutput contains the listed telemetry records, newest first
type ListOutput struct {
	Records []*encounter.TelemetryRecord
}
