// Package encounter composes the generator, rule dataset, and validator
// into the plan/conclude surface the agent layer calls.
package encounter

import (
	"context"
	"log/slog"
	"time"

	entities "github.com/dmforge/encounter-api/internal/entities/encounter"
	"github.com/dmforge/encounter-api/internal/errors"
	"github.com/dmforge/encounter-api/internal/rules"
	"github.com/dmforge/encounter-api/internal/ruleset"
	"github.com/dmforge/encounter-api/internal/telemetry"
)

//go:generate mockgen -destination=mock/mock_service.go -package=encountermock github.com/dmforge/encounter-api/internal/orchestrators/encounter Service

// DefaultPeerTimeout bounds how long a plan waits on peer validation
// before falling back to the local validator
const DefaultPeerTimeout = 5 * time.Second

// Service handles encounter planning and conclusion
type Service interface {
	// PlanEncounter generates a candidate specification and validates it,
	// preferring the peer validator when one is configured
	PlanEncounter(ctx context.Context, input *PlanEncounterInput) (*PlanEncounterOutput, error)

	// ConcludeEncounter reports outcome telemetry. Telemetry failures are
	// logged and swallowed; conclusion never fails on them.
	ConcludeEncounter(ctx context.Context, input *ConcludeEncounterInput) (*ConcludeEncounterOutput, error)
}

// PeerValidator is an independent validation collaborator reachable over
// async messaging. It must not share memory with this orchestrator's
// validation state.
type PeerValidator interface {
	ValidateEncounter(ctx context.Context, req *PeerValidationRequest) (*entities.ValidationResult, error)
}

// Config holds the dependencies for creating an orchestrator
type Config struct {
	Loader    ruleset.Loader
	Generator *rules.Generator

	// Telemetry is optional; without it conclusions are log-only
	Telemetry telemetry.Client

	// Peer is optional; without it validation is always local
	Peer PeerValidator

	// PeerTimeout is optional; 0 uses DefaultPeerTimeout
	PeerTimeout time.Duration
}

// Validate checks that all required dependencies are provided
func (c *Config) Validate() error {
	if c.Loader == nil {
		return errors.InvalidArgument("ruleset loader is required")
	}
	if c.Generator == nil {
		return errors.InvalidArgument("generator is required")
	}
	return nil
}

type orchestrator struct {
	loader      ruleset.Loader
	generator   *rules.Generator
	telemetry   telemetry.Client
	peer        PeerValidator
	peerTimeout time.Duration
}

// NewOrchestrator creates a new encounter orchestrator
func NewOrchestrator(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	timeout := cfg.PeerTimeout
	if timeout <= 0 {
		timeout = DefaultPeerTimeout
	}

	return &orchestrator{
		loader:      cfg.Loader,
		generator:   cfg.Generator,
		telemetry:   cfg.Telemetry,
		peer:        cfg.Peer,
		peerTimeout: timeout,
	}, nil
}

var _ Service = (*orchestrator)(nil)

func (o *orchestrator) PlanEncounter(ctx context.Context, input *PlanEncounterInput) (*PlanEncounterOutput, error) {
	if input == nil || input.Generation == nil {
		return nil, errors.InvalidArgument("generation input is required")
	}

	spec, err := o.generator.Generate(ctx, input.Generation)
	if err != nil {
		return nil, err
	}

	monsters, err := o.loader.LoadMonsters()
	if err != nil {
		return nil, err
	}

	validation, validatedBy := o.validate(ctx, spec, input.Generation.Party, monsters)

	slog.Info("encounter planned",
		"encounter_id", spec.ID,
		"type", spec.Type,
		"difficulty", spec.Difficulty,
		"ok", validation.OK,
		"issues", len(validation.Issues),
		"validated_by", validatedBy)

	return &PlanEncounterOutput{
		Spec:        spec,
		Validation:  validation,
		ValidatedBy: validatedBy,
	}, nil
}

// validate prefers the peer round trip, falling back to the local validator
// on timeout or peer failure. The peer path must never stall the caller
// beyond the configured deadline.
func (o *orchestrator) validate(ctx context.Context, spec *entities.Specification, party *entities.PartySnapshot, monsters []ruleset.MonsterEntry) (*entities.ValidationResult, string) {
	if o.peer == nil {
		return rules.Validate(spec, monsters, party), ValidatedLocally
	}

	peerCtx, cancel := context.WithTimeout(ctx, o.peerTimeout)
	defer cancel()

	result, err := o.peer.ValidateEncounter(peerCtx, &PeerValidationRequest{
		Spec:     spec,
		Party:    party,
		Monsters: monsters,
	})
	if err != nil {
		slog.Warn("peer validation failed, validating locally",
			"encounter_id", spec.ID,
			"error", err)
		return rules.Validate(spec, monsters, party), ValidatedLocally
	}

	return result, ValidatedByPeer
}

func (o *orchestrator) ConcludeEncounter(ctx context.Context, input *ConcludeEncounterInput) (*ConcludeEncounterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("conclude input is required")
	}
	if input.SessionID == "" {
		return nil, errors.InvalidArgument("session ID is required")
	}
	if input.Spec == nil {
		return nil, errors.InvalidArgument("specification is required")
	}
	if input.ResourcesUsedEst < 0 || input.ResourcesUsedEst > 1 {
		return nil, errors.InvalidArgument("resources used estimate must be in [0, 1]")
	}

	record := &entities.TelemetryRecord{
		SessionID:        input.SessionID,
		Difficulty:       input.Spec.Difficulty,
		ResourcesUsedEst: input.ResourcesUsedEst,
	}

	output := &ConcludeEncounterOutput{Record: record}

	if o.telemetry == nil {
		slog.Debug("no telemetry client configured, outcome not reported",
			"session_id", input.SessionID)
		return output, nil
	}

	if err := o.telemetry.PostEncounterTelemetry(ctx, record); err != nil {
		// Telemetry is best effort; the encounter still concludes.
		slog.Error("telemetry post failed",
			"session_id", input.SessionID,
			"difficulty", record.Difficulty,
			"error", err)
		return output, nil
	}

	output.Reported = true
	return output, nil
}
