package encounter

import (
	entities "github.com/dmforge/encounter-api/internal/entities/encounter"
	"github.com/dmforge/encounter-api/internal/ruleset"
)

// Validation origins recorded on plan output
const (
	ValidatedLocally = "local"
	ValidatedByPeer  = "peer"
)

// PlanEncounterInput contains the generation request
type PlanEncounterInput struct {
	Generation *entities.GenerationInput
}

// PlanEncounterOutput contains the candidate specification and its verdict
type PlanEncounterOutput struct {
	Spec       *entities.Specification
	Validation *entities.ValidationResult

	// ValidatedBy records whether the verdict came from the local
	// validator or a peer round trip
	ValidatedBy string
}

// ConcludeEncounterInput reports the outcome of a finished encounter
type ConcludeEncounterInput struct {
	SessionID string
	Spec      *entities.Specification

	// ResourcesUsedEst estimates the fraction of party resources spent,
	// in [0, 1]
	ResourcesUsedEst float64
}

// ConcludeEncounterOutput contains the telemetry record that was reported
type ConcludeEncounterOutput struct {
	Record *entities.TelemetryRecord

	// Reported is false when the telemetry post failed and was swallowed
	Reported bool
}

// PeerValidationRequest is the payload sent to an independent validator.
// Monsters may be nil; the peer then loads its own catalog.
type PeerValidationRequest struct {
	Spec     *entities.Specification
	Party    *entities.PartySnapshot
	Monsters []ruleset.MonsterEntry
}
