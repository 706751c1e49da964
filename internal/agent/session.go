package agent

import (
	"context"
	"log/slog"
	"regexp"
	"sync"
	"time"

	entities "github.com/dmforge/encounter-api/internal/entities/encounter"
	"github.com/dmforge/encounter-api/internal/errors"
	encounterorc "github.com/dmforge/encounter-api/internal/orchestrators/encounter"
	"github.com/dmforge/encounter-api/internal/pkg/clock"
)

// DefaultCooldown is the dwell time after a trigger during which further
// pacing signals are suppressed
const DefaultCooldown = 120 * time.Second

// TriggerState is the trigger hook's current state
type TriggerState string

// Trigger states. The triggered state is transient; a turn enters and
// leaves it within one HandleTurn call.
const (
	StateIdle     TriggerState = "idle"
	StateCooldown TriggerState = "cooldown"
)

// ThreatLevel is the scene's pacing signal supplied by the narrative layer
type ThreatLevel string

// Threat levels
const (
	ThreatNone   ThreatLevel = "none"
	ThreatLow    ThreatLevel = "low"
	ThreatMedium ThreatLevel = "medium"
	ThreatHigh   ThreatLevel = "high"
)

// restPattern matches short/long rest phrasing in the turn text
var restPattern = regexp.MustCompile(`(?i)\b(short|long)\s+rest\b`)

// TurnInput carries one conversational turn's pacing signals
type TurnInput struct {
	// Seq is the turn sequence number; 0 lets the session assign one
	Seq int64

	Text   string
	Threat ThreatLevel

	World entities.WorldContext
	Party *entities.PartySnapshot
}

// TurnOutput reports what the trigger hook did with the turn
type TurnOutput struct {
	State     TriggerState
	Triggered bool

	// EncounterType is set when the turn triggered planning
	EncounterType entities.Type

	// Plan is the validated specification for the narrative layer; nil
	// when nothing triggered, planning failed, or the turn went stale
	Plan *encounterorc.PlanEncounterOutput

	// Superseded is true when a newer turn arrived while planning was in
	// flight, so the result was discarded
	Superseded bool
}

// SessionConfig holds the dependencies for one conversational session
type SessionConfig struct {
	SessionID    string
	Orchestrator encounterorc.Service

	// Clock is optional; the real clock is used when nil
	Clock clock.Clock

	// Cooldown is optional; 0 uses DefaultCooldown
	Cooldown time.Duration
}

// Validate checks that all required dependencies are provided
func (c *SessionConfig) Validate() error {
	if c.SessionID == "" {
		return errors.InvalidArgument("session ID is required")
	}
	if c.Orchestrator == nil {
		return errors.InvalidArgument("orchestrator is required")
	}
	return nil
}

// Session owns the trigger state for one conversation. The (state, last
// trigger) pair is scoped here so concurrent sessions cannot interfere with
// each other's cooldowns.
type Session struct {
	id           string
	orchestrator encounterorc.Service
	clock        clock.Clock
	cooldown     time.Duration

	mu          sync.Mutex
	state       TriggerState
	lastTrigger time.Time
	turnSeq     int64
	lastPlan    *encounterorc.PlanEncounterOutput
}

// NewSession creates the trigger hook for one conversational session
func NewSession(cfg *SessionConfig) (*Session, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}

	cooldown := cfg.Cooldown
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}

	return &Session{
		id:           cfg.SessionID,
		orchestrator: cfg.Orchestrator,
		clock:        c,
		cooldown:     cooldown,
		state:        StateIdle,
	}, nil
}

// State returns the hook's current state, accounting for cooldown expiry
func (s *Session) State() TriggerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentStateLocked()
}

// LastPlan returns the most recent validated plan attached to this session
func (s *Session) LastPlan() *encounterorc.PlanEncounterOutput {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastPlan
}

// HandleTurn evaluates one turn's pacing signals. At most one planning
// invocation happens per cooldown window; orchestrator failures are logged
// and surface as "nothing triggered" so the narrative flow continues.
func (s *Session) HandleTurn(ctx context.Context, input *TurnInput) (*TurnOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("turn input is required")
	}

	s.mu.Lock()

	seq := input.Seq
	if seq == 0 {
		seq = s.turnSeq + 1
	}
	// A replayed older turn must not rewind the counter; otherwise an
	// in-flight plan for a superseded turn could pass the staleness check.
	if seq > s.turnSeq {
		s.turnSeq = seq
	}

	state := s.currentStateLocked()
	if state == StateCooldown {
		s.mu.Unlock()
		return &TurnOutput{State: StateCooldown}, nil
	}

	encounterType, ok := classifyTurn(input)
	if !ok {
		s.mu.Unlock()
		return &TurnOutput{State: StateIdle}, nil
	}

	// Reserve the cooldown window before releasing the lock so concurrent
	// qualifying turns cannot double-trigger.
	s.state = StateCooldown
	s.lastTrigger = s.clock.Now()
	s.mu.Unlock()

	plan, err := s.orchestrator.PlanEncounter(ctx, &encounterorc.PlanEncounterInput{
		Generation: &entities.GenerationInput{
			Type:       encounterType,
			Difficulty: entities.DifficultyMedium,
			World:      input.World,
			Party:      input.Party,
			SessionID:  s.id,
		},
	})

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		// No cooldown after a failed attempt; the next qualifying turn
		// may retry immediately.
		slog.Warn("encounter planning failed, no encounter this turn",
			"session_id", s.id,
			"type", encounterType,
			"error", err)
		s.state = StateIdle
		s.lastTrigger = time.Time{}
		return &TurnOutput{State: StateIdle}, nil
	}

	if s.turnSeq != seq {
		// A newer turn superseded this one while planning was in flight.
		slog.Info("discarding stale encounter plan",
			"session_id", s.id,
			"planned_for_turn", seq,
			"current_turn", s.turnSeq)
		return &TurnOutput{
			State:         StateCooldown,
			Triggered:     true,
			EncounterType: encounterType,
			Superseded:    true,
		}, nil
	}

	s.lastPlan = plan

	return &TurnOutput{
		State:         StateCooldown,
		Triggered:     true,
		EncounterType: encounterType,
		Plan:          plan,
	}, nil
}

func (s *Session) currentStateLocked() TriggerState {
	if s.state == StateCooldown && s.clock.Now().Sub(s.lastTrigger) >= s.cooldown {
		s.state = StateIdle
	}
	return s.state
}

// classifyTurn maps pacing signals to an encounter type: threat escalation
// triggers combat, rest completion triggers exploration.
func classifyTurn(input *TurnInput) (entities.Type, bool) {
	if input.Threat == ThreatMedium || input.Threat == ThreatHigh {
		return entities.TypeCombat, true
	}
	if restPattern.MatchString(input.Text) {
		return entities.TypeExploration, true
	}
	return "", false
}
