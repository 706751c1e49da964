// Package encounter implements the encounter domain entities.
// NOTE: These are data-only structs. Budget math, selection, and validation
// live in internal/rules; these types only carry state between components.
package encounter

// Type classifies an encounter by the kind of challenge it presents
type Type string

// Encounter types
const (
	TypeCombat      Type = "combat"
	TypeExploration Type = "exploration"
	TypeSocial      Type = "social"
)

// Types lists every valid encounter type
func Types() []string {
	return []string{string(TypeCombat), string(TypeExploration), string(TypeSocial)}
}

// Difficulty is the requested difficulty tier for an encounter
type Difficulty string

// Difficulty tiers, matching the 5e encounter-building guidance
const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
	DifficultyDeadly Difficulty = "deadly"
)

// Difficulties lists every valid difficulty tier
func Difficulties() []string {
	return []string{
		string(DifficultyEasy), string(DifficultyMedium),
		string(DifficultyHard), string(DifficultyDeadly),
	}
}

// HazardTiming describes when a hazard resolves relative to the encounter
type HazardTiming string

// Hazard timings
const (
	TimingStart   HazardTiming = "start"
	TimingEnd     HazardTiming = "end"
	TimingTrigger HazardTiming = "trigger"
)

// Timings lists every valid hazard timing
func Timings() []string {
	return []string{string(TimingStart), string(TimingEnd), string(TimingTrigger)}
}

// WorldContext carries scene descriptors the agent layer owns
type WorldContext struct {
	Biome     string `json:"biome,omitempty"`
	Region    string `json:"region,omitempty"`
	TimeOfDay string `json:"timeOfDay,omitempty"`
}

// PartyMember is one member of the party snapshot
type PartyMember struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Level int32  `json:"level"`
}

// PartySnapshot is the campaign layer's view of the current party. The core
// only reads it; it is never mutated here.
type PartySnapshot struct {
	Members []PartyMember `json:"members"`

	// DamageTypes is the party's known damage-type coverage
	DamageTypes []string `json:"damageTypes,omitempty"`

	// MagicalWeapons reports whether any member has access to a magical
	// weapon, countering the "nonmagical" immunity sentinel
	MagicalWeapons bool `json:"magicalWeapons"`
}

// Size returns the number of party members
func (p *PartySnapshot) Size() int {
	if p == nil {
		return 0
	}
	return len(p.Members)
}

// GenerationInput is a request to the encounter generator. Created fresh
// per trigger; immutable once constructed.
type GenerationInput struct {
	Type       Type           `json:"type"`
	Difficulty Difficulty     `json:"requestedDifficulty"`
	World      WorldContext   `json:"world"`
	Party      *PartySnapshot `json:"party"`

	// SessionID correlates telemetry; empty means no adjustment lookup
	SessionID string `json:"sessionId,omitempty"`
}

// Participant is one hostile roster entry in a specification
type Participant struct {
	MonsterID string `json:"monsterId"`
	Name      string `json:"name,omitempty"`
	Quantity  int32  `json:"quantity"`

	// XPEach is the per-creature challenge contribution
	XPEach int32 `json:"xpEach"`
}

// XPTotal returns the participant's total challenge contribution
func (p Participant) XPTotal() int32 {
	return p.Quantity * p.XPEach
}

// Hazard is one hazard entry in a specification
type Hazard struct {
	TemplateID string       `json:"templateId"`
	Name       string       `json:"name,omitempty"`
	SaveDC     int32        `json:"saveDC"`
	Timing     HazardTiming `json:"timing"`
	XP         int32        `json:"xp"`
}

// Specification is the generator's output: a candidate encounter. It is
// produced once and never mutated after validation begins.
type Specification struct {
	ID         string     `json:"id"`
	Type       Type       `json:"type"`
	Difficulty Difficulty `json:"difficulty"`
	SessionID  string     `json:"sessionId,omitempty"`

	Participants []Participant `json:"participants,omitempty"`
	Hazards      []Hazard      `json:"hazards,omitempty"`

	TargetXPBudget int32 `json:"targetXpBudget"`
	ActualXPBudget int32 `json:"actualXpBudget"`

	// AdjustmentFactor is the telemetry-derived multiplier applied to the
	// target budget at generation time (1.0 when no session correlation)
	AdjustmentFactor float64 `json:"adjustmentFactor"`
}

// HostileCount returns the total number of hostile creatures in the roster
func (s *Specification) HostileCount() int32 {
	var n int32
	for _, p := range s.Participants {
		n += p.Quantity
	}
	return n
}

// IssueSeverity grades a validation issue
type IssueSeverity string

// Issue severities. Warnings inform the narrative layer; errors block
// acceptance.
const (
	SeverityWarning IssueSeverity = "warning"
	SeverityError   IssueSeverity = "error"
)

// IssueCode is a machine-readable validation reason code
type IssueCode string

// Validation reason codes
const (
	IssueBudgetOutOfTolerance  IssueCode = "budget-out-of-tolerance"
	IssueHostileCountExcessive IssueCode = "hostile-count-excessive"
	IssueImmunityUncountered   IssueCode = "immunity-uncountered"
	IssueHazardDCOutOfRange    IssueCode = "hazard-dc-out-of-range"
	IssueHazardTimingInvalid   IssueCode = "hazard-timing-invalid"
)

// Issue is one validation finding
type Issue struct {
	Severity IssueSeverity `json:"severity"`
	Code     IssueCode     `json:"code"`
	Message  string        `json:"message"`
}

// ValidationResult is the validator's verdict on a specification
type ValidationResult struct {
	OK     bool    `json:"ok"`
	Issues []Issue `json:"issues"`

	// EffectiveXP is the actual budget after the generation-time
	// adjustment factor, kept for audit
	EffectiveXP int32 `json:"effectiveXp"`
}

// HasCode reports whether any issue carries the given reason code
func (r *ValidationResult) HasCode(code IssueCode) bool {
	for _, issue := range r.Issues {
		if issue.Code == code {
			return true
		}
	}
	return false
}

// Codes returns the set of reason codes present, in issue order
func (r *ValidationResult) Codes() []IssueCode {
	codes := make([]IssueCode, 0, len(r.Issues))
	seen := make(map[IssueCode]bool, len(r.Issues))
	for _, issue := range r.Issues {
		if !seen[issue.Code] {
			seen[issue.Code] = true
			codes = append(codes, issue.Code)
		}
	}
	return codes
}

// TelemetryRecord captures the outcome of a concluded encounter
type TelemetryRecord struct {
	SessionID  string     `json:"sessionId"`
	Difficulty Difficulty `json:"difficulty"`

	// ResourcesUsedEst estimates the fraction of party resources spent,
	// in [0, 1]
	ResourcesUsedEst float64 `json:"resourcesUsedEst"`

	// Timestamp is unix seconds at conclusion
	Timestamp int64 `json:"timestamp"`
}
