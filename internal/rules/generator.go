package rules

import (
	"context"
	"log/slog"
	"math"
	"sort"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/dmforge/encounter-api/internal/entities/encounter"
	"github.com/dmforge/encounter-api/internal/errors"
	"github.com/dmforge/encounter-api/internal/pkg/idgen"
	"github.com/dmforge/encounter-api/internal/ruleset"
)

// budgetSlackFraction bounds how far greedy selection may overshoot the
// adjusted budget.
const budgetSlackFraction = 0.10

// AdjustmentSource supplies the telemetry-derived difficulty multiplier for
// a session. Implementations degrade to a neutral factor on failure.
type AdjustmentSource interface {
	GetEncounterAdjustment(ctx context.Context, sessionID string, difficulty encounter.Difficulty) (float64, error)
}

// GeneratorConfig contains the dependencies for creating a Generator
type GeneratorConfig struct {
	Loader      ruleset.Loader
	Roller      dice.Roller
	IDGenerator idgen.Generator

	// Telemetry is optional; without it every budget uses a neutral factor
	Telemetry AdjustmentSource
}

// Validate checks that all required dependencies are provided
func (c *GeneratorConfig) Validate() error {
	if c.Loader == nil {
		return errors.InvalidArgument("ruleset loader is required")
	}
	if c.Roller == nil {
		return errors.InvalidArgument("dice roller is required")
	}
	if c.IDGenerator == nil {
		return errors.InvalidArgument("id generator is required")
	}
	return nil
}

// Generator assembles candidate encounter specifications from the rule
// dataset. Safe for concurrent use.
type Generator struct {
	loader    ruleset.Loader
	roller    dice.Roller
	idGen     idgen.Generator
	telemetry AdjustmentSource
}

// NewGenerator creates a new encounter generator
func NewGenerator(cfg *GeneratorConfig) (*Generator, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Generator{
		loader:    cfg.Loader,
		roller:    cfg.Roller,
		idGen:     cfg.IDGenerator,
		telemetry: cfg.Telemetry,
	}, nil
}

// Generate assembles a candidate specification for the given input. The
// returned spec always has a non-empty roster or hazard list.
func (g *Generator) Generate(ctx context.Context, input *encounter.GenerationInput) (*encounter.Specification, error) {
	if input == nil {
		return nil, errors.InvalidArgument("generation input is required")
	}

	switch input.Type {
	case encounter.TypeCombat, encounter.TypeExploration, encounter.TypeSocial:
	default:
		return nil, errors.InvalidArgumentf("unknown encounter type %q", input.Type)
	}

	nominal, err := XPBudget(input.Party, input.Difficulty)
	if err != nil {
		return nil, err
	}

	factor := 1.0
	if input.SessionID != "" && g.telemetry != nil {
		f, err := g.telemetry.GetEncounterAdjustment(ctx, input.SessionID, input.Difficulty)
		if err != nil {
			slog.Warn("adjustment lookup failed, using neutral factor",
				"session_id", input.SessionID,
				"difficulty", input.Difficulty,
				"error", err)
		} else {
			factor = ClampAdjustment(f)
		}
	}

	target := AdjustedBudget(nominal, factor)

	spec := &encounter.Specification{
		ID:               g.idGen.Generate(),
		Type:             input.Type,
		Difficulty:       input.Difficulty,
		SessionID:        input.SessionID,
		TargetXPBudget:   target,
		AdjustmentFactor: factor,
	}

	switch input.Type {
	case encounter.TypeCombat:
		participants, err := g.selectMonsters(input.World.Biome, target)
		if err != nil {
			return nil, err
		}
		spec.Participants = participants
		for _, p := range participants {
			spec.ActualXPBudget += p.XPTotal()
		}
	case encounter.TypeExploration:
		hazards, err := g.selectHazards(input.World.Biome, target, "trap", "environment")
		if err != nil {
			return nil, err
		}
		spec.Hazards = hazards
		for _, h := range hazards {
			spec.ActualXPBudget += h.XP
		}
	case encounter.TypeSocial:
		hazards, err := g.selectHazards(input.World.Biome, target, "social")
		if err != nil {
			return nil, err
		}
		spec.Hazards = hazards
		for _, h := range hazards {
			spec.ActualXPBudget += h.XP
		}
	}

	slog.Info("encounter specification generated",
		"encounter_id", spec.ID,
		"type", spec.Type,
		"difficulty", spec.Difficulty,
		"target_xp", spec.TargetXPBudget,
		"actual_xp", spec.ActualXPBudget,
		"adjustment_factor", spec.AdjustmentFactor)

	return spec, nil
}

// selectMonsters greedily fills the budget with biome-appropriate entries,
// largest XP first. Quantities are rolled so repeated calls vary the roster.
func (g *Generator) selectMonsters(biome string, budget int32) ([]encounter.Participant, error) {
	catalog, err := g.loader.LoadMonsters()
	if err != nil {
		return nil, err
	}

	pool := make([]ruleset.MonsterEntry, 0, len(catalog))
	if biome != "" {
		for _, m := range catalog {
			if m.HasTag(biome) {
				pool = append(pool, m)
			}
		}
	}
	// An empty biome match falls back to the full catalog rather than
	// failing the planning attempt.
	if len(pool) == 0 {
		pool = append(pool, catalog...)
	}

	sortByXPDesc(pool)

	var selected []encounter.Participant
	remaining := budget
	for _, m := range pool {
		if m.XP > remaining {
			continue
		}
		maxQty := remaining / m.XP
		qty, err := g.rollQuantity(maxQty)
		if err != nil {
			return nil, err
		}
		selected = append(selected, encounter.Participant{
			MonsterID: m.ID,
			Name:      m.Name,
			Quantity:  qty,
			XPEach:    m.XP,
		})
		remaining -= qty * m.XP
		if remaining < slack(budget) {
			break
		}
	}

	if len(selected) == 0 {
		cheapest := pool[len(pool)-1]
		selected = append(selected, encounter.Participant{
			MonsterID: cheapest.ID,
			Name:      cheapest.Name,
			Quantity:  1,
			XPEach:    cheapest.XP,
		})
	}

	return selected, nil
}

// selectHazards fills the budget from templates of the given kinds, each
// used at most once, rolling a save DC inside the template's range.
func (g *Generator) selectHazards(biome string, budget int32, kinds ...string) ([]encounter.Hazard, error) {
	catalog, err := g.loader.LoadHazards()
	if err != nil {
		return nil, err
	}

	wanted := make(map[string]bool, len(kinds))
	for _, k := range kinds {
		wanted[k] = true
	}

	var kindPool []ruleset.HazardTemplate
	for _, h := range catalog {
		if wanted[h.Kind] {
			kindPool = append(kindPool, h)
		}
	}
	if len(kindPool) == 0 {
		kindPool = append(kindPool, catalog...)
	}

	pool := make([]ruleset.HazardTemplate, 0, len(kindPool))
	if biome != "" {
		for _, h := range kindPool {
			if h.HasTag(biome) {
				pool = append(pool, h)
			}
		}
	}
	if len(pool) == 0 {
		pool = append(pool, kindPool...)
	}

	sortHazardsByXPDesc(pool)

	var selected []encounter.Hazard
	remaining := budget
	for _, t := range pool {
		if t.XP > remaining {
			continue
		}
		hazard, err := g.rollHazard(t)
		if err != nil {
			return nil, err
		}
		selected = append(selected, hazard)
		remaining -= t.XP
		if remaining < slack(budget) {
			break
		}
	}

	if len(selected) == 0 {
		hazard, err := g.rollHazard(pool[len(pool)-1])
		if err != nil {
			return nil, err
		}
		selected = append(selected, hazard)
	}

	return selected, nil
}

func (g *Generator) rollHazard(t ruleset.HazardTemplate) (encounter.Hazard, error) {
	span := int(t.DCMax - t.DCMin + 1)
	n, err := g.roller.Roll(span)
	if err != nil {
		return encounter.Hazard{}, errors.Wrapf(err, "failed to roll save DC for hazard %q", t.ID)
	}
	return encounter.Hazard{
		TemplateID: t.ID,
		Name:       t.Name,
		SaveDC:     t.DCMin + int32(n) - 1,
		Timing:     t.DefaultTiming,
		XP:         t.XP,
	}, nil
}

func (g *Generator) rollQuantity(maxQty int32) (int32, error) {
	if maxQty <= 1 {
		return 1, nil
	}
	n, err := g.roller.Roll(int(maxQty))
	if err != nil {
		return 0, errors.Wrapf(err, "failed to roll participant quantity")
	}
	return int32(n), nil
}

func slack(budget int32) int32 {
	return int32(math.Round(float64(budget) * budgetSlackFraction))
}

func sortByXPDesc(pool []ruleset.MonsterEntry) {
	sort.SliceStable(pool, func(i, j int) bool {
		if pool[i].XP != pool[j].XP {
			return pool[i].XP > pool[j].XP
		}
		return pool[i].ID < pool[j].ID
	})
}

func sortHazardsByXPDesc(pool []ruleset.HazardTemplate) {
	sort.SliceStable(pool, func(i, j int) bool {
		if pool[i].XP != pool[j].XP {
			return pool[i].XP > pool[j].XP
		}
		return pool[i].ID < pool[j].ID
	})
}
