package rules

import (
	"fmt"
	"math"

	"github.com/dmforge/encounter-api/internal/entities/encounter"
	"github.com/dmforge/encounter-api/internal/ruleset"
)

// Validator tuning constants
const (
	// budgetAbsoluteBand is the absolute XP band that applies when it is
	// looser than the fractional tolerance
	budgetAbsoluteBand = 25

	// maxHostileCount is the action-economy ceiling before a warning
	maxHostileCount = 12

	// Save DC sanity bounds
	minSaveDC = 8
	maxSaveDC = 25
)

// Validate checks a candidate specification against party capability and
// internal consistency rules. Pure function, no I/O; both the originating
// agent and a peer validator produce identical results from the same inputs.
func Validate(spec *encounter.Specification, monsters []ruleset.MonsterEntry, party *encounter.PartySnapshot) *encounter.ValidationResult {
	result := &encounter.ValidationResult{
		Issues: []encounter.Issue{},
	}

	checkBudget(spec, result)
	checkHostileCount(spec, result)
	checkImmunities(spec, monsters, party, result)
	checkHazards(spec, result)

	result.OK = true
	for _, issue := range result.Issues {
		if issue.Severity == encounter.SeverityError {
			result.OK = false
			break
		}
	}

	factor := spec.AdjustmentFactor
	if factor == 0 {
		factor = 1.0
	}
	result.EffectiveXP = int32(math.Round(float64(spec.ActualXPBudget) * factor))

	return result
}

// checkBudget enforces the tolerance band: within 10% of target, or within
// an absolute 25 XP, whichever is looser.
func checkBudget(spec *encounter.Specification, result *encounter.ValidationResult) {
	band := int32(math.Round(float64(spec.TargetXPBudget) * 0.10))
	if band < budgetAbsoluteBand {
		band = budgetAbsoluteBand
	}

	delta := spec.ActualXPBudget - spec.TargetXPBudget
	if delta < 0 {
		delta = -delta
	}
	if delta > band {
		result.Issues = append(result.Issues, encounter.Issue{
			Severity: encounter.SeverityWarning,
			Code:     encounter.IssueBudgetOutOfTolerance,
			Message: fmt.Sprintf("actual budget %d is outside the tolerance band of target %d",
				spec.ActualXPBudget, spec.TargetXPBudget),
		})
	}
}

func checkHostileCount(spec *encounter.Specification, result *encounter.ValidationResult) {
	count := spec.HostileCount()
	if count > maxHostileCount {
		result.Issues = append(result.Issues, encounter.Issue{
			Severity: encounter.SeverityWarning,
			Code:     encounter.IssueHostileCountExcessive,
			Message:  fmt.Sprintf("%d hostiles strain the action economy (max %d before warning)", count, maxHostileCount),
		})
	}
}

// checkImmunities requires a counter for every participant that carries a
// damage immunity: a party damage type the monster is not immune to, or
// magical-weapon access for the nonmagical sentinel.
func checkImmunities(spec *encounter.Specification, monsters []ruleset.MonsterEntry, party *encounter.PartySnapshot, result *encounter.ValidationResult) {
	byID := make(map[string]*ruleset.MonsterEntry, len(monsters))
	for i := range monsters {
		byID[monsters[i].ID] = &monsters[i]
	}

	for _, participant := range spec.Participants {
		entry, ok := byID[participant.MonsterID]
		if !ok || len(entry.Immunities) == 0 {
			continue
		}
		if partyCounters(entry, party) {
			continue
		}
		result.Issues = append(result.Issues, encounter.Issue{
			Severity: encounter.SeverityWarning,
			Code:     encounter.IssueImmunityUncountered,
			Message:  fmt.Sprintf("party has no counter for %s immunities %v", entry.Name, entry.Immunities),
		})
	}
}

func partyCounters(entry *ruleset.MonsterEntry, party *encounter.PartySnapshot) bool {
	if party == nil {
		return false
	}
	nonmagical := entry.IsImmune(ruleset.ImmunityNonmagical)
	if nonmagical && party.MagicalWeapons {
		return true
	}
	for _, dt := range party.DamageTypes {
		if entry.IsImmune(dt) {
			continue
		}
		// The nonmagical sentinel blankets physical weapon damage unless
		// the party has magical weapons.
		if nonmagical && isWeaponDamage(dt) {
			continue
		}
		return true
	}
	return false
}

func isWeaponDamage(damageType string) bool {
	switch damageType {
	case "bludgeoning", "piercing", "slashing":
		return true
	default:
		return false
	}
}

func checkHazards(spec *encounter.Specification, result *encounter.ValidationResult) {
	for _, hazard := range spec.Hazards {
		if hazard.SaveDC < minSaveDC || hazard.SaveDC > maxSaveDC {
			result.Issues = append(result.Issues, encounter.Issue{
				Severity: encounter.SeverityError,
				Code:     encounter.IssueHazardDCOutOfRange,
				Message:  fmt.Sprintf("hazard %s save DC %d is outside [%d, %d]", hazard.TemplateID, hazard.SaveDC, minSaveDC, maxSaveDC),
			})
		}
		switch hazard.Timing {
		case encounter.TimingStart, encounter.TimingEnd, encounter.TimingTrigger:
		default:
			result.Issues = append(result.Issues, encounter.Issue{
				Severity: encounter.SeverityError,
				Code:     encounter.IssueHazardTimingInvalid,
				Message:  fmt.Sprintf("hazard %s timing %q is not one of %v", hazard.TemplateID, hazard.Timing, encounter.Timings()),
			})
		}
	}
}
