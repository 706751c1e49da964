// Package rules holds the encounter-building math: XP budgets, the
// generator that assembles candidate specifications, and the validator that
// judges them. Everything here is deterministic given its inputs and the
// roller it is handed.
package rules

import (
	"math"

	"github.com/dmforge/encounter-api/internal/entities/encounter"
	"github.com/dmforge/encounter-api/internal/errors"
)

// Adjustment factor clamp bounds. Telemetry-derived factors outside this
// range are treated as drift and pulled back in.
const (
	MinAdjustmentFactor = 0.5
	MaxAdjustmentFactor = 1.5
)

// ClampAdjustment pulls an adjustment factor into the allowed range
func ClampAdjustment(factor float64) float64 {
	if factor < MinAdjustmentFactor {
		return MinAdjustmentFactor
	}
	if factor > MaxAdjustmentFactor {
		return MaxAdjustmentFactor
	}
	return factor
}

// xpThresholds is the per-character-level XP threshold table from the 2014
// Dungeon Master's Guide (easy, medium, hard, deadly). Indexed by level.
var xpThresholds = map[int32][4]int32{
	1:  {25, 50, 75, 100},
	2:  {50, 100, 150, 200},
	3:  {75, 150, 225, 400},
	4:  {125, 250, 375, 500},
	5:  {250, 500, 750, 1100},
	6:  {300, 600, 900, 1400},
	7:  {350, 750, 1100, 1700},
	8:  {450, 900, 1400, 2100},
	9:  {550, 1100, 1600, 2400},
	10: {600, 1200, 1900, 2800},
	11: {800, 1600, 2400, 3600},
	12: {1000, 2000, 3000, 4500},
	13: {1100, 2200, 3400, 5100},
	14: {1250, 2500, 3800, 5700},
	15: {1400, 2800, 4300, 6400},
	16: {1600, 3200, 4800, 7200},
	17: {2000, 3900, 5900, 8800},
	18: {2100, 4200, 6300, 9500},
	19: {2400, 4900, 7300, 10900},
	20: {2800, 5700, 8500, 12700},
}

func difficultyIndex(difficulty encounter.Difficulty) (int, bool) {
	switch difficulty {
	case encounter.DifficultyEasy:
		return 0, true
	case encounter.DifficultyMedium:
		return 1, true
	case encounter.DifficultyHard:
		return 2, true
	case encounter.DifficultyDeadly:
		return 3, true
	default:
		return 0, false
	}
}

// XPBudget sums the per-member threshold for the given tier across the
// party. A nil or empty party is a caller defect, as is a member level
// outside [1, 20].
func XPBudget(party *encounter.PartySnapshot, difficulty encounter.Difficulty) (int32, error) {
	idx, ok := difficultyIndex(difficulty)
	if !ok {
		return 0, errors.InvalidArgumentf("unknown difficulty %q", difficulty)
	}

	if party.Size() == 0 {
		return 0, errors.InvalidArgument("party snapshot has no members")
	}

	var budget int32
	for _, member := range party.Members {
		row, ok := xpThresholds[member.Level]
		if !ok {
			return 0, errors.InvalidArgumentf("party member level %d is outside [1, 20]", member.Level)
		}
		budget += row[idx]
	}
	return budget, nil
}

// AdjustedBudget applies a clamped adjustment factor to a nominal budget
func AdjustedBudget(nominal int32, factor float64) int32 {
	return int32(math.Round(float64(nominal) * ClampAdjustment(factor)))
}
