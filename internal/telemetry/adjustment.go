// Package telemetry records encounter outcomes and derives the difficulty
// adjustment factor that biases future XP budgets. The factor is computed
// from a bounded history window so it is testable without a live service.
package telemetry

import (
	"github.com/dmforge/encounter-api/internal/entities/encounter"
	"github.com/dmforge/encounter-api/internal/rules"
)

const (
	// ewmaAlpha weighs newer outcomes over older ones
	ewmaAlpha = 0.3

	// targetResourceUse is the resource expenditure a well-tuned encounter
	// should produce. Parties spending less get harder encounters.
	targetResourceUse = 0.5
)

// ComputeAdjustment derives a clamped adjustment factor from a telemetry
// history, newest record first. An empty history is neutral.
//
// The controller is an exponentially weighted moving average of resource
// expenditure: a party consistently under the target gets a factor above
// 1.0, a party consistently over it gets a factor below.
func ComputeAdjustment(records []*encounter.TelemetryRecord) float64 {
	if len(records) == 0 {
		return 1.0
	}

	ewma := records[len(records)-1].ResourcesUsedEst
	for i := len(records) - 2; i >= 0; i-- {
		ewma = ewmaAlpha*records[i].ResourcesUsedEst + (1-ewmaAlpha)*ewma
	}

	return rules.ClampAdjustment(1.0 + (targetResourceUse - ewma))
}
