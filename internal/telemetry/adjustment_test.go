package telemetry_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/dmforge/encounter-api/internal/entities/encounter"
	"github.com/dmforge/encounter-api/internal/rules"
	"github.com/dmforge/encounter-api/internal/telemetry"
)

type AdjustmentTestSuite struct {
	suite.Suite
}

func records(used ...float64) []*encounter.TelemetryRecord {
	// Newest first, matching the repository's list order.
	out := make([]*encounter.TelemetryRecord, len(used))
	for i, u := range used {
		out[i] = &encounter.TelemetryRecord{
			SessionID:        "s1",
			Difficulty:       encounter.DifficultyMedium,
			ResourcesUsedEst: u,
		}
	}
	return out
}

func (s *AdjustmentTestSuite) TestEmptyHistoryIsNeutral() {
	s.Equal(1.0, telemetry.ComputeAdjustment(nil))
	s.Equal(1.0, telemetry.ComputeAdjustment(records()))
}

func (s *AdjustmentTestSuite) TestCoastingPartyGetsHarderEncounters() {
	// Party consistently spends under 30% of resources.
	factor := telemetry.ComputeAdjustment(records(0.2, 0.25, 0.1, 0.2))
	s.Greater(factor, 1.0)
}

func (s *AdjustmentTestSuite) TestStrugglingPartyGetsEasierEncounters() {
	factor := telemetry.ComputeAdjustment(records(0.95, 0.9, 0.85))
	s.Less(factor, 1.0)
}

func (s *AdjustmentTestSuite) TestOnTargetPartyStaysNeutral() {
	s.InDelta(1.0, telemetry.ComputeAdjustment(records(0.5, 0.5, 0.5)), 0.001)
}

func (s *AdjustmentTestSuite) TestFactorIsClamped() {
	factor := telemetry.ComputeAdjustment(records(0.0, 0.0, 0.0))
	s.LessOrEqual(factor, rules.MaxAdjustmentFactor)

	factor = telemetry.ComputeAdjustment(records(1.0, 1.0, 1.0))
	s.GreaterOrEqual(factor, rules.MinAdjustmentFactor)
}

func (s *AdjustmentTestSuite) TestRecentOutcomesWeighMore() {
	// Same multiset of outcomes; the history ending in heavy spending
	// should produce a lower factor than the one ending in light spending.
	recentHeavy := telemetry.ComputeAdjustment(records(0.9, 0.1, 0.1))
	recentLight := telemetry.ComputeAdjustment(records(0.1, 0.1, 0.9))
	s.Less(recentHeavy, recentLight)
}

func TestAdjustmentTestSuite(t *testing.T) {
	suite.Run(t, new(AdjustmentTestSuite))
}
