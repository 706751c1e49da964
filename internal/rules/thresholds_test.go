package rules_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/dmforge/encounter-api/internal/entities/encounter"
	"github.com/dmforge/encounter-api/internal/errors"
	"github.com/dmforge/encounter-api/internal/rules"
)

type ThresholdsTestSuite struct {
	suite.Suite
}

func partyOf(levels ...int32) *encounter.PartySnapshot {
	members := make([]encounter.PartyMember, len(levels))
	for i, lvl := range levels {
		members[i] = encounter.PartyMember{Level: lvl}
	}
	return &encounter.PartySnapshot{Members: members}
}

func (s *ThresholdsTestSuite) TestMediumBudgetFourLevelThree() {
	budget, err := rules.XPBudget(partyOf(3, 3, 3, 3), encounter.DifficultyMedium)
	s.Require().NoError(err)
	s.Equal(int32(600), budget)
}

func (s *ThresholdsTestSuite) TestBudgetsAcrossTiers() {
	party := partyOf(5, 5, 5, 5)

	testCases := []struct {
		difficulty encounter.Difficulty
		expected   int32
	}{
		{encounter.DifficultyEasy, 1000},
		{encounter.DifficultyMedium, 2000},
		{encounter.DifficultyHard, 3000},
		{encounter.DifficultyDeadly, 4400},
	}

	for _, tc := range testCases {
		budget, err := rules.XPBudget(party, tc.difficulty)
		s.Require().NoError(err, "difficulty %s", tc.difficulty)
		s.Equal(tc.expected, budget, "difficulty %s", tc.difficulty)
	}
}

func (s *ThresholdsTestSuite) TestMixedLevelParty() {
	budget, err := rules.XPBudget(partyOf(1, 2, 3), encounter.DifficultyHard)
	s.Require().NoError(err)
	s.Equal(int32(75+150+225), budget)
}

func (s *ThresholdsTestSuite) TestEmptyParty() {
	_, err := rules.XPBudget(&encounter.PartySnapshot{}, encounter.DifficultyMedium)
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
}

func (s *ThresholdsTestSuite) TestNilParty() {
	_, err := rules.XPBudget(nil, encounter.DifficultyMedium)
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
}

func (s *ThresholdsTestSuite) TestLevelOutOfRange() {
	_, err := rules.XPBudget(partyOf(3, 21), encounter.DifficultyMedium)
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))

	_, err = rules.XPBudget(partyOf(0), encounter.DifficultyMedium)
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
}

func (s *ThresholdsTestSuite) TestUnknownDifficulty() {
	_, err := rules.XPBudget(partyOf(3), encounter.Difficulty("impossible"))
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
}

func (s *ThresholdsTestSuite) TestClampAdjustment() {
	s.Equal(0.5, rules.ClampAdjustment(0.1))
	s.Equal(1.5, rules.ClampAdjustment(3.0))
	s.Equal(1.2, rules.ClampAdjustment(1.2))
	s.Equal(1.0, rules.ClampAdjustment(1.0))
}

func (s *ThresholdsTestSuite) TestAdjustedBudget() {
	s.Equal(int32(720), rules.AdjustedBudget(600, 1.2))
	s.Equal(int32(900), rules.AdjustedBudget(600, 2.0)) // clamped to 1.5
	s.Equal(int32(600), rules.AdjustedBudget(600, 1.0))
	s.Equal(int32(300), rules.AdjustedBudget(600, 0.25)) // clamped to 0.5
}

func TestThresholdsTestSuite(t *testing.T) {
	suite.Run(t, new(ThresholdsTestSuite))
}
