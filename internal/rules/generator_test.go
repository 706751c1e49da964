package rules_test

import (
	"context"
	"testing"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/dmforge/encounter-api/internal/entities/encounter"
	"github.com/dmforge/encounter-api/internal/errors"
	"github.com/dmforge/encounter-api/internal/pkg/idgen"
	"github.com/dmforge/encounter-api/internal/rules"
	"github.com/dmforge/encounter-api/internal/ruleset"
	rulesetmock "github.com/dmforge/encounter-api/internal/ruleset/mock"
)

// maxRoller always rolls the highest face, making selection deterministic.
type maxRoller struct{}

func (maxRoller) Roll(size int) (int, error) { return size, nil }
func (maxRoller) RollN(n, size int) ([]int, error) {
	out := make([]int, n)
	for i := range out {
		out[i] = size
	}
	return out, nil
}

type stubAdjustment struct {
	factor float64
	err    error

	gotSessionID  string
	gotDifficulty encounter.Difficulty
}

func (s *stubAdjustment) GetEncounterAdjustment(_ context.Context, sessionID string, difficulty encounter.Difficulty) (float64, error) {
	s.gotSessionID = sessionID
	s.gotDifficulty = difficulty
	return s.factor, s.err
}

type GeneratorTestSuite struct {
	suite.Suite

	ctrl       *gomock.Controller
	mockLoader *rulesetmock.MockLoader
	ctx        context.Context

	monsters []ruleset.MonsterEntry
	hazards  []ruleset.HazardTemplate
}

func (s *GeneratorTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockLoader = rulesetmock.NewMockLoader(s.ctrl)
	s.ctx = context.Background()

	s.monsters = []ruleset.MonsterEntry{
		{ID: "goblin", Name: "Goblin", XP: 50, Tags: []string{"forest"}},
		{ID: "dire-wolf", Name: "Dire Wolf", XP: 200, Tags: []string{"forest"}},
		{ID: "ogre", Name: "Ogre", XP: 450, Tags: []string{"hills"}},
	}
	s.hazards = []ruleset.HazardTemplate{
		{ID: "pit-trap", Name: "Concealed Pit", Kind: "trap", XP: 100, DCMin: 10, DCMax: 15,
			DefaultTiming: encounter.TimingTrigger, Tags: []string{"dungeon"}},
		{ID: "rockslide", Name: "Rockslide", Kind: "environment", XP: 200, DCMin: 10, DCMax: 16,
			DefaultTiming: encounter.TimingStart, Tags: []string{"mountain"}},
		{ID: "tense-negotiation", Name: "Tense Negotiation", Kind: "social", XP: 100, DCMin: 10, DCMax: 16,
			DefaultTiming: encounter.TimingStart, Tags: []string{"urban"}},
	}
}

func (s *GeneratorTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *GeneratorTestSuite) newGenerator(telemetry rules.AdjustmentSource) *rules.Generator {
	gen, err := rules.NewGenerator(&rules.GeneratorConfig{
		Loader:      s.mockLoader,
		Roller:      maxRoller{},
		IDGenerator: idgen.NewSequential("enc"),
		Telemetry:   telemetry,
	})
	s.Require().NoError(err)
	return gen
}

func (s *GeneratorTestSuite) combatInput() *encounter.GenerationInput {
	return &encounter.GenerationInput{
		Type:       encounter.TypeCombat,
		Difficulty: encounter.DifficultyMedium,
		World:      encounter.WorldContext{Biome: "forest"},
		Party:      partyOf(3, 3, 3, 3),
	}
}

func (s *GeneratorTestSuite) TestCombatMediumForest() {
	s.mockLoader.EXPECT().LoadMonsters().Return(s.monsters, nil)
	gen := s.newGenerator(nil)

	input := s.combatInput()
	spec, err := gen.Generate(s.ctx, input)
	s.Require().NoError(err)

	s.Equal(int32(600), spec.TargetXPBudget)
	s.Equal(encounter.TypeCombat, spec.Type)
	s.Equal(1.0, spec.AdjustmentFactor)
	s.Require().NotEmpty(spec.Participants)
	s.NotEmpty(spec.ID)

	// With a max roller the dire wolf pack fills the budget exactly.
	s.Equal(int32(600), spec.ActualXPBudget)
	for _, p := range spec.Participants {
		s.NotEqual("ogre", p.MonsterID, "ogre is not a forest monster")
	}

	result := rules.Validate(spec, s.monsters, input.Party)
	s.True(result.OK)
}

func (s *GeneratorTestSuite) TestBiomeFallbackToFullCatalog() {
	s.mockLoader.EXPECT().LoadMonsters().Return(s.monsters, nil)
	gen := s.newGenerator(nil)

	input := s.combatInput()
	input.World.Biome = "desert"

	spec, err := gen.Generate(s.ctx, input)
	s.Require().NoError(err)
	s.Require().NotEmpty(spec.Participants)
	s.Equal(int32(600), spec.ActualXPBudget)
}

func (s *GeneratorTestSuite) TestBudgetBelowCheapestEntry() {
	s.mockLoader.EXPECT().LoadMonsters().Return(s.monsters, nil)
	gen := s.newGenerator(nil)

	input := &encounter.GenerationInput{
		Type:       encounter.TypeCombat,
		Difficulty: encounter.DifficultyEasy,
		Party:      partyOf(1), // budget 25, below every catalog entry
	}

	spec, err := gen.Generate(s.ctx, input)
	s.Require().NoError(err)
	s.Require().Len(spec.Participants, 1)
	s.Equal("goblin", spec.Participants[0].MonsterID)
	s.Equal(int32(1), spec.Participants[0].Quantity)
}

func (s *GeneratorTestSuite) TestEmptyPartyRejected() {
	gen := s.newGenerator(nil)

	input := s.combatInput()
	input.Party = &encounter.PartySnapshot{}

	_, err := gen.Generate(s.ctx, input)
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
}

func (s *GeneratorTestSuite) TestUnknownTypeRejected() {
	gen := s.newGenerator(nil)

	input := s.combatInput()
	input.Type = encounter.Type("heist")

	_, err := gen.Generate(s.ctx, input)
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
}

func (s *GeneratorTestSuite) TestLoaderFailurePropagates() {
	s.mockLoader.EXPECT().LoadMonsters().Return(nil, errors.DataLoss("monster catalog is missing"))
	gen := s.newGenerator(nil)

	_, err := gen.Generate(s.ctx, s.combatInput())
	s.Require().Error(err)
	s.True(errors.IsDataLoss(err))
}

func (s *GeneratorTestSuite) TestAdjustmentRaisesBudget() {
	s.mockLoader.EXPECT().LoadMonsters().Return(s.monsters, nil)
	source := &stubAdjustment{factor: 1.4}
	gen := s.newGenerator(source)

	input := s.combatInput()
	input.SessionID = "s1"

	spec, err := gen.Generate(s.ctx, input)
	s.Require().NoError(err)

	s.Equal(int32(840), spec.TargetXPBudget)
	s.Equal(1.4, spec.AdjustmentFactor)
	s.Equal("s1", source.gotSessionID)
	s.Equal(encounter.DifficultyMedium, source.gotDifficulty)
}

func (s *GeneratorTestSuite) TestAdjustmentClamped() {
	s.mockLoader.EXPECT().LoadMonsters().Return(s.monsters, nil)
	gen := s.newGenerator(&stubAdjustment{factor: 3.0})

	input := s.combatInput()
	input.SessionID = "s1"

	spec, err := gen.Generate(s.ctx, input)
	s.Require().NoError(err)
	s.Equal(1.5, spec.AdjustmentFactor)
	s.Equal(int32(900), spec.TargetXPBudget)
}

func (s *GeneratorTestSuite) TestAdjustmentFailureDegradesToNeutral() {
	s.mockLoader.EXPECT().LoadMonsters().Return(s.monsters, nil)
	gen := s.newGenerator(&stubAdjustment{err: errors.Unavailable("telemetry service down")})

	input := s.combatInput()
	input.SessionID = "s1"

	spec, err := gen.Generate(s.ctx, input)
	s.Require().NoError(err)
	s.Equal(1.0, spec.AdjustmentFactor)
	s.Equal(int32(600), spec.TargetXPBudget)
}

func (s *GeneratorTestSuite) TestNoSessionSkipsAdjustmentLookup() {
	s.mockLoader.EXPECT().LoadMonsters().Return(s.monsters, nil)
	source := &stubAdjustment{factor: 1.4}
	gen := s.newGenerator(source)

	spec, err := gen.Generate(s.ctx, s.combatInput())
	s.Require().NoError(err)
	s.Equal(1.0, spec.AdjustmentFactor)
	s.Empty(source.gotSessionID)
}

func (s *GeneratorTestSuite) TestExplorationSelectsHazards() {
	s.mockLoader.EXPECT().LoadHazards().Return(s.hazards, nil)
	gen := s.newGenerator(nil)

	input := &encounter.GenerationInput{
		Type:       encounter.TypeExploration,
		Difficulty: encounter.DifficultyMedium,
		World:      encounter.WorldContext{Biome: "mountain"},
		Party:      partyOf(3, 3, 3, 3),
	}

	spec, err := gen.Generate(s.ctx, input)
	s.Require().NoError(err)
	s.Empty(spec.Participants)
	s.Require().NotEmpty(spec.Hazards)

	hazard := spec.Hazards[0]
	s.Equal("rockslide", hazard.TemplateID)
	s.Equal(encounter.TimingStart, hazard.Timing)
	// Max roller lands on the top of the DC range.
	s.Equal(int32(16), hazard.SaveDC)
}

func (s *GeneratorTestSuite) TestSocialSelectsSocialTemplates() {
	s.mockLoader.EXPECT().LoadHazards().Return(s.hazards, nil)
	gen := s.newGenerator(nil)

	input := &encounter.GenerationInput{
		Type:       encounter.TypeSocial,
		Difficulty: encounter.DifficultyMedium,
		World:      encounter.WorldContext{Biome: "urban"},
		Party:      partyOf(3, 3, 3, 3),
	}

	spec, err := gen.Generate(s.ctx, input)
	s.Require().NoError(err)
	s.Require().NotEmpty(spec.Hazards)
	for _, h := range spec.Hazards {
		s.Equal("tense-negotiation", h.TemplateID)
	}
}

func (s *GeneratorTestSuite) TestConfigValidation() {
	_, err := rules.NewGenerator(nil)
	s.Require().Error(err)

	_, err = rules.NewGenerator(&rules.GeneratorConfig{
		Roller:      maxRoller{},
		IDGenerator: idgen.NewSequential("enc"),
	})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
}

func TestGeneratorTestSuite(t *testing.T) {
	suite.Run(t, new(GeneratorTestSuite))
}

func TestRandomDrawsMostlyWithinTolerance(t *testing.T) {
	loader := ruleset.NewEmbedded()
	monsters, err := loader.LoadMonsters()
	require.NoError(t, err)

	gen, err := rules.NewGenerator(&rules.GeneratorConfig{
		Loader:      loader,
		Roller:      dice.DefaultRoller,
		IDGenerator: idgen.NewUUID("enc"),
	})
	require.NoError(t, err)

	parties := []*encounter.PartySnapshot{
		partyOf(1, 1, 1),
		partyOf(3, 3, 3, 3),
		partyOf(5, 4, 4, 3),
		partyOf(8, 8, 7, 7, 6),
	}
	biomes := []string{"forest", "mountain", "swamp", "urban", "underdark"}

	const draws = 400
	within := 0
	for i := 0; i < draws; i++ {
		input := &encounter.GenerationInput{
			Type:       encounter.TypeCombat,
			Difficulty: encounter.DifficultyMedium,
			World:      encounter.WorldContext{Biome: biomes[i%len(biomes)]},
			Party:      parties[i%len(parties)],
		}

		spec, err := gen.Generate(context.Background(), input)
		require.NoError(t, err)

		result := rules.Validate(spec, monsters, input.Party)
		if !result.HasCode(encounter.IssueBudgetOutOfTolerance) {
			within++
		}
	}

	require.Greater(t, within, draws/2,
		"random generation should usually land inside the budget tolerance band, got %d/%d", within, draws)
}
