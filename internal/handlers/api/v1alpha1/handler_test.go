package v1alpha1_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/dmforge/encounter-api/internal/agent"
	entities "github.com/dmforge/encounter-api/internal/entities/encounter"
	"github.com/dmforge/encounter-api/internal/errors"
	v1alpha1 "github.com/dmforge/encounter-api/internal/handlers/api/v1alpha1"
	encounterorc "github.com/dmforge/encounter-api/internal/orchestrators/encounter"
	encountermock "github.com/dmforge/encounter-api/internal/orchestrators/encounter/mock"
	telemetrymock "github.com/dmforge/encounter-api/internal/telemetry/mock"
)

type HandlerTestSuite struct {
	suite.Suite

	ctrl          *gomock.Controller
	mockService   *encountermock.MockService
	mockTelemetry *telemetrymock.MockClient
	mux           *http.ServeMux
}

func (s *HandlerTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockService = encountermock.NewMockService(s.ctrl)
	s.mockTelemetry = telemetrymock.NewMockClient(s.ctrl)

	sessions, err := agent.NewManager(&agent.ManagerConfig{Orchestrator: s.mockService})
	s.Require().NoError(err)

	handler, err := v1alpha1.NewHandler(&v1alpha1.HandlerConfig{
		EncounterService: s.mockService,
		Sessions:         sessions,
		Telemetry:        s.mockTelemetry,
	})
	s.Require().NoError(err)

	s.mux = http.NewServeMux()
	handler.Register(s.mux)
}

func (s *HandlerTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *HandlerTestSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)
	return rec
}

func plannedOutput() *encounterorc.PlanEncounterOutput {
	return &encounterorc.PlanEncounterOutput{
		Spec: &entities.Specification{
			ID:               "enc_1",
			Type:             entities.TypeCombat,
			Difficulty:       entities.DifficultyMedium,
			TargetXPBudget:   600,
			ActualXPBudget:   600,
			AdjustmentFactor: 1.0,
			Participants: []entities.Participant{
				{MonsterID: "dire-wolf", Quantity: 3, XPEach: 200},
			},
		},
		Validation:  &entities.ValidationResult{OK: true, Issues: []entities.Issue{}, EffectiveXP: 600},
		ValidatedBy: encounterorc.ValidatedLocally,
	}
}

func (s *HandlerTestSuite) TestPlanEncounter() {
	s.mockService.EXPECT().
		PlanEncounter(gomock.Any(), gomock.Any()).
		Return(plannedOutput(), nil)

	rec := s.do(http.MethodPost, "/v1alpha1/encounters/plan", map[string]any{
		"type":                "combat",
		"requestedDifficulty": "medium",
		"world":               map[string]string{"biome": "forest"},
		"party": map[string]any{
			"members": []map[string]any{{"level": 3}, {"level": 3}},
		},
	})

	s.Equal(http.StatusOK, rec.Code)

	var resp struct {
		Spec        *entities.Specification    `json:"spec"`
		Validation  *entities.ValidationResult `json:"validation"`
		ValidatedBy string                     `json:"validatedBy"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal("enc_1", resp.Spec.ID)
	s.True(resp.Validation.OK)
	s.Equal(encounterorc.ValidatedLocally, resp.ValidatedBy)
}

func (s *HandlerTestSuite) TestPlanRejectsMalformedBody() {
	req := httptest.NewRequest(http.MethodPost, "/v1alpha1/encounters/plan", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)

	s.Equal(http.StatusBadRequest, rec.Code)

	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal("INVALID_ARGUMENT", resp.Error.Code)
}

func (s *HandlerTestSuite) TestPlanMapsServiceErrors() {
	s.mockService.EXPECT().
		PlanEncounter(gomock.Any(), gomock.Any()).
		Return(nil, errors.DataLoss("monster catalog is missing"))

	rec := s.do(http.MethodPost, "/v1alpha1/encounters/plan", map[string]any{"type": "combat"})
	s.Equal(http.StatusInternalServerError, rec.Code)
}

func (s *HandlerTestSuite) TestConcludeEncounter() {
	s.mockService.EXPECT().
		ConcludeEncounter(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, input *encounterorc.ConcludeEncounterInput) (*encounterorc.ConcludeEncounterOutput, error) {
			s.Equal("s1", input.SessionID)
			s.Equal(0.4, input.ResourcesUsedEst)
			return &encounterorc.ConcludeEncounterOutput{
				Record: &entities.TelemetryRecord{
					SessionID:        "s1",
					Difficulty:       entities.DifficultyMedium,
					ResourcesUsedEst: 0.4,
				},
				Reported: true,
			}, nil
		})

	rec := s.do(http.MethodPost, "/v1alpha1/encounters/conclude", map[string]any{
		"sessionId":        "s1",
		"spec":             map[string]any{"id": "enc_1", "difficulty": "medium"},
		"resourcesUsedEst": 0.4,
	})

	s.Equal(http.StatusOK, rec.Code)

	var resp struct {
		Reported bool `json:"reported"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.True(resp.Reported)
}

func (s *HandlerTestSuite) TestTurnTriggersEncounter() {
	s.mockService.EXPECT().
		PlanEncounter(gomock.Any(), gomock.Any()).
		Return(plannedOutput(), nil)

	rec := s.do(http.MethodPost, "/v1alpha1/sessions/s1/turns", map[string]any{
		"threat": "high",
		"world":  map[string]string{"biome": "forest"},
		"party": map[string]any{
			"members": []map[string]any{{"level": 3}, {"level": 3}},
		},
	})

	s.Equal(http.StatusOK, rec.Code)

	var resp struct {
		State         string `json:"state"`
		Triggered     bool   `json:"triggered"`
		EncounterType string `json:"encounterType"`
		Plan          *struct {
			Spec *entities.Specification `json:"spec"`
		} `json:"plan"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.True(resp.Triggered)
	s.Equal("cooldown", resp.State)
	s.Equal("combat", resp.EncounterType)
	s.Require().NotNil(resp.Plan)
	s.Equal("enc_1", resp.Plan.Spec.ID)
}

func (s *HandlerTestSuite) TestQuietTurnDoesNotTrigger() {
	rec := s.do(http.MethodPost, "/v1alpha1/sessions/s1/turns", map[string]any{
		"threat": "low",
		"text":   "The party studies the map.",
	})

	s.Equal(http.StatusOK, rec.Code)

	var resp struct {
		State     string `json:"state"`
		Triggered bool   `json:"triggered"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.False(resp.Triggered)
	s.Equal("idle", resp.State)
}

func (s *HandlerTestSuite) TestPostTelemetry() {
	s.mockTelemetry.EXPECT().
		PostEncounterTelemetry(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, record *entities.TelemetryRecord) error {
			s.Equal("s1", record.SessionID)
			s.Equal(entities.DifficultyMedium, record.Difficulty)
			s.Equal(0.4, record.ResourcesUsedEst)
			return nil
		})

	rec := s.do(http.MethodPost, "/v1alpha1/telemetry", map[string]any{
		"sessionId":        "s1",
		"difficulty":       "medium",
		"resourcesUsedEst": 0.4,
	})
	s.Equal(http.StatusOK, rec.Code)
}

func (s *HandlerTestSuite) TestGetAdjustment() {
	s.mockTelemetry.EXPECT().
		GetEncounterAdjustment(gomock.Any(), "s1", entities.DifficultyMedium).
		Return(1.25, nil)

	rec := s.do(http.MethodGet, "/v1alpha1/adjustment?sessionId=s1&difficulty=medium", nil)
	s.Equal(http.StatusOK, rec.Code)

	var resp struct {
		Factor float64 `json:"factor"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal(1.25, resp.Factor)
}

func (s *HandlerTestSuite) TestGetAdjustmentUnavailable() {
	s.mockTelemetry.EXPECT().
		GetEncounterAdjustment(gomock.Any(), "s1", entities.DifficultyMedium).
		Return(0.0, errors.Unavailable("telemetry service down"))

	rec := s.do(http.MethodGet, "/v1alpha1/adjustment?sessionId=s1&difficulty=medium", nil)
	s.Equal(http.StatusServiceUnavailable, rec.Code)
}

func (s *HandlerTestSuite) TestHealthz() {
	rec := s.do(http.MethodGet, "/healthz", nil)
	s.Equal(http.StatusOK, rec.Code)
}

func TestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}
