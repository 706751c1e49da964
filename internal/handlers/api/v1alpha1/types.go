package v1alpha1

import (
	"github.com/dmforge/encounter-api/internal/agent"
	entities "github.com/dmforge/encounter-api/internal/entities/encounter"
)

type planResponse struct {
	Spec        *entities.Specification    `json:"spec"`
	Validation  *entities.ValidationResult `json:"validation"`
	ValidatedBy string                     `json:"validatedBy"`
}

type concludeRequest struct {
	SessionID        string                  `json:"sessionId"`
	Spec             *entities.Specification `json:"spec"`
	ResourcesUsedEst float64                 `json:"resourcesUsedEst"`
}

type concludeResponse struct {
	Record   *entities.TelemetryRecord `json:"record"`
	Reported bool                      `json:"reported"`
}

type turnRequest struct {
	Seq    int64                   `json:"seq,omitempty"`
	Text   string                  `json:"text,omitempty"`
	Threat agent.ThreatLevel       `json:"threat,omitempty"`
	World  entities.WorldContext   `json:"world"`
	Party  *entities.PartySnapshot `json:"party"`
}

type turnResponse struct {
	State         agent.TriggerState `json:"state"`
	Triggered     bool               `json:"triggered"`
	EncounterType string             `json:"encounterType,omitempty"`
	Superseded    bool               `json:"superseded,omitempty"`
	Plan          *planResponse      `json:"plan,omitempty"`
}

type adjustmentResponse struct {
	Factor float64 `json:"factor"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}
