// Package v1alpha1 exposes the encounter engine over a JSON HTTP surface.
// Error codes map onto HTTP statuses through the shared errors package.
package v1alpha1

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/dmforge/encounter-api/internal/agent"
	entities "github.com/dmforge/encounter-api/internal/entities/encounter"
	"github.com/dmforge/encounter-api/internal/errors"
	encounterorc "github.com/dmforge/encounter-api/internal/orchestrators/encounter"
	"github.com/dmforge/encounter-api/internal/telemetry"
)

const maxBodyBytes = 1 << 20

// HandlerConfig holds the dependencies for the API handler
type HandlerConfig struct {
	EncounterService encounterorc.Service
	Sessions         *agent.Manager

	// Telemetry is optional; without it the adjustment endpoint reports
	// the service unavailable
	Telemetry telemetry.Client
}

// Validate checks that all required dependencies are provided
func (c *HandlerConfig) Validate() error {
	if c.EncounterService == nil {
		return errors.InvalidArgument("encounter service is required")
	}
	if c.Sessions == nil {
		return errors.InvalidArgument("session manager is required")
	}
	return nil
}

// Handler serves the v1alpha1 encounter API
type Handler struct {
	service   encounterorc.Service
	sessions  *agent.Manager
	telemetry telemetry.Client
}

// NewHandler creates a new API handler
func NewHandler(cfg *HandlerConfig) (*Handler, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Handler{
		service:   cfg.EncounterService,
		sessions:  cfg.Sessions,
		telemetry: cfg.Telemetry,
	}, nil
}

// Register attaches all routes to the mux
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1alpha1/encounters/plan", h.planEncounter)
	mux.HandleFunc("POST /v1alpha1/encounters/conclude", h.concludeEncounter)
	mux.HandleFunc("POST /v1alpha1/sessions/{id}/turns", h.handleTurn)
	mux.HandleFunc("POST /v1alpha1/telemetry", h.postTelemetry)
	mux.HandleFunc("GET /v1alpha1/adjustment", h.getAdjustment)
	mux.HandleFunc("GET /healthz", h.healthz)
}

func (h *Handler) planEncounter(w http.ResponseWriter, r *http.Request) {
	var input entities.GenerationInput
	if !h.decode(w, r, &input) {
		return
	}

	out, err := h.service.PlanEncounter(r.Context(), &encounterorc.PlanEncounterInput{
		Generation: &input,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, planResponse{
		Spec:        out.Spec,
		Validation:  out.Validation,
		ValidatedBy: out.ValidatedBy,
	})
}

func (h *Handler) concludeEncounter(w http.ResponseWriter, r *http.Request) {
	var req concludeRequest
	if !h.decode(w, r, &req) {
		return
	}

	out, err := h.service.ConcludeEncounter(r.Context(), &encounterorc.ConcludeEncounterInput{
		SessionID:        req.SessionID,
		Spec:             req.Spec,
		ResourcesUsedEst: req.ResourcesUsedEst,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, concludeResponse{
		Record:   out.Record,
		Reported: out.Reported,
	})
}

func (h *Handler) handleTurn(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")

	var req turnRequest
	if !h.decode(w, r, &req) {
		return
	}

	session, err := h.sessions.Session(sessionID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	out, err := session.HandleTurn(r.Context(), &agent.TurnInput{
		Seq:    req.Seq,
		Text:   req.Text,
		Threat: req.Threat,
		World:  req.World,
		Party:  req.Party,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	resp := turnResponse{
		State:      out.State,
		Triggered:  out.Triggered,
		Superseded: out.Superseded,
	}
	if out.Triggered {
		resp.EncounterType = string(out.EncounterType)
	}
	if out.Plan != nil {
		resp.Plan = &planResponse{
			Spec:        out.Plan.Spec,
			Validation:  out.Plan.Validation,
			ValidatedBy: out.Plan.ValidatedBy,
		}
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) postTelemetry(w http.ResponseWriter, r *http.Request) {
	if h.telemetry == nil {
		h.writeError(w, errors.Unavailable("telemetry is not configured"))
		return
	}

	var record entities.TelemetryRecord
	if !h.decode(w, r, &record) {
		return
	}

	if err := h.telemetry.PostEncounterTelemetry(r.Context(), &record); err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"status": "recorded"})
}

func (h *Handler) getAdjustment(w http.ResponseWriter, r *http.Request) {
	if h.telemetry == nil {
		h.writeError(w, errors.Unavailable("telemetry is not configured"))
		return
	}

	sessionID := r.URL.Query().Get("sessionId")
	difficulty := entities.Difficulty(r.URL.Query().Get("difficulty"))

	factor, err := h.telemetry.GetEncounterAdjustment(r.Context(), sessionID, difficulty)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, adjustmentResponse{Factor: factor})
}

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	body := io.LimitReader(r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		h.writeError(w, errors.WrapWithCode(err, errors.CodeInvalidArgument, "request body is not valid JSON"))
		return false
	}
	return true
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	h.writeJSON(w, code.HTTPStatus(), errorResponse{
		Error: errorBody{
			Code:    code.String(),
			Message: errors.GetMessage(err),
		},
	})
}
