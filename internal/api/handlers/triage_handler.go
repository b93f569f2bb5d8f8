package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/atia-health/atia-backend/internal/application/services"
	"github.com/atia-health/atia-backend/internal/domain/entities"
	"github.com/atia-health/atia-backend/internal/infrastructure/observability"
	apperrors "github.com/atia-health/atia-backend/pkg/errors"
)

// msgProcessingFailure is the generic answer for any upstream failure.
const msgProcessingFailure = "Erro ao processar a solicitação."

// msgReportGenerated confirms a completed triage to the caller.
const msgReportGenerated = "Relatório gerado com sucesso!"

// TriageRunner defines the triage operation used by the handler.
type TriageRunner interface {
	Triage(ctx context.Context, record *entities.IntakeRecord) (*services.TriageOutcome, error)
}

// TriageHandler handles the intake endpoint and the liveness probe.
type TriageHandler struct {
	service TriageRunner
}

// NewTriageHandler creates a new triage handler.
func NewTriageHandler(service TriageRunner) *TriageHandler {
	return &TriageHandler{service: service}
}

type triageResponse struct {
	Diagnostico string           `json:"diagnostico"`
	Status      string           `json:"status"`
	Relatorio   *entities.Report `json:"relatorio,omitempty"`
}

// SubmitIntake handles POST /atia
func (h *TriageHandler) SubmitIntake(w http.ResponseWriter, r *http.Request) {
	var record entities.IntakeRecord
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		respondWithError(w, http.StatusBadRequest, entities.MsgIncompleteIntake)
		return
	}

	outcome, err := h.service.Triage(r.Context(), &record)
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeValidation) {
			respondWithError(w, http.StatusBadRequest, entities.MsgIncompleteIntake)
			return
		}
		observability.LoggerFromContext(r.Context()).Error().Err(err).Msg("Triage pipeline failed")
		respondWithError(w, http.StatusInternalServerError, msgProcessingFailure)
		return
	}

	respondWithJSON(w, http.StatusOK, triageResponse{
		Diagnostico: outcome.Diagnostico,
		Status:      msgReportGenerated,
		Relatorio:   outcome.Report,
	})
}

// Health handles GET /
func (h *TriageHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{
		"mensagem": "ATIA Backend rodando com sucesso!",
	})
}

// Helper functions
func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}
