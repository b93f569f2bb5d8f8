package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/atia-health/atia-backend/internal/domain/entities"
	"github.com/atia-health/atia-backend/internal/domain/providers"
	"github.com/atia-health/atia-backend/internal/infrastructure/observability"
)

// severityMarker is the Manchester color that triggers the voice alert.
const severityMarker = "vermelha"

// DetectEscalation reports whether the triage text carries the red severity
// classification. The scan is a case-insensitive substring check anywhere in
// the text, matching how the model is instructed to name the color.
func DetectEscalation(diagnostico string) bool {
	return strings.Contains(strings.ToLower(diagnostico), severityMarker)
}

// EscalationService places a voice alert when a triage result classifies red.
// Strictly best-effort: a failed or missing caller never affects the request.
type EscalationService struct {
	caller      providers.VoiceCaller
	alertNumber string
}

// NewEscalationService creates a new escalation service. A nil caller or empty
// alert number disables alerting; detection still runs so the outcome is logged.
func NewEscalationService(caller providers.VoiceCaller, alertNumber string) *EscalationService {
	return &EscalationService{
		caller:      caller,
		alertNumber: alertNumber,
	}
}

// Notify evaluates the triage result and, on a red classification, speaks the
// patient name plus the full triage text to the on-call number.
func (s *EscalationService) Notify(ctx context.Context, record *entities.IntakeRecord, result *entities.TriageResult) {
	if !DetectEscalation(result.Diagnostico) {
		return
	}

	logger := observability.LoggerFromContext(ctx)
	logger.Warn().Str("paciente", record.Nome).Msg("Red severity classification detected")

	if s.caller == nil || s.alertNumber == "" {
		logger.Warn().Msg("Voice alerting not configured, escalation call skipped")
		return
	}

	message := fmt.Sprintf("Alerta de emergência. Paciente %s classificado como vermelho na triagem. %s",
		record.Nome, result.Diagnostico)

	callSID, err := s.caller.PlaceCall(ctx, s.alertNumber, message)
	if err != nil {
		logger.Error().Err(err).Msg("Escalation voice call failed")
		return
	}

	logger.Info().Str("call_sid", callSID).Msg("Escalation voice call placed")
}
