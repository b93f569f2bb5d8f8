package services

import (
	"context"

	"github.com/atia-health/atia-backend/internal/domain/entities"
	"github.com/atia-health/atia-backend/internal/domain/providers"
	"github.com/atia-health/atia-backend/internal/infrastructure/observability"
	apperrors "github.com/atia-health/atia-backend/pkg/errors"
)

// normalizer mutates an intake record in place before prompt construction.
type normalizer interface {
	Normalize(ctx context.Context, record *entities.IntakeRecord)
}

// escalator evaluates a triage result for the red severity classification.
type escalator interface {
	Notify(ctx context.Context, record *entities.IntakeRecord, result *entities.TriageResult)
}

// dispatcher renders and delivers the triage report.
type dispatcher interface {
	Dispatch(ctx context.Context, record *entities.IntakeRecord, result *entities.TriageResult) *entities.Report
}

// TriageOutcome is what the handler renders into the HTTP response.
type TriageOutcome struct {
	Diagnostico string
	Report      *entities.Report
}

// TriageService runs the intake pipeline: validate, normalize, build the
// prompt, call the completion provider, then the escalation and report side
// effects. Stages run sequentially; only validation and the completion call
// can fail the request.
type TriageService struct {
	completions providers.CompletionProvider
	model       string
	normalizer  normalizer
	escalation  escalator
	reports     dispatcher
}

// NewTriageService creates a new triage service. The normalizer, escalation
// and report collaborators are optional; nil skips their stage.
func NewTriageService(completions providers.CompletionProvider, model string, n normalizer, e escalator, d dispatcher) *TriageService {
	return &TriageService{
		completions: completions,
		model:       model,
		normalizer:  n,
		escalation:  e,
		reports:     d,
	}
}

// Triage processes one intake record end to end.
func (s *TriageService) Triage(ctx context.Context, record *entities.IntakeRecord) (*TriageOutcome, error) {
	ctx, span := observability.StartSpan(ctx, "TriageService.Triage")
	defer span.End()

	logger := observability.LoggerFromContext(ctx)

	if err := record.Validate(); err != nil {
		logger.Warn().Strs("faltando", record.MissingFields()).Msg("Incomplete intake rejected")
		return nil, err
	}

	if s.normalizer != nil {
		s.normalizer.Normalize(ctx, record)
	}

	answer, err := s.completions.Complete(ctx, triageSystemPrompt, buildTriageUserPrompt(record))
	if err != nil {
		logger.Error().Err(err).Msg("Triage completion call failed")
		return nil, apperrors.NewExternalError("triage completion failed", err)
	}

	result := &entities.TriageResult{
		Diagnostico: answer,
		Model:       s.model,
	}

	logger.Info().Str("paciente", record.Nome).Str("model", s.model).Msg("Triage completed")

	if s.escalation != nil {
		s.escalation.Notify(ctx, record, result)
	}

	outcome := &TriageOutcome{Diagnostico: result.Diagnostico}
	if s.reports != nil {
		outcome.Report = s.reports.Dispatch(ctx, record, result)
	}

	return outcome, nil
}
