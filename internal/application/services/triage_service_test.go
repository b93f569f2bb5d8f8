package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/atia-health/atia-backend/internal/domain/entities"
	apperrors "github.com/atia-health/atia-backend/pkg/errors"
)

type spyEscalator struct {
	calls int
	last  *entities.TriageResult
}

func (s *spyEscalator) Notify(_ context.Context, _ *entities.IntakeRecord, result *entities.TriageResult) {
	s.calls++
	s.last = result
}

type spyDispatcher struct {
	calls  int
	report *entities.Report
}

func (s *spyDispatcher) Dispatch(_ context.Context, _ *entities.IntakeRecord, _ *entities.TriageResult) *entities.Report {
	s.calls++
	return s.report
}

func TestTriageService_Triage_Success(t *testing.T) {
	completions := &stubCompletion{answers: []string{"1. Prognóstico: quadro viral\n3. Classificação: verde"}}
	escalation := &spyEscalator{}
	reports := &spyDispatcher{report: &entities.Report{Filename: "relatorio_1.pdf"}}

	svc := NewTriageService(completions, "gpt-4o-mini", nil, escalation, reports)

	record := &entities.IntakeRecord{Nome: "Ana", Idade: "30", Sintomas: "febre"}
	outcome, err := svc.Triage(context.Background(), record)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(outcome.Diagnostico, "quadro viral") {
		t.Errorf("wrong diagnosis: %q", outcome.Diagnostico)
	}
	if outcome.Report == nil || outcome.Report.Filename != "relatorio_1.pdf" {
		t.Errorf("report not carried into outcome: %+v", outcome.Report)
	}
	if escalation.calls != 1 {
		t.Errorf("expected 1 escalation evaluation, got %d", escalation.calls)
	}
	if reports.calls != 1 {
		t.Errorf("expected 1 report dispatch, got %d", reports.calls)
	}

	for _, want := range []string{"Ana", "30", "febre"} {
		if !strings.Contains(completions.lastUser, want) {
			t.Errorf("completion prompt missing %q", want)
		}
	}
}

func TestTriageService_Triage_ValidationShortCircuits(t *testing.T) {
	completions := &stubCompletion{answers: []string{"should never be used"}}
	escalation := &spyEscalator{}
	reports := &spyDispatcher{}

	svc := NewTriageService(completions, "gpt-4o-mini", nil, escalation, reports)

	record := &entities.IntakeRecord{Nome: "Ana"}
	_, err := svc.Triage(context.Background(), record)

	if !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err.Error() == "" || !strings.Contains(err.Error(), entities.MsgIncompleteIntake) {
		t.Errorf("validation error missing message: %v", err)
	}
	if completions.calls != 0 {
		t.Errorf("completion provider must not be called, got %d calls", completions.calls)
	}
	if escalation.calls != 0 || reports.calls != 0 {
		t.Errorf("side effects must not run on validation failure")
	}
}

func TestTriageService_Triage_CompletionFailure(t *testing.T) {
	completions := &stubCompletion{err: errors.New("upstream timeout")}
	escalation := &spyEscalator{}
	reports := &spyDispatcher{}

	svc := NewTriageService(completions, "gpt-4o-mini", nil, escalation, reports)

	record := &entities.IntakeRecord{Nome: "Ana", Idade: "30", Sintomas: "febre"}
	_, err := svc.Triage(context.Background(), record)

	if !apperrors.IsType(err, apperrors.ErrorTypeExternal) {
		t.Fatalf("expected external error, got %v", err)
	}
	if escalation.calls != 0 || reports.calls != 0 {
		t.Errorf("side effects must not run when the completion call fails")
	}
}

func TestTriageService_Triage_NormalizerRunsBeforePrompt(t *testing.T) {
	completions := &stubCompletion{answers: []string{
		"02/03/2024",
		`{"sintomas":"febre","comorbidades":"","medicamentos":"","alergias":""}`,
		"diagnóstico",
	}}
	normalization := NewNormalizationService(completions)
	normalization.now = fixedNow(t)

	svc := NewTriageService(completions, "gpt-4o-mini", normalization, nil, nil)

	record := &entities.IntakeRecord{
		Nome:           "Bebê Silva",
		DataNascimento: "dois de março de dois mil e vinte e quatro",
		Sintomas:       "",
	}
	// sintomas empty: validation rejects before any provider call
	if _, err := svc.Triage(context.Background(), record); err == nil {
		t.Fatal("expected validation error")
	}

	record.Sintomas = "febre"
	outcome, err := svc.Triage(context.Background(), record)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Diagnostico == "" {
		t.Error("empty diagnosis")
	}
	if !strings.Contains(completions.lastUser, "0 anos, 0 meses e 30 dias") {
		t.Errorf("prompt should carry the derived age, got:\n%s", completions.lastUser)
	}
}

func TestTriageService_Triage_OptionalCollaboratorsNil(t *testing.T) {
	completions := &stubCompletion{answers: []string{"diagnóstico"}}
	svc := NewTriageService(completions, "gpt-4o-mini", nil, nil, nil)

	record := &entities.IntakeRecord{Nome: "Ana", Idade: "30", Sintomas: "febre"}
	outcome, err := svc.Triage(context.Background(), record)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Report != nil {
		t.Error("no dispatcher wired, report must be nil")
	}
}
