package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/atia-health/atia-backend/internal/domain/entities"
)

type stubCompletion struct {
	calls      int
	lastSystem string
	lastUser   string
	answers    []string
	err        error
}

func (s *stubCompletion) Complete(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	s.lastSystem = systemPrompt
	s.lastUser = userPrompt
	if s.err != nil {
		s.calls++
		return "", s.err
	}
	answer := ""
	if s.calls < len(s.answers) {
		answer = s.answers[s.calls]
	}
	s.calls++
	return answer, nil
}

func fixedNow(t *testing.T) func() time.Time {
	t.Helper()
	return func() time.Time {
		return time.Date(2024, time.April, 1, 12, 0, 0, 0, time.UTC)
	}
}

func TestNormalizationService_ResolveBirthdate(t *testing.T) {
	completions := &stubCompletion{answers: []string{"02/03/2024"}}
	svc := NewNormalizationService(completions)
	svc.now = fixedNow(t)

	record := &entities.IntakeRecord{
		Nome:           "Bebê Silva",
		DataNascimento: "dois de março de dois mil e vinte e quatro",
		Sintomas:       "febre",
	}

	svc.Normalize(context.Background(), record)

	if record.Idade != "0 anos, 0 meses e 30 dias" {
		t.Errorf("wrong derived age: %q", record.Idade)
	}
}

func TestNormalizationService_AgeFieldWins(t *testing.T) {
	completions := &stubCompletion{answers: []string{"02/03/2024"}}
	svc := NewNormalizationService(completions)
	svc.now = fixedNow(t)

	record := &entities.IntakeRecord{
		Nome:           "Ana",
		Idade:          "30",
		DataNascimento: "dois de março",
		Sintomas:       "febre",
	}

	svc.Normalize(context.Background(), record)

	if record.Idade != "30" {
		t.Errorf("explicit age must not be overwritten, got %q", record.Idade)
	}
}

func TestNormalizationService_UnparseableBirthdateKeptAsIs(t *testing.T) {
	completions := &stubCompletion{answers: []string{"não entendi a data"}}
	svc := NewNormalizationService(completions)
	svc.now = fixedNow(t)

	record := &entities.IntakeRecord{
		Nome:           "Ana",
		DataNascimento: "murmúrio inaudível",
		Sintomas:       "febre",
	}

	svc.Normalize(context.Background(), record)

	if record.Idade != "" {
		t.Errorf("unparseable answer must leave idade empty, got %q", record.Idade)
	}
}

func TestNormalizationService_CorrectsFields(t *testing.T) {
	completions := &stubCompletion{answers: []string{
		`{"sintomas":"febre alta","comorbidades":"diabetes","medicamentos":"","alergias":"dipirona"}`,
	}}
	svc := NewNormalizationService(completions)

	record := &entities.IntakeRecord{
		Nome:         "Ana",
		Idade:        "30",
		Sintomas:     "febri auta",
		Comorbidades: "diabetis",
		Alergias:     "dipirona",
	}

	svc.Normalize(context.Background(), record)

	if record.Sintomas != "febre alta" {
		t.Errorf("sintomas not corrected: %q", record.Sintomas)
	}
	if record.Comorbidades != "diabetes" {
		t.Errorf("comorbidades not corrected: %q", record.Comorbidades)
	}
}

func TestNormalizationService_CorrectsFields_MarkdownFences(t *testing.T) {
	completions := &stubCompletion{answers: []string{
		"```json\n{\"sintomas\":\"febre\",\"comorbidades\":\"\",\"medicamentos\":\"\",\"alergias\":\"\"}\n```",
	}}
	svc := NewNormalizationService(completions)

	record := &entities.IntakeRecord{Nome: "Ana", Idade: "30", Sintomas: "febri"}

	svc.Normalize(context.Background(), record)

	if record.Sintomas != "febre" {
		t.Errorf("fenced JSON answer not applied: %q", record.Sintomas)
	}
}

func TestNormalizationService_KeySetMismatchDiscarded(t *testing.T) {
	completions := &stubCompletion{answers: []string{
		`{"sintomas":"febre","extra":"campo inventado"}`,
	}}
	svc := NewNormalizationService(completions)

	record := &entities.IntakeRecord{Nome: "Ana", Idade: "30", Sintomas: "febri auta"}

	svc.Normalize(context.Background(), record)

	if record.Sintomas != "febri auta" {
		t.Errorf("mismatched key set must be discarded, got %q", record.Sintomas)
	}
}

func TestNormalizationService_ProviderFailureKeepsRecord(t *testing.T) {
	completions := &stubCompletion{err: errors.New("provider down")}
	svc := NewNormalizationService(completions)
	svc.now = fixedNow(t)

	record := &entities.IntakeRecord{
		Nome:           "Ana",
		DataNascimento: "dois de março",
		Sintomas:       "febri auta",
	}

	svc.Normalize(context.Background(), record)

	if record.Idade != "" || record.Sintomas != "febri auta" {
		t.Errorf("provider failure must leave the record untouched: %+v", record)
	}
}

func TestNormalizationService_NoFreeTextFieldsSkipsCorrection(t *testing.T) {
	completions := &stubCompletion{answers: []string{"02/03/2024"}}
	svc := NewNormalizationService(completions)
	svc.now = fixedNow(t)

	record := &entities.IntakeRecord{Nome: "Ana", Idade: "30"}

	svc.Normalize(context.Background(), record)

	if completions.calls != 0 {
		// idade present skips the birthdate call; no free text skips correction
		t.Errorf("expected no provider calls for a bare record, got %d", completions.calls)
	}
}
