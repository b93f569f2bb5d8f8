package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/atia-health/atia-backend/internal/domain/entities"
	"github.com/atia-health/atia-backend/internal/domain/providers"
	"github.com/atia-health/atia-backend/internal/infrastructure/observability"
)

const birthdateSystemPrompt = `Você converte datas de nascimento ditadas em português para o formato DD/MM/YYYY.
Responda apenas com a data no formato DD/MM/YYYY, sem nenhum outro texto.`

const correctionSystemPrompt = `Você corrige ortografia e capitalização de campos de um formulário médico em português.
Receberá um objeto JSON e deve devolver o mesmo objeto JSON com exatamente as mesmas chaves, apenas com os valores corrigidos.
Não adicione, remova ou renomeie chaves. Não adicione comentários nem texto fora do JSON.`

// NormalizationService cleans up voice-transcribed intake fields before the
// triage prompt is built. Every step is best-effort: any provider failure or
// unusable answer leaves the record exactly as it arrived.
type NormalizationService struct {
	completions providers.CompletionProvider
	now         func() time.Time
}

// NewNormalizationService creates a new normalization service
func NewNormalizationService(completions providers.CompletionProvider) *NormalizationService {
	return &NormalizationService{
		completions: completions,
		now:         time.Now,
	}
}

// Normalize mutates the record in place. It resolves a spoken birthdate into
// an age and corrects the spelling of the free-text clinical fields.
func (s *NormalizationService) Normalize(ctx context.Context, record *entities.IntakeRecord) {
	if s.completions == nil {
		return
	}
	s.resolveBirthdate(ctx, record)
	s.correctFields(ctx, record)
}

// resolveBirthdate turns a spoken birthdate utterance into a derived age. The
// age field wins when both are present, so the provider is only consulted when
// idade is empty.
func (s *NormalizationService) resolveBirthdate(ctx context.Context, record *entities.IntakeRecord) {
	if strings.TrimSpace(record.Idade) != "" || strings.TrimSpace(record.DataNascimento) == "" {
		return
	}

	logger := observability.LoggerFromContext(ctx)

	answer, err := s.completions.Complete(ctx, birthdateSystemPrompt, record.DataNascimento)
	if err != nil {
		logger.Warn().Err(err).Msg("Birthdate normalization call failed, keeping record as-is")
		return
	}

	birth, err := time.Parse("02/01/2006", strings.TrimSpace(answer))
	if err != nil {
		logger.Warn().Str("answer", answer).Msg("Birthdate answer not in DD/MM/YYYY, keeping record as-is")
		return
	}

	record.Idade = entities.AgeBetween(birth, s.now()).String()
}

// correctionFields are the free-text fields worth a spelling pass. Vitals and
// scales are numeric enough that a correction round-trip risks more than it fixes.
func correctionFields(record *entities.IntakeRecord) map[string]string {
	return map[string]string{
		"sintomas":     record.Sintomas,
		"comorbidades": record.Comorbidades,
		"medicamentos": record.Medicamentos,
		"alergias":     record.Alergias,
	}
}

func (s *NormalizationService) correctFields(ctx context.Context, record *entities.IntakeRecord) {
	fields := correctionFields(record)

	nonEmpty := 0
	for _, v := range fields {
		if strings.TrimSpace(v) != "" {
			nonEmpty++
		}
	}
	if nonEmpty == 0 {
		return
	}

	logger := observability.LoggerFromContext(ctx)

	payload, err := json.Marshal(fields)
	if err != nil {
		return
	}

	answer, err := s.completions.Complete(ctx, correctionSystemPrompt, string(payload))
	if err != nil {
		logger.Warn().Err(err).Msg("Field correction call failed, keeping record as-is")
		return
	}

	var corrected map[string]string
	if err := json.Unmarshal([]byte(stripMarkdownFences(answer)), &corrected); err != nil {
		logger.Warn().Msg("Field correction answer is not valid JSON, keeping record as-is")
		return
	}

	// key-set equality gate: anything added, dropped or renamed discards the answer
	if len(corrected) != len(fields) {
		logger.Warn().Msg("Field correction answer changed the key set, keeping record as-is")
		return
	}
	for key := range fields {
		if _, ok := corrected[key]; !ok {
			logger.Warn().Str("key", key).Msg("Field correction answer missing a key, keeping record as-is")
			return
		}
	}

	record.Sintomas = corrected["sintomas"]
	record.Comorbidades = corrected["comorbidades"]
	record.Medicamentos = corrected["medicamentos"]
	record.Alergias = corrected["alergias"]
}

// stripMarkdownFences removes a ```json ... ``` wrapper when the model adds one.
func stripMarkdownFences(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
