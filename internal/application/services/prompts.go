package services

import (
	"fmt"
	"strings"

	"github.com/atia-health/atia-backend/internal/domain/entities"
)

// triageSystemPrompt fixes the assistant persona and the answer format. The
// escalation scan depends on the model naming the Manchester color, so the
// format instructions always ask for it explicitly.
const triageSystemPrompt = `Você é a ATIA, uma Assistente de Triagem Médica Inteligente.
Seu objetivo é avaliar os sintomas relatados e fornecer um prognóstico baseado no Protocolo de Manchester.

Responda exatamente no seguinte formato:
1. Prognóstico: [descreva o que pode estar acontecendo]
2. Especialidade Médica Recomendável: [médico indicado]
3. Classificação no Protocolo de Manchester: [cor correspondente e tempo máximo de espera]
4. Exames Recomendados: [exames iniciais apropriados, se houver]`

// fieldLabels pairs each intake attribute with the label used in the prompt.
// Order is fixed so the rendered prompt is byte-identical for identical input.
var fieldLabels = []struct {
	label string
	value func(*entities.IntakeRecord) string
}{
	{"Nome", func(r *entities.IntakeRecord) string { return r.Nome }},
	{"Idade", func(r *entities.IntakeRecord) string { return r.Idade }},
	{"Sintomas", func(r *entities.IntakeRecord) string { return r.Sintomas }},
	{"Pressão Arterial", func(r *entities.IntakeRecord) string { return r.Pressao }},
	{"Temperatura", func(r *entities.IntakeRecord) string { return r.Temperatura }},
	{"Frequência Cardíaca", func(r *entities.IntakeRecord) string { return r.FrequenciaCardiaca }},
	{"Saturação de Oxigênio", func(r *entities.IntakeRecord) string { return r.Saturacao }},
	{"Comorbidades", func(r *entities.IntakeRecord) string { return r.Comorbidades }},
	{"Medicamentos em Uso", func(r *entities.IntakeRecord) string { return r.Medicamentos }},
	{"Alergias", func(r *entities.IntakeRecord) string { return r.Alergias }},
	{"Cirurgias Prévias", func(r *entities.IntakeRecord) string { return r.Cirurgias }},
	{"Hábitos", func(r *entities.IntakeRecord) string { return r.Habitos }},
	{"Histórico Familiar", func(r *entities.IntakeRecord) string { return r.HistoricoFamiliar }},
	{"Nível de Consciência", func(r *entities.IntakeRecord) string { return r.NivelConsciencia }},
	{"Escala de Dor (0-10)", func(r *entities.IntakeRecord) string { return r.EscalaDor }},
	{"Dificuldade Respiratória", func(r *entities.IntakeRecord) string { return r.DificuldadeRespiratoria }},
	{"Sinais de Choque", func(r *entities.IntakeRecord) string { return r.SinaisChoque }},
	{"Início dos Sintomas", func(r *entities.IntakeRecord) string { return r.InicioSintomas }},
}

// buildTriageUserPrompt renders the patient attributes into the fixed
// template. Pure function: identical records produce identical text.
func buildTriageUserPrompt(record *entities.IntakeRecord) string {
	var b strings.Builder
	b.WriteString("Informações do paciente:\n")
	for _, f := range fieldLabels {
		value := f.value(record)
		if strings.TrimSpace(value) == "" {
			value = "não informado"
		}
		fmt.Fprintf(&b, "- %s: %s\n", f.label, value)
	}
	b.WriteString("\nCom base nesses dados, forneça o prognóstico inicial e recomende a especialidade médica apropriada.")
	return b.String()
}
