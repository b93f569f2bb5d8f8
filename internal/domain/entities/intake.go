package entities

import (
	"strings"

	apperrors "github.com/atia-health/atia-backend/pkg/errors"
)

// MsgIncompleteIntake is the validation failure message returned to callers.
const MsgIncompleteIntake = "Dados incompletos. Certifique-se de enviar nome, idade e sintomas."

// IntakeRecord is the patient-submitted triage form. All fields are
// operator-entered or voice-transcribed free text; only name, age (or a
// spoken birthdate) and the symptom description are mandatory.
type IntakeRecord struct {
	Nome                    string `json:"nome"`
	Idade                   string `json:"idade"`
	DataNascimento          string `json:"dataNascimento,omitempty"`
	Sintomas                string `json:"sintomas"`
	Pressao                 string `json:"pressao,omitempty"`
	Temperatura             string `json:"temperatura,omitempty"`
	FrequenciaCardiaca      string `json:"frequenciaCardiaca,omitempty"`
	Saturacao               string `json:"saturacao,omitempty"`
	Comorbidades            string `json:"comorbidades,omitempty"`
	Medicamentos            string `json:"medicamentos,omitempty"`
	Alergias                string `json:"alergias,omitempty"`
	Cirurgias               string `json:"cirurgias,omitempty"`
	Habitos                 string `json:"habitos,omitempty"`
	HistoricoFamiliar       string `json:"historicoFamiliar,omitempty"`
	NivelConsciencia        string `json:"nivelConsciencia,omitempty"`
	EscalaDor               string `json:"escalaDor,omitempty"`
	DificuldadeRespiratoria string `json:"dificuldadeRespiratoria,omitempty"`
	SinaisChoque            string `json:"sinaisChoque,omitempty"`
	InicioSintomas          string `json:"inicioSintomas,omitempty"`
	Telefone                string `json:"telefone,omitempty"`
}

// MissingFields returns the mandatory fields absent from the record. Age is
// satisfied by either an age value or a spoken birthdate that the
// normalization stage can resolve.
func (r *IntakeRecord) MissingFields() []string {
	var missing []string
	if strings.TrimSpace(r.Nome) == "" {
		missing = append(missing, "nome")
	}
	if strings.TrimSpace(r.Idade) == "" && strings.TrimSpace(r.DataNascimento) == "" {
		missing = append(missing, "idade")
	}
	if strings.TrimSpace(r.Sintomas) == "" {
		missing = append(missing, "sintomas")
	}
	return missing
}

// Validate checks the record for completeness. It runs once at request entry;
// no downstream stage rechecks completeness.
func (r *IntakeRecord) Validate() error {
	if len(r.MissingFields()) > 0 {
		return apperrors.NewValidationError(MsgIncompleteIntake)
	}
	return nil
}
