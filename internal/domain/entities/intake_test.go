package entities

import (
	"reflect"
	"testing"

	apperrors "github.com/atia-health/atia-backend/pkg/errors"
)

func TestIntakeRecord_MissingFields(t *testing.T) {
	tests := []struct {
		name   string
		record IntakeRecord
		want   []string
	}{
		{
			name:   "Complete minimal record",
			record: IntakeRecord{Nome: "Ana", Idade: "30", Sintomas: "febre"},
			want:   nil,
		},
		{
			name:   "Birthdate satisfies the age requirement",
			record: IntakeRecord{Nome: "Ana", DataNascimento: "dois de março", Sintomas: "febre"},
			want:   nil,
		},
		{
			name:   "Missing name",
			record: IntakeRecord{Idade: "30", Sintomas: "febre"},
			want:   []string{"nome"},
		},
		{
			name:   "Missing age and birthdate",
			record: IntakeRecord{Nome: "Ana", Sintomas: "febre"},
			want:   []string{"idade"},
		},
		{
			name:   "Missing symptoms",
			record: IntakeRecord{Nome: "Ana", Idade: "30"},
			want:   []string{"sintomas"},
		},
		{
			name:   "Whitespace-only values count as missing",
			record: IntakeRecord{Nome: "  ", Idade: "30", Sintomas: "\t"},
			want:   []string{"nome", "sintomas"},
		},
		{
			name:   "Everything missing",
			record: IntakeRecord{},
			want:   []string{"nome", "idade", "sintomas"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.record.MissingFields()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MissingFields() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIntakeRecord_Validate(t *testing.T) {
	complete := IntakeRecord{Nome: "Ana", Idade: "30", Sintomas: "febre"}
	if err := complete.Validate(); err != nil {
		t.Errorf("complete record should validate, got %v", err)
	}

	incomplete := IntakeRecord{Nome: "Ana"}
	err := incomplete.Validate()
	if err == nil {
		t.Fatal("incomplete record should fail validation")
	}
	if !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
		t.Errorf("expected a validation error, got %v", err)
	}
}
