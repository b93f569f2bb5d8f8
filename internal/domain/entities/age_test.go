package entities

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAgeBetween(t *testing.T) {
	tests := []struct {
		name  string
		birth time.Time
		today time.Time
		want  Age
	}{
		{
			name:  "Exact years",
			birth: date(1994, time.April, 1),
			today: date(2024, time.April, 1),
			want:  Age{Years: 30, Months: 0, Days: 0},
		},
		{
			name:  "Day borrow from 31-day month",
			birth: date(2024, time.March, 2),
			today: date(2024, time.April, 1),
			want:  Age{Years: 0, Months: 0, Days: 30},
		},
		{
			name:  "Day borrow from February",
			birth: date(2023, time.February, 15),
			today: date(2023, time.March, 1),
			want:  Age{Years: 0, Months: 0, Days: 14},
		},
		{
			name:  "Month borrow from years",
			birth: date(1990, time.November, 15),
			today: date(2024, time.March, 15),
			want:  Age{Years: 33, Months: 4, Days: 0},
		},
		{
			name:  "Both borrows in one derivation",
			birth: date(1990, time.December, 31),
			today: date(2024, time.January, 15),
			want:  Age{Years: 33, Months: 0, Days: 15},
		},
		{
			name:  "Newborn",
			birth: date(2024, time.April, 1),
			today: date(2024, time.April, 1),
			want:  Age{Years: 0, Months: 0, Days: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AgeBetween(tt.birth, tt.today)
			if got != tt.want {
				t.Errorf("AgeBetween() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestAge_String(t *testing.T) {
	age := Age{Years: 33, Months: 4, Days: 12}
	want := "33 anos, 4 meses e 12 dias"
	if got := age.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
