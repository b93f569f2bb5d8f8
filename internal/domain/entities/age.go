package entities

import (
	"fmt"
	"time"
)

// Age is the elapsed time since a birthdate broken into calendar components.
type Age struct {
	Years  int
	Months int
	Days   int
}

// AgeBetween derives the age at `today` for someone born at `birth`. When the
// day-of-month difference is negative it borrows the day count of the month
// preceding `today`; when the month difference then goes negative it borrows
// twelve months from the years. Borrow order is days first, then months.
func AgeBetween(birth, today time.Time) Age {
	years := today.Year() - birth.Year()
	months := int(today.Month()) - int(birth.Month())
	days := today.Day() - birth.Day()

	if days < 0 {
		// day zero resolves to the last day of the previous month
		prevMonthEnd := time.Date(today.Year(), today.Month(), 0, 0, 0, 0, 0, today.Location())
		days += prevMonthEnd.Day()
		months--
	}
	if months < 0 {
		months += 12
		years--
	}

	return Age{Years: years, Months: months, Days: days}
}

// String renders the age the way the triage prompt expects it.
func (a Age) String() string {
	return fmt.Sprintf("%d anos, %d meses e %d dias", a.Years, a.Months, a.Days)
}
