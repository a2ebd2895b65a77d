// Package dates holds the portal's civil-date arithmetic. All comparisons
// are done on UTC calendar days so that term checks and age derivation give
// the same answer regardless of the server's local timezone.
package dates

import (
	"strconv"
	"time"
)

// CivilDay truncates t to its UTC calendar day.
func CivilDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// Age returns full elapsed years between birthDate and now, minus one when
// the birthday has not yet occurred in the current year.
func Age(birthDate, now time.Time) int {
	b := CivilDay(birthDate)
	n := CivilDay(now)

	years := n.Year() - b.Year()
	if n.Month() < b.Month() || (n.Month() == b.Month() && n.Day() < b.Day()) {
		years--
	}
	return years
}

// OrdinalSuffix returns the English ordinal suffix for a day number:
// 1st, 2nd, 3rd, 4th ... 11th, 12th, 13th ... 21st, 22nd, 23rd, 31st.
func OrdinalSuffix(day int) string {
	if v := day % 100; v >= 11 && v <= 13 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}

// Ordinal returns the day number with its suffix attached, e.g. "21st".
func Ordinal(day int) string {
	return strconv.Itoa(day) + OrdinalSuffix(day)
}
