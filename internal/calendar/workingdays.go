// Package calendar counts working days and fetches public holidays.
package calendar

import (
	"time"

	"github.com/alexanderramin/loadplan/internal/domain"
)

// Holidays maps a "YYYY-MM-DD" date to the holiday's name.
type Holidays map[string]string

// Contains reports whether d is a listed holiday. A nil map contains nothing.
func (h Holidays) Contains(d domain.Date) bool {
	_, ok := h[d.String()]
	return ok
}

// WorkingDays counts the weekdays in [start, end] that are neither public
// holidays (when the settings consider them) nor company holidays.
// end before start yields 0.
func WorkingDays(start, end domain.Date, holidays Holidays, settings domain.Settings) int {
	if start.IsZero() || end.IsZero() || end.Before(start) {
		return 0
	}

	count := 0
	for d := start; !d.After(end); d = d.AddDays(1) {
		switch d.Weekday() {
		case time.Saturday, time.Sunday:
			continue
		}
		if settings.ConsiderPublicHolidays && holidays.Contains(d) {
			continue
		}
		if settings.IsCompanyHoliday(d) {
			continue
		}
		count++
	}
	return count
}
