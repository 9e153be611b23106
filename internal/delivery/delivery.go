// Package delivery estimates when an order arrives for a given rush tier.
package delivery

import (
	"fmt"
	"time"

	"github.com/fleveque/print-quote-service/internal/model"
)

// LeadDays returns the calendar-day offset for a rush tier.
func LeadDays(r model.RushOrder) int {
	switch r {
	case model.RushStandard:
		return 10
	case model.Rush72h:
		return 3
	case model.Rush48h:
		return 2
	case model.Rush24h:
		return 1
	default:
		panic(fmt.Sprintf("delivery: unknown rush order %q", r))
	}
}

// Estimate adds the rush tier's lead time to today and nudges a weekend
// landing day to the following Monday. The nudge is applied once to the final
// day only; weekends crossed along the way are not counted.
func Estimate(r model.RushOrder, today time.Time) time.Time {
	d := today.AddDate(0, 0, LeadDays(r))

	switch d.Weekday() {
	case time.Sunday:
		d = d.AddDate(0, 0, 1)
	case time.Saturday:
		d = d.AddDate(0, 0, 2)
	}
	return d
}

var weekdaysPT = [...]string{
	time.Sunday:    "domingo",
	time.Monday:    "segunda-feira",
	time.Tuesday:   "terça-feira",
	time.Wednesday: "quarta-feira",
	time.Thursday:  "quinta-feira",
	time.Friday:    "sexta-feira",
	time.Saturday:  "sábado",
}

var monthsPT = [...]string{
	time.January:   "janeiro",
	time.February:  "fevereiro",
	time.March:     "março",
	time.April:     "abril",
	time.May:       "maio",
	time.June:      "junho",
	time.July:      "julho",
	time.August:    "agosto",
	time.September: "setembro",
	time.October:   "outubro",
	time.November:  "novembro",
	time.December:  "dezembro",
}

// FormatDate renders the long Brazilian Portuguese form,
// e.g. "sexta-feira, 23 de outubro de 2026".
func FormatDate(d time.Time) string {
	return fmt.Sprintf("%s, %d de %s de %d", weekdaysPT[d.Weekday()], d.Day(), monthsPT[d.Month()], d.Year())
}
