package delivery

import (
	"testing"
	"time"

	"github.com/fleveque/print-quote-service/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 9, 30, 0, 0, time.UTC)
}

func TestEstimate(t *testing.T) {
	// 2026-10-22 is a Thursday.
	thursday := date(2026, time.October, 22)
	if thursday.Weekday() != time.Thursday {
		t.Fatalf("test fixture: %v is not a Thursday", thursday)
	}

	tests := []struct {
		name  string
		rush  model.RushOrder
		today time.Time
		want  time.Time
	}{
		{"24h from Thursday lands Friday", model.Rush24h, thursday, date(2026, time.October, 23)},
		{"48h from Thursday lands Saturday, moved to Monday", model.Rush48h, thursday, date(2026, time.October, 26)},
		{"72h from Thursday lands Sunday, moved to Monday", model.Rush72h, thursday, date(2026, time.October, 26)},
		{"standard from Thursday lands Sunday, moved to Monday", model.RushStandard, thursday, date(2026, time.November, 2)},
		{"standard from Monday lands Thursday", model.RushStandard, date(2026, time.October, 19), date(2026, time.October, 29)},
		{"24h from Friday lands Saturday, moved to Monday", model.Rush24h, date(2026, time.October, 23), date(2026, time.October, 26)},
		{"24h from Saturday lands Sunday, moved to Monday", model.Rush24h, date(2026, time.October, 24), date(2026, time.October, 26)},
		{"crosses a month boundary", model.Rush72h, date(2026, time.January, 29), date(2026, time.February, 2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Estimate(tt.rush, tt.today)
			if !got.Equal(tt.want) {
				t.Errorf("Estimate(%s, %s) = %s, want %s",
					tt.rush, tt.today.Format("Mon 2006-01-02"), got.Format("Mon 2006-01-02"), tt.want.Format("Mon 2006-01-02"))
			}
		})
	}
}

func TestEstimate_NeverOnWeekend(t *testing.T) {
	start := date(2026, time.March, 1)
	for i := 0; i < 14; i++ {
		today := start.AddDate(0, 0, i)
		for _, r := range model.AllRushOrders {
			got := Estimate(r, today)
			if got.Weekday() == time.Saturday || got.Weekday() == time.Sunday {
				t.Errorf("Estimate(%s, %s) landed on %s", r, today.Format("2006-01-02"), got.Weekday())
			}
		}
	}
}

func TestFormatDate(t *testing.T) {
	got := FormatDate(date(2026, time.October, 23))
	want := "sexta-feira, 23 de outubro de 2026"
	if got != want {
		t.Errorf("FormatDate = %q, want %q", got, want)
	}

	got = FormatDate(date(2027, time.March, 1))
	want = "segunda-feira, 1 de março de 2027"
	if got != want {
		t.Errorf("FormatDate = %q, want %q", got, want)
	}
}
