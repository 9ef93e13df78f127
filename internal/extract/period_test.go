package extract

import "testing"

func TestDetectPeriod(t *testing.T) {
	tests := []struct {
		snippet string
		want    Period
	}{
		{"loyer 450 € par mois", PeriodMonthly},
		{"loyer 450 €/mois", PeriodMonthly},
		{"charges 60 € chaque mois", PeriodMonthly},
		{"loyer annuel de 5 400 €", PeriodAnnual},
		{"5 400 € par an", PeriodAnnual},
		{"5 400 €/an", PeriodAnnual},
		{"taxe foncière : 1 200 €", PeriodUnknown},
		{"", PeriodUnknown},
		// Both markers present: annual wins, the monthly mention is a recap.
		{"900 € par mois soit 10 800 € par an", PeriodAnnual},
		{"LOYER ANNUEL 6000", PeriodAnnual},
	}

	for _, tt := range tests {
		if got := DetectPeriod(tt.snippet); got != tt.want {
			t.Errorf("DetectPeriod(%q) = %v; want %v", tt.snippet, got, tt.want)
		}
	}
}
