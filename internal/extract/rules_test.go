package extract

import "testing"

func TestMonthlyRentCascade(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
	}{
		{
			name: "annual explicit",
			text: "Loyer annuel : 9 600 € charges comprises",
			want: 800,
		},
		{
			name: "monthly explicit",
			text: "loué avec un loyer mensuel de 650 €",
			want: 650,
		},
		{
			name: "euro then par an",
			text: "loyer actuel 7 200 € par an",
			want: 600,
		},
		{
			name: "generic with annual marker in snippet",
			text: "Loyer : 6 000 € annuel hors charges",
			want: 500,
		},
		{
			name: "generic defaults to monthly",
			text: "Loyer : 480 € hors charges",
			want: 480,
		},
		{
			name: "word form euros",
			text: "loyer 550 euros charges comprises",
			want: 550,
		},
		{
			name: "recap soit par mois",
			text: "rapporte 6 000 € à l'année soit environ 500 euros par mois",
			want: 500,
		},
		{
			name: "out-of-range annual falls through to recap",
			text: "Loyer annuel : 90 000 € selon bail commercial, soit 750 euros par mois pour le studio",
			want: 750,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := monthlyRent(tt.text)
			if !ok {
				t.Fatalf("monthlyRent(%q) found nothing", tt.text)
			}
			if m.Value != tt.want {
				t.Errorf("monthlyRent(%q) = %v; want %v", tt.text, m.Value, tt.want)
			}
		})
	}
}

func TestMonthlyRentRejectsImplausibleAmounts(t *testing.T) {
	tests := []string{
		"loyer 45000 €",               // sale price mentioned next to "loyer"
		"loyer 120 € garage",          // below the monthly floor
		"loyer mensuel de 9 500 €",    // above the monthly ceiling
		"Loyer annuel : 2 000 €",      // below the annual floor
		"loyer 50 000 € par an",       // above the annual ceiling
		"loyer libre à la relocation", // no amount at all
	}

	for _, text := range tests {
		if m, ok := monthlyRent(text); ok {
			t.Errorf("monthlyRent(%q) = %v; want no value", text, m.Value)
		}
	}
}

func TestRentRuleOrderPrefersSpecificPatterns(t *testing.T) {
	// Both the annual phrase and a generic "loyer X €" are present; the
	// specific annual rule must win.
	text := "loyer annuel : 12 000 €. Un loyer 400 € serait envisageable."
	m, ok := monthlyRent(text)
	if !ok {
		t.Fatal("monthlyRent found nothing")
	}
	if m.Value != 1000 {
		t.Errorf("monthlyRent = %v; want 1000 (annual rule first)", m.Value)
	}
}
