package extract

import "testing"

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"4 524,92", 4524.92},
		{"4.524,92", 4524.92},
		{"4 524.92", 4524.92},
		{"1234.56", 1234.56},
		{"12,5", 12.5},
		{"3.125", 3125},   // 3 digits after the dot: thousands separator
		{"150 000", 150000},
		{"45000", 45000},
		{"1 250 000", 1250000},
		{"80", 80},
		{"9 600", 9600},
		{"1.200", 1200},
	}

	for _, tt := range tests {
		got, ok := ParseAmount(tt.raw)
		if !ok {
			t.Errorf("ParseAmount(%q) not ok; want %v", tt.raw, tt.want)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseAmount(%q) = %v; want %v", tt.raw, got, tt.want)
		}
	}
}

func TestParseAmountRejectsNonNumeric(t *testing.T) {
	for _, raw := range []string{"", "   ", "abc", "12a3", "€", "., ,"} {
		if v, ok := ParseAmount(raw); ok {
			t.Errorf("ParseAmount(%q) = %v, ok; want not ok", raw, v)
		}
	}
}

func TestAmountPatternMatchesWordForm(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"un loyer de 650 euros charges comprises", "650"},
		{"vendu 120 000 € net vendeur", "120 000"},
		{"estimation 1 500€", "1 500"},
		{"environ 90 euro", "90"},
	}

	for _, tt := range tests {
		m := amountRe.FindStringSubmatch(tt.text)
		if m == nil {
			t.Errorf("amountRe found nothing in %q", tt.text)
			continue
		}
		if m[1] != tt.want {
			t.Errorf("amountRe in %q captured %q; want %q", tt.text, m[1], tt.want)
		}
	}
}
