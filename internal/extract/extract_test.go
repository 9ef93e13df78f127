package extract

import (
	"errors"
	"reflect"
	"testing"
)

func fval(t *testing.T, name string, p *float64) float64 {
	t.Helper()
	if p == nil {
		t.Fatalf("%s is absent; want a value", name)
	}
	return *p
}

func TestExtractPriceAndAnnualRent(t *testing.T) {
	text := "Studio de 20 m² en centre-ville. Prix de vente : 150 000 € FAI. " +
		"Actuellement loué. Loyer annuel : 9 600 € hors charges."

	rec, err := Extract(text, nil)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if got := fval(t, "price", rec.Price); got != 150000 {
		t.Errorf("price = %v; want 150000", got)
	}
	if got := fval(t, "monthly_rent", rec.MonthlyRent); got != 800 {
		t.Errorf("monthly_rent = %v; want 800", got)
	}
	if got := fval(t, "annual_rent", rec.AnnualRent); got != 9600 {
		t.Errorf("annual_rent = %v; want 9600", got)
	}
	if got := fval(t, "gross_yield_pct", rec.GrossYieldPct); got != 6.4 {
		t.Errorf("gross_yield_pct = %v; want 6.4", got)
	}
}

func TestExtractRejectsImplausibleRent(t *testing.T) {
	// The second amount is another price mention, not a rent; it must not
	// survive as a rent and no yield may be produced.
	text := "Prix de vente : 50 000 €. Idéal investisseur, loyer 45000 € possible après travaux."

	rec, err := Extract(text, nil)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if got := fval(t, "price", rec.Price); got != 50000 {
		t.Errorf("price = %v; want 50000", got)
	}
	if rec.MonthlyRent != nil || rec.AnnualRent != nil {
		t.Errorf("rent = (%v, %v); want absent", rec.MonthlyRent, rec.AnnualRent)
	}
	if rec.GrossYieldPct != nil || rec.NetYieldPct != nil {
		t.Errorf("yields = (%v, %v); want absent", rec.GrossYieldPct, rec.NetYieldPct)
	}
}

func TestExtractChargesAndTax(t *testing.T) {
	text := "T2 lumineux, charges 80 € par mois, taxe foncière : 1200 €."

	rec, err := Extract(text, nil)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if got := fval(t, "monthly_charges", rec.MonthlyCharges); got != 80 {
		t.Errorf("monthly_charges = %v; want 80", got)
	}
	if got := fval(t, "annual_charges", rec.AnnualCharges); got != 960 {
		t.Errorf("annual_charges = %v; want 960", got)
	}
	if got := fval(t, "taxe_fonciere_annual", rec.TaxeFonciereAnnual); got != 1200 {
		t.Errorf("taxe_fonciere_annual = %v; want 1200", got)
	}
}

func TestExtractAnnualChargesAreDividedDown(t *testing.T) {
	text := "charges annuelles de copropriété : 1 440 € par an"

	rec, err := Extract(text, nil)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got := fval(t, "monthly_charges", rec.MonthlyCharges); got != 120 {
		t.Errorf("monthly_charges = %v; want 120", got)
	}
}

func TestExtractMonthlyTaxIsAnnualized(t *testing.T) {
	text := "taxe foncière 100 € par mois"

	rec, err := Extract(text, nil)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got := fval(t, "taxe_fonciere_annual", rec.TaxeFonciereAnnual); got != 1200 {
		t.Errorf("taxe_fonciere_annual = %v; want 1200", got)
	}
}

func TestExtractNetYield(t *testing.T) {
	text := "Prix de vente : 120 000 €. Loyer mensuel de 700 €, charges 50 € par mois, " +
		"taxe foncière : 900 €."

	rec, err := Extract(text, nil)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	// gross: 8400/120000 = 7%; net: (8400-600-900)/120000 = 5.75%
	if got := fval(t, "gross_yield_pct", rec.GrossYieldPct); got != 7 {
		t.Errorf("gross_yield_pct = %v; want 7", got)
	}
	if got := fval(t, "net_yield_pct", rec.NetYieldPct); got != 5.75 {
		t.Errorf("net_yield_pct = %v; want 5.75", got)
	}
}

func TestExtractPriceFallbackTakesLargestAmount(t *testing.T) {
	// No price keyword anywhere: the biggest amount above 10 000 € wins.
	text := "Frais de notaire 4 000 €. Enchère à 85 000 €, estimé 110 000 € après travaux."

	rec, err := Extract(text, nil)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got := fval(t, "price", rec.Price); got != 110000 {
		t.Errorf("price = %v; want 110000", got)
	}
}

func TestExtractStructuredPriceWins(t *testing.T) {
	price := 95000.0
	text := "Prix de vente : 150 000 €"

	rec, err := Extract(text, &Structured{Price: &price})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got := fval(t, "price", rec.Price); got != 95000 {
		t.Errorf("price = %v; want structured 95000", got)
	}
}

func TestExtractBodyIsSearchedFirst(t *testing.T) {
	// The structured body carries the rent; the rendered page does not.
	rec, err := Extract("page de navigation sans contenu utile avec prix de vente : 60 000 €",
		&Structured{Body: "Loyer mensuel de 450 € charges comprises."})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got := fval(t, "monthly_rent", rec.MonthlyRent); got != 450 {
		t.Errorf("monthly_rent = %v; want 450", got)
	}
}

func TestExtractInvalidInput(t *testing.T) {
	for _, text := range []string{"", "   \n\t ", string([]byte{0xff, 0xfe})} {
		if _, err := Extract(text, nil); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Extract(%q) err = %v; want ErrInvalidInput", text, err)
		}
	}
}

func TestExtractAbsentFieldsStayAbsent(t *testing.T) {
	rec, err := Extract("maison de campagne avec grand jardin arboré", nil)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	want := Record{}
	if !reflect.DeepEqual(rec, want) {
		t.Errorf("record = %+v; want all fields absent", rec)
	}
}

func TestExtractIsDeterministic(t *testing.T) {
	text := "Prix de vente : 150 000 €. Loyer annuel : 9 600 €. charges 80 € par mois. " +
		"taxe foncière : 1200 €."

	first, err := Extract(text, nil)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := Extract(text, nil)
		if err != nil {
			t.Fatalf("Extract: %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs: %+v vs %+v", i, first, again)
		}
	}
}
