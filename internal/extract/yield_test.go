package extract

import "testing"

func f(v float64) *float64 { return &v }

func TestFinalizeDerivesAnnualFigures(t *testing.T) {
	rec := Record{MonthlyRent: f(833.33), MonthlyCharges: f(45)}
	finalize(&rec)

	if rec.AnnualRent == nil || *rec.AnnualRent != 9999.96 {
		t.Errorf("annual_rent = %v; want 9999.96", rec.AnnualRent)
	}
	if rec.AnnualCharges == nil || *rec.AnnualCharges != 540 {
		t.Errorf("annual_charges = %v; want 540", rec.AnnualCharges)
	}
	if rec.GrossYieldPct != nil {
		t.Errorf("gross_yield_pct = %v; want absent without a price", *rec.GrossYieldPct)
	}
}

func TestFinalizeComputesYields(t *testing.T) {
	rec := Record{
		Price:              f(150000),
		MonthlyRent:        f(800),
		MonthlyCharges:     f(80),
		TaxeFonciereAnnual: f(1200),
	}
	finalize(&rec)

	if rec.GrossYieldPct == nil || *rec.GrossYieldPct != 6.4 {
		t.Errorf("gross_yield_pct = %v; want 6.4", rec.GrossYieldPct)
	}
	// (9600 - 960 - 1200) / 150000 * 100 = 4.96
	if rec.NetYieldPct == nil || *rec.NetYieldPct != 4.96 {
		t.Errorf("net_yield_pct = %v; want 4.96", rec.NetYieldPct)
	}
}

func TestFinalizeRejectsYieldAboveCap(t *testing.T) {
	// 900 €/month on a 50 000 € property: 21.6% gross, over the 20% cap.
	// The rent detection is treated as failed, not capped.
	rec := Record{Price: f(50000), MonthlyRent: f(900), TaxeFonciereAnnual: f(600)}
	finalize(&rec)

	if rec.MonthlyRent != nil || rec.AnnualRent != nil {
		t.Errorf("rent = (%v, %v); want absent after rejection", rec.MonthlyRent, rec.AnnualRent)
	}
	if rec.GrossYieldPct != nil || rec.NetYieldPct != nil {
		t.Errorf("yields = (%v, %v); want absent after rejection", rec.GrossYieldPct, rec.NetYieldPct)
	}
	if rec.Price == nil || *rec.Price != 50000 {
		t.Errorf("price = %v; want untouched 50000", rec.Price)
	}
	if rec.TaxeFonciereAnnual == nil || *rec.TaxeFonciereAnnual != 600 {
		t.Errorf("taxe_fonciere_annual = %v; want untouched 600", rec.TaxeFonciereAnnual)
	}
}

func TestFinalizeBoundaryYieldIsKept(t *testing.T) {
	// Exactly 20% is still plausible.
	rec := Record{Price: f(60000), MonthlyRent: f(1000)}
	finalize(&rec)

	if rec.GrossYieldPct == nil || *rec.GrossYieldPct != 20 {
		t.Errorf("gross_yield_pct = %v; want 20", rec.GrossYieldPct)
	}
}

func TestFinalizeMissingChargesDefaultToZeroInNetOnly(t *testing.T) {
	rec := Record{Price: f(100000), MonthlyRent: f(500)}
	finalize(&rec)

	if rec.NetYieldPct == nil || *rec.NetYieldPct != 6 {
		t.Errorf("net_yield_pct = %v; want 6", rec.NetYieldPct)
	}
	// The record fields themselves stay absent.
	if rec.MonthlyCharges != nil || rec.AnnualCharges != nil || rec.TaxeFonciereAnnual != nil {
		t.Error("charges/tax fields were populated; want absent")
	}
}

func TestFinalizeNoYieldWithoutPrice(t *testing.T) {
	rec := Record{MonthlyRent: f(700)}
	finalize(&rec)
	if rec.GrossYieldPct != nil || rec.NetYieldPct != nil {
		t.Error("yields computed without a price")
	}
}

func TestFinalizeNoYieldWithoutRent(t *testing.T) {
	rec := Record{Price: f(90000), TaxeFonciereAnnual: f(800)}
	finalize(&rec)
	if rec.GrossYieldPct != nil || rec.NetYieldPct != nil {
		t.Error("yields computed without a rent")
	}
}
