package extract

import "math"

// Record is the structured result of extracting financial metrics from a
// single listing. Monetary fields and yields are nil when the value could
// not be determined; zero is never used to mean "unknown". A Record is
// built once per Extract call and must not be mutated afterwards;
// corrections go through re-extraction.
type Record struct {
	URL                string   `json:"url"`
	Title              string   `json:"title"`
	Price              *float64 `json:"price"`
	MonthlyRent        *float64 `json:"monthly_rent"`
	AnnualRent         *float64 `json:"annual_rent"`
	MonthlyCharges     *float64 `json:"monthly_charges"`
	AnnualCharges      *float64 `json:"annual_charges"`
	TaxeFonciereAnnual *float64 `json:"taxe_fonciere_annual"`
	GrossYieldPct      *float64 `json:"gross_yield_pct"`
	NetYieldPct        *float64 `json:"net_yield_pct"`
}

// Structured carries optional machine-readable fields the fetch layer may
// have recovered from the page (e.g. an embedded data island). Price, when
// present, wins over any text-derived price. Body is prepended to the page
// text before keyword search since it usually carries cleaner prose.
type Structured struct {
	Price *float64
	Body  string
}

// Period classifies the billing period implied by a text snippet.
type Period int

const (
	PeriodUnknown Period = iota
	PeriodMonthly
	PeriodAnnual
)

func (p Period) String() string {
	switch p {
	case PeriodMonthly:
		return "monthly"
	case PeriodAnnual:
		return "annual"
	default:
		return "unknown"
	}
}

// AmountMatch pairs a parsed monetary value with the snippet it was found
// in. It only lives for the duration of the extraction call that produced
// it.
type AmountMatch struct {
	Value   float64
	Snippet string
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func ptr(v float64) *float64 {
	r := round2(v)
	return &r
}
