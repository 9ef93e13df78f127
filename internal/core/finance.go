package core

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/mlegrand/immoscan/internal/extract"
)

// Financing assumptions for the investment projection: a 20-year loan over
// the full acquisition cost, at current market rate plus borrower
// insurance, with standard notary fees on existing housing.
const (
	loanYears        = 20
	loanRatePct      = 3.09
	insuranceRatePct = 0.15
	notaryPct        = 7.5
)

// InvestmentMetrics projects the purchase as a financed rental investment.
type InvestmentMetrics struct {
	NotaryFees         float64  `json:"notary_fees"`
	TotalCost          float64  `json:"total_cost"`
	MonthlyLoanPayment float64  `json:"monthly_loan_payment"`
	MonthlyCashFlow    *float64 `json:"monthly_cash_flow,omitempty"`
	PaybackYears       *float64 `json:"payback_years,omitempty"`
	SurfaceM2          *float64 `json:"surface_m2,omitempty"`
	PricePerM2         *float64 `json:"price_per_m2,omitempty"`
}

var surfaceRe = regexp.MustCompile(`(?i)([0-9]+(?:[.,][0-9]+)?)\s*m[²2]`)

// ComputeInvestment derives financing figures from an extracted record.
// It returns nil when the record has no sale price. The cash flow uses the
// same defaults as the net yield: unknown charges and tax count as zero.
func ComputeInvestment(rec extract.Record) *InvestmentMetrics {
	if rec.Price == nil || *rec.Price <= 0 {
		return nil
	}
	price := *rec.Price

	notary := price * notaryPct / 100
	total := price + notary
	payment := annuity(total, loanRatePct, loanYears*12) + total*insuranceRatePct/100/12

	m := &InvestmentMetrics{
		NotaryFees:         round2(notary),
		TotalCost:          round2(total),
		MonthlyLoanPayment: round2(payment),
	}

	if rec.MonthlyRent != nil {
		charges, tax := 0.0, 0.0
		if rec.MonthlyCharges != nil {
			charges = *rec.MonthlyCharges
		}
		if rec.TaxeFonciereAnnual != nil {
			tax = *rec.TaxeFonciereAnnual
		}
		cf := round2(*rec.MonthlyRent - payment - charges - tax/12)
		m.MonthlyCashFlow = &cf
	}

	if rec.AnnualRent != nil && *rec.AnnualRent > 0 {
		years := round2(total / *rec.AnnualRent)
		m.PaybackYears = &years
	}

	if surface, ok := surfaceFromTitle(rec.Title); ok {
		s := surface
		ppm := round2(price / surface)
		m.SurfaceM2 = &s
		m.PricePerM2 = &ppm
	}

	return m
}

// annuity is the fixed monthly payment of a loan of principal euros at the
// given annual rate over months installments.
func annuity(principal, annualRatePct float64, months int) float64 {
	r := annualRatePct / 100 / 12
	if r == 0 {
		return principal / float64(months)
	}
	return principal * r / (1 - math.Pow(1+r, -float64(months)))
}

func surfaceFromTitle(title string) (float64, bool) {
	m := surfaceRe.FindStringSubmatch(title)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
