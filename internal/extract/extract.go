// Package extract turns the free text of a French real-estate sale listing
// into a validated record of financial metrics: sale price, rent, charges,
// property tax and the rental yields derived from them.
//
// The pipeline is deterministic and performs no I/O: identical input always
// produces an identical record, so extraction can run concurrently across
// listings without coordination. Every uncertainty is expressed as an
// absent (nil) field, never as an error; the only failure mode is
// ErrInvalidInput for input that is not usable text at all.
package extract

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

// ErrInvalidInput reports input that is not usable text (empty or not
// valid UTF-8). Extraction uncertainty is never an error: a listing with
// no detectable rent yields a record with MonthlyRent nil.
var ErrInvalidInput = errors.New("extract: input is not usable text")

// priceFloor is the minimum amount considered a plausible sale price by
// the last-resort price rule: scan everything and take the maximum.
const priceFloor = 10000

var priceKeywords = []string{"prix de vente", "prix", "vente"}

var (
	chargesAfterRe  = regexp.MustCompile(`(?i)charges\s+(` + numberPattern + `)\s*(?:€|euros?)`)
	chargesBeforeRe = regexp.MustCompile(`(?i)(` + numberPattern + `)\s*€\s+de\s+charges`)
)

var chargesKeywords = []string{
	"charges locatives",
	"charges mensuel",
	"charge de copropriété",
	"charges annuelles",
}

// Extract parses the plain-text rendering of a listing page and returns
// the financial record. st optionally carries structured fields recovered
// by the fetch layer: st.Body is prepended to text (it usually holds
// cleaner prose than the rendered page) and st.Price short-circuits the
// text-based price rules.
func Extract(text string, st *Structured) (Record, error) {
	combined := text
	if st != nil && st.Body != "" {
		combined = st.Body + "\n" + text
	}
	if strings.TrimSpace(combined) == "" || !utf8.ValidString(combined) {
		return Record{}, ErrInvalidInput
	}

	var rec Record

	if st != nil && st.Price != nil && *st.Price > 0 {
		rec.Price = ptr(*st.Price)
	} else if v, ok := salePrice(combined); ok {
		rec.Price = ptr(v)
	}

	if m, ok := monthlyRent(combined); ok {
		rec.MonthlyRent = ptr(m.Value)
	}

	if v, ok := monthlyCharges(combined); ok {
		rec.MonthlyCharges = ptr(v)
	}

	if v, ok := annualPropertyTax(combined); ok {
		rec.TaxeFonciereAnnual = ptr(v)
	}

	finalize(&rec)
	return rec, nil
}

// salePrice runs the price cascade: keyword proximity first, then the
// largest amount above the price floor anywhere in the text (the sale
// price is usually the biggest figure an ad mentions).
func salePrice(text string) (float64, bool) {
	for _, kw := range priceKeywords {
		if m, ok := AmountNear(text, kw, false); ok && m.Value > 0 {
			return m.Value, true
		}
	}

	best := 0.0
	for _, m := range amountRe.FindAllStringSubmatch(text, -1) {
		if v, ok := ParseAmount(m[1]); ok && v > priceFloor && v > best {
			best = v
		}
	}
	if best == 0 {
		return 0, false
	}
	return best, true
}

// monthlyCharges finds the co-ownership/rental charges and normalizes them
// to a monthly figure using the period markers around the match.
func monthlyCharges(text string) (float64, bool) {
	m, ok := chargesMatch(text)
	if !ok {
		return 0, false
	}
	if DetectPeriod(m.Snippet) == PeriodAnnual {
		return m.Value / 12, true
	}
	return m.Value, true
}

func chargesMatch(text string) (AmountMatch, bool) {
	for _, re := range []*regexp.Regexp{chargesAfterRe, chargesBeforeRe} {
		if loc := re.FindStringSubmatchIndex(text); loc != nil {
			if v, ok := ParseAmount(text[loc[2]:loc[3]]); ok {
				return AmountMatch{Value: v, Snippet: trailingContext(text, loc[0], loc[1])}, true
			}
		}
	}
	for _, kw := range chargesKeywords {
		if m, ok := AmountNear(text, kw, true); ok {
			return m, true
		}
	}
	return AmountMatch{}, false
}

// annualPropertyTax finds the taxe foncière via a strict keyword window.
// The truncated "taxe fonci" form catches both spellings of the accent; a
// monthly figure is annualized.
func annualPropertyTax(text string) (float64, bool) {
	m, ok := AmountNear(text, "taxe fonci", true)
	if !ok {
		m, ok = AmountNear(text, "taxe foncière", true)
	}
	if !ok {
		return 0, false
	}
	if DetectPeriod(m.Snippet) == PeriodMonthly {
		return m.Value * 12, true
	}
	return m.Value, true
}
