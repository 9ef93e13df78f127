package extract

import "regexp"

// Plausibility bounds for rent detection. A French small-surface rental
// sits between 300 and 3000 €/month; amounts outside the bound near a
// "loyer" keyword are almost always the sale price or an unrelated figure.
const (
	monthlyRentMin = 300
	monthlyRentMax = 3000
	annualRentMin  = 3600
	annualRentMax  = 36000
)

func monthlyRentOK(v float64) bool { return v >= monthlyRentMin && v <= monthlyRentMax }
func annualRentOK(v float64) bool  { return v >= annualRentMin && v <= annualRentMax }

// rentRule is one step of the rent cascade: a pattern whose first capture
// group is the candidate amount, plus a resolver applying the plausibility
// gate and unit conversion. Resolvers return the monthly rent and whether
// the candidate is accepted; a rejected candidate does not stop the
// cascade, the next rule simply runs.
type rentRule struct {
	name    string
	re      *regexp.Regexp
	resolve func(amount float64, snippet string) (monthly float64, ok bool)
}

func asAnnual(v float64, _ string) (float64, bool) {
	if !annualRentOK(v) {
		return 0, false
	}
	return v / 12, true
}

func asMonthly(v float64, _ string) (float64, bool) {
	if !monthlyRentOK(v) {
		return 0, false
	}
	return v, true
}

// byPeriod resolves an unqualified "loyer X €" via the period markers in
// the surrounding snippet.
func byPeriod(v float64, snippet string) (float64, bool) {
	if DetectPeriod(snippet) == PeriodAnnual {
		return asAnnual(v, snippet)
	}
	return asMonthly(v, snippet)
}

// rentRules run in order; the first rule whose amount passes its gate wins.
// Specific phrasings come before generic ones so that "loyer annuel : X"
// is never misread by the bare "loyer X €" rule.
var rentRules = []rentRule{
	{
		name:    "loyer annuel : X €",
		re:      regexp.MustCompile(`(?i)loyer\s+annuel\s*:?\s*(` + numberPattern + `)\s*(?:€|euros?)`),
		resolve: asAnnual,
	},
	{
		name:    "loyer mensuel de X",
		re:      regexp.MustCompile(`(?i)loyer\s+mensuel\s+de\s+(` + numberPattern + `)`),
		resolve: asMonthly,
	},
	{
		name:    "loyer X € par an",
		re:      regexp.MustCompile(`(?i)loyer[^0-9]*(` + numberPattern + `)\s*€\s*(?:/\s*an|par\s+an)`),
		resolve: asAnnual,
	},
	{
		name:    "loyer X €",
		re:      regexp.MustCompile(`(?i)loyer[^0-9]*(` + numberPattern + `)\s*€`),
		resolve: byPeriod,
	},
	{
		name:    "loyer X euros",
		re:      regexp.MustCompile(`(?i)loyer\s+(` + numberPattern + `)\s+euros?`),
		resolve: asMonthly,
	},
	{
		name:    "soit X euros par mois",
		re:      regexp.MustCompile(`(?is)soit\s+.*?(` + numberPattern + `)\s*euros?\s+par\s+mois`),
		resolve: asMonthly,
	},
}

// monthlyRent runs the rent cascade over text and returns the monthly rent.
func monthlyRent(text string) (AmountMatch, bool) {
	for _, rule := range rentRules {
		loc := rule.re.FindStringSubmatchIndex(text)
		if loc == nil {
			continue
		}
		v, ok := ParseAmount(text[loc[2]:loc[3]])
		if !ok {
			continue
		}
		snippet := trailingContext(text, loc[0], loc[1])
		if monthly, ok := rule.resolve(v, snippet); ok {
			return AmountMatch{Value: monthly, Snippet: snippet}, true
		}
	}
	return AmountMatch{}, false
}

// trailingContext slices the match plus 100 characters of following text,
// enough for period markers trailing the amount ("... € par mois").
func trailingContext(text string, start, end int) string {
	return text[start:min(len(text), end+100)]
}
