package extract

import "strings"

var (
	annualMarkers  = []string{"par an", "/an", "annuel"}
	monthlyMarkers = []string{"par mois", "/mois", "mois"}
)

// DetectPeriod classifies a snippet as monthly or annual from lexical
// markers. Annual markers are checked first: a snippet mentioning both
// "mois" and "par an" (e.g. "900 € par mois soit 10 800 € par an") would
// otherwise be misread as monthly. The bare "mois" check is a known
// heuristic; it can fire on unrelated words containing the substring.
func DetectPeriod(snippet string) Period {
	s := strings.ToLower(snippet)
	for _, marker := range annualMarkers {
		if strings.Contains(s, marker) {
			return PeriodAnnual
		}
	}
	for _, marker := range monthlyMarkers {
		if strings.Contains(s, marker) {
			return PeriodMonthly
		}
	}
	return PeriodUnknown
}
