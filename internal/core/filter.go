package core

import "strings"

// MatchesKeywords reports whether text contains any of the keywords,
// case-insensitively. The scanner uses it to drop ads the investor never
// wants to see (viager, commercial premises, parking lots).
func MatchesKeywords(text string, keywords []string) bool {
	lowerText := strings.ToLower(text)
	for _, k := range keywords {
		if strings.Contains(lowerText, strings.ToLower(k)) {
			return true
		}
	}
	return false
}
