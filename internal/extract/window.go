package extract

import "strings"

const (
	strictWindowAfter = 50
	lenientWindow     = 300
)

// AmountNear scans text case-insensitively for occurrences of keyword,
// left to right, and returns the first monetary amount found in the window
// around an occurrence. strict limits the window to 50 characters past the
// keyword (used for charges and taxes, where a distant amount is usually
// unrelated); otherwise the window spans 300 characters before and after
// the keyword start. The amount search always begins just past the keyword
// text, so only amounts following it can match. Returns ok=false when no
// occurrence yields a parseable amount.
func AmountNear(text, keyword string, strict bool) (AmountMatch, bool) {
	lowerText := strings.ToLower(text)
	lowerKw := strings.ToLower(keyword)
	if lowerKw == "" {
		return AmountMatch{}, false
	}

	start := 0
	for {
		idx := strings.Index(lowerText[start:], lowerKw)
		if idx < 0 {
			return AmountMatch{}, false
		}
		idx += start

		var snippet string
		var searchFrom int // offset within snippet where the amount search begins
		if strict {
			end := min(len(text), idx+len(keyword)+strictWindowAfter)
			snippet = text[idx:end]
			searchFrom = len(keyword)
		} else {
			snipStart := max(0, idx-lenientWindow)
			snipEnd := min(len(text), idx+lenientWindow)
			snippet = text[snipStart:snipEnd]
			searchFrom = idx - snipStart + len(keyword)
		}
		if searchFrom > len(snippet) {
			searchFrom = len(snippet)
		}

		if m := amountRe.FindStringSubmatch(snippet[searchFrom:]); m != nil {
			if v, ok := ParseAmount(m[1]); ok {
				return AmountMatch{Value: v, Snippet: snippet}, true
			}
		}

		start = idx + 1 // move past this occurrence
	}
}
