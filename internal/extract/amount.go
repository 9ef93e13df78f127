package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// numberPattern matches a French-formatted numeric literal: a digit run
// with optional space/NBSP/dot/comma grouping in blocks of three and an
// optional decimal part.
const numberPattern = `[0-9]+(?:[ \x{00A0}.,][0-9]{3})*(?:[.,][0-9]+)?`

// amountRe matches a monetary amount: a number followed by a euro symbol
// or the word "euro(s)".
var amountRe = regexp.MustCompile(`(?i)(` + numberPattern + `)\s*(?:€|euros?)`)

// ParseAmount converts a locale-formatted numeric literal into a float.
// Separator roles are inferred without locale configuration: money never
// carries more than two decimal digits, so the rightmost "," or "." is the
// decimal separator iff 1 or 2 digits follow it; otherwise every separator
// is thousands grouping. Returns ok=false when the cleaned string is not
// numeric.
func ParseAmount(raw string) (float64, bool) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return 0, false
	}
	v = strings.ReplaceAll(v, "\u00a0", " ")

	lastComma := strings.LastIndexByte(v, ',')
	lastDot := strings.LastIndexByte(v, '.')

	switch {
	case lastComma < 0 && lastDot < 0:
		v = strings.ReplaceAll(v, " ", "")
	case lastComma > lastDot:
		if n := digitsAfter(v, lastComma); n >= 1 && n <= 2 {
			v = strings.NewReplacer(" ", "", ".", "").Replace(v)
			v = strings.Replace(v, ",", ".", 1)
		} else {
			v = strings.NewReplacer(" ", "", ",", "", ".", "").Replace(v)
		}
	default:
		if n := digitsAfter(v, lastDot); n >= 1 && n <= 2 {
			v = strings.NewReplacer(" ", "", ",", "").Replace(v)
		} else {
			v = strings.NewReplacer(" ", "", ",", "", ".", "").Replace(v)
		}
	}

	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// digitsAfter counts consecutive digits immediately following position pos.
func digitsAfter(s string, pos int) int {
	count := 0
	for i := pos + 1; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			break
		}
		count++
	}
	return count
}
