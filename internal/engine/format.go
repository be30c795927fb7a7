package engine

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// ResultFractionDigits caps the fractional digits shown for computed
// results.
const ResultFractionDigits = 12

// Infinity is how non-finite results are rendered.
const Infinity = "∞"

var printer = message.NewPrinter(language.English)

// FormatNumeral renders an in-progress numeral for display. The integer
// part is grouped with thousands separators; the fractional part, including
// an empty one after a trailing ".", is kept verbatim. An integer part that
// does not parse renders as "".
func FormatNumeral(s string) string {
	intPart, frac, hasFrac := strings.Cut(s, ".")

	sign := ""
	digits := intPart
	if strings.HasPrefix(digits, "-") {
		sign, digits = "-", digits[1:]
	}

	intDisplay := ""
	if v, ok := parseNumber(digits); ok && startsWithDigit(digits) {
		if math.IsInf(v, 0) {
			intDisplay = sign + Infinity
		} else {
			intDisplay = sign + groupInteger(strconv.FormatFloat(v, 'f', -1, 64))
		}
	}

	if hasFrac {
		return intDisplay + "." + frac
	}
	return intDisplay
}

// FormatResult renders a computed number for history and export: ∞ when
// not finite, otherwise the shortest round-trip decimal, rounded to at most
// twelve fractional digits and grouped.
func FormatResult(v float64) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return Infinity
	}

	s := strconv.FormatFloat(v, 'f', -1, 64)
	if _, frac, ok := strings.Cut(s, "."); ok && len(frac) > ResultFractionDigits {
		s = strconv.FormatFloat(v, 'f', ResultFractionDigits, 64)
		s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	}
	if s == "-0" {
		s = "0"
	}

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, hasFrac := strings.Cut(s, ".")
	out := sign + groupInteger(intPart)
	if hasFrac {
		out += "." + frac
	}
	return out
}

// groupInteger inserts thousands separators into a string of decimal
// digits. Integers in int64 range go through the English printer; longer
// digit strings are grouped in threes directly.
func groupInteger(digits string) string {
	if n, err := strconv.ParseInt(digits, 10, 64); err == nil {
		return printer.Sprint(number.Decimal(n))
	}

	var sb strings.Builder
	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	sb.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		sb.WriteByte(',')
		sb.WriteString(digits[i : i+3])
	}
	return sb.String()
}

func startsWithDigit(s string) bool {
	return s != "" && s[0] >= '0' && s[0] <= '9'
}
