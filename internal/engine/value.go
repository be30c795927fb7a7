package engine

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// ErrorText is how the Error sentinel is rendered.
const ErrorText = "Error"

// Kind discriminates the Value variants.
type Kind uint8

const (
	// KindNumeral is a decimal string still being edited.
	KindNumeral Kind = iota
	// KindResult is the float64 produced by a computation or recall.
	KindResult
	// KindError is the sentinel left behind by a failed computation.
	KindError
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindNumeral:
		return "numeral"
	case KindResult:
		return "result"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// Value is the content of an operand slot.
type Value struct {
	kind Kind
	text string
	num  float64
}

// Numeral wraps an in-progress decimal string.
func Numeral(text string) Value {
	return Value{kind: KindNumeral, text: text}
}

// Result wraps a computed number.
func Result(v float64) Value {
	return Value{kind: KindResult, num: v, text: canonical(v)}
}

// ErrorValue returns the Error sentinel.
func ErrorValue() Value {
	return Value{kind: KindError, text: ErrorText}
}

// Kind reports which variant v holds.
func (v Value) Kind() Kind { return v.kind }

// IsError reports whether v is the Error sentinel.
func (v Value) IsError() bool { return v.kind == KindError }

// Text returns the canonical textual form of v.
func (v Value) Text() string { return v.text }

// Float returns the numeric value of v. ok is false for the Error sentinel
// and for numerals that do not parse (a lone "." for instance).
func (v Value) Float() (f float64, ok bool) {
	switch v.kind {
	case KindResult:
		return v.num, true
	case KindNumeral:
		return parseNumber(v.text)
	default:
		return 0, false
	}
}

// parseNumber parses a numeral with float64 semantics. Literals outside the
// float64 range parse to ±Inf rather than failing.
func parseNumber(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return f, true
		}
		return 0, false
	}
	return f, true
}

// canonical renders v as its shortest round-trip decimal string. Values in
// [1e-7, 1e21) use positional notation, everything else uses an exponent
// without zero padding (1e+21, 1.5e-8). Both zeros render as "0".
func canonical(v float64) string {
	switch {
	case v == 0:
		return "0"
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}

	abs := math.Abs(v)
	if abs >= 1e-7 && abs < 1e21 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}

	s := strconv.FormatFloat(v, 'e', -1, 64)
	mantissa, exp, found := strings.Cut(s, "e")
	if !found || len(exp) < 2 {
		return s
	}
	digits := strings.TrimLeft(exp[1:], "0")
	if digits == "" {
		digits = "0"
	}
	return mantissa + "e" + exp[:1] + digits
}
