package param

import (
	"math"
	"strconv"
	"strings"
)

// FormatFloat renders v as a WGSL f32 literal.
//
// The text is the shortest decimal that parses back to the same float32, and
// always carries a '.' or an exponent so WGSL types it as a float rather than
// an abstract int. Negative values are parenthesized so the literal can be
// spliced after any binary operator.
func FormatFloat(v float64) string {
	s := strconv.FormatFloat(float64(float32(v)), 'g', -1, 32)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	if strings.HasPrefix(s, "-") {
		return "(" + s + ")"
	}
	return s
}

// FormatInt renders v, rounded to the nearest integer, as a WGSL integer
// literal.
func FormatInt(v float64) string {
	s := strconv.FormatInt(int64(math.Round(v)), 10)
	if strings.HasPrefix(s, "-") {
		return "(" + s + ")"
	}
	return s
}

// Format renders v according to kind.
func Format(kind Kind, v float64) string {
	if kind == Float {
		return FormatFloat(v)
	}
	return FormatInt(v)
}

// ParseLiteral parses text produced by FormatFloat or FormatInt at f32
// precision.
func ParseLiteral(s string) (float64, error) {
	s = strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
	return strconv.ParseFloat(s, 32)
}
