package svgzoom

import (
	"math"
	"strconv"
	"strings"
)

// FormatNumber returns the shortest decimal representation of `v`
// which parses back to `v`, the way numbers are usually written in
// SVG attributes generated by a browser: no trailing fraction for integers,
// exponent notation only for very small or very large magnitudes,
// and "NaN", "Infinity", "-Infinity" for non finite values.
func FormatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == 0: // also -0
		return "0"
	}
	abs := math.Abs(v)
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	s := strconv.FormatFloat(v, 'e', -1, 64)
	i := strings.IndexByte(s, 'e')
	mantissa, sign, exp := s[:i], s[i+1], strings.TrimLeft(s[i+2:], "0")
	return mantissa + "e" + string(sign) + exp
}
