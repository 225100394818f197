package svgzoom

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// Length is a number followed by a unit, such as "400pt".
type Length struct {
	Value float64
	Unit  string // may be empty
}

func (l Length) String() string { return FormatNumber(l.Value) + l.Unit }

func isDigit(b byte) bool { return '0' <= b && b <= '9' }

func isUnitByte(b byte) bool {
	return b == '%' || ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}

// numberPrefix returns the length of the longest prefix of `s`
// which is a decimal number, or 0.
func numberPrefix(s string) int {
	i, digits := 0, 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	for ; i < len(s) && isDigit(s[i]); i++ {
		digits++
	}
	if i < len(s) && s[i] == '.' {
		for i++; i < len(s) && isDigit(s[i]); i++ {
			digits++
		}
	}
	if digits == 0 {
		return 0
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && isDigit(s[k]) {
			k++
		}
		if k > j { // "2em" is 2 with unit em
			i = k
		}
	}
	return i
}

// ParseLength splits `s` into its numeric part and its unit.
// Parsing never fails: when `s` is not a number followed by
// an optional unit made of letters (or '%'), the value is NaN,
// which then propagates to every computation using it.
func ParseLength(s string) Length {
	s = strings.TrimSpace(s)
	n := numberPrefix(s)
	out := Length{Value: math.NaN(), Unit: strings.TrimSpace(s[n:])}
	if n == 0 {
		return out
	}
	for i := 0; i < len(out.Unit); i++ {
		if !isUnitByte(out.Unit[i]) {
			return out
		}
	}
	v, err := strconv.ParseFloat(s[:n], 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) { // out of range values are +/-Inf
		return out
	}
	out.Value = v
	return out
}

// Dimensions are the raw width and height strings of a canvas,
// as found in its attributes (for instance "400pt" and "300pt").
type Dimensions struct {
	Width, Height string
}

// Parse returns the numeric width and height, ignoring units.
func (d Dimensions) Parse() (width, height float64) {
	return ParseLength(d.Width).Value, ParseLength(d.Height).Value
}
