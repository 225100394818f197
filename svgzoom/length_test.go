package svgzoom

import (
	"math"
	"testing"
)

func TestParseLength(t *testing.T) {
	for _, c := range []struct {
		in    string
		value float64
		unit  string
	}{
		{"400pt", 400, "pt"},
		{"300pt", 300, "pt"},
		{" 12.5 px ", 12.5, "px"},
		{"-3in", -3, "in"},
		{".5cm", 0.5, "cm"},
		{"1e3pt", 1000, "pt"},
		{"2em", 2, "em"},
		{"50%", 50, "%"},
		{"42", 42, ""},
		{"200", 200, ""},
		{"1e400pt", math.Inf(1), "pt"},
	} {
		got := ParseLength(c.in)
		if got.Value != c.value || got.Unit != c.unit {
			t.Errorf("ParseLength(%q): expected %v%s, got %v%s", c.in, c.value, c.unit, got.Value, got.Unit)
		}
	}
}

func TestParseLengthNaN(t *testing.T) {
	for _, in := range []string{"", "pt", "abcpt", "12.5.3pt", "4 2pt", "--1pt", "."} {
		if got := ParseLength(in); !math.IsNaN(got.Value) {
			t.Errorf("ParseLength(%q): expected NaN, got %v", in, got.Value)
		}
	}
}

func TestDimensions(t *testing.T) {
	w, h := Dimensions{Width: "400pt", Height: "300pt"}.Parse()
	if w != 400 || h != 300 {
		t.Errorf("expected 400 x 300, got %v x %v", w, h)
	}
}
