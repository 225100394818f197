package svgdoc

import (
	"testing"

	"github.com/benoitkugler/svgzoom/svgzoom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertMatrix(t *testing.T, exp, got svgzoom.Matrix) {
	t.Helper()
	const eps = 1e-9
	assert.InDelta(t, exp.A, got.A, eps, "A")
	assert.InDelta(t, exp.B, got.B, eps, "B")
	assert.InDelta(t, exp.C, got.C, eps, "C")
	assert.InDelta(t, exp.D, got.D, eps, "D")
	assert.InDelta(t, exp.E, got.E, eps, "E")
	assert.InDelta(t, exp.F, got.F, eps, "F")
}

func TestParseTransform(t *testing.T) {
	for _, c := range []struct {
		in  string
		exp svgzoom.Matrix
	}{
		{"matrix(2 0 0 2 -80 140)", svgzoom.Matrix{A: 2, D: 2, E: -80, F: 140}},
		{"matrix(1,0,0,1,0,300)", svgzoom.Matrix{A: 1, D: 1, F: 300}},
		{"scale(1 1) rotate(0) translate(4 112)", svgzoom.Matrix{A: 1, D: 1, E: 4, F: 112}},
		{"translate(10)", svgzoom.Matrix{A: 1, D: 1, E: 10}},
		{"scale(2)", svgzoom.Matrix{A: 2, D: 2}},
		{"translate(4 112) scale(2 3)", svgzoom.Matrix{A: 2, D: 3, E: 4, F: 112}},
		{"rotate(90)", svgzoom.Matrix{B: 1, C: -1}},
		{"", Identity},
	} {
		got, err := ParseTransform(c.in)
		require.NoError(t, err, c.in)
		assertMatrix(t, c.exp, got)
	}
}

func TestParseTransformInvalid(t *testing.T) {
	for _, in := range []string{"matrix(1 2 3)", "translate(a b)", "spin(3)", "scale(1 2 3)", "rotate(1 2)", "translate 4"} {
		_, err := ParseTransform(in)
		assert.Error(t, err, in)
	}
}

func TestTransformRoundTrip(t *testing.T) {
	m := svgzoom.NewState(200, 100).Pan(10, -5).Zoom(1.1)
	got, err := ParseTransform(svgzoom.TransformAttr(m.Matrix))
	require.NoError(t, err)
	assert.Equal(t, m.Matrix, got)

	doc := readGraph(t, StrictErrorMode)
	layer, _ := doc.ElementByID("graph0")
	tr, err := layer.Transform()
	require.NoError(t, err)
	assertMatrix(t, svgzoom.Matrix{A: 1, D: 1, E: 4, F: 96}, tr)

	tr, err = doc.Canvas().Transform()
	require.NoError(t, err)
	assert.Equal(t, Identity, tr)
}
