// Implements interactive pan and zoom for a graph
// drawn in an SVG canvas.
// A View keeps an affine matrix applied to the graph layer,
// and derives from it the viewport of the outer canvas.
// The matrix math lives on State, which has no side effects,
// so that it may be used (and tested) without any document.
package svgzoom

import (
	"github.com/srwiley/rasterx"
)

// Matrix is the affine transform applied to the graph layer:
//	x' = A*x + C*y + E
//	y' = B*x + D*y + F
// Pan and Zoom only ever produce uniform scales plus a translation.
type Matrix = rasterx.Matrix2D

// TransformAttr returns the value of the `transform` attribute
// for `m`, that is `matrix(a b c d e f)`.
func TransformAttr(m Matrix) string {
	return "matrix(" + FormatNumber(m.A) + " " + FormatNumber(m.B) + " " + FormatNumber(m.C) + " " +
		FormatNumber(m.D) + " " + FormatNumber(m.E) + " " + FormatNumber(m.F) + ")"
}

// State is the view state of one canvas: the cumulative matrix
// and the nominal (unscaled) size of the canvas, in points.
// Its methods return updated copies.
type State struct {
	Matrix        Matrix
	Width, Height float64
}

// NewState returns the initial state for a canvas of the given size:
// identity scale, with a vertical offset of `height`, since
// the graph origin is bottom-left while the canvas origin is top-left.
func NewState(width, height float64) State {
	m := rasterx.Identity
	m.F = height
	return State{Matrix: m, Width: width, Height: height}
}

// Scale returns the current zoom level, read back from the matrix.
func (s State) Scale() float64 { return s.Matrix.A }

// Pan translates the graph by (dx, dy), in canvas units.
func (s State) Pan(dx, dy float64) State {
	s.Matrix.E += dx
	s.Matrix.F += dy
	return s
}

// Zoom scales the graph by `factor` about the center of the canvas.
// No check is done on `factor`: zero or negative values
// give degenerate or mirrored views.
func (s State) Zoom(factor float64) State {
	m := &s.Matrix
	m.A *= factor
	m.B *= factor
	m.C *= factor
	m.D *= factor
	m.E *= factor
	m.F *= factor
	// keep the canvas center fixed
	m.E += (1 - factor) * s.Width / 2
	m.F += (1 - factor) * s.Height / 2
	return s
}

// Viewport returns the outer canvas frame matching the current scale.
func (s State) Viewport() Viewport {
	scale := s.Scale()
	return Viewport{Width: scale * s.Width, Height: scale * s.Height}
}

// Viewport is the visible frame of the outer canvas.
type Viewport struct {
	Width, Height float64
}

// ViewBox returns the `viewBox` attribute value.
func (vp Viewport) ViewBox() string {
	return "0.00 0.00 " + FormatNumber(vp.Width) + " " + FormatNumber(vp.Height)
}

// WidthAttr returns the `width` attribute value, in points.
func (vp Viewport) WidthAttr() string { return FormatNumber(vp.Width) + "pt" }

// HeightAttr returns the `height` attribute value, in points.
func (vp Viewport) HeightAttr() string { return FormatNumber(vp.Height) + "pt" }
