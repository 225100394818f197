// Implements a raster overview of a pan and zoom view,
// by wrapping rasterx: the graph extent is filled,
// and the canvas viewport is outlined, so that the
// visible part of the graph is easy to spot.
package svgraster

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/benoitkugler/svgzoom/svgzoom"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"
)

// margin around the drawing, in pixels
const margin = 4

var (
	// BackgroundColor fills the image outside the graph.
	BackgroundColor color.Color = color.White
	// GraphColor fills the graph extent, half transparent.
	GraphColor      color.Color = color.NRGBA{R: 0x4a, G: 0x90, B: 0xd9, A: 0xff}
	// ViewportColor outlines the visible canvas.
	ViewportColor   color.Color = color.NRGBA{R: 0xd9, G: 0x3a, B: 0x3a, A: 0xff}
)

// Renderer paints filled and stroked rectangles.
type Renderer struct {
	dasher *rasterx.Dasher // to avoid shared state
	filler *rasterx.Filler // we use separated instance
}

// NewRenderer returns a renderer drawing with the given scanner.
// If scanner is nil, a default scanner rasterx.ScannerGV is used on a new image.
func NewRenderer(width, height int, scanner rasterx.Scanner) *Renderer {
	if scanner == nil {
		img := image.NewRGBA(image.Rect(0, 0, width, height))
		scanner = rasterx.NewScannerGV(width, height, img, img.Bounds())
	}
	return &Renderer{dasher: rasterx.NewDasher(width, height, scanner), filler: rasterx.NewFiller(width, height, scanner)}
}

type rect struct{ minX, minY, maxX, maxY float64 }

func (r rect) union(o rect) rect {
	return rect{
		minX: math.Min(r.minX, o.minX), minY: math.Min(r.minY, o.minY),
		maxX: math.Max(r.maxX, o.maxX), maxY: math.Max(r.maxY, o.maxY),
	}
}

func (r rect) isValid() bool {
	for _, v := range [...]float64{r.minX, r.minY, r.maxX, r.maxY} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return r.maxX > r.minX && r.maxY > r.minY
}

// transformedRect returns the bounding box of `r` transformed by `m`
func transformedRect(m svgzoom.Matrix, r rect) rect {
	x1, y1 := m.Transform(r.minX, r.minY)
	x2, y2 := m.Transform(r.maxX, r.maxY)
	return rect{minX: math.Min(x1, x2), minY: math.Min(y1, y2), maxX: math.Max(x1, x2), maxY: math.Max(y1, y2)}
}

// graphBox returns the graph extent in canvas coordinates:
// the graph is drawn above its origin, in (0, -H) (W, 0).
func graphBox(s svgzoom.State) rect {
	return transformedRect(s.Matrix, rect{minX: 0, minY: -s.Height, maxX: s.Width, maxY: 0})
}

func viewportBox(s svgzoom.State) rect {
	vp := s.Viewport()
	return rect{maxX: vp.Width, maxY: vp.Height}
}

func toFixed(m svgzoom.Matrix, x, y float64) fixed.Point26_6 {
	x, y = m.Transform(x, y)
	return fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(y * 64)}
}

func addRect(p rasterx.Adder, m svgzoom.Matrix, r rect) {
	p.Start(toFixed(m, r.minX, r.minY))
	p.Line(toFixed(m, r.maxX, r.minY))
	p.Line(toFixed(m, r.maxX, r.maxY))
	p.Line(toFixed(m, r.minX, r.maxY))
	p.Stop(true)
}

// fillRect fills `r`, transformed by `m`.
func (rd *Renderer) fillRect(m svgzoom.Matrix, r rect, c color.Color) {
	rd.filler.Clear()
	rd.filler.SetColor(c)
	addRect(rd.filler, m, r)
	rd.filler.Draw()
}

// strokeRect outlines `r`, transformed by `m`, with a line `width` pixels wide.
func (rd *Renderer) strokeRect(m svgzoom.Matrix, r rect, c color.Color, width float64) {
	rd.dasher.Clear()
	rd.dasher.SetColor(c)
	rd.dasher.SetStroke(fixed.Int26_6(width*64), fixed.Int26_6(4*64), rasterx.ButtCap, rasterx.ButtCap,
		rasterx.FlatGap, rasterx.Miter, nil, 0)
	addRect(rd.dasher, m, r)
	rd.dasher.Draw()
}

// RenderOverview draws the graph extent and the canvas viewport of `state`,
// scaled so that the image is `size` pixels on its largest side.
// A degenerate state (NaN or empty dimensions) gives a blank square image.
func RenderOverview(state svgzoom.State, size int) *image.RGBA {
	graph, viewport := graphBox(state), viewportBox(state)
	all := graph.union(viewport)
	if !all.isValid() || size <= 2*margin {
		img := image.NewRGBA(image.Rect(0, 0, size, size))
		draw.Draw(img, img.Bounds(), image.NewUniform(BackgroundColor), image.Point{}, draw.Src)
		return img
	}

	w, h := all.maxX-all.minX, all.maxY-all.minY
	scale := float64(size-2*margin) / math.Max(w, h)
	imgW, imgH := int(math.Round(w*scale))+2*margin, int(math.Round(h*scale))+2*margin
	toImage := rasterx.Identity.Translate(margin, margin).Scale(scale, scale).Translate(-all.minX, -all.minY)

	img := image.NewRGBA(image.Rect(0, 0, imgW, imgH))
	draw.Draw(img, img.Bounds(), image.NewUniform(BackgroundColor), image.Point{}, draw.Src)
	scanner := rasterx.NewScannerGV(imgW, imgH, img, img.Bounds())
	rd := NewRenderer(imgW, imgH, scanner)
	rd.fillRect(toImage, graph, rasterx.ApplyOpacity(GraphColor, 0.5))
	rd.strokeRect(toImage, viewport, ViewportColor, 2)
	return img
}

// WritePNG encodes `img` as PNG.
func WritePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}
