package svgzoom

// DefaultZoomStep is the factor used by ZoomIn and ZoomOut.
const DefaultZoomStep = 1.1

// Layer is a node of the rendered document whose attributes
// may be written.
type Layer interface {
	SetAttribute(name, value string)
}

// Surface binds the two nodes driven by a View:
// the outer canvas (the <svg> element) and the inner graph layer.
// A Surface is not usable for panning or zooming until
// it is initialized.
type Surface struct {
	Canvas Layer
	Graph  Layer
}

// Initialize parses the canvas dimensions, resets the transform
// of the graph layer and returns the View driving `s`.
// Malformed dimensions are not reported; they yield NaN values.
func (s Surface) Initialize(dims Dimensions) *View {
	width, height := dims.Parse()
	v := &View{surface: s, state: NewState(width, height), zoomStep: DefaultZoomStep}
	v.applyTransform()
	return v
}

// View is an initialized Surface. It is not safe for concurrent use:
// operations are expected to come one at a time from the input events
// of a single canvas.
type View struct {
	surface  Surface
	state    State
	zoomStep float64
}

// State returns the current state.
func (v *View) State() State { return v.state }

// SetZoomStep changes the factor used by ZoomIn and ZoomOut.
func (v *View) SetZoomStep(step float64) { v.zoomStep = step }

func (v *View) applyTransform() {
	v.surface.Graph.SetAttribute("transform", TransformAttr(v.state.Matrix))
}

// always derived from the matrix, so that the frame
// can't drift from the content
func (v *View) applyViewport() {
	vp := v.state.Viewport()
	v.surface.Canvas.SetAttribute("viewBox", vp.ViewBox())
	v.surface.Canvas.SetAttribute("width", vp.WidthAttr())
	v.surface.Canvas.SetAttribute("height", vp.HeightAttr())
}

// Pan translates the graph by (dx, dy). The canvas is not modified.
func (v *View) Pan(dx, dy float64) {
	v.state = v.state.Pan(dx, dy)
	v.applyTransform()
}

// Zoom scales the graph about the canvas center, and resizes
// the canvas so that it frames the scaled graph.
func (v *View) Zoom(factor float64) {
	v.state = v.state.Zoom(factor)
	v.applyTransform()
	v.applyViewport()
}

// ZoomIn zooms by the zoom step.
func (v *View) ZoomIn() { v.Zoom(v.zoomStep) }

// ZoomOut zooms by the inverse of the zoom step.
func (v *View) ZoomOut() { v.Zoom(1 / v.zoomStep) }
