package svgzoom

import (
	"math"
	"reflect"
	"strings"
	"testing"
)

// recordLayer stores the attributes written, and
// the order of the writes
type recordLayer struct {
	attrs  map[string]string
	writes []string
}

func newRecordLayer() *recordLayer { return &recordLayer{attrs: map[string]string{}} }

func (l *recordLayer) SetAttribute(name, value string) {
	l.attrs[name] = value
	l.writes = append(l.writes, name)
}

func newTestView(dims Dimensions) (*View, *recordLayer, *recordLayer) {
	canvas, graph := newRecordLayer(), newRecordLayer()
	v := Surface{Canvas: canvas, Graph: graph}.Initialize(dims)
	return v, canvas, graph
}

func TestInitialize(t *testing.T) {
	v, canvas, graph := newTestView(Dimensions{Width: "400pt", Height: "300pt"})
	s := v.State()
	if s.Width != 400 || s.Height != 300 {
		t.Errorf("expected 400 x 300, got %v x %v", s.Width, s.Height)
	}
	if exp := (Matrix{A: 1, D: 1, F: 300}); s.Matrix != exp {
		t.Errorf("expected %v, got %v", exp, s.Matrix)
	}
	if got := graph.attrs["transform"]; got != "matrix(1 0 0 1 0 300)" {
		t.Errorf("unexpected transform %q", got)
	}
	if len(canvas.writes) != 0 {
		t.Errorf("initialize should not touch the canvas, got %v", canvas.writes)
	}
}

func TestInitializeMalformed(t *testing.T) {
	v, _, graph := newTestView(Dimensions{Width: "wide", Height: "tall!"})
	s := v.State()
	if !math.IsNaN(s.Width) || !math.IsNaN(s.Height) {
		t.Fatalf("expected NaN dimensions, got %v x %v", s.Width, s.Height)
	}
	if got := graph.attrs["transform"]; got != "matrix(1 0 0 1 0 NaN)" {
		t.Errorf("unexpected transform %q", got)
	}
	v.Zoom(2) // must not panic
	if !math.IsNaN(v.State().Matrix.E) {
		t.Errorf("expected NaN to propagate, got %v", v.State().Matrix)
	}
}

func TestPanDoesNotTouchCanvas(t *testing.T) {
	v, canvas, graph := newTestView(Dimensions{Width: "200pt", Height: "100pt"})
	v.Pan(3, 4)
	if len(canvas.writes) != 0 {
		t.Errorf("pan should not touch the canvas, got %v", canvas.writes)
	}
	if got := graph.attrs["transform"]; got != "matrix(1 0 0 1 3 104)" {
		t.Errorf("unexpected transform %q", got)
	}
}

func TestScenario(t *testing.T) {
	v, canvas, graph := newTestView(Dimensions{Width: "200pt", Height: "100pt"})
	if exp := (Matrix{A: 1, D: 1, F: 100}); v.State().Matrix != exp {
		t.Fatalf("expected %v, got %v", exp, v.State().Matrix)
	}

	v.Pan(10, -5)
	if exp := (Matrix{A: 1, D: 1, E: 10, F: 95}); v.State().Matrix != exp {
		t.Fatalf("expected %v, got %v", exp, v.State().Matrix)
	}

	v.Zoom(2)
	if exp := (Matrix{A: 2, D: 2, E: -80, F: 140}); v.State().Matrix != exp {
		t.Fatalf("expected %v, got %v", exp, v.State().Matrix)
	}
	if got := graph.attrs["transform"]; got != "matrix(2 0 0 2 -80 140)" {
		t.Errorf("unexpected transform %q", got)
	}
	exp := map[string]string{"viewBox": "0.00 0.00 400 200", "width": "400pt", "height": "200pt"}
	if !reflect.DeepEqual(canvas.attrs, exp) {
		t.Errorf("expected canvas %v, got %v", exp, canvas.attrs)
	}
	if exp := []string{"viewBox", "width", "height"}; !reflect.DeepEqual(canvas.writes, exp) {
		t.Errorf("expected writes %v, got %v", exp, canvas.writes)
	}
}

func TestZoomInOut(t *testing.T) {
	v, canvas, _ := newTestView(Dimensions{Width: "100pt", Height: "50pt"})
	v.ZoomIn()
	if v.State().Scale() != DefaultZoomStep {
		t.Errorf("expected scale %v, got %v", DefaultZoomStep, v.State().Scale())
	}
	v.ZoomOut()
	if math.Abs(v.State().Scale()-1) > 1e-12 {
		t.Errorf("expected scale back to 1, got %v", v.State().Scale())
	}

	v.SetZoomStep(2)
	v.ZoomIn()
	if got := canvas.attrs["width"]; !strings.HasSuffix(got, "pt") || ParseLength(got).Value < 199.99 {
		t.Errorf("unexpected width %q", got)
	}
}

func TestOps(t *testing.T) {
	ops, err := ParseOps([]string{"pan:10,-5", "zoom:2", " in ", "OUT", "pan:1 1"})
	if err != nil {
		t.Fatal(err)
	}
	exp := []Op{
		{Kind: OpPan, DX: 10, DY: -5},
		{Kind: OpZoom, Factor: 2},
		{Kind: OpZoomIn},
		{Kind: OpZoomOut},
		{Kind: OpPan, DX: 1, DY: 1},
	}
	if !reflect.DeepEqual(ops, exp) {
		t.Fatalf("expected %v, got %v", exp, ops)
	}

	v, _, _ := newTestView(Dimensions{Width: "200pt", Height: "100pt"})
	for _, op := range ops[:2] {
		op.ApplyTo(v)
	}
	if exp := (Matrix{A: 2, D: 2, E: -80, F: 140}); v.State().Matrix != exp {
		t.Errorf("expected %v, got %v", exp, v.State().Matrix)
	}

	for _, op := range exp {
		back, err := ParseOp(op.String())
		if err != nil || back != op {
			t.Errorf("%s: round trip gave %v, %v", op, back, err)
		}
	}
}

func TestOpsInvalid(t *testing.T) {
	for _, s := range []string{"", "pan:1", "pan:a,b", "zoom", "zoom:1,2", "rotate:90"} {
		if _, err := ParseOp(s); err == nil {
			t.Errorf("%q: expected error", s)
		}
	}
	if _, err := ParseOps([]string{"in", "zoom:x"}); err == nil || !strings.Contains(err.Error(), "operation 2") {
		t.Errorf("unexpected error %v", err)
	}
}
