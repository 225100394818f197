package svglive

import (
	"errors"
	"fmt"

	"github.com/benoitkugler/svgzoom/svgzoom"
)

// Patch targets
const (
	TargetCanvas = "canvas"
	TargetGraph  = "graph"
)

// Patch is an attribute write, to be performed by the client
// on the canvas (the root <svg>) or on the graph layer.
type Patch struct {
	Target string `json:"target"`
	Name   string `json:"name"`
	Value  string `json:"value"`
}

// Message is sent by the client for each user action.
// Op is one of "pan", "zoom", "in", "out".
// Factor is required by "zoom"; missing deltas of "pan" are 0.
type Message struct {
	Op     string   `json:"op"`
	DX     float64  `json:"dx,omitempty"`
	DY     float64  `json:"dy,omitempty"`
	Factor *float64 `json:"factor,omitempty"`
}

// Reply is sent by the server, once when the session starts
// (with the graph layer id), and then after each Message.
type Reply struct {
	Layer   string  `json:"layer,omitempty"`
	Patches []Patch `json:"patches,omitempty"`
	Reload  bool    `json:"reload,omitempty"`
	Error   string  `json:"error,omitempty"`
}

var (
	errUnknownOp     = errors.New("unknown operation")
	errMissingFactor = errors.New("missing zoom factor")
)

func (m Message) op() (svgzoom.Op, error) {
	switch m.Op {
	case "pan":
		return svgzoom.Op{Kind: svgzoom.OpPan, DX: m.DX, DY: m.DY}, nil
	case "zoom":
		if m.Factor == nil {
			return svgzoom.Op{}, errMissingFactor
		}
		return svgzoom.Op{Kind: svgzoom.OpZoom, Factor: *m.Factor}, nil
	case "in":
		return svgzoom.Op{Kind: svgzoom.OpZoomIn}, nil
	case "out":
		return svgzoom.Op{Kind: svgzoom.OpZoomOut}, nil
	}
	return svgzoom.Op{}, fmt.Errorf("%w %q", errUnknownOp, m.Op)
}

// patchLayer records the attribute writes of a View
type patchLayer struct {
	target string
	out    *[]Patch
}

func (l patchLayer) SetAttribute(name, value string) {
	*l.out = append(*l.out, Patch{Target: l.target, Name: name, Value: value})
}
