package svgzoom

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var errBadOp = errors.New("malformed operation")

// OpKind identifies a View operation.
type OpKind uint8

const (
	OpPan     OpKind = iota // translation by (DX, DY)
	OpZoom                  // zoom by Factor
	OpZoomIn                // zoom by the zoom step
	OpZoomOut               // zoom by the inverse of the zoom step
)

// Op is a recorded View operation, as read from a script
// or a remote client.
type Op struct {
	Kind   OpKind
	DX, DY float64 // for OpPan
	Factor float64 // for OpZoom
}

// String returns the textual form of the operation, accepted by ParseOp.
func (op Op) String() string {
	switch op.Kind {
	case OpPan:
		return "pan:" + FormatNumber(op.DX) + "," + FormatNumber(op.DY)
	case OpZoom:
		return "zoom:" + FormatNumber(op.Factor)
	case OpZoomIn:
		return "in"
	case OpZoomOut:
		return "out"
	default:
		return "<unknown op>"
	}
}

// ApplyTo performs the operation on `v`.
func (op Op) ApplyTo(v *View) {
	switch op.Kind {
	case OpPan:
		v.Pan(op.DX, op.DY)
	case OpZoom:
		v.Zoom(op.Factor)
	case OpZoomIn:
		v.ZoomIn()
	case OpZoomOut:
		v.ZoomOut()
	}
}

func parseNumbers(args string, n int) ([]float64, error) {
	fields := strings.FieldsFunc(args, func(r rune) bool { return r == ',' || r == ' ' })
	if len(fields) != n {
		return nil, fmt.Errorf("%w: expected %d numbers, got %q", errBadOp, n, args)
	}
	out := make([]float64, n)
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", errBadOp, err)
		}
		out[i] = v
	}
	return out, nil
}

// ParseOp reads one operation among
//	pan:DX,DY
//	zoom:FACTOR
//	in
//	out
// Contrary to canvas dimensions, scripts are user input,
// so malformed numbers are reported.
func ParseOp(s string) (Op, error) {
	s = strings.TrimSpace(s)
	name, args, _ := strings.Cut(s, ":")
	switch strings.ToLower(name) {
	case "pan":
		nums, err := parseNumbers(args, 2)
		if err != nil {
			return Op{}, err
		}
		return Op{Kind: OpPan, DX: nums[0], DY: nums[1]}, nil
	case "zoom":
		nums, err := parseNumbers(args, 1)
		if err != nil {
			return Op{}, err
		}
		return Op{Kind: OpZoom, Factor: nums[0]}, nil
	case "in":
		return Op{Kind: OpZoomIn}, nil
	case "out":
		return Op{Kind: OpZoomOut}, nil
	}
	return Op{}, fmt.Errorf("%w: unknown operation %q", errBadOp, s)
}

// ParseOps parses each item of `script`, stopping at the first error.
func ParseOps(script []string) ([]Op, error) {
	ops := make([]Op, 0, len(script))
	for i, s := range script {
		op, err := ParseOp(s)
		if err != nil {
			return nil, fmt.Errorf("operation %d: %w", i+1, err)
		}
		ops = append(ops, op)
	}
	return ops, nil
}
