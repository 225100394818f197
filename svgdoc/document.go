// Provides a minimal model of SVG documents,
// such as the ones produced by Graphviz, which
// exposes the nodes driven by a pan and zoom view
// and writes the document back untouched otherwise.
package svgdoc

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"github.com/benoitkugler/svgzoom/svgzoom"
	"golang.org/x/net/html/charset"
)

// ErrorMode determines how a missing graph layer is handled.
type ErrorMode uint8

const (
	// IgnoreErrorMode silently falls back to the first group of the canvas
	IgnoreErrorMode ErrorMode = iota
	// WarnErrorMode logs a warning, and falls back to the first group of the canvas
	WarnErrorMode
	// StrictErrorMode returns an error
	StrictErrorMode
)

// ParseErrorMode reads "ignore", "warn" or "strict".
func ParseErrorMode(s string) (ErrorMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ignore":
		return IgnoreErrorMode, nil
	case "warn", "":
		return WarnErrorMode, nil
	case "strict":
		return StrictErrorMode, nil
	}
	return 0, fmt.Errorf("invalid error mode %q", s)
}

var (
	// ErrNoCanvas is returned by Read when the document has no root <svg> element.
	ErrNoCanvas      = errors.New("svgdoc: missing root <svg> element")
	// ErrLayerNotFound is returned by Surface when no graph layer can be used.
	ErrLayerNotFound = errors.New("svgdoc: graph layer not found")
)

// attributes storing the original size of a stripped canvas
const (
	widthDataAttr  = "data-svgzoom-width"
	heightDataAttr = "data-svgzoom-height"
)

// Document is a parsed SVG document.
// It keeps every token of the source, so that
// encoding it back only reflects the attribute changes.
type Document struct {
	tokens []xml.Token
	canvas int // index of the root <svg> start element
	mode   ErrorMode
}

func flatName(n xml.Name) xml.Name {
	if n.Space == "" {
		return n
	}
	return xml.Name{Local: n.Space + ":" + n.Local}
}

// flatten removes the namespace prefixes, which are kept
// in the local names instead, since xml.Encoder
// would otherwise generate its own prefixes.
func flatten(se xml.StartElement) xml.StartElement {
	out := xml.StartElement{Name: flatName(se.Name), Attr: make([]xml.Attr, len(se.Attr))}
	for i, attr := range se.Attr {
		out.Attr[i] = xml.Attr{Name: flatName(attr.Name), Value: attr.Value}
	}
	return out
}

var encodingDecl = regexp.MustCompile(`encoding\s*=\s*["'][^"']*["']`)

// the decoder converts to UTF-8, so the declaration must follow
func normalizeDecl(pi xml.ProcInst) xml.ProcInst {
	if pi.Target != "xml" {
		return pi
	}
	pi.Inst = encodingDecl.ReplaceAll(pi.Inst, []byte(`encoding="UTF-8"`))
	return pi
}

// Read parses the document from the given io.Reader.
// `mode` is used when looking for the graph layer (see Surface).
func Read(stream io.Reader, mode ErrorMode) (*Document, error) {
	doc := &Document{canvas: -1, mode: mode}
	decoder := xml.NewDecoder(stream)
	decoder.CharsetReader = charset.NewReaderLabel
	depth := 0
	for {
		t, err := decoder.RawToken()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		switch tok := t.(type) {
		case xml.StartElement:
			flat := flatten(tok)
			if depth == 0 && doc.canvas == -1 && flat.Name.Local == "svg" {
				doc.canvas = len(doc.tokens)
			}
			depth++
			t = flat
		case xml.EndElement:
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("svgdoc: unexpected end element </%s>", tok.Name.Local)
			}
			t = xml.EndElement{Name: flatName(tok.Name)}
		case xml.ProcInst:
			t = normalizeDecl(tok.Copy())
		default:
			t = xml.CopyToken(t)
		}
		doc.tokens = append(doc.tokens, t)
	}
	if depth != 0 {
		return nil, fmt.Errorf("svgdoc: %d unclosed elements", depth)
	}
	if doc.canvas == -1 {
		return nil, ErrNoCanvas
	}
	return doc, nil
}

// ReadFile parses the named file.
func ReadFile(file string, mode ErrorMode) (*Document, error) {
	fin, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer fin.Close()
	return Read(fin, mode)
}

// Encode writes the document to `w`, in UTF-8.
func (d *Document) Encode(w io.Writer) error {
	enc := xml.NewEncoder(w)
	for _, t := range d.tokens {
		if err := enc.EncodeToken(t); err != nil {
			return err
		}
	}
	return enc.Flush()
}

// WriteFile encodes the document into the named file.
func (d *Document) WriteFile(file string) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	if err = d.Encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Canvas returns the root <svg> element.
func (d *Document) Canvas() *Element { return &Element{doc: d, index: d.canvas} }

// ElementByID returns the first element with the given id.
func (d *Document) ElementByID(id string) (*Element, bool) {
	for i, t := range d.tokens {
		se, ok := t.(xml.StartElement)
		if !ok {
			continue
		}
		if v, has := getAttr(se.Attr, "id"); has && v == id {
			return &Element{doc: d, index: i}, true
		}
	}
	return nil, false
}

// firstGroup returns the first <g> child of the canvas
func (d *Document) firstGroup() (*Element, bool) {
	depth := 0
	for i := d.canvas + 1; i < len(d.tokens); i++ {
		switch t := d.tokens[i].(type) {
		case xml.StartElement:
			if depth == 0 && t.Name.Local == "g" {
				return &Element{doc: d, index: i}, true
			}
			depth++
		case xml.EndElement:
			if depth == 0 { // end of the canvas
				return nil, false
			}
			depth--
		}
	}
	return nil, false
}

// Surface returns the canvas and the graph layer with id `layerID`,
// ready to be initialized.
// When the layer is not found, the behavior depends on the ErrorMode
// of the document: the first group of the canvas is used instead,
// unless the StrictErrorMode is used.
func (d *Document) Surface(layerID string) (svgzoom.Surface, error) {
	layer, ok := d.ElementByID(layerID)
	if !ok {
		if d.mode == StrictErrorMode {
			return svgzoom.Surface{}, fmt.Errorf("%w: no element with id %q", ErrLayerNotFound, layerID)
		}
		layer, ok = d.firstGroup()
		if !ok {
			return svgzoom.Surface{}, fmt.Errorf("%w: no element with id %q, and no group in the canvas", ErrLayerNotFound, layerID)
		}
		if d.mode == WarnErrorMode {
			id, _ := layer.Attribute("id")
			slog.Warn("graph layer not found, using the first group", "layer", layerID, "fallback", id)
		}
	}
	return svgzoom.Surface{Canvas: d.Canvas(), Graph: layer}, nil
}

// Dimensions returns the nominal size of the canvas: the size
// saved by StripFixedSize if any, or the current width and height attributes.
func (d *Document) Dimensions() svgzoom.Dimensions {
	canvas := d.Canvas()
	var dims svgzoom.Dimensions
	var ok bool
	if dims.Width, ok = canvas.Attribute(widthDataAttr); !ok {
		dims.Width, _ = canvas.Attribute("width")
	}
	if dims.Height, ok = canvas.Attribute(heightDataAttr); !ok {
		dims.Height, _ = canvas.Attribute("height")
	}
	return dims
}

// StripFixedSize removes the width and height of the canvas,
// so that it fills its container, and saves them for a later
// call to Dimensions. The nominal dimensions are returned.
// Zooming writes the size attributes again.
func (d *Document) StripFixedSize() svgzoom.Dimensions {
	dims := d.Dimensions()
	canvas := d.Canvas()
	canvas.SetAttribute(widthDataAttr, dims.Width)
	canvas.SetAttribute(heightDataAttr, dims.Height)
	canvas.RemoveAttribute("width")
	canvas.RemoveAttribute("height")
	return dims
}
