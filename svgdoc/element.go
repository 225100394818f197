package svgdoc

import (
	"encoding/xml"

	"github.com/benoitkugler/svgzoom/svgzoom"
)

var _ svgzoom.Layer = (*Element)(nil) // assert interface conformance

// Element is a handle on a start element of a Document.
// Prefixed names are written with their prefix, such as "xlink:href".
type Element struct {
	doc   *Document
	index int
}

func (e *Element) start() xml.StartElement { return e.doc.tokens[e.index].(xml.StartElement) }

func getAttr(attrs []xml.Attr, name string) (string, bool) {
	for _, attr := range attrs {
		if attr.Name.Local == name {
			return attr.Value, true
		}
	}
	return "", false
}

// Name returns the tag of the element.
func (e *Element) Name() string { return e.start().Name.Local }

// Attribute returns the value of the attribute `name`.
func (e *Element) Attribute(name string) (string, bool) {
	return getAttr(e.start().Attr, name)
}

// SetAttribute updates or appends the attribute `name`.
func (e *Element) SetAttribute(name, value string) {
	se := e.start()
	for i := range se.Attr {
		if se.Attr[i].Name.Local == name {
			se.Attr[i].Value = value
			return
		}
	}
	se.Attr = append(se.Attr, xml.Attr{Name: xml.Name{Local: name}, Value: value})
	e.doc.tokens[e.index] = se
}

// RemoveAttribute deletes the attribute `name`, if present.
func (e *Element) RemoveAttribute(name string) {
	se := e.start()
	kept := se.Attr[:0]
	for _, attr := range se.Attr {
		if attr.Name.Local != name {
			kept = append(kept, attr)
		}
	}
	se.Attr = kept
	e.doc.tokens[e.index] = se
}

// Transform parses the `transform` attribute of the element,
// returning the identity when it is absent.
func (e *Element) Transform() (svgzoom.Matrix, error) {
	v, ok := e.Attribute("transform")
	if !ok {
		return Identity, nil
	}
	return ParseTransform(v)
}
