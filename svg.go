package svg

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	mt "github.com/rustyoz/Mtransform"
	"golang.org/x/net/html/charset"
)

// Namespaces of the attributes the plotter reads besides plain SVG ones.
const (
	NamespaceSVG      = "http://www.w3.org/2000/svg"
	NamespaceXLink    = "http://www.w3.org/1999/xlink"
	NamespaceInkscape = "http://www.inkscape.org/namespaces/inkscape"
)

// Svg represents a parsed SVG document.
type Svg struct {
	Name string
	Root *Element
	ids  map[string]*Element
}

// Element is one element of the document tree. Kind is assigned once
// while decoding.
type Element struct {
	Name     xml.Name
	Kind     Kind
	Attrs    []xml.Attr
	Children []*Element
	Parent   *Element
}

// UnmarshalXML implements the encoding.xml.Unmarshaler interface
func (e *Element) UnmarshalXML(decoder *xml.Decoder, start xml.StartElement) error {
	e.Name = start.Name
	e.Kind = Classify(start.Name)
	e.Attrs = append([]xml.Attr(nil), start.Attr...)

	for {
		token, err := decoder.Token()
		if err != nil {
			return err
		}

		switch tok := token.(type) {
		case xml.StartElement:
			child := &Element{Parent: e}
			if err = decoder.DecodeElement(child, &tok); err != nil {
				return fmt.Errorf("error decoding %s element: %w", tok.Name.Local, err)
			}
			e.Children = append(e.Children, child)
		case xml.EndElement:
			return nil
		}
	}
}

// Tag is the local element name, used in warnings about unsupported
// elements.
func (e *Element) Tag() string {
	return e.Name.Local
}

// Attr returns the value of an unqualified attribute.
func (e *Element) Attr(name string) string {
	v, _ := e.LookupAttr(name)
	return v
}

// LookupAttr is like Attr but also reports whether the attribute is
// present.
func (e *Element) LookupAttr(name string) (string, bool) {
	return e.attrNS(name, "", NamespaceSVG)
}

func (e *Element) attrNS(name string, spaces ...string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name.Local != name {
			continue
		}
		for _, s := range spaces {
			if a.Name.Space == s {
				return a.Value, true
			}
		}
	}
	return "", false
}

// ID returns the element id.
func (e *Element) ID() string {
	return e.Attr("id")
}

// IsLayer reports whether the element is an Inkscape layer group.
func (e *Element) IsLayer() bool {
	if e.Kind != KindGroup {
		return false
	}
	mode, _ := e.attrNS("groupmode", NamespaceInkscape, "inkscape")
	return mode == "layer"
}

// Label returns the Inkscape label of the element.
func (e *Element) Label() string {
	v, _ := e.attrNS("label", NamespaceInkscape, "inkscape")
	return v
}

// Href returns the reference of a use element, preferring xlink:href
// over the plain href attribute.
func (e *Element) Href() string {
	if v, ok := e.attrNS("href", NamespaceXLink, "xlink"); ok {
		return v
	}
	return e.Attr("href")
}

// Transform parses the element's own transform attribute.
func (e *Element) Transform() (mt.Transform, error) {
	return ParseTransform(e.Attr("transform"))
}

// UnmarshalXML implements the encoding.xml.Unmarshaler interface
func (s *Svg) UnmarshalXML(decoder *xml.Decoder, start xml.StartElement) error {
	if start.Name.Local != "svg" {
		return fmt.Errorf("%w: found %s", ErrNotSVG, start.Name.Local)
	}
	root := &Element{}
	if err := root.UnmarshalXML(decoder, start); err != nil {
		return err
	}
	s.Root = root
	return nil
}

// Lookup returns the first element with the given id, or nil.
func (s *Svg) Lookup(id string) *Element {
	return s.ids[id]
}

func (s *Svg) index() {
	s.ids = make(map[string]*Element)
	var walk func(e *Element)
	walk = func(e *Element) {
		if id := e.ID(); id != "" {
			if _, ok := s.ids[id]; !ok {
				s.ids[id] = e
			}
		}
		for _, c := range e.Children {
			walk(c)
		}
	}
	walk(s.Root)
}

// ParseSvg parses an SVG string into an SVG struct
func ParseSvg(str string, name string) (*Svg, error) {
	return ParseSvgFromReader(strings.NewReader(str), name)
}

// ParseSvgFromReader parses an SVG struct from an io.Reader. Documents
// declaring a non UTF-8 encoding are transcoded.
func ParseSvgFromReader(r io.Reader, name string) (*Svg, error) {
	svg := &Svg{Name: name}

	decoder := xml.NewDecoder(r)
	decoder.CharsetReader = charset.NewReaderLabel
	if err := decoder.Decode(svg); err != nil {
		return nil, fmt.Errorf("ParseSvg Error: %w", err)
	}
	if svg.Root == nil {
		return nil, fmt.Errorf("ParseSvg Error: %w", ErrNotSVG)
	}

	svg.index()
	return svg, nil
}
