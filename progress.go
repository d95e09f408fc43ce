package svg

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"
)

// MarkerTag is the name of the root child element holding Progress.
const MarkerTag = "lus"

// Progress is the plotting state persisted in the document between runs.
type Progress struct {
	Layer       int
	Node        int
	LastPath    int
	LastPathNC  int
	TotalDeltaX int
	TotalDeltaY int
}

func (p *Progress) fields() []struct {
	name string
	v    *int
} {
	return []struct {
		name string
		v    *int
	}{
		{"layer", &p.Layer},
		{"node", &p.Node},
		{"lastpath", &p.LastPath},
		{"lastpathnc", &p.LastPathNC},
		{"totaldeltax", &p.TotalDeltaX},
		{"totaldeltay", &p.TotalDeltaY},
	}
}

// Marker returns the first progress marker among the root's children.
func (s *Svg) Marker() *Element {
	for _, c := range s.Root.Children {
		if isMarker(c.Name) {
			return c
		}
	}
	return nil
}

func isMarker(n xml.Name) bool {
	return n.Local == MarkerTag && (n.Space == "" || n.Space == NamespaceSVG)
}

// ReadProgress returns the persisted progress of the document. A missing
// marker, or one with any unparsable field, reads as the zero Progress.
func ReadProgress(s *Svg) Progress {
	m := s.Marker()
	if m == nil {
		return Progress{}
	}

	var p Progress
	for _, f := range p.fields() {
		v, ok := m.LookupAttr(f.name)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return Progress{}
		}
		*f.v = n
	}
	return p
}

// String renders the marker element.
func (p Progress) String() string {
	var b strings.Builder
	b.WriteString("<" + MarkerTag)
	for _, f := range p.fields() {
		fmt.Fprintf(&b, " %s=\"%d\"", f.name, *f.v)
	}
	b.WriteString("/>")
	return b.String()
}

// WriteProgress returns a copy of the document src with its progress
// marker replaced by p, or with p inserted as the last child of the
// root when there is no marker. Everything else is left untouched.
func WriteProgress(src []byte, p Progress) ([]byte, error) {
	decoder := xml.NewDecoder(bytes.NewReader(src))
	decoder.CharsetReader = charset.NewReaderLabel

	depth := 0
	for {
		offset := decoder.InputOffset()
		token, err := decoder.Token()
		if err != nil {
			return nil, fmt.Errorf("locating progress marker: %w", err)
		}

		switch tok := token.(type) {
		case xml.StartElement:
			depth++
			if depth == 2 && isMarker(tok.Name) {
				if err := decoder.Skip(); err != nil {
					return nil, fmt.Errorf("locating progress marker: %w", err)
				}
				return splice(src, int(offset), int(decoder.InputOffset()), p.String()), nil
			}
		case xml.EndElement:
			depth--
			if depth == 0 {
				return splice(src, int(offset), int(offset), p.String()+"\n"), nil
			}
		}
	}
}

func splice(src []byte, from, to int, s string) []byte {
	out := make([]byte, 0, len(src)+len(s))
	out = append(out, src[:from]...)
	out = append(out, s...)
	return append(out, src[to:]...)
}
