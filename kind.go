package svg

import "encoding/xml"

// Kind classifies a document element for traversal.
type Kind int

const (
	KindUnsupported Kind = iota
	KindGroup
	KindPath
	KindRect
	KindLine
	KindPolyline
	KindPolygon
	KindEllipse
	KindUse
	KindIgnored
)

var kindNames = map[Kind]string{
	KindUnsupported: "unsupported",
	KindGroup:       "group",
	KindPath:        "path",
	KindRect:        "rect",
	KindLine:        "line",
	KindPolyline:    "polyline",
	KindPolygon:     "polygon",
	KindEllipse:     "ellipse",
	KindUse:         "use",
	KindIgnored:     "ignored",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Shape reports whether the kind is a primitive that Normalize turns
// into path data.
func (k Kind) Shape() bool {
	switch k {
	case KindRect, KindLine, KindPolyline, KindPolygon, KindEllipse:
		return true
	}
	return false
}

var kindByTag = map[string]Kind{
	"g":        KindGroup,
	"path":     KindPath,
	"rect":     KindRect,
	"line":     KindLine,
	"polyline": KindPolyline,
	"polygon":  KindPolygon,
	"circle":   KindEllipse,
	"ellipse":  KindEllipse,
	"use":      KindUse,

	// administrative content, skipped without a warning
	"defs":           KindIgnored,
	"metadata":       KindIgnored,
	"namedview":      KindIgnored,
	MarkerTag:        KindIgnored,
	"title":          KindIgnored,
	"desc":           KindIgnored,
	"style":          KindIgnored,
	"script":         KindIgnored,
	"pattern":        KindIgnored,
	"linearGradient": KindIgnored,
	"radialGradient": KindIgnored,
	"cursor":         KindIgnored,
	"color-profile":  KindIgnored,
	"clipPath":       KindIgnored,
	"mask":           KindIgnored,
	"marker":         KindIgnored,
	"filter":         KindIgnored,
}

// Classify maps an element name to its Kind. Only the local part of the
// name is considered, so sodipodi:namedview and svg:defs classify the
// same as their unprefixed forms.
func Classify(name xml.Name) Kind {
	if k, ok := kindByTag[name.Local]; ok {
		return k
	}
	return KindUnsupported
}
