package plot

import (
	"strconv"
	"strings"
	"unicode"
)

// LayerSelection chooses which layers a job plots.
type LayerSelection struct {
	All   bool
	Layer int
}

// AllLayers selects everything in the document.
func AllLayers() LayerSelection {
	return LayerSelection{All: true}
}

// OnlyLayer selects the layers numbered n.
func OnlyLayer(n int) LayerSelection {
	return LayerSelection{Layer: n}
}

// ID is the layer number persisted with the job's progress.
func (l LayerSelection) ID() int {
	if l.All {
		return 0
	}
	return l.Layer
}

// Match reports whether a layer with the given label is selected.
func (l LayerSelection) Match(label string) bool {
	if l.All {
		return true
	}
	n, ok := ParseLayerLabel(label)
	return ok && n == l.Layer
}

// ParseLayerLabel returns the number formed by the leading digits of a
// layer label, ignoring leading white space. "3abc" and "03" are both
// layer 3; a label not starting with a digit has no number.
func ParseLayerLabel(label string) (int, bool) {
	s := strings.TrimLeftFunc(label, unicode.IsSpace)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
