package svg

import (
	"fmt"
	"strconv"
	"strings"
)

// Normalize converts a primitive shape element into equivalent path
// data. The element's own transform attribute is not applied. ok is
// false when the shape has nothing to draw, for example a circle with
// zero radius or a polyline without points.
func Normalize(e *Element) (d string, ok bool, err error) {
	switch e.Kind {
	case KindRect:
		return normalizeRect(e)
	case KindLine:
		return normalizeLine(e)
	case KindPolyline:
		return normalizePoly(e, false)
	case KindPolygon:
		return normalizePoly(e, true)
	case KindEllipse:
		return normalizeEllipse(e)
	case KindPath:
		d := e.Attr("d")
		return d, d != "", nil
	}
	return "", false, fmt.Errorf("%w: %s is not a shape", ErrMalformedGeometry, e.Tag())
}

// rect with its three explicit sides, closed by Z
func normalizeRect(e *Element) (string, bool, error) {
	x, err := e.number("x", false)
	if err != nil {
		return "", false, err
	}
	y, err := e.number("y", false)
	if err != nil {
		return "", false, err
	}
	w, err := e.number("width", true)
	if err != nil {
		return "", false, err
	}
	h, err := e.number("height", true)
	if err != nil {
		return "", false, err
	}

	return fmt.Sprintf("M %s %s l %s 0 l 0 %s l %s 0 Z", num(x), num(y), num(w), num(h), num(-w)), true, nil
}

func normalizeLine(e *Element) (string, bool, error) {
	var c [4]float64
	for i, name := range []string{"x1", "y1", "x2", "y2"} {
		v, err := e.number(name, false)
		if err != nil {
			return "", false, err
		}
		c[i] = v
	}
	return fmt.Sprintf("M %s %s L %s %s", num(c[0]), num(c[1]), num(c[2]), num(c[3])), true, nil
}

// Number returns an optional numeric attribute, 0 when it is absent.
func (e *Element) Number(name string) (float64, error) {
	return e.number(name, false)
}

// number reads a numeric attribute. Absent optional attributes read as
// zero; a px suffix is accepted.
func (e *Element) number(name string, required bool) (float64, error) {
	v, ok := e.LookupAttr(name)
	v = strings.TrimSpace(v)
	if !ok || v == "" {
		if required {
			return 0, fmt.Errorf("%w: %s is missing %s", ErrMalformedGeometry, e.Tag(), name)
		}
		return 0, nil
	}
	n, err := strconv.ParseFloat(strings.TrimSuffix(v, "px"), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %s=%q", ErrMalformedGeometry, e.Tag(), name, v)
	}
	return n, nil
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
