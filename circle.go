package svg

import "fmt"

// normalizeEllipse draws circles and ellipses as two half arcs starting
// at the leftmost point.
func normalizeEllipse(e *Element) (string, bool, error) {
	cx, err := e.number("cx", false)
	if err != nil {
		return "", false, err
	}
	cy, err := e.number("cy", false)
	if err != nil {
		return "", false, err
	}

	var rx, ry float64
	if e.Tag() == "circle" {
		if rx, err = e.number("r", false); err != nil {
			return "", false, err
		}
		ry = rx
	} else {
		if rx, err = e.number("rx", false); err != nil {
			return "", false, err
		}
		if ry, err = e.number("ry", false); err != nil {
			return "", false, err
		}
		// a single radius is used for both axes
		_, hasRX := e.LookupAttr("rx")
		_, hasRY := e.LookupAttr("ry")
		switch {
		case hasRX && !hasRY:
			ry = rx
		case hasRY && !hasRX:
			rx = ry
		}
	}
	if rx <= 0 || ry <= 0 {
		return "", false, nil
	}

	x1, x2 := num(cx-rx), num(cx+rx)
	arc := fmt.Sprintf("A %s %s 0 1 0", num(rx), num(ry))
	return fmt.Sprintf("M %s %s %s %s %s %s %s %s", x1, num(cy), arc, x2, num(cy), arc, x1, num(cy)), true, nil
}
