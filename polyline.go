package svg

import (
	"fmt"
	"strings"
)

// normalizePoly connects the points of a polyline, or of a polygon which
// is also closed.
func normalizePoly(e *Element, closed bool) (string, bool, error) {
	nums, err := parseNumbers(e.Attr("points"))
	if err != nil {
		return "", false, fmt.Errorf("%s points: %w", e.Tag(), err)
	}
	if len(nums)%2 != 0 {
		return "", false, fmt.Errorf("%w: %s has an odd number of coordinates", ErrMalformedGeometry, e.Tag())
	}
	if len(nums) == 0 {
		return "", false, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "M %s %s", num(nums[0]), num(nums[1]))
	for i := 2; i < len(nums); i += 2 {
		fmt.Fprintf(&b, " L %s %s", num(nums[i]), num(nums[i+1]))
	}
	if closed {
		b.WriteString(" Z")
	}
	return b.String(), true, nil
}
