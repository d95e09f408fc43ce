package svg

import (
	"fmt"
	"strconv"
	"strings"

	mt "github.com/rustyoz/Mtransform"
)

// Default page size in user units, used when the document does not say.
const (
	DefaultWidth  = 2000
	DefaultHeight = 2000
)

// Dimensions returns the document width and height in user units.
// Missing attributes fall back to the defaults, percentages are taken of
// the defaults. Only pixel and unitless lengths are understood.
func (s *Svg) Dimensions(defWidth, defHeight float64) (float64, float64, error) {
	w, err := parseLength(s.Root, "width", defWidth)
	if err != nil {
		return 0, 0, err
	}
	h, err := parseLength(s.Root, "height", defHeight)
	if err != nil {
		return 0, 0, err
	}
	return w, h, nil
}

func parseLength(e *Element, name string, def float64) (float64, error) {
	v := strings.TrimSpace(e.Attr(name))
	if v == "" {
		return def, nil
	}

	percent := false
	switch {
	case strings.HasSuffix(v, "px"):
		v = strings.TrimSuffix(v, "px")
	case strings.HasSuffix(v, "%"):
		v = strings.TrimSuffix(v, "%")
		percent = true
	}

	n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("%w: %s=%q", ErrInvalidDimensions, name, e.Attr(name))
	}
	if percent {
		return def * n / 100, nil
	}
	return n, nil
}

// InitialTransform maps the viewBox onto a page of the given size. It is
// the identity when the document has no viewBox or a viewBox with a
// zero extent.
func (s *Svg) InitialTransform(width, height float64) (mt.Transform, error) {
	vb := strings.TrimSpace(s.Root.Attr("viewBox"))
	if vb == "" {
		return mt.Identity(), nil
	}

	nums, err := parseNumbers(vb)
	if err != nil || len(nums) != 4 {
		return mt.Identity(), fmt.Errorf("%w: viewBox=%q", ErrInvalidDimensions, vb)
	}
	if nums[2] == 0 || nums[3] == 0 {
		return mt.Identity(), nil
	}

	return mt.MultiplyTransforms(
		scale(width/nums[2], height/nums[3]),
		translate(-nums[0], -nums[1]),
	), nil
}
