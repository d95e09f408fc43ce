package svg

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	mt "github.com/rustyoz/Mtransform"
	gl "github.com/rustyoz/genericlexer"
)

// ParseTransform parses an SVG transform list such as
// "translate(10 20) rotate(45)" into a single matrix. Transforms are
// composed left to right, so the rightmost one is applied to a point
// first. An empty string yields the identity.
func ParseTransform(s string) (mt.Transform, error) {
	t := mt.Identity()
	for _, op := range strings.Split(s, ")") {
		op = strings.Trim(op, " \t\r\n,")
		if op == "" {
			continue
		}
		name, args, ok := strings.Cut(op, "(")
		if !ok {
			return t, fmt.Errorf("%w: transform %q", ErrMalformedGeometry, s)
		}
		nums, err := parseNumbers(args)
		if err != nil {
			return t, fmt.Errorf("transform %q: %w", s, err)
		}
		m, err := transformFunc(strings.TrimSpace(name), nums)
		if err != nil {
			return t, fmt.Errorf("transform %q: %w", s, err)
		}
		t = mt.MultiplyTransforms(t, m)
	}
	return t, nil
}

func transformFunc(name string, a []float64) (mt.Transform, error) {
	arity := func(counts ...int) error {
		for _, c := range counts {
			if len(a) == c {
				return nil
			}
		}
		return fmt.Errorf("%w: %s takes %v arguments, got %d", ErrMalformedGeometry, name, counts, len(a))
	}

	switch name {
	case "matrix":
		if err := arity(6); err != nil {
			return mt.Identity(), err
		}
		return matrix(a[0], a[1], a[2], a[3], a[4], a[5]), nil
	case "translate":
		if err := arity(1, 2); err != nil {
			return mt.Identity(), err
		}
		if len(a) == 1 {
			return translate(a[0], 0), nil
		}
		return translate(a[0], a[1]), nil
	case "scale":
		if err := arity(1, 2); err != nil {
			return mt.Identity(), err
		}
		if len(a) == 1 {
			return scale(a[0], a[0]), nil
		}
		return scale(a[0], a[1]), nil
	case "rotate":
		if err := arity(1, 3); err != nil {
			return mt.Identity(), err
		}
		if len(a) == 1 {
			return rotate(a[0]), nil
		}
		t := mt.MultiplyTransforms(translate(a[1], a[2]), rotate(a[0]))
		return mt.MultiplyTransforms(t, translate(-a[1], -a[2])), nil
	case "skewX":
		if err := arity(1); err != nil {
			return mt.Identity(), err
		}
		return matrix(1, 0, math.Tan(a[0]*math.Pi/180), 1, 0, 0), nil
	case "skewY":
		if err := arity(1); err != nil {
			return mt.Identity(), err
		}
		return matrix(1, math.Tan(a[0]*math.Pi/180), 0, 1, 0, 0), nil
	}
	return mt.Identity(), fmt.Errorf("%w: unknown transform %q", ErrMalformedGeometry, name)
}

// matrix builds the transform written as matrix(a b c d e f) in SVG.
func matrix(a, b, c, d, e, f float64) mt.Transform {
	t := mt.Identity()
	t[0][0], t[0][1], t[0][2] = a, c, e
	t[1][0], t[1][1], t[1][2] = b, d, f
	return t
}

func translate(x, y float64) mt.Transform {
	return matrix(1, 0, 0, 1, x, y)
}

func scale(x, y float64) mt.Transform {
	return matrix(x, 0, 0, y, 0, 0)
}

func rotate(degrees float64) mt.Transform {
	sin, cos := math.Sincos(degrees * math.Pi / 180)
	return matrix(cos, sin, -sin, cos, 0, 0)
}

// Translate returns a pure translation.
func Translate(x, y float64) mt.Transform {
	return translate(x, y)
}

// Apply transforms p by m.
func Apply(m mt.Transform, p Tuple) Tuple {
	x, y := m.Apply(p[0], p[1])
	return Tuple{x, y}
}

// parseNumbers reads a whitespace and/or comma separated list of numbers
// such as the arguments of a transform, a viewBox or a points attribute.
func parseNumbers(s string) ([]float64, error) {
	l := newLexer("numbers", s)
	defer l.close()

	var nums []float64
	for {
		l.ConsumeWhiteSpace()
		l.ConsumeComma()
		l.ConsumeWhiteSpace()

		i := l.NextItem()
		switch i.Type {
		case gl.ItemEOS:
			if rest := l.rest(i); rest != "" {
				return nil, fmt.Errorf("%w: unexpected %q in number list %q", ErrMalformedGeometry, rest, s)
			}
			return nums, nil
		case gl.ItemNumber:
			n, err := strconv.ParseFloat(i.Value, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: number %q", ErrMalformedGeometry, i.Value)
			}
			nums = append(nums, n)
		default:
			return nil, fmt.Errorf("%w: unexpected %q in number list %q", ErrMalformedGeometry, i.Value, s)
		}
	}
}
