package svg

import (
	"math"

	mt "github.com/rustyoz/Mtransform"
)

// DefaultMaxDepth bounds the bisection of a single cubic segment.
const DefaultMaxDepth = 16

// Flatten applies m to every control point of the chain and then
// bisects each cubic segment until both of its inner control points lie
// within tolerance of the chord. The result holds one point list per
// subpath, starting with the subpath's first point. maxDepth caps the
// bisection depth of each segment; values below 1 use DefaultMaxDepth.
func Flatten(chain Chain, m mt.Transform, tolerance float64, maxDepth int) [][]Tuple {
	if maxDepth < 1 {
		maxDepth = DefaultMaxDepth
	}

	out := make([][]Tuple, 0, len(chain))
	for _, sp := range chain {
		if len(sp) == 0 {
			continue
		}

		nodes := make(Subpath, len(sp))
		for i, n := range sp {
			for j, p := range n {
				nodes[i][j] = Apply(m, p)
			}
		}

		points := []Tuple{nodes[0][1]}
		for i := 1; i < len(nodes); i++ {
			seg := cubic{nodes[i-1][1], nodes[i-1][2], nodes[i][0], nodes[i][1]}
			for _, piece := range seg.subdivide(nil, tolerance, maxDepth) {
				points = append(points, piece[3])
			}
		}
		out = append(out, points)
	}
	return out
}

// cubic is a bezier segment given by its four control points.
type cubic [4]Tuple

// subdivide appends the pieces of c, in order, that are flat within tol.
func (c cubic) subdivide(pieces []cubic, tol float64, depth int) []cubic {
	if depth <= 0 || c.deviation() <= tol {
		return append(pieces, c)
	}
	a, b := c.split()
	pieces = a.subdivide(pieces, tol, depth-1)
	return b.subdivide(pieces, tol, depth-1)
}

// split cuts c in half at t=0.5 with de Casteljau's algorithm.
func (c cubic) split() (cubic, cubic) {
	m01 := mid(c[0], c[1])
	m12 := mid(c[1], c[2])
	m23 := mid(c[2], c[3])
	m012 := mid(m01, m12)
	m123 := mid(m12, m23)
	m := mid(m012, m123)
	return cubic{c[0], m01, m012, m}, cubic{m, m123, m23, c[3]}
}

// deviation is the larger distance of the inner control points from the
// chord. The curve lies in the hull of its control points, so this
// bounds the distance of every curve point from the chord.
func (c cubic) deviation() float64 {
	return math.Max(distToSegment(c[1], c[0], c[3]), distToSegment(c[2], c[0], c[3]))
}

// at evaluates the curve at parameter t.
func (c cubic) at(t float64) Tuple {
	u := 1 - t
	a, b, cc, d := u*u*u, 3*u*u*t, 3*u*t*t, t*t*t
	return Tuple{
		a*c[0][0] + b*c[1][0] + cc*c[2][0] + d*c[3][0],
		a*c[0][1] + b*c[1][1] + cc*c[2][1] + d*c[3][1],
	}
}

func mid(a, b Tuple) Tuple {
	return Tuple{(a[0] + b[0]) / 2, (a[1] + b[1]) / 2}
}

// distToSegment is the distance from p to the segment a-b.
func distToSegment(p, a, b Tuple) float64 {
	dx, dy := b[0]-a[0], b[1]-a[1]
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return math.Hypot(p[0]-a[0], p[1]-a[1])
	}
	t := ((p[0]-a[0])*dx + (p[1]-a[1])*dy) / l2
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(p[0]-(a[0]+t*dx), p[1]-(a[1]+t*dy))
}
