package svg

import "math"

// maxArcSweep is the largest angle covered by one cubic of an arc.
const maxArcSweep = math.Pi / 8

// arcToCubics approximates the elliptical arc from p0 to p with cubic
// curves, returned as (control 1, control 2, end) triples. Radii that
// are too small to reach p are scaled up as SVG requires.
func arcToCubics(p0 Tuple, rx, ry, rotation float64, largeArc, sweep bool, p Tuple) [][3]Tuple {
	rx, ry = math.Abs(rx), math.Abs(ry)
	sinPhi, cosPhi := math.Sincos(rotation * math.Pi / 180)

	// endpoint to centre parameterization
	dx2, dy2 := (p0[0]-p[0])/2, (p0[1]-p[1])/2
	x1 := cosPhi*dx2 + sinPhi*dy2
	y1 := -sinPhi*dx2 + cosPhi*dy2

	if lambda := x1*x1/(rx*rx) + y1*y1/(ry*ry); lambda > 1 {
		s := math.Sqrt(lambda)
		rx, ry = rx*s, ry*s
	}

	rx2, ry2 := rx*rx, ry*ry
	num := rx2*ry2 - rx2*y1*y1 - ry2*x1*x1
	den := rx2*y1*y1 + ry2*x1*x1
	coef := 0.0
	if num > 0 && den != 0 {
		coef = math.Sqrt(num / den)
	}
	if largeArc == sweep {
		coef = -coef
	}
	ccx := coef * rx * y1 / ry
	ccy := -coef * ry * x1 / rx
	cx := cosPhi*ccx - sinPhi*ccy + (p0[0]+p[0])/2
	cy := sinPhi*ccx + cosPhi*ccy + (p0[1]+p[1])/2

	ux, uy := (x1-ccx)/rx, (y1-ccy)/ry
	vx, vy := (-x1-ccx)/rx, (-y1-ccy)/ry
	eta := math.Atan2(uy, ux)
	delta := math.Atan2(ux*vy-uy*vx, ux*vx+uy*vy)
	if !sweep && delta > 0 {
		delta -= 2 * math.Pi
	} else if sweep && delta < 0 {
		delta += 2 * math.Pi
	}

	segs := int(math.Abs(delta)/maxArcSweep) + 1
	dEta := delta / float64(segs)
	tde := math.Tan(dEta / 2)
	alpha := math.Sin(dEta) * (math.Sqrt(4+3*tde*tde) - 1) / 3

	curves := make([][3]Tuple, 0, segs)
	lx, ly := p0[0], p0[1]
	ldx, ldy := ellipsePrime(rx, ry, sinPhi, cosPhi, eta)
	for i := 1; i <= segs; i++ {
		eta += dEta
		px, py := ellipsePointAt(rx, ry, sinPhi, cosPhi, eta, cx, cy)
		if i == segs {
			px, py = p[0], p[1]
		}
		dx, dy := ellipsePrime(rx, ry, sinPhi, cosPhi, eta)
		curves = append(curves, [3]Tuple{
			{lx + alpha*ldx, ly + alpha*ldy},
			{px - alpha*dx, py - alpha*dy},
			{px, py},
		})
		lx, ly, ldx, ldy = px, py, dx, dy
	}
	return curves
}

// ellipsePointAt gives the point at parametric angle eta of the ellipse
// centred on (cx, cy) and rotated by phi.
func ellipsePointAt(a, b, sinPhi, cosPhi, eta, cx, cy float64) (float64, float64) {
	sinEta, cosEta := math.Sincos(eta)
	px := cx + a*cosEta*cosPhi - b*sinEta*sinPhi
	py := cy + a*cosEta*sinPhi + b*sinEta*cosPhi
	return px, py
}

// ellipsePrime gives the derivative of ellipsePointAt with respect to eta.
func ellipsePrime(a, b, sinPhi, cosPhi, eta float64) (float64, float64) {
	sinEta, cosEta := math.Sincos(eta)
	px := -a*sinEta*cosPhi - b*cosEta*sinPhi
	py := -a*sinEta*sinPhi + b*cosEta*cosPhi
	return px, py
}
