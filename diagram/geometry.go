package diagram

import "math"

// Point is a position on the canvas in pixels.
type Point struct {
	X, Y float64
}

// Circle is the result of CircleFromThreePoints.
type Circle struct {
	X, Y   float64
	Radius float64
}

// Arcs flatter than this are drawn and hit-tested as straight segments.
const MaxArcRadius = 1e6

const collinearEpsilon = 1e-9

// det returns the determinant of the 3x3 matrix given in row order.
func det(a, b, c, d, e, f, g, h, i float64) float64 {
	return a*e*i + b*f*g + c*d*h - a*f*h - b*d*i - c*e*g
}

// CircleFromThreePoints returns the circle through (x1, y1), (x2, y2) and
// (x3, y3). ok is false when the points are collinear (or so close to it that
// the radius is not usable).
func CircleFromThreePoints(x1, y1, x2, y2, x3, y3 float64) (c Circle, ok bool) {
	a := det(x1, y1, 1, x2, y2, 1, x3, y3, 1)
	if math.Abs(a) < collinearEpsilon {
		return Circle{}, false
	}
	s1 := x1*x1 + y1*y1
	s2 := x2*x2 + y2*y2
	s3 := x3*x3 + y3*y3
	bx := -det(s1, y1, 1, s2, y2, 1, s3, y3, 1)
	by := det(s1, x1, 1, s2, x2, 1, s3, x3, 1)
	cc := -det(s1, x1, y1, s2, x2, y2, s3, x3, y3)

	radius := math.Sqrt(bx*bx+by*by-4*a*cc) / (2 * math.Abs(a))
	if math.IsNaN(radius) || math.IsInf(radius, 0) || radius > MaxArcRadius {
		return Circle{}, false
	}
	return Circle{X: -bx / (2 * a), Y: -by / (2 * a), Radius: radius}, true
}

// closestPointOnCircle returns the point on the circle of the given radius
// around center that lies in the direction of toward. If toward coincides
// with center the point at angle 0 is returned.
func closestPointOnCircle(center Point, radius float64, toward Point) Point {
	dx := toward.X - center.X
	dy := toward.Y - center.Y
	scale := math.Sqrt(dx*dx + dy*dy)
	if scale == 0 {
		return Point{X: center.X + radius, Y: center.Y}
	}
	return Point{
		X: center.X + dx*radius/scale,
		Y: center.Y + dy*radius/scale,
	}
}

// ArrowHead returns the triangle of an arrow head whose tip is at (x, y)
// pointing in the direction angle.
func ArrowHead(x, y, angle float64) [3]Point {
	dx := math.Cos(angle)
	dy := math.Sin(angle)
	return [3]Point{
		{X: x, Y: y},
		{X: x - 8*dx + 5*dy, Y: y - 8*dy - 5*dx},
		{X: x - 8*dx - 5*dy, Y: y - 8*dy + 5*dx},
	}
}

// LabelPosition returns the anchor of a connector label of the given pixel
// width placed at (x, y) on a connector heading in direction angle. The label
// is pushed offset pixels along the angle and, unless the user has dragged it
// into place, slid onto the convex side of the connector. The slide blends
// continuously with the angle so labels do not jump as it crosses an axis.
func LabelPosition(x, y, angle, width, fontSize, offset float64, dragged bool) Point {
	cos := math.Cos(angle)
	sin := math.Sin(angle)

	x += offset * cos
	y += offset * sin

	if !dragged {
		dy := math.Round(fontSize / 2)
		cornerX := width / 2
		if cos <= 0 {
			cornerX = -cornerX
		}
		cornerY := dy / 2
		if sin <= 0 {
			cornerY = -cornerY
		}
		slide := sin*math.Pow(math.Abs(sin), 40)*cornerX - cos*math.Pow(math.Abs(cos), 10)*cornerY
		x += cornerX - sin*slide
		y += cornerY + cos*slide
	}
	return Point{X: math.Round(x), Y: math.Round(y)}
}

// normalizeAngle maps a into [-π, π].
func normalizeAngle(a float64) float64 {
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	return a
}

func vectorMagnitude(v Point) float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// scalarProjection returns the length of the projection of a onto b.
func scalarProjection(a, b Point) float64 {
	return (a.X*b.X + a.Y*b.Y) / vectorMagnitude(b)
}

// isCCW reports whether b is counter-clockwise of a.
func isCCW(a, b Point) bool {
	return a.X*b.Y-b.X*a.Y > 0
}
