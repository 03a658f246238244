// Package geom provides the 2D primitives used by the radial layout engine.
//
// Coordinates follow SVG conventions: x grows to the right and y grows
// downward. Angles passed to [PointOnCircle] are mathematical angles in
// degrees, measured counter-clockwise from the positive x axis as seen on
// screen. Conversion from compass bearings happens in the angular package.
//
// Functions in this package panic on negative radii or NaN input. These are
// programming errors in the caller; the placement engine validates its
// configuration before any geometry is computed.
package geom

import (
	"fmt"
	"math"
)

// Point is a position in user units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// String formats the point as "x,y", the form used in SVG path data.
func (p Point) String() string { return fmt.Sprintf("%.2f,%.2f", p.X, p.Y) }

// Distance returns the Euclidean distance between p and q.
func Distance(p, q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// CirclesOverlap reports whether the circle at p1 with radius r1 intersects
// the circle at p2 with radius r2. Tangent circles do not overlap.
func CirclesOverlap(p1 Point, r1 float64, p2 Point, r2 float64) bool {
	mustRadius(r1)
	mustRadius(r2)
	return Distance(p1, p2) < r1+r2
}

// PointOnCircle returns the point at the given mathematical angle on the
// circle of radius r around center.
func PointOnCircle(center Point, r, degrees float64) Point {
	mustRadius(r)
	a := Radians(NormalizeDegrees(degrees))
	return Point{
		X: center.X + r*math.Cos(a),
		Y: center.Y - r*math.Sin(a),
	}
}

// NormalizeDegrees maps any finite angle onto [0, 360).
func NormalizeDegrees(d float64) float64 {
	mustFinite(d)
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	if d == 360 {
		return 0
	}
	return d
}

// Radians converts degrees to radians.
func Radians(d float64) float64 { return d * math.Pi / 180 }

// Degrees converts radians to degrees.
func Degrees(r float64) float64 { return r * 180 / math.Pi }

// ChordAngle returns the central angle, in degrees, subtended by a chord of
// the given length on a circle of radius r. Chords at or beyond the
// diameter yield 180.
func ChordAngle(r, chord float64) float64 {
	mustRadius(r)
	mustRadius(chord)
	if r == 0 {
		return 180
	}
	s := chord / (2 * r)
	if s >= 1 {
		return 180
	}
	return Degrees(2 * math.Asin(s))
}

// ChordLength returns the straight-line distance between two points on a
// circle of radius r separated by the central angle (degrees).
func ChordLength(r, degrees float64) float64 {
	mustRadius(r)
	return 2 * r * math.Sin(Radians(math.Abs(degrees))/2)
}

func mustRadius(r float64) {
	if math.IsNaN(r) || r < 0 {
		panic(fmt.Sprintf("geom: invalid radius %v", r))
	}
}

func mustFinite(v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		panic(fmt.Sprintf("geom: non-finite angle %v", v))
	}
}
