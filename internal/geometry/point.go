package geometry

import (
	"math"

	"github.com/jbeda/geom"
)

// Point is a 2D coordinate. Whether it is in pixels or feet depends on
// context; the type does not track units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Coord converts p into a geom.Coord for vector maths.
func (p Point) Coord() geom.Coord {
	return geom.Coord{X: p.X, Y: p.Y}
}

// FromCoord converts a geom.Coord back into a Point.
func FromCoord(c geom.Coord) Point {
	return Point{X: c.X, Y: c.Y}
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Mul returns p scaled by s.
func (p Point) Mul(s float64) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

// Distance returns the Euclidean distance between a and b. It is symmetric
// and zero for coincident points.
func Distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// Rotate rotates p about the origin by degrees. Positive angles rotate
// clockwise on screen (Y grows downward), matching placed-item rotation.
func Rotate(p Point, degrees float64) Point {
	rad := degrees * math.Pi / 180
	sin, cos := math.Sincos(rad)
	return Point{
		X: p.X*cos - p.Y*sin,
		Y: p.X*sin + p.Y*cos,
	}
}

// RotateAbout rotates p about centre by degrees.
func RotateAbout(p, centre Point, degrees float64) Point {
	return Rotate(p.Sub(centre), degrees).Add(centre)
}

// NormalizeDegrees maps an angle into [0, 360).
func NormalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}
