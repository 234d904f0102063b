package measurement

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/jscales4000/LotPlanner-sub000/internal/geometry"
)

func toOrb(p geometry.Point) orb.Point {
	return orb.Point{p.X, p.Y}
}

// Distance returns the length of p1→p2 in feet.
func Distance(p1, p2 geometry.Point, scale geometry.Scale) float64 {
	return scale.ToFeet(planar.Distance(toOrb(p1), toOrb(p2)))
}

// Perimeter returns the length of the open polyline through points, in
// feet, together with each segment's length. Fewer than two points yield
// zero and no segments.
func Perimeter(points []geometry.Point, scale geometry.Scale) (total float64, segments []float64) {
	if len(points) < 2 {
		return 0, []float64{}
	}
	line := make(orb.LineString, len(points))
	for i, p := range points {
		line[i] = toOrb(p)
	}
	segments = make([]float64, 0, len(points)-1)
	for i := 1; i < len(line); i++ {
		segments = append(segments, scale.ToFeet(planar.Distance(line[i-1], line[i])))
	}
	return scale.ToFeet(planar.Length(line)), segments
}

// Area returns the enclosed area of the polygon through points in square
// feet using the shoelace formula, along with the closed perimeter in
// feet. Point order does not matter. Fewer than three points, or
// collinear points, yield zero area.
func Area(points []geometry.Point, scale geometry.Scale) (area, perimeter float64) {
	n := len(points)
	if n < 3 {
		return 0, 0
	}

	var sum float64
	ring := make(orb.Ring, 0, n+1)
	for i, p := range points {
		q := points[(i+1)%n]
		sum += p.X*q.Y - q.X*p.Y
		ring = append(ring, toOrb(p))
	}
	ring = append(ring, ring[0])

	area = scale.AreaToFeet(math.Abs(sum) / 2)
	return area, scale.ToFeet(planar.Length(ring))
}
