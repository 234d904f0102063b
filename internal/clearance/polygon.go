package clearance

import (
	"math"

	"github.com/jbeda/geom"

	"github.com/jscales4000/LotPlanner-sub000/internal/geometry"
)

// RectangularToCustom converts offsets into a closed 4-point polygon around
// an item of the given dimensions. Corners run clockwise from front-left:
//
//	(-hw-left, -hh-front) → (hw+right, -hh-front) → (hw+right, hh+back) → (-hw-left, hh+back)
func RectangularToCustom(r Rectangular, d Dimensions) Custom {
	hw, hh := d.HalfSize()
	s := r.Resolve()
	return Custom{
		Points: []Point{
			{X: -hw - s.Left, Y: -hh - s.Front, CurveType: CurveNone},
			{X: hw + s.Right, Y: -hh - s.Front, CurveType: CurveNone},
			{X: hw + s.Right, Y: hh + s.Back, CurveType: CurveNone},
			{X: -hw - s.Left, Y: hh + s.Back, CurveType: CurveNone},
		},
		Closed: true,
	}
}

// CreateDefaultClearance returns a uniform rectangular polygon.
func CreateDefaultClearance(d Dimensions, uniform float64) Custom {
	return RectangularToCustom(Uniform(uniform), d)
}

// GeneratePolygonPoints expands control points into the drawn outline.
// Edges whose start point is an arc are replaced by segments chords
// (DefaultArcSegments when segments <= 0). A closed polygon gets an implicit
// edge from the last point back to the first, curved per the last point.
//
// Each control point appears once; arc interiors are inserted between them.
func GeneratePolygonPoints(c Custom, segments int) []geometry.Point {
	n := len(c.Points)
	if n == 0 {
		return []geometry.Point{}
	}
	if segments <= 0 {
		segments = DefaultArcSegments
	}

	out := make([]geometry.Point, 0, n*2)
	edges := n - 1
	if c.Closed {
		edges = n
	}
	for i := 0; i < n; i++ {
		start := c.Points[i]
		out = append(out, geometry.Point{X: start.X, Y: start.Y})
		if i >= edges || !start.IsArc() {
			continue
		}
		end := c.Points[(i+1)%n]
		out = append(out, arcInterior(start, end, segments)...)
	}
	return out
}

// Polygon expands c with the default arc resolution.
func (c Custom) Polygon() []geometry.Point {
	return GeneratePolygonPoints(c, DefaultArcSegments)
}

// Bounds returns the bounding box of the expanded polygon.
func (c Custom) Bounds() (geometry.Bounds, bool) {
	return geometry.BoundsOf(c.Polygon())
}

// arcInterior returns the points strictly between start and end on the arc
// leaving start. The chord length and sweep fix the radius:
//
//	r = chord / (2·sin(θ/2))
//
// and the centre sits r·cos(θ/2) from the chord midpoint, on the side that
// makes the sweep run in the requested screen direction (Y down).
func arcInterior(start, end Point, segments int) []geometry.Point {
	a := geom.Coord{X: start.X, Y: start.Y}
	b := geom.Coord{X: end.X, Y: end.Y}
	chord := b.Minus(a)
	length := chord.Magnitude()
	theta := start.Angle() * math.Pi / 180
	if length == 0 || theta <= 0 || math.Sin(theta/2) == 0 {
		return nil
	}

	radius := length / (2 * math.Sin(theta/2))
	u := chord.Unit()
	normal := geom.Coord{X: -u.Y, Y: u.X}
	sweep := theta
	if start.CurveDirection == CounterClockwise {
		normal = geom.Coord{X: u.Y, Y: -u.X}
		sweep = -theta
	}
	mid := a.Plus(b).Times(0.5)
	centre := mid.Plus(normal.Times(radius * math.Cos(theta/2)))

	rel := a.Minus(centre)
	startAngle := math.Atan2(rel.Y, rel.X)

	pts := make([]geometry.Point, 0, segments-1)
	for i := 1; i < segments; i++ {
		ang := startAngle + sweep*float64(i)/float64(segments)
		pts = append(pts, geometry.Point{
			X: centre.X + radius*math.Cos(ang),
			Y: centre.Y + radius*math.Sin(ang),
		})
	}
	return pts
}

// IsPointInClearance reports whether (x, y) lies inside c for an item
// centred at (equipmentX, equipmentY) rotated by equipmentRotation degrees.
// All coordinates share c's units (feet). The point is rotated back into
// item-local space and tested with the even-odd rule.
func IsPointInClearance(x, y float64, c Custom, equipmentX, equipmentY, equipmentRotation float64) bool {
	local := geometry.Rotate(
		geometry.Point{X: x - equipmentX, Y: y - equipmentY},
		-equipmentRotation,
	)
	return containsPoint(c.Polygon(), local)
}

// containsPoint ray-casts towards +X: an edge toggles inclusion when the
// point's Y is strictly between its endpoints and the point is left of the
// edge at that Y.
func containsPoint(poly []geometry.Point, p geometry.Point) bool {
	inside := false
	for i, j := 0, len(poly)-1; i < len(poly); j, i = i, i+1 {
		pi, pj := poly[i], poly[j]
		if (pi.Y > p.Y) != (pj.Y > p.Y) {
			xCross := (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y) + pi.X
			if p.X < xCross {
				inside = !inside
			}
		}
	}
	return inside
}
