package geometry

import "github.com/jbeda/geom"

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min Point `json:"min"`
	Max Point `json:"max"`
}

// Width returns the horizontal extent.
func (b Bounds) Width() float64 { return b.Max.X - b.Min.X }

// Height returns the vertical extent.
func (b Bounds) Height() float64 { return b.Max.Y - b.Min.Y }

// Center returns the midpoint of the box.
func (b Bounds) Center() Point {
	return Point{X: (b.Min.X + b.Max.X) / 2, Y: (b.Min.Y + b.Max.Y) / 2}
}

// Rect converts b to a geom.Rect.
func (b Bounds) Rect() geom.Rect {
	return geom.Rect{Min: b.Min.Coord(), Max: b.Max.Coord()}
}

// BoundsFromRect converts a geom.Rect to Bounds.
func BoundsFromRect(r geom.Rect) Bounds {
	return Bounds{Min: FromCoord(r.Min), Max: FromCoord(r.Max)}
}

// BoundsOf returns the bounding box of pts. ok is false for an empty slice.
func BoundsOf(pts []Point) (b Bounds, ok bool) {
	if len(pts) == 0 {
		return Bounds{}, false
	}
	r := geom.Rect{Min: pts[0].Coord(), Max: pts[0].Coord()}
	for _, p := range pts[1:] {
		r.ExpandToContainCoord(p.Coord())
	}
	return BoundsFromRect(r), true
}

// Union returns the smallest box containing both a and b.
func Union(a, b Bounds) Bounds {
	r := a.Rect()
	r.ExpandToContainRect(b.Rect())
	return BoundsFromRect(r)
}
