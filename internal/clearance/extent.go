package clearance

import (
	"math"

	"github.com/jscales4000/LotPlanner-sub000/internal/geometry"
)

// Footprint returns the item-local bounding box of an item together with
// its clearance zone, before rotation.
func Footprint(d Dimensions, c *Clearance) geometry.Bounds {
	box := d.Bounds()
	switch {
	case c == nil:
		return box
	case c.Custom != nil:
		if b, ok := c.Custom.Bounds(); ok {
			return geometry.Union(box, b)
		}
		return box
	case c.Rectangular != nil:
		s := c.Rectangular.Resolve()
		return geometry.Bounds{
			Min: geometry.Point{X: box.Min.X - s.Left, Y: box.Min.Y - s.Front},
			Max: geometry.Point{X: box.Max.X + s.Right, Y: box.Max.Y + s.Back},
		}
	}
	return box
}

// OwnClearance reduces c to the single buffer distance used by the
// violation detector: the widest side by which the zone extends past the
// item box. Rectangular clearances read it from their sides; custom
// polygons from their expanded bounding box, so a rectangular clearance and
// its RectangularToCustom polygon give the same value. The result is never
// negative.
func OwnClearance(d Dimensions, c *Clearance) float64 {
	switch {
	case c == nil:
		return 0
	case c.Custom != nil:
		b, ok := c.Custom.Bounds()
		if !ok {
			return 0
		}
		box := d.Bounds()
		over := math.Max(
			math.Max(box.Min.X-b.Min.X, b.Max.X-box.Max.X),
			math.Max(box.Min.Y-b.Min.Y, b.Max.Y-box.Max.Y),
		)
		return math.Max(0, over)
	case c.Rectangular != nil:
		return math.Max(0, c.Rectangular.Resolve().Max())
	}
	return 0
}

// Resolve picks the effective clearance: a placed-item override wins over
// the catalog default. Either may be nil.
func Resolve(override, catalog *Clearance) *Clearance {
	if override != nil {
		return override
	}
	return catalog
}
