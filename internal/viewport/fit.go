package viewport

import (
	"math"

	"github.com/jscales4000/LotPlanner-sub000/internal/clearance"
	"github.com/jscales4000/LotPlanner-sub000/internal/geometry"
)

// ItemBounds returns the canvas-pixel bounding box of an item and its
// clearance zone. position is the item centre in canvas pixels; the
// footprint is rotated by rotation degrees before taking the box.
func ItemBounds(position geometry.Point, rotation float64, d clearance.Dimensions, c *clearance.Clearance, scale geometry.Scale) geometry.Bounds {
	local := clearance.Footprint(d, c)
	corners := []geometry.Point{
		local.Min,
		{X: local.Max.X, Y: local.Min.Y},
		local.Max,
		{X: local.Min.X, Y: local.Max.Y},
	}
	for i, p := range corners {
		corners[i] = scale.PointToPixels(geometry.Rotate(p, rotation)).Add(position)
	}
	b, _ := geometry.BoundsOf(corners)
	return b
}

// FitToContent returns the state that shows every box in content with
// FitPadding canvas pixels on each side, centred in the viewport. The
// scale never exceeds FitMaxScale and stays within the zoom limits. With
// no content, or an empty viewport, it falls back to Reset.
func FitToContent(content []geometry.Bounds, viewport Size, o Options) State {
	if len(content) == 0 || viewport.Width <= 0 || viewport.Height <= 0 {
		return Reset(viewport, o)
	}

	box := content[0]
	for _, b := range content[1:] {
		box = geometry.Union(box, b)
	}

	width := box.Width() + 2*o.FitPadding
	height := box.Height() + 2*o.FitPadding
	scale := o.FitMaxScale
	if width > 0 {
		scale = math.Min(scale, viewport.Width/width)
	}
	if height > 0 {
		scale = math.Min(scale, viewport.Height/height)
	}
	scale = o.Clamp(scale)

	c := box.Center()
	return State{
		Scale: scale,
		X:     viewport.Width/2 - c.X*scale,
		Y:     viewport.Height/2 - c.Y*scale,
	}
}
