package violation

import (
	"github.com/dhconnelly/rtreego"

	"github.com/jscales4000/LotPlanner-sub000/internal/geometry"
)

// minExtent keeps zero-reach items representable; rtreego rejects empty
// rectangles.
const minExtent = 1e-6

// reachEntry is an item's reach square in canvas pixels.
type reachEntry struct {
	index int
	box   rtreego.Rect
}

// Bounds implements rtreego.Spatial.
func (e *reachEntry) Bounds() rtreego.Rect {
	return e.box
}

// reachBox returns the square of half-size reach centred on the item.
// Two items can only violate if their squares overlap, since the
// Euclidean distance is never less than the per-axis distance.
func reachBox(it Item, scale geometry.Scale) (rtreego.Rect, error) {
	half := max(scale.ToPixels(it.reach()), minExtent)
	return rtreego.NewRect(
		rtreego.Point{it.Position.X - half, it.Position.Y - half},
		[]float64{2 * half, 2 * half},
	)
}

func detectIndexed(items []Item, scale geometry.Scale, opts Options) []Violation {
	tree := rtreego.NewTree(2, 25, 50)
	entries := make([]*reachEntry, len(items))
	for i, it := range items {
		box, err := reachBox(it, scale)
		if err != nil {
			// Non-finite position; the item cannot be indexed, fall back.
			return detectAll(items, scale, opts)
		}
		entries[i] = &reachEntry{index: i, box: box}
		tree.Insert(entries[i])
	}

	out := []Violation{}
	for i, e := range entries {
		for _, hit := range tree.SearchIntersect(e.box) {
			j := hit.(*reachEntry).index
			if j <= i {
				continue
			}
			if v, ok := Check(items[i], items[j], scale, opts); ok {
				out = append(out, v)
			}
		}
	}
	return out
}
