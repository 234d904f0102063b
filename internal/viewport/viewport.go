package viewport

import (
	"math"

	"github.com/jscales4000/LotPlanner-sub000/internal/geometry"
)

// Defaults for Options.
const (
	DefaultScale       = 0.2
	DefaultMinScale    = 0.1
	DefaultMaxScale    = 5.0
	DefaultZoomFactor  = 1.1
	DefaultFitPadding  = 100.0
	DefaultFitMaxScale = 2.0
	DefaultCanvasSize  = 5000.0
)

// State is the current zoom and pan.
type State struct {
	Scale float64 `json:"scale"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// Size is a width and height in screen pixels.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Options are the viewport limits and canvas extent.
type Options struct {
	DefaultScale float64
	MinScale     float64
	MaxScale     float64
	ZoomFactor   float64
	FitPadding   float64
	FitMaxScale  float64

	// Canvas is the full canvas extent in canvas pixels, used by Reset.
	Canvas Size
}

// DefaultOptions returns the standard limits for a 5000×5000 canvas.
func DefaultOptions() Options {
	return Options{
		DefaultScale: DefaultScale,
		MinScale:     DefaultMinScale,
		MaxScale:     DefaultMaxScale,
		ZoomFactor:   DefaultZoomFactor,
		FitPadding:   DefaultFitPadding,
		FitMaxScale:  DefaultFitMaxScale,
		Canvas:       Size{Width: DefaultCanvasSize, Height: DefaultCanvasSize},
	}
}

// Clamp limits scale to [MinScale, MaxScale].
func (o Options) Clamp(scale float64) float64 {
	return math.Min(math.Max(scale, o.MinScale), o.MaxScale)
}

// ScreenToWorld converts a screen point to canvas coordinates. A zero
// scale maps everything to the origin.
func (s State) ScreenToWorld(p geometry.Point) geometry.Point {
	if s.Scale == 0 {
		return geometry.Point{}
	}
	return geometry.Point{X: (p.X - s.X) / s.Scale, Y: (p.Y - s.Y) / s.Scale}
}

// WorldToScreen converts canvas coordinates to a screen point.
func (s State) WorldToScreen(p geometry.Point) geometry.Point {
	return geometry.Point{X: p.X*s.Scale + s.X, Y: p.Y*s.Scale + s.Y}
}

// ZoomAt zooms one step around pointer. A negative wheel delta zooms in,
// a positive one zooms out and zero leaves s unchanged. The canvas point
// under pointer stays under it unless the scale is already clamped.
func ZoomAt(s State, wheelDelta float64, pointer geometry.Point, o Options) State {
	switch {
	case wheelDelta < 0:
		return zoomTo(s, s.Scale*o.ZoomFactor, pointer, o)
	case wheelDelta > 0:
		return zoomTo(s, s.Scale/o.ZoomFactor, pointer, o)
	}
	return s
}

// ZoomIn zooms one step around the centre of the viewport.
func ZoomIn(s State, viewport Size, o Options) State {
	return zoomTo(s, s.Scale*o.ZoomFactor, center(viewport), o)
}

// ZoomOut zooms out one step around the centre of the viewport.
func ZoomOut(s State, viewport Size, o Options) State {
	return zoomTo(s, s.Scale/o.ZoomFactor, center(viewport), o)
}

func zoomTo(s State, scale float64, pointer geometry.Point, o Options) State {
	scale = o.Clamp(scale)
	world := s.ScreenToWorld(pointer)
	return State{
		Scale: scale,
		X:     pointer.X - world.X*scale,
		Y:     pointer.Y - world.Y*scale,
	}
}

// Pan translates s by a drag delta in screen pixels.
func Pan(s State, dx, dy float64) State {
	return State{Scale: s.Scale, X: s.X + dx, Y: s.Y + dy}
}

// Reset returns the default scale with the whole canvas centred in the
// viewport.
func Reset(viewport Size, o Options) State {
	scale := o.Clamp(o.DefaultScale)
	return State{
		Scale: scale,
		X:     (viewport.Width - o.Canvas.Width*scale) / 2,
		Y:     (viewport.Height - o.Canvas.Height*scale) / 2,
	}
}

func center(viewport Size) geometry.Point {
	return geometry.Point{X: viewport.Width / 2, Y: viewport.Height / 2}
}
