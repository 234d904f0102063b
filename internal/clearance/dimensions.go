package clearance

import (
	"fmt"
	"math"

	"github.com/jscales4000/LotPlanner-sub000/internal/geometry"
)

// Shape discriminates the Dimensions variants.
type Shape string

const (
	ShapeRectangle Shape = "rectangle"
	ShapeCircle    Shape = "circle"
)

// Dimensions is the physical size of an item in feet.
//
// Exactly one variant is meaningful, selected by Shape: Width/Height for
// rectangles, Radius for circles. Build values with Rect or Circle.
type Dimensions struct {
	Shape  Shape    `json:"shape"`
	Width  float64  `json:"width,omitempty"`
	Height float64  `json:"height,omitempty"`
	Radius float64  `json:"radius,omitempty"`
	Depth  *float64 `json:"depth,omitempty"`
}

// Rect returns rectangular dimensions.
func Rect(width, height float64) Dimensions {
	return Dimensions{Shape: ShapeRectangle, Width: width, Height: height}
}

// Circle returns circular dimensions.
func Circle(radius float64) Dimensions {
	return Dimensions{Shape: ShapeCircle, Radius: radius}
}

// Validate checks that the selected variant has positive measurements.
func (d Dimensions) Validate() error {
	switch d.Shape {
	case ShapeRectangle:
		if d.Width <= 0 || d.Height <= 0 {
			return fmt.Errorf("%w: rectangle %vx%v ft", ErrInvalidDimensions, d.Width, d.Height)
		}
	case ShapeCircle:
		if d.Radius <= 0 {
			return fmt.Errorf("%w: circle radius %v ft", ErrInvalidDimensions, d.Radius)
		}
	default:
		return fmt.Errorf("%w: unknown shape %q", ErrInvalidDimensions, d.Shape)
	}
	if d.Depth != nil && *d.Depth <= 0 {
		return fmt.Errorf("%w: depth %v ft", ErrInvalidDimensions, *d.Depth)
	}
	return nil
}

// HalfSize returns half the bounding width and height. Circles are treated
// as squares of side 2×radius.
func (d Dimensions) HalfSize() (halfWidth, halfHeight float64) {
	switch d.Shape {
	case ShapeCircle:
		return d.Radius, d.Radius
	case ShapeRectangle:
		return d.Width / 2, d.Height / 2
	}
	return 0, 0
}

// MaxHalfExtent returns the radius for circles and max(width,height)/2
// for rectangles.
func MaxHalfExtent(d Dimensions) float64 {
	hw, hh := d.HalfSize()
	return math.Max(hw, hh)
}

// Bounds returns the unrotated item box in item-local feet.
func (d Dimensions) Bounds() geometry.Bounds {
	hw, hh := d.HalfSize()
	return geometry.Bounds{
		Min: geometry.Point{X: -hw, Y: -hh},
		Max: geometry.Point{X: hw, Y: hh},
	}
}
