package geometry

// DefaultPixelsPerFoot is the canvas scale used when a project does not
// specify one.
const DefaultPixelsPerFoot = 10.0

// Scale is the pixels-per-foot factor relating canvas units to feet.
//
// A non-positive Scale is invalid; conversions through it return 0 instead
// of dividing by zero.
type Scale float64

// Valid reports whether s can be used for conversion.
func (s Scale) Valid() bool {
	return s > 0
}

// ToPixels converts feet to canvas pixels.
func (s Scale) ToPixels(feet float64) float64 {
	if !s.Valid() {
		return 0
	}
	return feet * float64(s)
}

// ToFeet converts canvas pixels to feet.
func (s Scale) ToFeet(pixels float64) float64 {
	if !s.Valid() {
		return 0
	}
	return pixels / float64(s)
}

// AreaToFeet converts an area in px² to ft².
func (s Scale) AreaToFeet(px2 float64) float64 {
	if !s.Valid() {
		return 0
	}
	return px2 / (float64(s) * float64(s))
}

// PointToPixels converts a point in feet to canvas pixels.
func (s Scale) PointToPixels(p Point) Point {
	return Point{X: s.ToPixels(p.X), Y: s.ToPixels(p.Y)}
}

// PointToFeet converts a point in canvas pixels to feet.
func (s Scale) PointToFeet(p Point) Point {
	return Point{X: s.ToFeet(p.X), Y: s.ToFeet(p.Y)}
}

// Corrected returns the scale under which every distance measured with s
// reads factor times longer. It divides s by factor; a non-positive factor
// leaves s unchanged.
func (s Scale) Corrected(factor float64) Scale {
	if factor <= 0 {
		return s
	}
	return Scale(float64(s) / factor)
}
