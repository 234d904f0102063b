package measurement

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jscales4000/LotPlanner-sub000/internal/geometry"
)

// Kind is the type of measurement.
type Kind string

const (
	KindDistance  Kind = "distance"
	KindPerimeter Kind = "perimeter"
	KindArea      Kind = "area"
)

// MinPoints returns how many points a kind needs to complete.
func (k Kind) MinPoints() int {
	switch k {
	case KindDistance, KindPerimeter:
		return 2
	case KindArea:
		return 3
	}
	return 0
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k.MinPoints() > 0
}

// Default colours per kind.
var defaultColors = map[Kind]string{
	KindDistance:  "#ef4444",
	KindPerimeter: "#3b82f6",
	KindArea:      "#22c55e",
}

// Measurement is a completed (or in-progress) measurement.
type Measurement struct {
	ID     string           `json:"id"`
	Kind   Kind             `json:"type"`
	Points []geometry.Point `json:"points"`

	// Distance is the length in feet for distance measurements.
	Distance float64 `json:"distance,omitempty"`
	// Perimeter is the polyline length for perimeter measurements and the
	// closed outline length for area measurements, in feet.
	Perimeter float64 `json:"perimeter,omitempty"`
	// Segments holds each segment's length for perimeter measurements.
	Segments []float64 `json:"segments,omitempty"`
	// Area is in square feet.
	Area float64 `json:"area,omitempty"`

	Label     string    `json:"label"`
	Color     string    `json:"color"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
}

// New builds a completed measurement of kind over points, assigning a
// fresh ID, a default colour and a label describing the value.
func New(kind Kind, points []geometry.Point, scale geometry.Scale) (Measurement, error) {
	if !kind.Valid() {
		return Measurement{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if len(points) < kind.MinPoints() {
		return Measurement{}, fmt.Errorf("%w: %s needs %d, got %d", ErrTooFewPoints, kind, kind.MinPoints(), len(points))
	}
	m := Measurement{
		ID:        uuid.NewString(),
		Kind:      kind,
		Points:    append([]geometry.Point(nil), points...),
		Color:     defaultColors[kind],
		Completed: true,
		CreatedAt: time.Now().UTC(),
	}
	if kind == KindDistance {
		m.Points = m.Points[:2]
	}
	m.Recompute(scale)
	return m, nil
}

// Recompute re-derives the values and label from the points under scale.
func (m *Measurement) Recompute(scale geometry.Scale) {
	m.Distance, m.Perimeter, m.Area, m.Segments = 0, 0, 0, nil
	switch m.Kind {
	case KindDistance:
		if len(m.Points) >= 2 {
			m.Distance = Distance(m.Points[0], m.Points[1], scale)
		}
		m.Label = fmt.Sprintf("%.1f ft", m.Distance)
	case KindPerimeter:
		m.Perimeter, m.Segments = Perimeter(m.Points, scale)
		m.Label = fmt.Sprintf("%.1f ft", m.Perimeter)
	case KindArea:
		m.Area, m.Perimeter = Area(m.Points, scale)
		m.Label = fmt.Sprintf("%.1f sq ft", m.Area)
	}
}

// Value returns the headline figure: feet for distance and perimeter,
// square feet for area.
func (m Measurement) Value() float64 {
	switch m.Kind {
	case KindDistance:
		return m.Distance
	case KindPerimeter:
		return m.Perimeter
	case KindArea:
		return m.Area
	}
	return 0
}
