package clearance

import (
	"encoding/json"
	"fmt"
	"math"
)

// Kind discriminates the Clearance variants.
type Kind string

const (
	KindRectangular Kind = "rectangular"
	KindCustom      Kind = "custom"
)

// CurveType selects how the edge leaving a control point is drawn.
type CurveType string

const (
	CurveNone CurveType = "none"
	CurveArc  CurveType = "arc"
)

// CurveDirection is the sweep direction of an arc edge as seen on screen.
type CurveDirection string

const (
	Clockwise        CurveDirection = "clockwise"
	CounterClockwise CurveDirection = "counterclockwise"
)

// Polygon limits and arc defaults.
const (
	MinPoints = 3
	MaxPoints = 20

	// DefaultArcSegments is the number of chords an arc is split into.
	DefaultArcSegments = 8

	// DefaultCurveAngle is used when an arc point omits its angle.
	DefaultCurveAngle = 90.0
)

// validCurveAngles holds the permitted arc sweeps in degrees.
var validCurveAngles = map[float64]struct{}{45: {}, 90: {}, 180: {}}

// ValidCurveAngle reports whether deg is a permitted arc sweep.
func ValidCurveAngle(deg float64) bool {
	_, ok := validCurveAngles[deg]
	return ok
}

// Rectangular holds directional offsets in feet. Unset sides fall back to
// All, which itself defaults to 0. Pointers keep "unset" distinct from 0 so
// project files round-trip unchanged.
type Rectangular struct {
	Front *float64 `json:"front,omitempty"`
	Back  *float64 `json:"back,omitempty"`
	Left  *float64 `json:"left,omitempty"`
	Right *float64 `json:"right,omitempty"`
	All   *float64 `json:"all,omitempty"`
}

// Uniform returns offsets of v on every side.
func Uniform(v float64) Rectangular {
	return Rectangular{All: &v}
}

// Sides are resolved rectangular offsets.
type Sides struct {
	Front, Back, Left, Right float64
}

// Max returns the largest side.
func (s Sides) Max() float64 {
	return math.Max(math.Max(s.Front, s.Back), math.Max(s.Left, s.Right))
}

// Resolve applies the All fallback and returns concrete offsets.
func (r Rectangular) Resolve() Sides {
	all := deref(r.All, 0)
	return Sides{
		Front: deref(r.Front, all),
		Back:  deref(r.Back, all),
		Left:  deref(r.Left, all),
		Right: deref(r.Right, all),
	}
}

// IsZero reports whether every resolved side is 0. A zero clearance draws
// no zone.
func (r Rectangular) IsZero() bool {
	s := r.Resolve()
	return s.Front == 0 && s.Back == 0 && s.Left == 0 && s.Right == 0
}

func deref(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

// Point is a control point of a Custom polygon in item-local feet.
// The curve fields describe the edge from this point to the next one.
type Point struct {
	X              float64        `json:"x"`
	Y              float64        `json:"y"`
	CurveType      CurveType      `json:"curveType"`
	CurveAngle     *float64       `json:"curveAngle,omitempty"`
	CurveDirection CurveDirection `json:"curveDirection,omitempty"`
}

// IsArc reports whether the edge leaving p is an arc.
func (p Point) IsArc() bool {
	return p.CurveType == CurveArc
}

// Angle returns the arc sweep in degrees, defaulting when unset.
func (p Point) Angle() float64 {
	if p.CurveAngle == nil {
		return DefaultCurveAngle
	}
	return *p.CurveAngle
}

// Custom is an arbitrary clearance polygon.
type Custom struct {
	Points []Point `json:"points"`
	Closed bool    `json:"closed"`
}

// Clearance is either Rectangular or Custom. A nil *Clearance means the
// item has no clearance.
type Clearance struct {
	Rectangular *Rectangular
	Custom      *Custom
}

// NewRectangular wraps r in a Clearance.
func NewRectangular(r Rectangular) *Clearance {
	return &Clearance{Rectangular: &r}
}

// NewCustom wraps c in a Clearance.
func NewCustom(c Custom) *Clearance {
	return &Clearance{Custom: &c}
}

// Kind returns the active variant. Custom wins if both are somehow set.
func (c *Clearance) Kind() Kind {
	if c != nil && c.Custom != nil {
		return KindCustom
	}
	return KindRectangular
}

// IsZero reports whether c draws no zone.
func (c *Clearance) IsZero() bool {
	switch {
	case c == nil:
		return true
	case c.Custom != nil:
		return len(c.Custom.Points) == 0
	case c.Rectangular != nil:
		return c.Rectangular.IsZero()
	}
	return true
}

// ToCustom materialises c as a polygon for the given item dimensions.
func (c *Clearance) ToCustom(d Dimensions) Custom {
	switch {
	case c == nil:
		return RectangularToCustom(Rectangular{}, d)
	case c.Custom != nil:
		return *c.Custom
	case c.Rectangular != nil:
		return RectangularToCustom(*c.Rectangular, d)
	}
	return RectangularToCustom(Rectangular{}, d)
}

// Clone returns a deep copy of c.
func (c *Clearance) Clone() *Clearance {
	if c == nil {
		return nil
	}
	out := &Clearance{}
	if c.Rectangular != nil {
		r := Rectangular{
			Front: clonePtr(c.Rectangular.Front),
			Back:  clonePtr(c.Rectangular.Back),
			Left:  clonePtr(c.Rectangular.Left),
			Right: clonePtr(c.Rectangular.Right),
			All:   clonePtr(c.Rectangular.All),
		}
		out.Rectangular = &r
	}
	if c.Custom != nil {
		pts := make([]Point, len(c.Custom.Points))
		for i, p := range c.Custom.Points {
			p.CurveAngle = clonePtr(p.CurveAngle)
			pts[i] = p
		}
		out.Custom = &Custom{Points: pts, Closed: c.Custom.Closed}
	}
	return out
}

func clonePtr(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// clearanceJSON is the flattened wire form: {"type": "...", ...variant fields}.
type clearanceJSON struct {
	Type Kind `json:"type"`
	Rectangular
	Points []Point `json:"points,omitempty"`
	Closed *bool   `json:"closed,omitempty"`
}

// MarshalJSON writes the variant fields alongside a "type" tag.
func (c Clearance) MarshalJSON() ([]byte, error) {
	if c.Custom != nil {
		closed := c.Custom.Closed
		pts := c.Custom.Points
		if pts == nil {
			pts = []Point{}
		}
		return json.Marshal(struct {
			Type   Kind    `json:"type"`
			Points []Point `json:"points"`
			Closed bool    `json:"closed"`
		}{KindCustom, pts, closed})
	}
	var r Rectangular
	if c.Rectangular != nil {
		r = *c.Rectangular
	}
	return json.Marshal(clearanceJSON{Type: KindRectangular, Rectangular: r})
}

// UnmarshalJSON reads the tagged wire form. A missing tag is treated as
// rectangular.
func (c *Clearance) UnmarshalJSON(data []byte) error {
	var raw clearanceJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding clearance: %w", err)
	}
	switch raw.Type {
	case KindCustom:
		closed := true
		if raw.Closed != nil {
			closed = *raw.Closed
		}
		*c = Clearance{Custom: &Custom{Points: raw.Points, Closed: closed}}
	case KindRectangular, "":
		r := raw.Rectangular
		*c = Clearance{Rectangular: &r}
	default:
		return fmt.Errorf("%w: unknown clearance type %q", ErrInvalidClearance, raw.Type)
	}
	return nil
}
