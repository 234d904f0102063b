package measurement

import (
	"context"
	"errors"

	"github.com/jscales4000/LotPlanner-sub000/internal/geometry"
)

// GestureType is an input event relevant to drawing.
type GestureType string

const (
	// GestureClick adds a point.
	GestureClick GestureType = "click"
	// GestureFinish completes a perimeter or area (double-click).
	GestureFinish GestureType = "finish"
	// GestureCancel discards the points drawn so far (escape).
	GestureCancel GestureType = "cancel"
)

// Gesture is delivered to a Drawer by the input source.
type Gesture struct {
	Type  GestureType    `json:"type"`
	Point geometry.Point `json:"point"`
}

// Drawer accumulates points for one measurement kind. Distance completes
// on its second point; perimeter and area complete on Finish. Completing
// or cancelling resets the Drawer for the next measurement.
//
// A Drawer is not safe for concurrent use; Run serialises gestures onto
// a single goroutine.
type Drawer struct {
	kind   Kind
	scale  geometry.Scale
	points []geometry.Point
}

// NewDrawer returns a Drawer for kind.
func NewDrawer(kind Kind, scale geometry.Scale) (*Drawer, error) {
	if !kind.Valid() {
		return nil, ErrUnknownKind
	}
	return &Drawer{kind: kind, scale: scale}, nil
}

// Kind returns the kind being drawn.
func (d *Drawer) Kind() Kind { return d.kind }

// SetScale changes the scale used for measurements completed from now on.
func (d *Drawer) SetScale(scale geometry.Scale) { d.scale = scale }

// Points returns a copy of the in-progress points.
func (d *Drawer) Points() []geometry.Point {
	return append([]geometry.Point(nil), d.points...)
}

// Drawing reports whether any points are pending.
func (d *Drawer) Drawing() bool { return len(d.points) > 0 }

// AddPoint appends p. For distance measurements the second point
// completes the measurement, which is returned with done set.
func (d *Drawer) AddPoint(p geometry.Point) (m Measurement, done bool, err error) {
	d.points = append(d.points, p)
	if d.kind == KindDistance && len(d.points) == 2 {
		m, err = d.complete()
		return m, err == nil, err
	}
	return Measurement{}, false, nil
}

// Finish completes a perimeter or area measurement. With too few points
// it returns ErrTooFewPoints and keeps the points so drawing can continue.
func (d *Drawer) Finish() (Measurement, error) {
	return d.complete()
}

// Cancel discards the pending points.
func (d *Drawer) Cancel() {
	d.points = nil
}

func (d *Drawer) complete() (Measurement, error) {
	m, err := New(d.kind, d.points, d.scale)
	if err != nil {
		return Measurement{}, err
	}
	d.points = nil
	return m, nil
}

// Run applies gestures until the channel closes or ctx is done, sending
// each completed measurement on completed. A Finish with too few points
// is ignored.
func (d *Drawer) Run(ctx context.Context, gestures <-chan Gesture, completed chan<- Measurement) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case g, ok := <-gestures:
			if !ok {
				return nil
			}
			m, done, err := d.apply(g)
			if err != nil {
				if errors.Is(err, ErrTooFewPoints) {
					continue
				}
				return err
			}
			if !done {
				continue
			}
			select {
			case completed <- m:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

func (d *Drawer) apply(g Gesture) (Measurement, bool, error) {
	switch g.Type {
	case GestureClick:
		return d.AddPoint(g.Point)
	case GestureFinish:
		m, err := d.Finish()
		return m, err == nil, err
	case GestureCancel:
		d.Cancel()
	}
	return Measurement{}, false, nil
}
