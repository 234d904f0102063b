package clearance

import "fmt"

// Validate checks the structural invariants of a custom polygon and returns
// one message per problem. An empty result means the polygon may be applied.
// Nothing is clamped or repaired.
func Validate(c Custom) []string {
	var errs []string

	switch n := len(c.Points); {
	case n < MinPoints:
		errs = append(errs, fmt.Sprintf("clearance polygon must have at least %d points (has %d)", MinPoints, n))
	case n > MaxPoints:
		errs = append(errs, fmt.Sprintf("clearance polygon cannot have more than %d points (has %d)", MaxPoints, n))
	}

	for i, p := range c.Points {
		switch p.CurveType {
		case CurveNone, CurveArc, "":
		default:
			errs = append(errs, fmt.Sprintf("point %d: unknown curve type %q", i+1, p.CurveType))
		}
		if p.CurveAngle != nil && !ValidCurveAngle(*p.CurveAngle) {
			errs = append(errs, fmt.Sprintf("point %d: curve angle must be 45, 90 or 180 degrees (got %v)", i+1, *p.CurveAngle))
		}
		switch p.CurveDirection {
		case Clockwise, CounterClockwise, "":
		default:
			errs = append(errs, fmt.Sprintf("point %d: unknown curve direction %q", i+1, p.CurveDirection))
		}
	}

	return errs
}

// Check wraps Validate as an error for callers that need one.
func Check(c Custom) error {
	if msgs := Validate(c); len(msgs) > 0 {
		return &ValidationError{Messages: msgs}
	}
	return nil
}

// ValidateClearance validates whichever variant c holds. Rectangular
// offsets must not be negative.
func ValidateClearance(c *Clearance) []string {
	switch {
	case c == nil:
		return nil
	case c.Custom != nil:
		return Validate(*c.Custom)
	case c.Rectangular != nil:
		var errs []string
		r := c.Rectangular
		for _, side := range []struct {
			name string
			v    *float64
		}{{"front", r.Front}, {"back", r.Back}, {"left", r.Left}, {"right", r.Right}, {"all", r.All}} {
			if side.v != nil && *side.v < 0 {
				errs = append(errs, fmt.Sprintf("%s clearance cannot be negative (got %v)", side.name, *side.v))
			}
		}
		return errs
	}
	return nil
}
