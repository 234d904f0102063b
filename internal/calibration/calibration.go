// Package calibration corrects the canvas scale from a measured reference
// distance whose real length is known.
package calibration

import (
	"errors"
	"fmt"
	"math"

	"github.com/jscales4000/LotPlanner-sub000/internal/geometry"
)

// DefaultMinDistance is the shortest calculated distance, in feet, that
// may be used as a reference.
const DefaultMinDistance = 5.0

// Target selects which scale a correction is applied to.
type Target string

const (
	// TargetGlobal rescales pixelsPerFoot, and with it the whole world.
	TargetGlobal Target = "global"
	// TargetBackground rescales a single background image layer and leaves
	// pixelsPerFoot unchanged.
	TargetBackground Target = "background"
)

// Valid reports whether t is a known target.
func (t Target) Valid() bool {
	return t == TargetGlobal || t == TargetBackground
}

var (
	// ErrBelowThreshold is returned when the calculated distance is too
	// short to calibrate against.
	ErrBelowThreshold = errors.New("reference distance below calibration threshold")

	// ErrInvalidDistance is returned for a non-positive or non-finite
	// actual distance.
	ErrInvalidDistance = errors.New("invalid actual distance")

	// ErrUnknownTarget is returned for a target other than global or background.
	ErrUnknownTarget = errors.New("unknown calibration target")
)

// CorrectionFactor returns actual / calculated. Equal distances give 1.
func CorrectionFactor(actual, calculated float64) float64 {
	if calculated == 0 {
		return 0
	}
	return actual / calculated
}

// Eligible reports whether a calculated distance may be offered for
// calibration.
func Eligible(calculated, minDistance float64) bool {
	return calculated > minDistance
}

// Request describes one calibration.
type Request struct {
	// Calculated is the measured distance in feet under the current scale.
	Calculated float64 `json:"calculatedDistance"`
	// Actual is the ground-truth distance in feet.
	Actual float64 `json:"actualDistance"`
	// Target overrides the configured target when set.
	Target Target `json:"target,omitempty"`
	// ImageID names the background image for TargetBackground.
	ImageID string `json:"imageId,omitempty"`
}

// Result is the outcome of a calibration.
type Result struct {
	Factor  float64        `json:"correctionFactor"`
	Target  Target         `json:"target"`
	Scale   geometry.Scale `json:"pixelsPerFoot"`
	ImageID string         `json:"imageId,omitempty"`
	ScaleX  float64        `json:"scaleX,omitempty"`
	ScaleY  float64        `json:"scaleY,omitempty"`
}

// Calibrator applies corrections with a fixed threshold and default target.
type Calibrator struct {
	MinDistance float64
	Target      Target
}

// New returns a Calibrator. A non-positive minDistance uses
// DefaultMinDistance; an empty target uses TargetGlobal.
func New(minDistance float64, target Target) *Calibrator {
	if minDistance <= 0 {
		minDistance = DefaultMinDistance
	}
	if target == "" {
		target = TargetGlobal
	}
	return &Calibrator{MinDistance: minDistance, Target: target}
}

// Factor validates req and returns its correction factor and effective
// target.
func (c *Calibrator) Factor(req Request) (float64, Target, error) {
	target := req.Target
	if target == "" {
		target = c.Target
	}
	if !target.Valid() {
		return 0, "", fmt.Errorf("%w: %q", ErrUnknownTarget, target)
	}
	if !Eligible(req.Calculated, c.MinDistance) {
		return 0, "", fmt.Errorf("%w: %.2f ft (minimum %.2f ft)", ErrBelowThreshold, req.Calculated, c.MinDistance)
	}
	if req.Actual <= 0 || math.IsInf(req.Actual, 0) || math.IsNaN(req.Actual) {
		return 0, "", fmt.Errorf("%w: %v", ErrInvalidDistance, req.Actual)
	}
	return CorrectionFactor(req.Actual, req.Calculated), target, nil
}

// ApplyGlobal returns scale corrected so that the reference distance in
// req measures as req.Actual. Pixels per foot shrink when the actual
// distance is longer than the calculated one.
func (c *Calibrator) ApplyGlobal(scale geometry.Scale, req Request) (geometry.Scale, float64, error) {
	req.Target = TargetGlobal
	factor, _, err := c.Factor(req)
	if err != nil {
		return scale, 0, err
	}
	return scale.Corrected(factor), factor, nil
}

// ImageScaler is a background image whose own scale can be corrected.
type ImageScaler interface {
	ImageScale() (x, y float64)
	SetImageScale(x, y float64)
}

// ApplyImage multiplies img's scale factors by the correction for req.
func (c *Calibrator) ApplyImage(img ImageScaler, req Request) (float64, error) {
	req.Target = TargetBackground
	factor, _, err := c.Factor(req)
	if err != nil {
		return 0, err
	}
	x, y := img.ImageScale()
	img.SetImageScale(x*factor, y*factor)
	return factor, nil
}
