// Package measurement computes distances, perimeters and areas over points
// drawn on the canvas, and tracks the click-by-click drawing of a
// measurement.
//
// Points are always canvas pixels. Results are feet (or square feet),
// converted with the scale supplied at computation time; a measurement
// taken before a calibration must be recomputed with Recompute.
package measurement
