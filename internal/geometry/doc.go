// Package geometry holds the shared 2D primitives of the lot planner:
// points, the pixels-per-foot Scale and rotation helpers.
//
// # Units
//
// Canvas coordinates are pixels; real-world coordinates are feet. The only
// bridge between the two is Scale, a single pixels-per-foot factor:
//
//	pixels = feet * ppf
//	feet   = pixels / ppf
//
// Every package converts through Scale rather than hardcoding a ratio, so a
// recalibrated Scale takes effect everywhere the next time values are derived.
// Callers must not keep pixel values across a calibration; derive them again
// from feet.
//
// All functions are pure and safe for concurrent use.
package geometry
