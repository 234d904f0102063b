// Package viewport maps canvas coordinates to the screen under zoom and
// pan.
//
// A State maps a canvas point w to the screen point w·Scale + (X, Y).
// Canvas coordinates are pixels at the project's pixelsPerFoot; the
// viewport knows nothing about feet except when computing item footprints
// for fit-to-content.
package viewport
