// Package clearance models the safety buffer around a placed item.
//
// A Clearance is either four directional Rectangular offsets or a Custom
// polygon in item-local feet (origin at the item centre, unrotated, Y down
// so "front" is negative Y). Custom polygons may replace any edge with a
// circular arc described by the edge's start point.
//
// # Key Operations
//
//   - RectangularToCustom: materialise offsets as a 4-point polygon
//   - GeneratePolygonPoints: expand control points, interpolating arcs
//   - Validate: structural checks reported as a list of messages
//   - IsPointInClearance: even-odd ray cast in item-local space
//   - Footprint / MaxHalfExtent / OwnClearance: extents used by the
//     violation detector and viewport fitting
//
// Every function here is pure. Degenerate geometry (zero-length chords,
// collinear points, empty polygons) yields empty or zero results rather
// than errors; only structural problems are reported by Validate.
package clearance
