// Package api provides the HTTP REST API and WebSocket server for the lot
// planner.
//
// It exposes stored projects, their clearance violations and clearance
// zones, and the stateless geometry operations (clearance polygons,
// measurements, calibration, viewport maths) to the browser editor.
//
// The server follows the same lifecycle as the other infrastructure
// components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Whenever a project changes, its violations are recomputed and the result
// is broadcast to WebSocket clients subscribed to
// "layout.violations_changed", published to MQTT and recorded in InfluxDB
// when those integrations are configured. Each change is also appended to
// the project history served at /projects/{id}/history.
package api
