// Package influxdb writes lot planner metrics to InfluxDB v2.
//
// Two measurements are recorded:
//
//	clearance_violations  site_id, project_id  total, warning, critical, worst_shortfall
//	lot_measurement       site_id, project_id, kind, measurement_id  distance_ft | perimeter_ft | area_sqft, points
//
// so a site manager can chart how a layout's violation count evolves while
// it is being planned. Metrics are optional: Connect returns ErrDisabled
// when the integration is switched off, and the write methods do nothing on
// a nil client.
//
//	client, err := influxdb.Connect(ctx, cfg.InfluxDB, cfg.Site.ID)
//	if errors.Is(err, influxdb.ErrDisabled) {
//	    client = nil
//	}
//	client.WriteViolationMetric(projectID, violations)
package influxdb
