package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/jscales4000/LotPlanner-sub000/internal/measurement"
	"github.com/jscales4000/LotPlanner-sub000/internal/violation"
)

// Measurement names.
const (
	MeasurementViolations  = "clearance_violations"
	MeasurementMeasurement = "lot_measurement"
)

// WriteViolationMetric records the violation counts of a project after a
// recomputation, along with the worst shortfall in feet.
func (c *Client) WriteViolationMetric(projectID string, vs []violation.Violation) {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.WritePoint(ViolationPoint(c.siteID, projectID, vs, time.Now()))
}

// WriteMeasurement records a completed measurement.
func (c *Client) WriteMeasurement(projectID string, m measurement.Measurement) {
	if !c.IsConnected() || !m.Completed {
		return
	}
	c.writeAPI.WritePoint(MeasurementPoint(c.siteID, projectID, m))
}

// ViolationPoint builds the point written by WriteViolationMetric.
func ViolationPoint(siteID, projectID string, vs []violation.Violation, at time.Time) *write.Point {
	summary := violation.Summarize(vs)

	var worst float64
	for _, v := range vs {
		worst = max(worst, v.Shortfall())
	}

	return write.NewPoint(
		MeasurementViolations,
		map[string]string{
			"site_id":    siteID,
			"project_id": projectID,
		},
		map[string]any{
			"total":           summary.Total,
			"warning":         summary.Warning,
			"critical":        summary.Critical,
			"worst_shortfall": worst,
		},
		at,
	)
}

// MeasurementPoint builds the point written by WriteMeasurement. The
// point is stamped with the measurement's creation time.
func MeasurementPoint(siteID, projectID string, m measurement.Measurement) *write.Point {
	fields := map[string]any{
		"points": len(m.Points),
	}
	switch m.Kind {
	case measurement.KindDistance:
		fields["distance_ft"] = m.Distance
	case measurement.KindPerimeter:
		fields["perimeter_ft"] = m.Perimeter
	case measurement.KindArea:
		fields["area_sqft"] = m.Area
		fields["perimeter_ft"] = m.Perimeter
	}

	at := m.CreatedAt
	if at.IsZero() {
		at = time.Now()
	}

	return write.NewPoint(
		MeasurementMeasurement,
		map[string]string{
			"site_id":        siteID,
			"project_id":     projectID,
			"kind":           string(m.Kind),
			"measurement_id": m.ID,
		},
		fields,
		at,
	)
}
