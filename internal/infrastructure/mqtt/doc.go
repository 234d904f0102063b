// Package mqtt publishes lot planner events to an MQTT broker.
//
// When a project's violations are recomputed the service publishes a
// retained ViolationsEvent on lotplanner/project/{id}/violations, and
// every applied calibration goes to lotplanner/project/{id}/calibration.
// Other site systems (gate displays, inspection tablets) subscribe to
// these topics instead of polling the HTTP API.
//
// The client reconnects automatically and keeps a retained status on
// lotplanner/system/status, with a last will marking it offline.
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	err = client.PublishViolations(projectID, violations)
package mqtt
