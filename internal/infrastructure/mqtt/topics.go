package mqtt

import "fmt"

// TopicPrefix is the root of every topic the lot planner publishes.
const TopicPrefix = "lotplanner"

// Topics builds lot planner topic names.
//
//	mqtt.Topics{}.ProjectViolations("b7c1...")
//	// lotplanner/project/b7c1.../violations
type Topics struct{}

// ProjectViolations carries the current violation set of a project.
func (Topics) ProjectViolations(projectID string) string {
	return fmt.Sprintf("%s/project/%s/violations", TopicPrefix, projectID)
}

// ProjectCalibration carries calibration results applied to a project.
func (Topics) ProjectCalibration(projectID string) string {
	return fmt.Sprintf("%s/project/%s/calibration", TopicPrefix, projectID)
}

// SystemStatus carries the retained online/offline status.
func (Topics) SystemStatus() string {
	return TopicPrefix + "/system/status"
}

// AllProjectEvents matches every per-project topic.
func (Topics) AllProjectEvents() string {
	return TopicPrefix + "/project/+/#"
}
