package mqtt

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jscales4000/LotPlanner-sub000/internal/calibration"
	"github.com/jscales4000/LotPlanner-sub000/internal/violation"
)

// Maximum payload size for MQTT messages (1MB).
const maxPayloadSize = 1 << 20

// ViolationsEvent is published whenever a project's violations are recomputed.
type ViolationsEvent struct {
	ProjectID  string                `json:"projectId"`
	Summary    violation.Summary     `json:"summary"`
	Violations []violation.Violation `json:"violations"`
	Timestamp  time.Time             `json:"timestamp"`
}

// CalibrationEvent is published after a calibration is applied.
type CalibrationEvent struct {
	ProjectID string             `json:"projectId"`
	Result    calibration.Result `json:"result"`
	Timestamp time.Time          `json:"timestamp"`
}

// Publish sends payload to topic and waits for the broker to acknowledge
// at the requested QoS.
func (c *Client) Publish(topic string, payload []byte, qos byte, retained bool) error {
	if topic == "" {
		return ErrInvalidTopic
	}
	if qos > maxQoS {
		return ErrInvalidQoS
	}
	if len(payload) > maxPayloadSize {
		return fmt.Errorf("%w: payload size %d exceeds maximum %d bytes", ErrPublishFailed, len(payload), maxPayloadSize)
	}
	if !c.IsConnected() {
		return ErrNotConnected
	}

	token := c.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(defaultPublishTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrPublishFailed, defaultPublishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}
	return nil
}

// PublishJSON marshals v and publishes it with the configured QoS.
func (c *Client) PublishJSON(topic string, v any, retained bool) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: encoding payload: %w", ErrPublishFailed, err)
	}
	return c.Publish(topic, payload, byte(c.cfg.QoS), retained)
}

// PublishViolations publishes the project's current violations as a
// retained message so late subscribers see the latest state.
func (c *Client) PublishViolations(projectID string, vs []violation.Violation) error {
	return c.PublishJSON(Topics{}.ProjectViolations(projectID), NewViolationsEvent(projectID, vs), true)
}

// PublishCalibration publishes a calibration result.
func (c *Client) PublishCalibration(projectID string, result calibration.Result) error {
	return c.PublishJSON(Topics{}.ProjectCalibration(projectID), CalibrationEvent{
		ProjectID: projectID,
		Result:    result,
		Timestamp: time.Now().UTC(),
	}, false)
}

// NewViolationsEvent builds the payload for PublishViolations. A nil
// slice is encoded as an empty array.
func NewViolationsEvent(projectID string, vs []violation.Violation) ViolationsEvent {
	if vs == nil {
		vs = []violation.Violation{}
	}
	return ViolationsEvent{
		ProjectID:  projectID,
		Summary:    violation.Summarize(vs),
		Violations: vs,
		Timestamp:  time.Now().UTC(),
	}
}
