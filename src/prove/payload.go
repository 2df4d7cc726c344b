package prove

// Notification sent through the postgres channel when someone
// requests an immediate proof for a device
type AttestationRequest struct {
	DeviceID string `json:"deviceId"`
}
