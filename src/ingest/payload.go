package ingest

import (
	"strings"
	"time"

	"github.com/trackium/trackd/src/utils/model"
)

// Location report as devices and the companion app send it.
// Field names are part of the device protocol, do not rename.
type LocationPayload struct {
	DeviceID  string  `json:"deviceId"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	Altitude  float64 `json:"altitude"`
	Speed     float64 `json:"speed"`
	Accuracy  float64 `json:"accuracy"`

	// Optional device health, absent fields leave the stored values
	Battery *int `json:"battery"`
	Signal  *int `json:"signal"`

	// Unix millis of the reading, 0 means "now"
	Timestamp int64 `json:"timestamp"`
}

func (self *LocationPayload) Validate() error {
	if strings.TrimSpace(self.DeviceID) == "" {
		return model.NewValidationError("deviceId", "must not be empty")
	}
	if self.Latitude < -90 || self.Latitude > 90 {
		return model.NewValidationError("lat", "must be between -90 and 90")
	}
	if self.Longitude < -180 || self.Longitude > 180 {
		return model.NewValidationError("lon", "must be between -180 and 180")
	}
	if self.Accuracy < 0 {
		return model.NewValidationError("accuracy", "must not be negative")
	}
	if self.Speed < 0 {
		return model.NewValidationError("speed", "must not be negative")
	}
	if self.Battery != nil && (*self.Battery < 0 || *self.Battery > 100) {
		return model.NewValidationError("battery", "must be between 0 and 100")
	}
	return nil
}

func (self *LocationPayload) CapturedAt() time.Time {
	if self.Timestamp == 0 {
		return time.Now()
	}
	return time.UnixMilli(self.Timestamp)
}

func (self *LocationPayload) Sample() *model.MovementSample {
	return &model.MovementSample{
		DeviceID:   self.DeviceID,
		Latitude:   self.Latitude,
		Longitude:  self.Longitude,
		Altitude:   self.Altitude,
		Speed:      self.Speed,
		Accuracy:   self.Accuracy,
		CapturedAt: self.CapturedAt(),
	}
}

// What travels from the server/puller to the store
type Payload struct {
	Sample  *model.MovementSample
	Battery *int
	Signal  *int
}
