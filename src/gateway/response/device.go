package response

import (
	"time"

	"github.com/trackium/trackd/src/utils/model"
)

type Device struct {
	DeviceID           string     `json:"deviceId"`
	Name               string     `json:"name"`
	Class              string     `json:"class"`
	TransportMode      string     `json:"transportMode,omitempty"`
	Category           string     `json:"category,omitempty"`
	Location           string     `json:"location,omitempty"`
	Status             string     `json:"status"`
	Battery            int        `json:"battery"`
	Signal             int        `json:"signal"`
	Locked             bool       `json:"locked"`
	AttestationEnabled bool       `json:"attestationEnabled"`
	CreatedAt          time.Time  `json:"createdAt"`
	LastSeenAt         *time.Time `json:"lastSeenAt,omitempty"`
}

type ListDevices struct {
	Devices []Device `json:"devices"`
}

type DeviceDetail struct {
	Device       Device        `json:"device"`
	LatestSample *Sample       `json:"latestSample,omitempty"`
	Attestations []Attestation `json:"attestations"`
	Events       []Event       `json:"events"`
}

func DeviceToResponse(device *model.Device) Device {
	out := Device{
		DeviceID:           device.DeviceID,
		Name:               device.Name,
		Class:              string(device.Class),
		TransportMode:      device.TransportMode,
		Category:           device.Category,
		Location:           device.Location,
		Status:             string(device.Status),
		Battery:            device.Battery,
		Signal:             device.Signal,
		Locked:             device.Locked,
		AttestationEnabled: device.AttestationEnabled,
		CreatedAt:          device.CreatedAt,
	}
	if device.LastSeenAt.Valid {
		lastSeen := device.LastSeenAt.Time
		out.LastSeenAt = &lastSeen
	}
	return out
}

func DevicesToResponse(devices []model.Device) *ListDevices {
	out := make([]Device, len(devices))
	for i := range devices {
		out[i] = DeviceToResponse(&devices[i])
	}
	return &ListDevices{Devices: out}
}
