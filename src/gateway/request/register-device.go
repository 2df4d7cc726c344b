package request

type RegisterDevice struct {
	DeviceID           string `json:"deviceId"`
	Name               string `json:"name"`
	Class              string `json:"class"`
	TransportMode      string `json:"transportMode"`
	Category           string `json:"category"`
	Location           string `json:"location"`
	AttestationEnabled *bool  `json:"attestationEnabled"`
}
