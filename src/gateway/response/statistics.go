package response

type Statistics struct {
	Devices              int64 `json:"devices"`
	OnlineDevices        int64 `json:"onlineDevices"`
	Samples              int64 `json:"samples"`
	AttestedSamples      int64 `json:"attestedSamples"`
	Attestations         int64 `json:"attestations"`
	VerifiedAttestations int64 `json:"verifiedAttestations"`
	Events               int64 `json:"events"`
}
