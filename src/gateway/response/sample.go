package response

import (
	"time"

	"github.com/trackium/trackd/src/utils/model"
)

type Sample struct {
	ID             int64     `json:"id"`
	DeviceID       string    `json:"deviceId"`
	Latitude       float64   `json:"lat"`
	Longitude      float64   `json:"lon"`
	Altitude       float64   `json:"altitude"`
	Speed          float64   `json:"speed"`
	Accuracy       float64   `json:"accuracy"`
	CapturedAt     time.Time `json:"capturedAt"`
	Attested       bool      `json:"attested"`
	AttestationRef string    `json:"attestationRef,omitempty"`
}

type GetHistory struct {
	Samples []Sample `json:"samples"`
}

func SampleToResponse(sample *model.MovementSample) Sample {
	return Sample{
		ID:             sample.ID,
		DeviceID:       sample.DeviceID,
		Latitude:       sample.Latitude,
		Longitude:      sample.Longitude,
		Altitude:       sample.Altitude,
		Speed:          sample.Speed,
		Accuracy:       sample.Accuracy,
		CapturedAt:     sample.CapturedAt,
		Attested:       sample.Attested,
		AttestationRef: sample.AttestationRef.String,
	}
}

func SamplesToResponse(samples []model.MovementSample) *GetHistory {
	out := make([]Sample, len(samples))
	for i := range samples {
		out[i] = SampleToResponse(&samples[i])
	}
	return &GetHistory{Samples: out}
}
