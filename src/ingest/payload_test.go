package ingest

import (
	"time"

	"github.com/trackium/trackd/src/utils/model"

	"github.com/stretchr/testify/require"

	"testing"
)

func validPayload() *LocationPayload {
	return &LocationPayload{
		DeviceID:  "TRACK-LX3K2M9A-7Q2F",
		Latitude:  52.2297,
		Longitude: 21.0122,
		Altitude:  113.5,
		Speed:     12.4,
		Accuracy:  3.1,
		Timestamp: 1756351000000,
	}
}

func TestPayloadValidateOk(t *testing.T) {
	require.NoError(t, validPayload().Validate())
}

func TestPayloadValidateRejects(t *testing.T) {
	battery := 120

	cases := []struct {
		name   string
		mutate func(*LocationPayload)
		field  string
	}{
		{"empty device id", func(p *LocationPayload) { p.DeviceID = "  " }, "deviceId"},
		{"latitude too low", func(p *LocationPayload) { p.Latitude = -90.1 }, "lat"},
		{"latitude too high", func(p *LocationPayload) { p.Latitude = 91 }, "lat"},
		{"longitude too low", func(p *LocationPayload) { p.Longitude = -181 }, "lon"},
		{"longitude too high", func(p *LocationPayload) { p.Longitude = 180.5 }, "lon"},
		{"negative accuracy", func(p *LocationPayload) { p.Accuracy = -1 }, "accuracy"},
		{"negative speed", func(p *LocationPayload) { p.Speed = -0.1 }, "speed"},
		{"battery out of range", func(p *LocationPayload) { p.Battery = &battery }, "battery"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			payload := validPayload()
			c.mutate(payload)

			err := payload.Validate()
			require.Error(t, err)

			var validationErr *model.ValidationError
			require.ErrorAs(t, err, &validationErr)
			require.Equal(t, c.field, validationErr.Field)
		})
	}
}

func TestPayloadBoundaryCoordinatesAccepted(t *testing.T) {
	payload := validPayload()
	payload.Latitude = 90
	payload.Longitude = -180
	require.NoError(t, payload.Validate())
}

func TestPayloadCapturedAt(t *testing.T) {
	payload := validPayload()
	require.Equal(t, time.UnixMilli(1756351000000), payload.CapturedAt())

	payload.Timestamp = 0
	require.WithinDuration(t, time.Now(), payload.CapturedAt(), time.Second)
}

func TestPayloadToSample(t *testing.T) {
	payload := validPayload()
	sample := payload.Sample()

	require.Equal(t, payload.DeviceID, sample.DeviceID)
	require.Equal(t, payload.Latitude, sample.Latitude)
	require.Equal(t, payload.Longitude, sample.Longitude)
	require.Equal(t, payload.Altitude, sample.Altitude)
	require.Equal(t, payload.Speed, sample.Speed)
	require.Equal(t, payload.Accuracy, sample.Accuracy)
	require.Equal(t, time.UnixMilli(payload.Timestamp), sample.CapturedAt)
	require.False(t, sample.Attested)
}
