package response

import (
	"database/sql"
	"time"

	"github.com/trackium/trackd/src/utils/model"

	"github.com/stretchr/testify/require"

	"testing"
)

func TestDeviceToResponse(t *testing.T) {
	lastSeen := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)

	device := &model.Device{
		DeviceID:           "TRACK-LX3K2M9A-7Q2F",
		Name:               "Container 17",
		Class:              model.DeviceClassTracker,
		TransportMode:      "sea",
		Category:           "containers",
		Status:             model.DeviceStatusOnline,
		Battery:            87,
		Signal:             4,
		AttestationEnabled: true,
		LastSeenAt:         sql.NullTime{Time: lastSeen, Valid: true},
	}

	out := DeviceToResponse(device)
	require.Equal(t, "TRACK-LX3K2M9A-7Q2F", out.DeviceID)
	require.Equal(t, "tracker", out.Class)
	require.Equal(t, "online", out.Status)
	require.NotNil(t, out.LastSeenAt)
	require.Equal(t, lastSeen, *out.LastSeenAt)
}

func TestDeviceToResponseNeverSeen(t *testing.T) {
	out := DeviceToResponse(&model.Device{DeviceID: "TRACK-LX3K2M9A-7Q2F"})
	require.Nil(t, out.LastSeenAt)
}

func TestSampleToResponse(t *testing.T) {
	sample := &model.MovementSample{
		ID:             7,
		DeviceID:       "TRACK-LX3K2M9A-7Q2F",
		Latitude:       52.2297,
		Longitude:      21.0122,
		Attested:       true,
		AttestationRef: sql.NullString{String: "0x0003E4", Valid: true},
	}

	out := SampleToResponse(sample)
	require.EqualValues(t, 7, out.ID)
	require.True(t, out.Attested)
	require.Equal(t, "0x0003E4", out.AttestationRef)
}
