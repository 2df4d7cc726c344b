package model

import (
	"encoding/json"

	"github.com/stretchr/testify/require"

	"testing"
)

func TestNewDomainEvent(t *testing.T) {
	event, err := NewDomainEvent("TRACK-LX3K2M9A-7Q2F", EventKindMovementDetected, map[string]any{"sampleId": 7})
	require.NoError(t, err)

	require.NotEmpty(t, event.ID)
	require.Equal(t, "TRACK-LX3K2M9A-7Q2F", event.DeviceID)
	require.Equal(t, EventKindMovementDetected, event.Kind)
	require.False(t, event.CreatedAt.IsZero())

	// Ids are sortable, later events sort after earlier ones
	second, err := NewDomainEvent("TRACK-LX3K2M9A-7Q2F", EventKindLowBattery, nil)
	require.NoError(t, err)
	require.Less(t, event.ID, second.ID)
}

func TestDomainEventMarshalBinary(t *testing.T) {
	event, err := NewDomainEvent("TRACK-LX3K2M9A-7Q2F", EventKindLocked, map[string]any{"by": "operator"})
	require.NoError(t, err)

	encoded, err := event.MarshalBinary()
	require.NoError(t, err)

	var decoded struct {
		ID       string          `json:"id"`
		DeviceID string          `json:"device_id"`
		Kind     string          `json:"kind"`
		Payload  json.RawMessage `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	require.Equal(t, event.ID, decoded.ID)
	require.Equal(t, "TRACK-LX3K2M9A-7Q2F", decoded.DeviceID)
	require.Equal(t, "locked", decoded.Kind)

	// Payload travels as plain JSON, not a base64 blob
	var payload map[string]string
	require.NoError(t, json.Unmarshal(decoded.Payload, &payload))
	require.Equal(t, "operator", payload["by"])
}
