package ledger

import (
	"encoding/json"

	"github.com/stretchr/testify/require"

	"testing"
)

func TestResponseEnvelopeUnmarshal(t *testing.T) {
	raw := `{
		"command": "txpow txpowid:0x0003E4",
		"status": true,
		"pending": false,
		"response": {"txpowid": "0x0003E4", "isinblock": true, "block": "1024", "state": []}
	}`

	var envelope response
	require.NoError(t, json.Unmarshal([]byte(raw), &envelope))
	require.True(t, envelope.Status)
	require.Empty(t, envelope.Error)

	var transaction Transaction
	require.NoError(t, json.Unmarshal(envelope.Response, &transaction))
	require.Equal(t, "0x0003E4", transaction.TxPowID)
	require.True(t, transaction.InBlock)
	require.EqualValues(t, 1024, transaction.BlockHeight)
}

func TestTransactionStateValue(t *testing.T) {
	raw := `{
		"txpowid": "0x0003E4",
		"isinblock": false,
		"block": "0",
		"state": [
			{"port": "0", "data": "{\"deviceId\":\"TRACK-LX3K2M9A-7Q2F\"}"},
			{"port": "1", "data": "other"}
		]
	}`

	var transaction Transaction
	require.NoError(t, json.Unmarshal([]byte(raw), &transaction))

	require.Contains(t, transaction.StateValue(MetadataPort), "TRACK-LX3K2M9A-7Q2F")
	require.Equal(t, "other", transaction.StateValue(1))
	require.Empty(t, transaction.StateValue(99))
}

func TestMetadataRoundTrip(t *testing.T) {
	metadata := Metadata{
		DeviceID:  "TRACK-LX3K2M9A-7Q2F",
		Hash:      "deadbeef",
		Latitude:  52.2297,
		Longitude: 21.0122,
		Timestamp: 1756351000000,
	}

	encoded, err := json.Marshal(&metadata)
	require.NoError(t, err)

	// On-ledger field names
	require.Contains(t, string(encoded), `"deviceId"`)
	require.Contains(t, string(encoded), `"lat"`)
	require.Contains(t, string(encoded), `"lon"`)
	require.Contains(t, string(encoded), `"ts"`)

	var decoded Metadata
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	require.Equal(t, metadata, decoded)
}

func TestCoinValue(t *testing.T) {
	coin := Coin{Amount: "0.0001"}
	value, err := coin.Value()
	require.NoError(t, err)
	require.InDelta(t, 0.0001, value, 1e-12)

	coin.Amount = "not-a-number"
	_, err = coin.Value()
	require.Error(t, err)
}
