package ledger

import (
	"encoding/json"
	"strconv"
)

// Envelope every node command responds with
type response struct {
	Command  string          `json:"command"`
	Status   bool            `json:"status"`
	Pending  bool            `json:"pending"`
	Response json.RawMessage `json:"response"`
	Error    string          `json:"error"`
}

// Spendable output. Amounts come over the wire as decimal strings
type Coin struct {
	CoinID  string `json:"coinid"`
	Address string `json:"address"`
	TokenID string `json:"tokenid"`
	Amount  string `json:"amount"`
}

func (c *Coin) Value() (float64, error) {
	return strconv.ParseFloat(c.Amount, 64)
}

type StateVariable struct {
	Port int    `json:"port,string"`
	Data string `json:"data"`
}

type Transaction struct {
	TxPowID     string          `json:"txpowid"`
	InBlock     bool            `json:"isinblock"`
	BlockHeight int64           `json:"block,string"`
	State       []StateVariable `json:"state"`
}

// Returns the state value at the given port, empty string when unset
func (t *Transaction) StateValue(port int) string {
	for _, v := range t.State {
		if v.Port == port {
			return v.Data
		}
	}
	return ""
}

// Proof payload embedded in the transaction state.
// Field names are part of the on-ledger format, do not rename.
type Metadata struct {
	DeviceID  string  `json:"deviceId"`
	Hash      string  `json:"hash"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	Timestamp int64   `json:"ts"`
}

// State port the proof metadata is written to
const MetadataPort = 0

type blockInfo struct {
	Block string `json:"block"`
}

type postResult struct {
	TxPowID string `json:"txpowid"`
}
