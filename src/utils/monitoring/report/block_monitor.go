package report

import (
	"go.uber.org/atomic"
)

type BlockMonitorErrors struct {
	HeightQueryError atomic.Uint64 `json:"height_query_error"`
}

type BlockMonitorState struct {
	CurrentHeight     atomic.Int64  `json:"current_height"`
	StableHeight      atomic.Int64  `json:"stable_height"`
	HeightsAnnounced  atomic.Uint64 `json:"heights_announced"`
	LastCheckUnixSec  atomic.Int64  `json:"last_check_unix_sec"`
}

type BlockMonitorReport struct {
	State  BlockMonitorState  `json:"state"`
	Errors BlockMonitorErrors `json:"errors"`
}
