package report

import (
	"go.uber.org/atomic"
)

type IngesterErrors struct {
	PayloadValidation atomic.Uint64 `json:"payload_validation"`
	UnknownDevice     atomic.Uint64 `json:"unknown_device"`
	DbInsert          atomic.Uint64 `json:"db_insert"`
	PullFailure       atomic.Uint64 `json:"pull_failure"`
}

type IngesterState struct {
	SamplesReceived   atomic.Uint64 `json:"samples_received"`
	SamplesSaved      atomic.Uint64 `json:"samples_saved"`
	SamplesPulled     atomic.Uint64 `json:"samples_pulled"`
	LowBatteryAlerts  atomic.Uint64 `json:"low_battery_alerts"`
	LastSampleUnixSec atomic.Int64  `json:"last_sample_unix_sec"`
}

type IngesterReport struct {
	State  IngesterState  `json:"state"`
	Errors IngesterErrors `json:"errors"`
}
