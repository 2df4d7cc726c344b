package report

import (
	"go.uber.org/atomic"
)

type RegistryErrors struct {
	ReaperDbError atomic.Uint64 `json:"reaper_db_error"`
	PrunerDbError atomic.Uint64 `json:"pruner_db_error"`
}

type RegistryState struct {
	DevicesMarkedOffline atomic.Uint64 `json:"devices_marked_offline"`
	EventsPruned         atomic.Uint64 `json:"events_pruned"`
	SamplesPruned        atomic.Uint64 `json:"samples_pruned"`
}

type RegistryReport struct {
	State  RegistryState  `json:"state"`
	Errors RegistryErrors `json:"errors"`
}
