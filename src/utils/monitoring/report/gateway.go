package report

import (
	"go.uber.org/atomic"
)

type GatewayErrors struct {
	DbError      atomic.Uint64 `json:"db_error"`
	PublishError atomic.Uint64 `json:"publish_error"`
}

type GatewayState struct {
	DevicesReturned   atomic.Uint64 `json:"devices_returned"`
	SamplesReturned   atomic.Uint64 `json:"samples_returned"`
	DevicesRegistered atomic.Uint64 `json:"devices_registered"`
	DevicesRemoved    atomic.Uint64 `json:"devices_removed"`
	LockToggles       atomic.Uint64 `json:"lock_toggles"`
	ProofRequests     atomic.Uint64 `json:"proof_requests"`
}

type GatewayReport struct {
	State  GatewayState  `json:"state"`
	Errors GatewayErrors `json:"errors"`
}
