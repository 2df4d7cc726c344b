package report

import (
	"go.uber.org/atomic"
)

type VerifierErrors struct {
	PollerFetchError   atomic.Uint64 `json:"poller_fetch_error"`
	LedgerQueryError   atomic.Uint64 `json:"ledger_query_error"`
	DbStateUpdateError atomic.Uint64 `json:"db_state_update_error"`
}

type VerifierState struct {
	AttestationsTakenFromDb atomic.Uint64 `json:"attestations_taken_from_db"`
	AllCheckedAttestations  atomic.Uint64 `json:"all_checked_attestations"`
	VerifiedAttestations    atomic.Uint64 `json:"verified_attestations"`
	HashMismatches          atomic.Uint64 `json:"hash_mismatches"`
	NotFoundOnLedger        atomic.Uint64 `json:"not_found_on_ledger"`
	DbStateUpdated          atomic.Uint64 `json:"db_state_updated"`
}

type VerifierReport struct {
	State  VerifierState  `json:"state"`
	Errors VerifierErrors `json:"errors"`
}
