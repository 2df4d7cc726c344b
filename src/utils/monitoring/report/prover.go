package report

import (
	"go.uber.org/atomic"
)

type ProverErrors struct {
	PollerFetchError     atomic.Uint64 `json:"poller_fetch_error"`
	CreateError          atomic.Uint64 `json:"create_error"`
	FundingError         atomic.Uint64 `json:"funding_error"`
	MetadataError        atomic.Uint64 `json:"metadata_error"`
	SigningError         atomic.Uint64 `json:"signing_error"`
	PostingError         atomic.Uint64 `json:"posting_error"`
	NoSpendableCoins     atomic.Uint64 `json:"no_spendable_coins"`
	DbStateUpdateError   atomic.Uint64 `json:"db_state_update_error"`
	MarkAttestedConflict atomic.Uint64 `json:"mark_attested_conflict"`
}

type ProverState struct {
	SamplesTakenFromDb   atomic.Uint64 `json:"samples_taken_from_db"`
	RequestsFromNotifier atomic.Uint64 `json:"requests_from_notifier"`
	ProofsSubmitted      atomic.Uint64 `json:"proofs_submitted"`
	AttestationsSaved    atomic.Uint64 `json:"attestations_saved"`
	LastProofUnixSec     atomic.Int64  `json:"last_proof_unix_sec"`
}

type ProverReport struct {
	State  ProverState  `json:"state"`
	Errors ProverErrors `json:"errors"`
}
