package verify

// Attestation confirmed on the ledger, ready to be marked verified
type Payload struct {
	AttestationID int64
	BlockHeight   int64
}
