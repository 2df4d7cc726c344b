package ledger

import (
	"errors"
	"fmt"
)

// Proof pipeline steps, stored with the failure so a proof can be
// resumed or reported at the exact point it broke
const (
	StepCreate   = "create"
	StepFunding  = "funding"
	StepMetadata = "metadata"
	StepSigning  = "signing"
	StepPosting  = "posting"
	StepQuery    = "query"
)

var (
	ErrFailedToParse    = errors.New("failed to parse node response")
	ErrTxNotFound       = errors.New("transaction not found")
	ErrNoSpendableCoins = errors.New("no spendable coin covers the funding value")
)

// Wraps a node failure with the pipeline step it happened in
type Error struct {
	Step  string
	Cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("ledger %s failed: %v", e.Step, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func NewError(step string, cause error) *Error {
	return &Error{Step: step, Cause: cause}
}
