package ledger

import (
	"errors"
	"fmt"

	"github.com/stretchr/testify/require"

	"testing"
)

func TestErrorWrapsCause(t *testing.T) {
	err := NewError(StepPosting, ErrTxNotFound)

	require.ErrorIs(t, err, ErrTxNotFound)
	require.Contains(t, err.Error(), StepPosting)

	var ledgerErr *Error
	require.ErrorAs(t, err, &ledgerErr)
	require.Equal(t, StepPosting, ledgerErr.Step)
}

func TestErrorStepSurvivesFurtherWrapping(t *testing.T) {
	err := fmt.Errorf("proof failed: %w", NewError(StepFunding, ErrNoSpendableCoins))

	var ledgerErr *Error
	require.ErrorAs(t, err, &ledgerErr)
	require.Equal(t, StepFunding, ledgerErr.Step)
	require.ErrorIs(t, err, ErrNoSpendableCoins)
}

func TestErrorDistinguishesCauses(t *testing.T) {
	err := NewError(StepQuery, ErrFailedToParse)

	require.ErrorIs(t, err, ErrFailedToParse)
	require.NotErrorIs(t, err, ErrTxNotFound)
	require.NotErrorIs(t, err, errors.New("failed to parse node response"))
}
