package model

import (
	"database/sql"
	"time"
)

const (
	TableAttestation = "attestations"

	AttestationKindMovement = "movement"
)

// Record of a movement proof submitted to the ledger.
// Verified transitions false -> true exactly once, CheckedAt is bumped
// every time a verification attempt claims the row.
type Attestation struct {
	ID int64 `gorm:"primaryKey"`

	DeviceID string `gorm:"index"`
	SampleID int64  `gorm:"index"`

	Kind string

	// Hex encoded SHA-256 of the canonical sample representation
	ContentHash string

	// Ledger transaction id returned on post
	TxReference string

	Verified    bool
	CheckedAt   sql.NullTime
	BlockHeight sql.NullInt64

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Attestation) TableName() string {
	return TableAttestation
}
