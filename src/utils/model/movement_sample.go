package model

import (
	"database/sql"
	"time"
)

const (
	TableMovementSample = "movement_samples"
)

// One position reading. Geographic fields are immutable once written,
// only the attestation pair may transition, and only once.
type MovementSample struct {
	ID int64 `gorm:"primaryKey"`

	DeviceID string `gorm:"index"`

	Latitude  float64
	Longitude float64
	Altitude  float64
	Speed     float64

	// Horizontal accuracy in meters
	Accuracy float64

	// Time reported by the source. Out-of-order arrival is accepted,
	// latest/history queries order by insertion (id), not capture time.
	CapturedAt time.Time

	CreatedAt time.Time

	// (false, null) -> (true, reference), set by the proof pipeline
	Attested       bool
	AttestationRef sql.NullString

	// Bumped when the proof pipeline claims the sample. A claim that
	// doesn't end in an attestation expires after the retry window.
	ProvingAt sql.NullTime
}

func (MovementSample) TableName() string {
	return TableMovementSample
}
