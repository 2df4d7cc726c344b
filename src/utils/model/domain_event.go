package model

import (
	"encoding/json"
	"time"

	"github.com/jackc/pgtype"
	"github.com/rs/xid"
)

const (
	TableDomainEvent = "domain_events"
)

type EventKind string

const (
	EventKindRegistered           EventKind = "registered"
	EventKindActivated            EventKind = "activated"
	EventKindDeactivated          EventKind = "deactivated"
	EventKindLocked               EventKind = "locked"
	EventKindUnlocked             EventKind = "unlocked"
	EventKindMovementDetected     EventKind = "movement-detected"
	EventKindLowBattery           EventKind = "low-battery"
	EventKindAttestationSubmitted EventKind = "attestation-submitted"
)

type DomainEvent struct {
	// Sortable globally unique id, generated with xid
	ID string `gorm:"primaryKey"`

	DeviceID string `gorm:"index"`

	Kind EventKind

	Payload pgtype.JSONB

	CreatedAt time.Time
}

func (DomainEvent) TableName() string {
	return TableDomainEvent
}

func NewDomainEvent(deviceId string, kind EventKind, payload any) (self *DomainEvent, err error) {
	self = &DomainEvent{
		ID:        xid.New().String(),
		DeviceID:  deviceId,
		Kind:      kind,
		CreatedAt: time.Now(),
	}

	err = self.Payload.Set(payload)
	if err != nil {
		return nil, err
	}
	return
}

// Implements encoding.BinaryMarshaler, used by the redis publisher
func (e *DomainEvent) MarshalBinary() ([]byte, error) {
	var payload json.RawMessage
	if e.Payload.Status == pgtype.Present {
		payload = json.RawMessage(e.Payload.Bytes)
	}
	return json.Marshal(struct {
		ID        string          `json:"id"`
		DeviceID  string          `json:"device_id"`
		Kind      EventKind       `json:"kind"`
		Payload   json.RawMessage `json:"payload,omitempty"`
		CreatedAt time.Time       `json:"created_at"`
	}{
		ID:        e.ID,
		DeviceID:  e.DeviceID,
		Kind:      e.Kind,
		Payload:   payload,
		CreatedAt: e.CreatedAt,
	})
}
