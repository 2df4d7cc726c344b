package model

import (
	"database/sql"
	"database/sql/driver"
	"time"

	"gorm.io/gorm"
)

const (
	TableDevice = "devices"
)

// CREATE TYPE device_status AS ENUM ('online', 'offline');
type DeviceStatus string

const (
	DeviceStatusOnline  DeviceStatus = "online"
	DeviceStatusOffline DeviceStatus = "offline"
)

func (self *DeviceStatus) Scan(value interface{}) error {
	*self = DeviceStatus(value.(string))
	return nil
}

func (self DeviceStatus) Value() (driver.Value, error) {
	return string(self), nil
}

type DeviceClass string

const (
	DeviceClassTracker    DeviceClass = "tracker"
	DeviceClassSmartLock  DeviceClass = "smart-lock"
	DeviceClassSmartphone DeviceClass = "smartphone"
)

type Device struct {
	// Opaque identifier, assigned exactly once at registration
	DeviceID string `gorm:"primaryKey"`

	// Display name shown in UIs
	Name string

	// tracker | smart-lock | smartphone
	Class DeviceClass

	// How the device travels, e.g. ground/air/sea
	TransportMode string

	// Free-form grouping tag
	Category string

	// Free-text location label
	Location string

	// Connectivity status, flipped by ingestion and the offline reaper
	Status DeviceStatus `gorm:"type:device_status"`

	// 0-100
	Battery int

	// Signal strength reported by the device
	Signal int

	// Smart-lock state. Updated only through a compare-and-set.
	Locked bool

	// Whether movement samples of this device are attested to the ledger
	AttestationEnabled bool

	CreatedAt time.Time

	// Time of the last successfully ingested sample
	LastSeenAt sql.NullTime

	// Removed devices keep their row, history stays queryable
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Device) TableName() string {
	return TableDevice
}
