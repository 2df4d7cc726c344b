package registry

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/trackium/trackd/src/utils/config"
	"github.com/trackium/trackd/src/utils/eventbus"
	"github.com/trackium/trackd/src/utils/logger"
	"github.com/trackium/trackd/src/utils/model"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Owns the device catalog. Synchronous API used by the REST handlers
// and the ingestion path, all writes go through the shared db.
type Registry struct {
	config *config.Config
	db     *gorm.DB
	bus    *eventbus.Bus
	log    *logrus.Entry
}

type RegisterInput struct {
	// Optional, generated when empty
	DeviceID string

	Name          string
	Class         model.DeviceClass
	TransportMode string
	Category      string
	Location      string

	// Defaults to true when nil
	AttestationEnabled *bool
}

func NewRegistry(config *config.Config, db *gorm.DB, bus *eventbus.Bus) (self *Registry) {
	self = new(Registry)
	self.config = config
	self.db = db
	self.bus = bus
	self.log = logger.NewSublogger("registry")
	return
}

func (self *Registry) Register(ctx context.Context, input *RegisterInput) (device *model.Device, err error) {
	if strings.TrimSpace(input.Name) == "" {
		err = model.NewValidationError("name", "must not be empty")
		return
	}

	class := input.Class
	if class == "" {
		class = model.DeviceClassTracker
	}

	attestationEnabled := true
	if input.AttestationEnabled != nil {
		attestationEnabled = *input.AttestationEnabled
	}

	deviceId := input.DeviceID
	if deviceId == "" {
		deviceId = GenerateDeviceId(self.config.Registry.IdPrefix)
	}

	device = &model.Device{
		DeviceID:           deviceId,
		Name:               input.Name,
		Class:              class,
		TransportMode:      input.TransportMode,
		Category:           input.Category,
		Location:           input.Location,
		Status:             model.DeviceStatusOffline,
		Battery:            100,
		AttestationEnabled: attestationEnabled,
		CreatedAt:          time.Now(),
	}

	err = self.db.WithContext(ctx).Create(device).Error
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			err = model.ErrDuplicateDevice
		}
		return nil, err
	}

	err = self.publish(ctx, deviceId, model.EventKindRegistered, map[string]any{"name": device.Name, "category": device.Category})
	if err != nil {
		return nil, err
	}

	self.log.WithField("device_id", deviceId).Info("Registered device")
	return
}

func (self *Registry) Get(ctx context.Context, deviceId string) (device *model.Device, err error) {
	device = new(model.Device)
	err = self.db.WithContext(ctx).
		Where("device_id = ?", deviceId).
		First(device).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return
}

// Lists devices, optionally narrowed down to one category.
// Both an empty category and the literal "all" mean no filter.
func (self *Registry) List(ctx context.Context, category string) (devices []model.Device, err error) {
	query := self.db.WithContext(ctx).Order("created_at DESC")
	if category != "" && category != "all" {
		query = query.Where("category = ?", category)
	}

	err = query.Find(&devices).Error
	if err != nil {
		return nil, err
	}
	return
}

// Compare-and-set on the lock flag. Setting the value the device
// already holds is a no-op, conflict is reserved for a lost race.
func (self *Registry) SetLock(ctx context.Context, deviceId string, locked bool) (err error) {
	result := self.db.WithContext(ctx).
		Model(&model.Device{}).
		Where("device_id = ?", deviceId).
		Where("locked = ?", !locked).
		Update("locked", locked)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		device, err := self.Get(ctx, deviceId)
		if err != nil {
			return err
		}
		if device.Locked == locked {
			// Already in the requested state
			return nil
		}
		return model.ErrConflict
	}

	kind := model.EventKindLocked
	if !locked {
		kind = model.EventKindUnlocked
	}
	return self.publish(ctx, deviceId, kind, nil)
}

func (self *Registry) SetAttestationEnabled(ctx context.Context, deviceId string, enabled bool) (err error) {
	result := self.db.WithContext(ctx).
		Model(&model.Device{}).
		Where("device_id = ?", deviceId).
		Update("attestation_enabled", enabled)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return
}

// Soft delete, history stays queryable for audits
func (self *Registry) Remove(ctx context.Context, deviceId string) (err error) {
	result := self.db.WithContext(ctx).
		Where("device_id = ?", deviceId).
		Delete(&model.Device{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}

	return self.publish(ctx, deviceId, model.EventKindDeactivated, nil)
}

func (self *Registry) publish(ctx context.Context, deviceId string, kind model.EventKind, payload map[string]any) (err error) {
	event, err := model.NewDomainEvent(deviceId, kind, payload)
	if err != nil {
		return
	}
	return self.bus.Publish(ctx, event)
}
