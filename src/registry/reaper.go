package registry

import (
	"context"
	"time"

	"github.com/trackium/trackd/src/utils/config"
	"github.com/trackium/trackd/src/utils/eventbus"
	"github.com/trackium/trackd/src/utils/model"
	"github.com/trackium/trackd/src/utils/monitoring"
	"github.com/trackium/trackd/src/utils/task"

	"gorm.io/gorm"
)

// Periodically marks devices offline when they stop reporting
type Reaper struct {
	*task.Task

	db      *gorm.DB
	bus     *eventbus.Bus
	monitor monitoring.Monitor
}

func NewReaper(config *config.Config) (self *Reaper) {
	self = new(Reaper)

	self.Task = task.NewTask(config, "reaper").
		WithPeriodicSubtaskFunc(config.Registry.ReaperInterval, self.reap)

	return
}

func (self *Reaper) WithDB(db *gorm.DB) *Reaper {
	self.db = db
	return self
}

func (self *Reaper) WithEventBus(bus *eventbus.Bus) *Reaper {
	self.bus = bus
	return self
}

func (self *Reaper) WithMonitor(monitor monitoring.Monitor) *Reaper {
	self.monitor = monitor
	return self
}

func (self *Reaper) reap() (err error) {
	ctx, cancel := context.WithTimeout(self.Ctx, time.Minute)
	defer cancel()

	deadline := time.Now().Add(-self.Config.Registry.OfflineAfter)

	var deviceIds []string
	err = self.db.WithContext(ctx).
		Raw(`UPDATE devices
			SET status = 'offline'
			WHERE status = 'online'
			AND (last_seen_at IS NULL OR last_seen_at < ?)
			AND deleted_at IS NULL
			RETURNING device_id`, deadline).
		Scan(&deviceIds).
		Error
	if err != nil {
		self.Log.WithError(err).Error("Failed to mark devices offline")
		self.monitor.GetReport().Registry.Errors.ReaperDbError.Inc()
		return nil
	}

	if len(deviceIds) == 0 {
		return nil
	}

	self.Log.WithField("len", len(deviceIds)).Info("Marked devices offline")
	self.monitor.GetReport().Registry.State.DevicesMarkedOffline.Add(uint64(len(deviceIds)))

	for _, deviceId := range deviceIds {
		var event *model.DomainEvent
		event, err = model.NewDomainEvent(deviceId, model.EventKindDeactivated, nil)
		if err != nil {
			return nil
		}

		err = self.bus.Publish(ctx, event)
		if err != nil {
			self.Log.WithError(err).Warn("Failed to publish offline event")
			return nil
		}
	}

	return nil
}
