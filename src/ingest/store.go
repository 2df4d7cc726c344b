package ingest

import (
	"time"

	"github.com/trackium/trackd/src/utils/config"
	"github.com/trackium/trackd/src/utils/eventbus"
	"github.com/trackium/trackd/src/utils/model"
	"github.com/trackium/trackd/src/utils/monitoring"
	"github.com/trackium/trackd/src/utils/task"

	"gorm.io/gorm"
)

// Persists location reports in batches. One flush inserts the samples,
// refreshes the reporting devices and emits the movement events.
type Store struct {
	*task.Hole[*Payload]

	db      *gorm.DB
	bus     *eventbus.Bus
	monitor monitoring.Monitor
}

func NewStore(config *config.Config) (self *Store) {
	self = new(Store)

	self.Hole = task.NewHole[*Payload](config, "store").
		WithBatchSize(config.Ingester.StoreBatchSize).
		WithOnFlush(config.Ingester.StoreInterval, self.flush).
		WithBackoff(config.Ingester.StoreBackoffMaxElapsedTime, config.Ingester.StoreBackoffMaxInterval)

	return
}

func (self *Store) WithDB(db *gorm.DB) *Store {
	self.db = db
	return self
}

func (self *Store) WithEventBus(bus *eventbus.Bus) *Store {
	self.bus = bus
	return self
}

func (self *Store) WithMonitor(monitor monitoring.Monitor) *Store {
	self.monitor = monitor
	return self
}

func (self *Store) WithInputChannel(input chan *Payload) *Store {
	self.Hole.WithInputChannel(input)
	return self
}

type deviceHealth struct {
	DeviceID string
	Battery  int
	Status   model.DeviceStatus
}

func (self *Store) flush(payloads []*Payload) (err error) {
	if len(payloads) == 0 {
		return nil
	}

	samples := make([]*model.MovementSample, 0, len(payloads))
	for _, payload := range payloads {
		samples = append(samples, payload.Sample)
	}

	// Latest health report wins within the batch
	health := make(map[string]*Payload, len(payloads))
	for _, payload := range payloads {
		health[payload.Sample.DeviceID] = payload
	}

	deviceIds := make([]string, 0, len(health))
	for deviceId := range health {
		deviceIds = append(deviceIds, deviceId)
	}

	previous := make([]deviceHealth, 0, len(deviceIds))

	err = self.db.Transaction(func(tx *gorm.DB) (err error) {
		err = tx.WithContext(self.Ctx).
			Table(model.TableDevice).
			Select("device_id", "battery", "status").
			Where("device_id IN ?", deviceIds).
			Scan(&previous).
			Error
		if err != nil {
			return
		}

		err = tx.WithContext(self.Ctx).Create(&samples).Error
		if err != nil {
			return
		}

		now := time.Now()
		for deviceId, payload := range health {
			updates := map[string]any{
				"last_seen_at": now,
				"status":       model.DeviceStatusOnline,
			}
			if payload.Battery != nil {
				updates["battery"] = *payload.Battery
			}
			if payload.Signal != nil {
				updates["signal"] = *payload.Signal
			}

			err = tx.WithContext(self.Ctx).
				Model(&model.Device{}).
				Where("device_id = ?", deviceId).
				Updates(updates).
				Error
			if err != nil {
				return
			}
		}
		return nil
	})
	if err != nil {
		self.monitor.GetReport().Ingester.Errors.DbInsert.Inc()
		return
	}

	self.monitor.GetReport().Ingester.State.SamplesSaved.Add(uint64(len(samples)))
	self.monitor.GetReport().Ingester.State.LastSampleUnixSec.Store(time.Now().Unix())

	self.publishEvents(samples, health, previous)

	return nil
}

func (self *Store) publishEvents(samples []*model.MovementSample, health map[string]*Payload, previous []deviceHealth) {
	previousHealth := make(map[string]deviceHealth, len(previous))
	for _, p := range previous {
		previousHealth[p.DeviceID] = p
	}

	// A report from a device that was marked offline brings it back
	for deviceId := range health {
		prev, ok := previousHealth[deviceId]
		if !ok || prev.Status != model.DeviceStatusOffline {
			continue
		}

		event, err := model.NewDomainEvent(deviceId, model.EventKindActivated, nil)
		if err != nil {
			continue
		}

		err = self.bus.Publish(self.Ctx, event)
		if err != nil {
			self.Log.WithError(err).Warn("Failed to publish activation event")
			return
		}
	}

	for _, sample := range samples {
		event, err := model.NewDomainEvent(sample.DeviceID, model.EventKindMovementDetected, map[string]any{
			"sampleId": sample.ID,
			"lat":      sample.Latitude,
			"lon":      sample.Longitude,
		})
		if err != nil {
			continue
		}

		err = self.bus.Publish(self.Ctx, event)
		if err != nil {
			self.Log.WithError(err).Warn("Failed to publish movement event")
			return
		}
	}

	threshold := self.Config.Ingester.LowBatteryThreshold
	for deviceId, payload := range health {
		if payload.Battery == nil || *payload.Battery > threshold {
			continue
		}
		if prev, ok := previousHealth[deviceId]; ok && prev.Battery <= threshold {
			// Already below, alert went out earlier
			continue
		}

		event, err := model.NewDomainEvent(deviceId, model.EventKindLowBattery, map[string]any{
			"battery": *payload.Battery,
		})
		if err != nil {
			continue
		}

		err = self.bus.Publish(self.Ctx, event)
		if err != nil {
			self.Log.WithError(err).Warn("Failed to publish low battery event")
			return
		}

		self.monitor.GetReport().Ingester.State.LowBatteryAlerts.Inc()
	}
}
