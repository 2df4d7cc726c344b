package prove

import (
	"encoding/json"
	"time"

	"github.com/trackium/trackd/src/utils/config"
	"github.com/trackium/trackd/src/utils/model"
	"github.com/trackium/trackd/src/utils/monitoring"
	"github.com/trackium/trackd/src/utils/streamer"
	"github.com/trackium/trackd/src/utils/task"

	"gorm.io/gorm"
)

// Gets a live stream of proof requests through a postgres channel.
// Responds faster than waiting for the next poller sweep.
type Notifier struct {
	*task.Task
	db *gorm.DB

	streamer *streamer.Streamer
	monitor  monitoring.Monitor

	output chan *model.MovementSample
}

func NewNotifier(config *config.Config) (self *Notifier) {
	self = new(Notifier)

	if config.Prover.NotifierDisabled {
		self.Task = task.NewTask(config, "notifier")
		return
	}

	self.streamer = streamer.NewStreamer(config).
		WithNotificationChannelName(config.Prover.NotifierChannelName).
		WithCapacity(10)

	self.Task = task.NewTask(config, "notifier").
		WithSubtask(self.streamer.Task).
		WithSubtaskFunc(self.run).
		// Workers look up the requested sample in the database
		WithWorkerPool(config.Prover.NotifierWorkerPoolSize, config.Prover.NotifierWorkerQueueSize)

	return
}

func (self *Notifier) WithDB(db *gorm.DB) *Notifier {
	self.db = db
	return self
}

func (self *Notifier) WithMonitor(monitor monitoring.Monitor) *Notifier {
	self.monitor = monitor
	return self
}

func (self *Notifier) WithOutputChannel(samples chan *model.MovementSample) *Notifier {
	self.output = samples
	return self
}

func (self *Notifier) run() error {
	for {
		select {
		case <-self.Ctx.Done():
			return nil
		case msg, ok := <-self.streamer.Output:
			if !ok {
				self.Log.Info("Notification streamer channel closed")
				return nil
			}

			self.SubmitToWorker(func() {
				var request AttestationRequest
				err := json.Unmarshal([]byte(msg), &request)
				if err != nil {
					self.Log.WithError(err).Error("Failed to unmarshal notification")
					return
				}

				sample, err := self.claimLatest(request.DeviceID)
				if err != nil {
					self.Log.WithError(err).Error("Failed to claim sample for requested proof")
					self.monitor.GetReport().Prover.Errors.PollerFetchError.Inc()
					return
				}
				if sample == nil {
					// Nothing unattested, or the sample is already claimed
					self.Log.WithField("device_id", request.DeviceID).Debug("No sample to claim for requested proof")
					return
				}

				select {
				case <-self.Ctx.Done():
					return
				case self.output <- sample:
				}

				// Update metrics
				self.monitor.GetReport().Prover.State.RequestsFromNotifier.Inc()
			})
		}
	}
}

// Claims the freshest unattested sample of the device the same way the
// poller does, so a request overlapping a sweep proves nothing twice.
// Returns nil when there's nothing claimable.
func (self *Notifier) claimLatest(deviceId string) (sample *model.MovementSample, err error) {
	retryDeadline := time.Now().Add(-self.Config.Prover.PollerRetryProveAfter)

	samples := make([]*model.MovementSample, 0, 1)
	err = self.db.WithContext(self.Ctx).
		Raw(`UPDATE movement_samples
			SET proving_at = NOW()
			WHERE id = (
				SELECT id
				FROM movement_samples
				WHERE device_id = ? AND attested = FALSE
				ORDER BY id DESC
				LIMIT 1
				FOR UPDATE SKIP LOCKED)
			AND attested = FALSE
			AND (proving_at IS NULL OR proving_at < ?)
			RETURNING *`, deviceId, retryDeadline).
		Scan(&samples).
		Error
	if err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, nil
	}
	return samples[0], nil
}
