package prove

import (
	"context"
	"time"

	"github.com/trackium/trackd/src/utils/config"
	"github.com/trackium/trackd/src/utils/model"
	"github.com/trackium/trackd/src/utils/monitoring"
	"github.com/trackium/trackd/src/utils/task"

	"gorm.io/gorm"
)

// Periodically claims the freshest unattested sample of every device
// that has attestations enabled. This is the automatic proof sweep,
// on-demand proofs come in through the notifier. Claiming bumps
// proving_at so an overlapping sweep or a submit-now request doesn't
// prove the same sample twice, a claim that doesn't end in an
// attestation expires after the retry window.
type Poller struct {
	*task.Task
	db      *gorm.DB
	monitor monitoring.Monitor

	output chan *model.MovementSample
}

func NewPoller(config *config.Config) (self *Poller) {
	self = new(Poller)

	self.Task = task.NewTask(config, "poller").
		WithPeriodicSubtaskFunc(config.Prover.PollerInterval, self.handleNew)

	return
}

func (self *Poller) WithOutputChannel(samples chan *model.MovementSample) *Poller {
	self.output = samples
	return self
}

func (self *Poller) WithDB(db *gorm.DB) *Poller {
	self.db = db
	return self
}

func (self *Poller) WithMonitor(monitor monitoring.Monitor) *Poller {
	self.monitor = monitor
	return self
}

func (self *Poller) handleNew() (err error) {
	// Interrupts longer queries
	ctx, cancel := context.WithTimeout(self.Ctx, self.Config.Prover.PollerTimeout)
	defer cancel()

	retryDeadline := time.Now().Add(-self.Config.Prover.PollerRetryProveAfter)

	samples := make([]*model.MovementSample, 0, self.Config.Prover.PollerMaxBatchSize)

	// Only the freshest unattested sample of a device is ever proved,
	// the claim filter applies after picking it so a claimed device
	// doesn't fall back to older samples. The claim predicate repeats
	// in the outer WHERE, a concurrent claimer losing the row lock
	// updates nothing.
	err = self.db.WithContext(ctx).
		Raw(`UPDATE movement_samples
			SET proving_at = NOW()
			WHERE id IN (
				SELECT id FROM (
					SELECT DISTINCT ON (device_id) id, proving_at
					FROM movement_samples
					WHERE attested = FALSE
					AND device_id IN (
						SELECT device_id FROM devices
						WHERE attestation_enabled = TRUE AND deleted_at IS NULL)
					ORDER BY device_id, id DESC
					LIMIT ?
				) latest
				WHERE latest.proving_at IS NULL OR latest.proving_at < ?)
			AND attested = FALSE
			AND (proving_at IS NULL OR proving_at < ?)
			RETURNING *`,
			self.Config.Prover.PollerMaxBatchSize, retryDeadline, retryDeadline).
		Scan(&samples).
		Error
	if err != nil {
		self.Log.WithError(err).Error("Failed to get samples for proving")
		self.monitor.GetReport().Prover.Errors.PollerFetchError.Inc()
		return nil
	}

	if len(samples) == 0 {
		return nil
	}

	self.Log.WithField("len", len(samples)).Debug("Claimed samples for proving")
	self.monitor.GetReport().Prover.State.SamplesTakenFromDb.Add(uint64(len(samples)))

	for _, sample := range samples {
		select {
		case <-self.Ctx.Done():
			return nil
		case self.output <- sample:
		}
	}

	return nil
}
