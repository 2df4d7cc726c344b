package verify

import (
	"context"
	"time"

	"github.com/trackium/trackd/src/utils/config"
	"github.com/trackium/trackd/src/utils/model"
	"github.com/trackium/trackd/src/utils/monitoring"
	"github.com/trackium/trackd/src/utils/task"

	"gorm.io/gorm"
)

// Claims pending attestations for checking. Runs on every stable
// height announcement and on a timer as a fallback. Claiming bumps
// checked_at so parallel verifiers don't grab the same rows, a row
// that doesn't get verified becomes claimable again after the
// retry window.
type Poller struct {
	*task.Task
	db      *gorm.DB
	monitor monitoring.Monitor

	blockMonitor *BlockMonitor

	Output chan *model.Attestation
}

func NewPoller(config *config.Config) (self *Poller) {
	self = new(Poller)

	self.Output = make(chan *model.Attestation)

	self.Task = task.NewTask(config, "poller").
		WithSubtaskFunc(self.run).
		WithRepeatedSubtaskFunc(config.Verifier.PollerInterval, self.handleDue).
		WithOnAfterStop(func() {
			close(self.Output)
		})

	return
}

func (self *Poller) WithDB(db *gorm.DB) *Poller {
	self.db = db
	return self
}

func (self *Poller) WithBlockMonitor(blockMonitor *BlockMonitor) *Poller {
	self.blockMonitor = blockMonitor
	return self
}

func (self *Poller) WithMonitor(monitor monitoring.Monitor) *Poller {
	self.monitor = monitor
	return self
}

// Checks pending attestations whenever the stable height grows
func (self *Poller) run() (err error) {
	for range self.blockMonitor.Output {
		_, err = self.handleDue()
		if err != nil {
			return
		}
	}
	return nil
}

func (self *Poller) handleDue() (repeat bool, err error) {
	// Interrupts longer queries
	ctx, cancel := context.WithTimeout(self.Ctx, time.Minute)
	defer cancel()

	retryDeadline := time.Now().Add(-self.Config.Verifier.PollerRetryCheckAfter)

	attestations := make([]*model.Attestation, 0, self.Config.Verifier.MaxAttestationsPerRun)

	err = self.db.WithContext(ctx).
		Raw(`UPDATE attestations
			SET checked_at = NOW()
			WHERE id IN (
				SELECT id
				FROM attestations
				WHERE verified = FALSE AND tx_reference <> ''
				AND (checked_at IS NULL OR checked_at < ?)
				ORDER BY id ASC
				LIMIT ?
				FOR UPDATE SKIP LOCKED)
			RETURNING *`, retryDeadline, self.Config.Verifier.MaxAttestationsPerRun).
		Scan(&attestations).
		Error
	if err != nil {
		self.Log.WithError(err).Error("Failed to get attestations to check")
		self.monitor.GetReport().Verifier.Errors.PollerFetchError.Inc()
		return false, nil
	}

	if len(attestations) == 0 {
		return false, nil
	}

	self.Log.WithField("len", len(attestations)).Debug("Polled attestations for checking")
	self.monitor.GetReport().Verifier.State.AttestationsTakenFromDb.Add(uint64(len(attestations)))

	for _, attestation := range attestations {
		select {
		case <-self.Ctx.Done():
			return false, nil
		case self.Output <- attestation:
		}
	}

	// A full batch means there's likely more waiting
	repeat = len(attestations) == self.Config.Verifier.MaxAttestationsPerRun
	return repeat, nil
}
