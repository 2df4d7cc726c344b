package prove

import (
	"time"

	"github.com/trackium/trackd/src/utils/config"
	"github.com/trackium/trackd/src/utils/eventbus"
	"github.com/trackium/trackd/src/utils/model"
	"github.com/trackium/trackd/src/utils/monitoring"
	"github.com/trackium/trackd/src/utils/task"

	"gorm.io/gorm"
)

// Saves attestations of posted proofs and flips the samples to
// attested. The flip is a compare-and-set, a sample already carrying
// a different reference is a conflict and stays untouched.
type Store struct {
	*task.Hole[*model.Attestation]

	db      *gorm.DB
	bus     *eventbus.Bus
	monitor monitoring.Monitor
}

func NewStore(config *config.Config) (self *Store) {
	self = new(Store)

	self.Hole = task.NewHole[*model.Attestation](config, "store").
		WithBatchSize(config.Prover.StoreBatchSize).
		WithOnFlush(config.Prover.StoreInterval, self.flush).
		WithBackoff(config.Prover.StoreBackoffMaxElapsedTime, config.Prover.StoreBackoffMaxInterval)

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

func (self *Store) WithInputChannel(input chan *model.Attestation) *Store {
	self.Hole.WithInputChannel(input)
	return self
}

func (self *Store) flush(attestations []*model.Attestation) (err error) {
	if len(attestations) == 0 {
		return nil
	}

	conflicts := make([]*model.Attestation, 0)

	err = self.db.Transaction(func(tx *gorm.DB) (err error) {
		err = tx.WithContext(self.Ctx).Create(&attestations).Error
		if err != nil {
			return
		}

		for _, attestation := range attestations {
			result := tx.WithContext(self.Ctx).
				Exec(`UPDATE movement_samples
					SET attested = TRUE, attestation_ref = ?
					WHERE id = ?
					AND (attestation_ref IS NULL OR attestation_ref = ?)`,
					attestation.TxReference, attestation.SampleID, attestation.TxReference)
			if result.Error != nil {
				return result.Error
			}

			if result.RowsAffected == 0 {
				// Someone else attested this sample first
				conflicts = append(conflicts, attestation)
			}
		}
		return nil
	})
	if err != nil {
		self.monitor.GetReport().Prover.Errors.DbStateUpdateError.Inc()
		return
	}

	for _, conflict := range conflicts {
		self.Log.WithField("sample_id", conflict.SampleID).
			WithField("tx_reference", conflict.TxReference).
			Warn("Sample already attested with a different reference")
		self.monitor.GetReport().Prover.Errors.MarkAttestedConflict.Inc()
	}

	self.monitor.GetReport().Prover.State.AttestationsSaved.Add(uint64(len(attestations)))
	self.monitor.GetReport().Prover.State.LastProofUnixSec.Store(time.Now().Unix())

	self.publishEvents(attestations)

	return nil
}

func (self *Store) publishEvents(attestations []*model.Attestation) {
	for _, attestation := range attestations {
		event, err := model.NewDomainEvent(attestation.DeviceID, model.EventKindAttestationSubmitted, map[string]any{
			"sampleId":    attestation.SampleID,
			"txReference": attestation.TxReference,
			"contentHash": attestation.ContentHash,
		})
		if err != nil {
			continue
		}

		err = self.bus.Publish(self.Ctx, event)
		if err != nil {
			self.Log.WithError(err).Warn("Failed to publish attestation event")
			return
		}
	}
}
