package verify

import (
	"github.com/trackium/trackd/src/utils/config"
	"github.com/trackium/trackd/src/utils/monitoring"
	"github.com/trackium/trackd/src/utils/task"

	"gorm.io/gorm"
)

// Marks confirmed attestations verified.
// Verified only transitions false -> true, never back.
type Store struct {
	*task.Hole[*Payload]

	db      *gorm.DB
	monitor monitoring.Monitor
}

func NewStore(config *config.Config) (self *Store) {
	self = new(Store)

	self.Hole = task.NewHole[*Payload](config, "store").
		WithBatchSize(config.Verifier.StoreBatchSize).
		WithOnFlush(config.Verifier.StoreInterval, self.flush).
		WithBackoff(config.Verifier.StoreBackoffMaxElapsedTime, config.Verifier.StoreBackoffMaxInterval)

	return
}

func (self *Store) WithDB(db *gorm.DB) *Store {
	self.db = db
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

func (self *Store) flush(payloads []*Payload) (err error) {
	if len(payloads) == 0 {
		return nil
	}

	updated := int64(0)

	err = self.db.Transaction(func(tx *gorm.DB) (err error) {
		for _, payload := range payloads {
			result := tx.WithContext(self.Ctx).
				Exec(`UPDATE attestations
					SET verified = TRUE, block_height = ?, updated_at = NOW()
					WHERE id = ? AND verified = FALSE`,
					payload.BlockHeight, payload.AttestationID)
			if result.Error != nil {
				return result.Error
			}
			updated += result.RowsAffected
		}
		return nil
	})
	if err != nil {
		self.monitor.GetReport().Verifier.Errors.DbStateUpdateError.Inc()
		return
	}

	self.Log.WithField("len", updated).Debug("Marked attestations verified")
	self.monitor.GetReport().Verifier.State.VerifiedAttestations.Add(uint64(updated))
	self.monitor.GetReport().Verifier.State.DbStateUpdated.Add(uint64(len(payloads)))

	return nil
}
