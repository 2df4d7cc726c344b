package registry

import (
	"context"
	"time"

	"github.com/trackium/trackd/src/utils/config"
	"github.com/trackium/trackd/src/utils/model"
	"github.com/trackium/trackd/src/utils/monitoring"
	"github.com/trackium/trackd/src/utils/task"

	"gorm.io/gorm"
)

// Periodically removes expired events and samples.
// Attested samples are kept, they back verified proofs.
type Pruner struct {
	*task.Task

	db      *gorm.DB
	monitor monitoring.Monitor
}

func NewPruner(config *config.Config) (self *Pruner) {
	self = new(Pruner)

	self.Task = task.NewTask(config, "pruner").
		WithPeriodicSubtaskFunc(config.Registry.PrunerInterval, self.prune)

	return
}

func (self *Pruner) WithDB(db *gorm.DB) *Pruner {
	self.db = db
	return self
}

func (self *Pruner) WithMonitor(monitor monitoring.Monitor) *Pruner {
	self.monitor = monitor
	return self
}

func (self *Pruner) prune() (err error) {
	ctx, cancel := context.WithTimeout(self.Ctx, 5*time.Minute)
	defer cancel()

	result := self.db.WithContext(ctx).
		Where("created_at < ?", time.Now().Add(-self.Config.Registry.EventRetention)).
		Delete(&model.DomainEvent{})
	if result.Error != nil {
		self.Log.WithError(result.Error).Error("Failed to prune events")
		self.monitor.GetReport().Registry.Errors.PrunerDbError.Inc()
		return nil
	}
	if result.RowsAffected > 0 {
		self.Log.WithField("len", result.RowsAffected).Info("Pruned old events")
		self.monitor.GetReport().Registry.State.EventsPruned.Add(uint64(result.RowsAffected))
	}

	result = self.db.WithContext(ctx).
		Where("created_at < ?", time.Now().Add(-self.Config.Registry.SampleRetention)).
		Where("attested = false").
		Delete(&model.MovementSample{})
	if result.Error != nil {
		self.Log.WithError(result.Error).Error("Failed to prune samples")
		self.monitor.GetReport().Registry.Errors.PrunerDbError.Inc()
		return nil
	}
	if result.RowsAffected > 0 {
		self.Log.WithField("len", result.RowsAffected).Info("Pruned old samples")
		self.monitor.GetReport().Registry.State.SamplesPruned.Add(uint64(result.RowsAffected))
	}

	return nil
}
