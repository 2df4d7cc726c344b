package prove

import (
	"github.com/trackium/trackd/src/utils/config"
	"github.com/trackium/trackd/src/utils/model"
	"github.com/trackium/trackd/src/utils/monitoring"
	"github.com/trackium/trackd/src/utils/task"

	"gorm.io/gorm"
)

// Gets samples to prove from 2 sources
type Collector struct {
	*task.Task

	notifier *Notifier
	poller   *Poller

	// Samples to be proven
	Output chan *model.MovementSample
}

func NewCollector(config *config.Config, db *gorm.DB) (self *Collector) {
	self = new(Collector)

	self.Output = make(chan *model.MovementSample, 100)

	self.notifier = NewNotifier(config).
		WithDB(db).
		WithOutputChannel(self.Output)

	self.poller = NewPoller(config).
		WithDB(db).
		WithOutputChannel(self.Output)

	self.Task = task.NewTask(config, "collector").
		WithConditionalSubtask(!config.Prover.NotifierDisabled, self.notifier.Task).
		WithConditionalSubtask(!config.Prover.PollerDisabled, self.poller.Task).
		WithOnAfterStop(func() {
			close(self.Output)
		})

	return
}

func (self *Collector) WithMonitor(monitor monitoring.Monitor) *Collector {
	self.notifier.WithMonitor(monitor)
	self.poller.WithMonitor(monitor)
	return self
}
