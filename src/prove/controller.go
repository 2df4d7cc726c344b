package prove

import (
	"github.com/trackium/trackd/src/utils/config"
	"github.com/trackium/trackd/src/utils/eventbus"
	"github.com/trackium/trackd/src/utils/ledger"
	"github.com/trackium/trackd/src/utils/model"
	"github.com/trackium/trackd/src/utils/monitoring"
	monitor_prover "github.com/trackium/trackd/src/utils/monitoring/prover"
	"github.com/trackium/trackd/src/utils/task"
)

type Controller struct {
	*task.Task
}

// Main class that orchestrates everything
func NewController(config *config.Config) (self *Controller, err error) {
	self = new(Controller)
	self.Task = task.NewTask(config, "prover-controller")

	// SQL database
	db, err := model.NewConnection(self.Ctx, config, "prover")
	if err != nil {
		return
	}

	// Ledger node client
	client := ledger.NewClient(config)

	// Monitoring
	monitor := monitor_prover.NewMonitor()

	server := monitoring.NewServer(config).
		WithMonitor(monitor)

	// Durable domain events, optionally forwarded to Redis
	bus := eventbus.NewBus(config, db).
		WithMonitor(monitor)

	// Gets samples to prove from the poller and the notifier
	collector := NewCollector(config, db).
		WithMonitor(monitor)

	// Runs the proof sequence against the ledger
	submitter := NewSubmitter(config).
		WithClient(client).
		WithMonitor(monitor).
		WithInputChannel(collector.Output)

	// Saves attestations and marks samples attested
	store := NewStore(config).
		WithDB(db).
		WithEventBus(bus).
		WithMonitor(monitor).
		WithInputChannel(submitter.Output)

	// Setup everything, will start upon calling Controller.Start()
	self.Task.
		WithSubtask(server.Task).
		WithSubtask(monitor.Task).
		WithSubtask(bus.Task).
		WithSubtask(store.Task).
		WithSubtask(submitter.Task).
		WithSubtask(collector.Task)

	return
}
