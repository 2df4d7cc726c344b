package verify

import (
	"github.com/trackium/trackd/src/utils/config"
	"github.com/trackium/trackd/src/utils/ledger"
	"github.com/trackium/trackd/src/utils/model"
	"github.com/trackium/trackd/src/utils/monitoring"
	monitor_verifier "github.com/trackium/trackd/src/utils/monitoring/verifier"
	"github.com/trackium/trackd/src/utils/task"
)

type Controller struct {
	*task.Task
}

// Main class that orchestrates everything
func NewController(config *config.Config) (self *Controller, err error) {
	self = new(Controller)
	self.Task = task.NewTask(config, "verifier-controller")

	// SQL database
	db, err := model.NewConnection(self.Ctx, config, "verifier")
	if err != nil {
		return
	}

	// Ledger node client
	client := ledger.NewClient(config)

	// Monitoring
	monitor := monitor_verifier.NewMonitor()

	server := monitoring.NewServer(config).
		WithMonitor(monitor)

	// Announces stable height increases
	blockMonitor := NewBlockMonitor(config).
		WithClient(client).
		WithMonitor(monitor)

	// Claims pending attestations from the db
	poller := NewPoller(config).
		WithDB(db).
		WithBlockMonitor(blockMonitor).
		WithMonitor(monitor)

	// Confirms attestations on the ledger
	checker := NewChecker(config).
		WithClient(client).
		WithBlockMonitor(blockMonitor).
		WithInputChannel(poller.Output).
		WithMonitor(monitor)

	// Marks the confirmed ones verified
	store := NewStore(config).
		WithDB(db).
		WithMonitor(monitor).
		WithInputChannel(checker.Output)

	// Setup everything, will start upon calling Controller.Start()
	self.Task.
		WithSubtask(server.Task).
		WithSubtask(monitor.Task).
		WithSubtask(store.Task).
		WithSubtask(checker.Task).
		WithSubtask(poller.Task).
		WithSubtask(blockMonitor.Task)

	return
}
