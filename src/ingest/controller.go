package ingest

import (
	"github.com/trackium/trackd/src/registry"
	"github.com/trackium/trackd/src/utils/config"
	"github.com/trackium/trackd/src/utils/eventbus"
	"github.com/trackium/trackd/src/utils/model"
	"github.com/trackium/trackd/src/utils/monitoring"
	monitor_ingester "github.com/trackium/trackd/src/utils/monitoring/ingester"
	"github.com/trackium/trackd/src/utils/task"
)

type Controller struct {
	*task.Task
}

// Main class that orchestrates everything
func NewController(config *config.Config) (self *Controller, err error) {
	self = new(Controller)
	self.Task = task.NewTask(config, "ingester-controller")

	// SQL database
	db, err := model.NewConnection(self.Ctx, config, "ingester")
	if err != nil {
		return
	}

	// Monitoring
	monitor := monitor_ingester.NewMonitor()

	server := monitoring.NewServer(config).
		WithMonitor(monitor)

	// Durable domain events, optionally forwarded to Redis
	bus := eventbus.NewBus(config, db).
		WithMonitor(monitor)

	// Device catalog, backs the existence check on the hot path
	deviceRegistry := registry.NewRegistry(config, db, bus)

	// Gets location reports from the REST server and the puller
	collector := NewCollector(config).
		WithRegistry(deviceRegistry).
		WithMonitor(monitor)

	// Saves location reports
	store := NewStore(config).
		WithDB(db).
		WithEventBus(bus).
		WithMonitor(monitor).
		WithInputChannel(collector.Output)

	// Marks silent devices offline
	reaper := registry.NewReaper(config).
		WithDB(db).
		WithEventBus(bus).
		WithMonitor(monitor)

	// Removes expired events and samples
	pruner := registry.NewPruner(config).
		WithDB(db).
		WithMonitor(monitor)

	// Setup everything, will start upon calling Controller.Start()
	self.Task.
		WithSubtask(server.Task).
		WithSubtask(monitor.Task).
		WithSubtask(bus.Task).
		WithSubtask(store.Task).
		WithSubtask(reaper.Task).
		WithSubtask(pruner.Task).
		WithSubtask(collector.Task)

	return
}
