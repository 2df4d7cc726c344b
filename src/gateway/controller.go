package gateway

import (
	"github.com/trackium/trackd/src/registry"
	"github.com/trackium/trackd/src/utils/config"
	"github.com/trackium/trackd/src/utils/eventbus"
	"github.com/trackium/trackd/src/utils/model"
	"github.com/trackium/trackd/src/utils/monitoring"
	monitor_gateway "github.com/trackium/trackd/src/utils/monitoring/gateway"
	"github.com/trackium/trackd/src/utils/task"
)

type Controller struct {
	*task.Task
}

// Main class that orchestrates everything
func NewController(config *config.Config) (self *Controller, err error) {
	self = new(Controller)
	self.Task = task.NewTask(config, "gateway-controller")

	// SQL database
	db, err := model.NewConnection(self.Ctx, config, "gateway")
	if err != nil {
		return
	}

	// Monitoring
	monitor := monitor_gateway.NewMonitor()

	monitoringServer := monitoring.NewServer(config).
		WithMonitor(monitor)

	// Durable domain events, optionally forwarded to Redis
	bus := eventbus.NewBus(config, db).
		WithMonitor(monitor)

	// Device catalog shared with the REST handlers
	deviceRegistry := registry.NewRegistry(config, db, bus)

	// Public REST API
	server := NewServer(config).
		WithDB(db).
		WithRegistry(deviceRegistry).
		WithMonitor(monitor)

	// Setup everything, will start upon calling Controller.Start()
	self.Task.
		WithSubtask(monitoringServer.Task).
		WithSubtask(monitor.Task).
		WithSubtask(bus.Task).
		WithSubtask(server.Task)

	return
}
