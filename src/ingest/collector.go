package ingest

import (
	"github.com/trackium/trackd/src/registry"
	"github.com/trackium/trackd/src/utils/config"
	"github.com/trackium/trackd/src/utils/monitoring"
	"github.com/trackium/trackd/src/utils/task"
)

// Gets location reports from 2 sources
type Collector struct {
	*task.Task

	server *Server
	puller *Puller

	// Reports to be persisted
	Output chan *Payload
}

func NewCollector(config *config.Config) (self *Collector) {
	self = new(Collector)

	self.Output = make(chan *Payload, 100)

	self.server = NewServer(config).
		WithOutputChannel(self.Output)

	self.puller = NewPuller(config).
		WithOutputChannel(self.Output)

	self.Task = task.NewTask(config, "collector").
		WithSubtask(self.server.Task).
		WithConditionalSubtask(!config.Ingester.PullerDisabled, self.puller.Task).
		WithOnAfterStop(func() {
			close(self.Output)
		})

	return
}

func (self *Collector) WithRegistry(registry *registry.Registry) *Collector {
	self.server.WithRegistry(registry)
	self.puller.WithRegistry(registry)
	return self
}

func (self *Collector) WithMonitor(monitor monitoring.Monitor) *Collector {
	self.server.WithMonitor(monitor)
	self.puller.WithMonitor(monitor)
	return self
}
