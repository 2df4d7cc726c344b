package monitor_ingester

import (
	"net/http"
	"time"

	"github.com/trackium/trackd/src/utils/monitoring/report"
	"github.com/trackium/trackd/src/utils/task"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Stores and computes monitor counters
type Monitor struct {
	*task.Task

	Report    report.Report
	collector *Collector
}

func NewMonitor() (self *Monitor) {
	self = new(Monitor)

	self.Report = report.Report{
		Ingester:       &report.IngesterReport{},
		Registry:       &report.RegistryReport{},
		RedisPublisher: &report.RedisPublisherReport{},
	}

	self.collector = NewCollector().WithMonitor(self)

	self.Task = task.NewTask(nil, "monitor")
	return
}

func (self *Monitor) GetReport() *report.Report {
	return &self.Report
}

func (self *Monitor) GetPrometheusCollector() (collector prometheus.Collector) {
	return self.collector
}

// Healthy as long as samples keep being persisted.
// A fresh process with no traffic yet is healthy too.
func (self *Monitor) IsOK() bool {
	last := self.Report.Ingester.State.LastSampleUnixSec.Load()
	if last == 0 {
		return true
	}
	return time.Since(time.Unix(last, 0)) < time.Hour
}

func (self *Monitor) OnGetState(c *gin.Context) {
	c.JSON(http.StatusOK, &self.Report)
}

func (self *Monitor) OnGetHealth(c *gin.Context) {
	if self.IsOK() {
		c.Status(http.StatusOK)
	} else {
		c.Status(http.StatusServiceUnavailable)
	}
}
