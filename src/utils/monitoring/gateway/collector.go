package monitor_gateway

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Collector struct {
	monitor *Monitor

	DevicesReturned   *prometheus.Desc `json:"devices_returned"`
	SamplesReturned   *prometheus.Desc `json:"samples_returned"`
	DevicesRegistered *prometheus.Desc `json:"devices_registered"`
	DevicesRemoved    *prometheus.Desc `json:"devices_removed"`
	LockToggles       *prometheus.Desc `json:"lock_toggles"`
	ProofRequests     *prometheus.Desc `json:"proof_requests"`
	DbError           *prometheus.Desc `json:"db_error"`
	PublishError      *prometheus.Desc `json:"publish_error"`
}

func NewCollector() *Collector {
	labels := prometheus.Labels{
		"app": "gateway",
	}

	return &Collector{
		DevicesReturned:   prometheus.NewDesc("devices_returned", "", nil, labels),
		SamplesReturned:   prometheus.NewDesc("samples_returned", "", nil, labels),
		DevicesRegistered: prometheus.NewDesc("devices_registered", "", nil, labels),
		DevicesRemoved:    prometheus.NewDesc("devices_removed", "", nil, labels),
		LockToggles:       prometheus.NewDesc("lock_toggles", "", nil, labels),
		ProofRequests:     prometheus.NewDesc("proof_requests", "", nil, labels),
		DbError:           prometheus.NewDesc("db_error", "", nil, labels),
		PublishError:      prometheus.NewDesc("publish_error", "", nil, labels),
	}
}

func (self *Collector) WithMonitor(m *Monitor) *Collector {
	self.monitor = m
	return self
}

func (self *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- self.DevicesReturned
	ch <- self.SamplesReturned
	ch <- self.DevicesRegistered
	ch <- self.DevicesRemoved
	ch <- self.LockToggles
	ch <- self.ProofRequests
	ch <- self.DbError
	ch <- self.PublishError
}

// Collect implements required collect function for all promehteus collectors
func (self *Collector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(self.DevicesReturned, prometheus.CounterValue, float64(self.monitor.Report.Gateway.State.DevicesReturned.Load()))
	ch <- prometheus.MustNewConstMetric(self.SamplesReturned, prometheus.CounterValue, float64(self.monitor.Report.Gateway.State.SamplesReturned.Load()))
	ch <- prometheus.MustNewConstMetric(self.DevicesRegistered, prometheus.CounterValue, float64(self.monitor.Report.Gateway.State.DevicesRegistered.Load()))
	ch <- prometheus.MustNewConstMetric(self.DevicesRemoved, prometheus.CounterValue, float64(self.monitor.Report.Gateway.State.DevicesRemoved.Load()))
	ch <- prometheus.MustNewConstMetric(self.LockToggles, prometheus.CounterValue, float64(self.monitor.Report.Gateway.State.LockToggles.Load()))
	ch <- prometheus.MustNewConstMetric(self.ProofRequests, prometheus.CounterValue, float64(self.monitor.Report.Gateway.State.ProofRequests.Load()))
	ch <- prometheus.MustNewConstMetric(self.DbError, prometheus.CounterValue, float64(self.monitor.Report.Gateway.Errors.DbError.Load()))
	ch <- prometheus.MustNewConstMetric(self.PublishError, prometheus.CounterValue, float64(self.monitor.Report.Gateway.Errors.PublishError.Load()))
}
