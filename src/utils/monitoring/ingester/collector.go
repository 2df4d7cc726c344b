package monitor_ingester

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Collector struct {
	monitor *Monitor

	SamplesReceived      *prometheus.Desc `json:"samples_received"`
	SamplesSaved         *prometheus.Desc `json:"samples_saved"`
	SamplesPulled        *prometheus.Desc `json:"samples_pulled"`
	LowBatteryAlerts     *prometheus.Desc `json:"low_battery_alerts"`
	PayloadValidation    *prometheus.Desc `json:"payload_validation_error"`
	UnknownDevice        *prometheus.Desc `json:"unknown_device_error"`
	DbInsert             *prometheus.Desc `json:"db_insert_error"`
	PullFailure          *prometheus.Desc `json:"pull_failure_error"`
	DevicesMarkedOffline *prometheus.Desc `json:"devices_marked_offline"`
	EventsPruned         *prometheus.Desc `json:"events_pruned"`
	SamplesPruned        *prometheus.Desc `json:"samples_pruned"`
}

func NewCollector() *Collector {
	labels := prometheus.Labels{
		"app": "ingester",
	}

	return &Collector{
		SamplesReceived:      prometheus.NewDesc("samples_received", "", nil, labels),
		SamplesSaved:         prometheus.NewDesc("samples_saved", "", nil, labels),
		SamplesPulled:        prometheus.NewDesc("samples_pulled", "", nil, labels),
		LowBatteryAlerts:     prometheus.NewDesc("low_battery_alerts", "", nil, labels),
		PayloadValidation:    prometheus.NewDesc("payload_validation_error", "", nil, labels),
		UnknownDevice:        prometheus.NewDesc("unknown_device_error", "", nil, labels),
		DbInsert:             prometheus.NewDesc("db_insert_error", "", nil, labels),
		PullFailure:          prometheus.NewDesc("pull_failure_error", "", nil, labels),
		DevicesMarkedOffline: prometheus.NewDesc("devices_marked_offline", "", nil, labels),
		EventsPruned:         prometheus.NewDesc("events_pruned", "", nil, labels),
		SamplesPruned:        prometheus.NewDesc("samples_pruned", "", nil, labels),
	}
}

func (self *Collector) WithMonitor(m *Monitor) *Collector {
	self.monitor = m
	return self
}

func (self *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- self.SamplesReceived
	ch <- self.SamplesSaved
	ch <- self.SamplesPulled
	ch <- self.LowBatteryAlerts
	ch <- self.PayloadValidation
	ch <- self.UnknownDevice
	ch <- self.DbInsert
	ch <- self.PullFailure
	ch <- self.DevicesMarkedOffline
	ch <- self.EventsPruned
	ch <- self.SamplesPruned
}

// Collect implements required collect function for all promehteus collectors
func (self *Collector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(self.SamplesReceived, prometheus.CounterValue, float64(self.monitor.Report.Ingester.State.SamplesReceived.Load()))
	ch <- prometheus.MustNewConstMetric(self.SamplesSaved, prometheus.CounterValue, float64(self.monitor.Report.Ingester.State.SamplesSaved.Load()))
	ch <- prometheus.MustNewConstMetric(self.SamplesPulled, prometheus.CounterValue, float64(self.monitor.Report.Ingester.State.SamplesPulled.Load()))
	ch <- prometheus.MustNewConstMetric(self.LowBatteryAlerts, prometheus.CounterValue, float64(self.monitor.Report.Ingester.State.LowBatteryAlerts.Load()))
	ch <- prometheus.MustNewConstMetric(self.PayloadValidation, prometheus.CounterValue, float64(self.monitor.Report.Ingester.Errors.PayloadValidation.Load()))
	ch <- prometheus.MustNewConstMetric(self.UnknownDevice, prometheus.CounterValue, float64(self.monitor.Report.Ingester.Errors.UnknownDevice.Load()))
	ch <- prometheus.MustNewConstMetric(self.DbInsert, prometheus.CounterValue, float64(self.monitor.Report.Ingester.Errors.DbInsert.Load()))
	ch <- prometheus.MustNewConstMetric(self.PullFailure, prometheus.CounterValue, float64(self.monitor.Report.Ingester.Errors.PullFailure.Load()))
	ch <- prometheus.MustNewConstMetric(self.DevicesMarkedOffline, prometheus.CounterValue, float64(self.monitor.Report.Registry.State.DevicesMarkedOffline.Load()))
	ch <- prometheus.MustNewConstMetric(self.EventsPruned, prometheus.CounterValue, float64(self.monitor.Report.Registry.State.EventsPruned.Load()))
	ch <- prometheus.MustNewConstMetric(self.SamplesPruned, prometheus.CounterValue, float64(self.monitor.Report.Registry.State.SamplesPruned.Load()))
}
