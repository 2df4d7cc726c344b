package monitor_verifier

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Collector struct {
	monitor *Monitor

	AttestationsTakenFromDb *prometheus.Desc `json:"attestations_taken_from_db"`
	AllCheckedAttestations  *prometheus.Desc `json:"all_checked_attestations"`
	VerifiedAttestations    *prometheus.Desc `json:"verified_attestations"`
	HashMismatches          *prometheus.Desc `json:"hash_mismatches"`
	NotFoundOnLedger        *prometheus.Desc `json:"not_found_on_ledger"`
	DbStateUpdated          *prometheus.Desc `json:"db_state_updated"`
	PollerFetchError        *prometheus.Desc `json:"poller_fetch_error"`
	LedgerQueryError        *prometheus.Desc `json:"ledger_query_error"`
	DbStateUpdateError      *prometheus.Desc `json:"db_state_update_error"`
	CurrentHeight           *prometheus.Desc `json:"current_height"`
	StableHeight            *prometheus.Desc `json:"stable_height"`
}

func NewCollector() *Collector {
	labels := prometheus.Labels{
		"app": "verifier",
	}

	return &Collector{
		AttestationsTakenFromDb: prometheus.NewDesc("attestations_taken_from_db", "", nil, labels),
		AllCheckedAttestations:  prometheus.NewDesc("all_checked_attestations", "", nil, labels),
		VerifiedAttestations:    prometheus.NewDesc("verified_attestations", "", nil, labels),
		HashMismatches:          prometheus.NewDesc("hash_mismatches", "", nil, labels),
		NotFoundOnLedger:        prometheus.NewDesc("not_found_on_ledger", "", nil, labels),
		DbStateUpdated:          prometheus.NewDesc("db_state_updated", "", nil, labels),
		PollerFetchError:        prometheus.NewDesc("poller_fetch_error", "", nil, labels),
		LedgerQueryError:        prometheus.NewDesc("ledger_query_error", "", nil, labels),
		DbStateUpdateError:      prometheus.NewDesc("db_state_update_error", "", nil, labels),
		CurrentHeight:           prometheus.NewDesc("current_height", "", nil, labels),
		StableHeight:            prometheus.NewDesc("stable_height", "", nil, labels),
	}
}

func (self *Collector) WithMonitor(m *Monitor) *Collector {
	self.monitor = m
	return self
}

func (self *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- self.AttestationsTakenFromDb
	ch <- self.AllCheckedAttestations
	ch <- self.VerifiedAttestations
	ch <- self.HashMismatches
	ch <- self.NotFoundOnLedger
	ch <- self.DbStateUpdated
	ch <- self.PollerFetchError
	ch <- self.LedgerQueryError
	ch <- self.DbStateUpdateError
	ch <- self.CurrentHeight
	ch <- self.StableHeight
}

// Collect implements required collect function for all promehteus collectors
func (self *Collector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(self.AttestationsTakenFromDb, prometheus.CounterValue, float64(self.monitor.Report.Verifier.State.AttestationsTakenFromDb.Load()))
	ch <- prometheus.MustNewConstMetric(self.AllCheckedAttestations, prometheus.CounterValue, float64(self.monitor.Report.Verifier.State.AllCheckedAttestations.Load()))
	ch <- prometheus.MustNewConstMetric(self.VerifiedAttestations, prometheus.CounterValue, float64(self.monitor.Report.Verifier.State.VerifiedAttestations.Load()))
	ch <- prometheus.MustNewConstMetric(self.HashMismatches, prometheus.CounterValue, float64(self.monitor.Report.Verifier.State.HashMismatches.Load()))
	ch <- prometheus.MustNewConstMetric(self.NotFoundOnLedger, prometheus.CounterValue, float64(self.monitor.Report.Verifier.State.NotFoundOnLedger.Load()))
	ch <- prometheus.MustNewConstMetric(self.DbStateUpdated, prometheus.CounterValue, float64(self.monitor.Report.Verifier.State.DbStateUpdated.Load()))
	ch <- prometheus.MustNewConstMetric(self.PollerFetchError, prometheus.CounterValue, float64(self.monitor.Report.Verifier.Errors.PollerFetchError.Load()))
	ch <- prometheus.MustNewConstMetric(self.LedgerQueryError, prometheus.CounterValue, float64(self.monitor.Report.Verifier.Errors.LedgerQueryError.Load()))
	ch <- prometheus.MustNewConstMetric(self.DbStateUpdateError, prometheus.CounterValue, float64(self.monitor.Report.Verifier.Errors.DbStateUpdateError.Load()))
	ch <- prometheus.MustNewConstMetric(self.CurrentHeight, prometheus.GaugeValue, float64(self.monitor.Report.BlockMonitor.State.CurrentHeight.Load()))
	ch <- prometheus.MustNewConstMetric(self.StableHeight, prometheus.GaugeValue, float64(self.monitor.Report.BlockMonitor.State.StableHeight.Load()))
}
