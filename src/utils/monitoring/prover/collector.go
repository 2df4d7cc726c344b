package monitor_prover

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Collector struct {
	monitor *Monitor

	SamplesTakenFromDb   *prometheus.Desc `json:"samples_taken_from_db"`
	RequestsFromNotifier *prometheus.Desc `json:"requests_from_notifier"`
	ProofsSubmitted      *prometheus.Desc `json:"proofs_submitted"`
	AttestationsSaved    *prometheus.Desc `json:"attestations_saved"`
	PollerFetchError     *prometheus.Desc `json:"poller_fetch_error"`
	PostingError         *prometheus.Desc `json:"posting_error"`
	NoSpendableCoins     *prometheus.Desc `json:"no_spendable_coins"`
	DbStateUpdateError   *prometheus.Desc `json:"db_state_update_error"`
	MarkAttestedConflict *prometheus.Desc `json:"mark_attested_conflict"`
}

func NewCollector() *Collector {
	labels := prometheus.Labels{
		"app": "prover",
	}

	return &Collector{
		SamplesTakenFromDb:   prometheus.NewDesc("samples_taken_from_db", "", nil, labels),
		RequestsFromNotifier: prometheus.NewDesc("requests_from_notifier", "", nil, labels),
		ProofsSubmitted:      prometheus.NewDesc("proofs_submitted", "", nil, labels),
		AttestationsSaved:    prometheus.NewDesc("attestations_saved", "", nil, labels),
		PollerFetchError:     prometheus.NewDesc("poller_fetch_error", "", nil, labels),
		PostingError:         prometheus.NewDesc("posting_error", "", nil, labels),
		NoSpendableCoins:     prometheus.NewDesc("no_spendable_coins", "", nil, labels),
		DbStateUpdateError:   prometheus.NewDesc("db_state_update_error", "", nil, labels),
		MarkAttestedConflict: prometheus.NewDesc("mark_attested_conflict", "", nil, labels),
	}
}

func (self *Collector) WithMonitor(m *Monitor) *Collector {
	self.monitor = m
	return self
}

func (self *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- self.SamplesTakenFromDb
	ch <- self.RequestsFromNotifier
	ch <- self.ProofsSubmitted
	ch <- self.AttestationsSaved
	ch <- self.PollerFetchError
	ch <- self.PostingError
	ch <- self.NoSpendableCoins
	ch <- self.DbStateUpdateError
	ch <- self.MarkAttestedConflict
}

// Collect implements required collect function for all promehteus collectors
func (self *Collector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(self.SamplesTakenFromDb, prometheus.CounterValue, float64(self.monitor.Report.Prover.State.SamplesTakenFromDb.Load()))
	ch <- prometheus.MustNewConstMetric(self.RequestsFromNotifier, prometheus.CounterValue, float64(self.monitor.Report.Prover.State.RequestsFromNotifier.Load()))
	ch <- prometheus.MustNewConstMetric(self.ProofsSubmitted, prometheus.CounterValue, float64(self.monitor.Report.Prover.State.ProofsSubmitted.Load()))
	ch <- prometheus.MustNewConstMetric(self.AttestationsSaved, prometheus.CounterValue, float64(self.monitor.Report.Prover.State.AttestationsSaved.Load()))
	ch <- prometheus.MustNewConstMetric(self.PollerFetchError, prometheus.CounterValue, float64(self.monitor.Report.Prover.Errors.PollerFetchError.Load()))
	ch <- prometheus.MustNewConstMetric(self.PostingError, prometheus.CounterValue, float64(self.monitor.Report.Prover.Errors.PostingError.Load()))
	ch <- prometheus.MustNewConstMetric(self.NoSpendableCoins, prometheus.CounterValue, float64(self.monitor.Report.Prover.Errors.NoSpendableCoins.Load()))
	ch <- prometheus.MustNewConstMetric(self.DbStateUpdateError, prometheus.CounterValue, float64(self.monitor.Report.Prover.Errors.DbStateUpdateError.Load()))
	ch <- prometheus.MustNewConstMetric(self.MarkAttestedConflict, prometheus.CounterValue, float64(self.monitor.Report.Prover.Errors.MarkAttestedConflict.Load()))
}
