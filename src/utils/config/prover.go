package config

import (
	"time"

	"github.com/spf13/viper"
)

type Prover struct {
	// Disable the periodic auto-proof sweep
	PollerDisabled bool

	// How often devices with unattested samples are swept
	PollerInterval time.Duration

	// How long does it wait for the query response
	PollerTimeout time.Duration

	// Maximum number of samples selected in one sweep
	PollerMaxBatchSize int

	// Claimed samples become claimable again after this window.
	// Covers submissions that died before saving an attestation.
	PollerRetryProveAfter time.Duration

	// Switch off listening for submit-now notifications
	NotifierDisabled bool

	// Postgres notification channel with submit-now requests
	NotifierChannelName string

	// Maximum number of workers that handle notifications
	NotifierWorkerPoolSize int

	// Maximum notifications waiting in the queue
	NotifierWorkerQueueSize int

	// Number of workers that run ledger submissions in parallel
	NumSubmitWorkers int

	// Max queries in the worker queue
	WorkerQueueSize int

	// Timeout of each of the ledger calls within one submission
	LedgerStepTimeout time.Duration

	// How many attestation records are saved in one db transaction
	StoreBatchSize int

	// How often attestation results are flushed to the database
	StoreInterval time.Duration

	// Max time store will try to save a batch. 0 means no limit.
	StoreBackoffMaxElapsedTime time.Duration

	// Max time between retries to save a batch
	StoreBackoffMaxInterval time.Duration
}

func setProverDefaults() {
	viper.SetDefault("Prover.PollerDisabled", "false")
	viper.SetDefault("Prover.PollerInterval", "60m")
	viper.SetDefault("Prover.PollerTimeout", "90s")
	viper.SetDefault("Prover.PollerMaxBatchSize", "50")
	viper.SetDefault("Prover.PollerRetryProveAfter", "10m")
	viper.SetDefault("Prover.NotifierDisabled", "false")
	viper.SetDefault("Prover.NotifierChannelName", "attestation_requests")
	viper.SetDefault("Prover.NotifierWorkerPoolSize", "10")
	viper.SetDefault("Prover.NotifierWorkerQueueSize", "100")
	viper.SetDefault("Prover.NumSubmitWorkers", "5")
	viper.SetDefault("Prover.WorkerQueueSize", "100")
	viper.SetDefault("Prover.LedgerStepTimeout", "15s")
	viper.SetDefault("Prover.StoreBatchSize", "10")
	viper.SetDefault("Prover.StoreInterval", "2s")
	viper.SetDefault("Prover.StoreBackoffMaxElapsedTime", "0")
	viper.SetDefault("Prover.StoreBackoffMaxInterval", "8s")
}
