package config

import (
	"time"

	"github.com/spf13/viper"
)

type Verifier struct {
	// How often to check the ledger for a new block height
	BlockMonitorInterval time.Duration

	// Minimal number of blocks to wait before checking an attestation
	MinConfirmationBlocks int64

	// Number of attestations to verify in one run
	MaxAttestationsPerRun int

	// Re-check attestations claimed longer than this ago
	PollerRetryCheckAfter time.Duration

	// How often the re-check backstop runs
	PollerInterval time.Duration

	// Workers that query the ledger in parallel
	WorkerPoolSize int

	// Max payloads waiting in the worker queue
	WorkerQueueSize int

	// How many verification results are saved in one db transaction
	StoreBatchSize int

	// How often verification results are flushed to the database
	StoreInterval time.Duration

	// Max time store will try to save a batch
	StoreBackoffMaxElapsedTime time.Duration

	// Max time between retries to save a batch
	StoreBackoffMaxInterval time.Duration
}

func setVerifierDefaults() {
	viper.SetDefault("Verifier.BlockMonitorInterval", "30s")
	viper.SetDefault("Verifier.MinConfirmationBlocks", "3")
	viper.SetDefault("Verifier.MaxAttestationsPerRun", "50")
	viper.SetDefault("Verifier.PollerRetryCheckAfter", "30m")
	viper.SetDefault("Verifier.PollerInterval", "5m")
	viper.SetDefault("Verifier.WorkerPoolSize", "10")
	viper.SetDefault("Verifier.WorkerQueueSize", "100")
	viper.SetDefault("Verifier.StoreBatchSize", "50")
	viper.SetDefault("Verifier.StoreInterval", "5s")
	viper.SetDefault("Verifier.StoreBackoffMaxElapsedTime", "10m")
	viper.SetDefault("Verifier.StoreBackoffMaxInterval", "10s")
}
