package config

import (
	"time"

	"github.com/spf13/viper"
)

type Ledger struct {
	// Base URL of the ledger node's RPC API
	NodeUrl string

	// Timeout for a single ledger call
	RequestTimeout time.Duration

	// Limit of requests per second sent to the node
	RequestsPerSecond float64

	// Minimal value of a coin that can fund an attestation transaction
	MinFundingValue float64

	// How many spendable coins are requested when picking a funding input
	MaxCoinsPerQuery int
}

func setLedgerDefaults() {
	viper.SetDefault("Ledger.NodeUrl", "http://127.0.0.1:9005")
	viper.SetDefault("Ledger.RequestTimeout", "15s")
	viper.SetDefault("Ledger.RequestsPerSecond", "10")
	viper.SetDefault("Ledger.MinFundingValue", "0.001")
	viper.SetDefault("Ledger.MaxCoinsPerQuery", "25")
}
