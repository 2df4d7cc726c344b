package config

import (
	"time"

	"github.com/spf13/viper"
)

type Ingester struct {
	// Address of the location ingestion REST API
	ListenAddress string

	// Request handling timeout
	ServerRequestTimeout time.Duration

	// How many samples are inserted in one db transaction
	StoreBatchSize int

	// How often pending samples are flushed to the database
	StoreInterval time.Duration

	// Max time store will try to insert a batch of samples.
	// 0 means no limit.
	StoreBackoffMaxElapsedTime time.Duration

	// Max time between retries to insert a batch of samples
	StoreBackoffMaxInterval time.Duration

	// Disable polling the companion app for locations
	PullerDisabled bool

	// Local endpoint of the companion app that serves the current location
	PullerUrl string

	// Device the pulled locations are recorded under
	PullerDeviceId string

	// How often the companion endpoint is polled
	PullerInterval time.Duration

	// Timeout of a single pull request
	PullerTimeout time.Duration

	// Battery percent at which a low-battery event is emitted
	LowBatteryThreshold int

	// How long device descriptors are cached on the ingestion path
	DeviceCacheExpiration time.Duration

	// How often expired device cache entries are removed
	DeviceCacheCleanupInterval time.Duration
}

func setIngesterDefaults() {
	viper.SetDefault("Ingester.ListenAddress", ":8072")
	viper.SetDefault("Ingester.ServerRequestTimeout", "30s")
	viper.SetDefault("Ingester.StoreBatchSize", "50")
	viper.SetDefault("Ingester.StoreInterval", "1s")
	viper.SetDefault("Ingester.StoreBackoffMaxElapsedTime", "0")
	viper.SetDefault("Ingester.StoreBackoffMaxInterval", "8s")
	viper.SetDefault("Ingester.PullerDisabled", "true")
	viper.SetDefault("Ingester.PullerUrl", "http://127.0.0.1:8123/location")
	viper.SetDefault("Ingester.PullerDeviceId", "")
	viper.SetDefault("Ingester.PullerInterval", "30s")
	viper.SetDefault("Ingester.PullerTimeout", "10s")
	viper.SetDefault("Ingester.LowBatteryThreshold", "20")
	viper.SetDefault("Ingester.DeviceCacheExpiration", "10m")
	viper.SetDefault("Ingester.DeviceCacheCleanupInterval", "15m")
}
