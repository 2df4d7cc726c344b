package config

import (
	"time"

	"github.com/spf13/viper"
)

type Registry struct {
	// Prefix of generated device identifiers
	IdPrefix string

	// Devices without a sample for this long are marked offline
	OfflineAfter time.Duration

	// How often the offline reaper runs
	ReaperInterval time.Duration

	// Domain events older than this are pruned
	EventRetention time.Duration

	// Movement samples older than this are pruned
	SampleRetention time.Duration

	// How often the retention pruner runs
	PrunerInterval time.Duration
}

func setRegistryDefaults() {
	viper.SetDefault("Registry.IdPrefix", "TRACK")
	viper.SetDefault("Registry.OfflineAfter", "10m")
	viper.SetDefault("Registry.ReaperInterval", "1m")
	viper.SetDefault("Registry.EventRetention", "720h")
	viper.SetDefault("Registry.SampleRetention", "2160h")
	viper.SetDefault("Registry.PrunerInterval", "1h")
}
