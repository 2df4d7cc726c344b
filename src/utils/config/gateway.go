package config

import (
	"time"

	"github.com/spf13/viper"
)

type Gateway struct {
	// Address of the device status REST API
	ListenAddress string

	// Request handling timeout
	ServerRequestTimeout time.Duration

	// Default number of rows returned from history queries
	DefaultHistoryLimit int

	// Upper bound of the limit query parameter
	MaxHistoryLimit int
}

func setGatewayDefaults() {
	viper.SetDefault("Gateway.ListenAddress", ":8071")
	viper.SetDefault("Gateway.ServerRequestTimeout", "30s")
	viper.SetDefault("Gateway.DefaultHistoryLimit", "100")
	viper.SetDefault("Gateway.MaxHistoryLimit", "1000")
}
