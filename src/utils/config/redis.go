package config

import (
	"time"

	"github.com/spf13/viper"
)

type Redis struct {
	// Switch off publishing events to Redis
	Disabled bool

	Host     string
	Port     uint16
	User     string
	Password string
	DB       int

	// Channel domain events are published to
	ChannelName string

	MinIdleConns    int
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxIdleTime time.Duration
	ConnMaxLifetime time.Duration

	// Workers that publish messages in parallel
	MaxWorkers int

	// Max messages waiting in the queue
	MaxQueueSize int

	// Max time a publish is retried. 0 means no limit.
	BackoffMaxElapsedTime time.Duration

	// Max time between publish retries
	BackoffMaxInterval time.Duration
}

func setRedisDefaults() {
	viper.SetDefault("Redis.Disabled", "true")
	viper.SetDefault("Redis.Host", "127.0.0.1")
	viper.SetDefault("Redis.Port", "6379")
	viper.SetDefault("Redis.User", "")
	viper.SetDefault("Redis.Password", "")
	viper.SetDefault("Redis.DB", "0")
	viper.SetDefault("Redis.ChannelName", "trackd:events")
	viper.SetDefault("Redis.MinIdleConns", "1")
	viper.SetDefault("Redis.MaxIdleConns", "4")
	viper.SetDefault("Redis.MaxOpenConns", "10")
	viper.SetDefault("Redis.ConnMaxIdleTime", "5m")
	viper.SetDefault("Redis.ConnMaxLifetime", "1h")
	viper.SetDefault("Redis.MaxWorkers", "5")
	viper.SetDefault("Redis.MaxQueueSize", "100")
	viper.SetDefault("Redis.BackoffMaxElapsedTime", "2m")
	viper.SetDefault("Redis.BackoffMaxInterval", "10s")
}
