package config

import (
	"time"

	"github.com/spf13/viper"
)

type EventBus struct {
	// Max events waiting to be persisted and fanned out
	QueueSize int

	// How many events are inserted to the db in one batch
	StoreBatchSize int

	// How often events are flushed to the db
	StoreInterval time.Duration

	// Max time a db flush is retried. 0 means no limit.
	StoreBackoffMaxElapsedTime time.Duration

	// Max time between flush retries
	StoreBackoffMaxInterval time.Duration

	// Capacity of each subscriber's channel, events
	// to slow subscribers get dropped beyond that
	SubscriberQueueSize int
}

func setEventBusDefaults() {
	viper.SetDefault("EventBus.QueueSize", "100")
	viper.SetDefault("EventBus.StoreBatchSize", "50")
	viper.SetDefault("EventBus.StoreInterval", "1s")
	viper.SetDefault("EventBus.StoreBackoffMaxElapsedTime", "0")
	viper.SetDefault("EventBus.StoreBackoffMaxInterval", "8s")
	viper.SetDefault("EventBus.SubscriberQueueSize", "10")
}
