package common

import (
	"context"

	"github.com/trackium/trackd/src/utils/config"
)

type contextKey int

const configKey contextKey = iota

// Attaches the global configuration to the context
func SetConfig(ctx context.Context, config *config.Config) context.Context {
	return context.WithValue(ctx, configKey, config)
}

func GetConfig(ctx context.Context) *config.Config {
	config, ok := ctx.Value(configKey).(*config.Config)
	if !ok {
		return nil
	}
	return config
}
