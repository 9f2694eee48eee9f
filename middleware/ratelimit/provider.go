package ratelimit

import (
	"github.com/minddumper/minddumper/config"
	"go.uber.org/fx"
)

func ProvideRateLimitStore(cfg *config.Config) Store {
	return NewStore(&cfg.RateLimit)
}

var Module = fx.Options(
	fx.Provide(ProvideRateLimitStore),
)
