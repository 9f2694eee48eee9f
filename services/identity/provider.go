package identity

import (
	"github.com/minddumper/minddumper/config"
	"github.com/minddumper/minddumper/services/logging"
	"go.uber.org/fx"
)

func ProvideIdentityService(cfg *config.Config, logger *logging.Service) *Service {
	return NewService(cfg, logger)
}

var Module = fx.Options(
	fx.Provide(ProvideIdentityService),
)
