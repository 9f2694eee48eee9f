package mail

import (
	"github.com/minddumper/minddumper/config"
	"github.com/minddumper/minddumper/services/logging"
	"go.uber.org/fx"
)

func ProvideMailService(cfg *config.Config, logger *logging.Service) (*Service, error) {
	return NewService(&cfg.Mail, logger)
}

var Module = fx.Options(
	fx.Provide(ProvideMailService),
)
