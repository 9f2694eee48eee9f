package handoff

import (
	"github.com/minddumper/minddumper/config"
	"github.com/minddumper/minddumper/services/identity"
	"github.com/minddumper/minddumper/services/logging"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func ProvideHandoffService(cfg *config.Config, db *gorm.DB, identitySvc *identity.Service, logger *logging.Service) *Service {
	return NewService(cfg, db, identitySvc, logger)
}

var Module = fx.Options(
	fx.Provide(ProvideHandoffService),
)
