package dump

import (
	"github.com/minddumper/minddumper/services/logging"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func ProvideDumpService(db *gorm.DB, logger *logging.Service) *Service {
	return NewService(db, logger)
}

var Module = fx.Options(
	fx.Provide(ProvideDumpService),
)
