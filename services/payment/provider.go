package payment

import (
	"github.com/minddumper/minddumper/config"
	"github.com/minddumper/minddumper/services/logging"
	"github.com/minddumper/minddumper/services/mail"
	"github.com/minddumper/minddumper/services/profile"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func ProvidePaymentService(cfg *config.Config, db *gorm.DB, profiles *profile.Service, logger *logging.Service) *Service {
	return NewService(cfg, db, profiles, logger)
}

type OptionalMailService struct {
	fx.In
	MailService *mail.Service `optional:"true"`
}

func WireMailService(svc *Service, opt OptionalMailService) {
	if opt.MailService != nil {
		svc.SetMailService(opt.MailService)
	}
}

var Module = fx.Options(
	fx.Provide(ProvidePaymentService),
	fx.Invoke(WireMailService),
)
