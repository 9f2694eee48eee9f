package payment

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/minddumper/minddumper/config"
	"github.com/minddumper/minddumper/services/logging"
	"github.com/minddumper/minddumper/services/profile"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrOrderIDRequired = errors.New("order id is required")
	ErrEmailRequired   = errors.New("email is required")
)

// OrderPaidEvent is the order-paid notification posted by the payment
// provider's webhook.
type OrderPaidEvent struct {
	OrderID string `json:"order_id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	PaidAt  *time.Time `json:"paid_at,omitempty"`
}

type MailService interface {
	SendTemplate(templateName string, to []string, subject string, data map[string]any) error
}

// Service turns completed payments into redeemable login tokens: it is the
// token issuer side of the purchase-to-session handoff.
type Service struct {
	config      *config.Config
	db          *gorm.DB
	profiles    *profile.Service
	mailService MailService
	logger      *logging.Service
}

func NewService(cfg *config.Config, db *gorm.DB, profiles *profile.Service, logger *logging.Service) *Service {
	return &Service{
		config:   cfg,
		db:       db,
		profiles: profiles,
		logger:   logger,
	}
}

func (s *Service) SetMailService(mailService MailService) {
	s.mailService = mailService
}

// ProcessOrderPaid marks the buyer's profile paid and mints a fresh login
// token. Redelivery of the same order id is a no-op; a genuinely new order
// for the same address overwrites the previous token. Mail failures are
// logged but never fail the webhook.
func (s *Service) ProcessOrderPaid(event OrderPaidEvent) (*profile.Profile, error) {
	if event.OrderID == "" {
		return nil, ErrOrderIDRequired
	}
	if event.Email == "" {
		return nil, ErrEmailRequired
	}

	p, err := s.profiles.GetOrCreateByEmail(event.Email, event.Name)
	if err != nil {
		return nil, err
	}

	if p.OrderReference == event.OrderID && p.PaymentStatus == profile.PaymentPaid {
		if s.logger != nil {
			s.logger.Info("duplicate order-paid event ignored",
				zap.Uint("profile_id", p.ID),
				zap.String("order_id", event.OrderID))
		}
		return p, nil
	}

	paidAt := time.Now()
	if event.PaidAt != nil {
		paidAt = *event.PaidAt
	}

	result := s.db.Model(&profile.Profile{}).Where("id = ?", p.ID).Updates(map[string]any{
		"payment_status":  profile.PaymentPaid,
		"paid_at":         paidAt,
		"order_reference": event.OrderID,
	})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to mark profile paid: %w", result.Error)
	}

	token, err := s.generateLoginToken()
	if err != nil {
		return nil, err
	}

	expires := paidAt.Add(s.config.Handoff.TokenExpiry)
	if err := s.profiles.MintLoginToken(p.ID, token, expires); err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("order processed",
			zap.Uint("profile_id", p.ID),
			zap.String("order_id", event.OrderID),
			zap.Time("paid_at", paidAt))
	}

	s.sendLoginLinkEmail(p.Email, token)

	return s.profiles.GetByID(p.ID)
}

func (s *Service) generateLoginToken() (string, error) {
	bytes := make([]byte, s.config.Handoff.TokenLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate login token: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

func (s *Service) sendLoginLinkEmail(email, token string) {
	if s.mailService == nil {
		return
	}

	loginURL := fmt.Sprintf("%s/login?token=%s", s.config.App.URL, token)
	data := map[string]any{
		"Email":    email,
		"LoginURL": loginURL,
		"AppName":  s.config.App.Name,
	}

	subject := fmt.Sprintf("Your %s access", s.config.App.Name)
	if err := s.mailService.SendTemplate("login_link", []string{email}, subject, data); err != nil {
		if s.logger != nil {
			s.logger.Warn("failed to send login link email", zap.Error(err), zap.String("email", email))
		}
	}
}
