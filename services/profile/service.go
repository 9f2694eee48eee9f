package profile

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/minddumper/minddumper/services/logging"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrEmailRequired   = errors.New("email is required")
)

type Service struct {
	db     *gorm.DB
	logger *logging.Service
}

func NewService(db *gorm.DB, logger *logging.Service) *Service {
	return &Service{
		db:     db,
		logger: logger,
	}
}

func (s *Service) GetByID(id uint) (*Profile, error) {
	var p Profile
	if err := s.db.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return &p, nil
}

func (s *Service) GetByEmail(email string) (*Profile, error) {
	var p Profile
	if err := s.db.Where("email = ?", normalizeEmail(email)).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return &p, nil
}

// GetOrCreateByEmail returns the existing profile for the address or creates a
// pending one. The payment flow calls this when a checkout completes for an
// address we have never seen.
func (s *Service) GetOrCreateByEmail(email, name string) (*Profile, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, ErrEmailRequired
	}

	var p Profile
	err := s.db.Where("email = ?", email).First(&p).Error
	if err == nil {
		return &p, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	p = Profile{
		Email:         email,
		Name:          name,
		PaymentStatus: PaymentPending,
	}
	if err := s.db.Create(&p).Error; err != nil {
		if s.logger != nil {
			s.logger.Error("failed to create profile", zap.Error(err), zap.String("email", email))
		}
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("profile created", zap.Uint("profile_id", p.ID), zap.String("email", email))
	}
	return &p, nil
}

func (s *Service) SetPaymentStatus(id uint, status PaymentStatus) error {
	result := s.db.Model(&Profile{}).Where("id = ?", id).Update("payment_status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update payment status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (s *Service) Disable(id uint) error {
	return s.SetPaymentStatus(id, PaymentDisabled)
}

func (s *Service) SetPasswordHash(id uint, hash string) error {
	result := s.db.Model(&Profile{}).Where("id = ?", id).Update("password", hash)
	if result.Error != nil {
		return fmt.Errorf("failed to update password: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

// MintLoginToken installs a fresh single-use token on the profile, replacing
// whatever token was there before. Minting always re-arms the used flag: the
// new token is a new credential, not a reset of the old one.
func (s *Service) MintLoginToken(id uint, token string, expires time.Time) error {
	result := s.db.Model(&Profile{}).Where("id = ?", id).Updates(map[string]any{
		"login_token":         token,
		"login_token_expires": expires,
		"login_token_used":    false,
		"login_token_used_at": nil,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to mint login token: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrProfileNotFound
	}

	if s.logger != nil {
		s.logger.Info("login token minted", zap.Uint("profile_id", id), zap.Time("expires", expires))
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
