package handoff

import (
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
	ErrTokenRequired    = errors.New("login token is required")
	ErrTokenNotFound    = errors.New("login token not found")
	ErrTokenExpired     = errors.New("login token has expired")
	ErrTokenUsed        = errors.New("login token has already been used")
	ErrNoRecentPurchase = errors.New("no recent unconsumed purchase")
)

// GrantIssuer is the identity-provider capability the handoff depends on:
// produce a session-granting URL for an email address.
type GrantIssuer interface {
	IssueGrant(email string) (string, error)
}

// SessionGrant is the successful outcome of a redemption.
// RequiresPasswordReset is always true: the token stood in for a password, so
// the user must set a real one next.
type SessionGrant struct {
	Profile               *profile.Profile `json:"user"`
	AuthURL               string           `json:"auth_url"`
	RequiresPasswordReset bool             `json:"requires_password_reset"`
}

// Service converts a completed purchase into a one-time authenticated session
// grant. A token is redeemable iff it is present, unconsumed and unexpired,
// and no two redemption attempts may both succeed for the same token.
type Service struct {
	config *config.Config
	db     *gorm.DB
	issuer GrantIssuer
	logger *logging.Service
}

func NewService(cfg *config.Config, db *gorm.DB, issuer GrantIssuer, logger *logging.Service) *Service {
	return &Service{
		config: cfg,
		db:     db,
		issuer: issuer,
		logger: logger,
	}
}

// RedeemByToken exchanges an explicit login token for a session grant and
// consumes it.
func (s *Service) RedeemByToken(token string) (*SessionGrant, error) {
	if token == "" {
		return nil, ErrTokenRequired
	}

	var p profile.Profile
	if err := s.db.Where("login_token = ?", token).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if s.logger != nil {
				s.logger.Warn("unknown login token presented")
			}
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to look up login token: %w", err)
	}

	return s.redeem(&p)
}

// RedeemMostRecentPurchase redeems the newest paid, unconsumed purchase inside
// the window. A non-positive window falls back to the configured default. The
// paying user may land on a generic post-checkout page before any token is
// known client-side; this lookup trades a small polling race for zero-friction
// login.
func (s *Service) RedeemMostRecentPurchase(window time.Duration) (*SessionGrant, error) {
	if window <= 0 {
		window = s.config.Handoff.RecentPurchaseWindow
	}

	cutoff := time.Now().Add(-window)

	var p profile.Profile
	err := s.db.
		Where("payment_status = ?", profile.PaymentPaid).
		Where("login_token IS NOT NULL").
		Where("login_token_used = ?", false).
		Where("paid_at >= ?", cutoff).
		Order("paid_at DESC").
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoRecentPurchase
		}
		return nil, fmt.Errorf("failed to look up recent purchase: %w", err)
	}

	return s.redeem(&p)
}

// redeem validates the loaded profile's token, obtains a grant, and consumes
// the token. Expiry is checked before the used flag so an expired token
// reports expired regardless of consumption state, and expiry never writes
// the row. The identity call happens before consumption: if it fails the
// token stays redeemable.
func (s *Service) redeem(p *profile.Profile) (*SessionGrant, error) {
	if p.TokenExpired(time.Now()) {
		if s.logger != nil {
			s.logger.Warn("expired login token presented", zap.Uint("profile_id", p.ID))
		}
		return nil, ErrTokenExpired
	}

	if p.LoginTokenUsed {
		if s.logger != nil {
			s.logger.Warn("consumed login token presented", zap.Uint("profile_id", p.ID))
		}
		return nil, ErrTokenUsed
	}

	authURL, err := s.issuer.IssueGrant(p.Email)
	if err != nil {
		if s.logger != nil {
			s.logger.Error("grant issuer failed, token left unconsumed",
				zap.Error(err), zap.Uint("profile_id", p.ID))
		}
		return nil, fmt.Errorf("failed to obtain session grant: %w", err)
	}

	if err := s.consume(p); err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("login token redeemed",
			zap.Uint("profile_id", p.ID),
			zap.String("email", p.Email))
	}

	return &SessionGrant{
		Profile:               p,
		AuthURL:               authURL,
		RequiresPasswordReset: true,
	}, nil
}

// consume flips the used flag with a single conditional update. Two
// concurrent redemptions both reach this point with used=false in hand; the
// WHERE clause and affected-row check guarantee only one of them wins.
func (s *Service) consume(p *profile.Profile) error {
	now := time.Now()
	result := s.db.Model(&profile.Profile{}).
		Where("id = ? AND login_token_used = ?", p.ID, false).
		Updates(map[string]any{
			"login_token_used":    true,
			"login_token_used_at": now,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to consume login token: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		if s.logger != nil {
			s.logger.Warn("lost redemption race", zap.Uint("profile_id", p.ID))
		}
		return ErrTokenUsed
	}

	p.LoginTokenUsed = true
	p.LoginTokenUsedAt = &now
	return nil
}
