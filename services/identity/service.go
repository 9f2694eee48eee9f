package identity

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/minddumper/minddumper/config"
	"github.com/minddumper/minddumper/services/logging"
	"github.com/minddumper/minddumper/services/profile"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrSigningKeyMissing  = errors.New("identity signing key is not configured")
	ErrGrantInvalid       = errors.New("invalid session grant")
	ErrGrantExpired       = errors.New("session grant has expired")
	ErrGrantWrongPurpose  = errors.New("credential is not a session grant")
	ErrPasswordHashFailed = errors.New("failed to hash password")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

const grantPurpose = "session_grant"

type GrantClaims struct {
	Email   string `json:"email"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// Service is the identity-provider collaborator: it turns an email address
// into a session-granting URL and owns password hashing and policy.
type Service struct {
	config *config.Config
	logger *logging.Service
}

func NewService(cfg *config.Config, logger *logging.Service) *Service {
	if cfg.Auth.BcryptCost < bcrypt.MinCost || cfg.Auth.BcryptCost > bcrypt.MaxCost {
		cfg.Auth.BcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		config: cfg,
		logger: logger,
	}
}

// IssueGrant mints a short-lived signed credential for the address and wraps
// it in the session-exchange URL the client is redirected to.
func (s *Service) IssueGrant(email string) (string, error) {
	if s.config.Identity.SigningKey == "" {
		return "", ErrSigningKeyMissing
	}

	now := time.Now()
	claims := GrantClaims{
		Email:   email,
		Purpose: grantPurpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    s.config.App.Name,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.Identity.GrantExpiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.Identity.SigningKey))
	if err != nil {
		if s.logger != nil {
			s.logger.Error("failed to sign session grant", zap.Error(err), zap.String("email", email))
		}
		return "", fmt.Errorf("failed to sign session grant: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("session grant issued",
			zap.String("email", email),
			zap.String("jti", claims.ID),
			zap.Time("expires_at", claims.ExpiresAt.Time))
	}

	return fmt.Sprintf("%s/auth/session?grant=%s", s.config.App.URL, url.QueryEscape(signed)), nil
}

// VerifyGrant validates a grant credential and returns its claims.
func (s *Service) VerifyGrant(tokenString string) (*GrantClaims, error) {
	if s.config.Identity.SigningKey == "" {
		return nil, ErrSigningKeyMissing
	}

	claims := &GrantClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.config.Identity.SigningKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrGrantExpired
		}
		if s.logger != nil {
			s.logger.Warn("invalid session grant presented", zap.Error(err))
		}
		return nil, ErrGrantInvalid
	}

	if !token.Valid {
		return nil, ErrGrantInvalid
	}

	if claims.Purpose != grantPurpose {
		return nil, ErrGrantWrongPurpose
	}

	return claims, nil
}

func (s *Service) ValidatePassword(password string) error {
	if len(password) < s.config.Auth.MinLength {
		return fmt.Errorf("password must be at least %d characters", s.config.Auth.MinLength)
	}

	var hasUpper, hasLower, hasNumber, hasSpecial bool
	var missing []string

	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}

	if s.config.Auth.RequireUpper && !hasUpper {
		missing = append(missing, "one uppercase letter")
	}
	if s.config.Auth.RequireLower && !hasLower {
		missing = append(missing, "one lowercase letter")
	}
	if s.config.Auth.RequireNumber && !hasNumber {
		missing = append(missing, "one number")
	}
	if s.config.Auth.RequireSpecial && !hasSpecial {
		missing = append(missing, "one special character")
	}

	if len(missing) > 0 {
		return fmt.Errorf("password must contain at least %s", strings.Join(missing, ", "))
	}

	return nil
}

func (s *Service) HashPassword(password string) (string, error) {
	if err := s.ValidatePassword(password); err != nil {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.config.Auth.BcryptCost)
	if err != nil {
		if s.logger != nil {
			s.logger.Error("password hashing failed", zap.Error(err))
		}
		return "", ErrPasswordHashFailed
	}

	return string(hash), nil
}

func (s *Service) VerifyPassword(hashedPassword, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// SetPassword validates, hashes and stores a real password for the profile,
// completing the forced reset after a token-based login.
func (s *Service) SetPassword(profiles *profile.Service, profileID uint, password string) error {
	hash, err := s.HashPassword(password)
	if err != nil {
		return err
	}

	if err := profiles.SetPasswordHash(profileID, hash); err != nil {
		return err
	}

	if s.logger != nil {
		s.logger.Info("password set", zap.Uint("profile_id", profileID))
	}
	return nil
}
