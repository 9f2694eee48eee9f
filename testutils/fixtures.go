package testutils

import (
	"testing"
	"time"

	"github.com/minddumper/minddumper/services/profile"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type ProfileFixture struct {
	Email         string
	PaymentStatus profile.PaymentStatus
	PaidAgo       time.Duration
	Token         string
	TokenExpires  time.Duration
	TokenUsed     bool
}

// CreateProfile inserts a profile shaped by the fixture. TokenExpires is
// relative to now and may be negative for an already-expired token.
func CreateProfile(t *testing.T, db *gorm.DB, f ProfileFixture) *profile.Profile {
	now := time.Now()

	p := &profile.Profile{
		Email:         f.Email,
		PaymentStatus: f.PaymentStatus,
	}
	if f.PaymentStatus == profile.PaymentPaid {
		paidAt := now.Add(-f.PaidAgo)
		p.PaidAt = &paidAt
	}
	if f.Token != "" {
		token := f.Token
		expires := now.Add(f.TokenExpires)
		p.LoginToken = &token
		p.LoginTokenExpires = &expires
		p.LoginTokenUsed = f.TokenUsed
	}

	require.NoError(t, db.Create(p).Error)
	return p
}
