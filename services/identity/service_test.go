package identity

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/minddumper/minddumper/services/profile"
	"github.com/minddumper/minddumper/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func grantFromURL(t *testing.T, authURL string) string {
	parsed, err := url.Parse(authURL)
	require.NoError(t, err)
	grant := parsed.Query().Get("grant")
	require.NotEmpty(t, grant)
	return grant
}

func TestService_IssueGrant(t *testing.T) {
	cfg := testutils.GetTestConfig()
	service := NewService(cfg, nil)

	t.Run("issues a verifiable grant URL", func(t *testing.T) {
		authURL, err := service.IssueGrant("buyer@example.com")
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(authURL, cfg.App.URL+"/auth/session?grant="))

		claims, err := service.VerifyGrant(grantFromURL(t, authURL))
		require.NoError(t, err)
		assert.Equal(t, "buyer@example.com", claims.Email)
		assert.NotEmpty(t, claims.ID)
		assert.True(t, claims.ExpiresAt.After(time.Now()))
	})

	t.Run("grants carry unique ids", func(t *testing.T) {
		first, err := service.IssueGrant("buyer@example.com")
		require.NoError(t, err)
		second, err := service.IssueGrant("buyer@example.com")
		require.NoError(t, err)

		c1, err := service.VerifyGrant(grantFromURL(t, first))
		require.NoError(t, err)
		c2, err := service.VerifyGrant(grantFromURL(t, second))
		require.NoError(t, err)

		assert.NotEqual(t, c1.ID, c2.ID)
	})

	t.Run("fails without signing key", func(t *testing.T) {
		cfgNoKey := testutils.GetTestConfig()
		cfgNoKey.Identity.SigningKey = ""
		svc := NewService(cfgNoKey, nil)

		_, err := svc.IssueGrant("buyer@example.com")
		assert.ErrorIs(t, err, ErrSigningKeyMissing)
	})
}

func TestService_VerifyGrant(t *testing.T) {
	cfg := testutils.GetTestConfig()
	service := NewService(cfg, nil)

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := service.VerifyGrant("not-a-grant")
		assert.ErrorIs(t, err, ErrGrantInvalid)
	})

	t.Run("rejects grant signed with a different key", func(t *testing.T) {
		otherCfg := testutils.GetTestConfig()
		otherCfg.Identity.SigningKey = "another-key-entirely-another-key"
		other := NewService(otherCfg, nil)

		authURL, err := other.IssueGrant("buyer@example.com")
		require.NoError(t, err)

		_, err = service.VerifyGrant(grantFromURL(t, authURL))
		assert.ErrorIs(t, err, ErrGrantInvalid)
	})

	t.Run("rejects expired grant", func(t *testing.T) {
		shortCfg := testutils.GetTestConfig()
		shortCfg.Identity.GrantExpiry = -time.Minute
		short := NewService(shortCfg, nil)

		authURL, err := short.IssueGrant("buyer@example.com")
		require.NoError(t, err)

		_, err = service.VerifyGrant(grantFromURL(t, authURL))
		assert.ErrorIs(t, err, ErrGrantExpired)
	})
}

func TestService_PasswordPolicy(t *testing.T) {
	cfg := testutils.GetTestConfig()
	service := NewService(cfg, nil)

	tests := []struct {
		name     string
		password string
		wantErr  string
	}{
		{"accepts conforming password", "Sufficient1", ""},
		{"rejects short password", "Ab1", "at least 8 characters"},
		{"rejects missing uppercase", "alllower1", "one uppercase letter"},
		{"rejects missing number", "NoNumbersHere", "one number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := service.ValidatePassword(tt.password)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestService_SetPassword(t *testing.T) {
	cfg := testutils.GetTestConfig()
	service := NewService(cfg, nil)

	db := testutils.SetupTestDB(t, &profile.Profile{})
	profiles := profile.NewService(db, nil)

	p, err := profiles.GetOrCreateByEmail("pw@example.com", "")
	require.NoError(t, err)

	t.Run("stores a verifiable hash", func(t *testing.T) {
		require.NoError(t, service.SetPassword(profiles, p.ID, "Sufficient1"))

		reloaded, err := profiles.GetByID(p.ID)
		require.NoError(t, err)
		assert.True(t, reloaded.HasPassword())
		assert.NoError(t, service.VerifyPassword(reloaded.Password, "Sufficient1"))
		assert.ErrorIs(t, service.VerifyPassword(reloaded.Password, "WrongPass1"), ErrInvalidCredentials)
	})

	t.Run("rejects weak password before touching the profile", func(t *testing.T) {
		err := service.SetPassword(profiles, p.ID, "weak")
		require.Error(t, err)
	})
}
