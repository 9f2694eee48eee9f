package session

import (
	"time"

	"github.com/labstack/echo/v4"
)

const (
	ProfileIDKey     = "_profile_id"
	AuthenticatedKey = "_authenticated"
)

// Login establishes an authenticated session for the profile and records the
// audit row. The session token is rotated first so a pre-login session id
// can never be replayed as an authenticated one.
func Login(c echo.Context, profileID uint) error {
	manager := GetManager(c)
	if manager == nil {
		return nil
	}
	ctx := c.Request().Context()

	if err := manager.RenewToken(ctx); err != nil {
		return err
	}

	manager.Put(ctx, ProfileIDKey, profileID)
	manager.Put(ctx, AuthenticatedKey, true)

	if service := GetSessionService(c); service != nil {
		token := manager.Token(ctx)
		if token != "" {
			expiresAt := time.Now().Add(manager.config.MaxAge)
			_ = service.TrackSession(profileID, token, c.RealIP(), c.Request().UserAgent(), expiresAt)
		}
	}

	return nil
}

func Logout(c echo.Context) {
	manager := GetManager(c)
	if manager == nil {
		return
	}
	ctx := c.Request().Context()

	if service := GetSessionService(c); service != nil {
		if token := manager.Token(ctx); token != "" {
			_ = service.RemoveSessionByToken(token)
		}
	}

	manager.Remove(ctx, ProfileIDKey)
	manager.Remove(ctx, AuthenticatedKey)
	_ = manager.Destroy(ctx)
}

func GetProfileID(c echo.Context) uint {
	manager := GetManager(c)
	if manager == nil {
		return 0
	}
	ctx := c.Request().Context()

	switch v := manager.Get(ctx, ProfileIDKey).(type) {
	case uint:
		return v
	case int:
		return uint(v)
	case int64:
		return uint(v)
	case float64:
		return uint(v)
	default:
		return 0
	}
}

func IsAuthenticated(c echo.Context) bool {
	manager := GetManager(c)
	if manager == nil {
		return false
	}
	return manager.GetBool(c.Request().Context(), AuthenticatedKey)
}
