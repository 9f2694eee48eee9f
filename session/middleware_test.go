package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/minddumper/minddumper/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSessionEcho(t *testing.T) (*echo.Echo, *Manager) {
	cfg := testutils.GetTestConfig()
	cfg.Session.Store = "memory"

	manager, err := ProvideSessionManager(cfg, nil)
	require.NoError(t, err)

	e := echo.New()
	e.Use(Middleware(manager))
	return e, manager
}

func TestMiddleware_LoginLogout(t *testing.T) {
	e, _ := newSessionEcho(t)

	e.POST("/login", func(c echo.Context) error {
		if err := Login(c, 42); err != nil {
			return err
		}
		return c.NoContent(http.StatusOK)
	})
	e.GET("/me", func(c echo.Context) error {
		if !IsAuthenticated(c) {
			return c.NoContent(http.StatusUnauthorized)
		}
		return c.JSON(http.StatusOK, map[string]uint{"profile_id": GetProfileID(c)})
	}, RequireAuth())
	e.POST("/logout", func(c echo.Context) error {
		Logout(c)
		return c.NoContent(http.StatusOK)
	})

	// Login sets a session cookie.
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	// The cookie authenticates subsequent requests.
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "42")

	// Logout destroys the session.
	req = httptest.NewRequest(http.MethodPost, "/logout", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth_RejectsAnonymous(t *testing.T) {
	e, _ := newSessionEcho(t)

	e.GET("/protected", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, RequireAuth())

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMiddleware_NilManagerPassthrough(t *testing.T) {
	e := echo.New()
	e.Use(Middleware(nil))
	e.GET("/open", func(c echo.Context) error {
		assert.Nil(t, GetManager(c))
		assert.False(t, IsAuthenticated(c))
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
