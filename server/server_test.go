package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/minddumper/minddumper/config"
	"github.com/stretchr/testify/assert"
)

func newTestServer() *Server {
	cfg := &config.Config{
		Server: config.ServerConfig{Host: "localhost", Port: "0"},
	}
	return New(cfg, nil)
}

func TestServer_Routes(t *testing.T) {
	srv := newTestServer()

	srv.Get("/ping", func(c echo.Context) error {
		return c.String(http.StatusOK, "pong")
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	rec := httptest.NewRecorder()
	srv.Echo().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())
}

func TestServer_Group(t *testing.T) {
	srv := newTestServer()

	g := srv.Group("/api")
	g.GET("/status", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	rec := httptest.NewRecorder()
	srv.Echo().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_MethodHelpers(t *testing.T) {
	srv := newTestServer()

	handler := func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }
	srv.Post("/p", handler)
	srv.Put("/p", handler)
	srv.Delete("/p", handler)

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		req := httptest.NewRequest(method, "/p", nil)
		rec := httptest.NewRecorder()
		srv.Echo().ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code, method)
	}
}
