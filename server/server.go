package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/minddumper/minddumper/config"
	"github.com/minddumper/minddumper/services/logging"
	"go.uber.org/zap"
)

type Server struct {
	echo   *echo.Echo
	cfg    *config.Config
	logger *logging.Service
}

func New(cfg *config.Config, logger *logging.Service) *Server {
	e := echo.New()
	e.HideBanner = true

	return &Server{
		echo:   e,
		cfg:    cfg,
		logger: logger,
	}
}

func (s *Server) Start() {
	addr := fmt.Sprintf("%s:%s", s.cfg.Server.Host, s.cfg.Server.Port)
	s.logger.Info("starting server", zap.String("addr", addr))

	if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
		s.logger.Fatal("failed to start server", zap.Error(err))
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) Get(path string, handler echo.HandlerFunc, middleware ...echo.MiddlewareFunc) {
	s.echo.GET(path, handler, middleware...)
}

func (s *Server) Post(path string, handler echo.HandlerFunc, middleware ...echo.MiddlewareFunc) {
	s.echo.POST(path, handler, middleware...)
}

func (s *Server) Put(path string, handler echo.HandlerFunc, middleware ...echo.MiddlewareFunc) {
	s.echo.PUT(path, handler, middleware...)
}

func (s *Server) Delete(path string, handler echo.HandlerFunc, middleware ...echo.MiddlewareFunc) {
	s.echo.DELETE(path, handler, middleware...)
}

func (s *Server) Group(prefix string, middleware ...echo.MiddlewareFunc) *echo.Group {
	return s.echo.Group(prefix, middleware...)
}

func (s *Server) Use(middleware ...echo.MiddlewareFunc) {
	s.echo.Use(middleware...)
}

func (s *Server) Echo() *echo.Echo {
	return s.echo
}
