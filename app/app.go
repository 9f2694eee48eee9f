package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/fx"

	"github.com/minddumper/minddumper/config"
	"github.com/minddumper/minddumper/database"
	"github.com/minddumper/minddumper/handlers"
	"github.com/minddumper/minddumper/middleware/ratelimit"
	"github.com/minddumper/minddumper/server"
	"github.com/minddumper/minddumper/services/dump"
	"github.com/minddumper/minddumper/services/handoff"
	"github.com/minddumper/minddumper/services/identity"
	"github.com/minddumper/minddumper/services/logging"
	"github.com/minddumper/minddumper/services/mail"
	"github.com/minddumper/minddumper/services/payment"
	"github.com/minddumper/minddumper/services/profile"
	"github.com/minddumper/minddumper/session"
)

type App struct {
	fx     *fx.App
	config *config.Config
	logger *logging.Service
}

// New loads configuration from the environment and assembles the
// application graph.
func New() (*App, error) {
	var cfg config.Config
	if err := config.LoadConfig(&cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return NewWithConfig(&cfg), nil
}

func NewWithConfig(cfg *config.Config) *App {
	a := &App{config: cfg}

	opts := []fx.Option{
		config.NewProvider(cfg),
		logging.Module,
		fx.Supply(database.WithModels(
			&profile.Profile{},
			&session.ProfileSession{},
			&dump.Category{},
			&dump.TriggerWord{},
			&dump.CustomWord{},
			&dump.BrainDump{},
			&dump.DumpEntry{},
		)),
		database.Module,
		server.NewProvider(),
		session.Module,
		ratelimit.Module,
		profile.Module,
		identity.Module,
		handoff.Module,
		dump.Module,
		payment.Module,
		handlers.Module,
		fx.Populate(&a.logger),
	}

	// Mail is optional: the login-link email is skipped when no sender is
	// configured, and the webhook response still carries the token handoff.
	if cfg.Mail.FromAddress != "" {
		opts = append(opts, mail.Module)
	}

	a.fx = fx.New(opts...)
	return a
}

func (a *App) Start() error {
	return a.fx.Start(context.Background())
}

func (a *App) Run() {
	if err := a.Start(); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	if a.logger != nil {
		a.logger.Info("Received shutdown signal, stopping gracefully...")
	} else {
		log.Printf("Received signal %v, shutting down gracefully...", sig)
	}

	a.Stop()
}

func (a *App) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := a.fx.Stop(ctx); err != nil {
		if a.logger != nil {
			a.logger.Error("Failed to stop application gracefully")
		} else {
			log.Printf("Failed to stop application gracefully: %v", err)
		}
	}
}

func (a *App) Config() *config.Config {
	return a.config
}

func (a *App) Logger() *logging.Service {
	return a.logger
}
