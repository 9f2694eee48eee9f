package session

import (
	"fmt"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/minddumper/minddumper/config"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

type Manager struct {
	*scs.SessionManager
	config config.SessionConfig
}

func ProvideSessionManager(cfg *config.Config, db *gorm.DB) (*Manager, error) {
	if !cfg.Session.Enabled {
		return nil, nil
	}

	sessionManager := scs.New()

	var store scs.Store
	var err error

	switch cfg.Session.Store {
	case "memory":
		store = NewMemoryStore()
	case "database":
		if db == nil {
			return nil, fmt.Errorf("database session store requires a database")
		}
		store, err = NewDatabaseStore(db)
		if err != nil {
			return nil, fmt.Errorf("failed to create database session store: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported session store: %s", cfg.Session.Store)
	}

	sessionManager.Store = store
	sessionManager.Lifetime = cfg.Session.MaxAge
	sessionManager.IdleTimeout = cfg.Session.MaxAge
	sessionManager.Cookie.Name = cfg.Session.Name
	sessionManager.Cookie.Path = cfg.Session.Path
	sessionManager.Cookie.Domain = cfg.Session.Domain
	sessionManager.Cookie.Secure = cfg.Session.Secure
	sessionManager.Cookie.HttpOnly = cfg.Session.HttpOnly

	switch cfg.Session.SameSite {
	case "strict":
		sessionManager.Cookie.SameSite = http.SameSiteStrictMode
	case "lax":
		sessionManager.Cookie.SameSite = http.SameSiteLaxMode
	case "none":
		sessionManager.Cookie.SameSite = http.SameSiteNoneMode
	default:
		sessionManager.Cookie.SameSite = http.SameSiteLaxMode
	}

	return &Manager{
		SessionManager: sessionManager,
		config:         cfg.Session,
	}, nil
}

func ProvideSessionService(db *gorm.DB, manager *Manager) SessionService {
	if db == nil || manager == nil {
		return nil
	}
	return NewSessionService(db, manager)
}

var Module = fx.Options(
	fx.Provide(ProvideSessionManager),
	fx.Provide(ProvideSessionService),
)
