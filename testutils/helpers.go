package testutils

import (
	"testing"
	"time"

	"github.com/minddumper/minddumper/config"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func SetupTestDB(t *testing.T, models ...interface{}) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A second pooled connection to ":memory:" would see a different database,
	// and concurrent writers would trip sqlite busy errors.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	if len(models) > 0 {
		err = db.AutoMigrate(models...)
		require.NoError(t, err)
	}

	return db
}

func CleanupTestDB(t *testing.T, db *gorm.DB, tables ...string) {
	for _, table := range tables {
		err := db.Exec("DELETE FROM " + table).Error
		require.NoError(t, err)
	}
}

func GetTestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name: "MindDumper Test",
			URL:  "http://localhost:8080",
		},
		Auth: config.AuthConfig{
			MinLength:      8,
			RequireUpper:   true,
			RequireLower:   true,
			RequireNumber:  true,
			RequireSpecial: false,
			BcryptCost:     4,
		},
		Handoff: config.HandoffConfig{
			TokenLength:          32,
			TokenExpiry:          24 * time.Hour,
			RecentPurchaseWindow: 5 * time.Minute,
		},
		Identity: config.IdentityConfig{
			SigningKey:  "test-signing-key-test-signing-key",
			GrantExpiry: 10 * time.Minute,
		},
		Session: config.SessionConfig{
			Enabled:  true,
			Store:    "memory",
			Name:     "minddumper_session_test",
			MaxAge:   time.Hour,
			Path:     "/",
			HttpOnly: true,
			SameSite: "lax",
		},
		Payment: config.PaymentConfig{
			WebhookSecret: "test-webhook-secret",
		},
	}
}
