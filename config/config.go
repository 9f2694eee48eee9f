package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig       `envPrefix:"MD_APP_"`
	Server    ServerConfig    `envPrefix:"MD_SERVER_"`
	Log       LogConfig       `envPrefix:"MD_LOG_"`
	Database  DatabaseConfig  `envPrefix:"MD_DATABASE_"`
	Session   SessionConfig   `envPrefix:"MD_SESSION_"`
	Auth      AuthConfig      `envPrefix:"MD_AUTH_"`
	Handoff   HandoffConfig   `envPrefix:"MD_HANDOFF_"`
	Identity  IdentityConfig  `envPrefix:"MD_IDENTITY_"`
	Mail      MailConfig      `envPrefix:"MD_MAIL_"`
	Payment   PaymentConfig   `envPrefix:"MD_PAYMENT_"`
	RateLimit RateLimitConfig `envPrefix:"MD_RATELIMIT_"`
}

type AppConfig struct {
	Name string `env:"NAME" envDefault:"MindDumper"`
	URL  string `env:"URL" envDefault:"http://localhost:8080"`
}

type ServerConfig struct {
	Port string `env:"PORT" envDefault:"8080"`
	Host string `env:"HOST" envDefault:"localhost"`
}

type LogConfig struct {
	Level  string `env:"LEVEL" envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"json"`
	Output string `env:"OUTPUT" envDefault:"stdout"`
}

type DatabaseConfig struct {
	Driver      string `env:"DRIVER" envDefault:"sqlite"`
	DSN         string `env:"DSN" envDefault:"minddumper.db"`
	AutoMigrate bool   `env:"AUTO_MIGRATE" envDefault:"true"`
}

type SessionConfig struct {
	Enabled  bool          `env:"ENABLED" envDefault:"true"`
	Store    string        `env:"STORE" envDefault:"database"`
	Name     string        `env:"NAME" envDefault:"minddumper_session"`
	MaxAge   time.Duration `env:"MAX_AGE" envDefault:"720h"`
	Path     string        `env:"PATH" envDefault:"/"`
	Domain   string        `env:"DOMAIN" envDefault:""`
	Secure   bool          `env:"SECURE" envDefault:"false"`
	HttpOnly bool          `env:"HTTP_ONLY" envDefault:"true"`
	SameSite string        `env:"SAME_SITE" envDefault:"lax"`
}

type AuthConfig struct {
	MinLength      int  `env:"PASSWORD_MIN_LENGTH" envDefault:"8"`
	RequireUpper   bool `env:"PASSWORD_REQUIRE_UPPER" envDefault:"true"`
	RequireLower   bool `env:"PASSWORD_REQUIRE_LOWER" envDefault:"true"`
	RequireNumber  bool `env:"PASSWORD_REQUIRE_NUMBER" envDefault:"true"`
	RequireSpecial bool `env:"PASSWORD_REQUIRE_SPECIAL" envDefault:"false"`
	BcryptCost     int  `env:"BCRYPT_COST" envDefault:"10"`
}

// HandoffConfig controls the purchase-to-session handoff: how login tokens are
// minted by the payment flow and how far back the implicit recent-purchase
// lookup will still find a purchase.
type HandoffConfig struct {
	TokenLength          int           `env:"TOKEN_LENGTH" envDefault:"32"`
	TokenExpiry          time.Duration `env:"TOKEN_EXPIRY" envDefault:"24h"`
	RecentPurchaseWindow time.Duration `env:"RECENT_PURCHASE_WINDOW" envDefault:"5m"`
}

type IdentityConfig struct {
	SigningKey  string        `env:"SIGNING_KEY"`
	GrantExpiry time.Duration `env:"GRANT_EXPIRY" envDefault:"10m"`
}

type MailConfig struct {
	Host         string `env:"HOST" envDefault:"localhost"`
	Port         int    `env:"PORT" envDefault:"587"`
	Username     string `env:"USERNAME"`
	Password     string `env:"PASSWORD"`
	Encryption   string `env:"ENCRYPTION" envDefault:"starttls"`
	FromAddress  string `env:"FROM_ADDRESS"`
	FromName     string `env:"FROM_NAME" envDefault:"MindDumper"`
	TemplatesDir string `env:"TEMPLATES_DIR"`
}

type PaymentConfig struct {
	WebhookSecret string `env:"WEBHOOK_SECRET"`
}

type RateLimitConfig struct {
	Enabled bool          `env:"ENABLED" envDefault:"true"`
	Store   string        `env:"STORE" envDefault:"memory"`
	Rate    int           `env:"RATE" envDefault:"30"`
	Period  time.Duration `env:"PERIOD" envDefault:"1m"`
}

func LoadConfig(cfg any) error {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found: %v", err)
	}

	return env.Parse(cfg)
}
