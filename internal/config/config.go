package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/allinsys/contactforms/internal/config/env"

	envparse "github.com/caarlos0/env/v10"
)

// Store drivers
const (
	StoreFirestore = "firestore"
	StoreMemory    = "memory"
)

// Config holds all configuration for the application
type Config struct {
	// Server Configuration
	Environment string `env:"ENV" envDefault:"development"`
	Port        string `env:"API_PORT" envDefault:"5000"`

	// Logging Configuration
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile       string `env:"LOG_FILE"`
	LogMaxSize    int    `env:"LOG_MAX_SIZE" envDefault:"100"`
	LogMaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"3"`
	LogMaxAge     int    `env:"LOG_MAX_AGE" envDefault:"7"`
	LogRequests   bool   `env:"LOG_REQUESTS" envDefault:"false"`

	// Firebase / Firestore Configuration
	FirebaseProjectID       string `env:"FIREBASE_PROJECT_ID"`
	FirebaseClientEmail     string `env:"FIREBASE_CLIENT_EMAIL"`
	FirebasePrivateKey      string `env:"FIREBASE_PRIVATE_KEY"`
	FirebaseCredentialsFile string `env:"FIREBASE_CREDENTIALS_FILE"`
	FirestoreEmulatorHost   string `env:"FIRESTORE_EMULATOR_HOST"`
	FirestoreCollection     string `env:"FIRESTORE_COLLECTION" envDefault:"contactForms"`
	StoreDriver             string `env:"STORE_DRIVER" envDefault:"firestore"`

	// Intake Configuration
	PhoneRegion          string        `env:"PHONE_REGION" envDefault:"BR"`
	StoreMonitorInterval time.Duration `env:"STORE_MONITOR_INTERVAL" envDefault:"1m"`

	// Spam protection, disabled without a secret
	RecaptchaSecretKey string  `env:"RECAPTCHA_SECRET_KEY"`
	RecaptchaMinScore  float64 `env:"RECAPTCHA_MIN_SCORE" envDefault:"0.5"`

	// New-contact notifications, disabled unless both are set
	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID   string `env:"TELEGRAM_CHAT_ID"`

	// HTTP Configuration
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`
	RateLimitRPS   float64  `env:"RATE_LIMIT_RPS" envDefault:"1"`
	RateLimitBurst int      `env:"RATE_LIMIT_BURST" envDefault:"5"`

	// Telemetry Configuration
	OTLPEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTelSampleRate float64 `env:"OTEL_SAMPLE_RATIO" envDefault:"1"`
}

// Load loads the configuration from .env files and environment variables
func Load() (*Config, error) {
	env.LoadEnv()

	cfg := &Config{}
	if err := envparse.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.FirebasePrivateKey = NormalizePrivateKey(cfg.FirebasePrivateKey)
	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))
	cfg.PhoneRegion = strings.ToUpper(strings.TrimSpace(cfg.PhoneRegion))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field requirements
func (c *Config) Validate() error {
	if c.RecaptchaMinScore < 0 || c.RecaptchaMinScore > 1 {
		return fmt.Errorf("RECAPTCHA_MIN_SCORE must be between 0 and 1")
	}
	if c.StoreMonitorInterval < 0 {
		return fmt.Errorf("STORE_MONITOR_INTERVAL must not be negative")
	}

	switch c.StoreDriver {
	case StoreMemory:
		return nil
	case StoreFirestore:
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.StoreDriver)
	}

	if c.FirebaseProjectID == "" {
		return fmt.Errorf("FIREBASE_PROJECT_ID is required")
	}
	if c.FirestoreEmulatorHost != "" || c.FirebaseCredentialsFile != "" {
		return nil
	}
	if c.FirebaseClientEmail == "" || c.FirebasePrivateKey == "" {
		return fmt.Errorf("FIREBASE_CLIENT_EMAIL and FIREBASE_PRIVATE_KEY are required unless FIREBASE_CREDENTIALS_FILE is set")
	}
	return nil
}

// IsProduction reports whether the service runs with production settings
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// NormalizePrivateKey turns literal "\n" sequences, as found in single-line
// environment values, back into newlines.
func NormalizePrivateKey(key string) string {
	if key == "" {
		return key
	}
	key = strings.Trim(key, `"`)
	return strings.ReplaceAll(key, `\n`, "\n")
}
