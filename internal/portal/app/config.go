package app

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/sohailc94/agmaportal/internal/portal/crm"
)

type Config struct {
	WebhookSecret  string // Required: shared secret the CRM sends in X-AGM-Secret
	IdentitySecret string // Required: HS256 secret for verifying identity-provider JWTs

	GHLWebhookURL   string        // Optional: CRM inbound webhook for invite notifications (empty disables)
	AppBaseURL      string        // Optional: portal base URL used in registration links (default: http://localhost:3000)
	NotifierTimeout time.Duration // Optional: CRM HTTP timeout (default: 5s)

	DatabaseFile         string        // Optional: path to SQLite database file (default: ./portal.db)
	InviteTTL            time.Duration // Optional: how long a pending invite stays redeemable (default: 14 days)
	HousekeepingInterval time.Duration // Optional: invite expiry sweep interval (default: 1h)

	MinioEndpoint  string // Optional: S3-compatible endpoint for avatars (empty disables uploads)
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string // Optional: bucket name (default: avatars)
	MinioUseTLS    bool

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() (Config, error) {
	cfg := Config{
		WebhookSecret:  os.Getenv("PORTAL_WEBHOOK_SECRET"),
		IdentitySecret: os.Getenv("PORTAL_IDENTITY_SECRET"),

		GHLWebhookURL:   os.Getenv("PORTAL_GHL_WEBHOOK_URL"),
		AppBaseURL:      getEnvOrDefault("PORTAL_APP_BASE_URL", "http://localhost:3000"),
		NotifierTimeout: getEnvDurationOrDefault("PORTAL_NOTIFIER_TIMEOUT", crm.DefaultTimeout),

		DatabaseFile:         getEnvOrDefault("PORTAL_DATABASE_FILE", "portal.db"),
		InviteTTL:            getEnvDurationOrDefault("PORTAL_INVITE_TTL", 14*24*time.Hour),
		HousekeepingInterval: getEnvDurationOrDefault("PORTAL_HOUSEKEEPING_INTERVAL", 1*time.Hour),

		MinioEndpoint:  os.Getenv("PORTAL_MINIO_ENDPOINT"),
		MinioAccessKey: os.Getenv("PORTAL_MINIO_ACCESS_KEY"),
		MinioSecretKey: os.Getenv("PORTAL_MINIO_SECRET_KEY"),
		MinioBucket:    getEnvOrDefault("PORTAL_MINIO_BUCKET", "avatars"),
		MinioUseTLS:    getEnvBoolOrDefault("PORTAL_MINIO_USE_TLS", false),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	// Both secrets gate everything else; refuse to start without them
	// rather than silently running an open service.
	if cfg.WebhookSecret == "" {
		return Config{}, errors.New("PORTAL_WEBHOOK_SECRET must be set")
	}
	if cfg.IdentitySecret == "" {
		return Config{}, errors.New("PORTAL_IDENTITY_SECRET must be set")
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if boolValue, err := strconv.ParseBool(value); err == nil {
		return boolValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
