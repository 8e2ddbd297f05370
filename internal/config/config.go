package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server        ServerConfig
	Sheets        SheetsConfig
	JWT           JWTConfig
	Notifications NotificationsConfig
	Log           LogConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

// SheetsConfig describes the Google Sheets spreadsheet that backs the CRM.
type SheetsConfig struct {
	// CredentialsJSON is the service account key, passed verbatim in the
	// environment (the hosting platform does not mount key files).
	CredentialsJSON    string
	SpreadsheetID      string
	NotificationsSheet string
	ClaimsSheet        string
	UsersSheet         string
	// APIDelay is the pause inserted before each Sheets call to stay
	// under the per-minute quota.
	APIDelay time.Duration
}

type JWTConfig struct {
	Secret       string
	AccessExpiry time.Duration
}

// NotificationsConfig tunes the notification feed.
type NotificationsConfig struct {
	// MaxPerUser bounds a single feed query.
	MaxPerUser int
	// MaxBroadcast caps live notifications addressed to every user.
	MaxBroadcast int
	// RetentionDays is the age after which notifications are pruned.
	RetentionDays int
	// MaxRetries applies to notification writes against the store.
	MaxRetries      int
	RetryBackoff    time.Duration
	CacheTTL        time.Duration
	CleanupInterval time.Duration
	Timezone        string
}

type LogConfig struct {
	Level string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	env := getEnv("ENV", "development")
	production := env == "production"

	spreadsheetID := getEnv("GOOGLE_SHEET_ID", "")
	if spreadsheetID == "" {
		return nil, errors.New("GOOGLE_SHEET_ID is required")
	}

	accessExpiry, err := time.ParseDuration(getEnv("JWT_ACCESS_EXPIRY", "45m"))
	if err != nil {
		accessExpiry = 45 * time.Minute
	}

	// Production gets more write retries and a shorter feed cache, the
	// same way the hosted deployment was tuned.
	maxRetries := 1
	cacheTTL := 30 * time.Second
	if production {
		maxRetries = 3
		cacheTTL = 15 * time.Second
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Env:  env,
		},
		Sheets: SheetsConfig{
			CredentialsJSON:    getEnv("GOOGLE_SHEETS_CREDENTIALS", ""),
			SpreadsheetID:      spreadsheetID,
			NotificationsSheet: getEnv("NOTIFICATIONS_WORKSHEET", "Notificaciones"),
			ClaimsSheet:        getEnv("CLAIMS_WORKSHEET", "Reclamos"),
			UsersSheet:         getEnv("USERS_WORKSHEET", "usuarios"),
			APIDelay:           getDuration("SHEETS_API_DELAY", 200*time.Millisecond),
		},
		JWT: JWTConfig{
			Secret:       getEnv("JWT_SECRET", "change-me-in-production"),
			AccessExpiry: accessExpiry,
		},
		Notifications: NotificationsConfig{
			MaxPerUser:      getInt("MAX_NOTIFICATIONS", 15),
			MaxBroadcast:    getInt("MAX_BROADCAST_NOTIFICATIONS", 10),
			RetentionDays:   getInt("NOTIFICATION_RETENTION_DAYS", 30),
			MaxRetries:      getInt("NOTIFICATION_MAX_RETRIES", maxRetries),
			RetryBackoff:    getDuration("NOTIFICATION_RETRY_BACKOFF", time.Second),
			CacheTTL:        getDuration("NOTIFICATION_CACHE_TTL", cacheTTL),
			CleanupInterval: getDuration("NOTIFICATION_CLEANUP_INTERVAL", 12*time.Hour),
			Timezone:        getEnv("CRM_TIMEZONE", "America/Argentina/Buenos_Aires"),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "debug"),
		},
	}, nil
}

// getEnv gets an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

// IsProduction returns true if running in production
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}
