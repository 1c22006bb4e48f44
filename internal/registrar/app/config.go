package app

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Issuer    string // Issuer claim stamped into every token (default: campus-registrar)
	JWTSecret string // Required: HS256 signing secret

	DatabaseFile  string // Path to SQLite database file (default: ./registrar.db)
	LedgerBackend string // Revocation ledger backend (sqlite, redis) (default: sqlite)
	RedisAddr     string // Redis address when LedgerBackend is redis (default: localhost:6379)

	AccessTTL      time.Duration // Access token lifetime (default: 15m)
	RefreshTTL     time.Duration // Refresh token lifetime (default: 24h)
	LongRefreshTTL time.Duration // "Stay logged in" refresh lifetime (default: 720h)

	CookieSecure bool // Whether session cookies carry the Secure flag (default: true)

	GoogleClientID     string // Optional: Google OAuth client ID (audience check)
	GoogleTokenInfoURL string // Optional: override for Google's tokeninfo endpoint
	GitHubClientID     string // Optional: GitHub OAuth client ID
	GitHubClientSecret string // Optional: GitHub OAuth client secret
	GitHubTokenURL     string // Optional: override for GitHub's token endpoint
	GitHubAPIURL       string // Optional: override for GitHub's API base URL

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Revocation ledger sweep interval (default: 1h)
}

func LoadConfig() Config {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := Config{
		Issuer:    getEnvOrDefault("REGISTRAR_ISSUER", "campus-registrar"),
		JWTSecret: os.Getenv("REGISTRAR_JWT_SECRET"),

		DatabaseFile:  getEnvOrDefault("REGISTRAR_DATABASE_FILE", "registrar.db"),
		LedgerBackend: getEnvOrDefault("REGISTRAR_LEDGER_BACKEND", "sqlite"),
		RedisAddr:     getEnvOrDefault("REGISTRAR_REDIS_ADDR", "localhost:6379"),

		AccessTTL:      getEnvDurationOrDefault("REGISTRAR_ACCESS_TTL", 15*time.Minute),
		RefreshTTL:     getEnvDurationOrDefault("REGISTRAR_REFRESH_TTL", 24*time.Hour),
		LongRefreshTTL: getEnvDurationOrDefault("REGISTRAR_LONG_REFRESH_TTL", 30*24*time.Hour),

		CookieSecure: getEnvBoolOrDefault("REGISTRAR_COOKIE_SECURE", true),

		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleTokenInfoURL: os.Getenv("GOOGLE_TOKENINFO_URL"),
		GitHubClientID:     os.Getenv("GITHUB_CLIENT_ID"),
		GitHubClientSecret: os.Getenv("GITHUB_CLIENT_SECRET"),
		GitHubTokenURL:     os.Getenv("GITHUB_TOKEN_URL"),
		GitHubAPIURL:       os.Getenv("GITHUB_API_URL"),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}

	return cfg
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

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are read as seconds.
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
