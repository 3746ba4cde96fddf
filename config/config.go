package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port  string
	DBUrl string
	// Identity provider (GoTrue-compatible auth API)
	AuthURL       string
	AuthAnonKey   string
	AuthJWTSecret string
	FrontendURL   string
	// Redis Configuration (token revocation list)
	RedisURL      string
	RedisPassword string
	// Demo mode: unauthenticated demo login behind an explicit flag
	DemoMode        bool
	DemoCompanyName string
	// Dictation session housekeeping
	DictationSessionTTLMinutes int
}

func LoadConfig() (*Config, error) {
	// Load .env file (only effective locally, ignored in production if absent)
	_ = godotenv.Load()

	cfg := &Config{
		Port:  getEnv("PORT", "8080"),
		DBUrl: getEnv("DATABASE_URL", ""),
		// Strip trailing slash to prevent double slashes (e.g. .co//auth)
		AuthURL:       strings.TrimRight(getEnv("AUTH_URL", ""), "/"),
		AuthAnonKey:   getEnv("AUTH_ANON_KEY", ""),
		AuthJWTSecret: getEnv("AUTH_JWT_SECRET", ""),
		FrontendURL:   strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:3000"), "/"),
		// Redis Configuration
		RedisURL:      getEnv("REDIS_URL", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		// Demo mode
		DemoMode:        getEnvBool("DEMO_MODE", false),
		DemoCompanyName: getEnv("DEMO_COMPANY_NAME", "デモ企業"),
		// Dictation sessions expire after inactivity
		DictationSessionTTLMinutes: getEnvInt("DICTATION_SESSION_TTL_MINUTES", 10),
	}

	// The database URL and the identity provider endpoint/key are hard
	// requirements; without them every request would fail anyway.
	if cfg.DBUrl == "" {
		return nil, errors.New("config: DATABASE_URL is required")
	}
	if cfg.AuthURL == "" {
		return nil, errors.New("config: AUTH_URL is required")
	}
	if cfg.AuthAnonKey == "" {
		return nil, errors.New("config: AUTH_ANON_KEY is required")
	}
	if cfg.DemoMode && cfg.AuthJWTSecret == "" {
		return nil, errors.New("config: DEMO_MODE requires AUTH_JWT_SECRET to sign demo tokens")
	}

	if cfg.RedisURL == "" {
		log.Println("WARNING: REDIS_URL not configured. Token revocation will use in-memory fallback.")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool returns a boolean environment variable or fallback if not set/invalid
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}
