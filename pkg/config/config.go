package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             string
	DatabaseURL      string
	SecretKey        string
	KindnessEnabled  bool
	KindnessTokenTTL time.Duration
	RateLimitWindow  time.Duration
	RateLimitMax     int
	PageLimit        int
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	tokenTTL := 5 * time.Minute
	if ttl := os.Getenv("KINDNESS_TOKEN_TTL"); ttl != "" {
		if parsed, err := time.ParseDuration(ttl); err == nil {
			tokenTTL = parsed
		}
	}

	rateWindow := time.Minute
	if w := os.Getenv("RATE_LIMIT_WINDOW"); w != "" {
		if parsed, err := time.ParseDuration(w); err == nil {
			rateWindow = parsed
		}
	}

	return &Config{
		Port:             getEnv("PORT", "8080"),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		SecretKey:        getEnv("SECRET_KEY", "dev-secret"),
		KindnessEnabled:  getEnv("ENABLE_KINDNESS_POINTS", "0") == "1",
		KindnessTokenTTL: tokenTTL,
		RateLimitWindow:  rateWindow,
		RateLimitMax:     getEnvAsInt("RATE_LIMIT_MAX_REQUESTS", 1),
		PageLimit:        getEnvAsInt("PAGE_LIMIT", 20),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
