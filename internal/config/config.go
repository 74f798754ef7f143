package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Client ClientConfig
	Stub   StubConfig
}

// ClientConfig configures the shopper/admin CLI.
type ClientConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
}

// StubConfig configures the in-memory commerce stub backend.
type StubConfig struct {
	Addr            string
	JWTSecret       string
	TokenTTL        time.Duration
	RedisAddr       string // empty means in-memory cart storage
	SeedProducts    int
	ShutdownTimeout time.Duration
}

func Load() *Config {
	godotenv.Load()

	return &Config{
		Client: ClientConfig{
			BaseURL:        getEnv("SHOPSYNC_API_URL", "http://localhost:8080"),
			RequestTimeout: getEnvDuration("SHOPSYNC_REQUEST_TIMEOUT", 30*time.Second),
		},
		Stub: StubConfig{
			Addr:            ":" + getEnv("STUB_HTTP_PORT", "8080"),
			JWTSecret:       getEnv("STUB_JWT_SECRET", "dev-secret-not-for-production"),
			TokenTTL:        getEnvDuration("STUB_TOKEN_TTL", 24*time.Hour),
			RedisAddr:       getEnv("STUB_REDIS_ADDR", ""),
			SeedProducts:    getEnvInt("STUB_SEED_PRODUCTS", 25),
			ShutdownTimeout: getEnvDuration("STUB_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
