package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Firebase FirebaseConfig
	Matching MatchingConfig
	App      AppConfig
}

type ServerConfig struct {
	Port string
	// AllowedOrigins is the CORS allowlist. Empty allows all origins,
	// which only makes sense outside production.
	AllowedOrigins []string
	// RateLimitRPS / RateLimitBurst bound per-client request rates on the
	// authenticated API.
	RateLimitRPS   float64
	RateLimitBurst int
}

type DatabaseConfig struct {
	DSN string
	// MaxConns caps the pgx pool. Candidate discovery fans out reads, so
	// this stays above the gin worker count.
	MaxConns int32
	MinConns int32
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type FirebaseConfig struct {
	CredentialsPath string
}

type MatchingConfig struct {
	// IntentTTL is the default lifetime of a published travel intent.
	IntentTTL time.Duration
	// MaxDistanceKm is the hard filter radius for candidate destinations.
	MaxDistanceKm float64
	// FeatureLogURL is the feature-extraction collaborator endpoint.
	// Empty disables feature logging.
	FeatureLogURL string
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			AllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "")),
			RateLimitRPS:   float64(getEnvAsInt("RATE_LIMIT_RPS", 20)),
			RateLimitBurst: getEnvAsInt("RATE_LIMIT_BURST", 40),
		},
		Database: DatabaseConfig{
			DSN:      getEnv("DB_DSN", ""),
			MaxConns: int32(getEnvAsInt("DB_MAX_CONNS", 20)),
			MinConns: int32(getEnvAsInt("DB_MIN_CONNS", 2)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Firebase: FirebaseConfig{
			CredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		},
		Matching: MatchingConfig{
			IntentTTL:     time.Duration(getEnvAsInt("INTENT_TTL_SECONDS", 7*24*3600)) * time.Second,
			MaxDistanceKm: float64(getEnvAsInt("MATCH_MAX_DISTANCE_KM", 200)),
			FeatureLogURL: getEnv("FEATURE_LOG_URL", ""),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Database.DSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}

	if c.Redis.Addr == "" {
		return fmt.Errorf("REDIS_ADDR is required")
	}

	if c.Matching.IntentTTL <= 0 {
		return fmt.Errorf("INTENT_TTL_SECONDS must be positive")
	}

	return nil
}

func splitCSV(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}
