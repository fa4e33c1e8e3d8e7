package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every setting cmd/server and cmd/sweeper need. Unlike
// the teacher's config.go (package vars set by a side-effecting
// LoadConfig()), Load returns a value so callers construct their own
// dependency graph explicitly.
type Config struct {
	ServerPort int

	DatabaseURL string

	RedisAddr string

	MongoURI string
	MongoDB  string

	KafkaBrokers string

	JWTSecret []byte

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string

	ConfirmationWindow time.Duration
	SweepInterval      time.Duration

	OperatorEmail        string
	OperatorPassword     string
	OperatorTenantID     string
	OperatorProfileID    string
	OperatorTenantUserID string
}

// Load reads .env (if present) then the process environment. A
// missing .env file is not an error: production deployments set
// environment variables directly.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	port, err := strconv.Atoi(getEnvOrDefault("SERVER_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	confirmWindow, err := time.ParseDuration(getEnvOrDefault("CONFIRMATION_WINDOW", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid CONFIRMATION_WINDOW: %w", err)
	}
	sweepInterval, err := time.ParseDuration(getEnvOrDefault("SWEEP_INTERVAL", "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid SWEEP_INTERVAL: %w", err)
	}

	return &Config{
		ServerPort:         port,
		DatabaseURL:        dsn,
		RedisAddr:          getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		MongoURI:           getEnvOrDefault("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:            getEnvOrDefault("MONGO_DB", "tournament_core"),
		KafkaBrokers:       getEnvOrDefault("KAFKA_BROKERS", "localhost:9092"),
		JWTSecret:          []byte(secret),
		R2AccountID:        os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:      os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey:  os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:       os.Getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL:    os.Getenv("R2_PUBLIC_BASE_URL"),
		ConfirmationWindow:   confirmWindow,
		SweepInterval:        sweepInterval,
		OperatorEmail:        getEnvOrDefault("OPERATOR_EMAIL", "operator@padelhub.local"),
		OperatorPassword:     getEnvOrDefault("OPERATOR_PASSWORD", "change-me"),
		OperatorTenantID:     getEnvOrDefault("OPERATOR_TENANT_ID", "00000000-0000-0000-0000-000000000001"),
		OperatorProfileID:    getEnvOrDefault("OPERATOR_PROFILE_ID", "00000000-0000-0000-0000-000000000002"),
		OperatorTenantUserID: getEnvOrDefault("OPERATOR_TENANT_USER_ID", "00000000-0000-0000-0000-000000000003"),
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
