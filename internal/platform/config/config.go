package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// Staff credential for the standalone login endpoint.
	StaffID           string
	StaffPasswordHash string

	// External collaborators.
	SubjectDirectoryURL string
	SNSTopicARN         string
	AWSRegion           string

	// Redis backs the idempotency middleware and the rate limiter store.
	RedisAddr      string
	RedisDB        int
	IdempotencyTTL time.Duration

	// Rate limit in ulule/limiter format, e.g. "100-M".
	RateLimit string

	// Request field bounds.
	TermMonthsMin    int
	TermMonthsMax    int
	PurposeMaxLength int
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "loan-application-app")
	viper.SetDefault("STAFF_ID", "officer1")
	viper.SetDefault("STAFF_PASSWORD_HASH", "")
	viper.SetDefault("SUBJECT_DIRECTORY_URL", "")
	viper.SetDefault("SNS_TOPIC_ARN", "")
	viper.SetDefault("AWS_REGION", "us-east-1")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("IDEMPOTENCY_TTL", "24h")
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("TERM_MONTHS_MIN", 3)
	viper.SetDefault("TERM_MONTHS_MAX", 360)
	viper.SetDefault("PURPOSE_MAX_LENGTH", 255)

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET not set. Using default insecure key.")
	}
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	jwtExpiry, err := time.ParseDuration(viper.GetString("JWT_EXPIRY_DURATION"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRY_DURATION: %w", err)
	}
	cfg.JWTExpiryDuration = jwtExpiry

	cfg.StaffID = viper.GetString("STAFF_ID")
	cfg.StaffPasswordHash = viper.GetString("STAFF_PASSWORD_HASH")
	if cfg.StaffPasswordHash == "" {
		log.Println("Warning: STAFF_PASSWORD_HASH not set. Staff login is disabled.")
	}

	cfg.SubjectDirectoryURL = viper.GetString("SUBJECT_DIRECTORY_URL")
	cfg.SNSTopicARN = viper.GetString("SNS_TOPIC_ARN")
	cfg.AWSRegion = viper.GetString("AWS_REGION")

	cfg.RedisAddr = viper.GetString("REDIS_ADDR")
	cfg.RedisDB = viper.GetInt("REDIS_DB")

	idempotencyTTL, err := time.ParseDuration(viper.GetString("IDEMPOTENCY_TTL"))
	if err != nil {
		return nil, fmt.Errorf("invalid IDEMPOTENCY_TTL: %w", err)
	}
	cfg.IdempotencyTTL = idempotencyTTL

	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	cfg.TermMonthsMin = viper.GetInt("TERM_MONTHS_MIN")
	cfg.TermMonthsMax = viper.GetInt("TERM_MONTHS_MAX")
	if cfg.TermMonthsMin <= 0 || cfg.TermMonthsMax < cfg.TermMonthsMin {
		return nil, fmt.Errorf("invalid term months bounds: min=%d max=%d", cfg.TermMonthsMin, cfg.TermMonthsMax)
	}
	cfg.PurposeMaxLength = viper.GetInt("PURPOSE_MAX_LENGTH")

	return cfg, nil
}
