package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool

	// EnableDBCheck makes startup ping the database and fail fast when it is
	// unreachable.
	EnableDBCheck bool

	JWTSecret string

	// JWTIssuer, when set, restricts accepted tokens to that issuer.
	JWTIssuer string

	// ApprovalCodeHash is the bcrypt hash of the out-of-band confirmation
	// code required to approve orders. Empty disables the gate.
	ApprovalCodeHash string

	// ReconcileBatchSize caps how many ledger entries a single batch insert
	// carries during reconciliation.
	ReconcileBatchSize int

	// Rate limiting, e.g. "100-M" for 100 requests per minute.
	RateLimit string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_ISSUER", "")
	viper.SetDefault("APPROVAL_CODE_HASH", "")
	viper.SetDefault("RECONCILE_BATCH_SIZE", 400)
	viper.SetDefault("RATE_LIMIT", "100-M")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.ApprovalCodeHash = viper.GetString("APPROVAL_CODE_HASH")
	if cfg.ApprovalCodeHash == "" {
		log.Println("Warning: APPROVAL_CODE_HASH not set. Order approvals will not require a confirmation code.")
	}

	cfg.ReconcileBatchSize = viper.GetInt("RECONCILE_BATCH_SIZE")
	if cfg.ReconcileBatchSize <= 0 {
		cfg.ReconcileBatchSize = 400
	}

	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	return cfg, nil
}
