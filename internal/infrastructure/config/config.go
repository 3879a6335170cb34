package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/julofinance/credit-engine/pkg/kafka"
	"github.com/julofinance/credit-engine/pkg/observability"
	"github.com/julofinance/credit-engine/pkg/postgres"
)

// JWTSettings holds token validation parameters for the gRPC surface.
type JWTSettings struct {
	Secret        string
	PublicKeyPath string
	Issuer        string
	Expiration    time.Duration
}

// TLSSettings holds the optional server TLS material.
type TLSSettings struct {
	Enabled  bool
	CertFile string
	KeyFile  string
}

// OutboxSettings tunes the outbox relay.
type OutboxSettings struct {
	PollInterval time.Duration
	BatchSize    int
}

// ModelServiceSettings configures the external scoring-model gateway.
type ModelServiceSettings struct {
	BaseURL        string
	APIKey         string
	TimeoutSeconds int
	MaxRetries     int
	RetryBackoffMs int
}

// Config is the full service configuration, loaded from the environment. A
// local .env file is honored when present.
type Config struct {
	ServiceName string
	Environment string

	GRPCPort int
	HTTPPort int

	DB    postgres.Config
	Kafka kafka.Config
	Log   observability.LogConfig
	JWT   JWTSettings
	TLS   TLSSettings

	MigrationsDir    string
	PartnerRulesPath string

	ScoreEventsTopic       string
	ApplicationEventsTopic string
	Outbox                 OutboxSettings
	ModelService           ModelServiceSettings

	GRPCReflection bool
}

// Load reads the configuration from the environment.
func Load() Config {
	// Missing .env is fine; the environment wins either way.
	_ = godotenv.Load()

	return Config{
		ServiceName: "credit-engine",
		Environment: getEnv("ENVIRONMENT", "development"),
		GRPCPort:    getEnvInt("GRPC_PORT", 9090),
		HTTPPort:    getEnvInt("HTTP_PORT", 8080),
		DB: postgres.Config{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "credit_engine"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "credit_engine"),
			SSLMode:  getEnv("DB_SSLMODE", "require"),
			MaxConns: int32(getEnvInt("DB_MAX_CONNS", 10)),
			MinConns: int32(getEnvInt("DB_MIN_CONNS", 2)),
		},
		Kafka: kafka.Config{
			Brokers:       strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			ConsumerGroup: getEnv("KAFKA_CONSUMER_GROUP", "credit-engine"),
			SASLEnabled:   getEnvBool("KAFKA_SASL_ENABLED", false),
			SASLMechanism: getEnv("KAFKA_SASL_MECHANISM", "PLAIN"),
			SASLUsername:  getEnv("KAFKA_SASL_USERNAME", ""),
			SASLPassword:  getEnv("KAFKA_SASL_PASSWORD", ""),
			TLS:           getEnvBool("KAFKA_TLS", false),
		},
		Log: observability.LogConfig{
			Level:   getEnv("LOG_LEVEL", "info"),
			Format:  getEnv("LOG_FORMAT", "json"),
			Service: "credit-engine",
		},
		JWT: JWTSettings{
			Secret:        getEnv("JWT_SECRET", ""),
			PublicKeyPath: getEnv("JWT_PUBLIC_KEY_PATH", ""),
			Issuer:        getEnv("JWT_ISSUER", "julo-auth"),
			Expiration:    getEnvDuration("JWT_EXPIRATION", time.Hour),
		},
		TLS: TLSSettings{
			Enabled:  getEnvBool("TLS_ENABLED", false),
			CertFile: getEnv("TLS_CERT_FILE", ""),
			KeyFile:  getEnv("TLS_KEY_FILE", ""),
		},
		MigrationsDir:          getEnv("MIGRATIONS_DIR", "migrations"),
		PartnerRulesPath:       getEnv("PARTNER_RULES_PATH", "configs/partner_rules.yaml"),
		ScoreEventsTopic:       getEnv("SCORE_EVENTS_TOPIC", "credit-engine.score-events"),
		ApplicationEventsTopic: getEnv("APPLICATION_EVENTS_TOPIC", "application-service.application-events"),
		Outbox: OutboxSettings{
			PollInterval: getEnvDuration("OUTBOX_POLL_INTERVAL", 2*time.Second),
			BatchSize:    getEnvInt("OUTBOX_BATCH_SIZE", 100),
		},
		ModelService: ModelServiceSettings{
			BaseURL:        getEnv("MODEL_SERVICE_URL", "http://model-service.internal:8500"),
			APIKey:         getEnv("MODEL_SERVICE_API_KEY", ""),
			TimeoutSeconds: getEnvInt("MODEL_SERVICE_TIMEOUT_SECONDS", 10),
			MaxRetries:     getEnvInt("MODEL_SERVICE_MAX_RETRIES", 3),
			RetryBackoffMs: getEnvInt("MODEL_SERVICE_RETRY_BACKOFF_MS", 200),
		},
		GRPCReflection: getEnvBool("GRPC_REFLECTION", false),
	}
}

// Validate fails fast on configuration the service cannot run without.
func (c Config) Validate() error {
	if c.DB.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" && c.JWT.PublicKeyPath == "" {
		return fmt.Errorf("one of JWT_SECRET or JWT_PUBLIC_KEY_PATH is required")
	}
	if c.TLS.Enabled && (c.TLS.CertFile == "" || c.TLS.KeyFile == "") {
		return fmt.Errorf("TLS_CERT_FILE and TLS_KEY_FILE are required when TLS is enabled")
	}
	return nil
}

func (c Config) GRPCAddr() string { return fmt.Sprintf(":%d", c.GRPCPort) }
func (c Config) HTTPAddr() string { return fmt.Sprintf(":%d", c.HTTPPort) }

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
