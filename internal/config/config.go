package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type AuditSink string

const (
	AuditSinkLog    AuditSink = "log"
	AuditSinkKafka  AuditSink = "kafka"
	AuditSinkOutbox AuditSink = "outbox"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	HTTPPort string `envconfig:"HTTP_PORT" default:"9000"`
	GRPCPort string `envconfig:"GRPC_PORT" default:"50051"`

	JWTSecret   string        `envconfig:"JWT_SECRET" default:"agrimove-dev-secret"`
	JWTTTL      time.Duration `envconfig:"JWT_TTL" default:"12h"`
	BcryptCost  int           `envconfig:"BCRYPT_COST" default:"10"`
	SeedFile    string        `envconfig:"SEED_FILE"`
	CORSOrigins []string      `envconfig:"CORS_ORIGINS" default:"http://localhost:5173"`

	AuditWorkers      int           `envconfig:"AUDIT_WORKERS" default:"2"`
	AuditBatchSize    int           `envconfig:"AUDIT_BATCH_SIZE" default:"5"`
	AuditBatchTimeout time.Duration `envconfig:"AUDIT_BATCH_TIMEOUT" default:"500ms"`
	AuditSink         AuditSink     `envconfig:"AUDIT_SINK" default:"log"`

	KafkaBrokers []string `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
	KafkaTopic   string   `envconfig:"KAFKA_TOPIC" default:"audit_logs"`
	KafkaGroupID string   `envconfig:"KAFKA_GROUP_ID" default:"audit-log-consumer-group"`

	DatabaseDSN        string        `envconfig:"DATABASE_DSN" default:"host=localhost port=5432 user=postgres password=postgres dbname=agrimove sslmode=disable"`
	OutboxPollInterval time.Duration `envconfig:"OUTBOX_POLL_INTERVAL" default:"2s"`
	OutboxBatchSize    int           `envconfig:"OUTBOX_BATCH_SIZE" default:"10"`
	OutboxMaxAttempts  int           `envconfig:"OUTBOX_MAX_ATTEMPTS" default:"5"`

	BreakerMaxFailures uint32        `envconfig:"BREAKER_MAX_FAILURES" default:"3"`
	BreakerOpenTimeout time.Duration `envconfig:"BREAKER_OPEN_TIMEOUT" default:"30s"`
}

// Load reads the nearest .env file, if any, and fills Config from the
// environment.
func Load() (Config, error) {
	loadEnv()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.AuditSink {
	case AuditSinkLog, AuditSinkKafka, AuditSinkOutbox:
	default:
		return fmt.Errorf("%w: unknown audit sink %q", ErrInvalidConfig, c.AuditSink)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("%w: JWT_SECRET is empty", ErrInvalidConfig)
	}
	if c.AuditWorkers < 1 || c.AuditBatchSize < 1 {
		return fmt.Errorf("%w: audit workers and batch size must be positive", ErrInvalidConfig)
	}
	if c.AuditBatchTimeout <= 0 {
		return fmt.Errorf("%w: AUDIT_BATCH_TIMEOUT must be positive", ErrInvalidConfig)
	}
	if c.OutboxPollInterval <= 0 {
		return fmt.Errorf("%w: OUTBOX_POLL_INTERVAL must be positive", ErrInvalidConfig)
	}
	if c.OutboxBatchSize < 1 || c.OutboxMaxAttempts < 1 {
		return fmt.Errorf("%w: outbox batch size and max attempts must be positive", ErrInvalidConfig)
	}
	return nil
}

// loadEnv looks for .env in the working directory and two levels up, then
// for .example.env in the same places. A missing file is not an error; the
// process environment and the defaults still apply.
func loadEnv() {
	wd, err := os.Getwd()
	if err != nil {
		log.Printf("Error getting working directory: %v", err)
		return
	}

	dirs := []string{
		wd,
		filepath.Join(wd, ".."),
		filepath.Join(wd, "..", ".."),
	}

	for _, name := range []string{".env", ".example.env"} {
		for _, dir := range dirs {
			envPath := filepath.Join(dir, name)
			if err := godotenv.Load(envPath); err == nil {
				log.Printf("Loaded environment variables from %s", envPath)
				return
			}
		}
	}
}
