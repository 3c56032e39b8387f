package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables overriding file settings.
const (
	EnvServerAddress = "CHECKIN_SERVER_ADDR"
	EnvTimeout       = "CHECKIN_TIMEOUT"
	EnvJournalFile   = "CHECKIN_JOURNAL_FILE"
	EnvWebhookURL    = "CHECKIN_WEBHOOK_URL"
	EnvRedisAddr     = "CHECKIN_REDIS_ADDR"
	EnvRedisPassword = "CHECKIN_REDIS_PASSWORD"
	EnvKafkaBrokers  = "CHECKIN_KAFKA_BROKERS"
	EnvKafkaTopic    = "CHECKIN_KAFKA_TOPIC"
)

// DotEnvFilename is read from the working directory when present.
const DotEnvFilename = ".env"

// ApplyEnv loads an optional .env file and overlays CHECKIN_* variables on cfg.
// Variables already present in the process environment win over .env values.
func ApplyEnv(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if err := godotenv.Load(DotEnvFilename); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", DotEnvFilename, err)
	}

	if v := os.Getenv(EnvServerAddress); v != "" {
		cfg.ServerAddress = v
	}

	if v := os.Getenv(EnvTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse %s: %w", EnvTimeout, err)
		}

		cfg.Timeout = d
	}

	if v := os.Getenv(EnvJournalFile); v != "" {
		cfg.JournalFile = v
	}

	if v := os.Getenv(EnvWebhookURL); v != "" {
		if cfg.Notifiers.Webhook == nil {
			cfg.Notifiers.Webhook = new(Webhook)
		}

		cfg.Notifiers.Webhook.URL = v
	}

	applyRedisEnv(cfg)
	applyKafkaEnv(cfg)

	return nil
}

func applyRedisEnv(cfg *Config) {
	addr := os.Getenv(EnvRedisAddr)
	if addr == "" {
		return
	}

	if cfg.Notifiers.Redis == nil {
		cfg.Notifiers.Redis = new(Redis)
	}

	cfg.Notifiers.Redis.Addr = addr

	if password := os.Getenv(EnvRedisPassword); password != "" {
		cfg.Notifiers.Redis.Password = password
	}
}

func applyKafkaEnv(cfg *Config) {
	brokers := os.Getenv(EnvKafkaBrokers)
	if brokers == "" {
		return
	}

	if cfg.Notifiers.Kafka == nil {
		cfg.Notifiers.Kafka = new(Kafka)
	}

	cfg.Notifiers.Kafka.Brokers = nil

	for _, broker := range strings.Split(brokers, ",") {
		if broker = strings.TrimSpace(broker); broker != "" {
			cfg.Notifiers.Kafka.Brokers = append(cfg.Notifiers.Kafka.Brokers, broker)
		}
	}

	if topic := os.Getenv(EnvKafkaTopic); topic != "" {
		cfg.Notifiers.Kafka.Topic = topic
	}
}
