package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	domain "github.com/oshokin/safety-checkin/internal/domain/checkin"
	"github.com/oshokin/safety-checkin/internal/geolocation"
)

// Config holds the settings shared by the check-in binaries.
type Config struct {
	// ServerAddress is the gRPC server address for check-in service connections.
	ServerAddress string `yaml:"server_addr"`
	// Timeout is the duration for network operations and RPC calls.
	Timeout time.Duration `yaml:"timeout"`
	// TickInterval is the countdown cadence. One tick removes one second.
	TickInterval time.Duration `yaml:"tick_interval"`
	// MaxDurationMinutes caps the countdown length accepted by start.
	MaxDurationMinutes int `yaml:"max_duration_minutes"`
	// Location is the fallback position used when an alert carries none.
	Location *Location `yaml:"location,omitempty"`
	// JournalFile enables the on-disk notice journal when set.
	JournalFile string `yaml:"journal_file,omitempty"`
	// RateLimit bounds per-actor request rates on the server.
	RateLimit RateLimit `yaml:"rate_limit"`
	// Notifiers lists the optional notice sinks.
	Notifiers Notifiers `yaml:"notifiers"`
}

// Location is a configured position.
type Location struct {
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
}

// Sample converts the location into a domain sample. Nil stays nil.
func (l *Location) Sample() *domain.LocationSample {
	if l == nil {
		return nil
	}

	return &domain.LocationSample{
		Latitude:  l.Latitude,
		Longitude: l.Longitude,
	}
}

// RateLimit configures the per-actor token bucket.
type RateLimit struct {
	// RequestsPerSecond is the sustained rate. Zero selects the default.
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	// Burst is the bucket size. Zero selects the default.
	Burst int `yaml:"burst"`
}

// Notifiers groups the optional notice sinks. The log sink is always on.
type Notifiers struct {
	Webhook *Webhook `yaml:"webhook,omitempty"`
	Redis   *Redis   `yaml:"redis,omitempty"`
	Kafka   *Kafka   `yaml:"kafka,omitempty"`
}

// Webhook posts notices as JSON to URL.
type Webhook struct {
	URL        string `yaml:"url"`
	MaxRetries int    `yaml:"max_retries"`
}

// Redis pushes notices onto a list.
type Redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db"`
	Key      string `yaml:"key"`
}

// Kafka publishes notices to a topic.
type Kafka struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

const (
	// DefaultConfigFilename is the default filename for settings.
	DefaultConfigFilename = "safety-checkin-settings.yaml"

	// DefaultTimeout is the default duration for network operations.
	DefaultTimeout = 5 * time.Second

	// DefaultTickInterval is the wall-clock length of one tick.
	DefaultTickInterval = time.Second

	// DefaultMaxDurationMinutes is one day.
	DefaultMaxDurationMinutes = 24 * 60

	// DefaultRequestsPerSecond is the sustained per-actor request rate.
	DefaultRequestsPerSecond = 5

	// DefaultBurst is the per-actor request burst.
	DefaultBurst = 10

	// DefaultWebhookRetries is the number of delivery attempts per notice.
	DefaultWebhookRetries = 3

	// DefaultRedisKey is the list receiving notices.
	DefaultRedisKey = "safety-checkin:notices"

	// DefaultFilePermissions is the default file permission for settings and journals.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errServerSocketRequired is returned when server address is missing.
	errServerSocketRequired = errors.New("server address must be provided")
	// errKafkaIncomplete is returned when only part of the Kafka sink is configured.
	errKafkaIncomplete = errors.New("kafka notifier needs brokers and a topic")
	// errRedisAddrRequired is returned when the Redis sink lacks an address.
	errRedisAddrRequired = errors.New("redis notifier needs an address")
)

// Load reads configuration from the provided path, overlays environment
// variables and validates the result.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := ApplyEnv(&cfg); err != nil {
		return nil, err
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes settings to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions, the file may hold the Redis password.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings and fills in defaults.
//
//nolint:cyclop // Flat list of independent checks.
func Validate(settings *Config) error {
	if settings == nil {
		return errConfigIsNotSet
	}

	if settings.ServerAddress == "" {
		return errServerSocketRequired
	}

	if _, err := net.ResolveTCPAddr("tcp", settings.ServerAddress); err != nil {
		return fmt.Errorf("invalid server socket: %w", err)
	}

	if settings.Timeout <= 0 {
		settings.Timeout = DefaultTimeout
	}

	if settings.TickInterval <= 0 {
		settings.TickInterval = DefaultTickInterval
	}

	if settings.MaxDurationMinutes <= 0 {
		settings.MaxDurationMinutes = DefaultMaxDurationMinutes
	}

	if settings.RateLimit.RequestsPerSecond <= 0 {
		settings.RateLimit.RequestsPerSecond = DefaultRequestsPerSecond
	}

	if settings.RateLimit.Burst <= 0 {
		settings.RateLimit.Burst = DefaultBurst
	}

	if sample := settings.Location.Sample(); sample != nil {
		if err := geolocation.Validate(*sample); err != nil {
			return fmt.Errorf("invalid location: %w", err)
		}
	}

	return validateNotifiers(&settings.Notifiers)
}

// validateNotifiers checks each configured sink and applies sink defaults.
func validateNotifiers(n *Notifiers) error {
	if n.Webhook != nil {
		if _, err := url.ParseRequestURI(n.Webhook.URL); err != nil {
			return fmt.Errorf("invalid webhook URL: %w", err)
		}

		if n.Webhook.MaxRetries <= 0 {
			n.Webhook.MaxRetries = DefaultWebhookRetries
		}
	}

	if n.Redis != nil {
		if n.Redis.Addr == "" {
			return errRedisAddrRequired
		}

		if n.Redis.Key == "" {
			n.Redis.Key = DefaultRedisKey
		}
	}

	if n.Kafka != nil && (len(n.Kafka.Brokers) == 0 || n.Kafka.Topic == "") {
		return errKafkaIncomplete
	}

	return nil
}
