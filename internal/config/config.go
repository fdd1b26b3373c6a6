package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all storefront configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Logging  LoggingConfig  `yaml:"logging"`
	Store    StoreConfig    `yaml:"store"`
	Events   EventsConfig   `yaml:"events"`
	Session  SessionConfig  `yaml:"session"`
	Checkout CheckoutConfig `yaml:"checkout"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	SMTP     SMTPConfig     `yaml:"smtp"`
}

type HTTPConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type LoggingConfig struct {
	Level       string `yaml:"level"` // debug, info, warn, error
	Development bool   `yaml:"development"`
}

// StoreConfig selects where cart snapshots are kept.
type StoreConfig struct {
	Backend       string `yaml:"backend"` // memory, sqlite, postgres, redis, dynamodb
	SQLitePath    string `yaml:"sqlite_path"`
	DatabaseURL   string `yaml:"database_url"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
	RedisTTL      string `yaml:"redis_ttl"`
	DynamoTable   string `yaml:"dynamodb_table"`
	CacheSize     int    `yaml:"cache_size"`
}

type EventsConfig struct {
	KafkaBrokers []string `yaml:"kafka_brokers"`
	KafkaTopic   string   `yaml:"kafka_topic"`
	KafkaGroupID string   `yaml:"kafka_group_id"`
	LogBackend   string   `yaml:"log_backend"` // "", postgres, dynamodb
	DynamoTable  string   `yaml:"dynamodb_table"`
}

type SessionConfig struct {
	Secret string `yaml:"secret"`
	TTL    string `yaml:"ttl"`
}

type CheckoutConfig struct {
	Delay string `yaml:"delay"`
}

type CatalogConfig struct {
	QueryDelay string `yaml:"query_delay"`
}

type SMTPConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
	From string `yaml:"from"`
}

const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendDynamoDB = "dynamodb"
)

// ValidBackends lists the supported slot store backends.
var ValidBackends = []string{BackendMemory, BackendSQLite, BackendPostgres, BackendRedis, BackendDynamoDB}

// ValidEventLogs lists the supported event log backends; empty disables it.
var ValidEventLogs = []string{"", BackendPostgres, BackendDynamoDB}

const minSecretLength = 32

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Logging: LoggingConfig{Level: "info"},
		Store: StoreConfig{
			Backend:    BackendMemory,
			SQLitePath: "data/storefront.db",
			RedisAddr:  "localhost:6379",
			RedisTTL:   "720h",
			CacheSize:  1024,
		},
		Events: EventsConfig{
			KafkaTopic:   "storefront-events",
			KafkaGroupID: "notification-service",
		},
		Session:  SessionConfig{TTL: "720h"},
		Checkout: CheckoutConfig{Delay: "2s"},
		Catalog:  CatalogConfig{QueryDelay: "0s"},
		SMTP:     SMTPConfig{Host: "localhost", Port: "1025", From: "orders@storefront.local"},
	}
}

// Load reads an optional YAML file and then applies environment overrides.
// An empty path or a missing file leaves the defaults in place.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() error {
	setString(&c.HTTP.Addr, "HTTP_ADDR")
	setList(&c.HTTP.AllowedOrigins, "CORS_ORIGINS")

	setString(&c.Logging.Level, "LOG_LEVEL")
	if err := setBool(&c.Logging.Development, "LOG_DEVELOPMENT"); err != nil {
		return err
	}

	setString(&c.Store.Backend, "STORE_BACKEND")
	setString(&c.Store.SQLitePath, "SQLITE_PATH")
	setString(&c.Store.DatabaseURL, "DATABASE_URL")
	setString(&c.Store.RedisAddr, "REDIS_ADDR")
	setString(&c.Store.RedisPassword, "REDIS_PASSWORD")
	if err := setInt(&c.Store.RedisDB, "REDIS_DB"); err != nil {
		return err
	}
	setString(&c.Store.RedisTTL, "REDIS_TTL")
	setString(&c.Store.DynamoTable, "DYNAMODB_TABLE")
	if err := setInt(&c.Store.CacheSize, "CART_CACHE_SIZE"); err != nil {
		return err
	}

	setList(&c.Events.KafkaBrokers, "KAFKA_BROKERS")
	setString(&c.Events.KafkaTopic, "KAFKA_TOPIC")
	setString(&c.Events.KafkaGroupID, "KAFKA_GROUP_ID")
	setString(&c.Events.LogBackend, "EVENT_LOG")
	setString(&c.Events.DynamoTable, "EVENTS_TABLE")

	setString(&c.Session.Secret, "SESSION_SECRET")
	setString(&c.Session.TTL, "SESSION_TTL")
	setString(&c.Checkout.Delay, "CHECKOUT_DELAY")
	setString(&c.Catalog.QueryDelay, "CATALOG_QUERY_DELAY")

	setString(&c.SMTP.Host, "SMTP_HOST")
	setString(&c.SMTP.Port, "SMTP_PORT")
	setString(&c.SMTP.From, "SMTP_FROM")
	return nil
}

// Validate checks the settings every process needs.
func (c *Config) Validate() error {
	if !slices.Contains(ValidBackends, c.Store.Backend) {
		return fmt.Errorf("invalid store backend: %s (valid: %v)", c.Store.Backend, ValidBackends)
	}
	switch c.Store.Backend {
	case BackendPostgres:
		if c.Store.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres backend")
		}
	case BackendDynamoDB:
		if c.Store.DynamoTable == "" {
			return fmt.Errorf("DYNAMODB_TABLE is required for the dynamodb backend")
		}
	}

	if !slices.Contains(ValidEventLogs, c.Events.LogBackend) {
		return fmt.Errorf("invalid event log: %s (valid: postgres, dynamodb or empty)", c.Events.LogBackend)
	}
	if c.Events.LogBackend == BackendPostgres && c.Store.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required for the postgres event log")
	}
	if c.Events.LogBackend == BackendDynamoDB && c.Events.DynamoTable == "" {
		return fmt.Errorf("EVENTS_TABLE is required for the dynamodb event log")
	}

	for name, value := range map[string]string{
		"redis ttl":           c.Store.RedisTTL,
		"session ttl":         c.Session.TTL,
		"checkout delay":      c.Checkout.Delay,
		"catalog query delay": c.Catalog.QueryDelay,
	} {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s %q: %w", name, value, err)
		}
	}
	return nil
}

// ValidateServer additionally checks what the HTTP server needs.
func (c *Config) ValidateServer() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Session.Secret == "" {
		return fmt.Errorf("SESSION_SECRET environment variable is required")
	}
	if len(c.Session.Secret) < minSecretLength {
		return fmt.Errorf("SESSION_SECRET must be at least %d characters long", minSecretLength)
	}
	return nil
}

// GetRedisTTL returns the Redis slot TTL as a duration.
func (c *Config) GetRedisTTL() time.Duration {
	return parseDuration(c.Store.RedisTTL, 30*24*time.Hour)
}

// GetSessionTTL returns the session token lifetime as a duration.
func (c *Config) GetSessionTTL() time.Duration {
	return parseDuration(c.Session.TTL, 30*24*time.Hour)
}

// GetCheckoutDelay returns the simulated order processing time.
func (c *Config) GetCheckoutDelay() time.Duration {
	return parseDuration(c.Checkout.Delay, 2*time.Second)
}

// GetCatalogQueryDelay returns the delay before a live catalog query runs.
func (c *Config) GetCatalogQueryDelay() time.Duration {
	return parseDuration(c.Catalog.QueryDelay, 0)
}

// KafkaEnabled reports whether events go to Kafka.
func (c *Config) KafkaEnabled() bool {
	return len(c.Events.KafkaBrokers) > 0
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setList(dst *[]string, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	*dst = out
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	*dst = n
	return nil
}

func setBool(dst *bool, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	*dst = b
	return nil
}
