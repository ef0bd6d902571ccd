package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Store drivers accepted in STORE_DRIVER.
const (
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

// S3Scheme prefixes a SOURCE_URI that points at an S3 bucket.
const S3Scheme = "s3://"

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// State whose hospitals are kept.
	StateCode string

	// Dataset location: a local directory or s3://bucket/prefix.
	SourceURI       string
	SourcesManifest string
	AWSRegion       string
	S3Endpoint      string

	StoreDriver string
	StoreDSN    string

	// Seed notifications are published only when brokers are set.
	KafkaBrokers   []string
	KafkaSeedTopic string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	var brokers []string
	if v := strings.TrimSpace(os.Getenv("KAFKA_BROKERS")); v != "" {
		brokers = sharedcfg.ParseBrokers(v)
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8000"),
		LogLevel:        strings.ToLower(sharedcfg.EnvOrDefault("LOG_LEVEL", "info")),
		LogFormat:       strings.ToLower(sharedcfg.EnvOrDefault("LOG_FORMAT", "json")),
		ShutdownTimeout: shutdownTimeout,
		StateCode:       strings.ToUpper(strings.TrimSpace(sharedcfg.EnvOrDefault("STATE_CODE", "NJ"))),
		SourceURI:       sharedcfg.EnvOrDefault("SOURCE_URI", "Resources"),
		SourcesManifest: os.Getenv("SOURCES_MANIFEST"),
		AWSRegion:       sharedcfg.EnvOrDefault("AWS_REGION", "us-east-1"),
		S3Endpoint:      os.Getenv("S3_ENDPOINT"),
		StoreDriver:     strings.ToLower(sharedcfg.EnvOrDefault("STORE_DRIVER", StoreSQLite)),
		StoreDSN:        sharedcfg.EnvOrDefault("STORE_DSN", "nj_db.db"),
		KafkaBrokers:    brokers,
		KafkaSeedTopic:  sharedcfg.EnvOrDefault("KAFKA_SEED_TOPIC", "county-stats-seeded"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that cannot be fixed by a default.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid LOG_LEVEL %q", c.LogLevel)
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("invalid LOG_FORMAT %q", c.LogFormat)
	}
	if len(c.StateCode) != 2 {
		return fmt.Errorf("invalid STATE_CODE %q: want a two-letter code", c.StateCode)
	}
	if c.SourceURI == "" || c.SourceURI == S3Scheme {
		return errors.New("SOURCE_URI is required")
	}
	switch c.StoreDriver {
	case StoreSQLite, StorePostgres:
	default:
		return fmt.Errorf("invalid STORE_DRIVER %q: want %s or %s", c.StoreDriver, StoreSQLite, StorePostgres)
	}
	if c.StoreDSN == "" {
		return errors.New("STORE_DSN is required")
	}
	if len(c.KafkaBrokers) > 0 && c.KafkaSeedTopic == "" {
		return errors.New("KAFKA_SEED_TOPIC is required when KAFKA_BROKERS is set")
	}
	return nil
}

// RemoteSources reports whether SourceURI points at S3.
func (c *Config) RemoteSources() bool {
	return strings.HasPrefix(c.SourceURI, S3Scheme)
}

// PublishSeeds reports whether seed reports go to Kafka.
func (c *Config) PublishSeeds() bool {
	return len(c.KafkaBrokers) > 0
}
