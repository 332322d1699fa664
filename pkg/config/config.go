package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	xutil "PriceSigner/pkg/util"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment" default:"development" validate:"required"`
	Server      struct {
		Host            string        `yaml:"host" default:"0.0.0.0"`
		Port            int           `yaml:"port" default:"3000" validate:"min=1,max=65535"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"30s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
		SlowThreshold   time.Duration `yaml:"slow_threshold" default:"2s"`
		BodyLimit       string        `yaml:"body_limit" default:"1M"`
		CORS            bool          `yaml:"cors" default:"true"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level" default:"info" validate:"oneof=trace debug info warn error fatal panic"`
		Format string `yaml:"format" default:"json" validate:"oneof=json console"`
		Output string `yaml:"output" default:"stdout"`
		// Collect aggregates repeated error logs and ships them to Kafka.
		Collect struct {
			Enabled        bool          `yaml:"enabled"`
			Topic          string        `yaml:"topic" default:"pricesigner-logs"`
			Interval       time.Duration `yaml:"interval" default:"30s"`
			CountThreshold int           `yaml:"count_threshold" default:"100" validate:"min=1"`
		} `yaml:"collect"`
	} `yaml:"log"`
	Signer struct {
		// PrivateKey is hex, with or without 0x. Never logged.
		PrivateKey string `yaml:"private_key" validate:"required"`
	} `yaml:"signer"`
	Pyth struct {
		BaseURL     string        `yaml:"base_url" default:"https://hermes.pyth.network" validate:"required,url"`
		PriceFeedID string        `yaml:"price_feed_id" default:"ff61491a931112ddf1bd8147cd1b641375f79f5825126d665480874634fd0ace" validate:"required"`
		Timeout     time.Duration `yaml:"timeout" default:"10s"`
	} `yaml:"pyth"`
	Oracle struct {
		ExpirySeconds uint64 `yaml:"expiry_seconds" default:"5" validate:"min=1,max=31536000"`
		// BaseToken is priced by the feed (WETH for ETH/USD), QuoteToken denominates it (USDC).
		// Leave both empty to ignore request bodies and always use DefaultDirection.
		BaseToken        string `yaml:"base_token" validate:"omitempty,eth_addr"`
		QuoteToken       string `yaml:"quote_token" validate:"omitempty,eth_addr"`
		DefaultDirection string `yaml:"default_direction" default:"as_is" validate:"oneof=as_is inverted"`
	} `yaml:"oracle"`
	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic" default:"signed-contexts"`
		RequiredAcks int      `yaml:"required_acks" default:"-1"`
		Compression  string   `yaml:"compression" default:"gzip" validate:"oneof=none gzip snappy lz4 zstd"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts" default:"3"`
			Linger       time.Duration `yaml:"linger" default:"50ms"`
			BatchBytes   int           `yaml:"batch_bytes" default:"1048576"`
			BatchSize    int           `yaml:"batch_size" default:"100"`
			WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
			ReadTimeout  time.Duration `yaml:"read_timeout" default:"10s"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
		// AuditTimeout bounds one audit publish. It runs after the response is written.
		AuditTimeout    time.Duration `yaml:"audit_timeout" default:"5s" validate:"gt=0"`
		AutoCreateTopic bool          `yaml:"auto_create_topic" default:"true"`
	} `yaml:"kafka"`
}

var validate = validator.New()

// Load reads and parses a YAML configuration file on top of the defaults.
func Load(path string) (*Config, error) {
	c, err := read(path, false)
	if err != nil {
		return nil, err
	}

	// Validate required fields
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// LoadWithEnv loads config from YAML, then .env, then overrides with
// environment variables. A missing YAML file is allowed so deployments can
// be configured by env alone.
func LoadWithEnv(path string) (*Config, error) {
	c, err := read(path, true)
	if err != nil {
		return nil, err
	}

	// .env is optional; real environment variables win over it
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	applyEnv(c)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func read(path string, allowMissing bool) (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("set defaults: %w", err)
	}

	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case allowMissing && errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}
	return &c, nil
}

func applyEnv(c *Config) {
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = xutil.ParseIntDefault(v, c.Server.Port)
	}
	if v := os.Getenv("SIGNER_PRIVATE_KEY"); v != "" {
		c.Signer.PrivateKey = v
	}
	if v := os.Getenv("PYTH_PRICE_FEED_ID"); v != "" {
		c.Pyth.PriceFeedID = v
	}
	if v := os.Getenv("PYTH_BASE_URL"); v != "" {
		c.Pyth.BaseURL = v
	}
	if v := os.Getenv("BASE_TOKEN"); v != "" {
		c.Oracle.BaseToken = v
	}
	if v := os.Getenv("QUOTE_TOKEN"); v != "" {
		c.Oracle.QuoteToken = v
	}
	if v := os.Getenv("EXPIRY_SECONDS"); v != "" {
		c.Oracle.ExpirySeconds = xutil.ParseUint64Default(v, c.Oracle.ExpirySeconds)
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = xutil.SplitCSV(v)
		c.Kafka.Enabled = true
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if (c.Oracle.BaseToken == "") != (c.Oracle.QuoteToken == "") {
		return fmt.Errorf("oracle.base_token and oracle.quote_token must be set together")
	}
	if c.Oracle.BaseToken != "" && strings.EqualFold(c.Oracle.BaseToken, c.Oracle.QuoteToken) {
		return fmt.Errorf("oracle.base_token and oracle.quote_token must differ")
	}
	if (c.Kafka.Enabled || c.Log.Collect.Enabled) && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka or log collection is enabled")
	}
	return nil
}

// Expiry is the signed context validity window.
func (c *Config) Expiry() time.Duration {
	return time.Duration(c.Oracle.ExpirySeconds) * time.Second
}

// HasTokenPair reports whether request bodies select the price direction.
func (c *Config) HasTokenPair() bool {
	return c.Oracle.BaseToken != "" && c.Oracle.QuoteToken != ""
}
