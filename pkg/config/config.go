package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Upstream struct {
		APIKey          string        `yaml:"api_key"`
		BaseURL         string        `yaml:"base_url"`
		Timeout         time.Duration `yaml:"timeout"`
		MaxRetries      int           `yaml:"max_retries"`
		RetryDelay      time.Duration `yaml:"retry_delay"`
		NetRetryDelay   time.Duration `yaml:"net_retry_delay"`
		BudgetThreshold int           `yaml:"budget_threshold"`
		ThrottleDelay   time.Duration `yaml:"throttle_delay"`
	} `yaml:"upstream"`
	Freshness struct {
		Quote        time.Duration `yaml:"quote"`
		Series       time.Duration `yaml:"series"`
		Indicator    time.Duration `yaml:"indicator"`
		Sentiment    time.Duration `yaml:"sentiment"`
		Intelligence time.Duration `yaml:"intelligence"`
		Catalog      time.Duration `yaml:"catalog"`
	} `yaml:"freshness"`
	Advisory struct {
		SentimentURL    string        `yaml:"sentiment_url"`
		IntelligenceURL string        `yaml:"intelligence_url"`
		Timeout         time.Duration `yaml:"timeout"`
	} `yaml:"advisory"`
	Resolver struct {
		DefaultSymbol string `yaml:"default_symbol"`
	} `yaml:"resolver"`
	Aggregate struct {
		ByteBudget           int           `yaml:"byte_budget"`
		SeriesPoints         int           `yaml:"series_points"`
		IntelCharBudget      int           `yaml:"intel_char_budget"`
		ComprehensiveTimeout time.Duration `yaml:"comprehensive_timeout"`
	} `yaml:"aggregate"`
	Session struct {
		IdleTTL     time.Duration `yaml:"idle_ttl"`
		MaxHistory  int           `yaml:"max_history"`
		SweepPeriod time.Duration `yaml:"sweep_period"`
	} `yaml:"session"`
	Stream struct {
		Enabled         bool          `yaml:"enabled"`
		RefreshInterval time.Duration `yaml:"refresh_interval"`
	} `yaml:"stream"`
	Sink struct {
		Type  string `yaml:"type"` // kafka, clickhouse, none
		Kafka struct {
			Brokers      []string      `yaml:"brokers"`
			Topic        string        `yaml:"topic"`
			RequiredAcks int           `yaml:"required_acks"`
			Compression  string        `yaml:"compression"`
			MaxAttempts  int           `yaml:"max_attempts"`
			Linger       time.Duration `yaml:"linger"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
			Async        bool          `yaml:"async"`
		} `yaml:"kafka"`
		ClickHouse struct {
			Host             string        `yaml:"host"`
			Port             int           `yaml:"port"`
			Database         string        `yaml:"database"`
			Table            string        `yaml:"table"`
			User             string        `yaml:"user"`
			Password         string        `yaml:"password"`
			UseHTTP          bool          `yaml:"use_http"`
			AsyncInsert      bool          `yaml:"async_insert"`
			WaitForAsync     bool          `yaml:"wait_for_async_insert"`
			DialTimeout      time.Duration `yaml:"dial_timeout"`
			ReadTimeout      time.Duration `yaml:"read_timeout"`
			WriteTimeout     time.Duration `yaml:"write_timeout"`
			MaxExecutionTime time.Duration `yaml:"max_execution_time"`
		} `yaml:"clickhouse"`
	} `yaml:"sink"`
	Cache struct {
		Redis struct {
			Enabled  bool   `yaml:"enabled"`
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()

	// Validate required fields
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	// Override with environment variables
	if v := os.Getenv("UPSTREAM_API_KEY"); v != "" {
		c.Upstream.APIKey = v
	}
	if v := os.Getenv("UPSTREAM_BASE_URL"); v != "" {
		c.Upstream.BaseURL = v
	}
	if v := os.Getenv("SINK"); v != "" {
		c.Sink.Type = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Sink.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Sink.Kafka.Topic = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
		c.Cache.Redis.Enabled = true
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Upstream.Timeout == 0 {
		c.Upstream.Timeout = 15 * time.Second
	}
	if c.Upstream.MaxRetries == 0 {
		c.Upstream.MaxRetries = 3
	}
	if c.Upstream.RetryDelay == 0 {
		c.Upstream.RetryDelay = 15 * time.Second
	}
	if c.Upstream.NetRetryDelay == 0 {
		c.Upstream.NetRetryDelay = 2 * time.Second
	}
	if c.Upstream.BudgetThreshold == 0 {
		c.Upstream.BudgetThreshold = 5
	}
	if c.Upstream.ThrottleDelay == 0 {
		c.Upstream.ThrottleDelay = 8 * time.Second
	}
	if c.Freshness.Quote == 0 {
		c.Freshness.Quote = 5 * time.Minute
	}
	if c.Freshness.Series == 0 {
		c.Freshness.Series = 5 * time.Minute
	}
	if c.Freshness.Indicator == 0 {
		c.Freshness.Indicator = 5 * time.Minute
	}
	if c.Freshness.Sentiment == 0 {
		c.Freshness.Sentiment = 10 * time.Minute
	}
	if c.Freshness.Intelligence == 0 {
		c.Freshness.Intelligence = 10 * time.Minute
	}
	if c.Freshness.Catalog == 0 {
		c.Freshness.Catalog = 24 * time.Hour
	}
	if c.Aggregate.ByteBudget == 0 {
		c.Aggregate.ByteBudget = 2000
	}
	if c.Aggregate.SeriesPoints == 0 {
		c.Aggregate.SeriesPoints = 10
	}
	if c.Aggregate.IntelCharBudget == 0 {
		c.Aggregate.IntelCharBudget = 600
	}
	if c.Aggregate.ComprehensiveTimeout == 0 {
		c.Aggregate.ComprehensiveTimeout = 30 * time.Second
	}
	if c.Session.IdleTTL == 0 {
		c.Session.IdleTTL = 30 * time.Minute
	}
	if c.Session.MaxHistory == 0 {
		c.Session.MaxHistory = 20
	}
	if c.Session.SweepPeriod == 0 {
		c.Session.SweepPeriod = 5 * time.Minute
	}
	if c.Stream.RefreshInterval == 0 {
		c.Stream.RefreshInterval = 15 * time.Second
	}
	if c.Sink.Type == "" {
		c.Sink.Type = "none"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Upstream.APIKey == "" {
		return fmt.Errorf("upstream.api_key is required")
	}
	if c.Upstream.BaseURL == "" {
		return fmt.Errorf("upstream.base_url is required")
	}
	if c.Sink.Type != "kafka" && c.Sink.Type != "clickhouse" && c.Sink.Type != "none" {
		return fmt.Errorf("sink.type must be 'kafka', 'clickhouse' or 'none', got '%s'", c.Sink.Type)
	}
	if c.Sink.Type == "kafka" && len(c.Sink.Kafka.Brokers) == 0 {
		return fmt.Errorf("sink.kafka.brokers cannot be empty")
	}
	if c.Sink.Type == "clickhouse" && c.Sink.ClickHouse.Host == "" {
		return fmt.Errorf("sink.clickhouse.host is required")
	}
	return nil
}
