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
		CronSecret      string        `yaml:"cron_secret"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	ClickHouse struct {
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port"`
		Database         string        `yaml:"database"`
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
	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic"`
		RequiredAcks int      `yaml:"required_acks"`
		Compression  string   `yaml:"compression"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts"`
			BatchBytes   int           `yaml:"batch_bytes"`
			BatchSize    int           `yaml:"batch_size"`
			BatchTimeout time.Duration `yaml:"batch_timeout"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
	} `yaml:"kafka"`
	Cache struct {
		// Type is memory, redis or layered.
		Type     string `yaml:"type"`
		Redis    struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
		MarketTTL time.Duration `yaml:"market_ttl"`
	} `yaml:"cache"`
	Calendar struct {
		ForexFactoryURL string        `yaml:"forexfactory_url"`
		RapidAPIURL     string        `yaml:"rapidapi_url"`
		RapidAPIHost    string        `yaml:"rapidapi_host"`
		RapidAPIKey     string        `yaml:"rapidapi_key"`
		Timeout         time.Duration `yaml:"timeout"`
	} `yaml:"calendar"`
	MarketData struct {
		PolygonBaseURL string        `yaml:"polygon_base_url"`
		PolygonAPIKey  string        `yaml:"polygon_api_key"`
		YahooBaseURL   string        `yaml:"yahoo_base_url"`
		Timeout        time.Duration `yaml:"timeout"`
	} `yaml:"market_data"`
	Engine struct {
		Alpha          float64       `yaml:"alpha"`
		HalfLifeHours  float64       `yaml:"half_life_hours"`
		ReadWindowDays int           `yaml:"read_window_days"`
		RunTimeout     time.Duration `yaml:"run_timeout"`
	} `yaml:"engine"`
	Scheduler struct {
		Enabled            bool          `yaml:"enabled"`
		Interval           time.Duration `yaml:"interval"`
		CalendarInterval   time.Duration `yaml:"calendar_interval"`
		HighImpactInterval time.Duration `yaml:"high_impact_interval"`
	} `yaml:"scheduler"`
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

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
// Secrets come from the environment in every deployed setup; the YAML keys
// exist for local runs only.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("POLYGON_API_KEY"); v != "" {
		c.MarketData.PolygonAPIKey = v
	}
	if v := os.Getenv("RAPIDAPI_KEY"); v != "" {
		c.Calendar.RapidAPIKey = v
	}
	if v := os.Getenv("CLICKHOUSE_PASSWORD"); v != "" {
		c.ClickHouse.Password = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("CRON_SECRET"); v != "" {
		c.Server.CronSecret = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
	}

	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host is required")
	}
	if c.Calendar.ForexFactoryURL == "" && c.Calendar.RapidAPIURL == "" {
		return fmt.Errorf("at least one calendar provider is required")
	}
	if c.Calendar.RapidAPIURL != "" && c.Calendar.RapidAPIHost == "" {
		return fmt.Errorf("calendar.rapidapi_host is required when rapidapi_url is set")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	switch c.Cache.Type {
	case "", "memory", "redis", "layered":
	default:
		return fmt.Errorf("cache.type must be memory, redis or layered, got '%s'", c.Cache.Type)
	}
	if (c.Cache.Type == "redis" || c.Cache.Type == "layered") && c.Cache.Redis.Addr == "" {
		return fmt.Errorf("cache.redis.addr is required for %s cache", c.Cache.Type)
	}
	return nil
}
