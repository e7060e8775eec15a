package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"PhasePulse/pkg/util"
)

var validGranularities = map[int]bool{
	60: true, 300: true, 900: true, 3600: true, 21600: true, 86400: true,
}

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
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"logging"`
	Engine struct {
		MinWindow            int     `yaml:"min_window"`
		VWAPWindow           int     `yaml:"vwap_window"`
		DeviationThreshold   float64 `yaml:"deviation_threshold"`
		PhaseGate            float64 `yaml:"phase_gate"`
		ConfidenceSaturation float64 `yaml:"confidence_saturation"`
	} `yaml:"engine"`
	Market struct {
		BaseURL        string        `yaml:"base_url"`
		DefaultSymbol  string        `yaml:"default_symbol"`
		BarCount       int           `yaml:"bar_count"`
		Granularity    int           `yaml:"granularity"`
		RequestTimeout time.Duration `yaml:"request_timeout"`
		RateLimitRPS   float64       `yaml:"rate_limit_rps"`
		RateLimitBurst int           `yaml:"rate_limit_burst"`
	} `yaml:"market"`
	Symbols   []string `yaml:"symbols"`
	Synthetic struct {
		Seed           int64   `yaml:"seed"`
		BasePrice      float64 `yaml:"base_price"`
		Volatility     float64 `yaml:"volatility"`
		DriftPeriod    float64 `yaml:"drift_period"`
		DriftAmplitude float64 `yaml:"drift_amplitude"`
	} `yaml:"synthetic"`
	Cache struct {
		BarsTTL       time.Duration `yaml:"bars_ttl"`
		SpectrumTTL   time.Duration `yaml:"spectrum_ttl"`
		MemoryMaxSize int           `yaml:"memory_max_size"`
		Redis         struct {
			Enabled  bool   `yaml:"enabled"`
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Warmup struct {
		Enabled   bool          `yaml:"enabled"`
		Interval  time.Duration `yaml:"interval"`
		Workers   int           `yaml:"workers"`
		QueueSize int           `yaml:"queue_size"`
	} `yaml:"warmup"`
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
	if v := os.Getenv("SYMBOLS"); v != "" {
		c.Symbols = strings.Split(v, ",")
	}
	if v := os.Getenv("DEFAULT_SYMBOL"); v != "" {
		c.Market.DefaultSymbol = v
	}
	if v := os.Getenv("MARKET_BASE_URL"); v != "" {
		c.Market.BaseURL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
		c.Cache.Redis.Enabled = true
	}
	c.Server.Port = util.ParseIntDefault(os.Getenv("PORT"), c.Server.Port)

	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Market.BaseURL == "" {
		return fmt.Errorf("market.base_url is required")
	}
	if c.Market.DefaultSymbol == "" {
		return fmt.Errorf("market.default_symbol is required")
	}
	if len(c.Symbols) == 0 {
		return fmt.Errorf("symbols cannot be empty")
	}
	if c.Market.BarCount < 0 || c.Market.BarCount > 300 {
		return fmt.Errorf("market.bar_count must be within [0, 300], got %d", c.Market.BarCount)
	}
	if c.Market.Granularity != 0 && !validGranularities[c.Market.Granularity] {
		return fmt.Errorf("market.granularity must be one of 60, 300, 900, 3600, 21600, 86400, got %d", c.Market.Granularity)
	}
	if c.Engine.MinWindow < 0 {
		return fmt.Errorf("engine.min_window cannot be negative")
	}
	if c.Cache.Redis.Enabled && c.Cache.Redis.Addr == "" {
		return fmt.Errorf("cache.redis.addr is required when redis is enabled")
	}
	return nil
}
