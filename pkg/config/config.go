package config

import (
	"fmt"
	"os"
	"strconv"
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
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"logging"`
	Federacion struct {
		BaseURL    string        `yaml:"base_url"`
		Timeout    time.Duration `yaml:"timeout"`
		MaxRetries int           `yaml:"max_retries"`
		RetryDelay time.Duration `yaml:"retry_delay"`
	} `yaml:"federacion"`
	Ice struct {
		BaseURL    string        `yaml:"base_url"`
		Timeout    time.Duration `yaml:"timeout"`
		MaxRetries int           `yaml:"max_retries"`
	} `yaml:"ice"`
	Cache struct {
		Backend    string        `yaml:"backend"` // memory, redis or layered
		DefaultTTL time.Duration `yaml:"default_ttl"`
		PriceTTL   time.Duration `yaml:"price_ttl"`
		FuturesTTL time.Duration `yaml:"futures_ttl"`
		Redis      struct {
			Host     string `yaml:"host"`
			Port     int    `yaml:"port"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
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

	if v := os.Getenv("FEDERACION_CAFETEROS_URL"); v != "" {
		c.Federacion.BaseURL = v
	}
	if v := os.Getenv("ICE_FUTURES_URL"); v != "" {
		c.Ice.BaseURL = v
	}
	if v := os.Getenv("CACHE_BACKEND"); v != "" {
		c.Cache.Backend = v
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		c.Cache.Redis.Host = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}
	if c.Federacion.BaseURL == "" {
		c.Federacion.BaseURL = "https://federaciondecafeteros.org"
	}
	if c.Federacion.Timeout == 0 {
		c.Federacion.Timeout = 10 * time.Second
	}
	if c.Federacion.MaxRetries == 0 {
		c.Federacion.MaxRetries = 3
	}
	if c.Federacion.RetryDelay == 0 {
		c.Federacion.RetryDelay = time.Second
	}
	if c.Ice.BaseURL == "" {
		c.Ice.BaseURL = "https://www.ice.com/products/15/Coffee-C-Futures/data"
	}
	if c.Ice.Timeout == 0 {
		c.Ice.Timeout = 15 * time.Second
	}
	if c.Ice.MaxRetries == 0 {
		c.Ice.MaxRetries = 3
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = "memory"
	}
	if c.Cache.DefaultTTL == 0 {
		c.Cache.DefaultTTL = 5 * time.Minute
	}
	if c.Cache.PriceTTL == 0 {
		c.Cache.PriceTTL = 5 * time.Minute
	}
	if c.Cache.FuturesTTL == 0 {
		c.Cache.FuturesTTL = 10 * time.Minute
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	switch c.Cache.Backend {
	case "memory", "redis", "layered":
	default:
		return fmt.Errorf("cache.backend must be 'memory', 'redis' or 'layered', got '%s'", c.Cache.Backend)
	}
	if c.Federacion.MaxRetries < 1 {
		return fmt.Errorf("federacion.max_retries must be >= 1")
	}
	if c.Ice.MaxRetries < 1 {
		return fmt.Errorf("ice.max_retries must be >= 1")
	}
	return nil
}
