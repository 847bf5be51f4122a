package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// MinPort is the minimum valid port number
	MinPort = 1
	// MaxPort is the maximum valid port number
	MaxPort = 65535
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Auth     AuthConfig     `yaml:"auth"`
	Gateway  GatewayConfig  `yaml:"gateway"`
	Callback CallbackConfig `yaml:"callback"`
	Events   EventsConfig   `yaml:"events"`
	Logging  LoggingConfig  `yaml:"logging"`
	App      AppConfig      `yaml:"app"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// AuthConfig holds API authentication configuration. An empty token
// disables authentication (non-production mode).
type AuthConfig struct {
	Token string `yaml:"token"`
}

// GatewayConfig holds job store and dispatcher configuration
type GatewayConfig struct {
	MaxWorkers     int           `yaml:"max_workers"`
	QueueSize      int           `yaml:"queue_size"`
	JobTTL         time.Duration `yaml:"job_ttl"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	SweepInterval  time.Duration `yaml:"sweep_interval"`
}

// CallbackConfig holds outbound callback configuration. An empty secret
// disables signing.
type CallbackConfig struct {
	HMACSecret string        `yaml:"hmac_secret"`
	Timeout    time.Duration `yaml:"timeout"`
}

// EventsConfig holds the optional RabbitMQ lifecycle-event publisher
// configuration
type EventsConfig struct {
	Enabled    bool             `yaml:"enabled"`
	Host       string           `yaml:"host"`
	Port       int              `yaml:"port"`
	User       string           `yaml:"user"`
	Password   string           `yaml:"password"`
	VHost      string           `yaml:"vhost"`
	Exchange   ExchangeConfig   `yaml:"exchange"`
	RoutingKey string           `yaml:"routing_key"`
	Connection ConnectionConfig `yaml:"connection"`
}

// ExchangeConfig holds RabbitMQ exchange configuration
type ExchangeConfig struct {
	Name       string `yaml:"name"`
	Type       string `yaml:"type"`
	Durable    bool   `yaml:"durable"`
	AutoDelete bool   `yaml:"auto_delete"`
}

// ConnectionConfig holds RabbitMQ connection settings
type ConnectionConfig struct {
	RetryAttempts     int           `yaml:"retry_attempts"`
	RetryInterval     time.Duration `yaml:"retry_interval"`
	Heartbeat         time.Duration `yaml:"heartbeat"`
	ConnectionTimeout time.Duration `yaml:"connection_timeout"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level        string `yaml:"level"`
	Format       string `yaml:"format"`
	Output       string `yaml:"output"`
	EnableCaller bool   `yaml:"enable_caller"`
}

// AppConfig holds application metadata
type AppConfig struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Environment string `yaml:"environment"`
}

// Load reads and parses the configuration file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port < MinPort || c.Server.Port > MaxPort {
		return fmt.Errorf("invalid server port: %d (must be between %d and %d)", c.Server.Port, MinPort, MaxPort)
	}

	if c.Gateway.MaxWorkers <= 0 {
		return fmt.Errorf("gateway max_workers must be greater than 0")
	}

	if c.Gateway.QueueSize <= 0 {
		return fmt.Errorf("gateway queue_size must be greater than 0")
	}

	if c.Gateway.JobTTL <= 0 {
		return fmt.Errorf("gateway job_ttl must be greater than 0")
	}

	if c.Gateway.RequestTimeout <= 0 {
		return fmt.Errorf("gateway request_timeout must be greater than 0")
	}

	if c.Gateway.SweepInterval <= 0 {
		return fmt.Errorf("gateway sweep_interval must be greater than 0")
	}

	if c.Callback.Timeout <= 0 {
		return fmt.Errorf("callback timeout must be greater than 0")
	}

	if c.Events.Enabled {
		if c.Events.Host == "" {
			return fmt.Errorf("events host is required when events are enabled")
		}

		if c.Events.Port < MinPort || c.Events.Port > MaxPort {
			return fmt.Errorf("invalid events port: %d (must be between %d and %d)", c.Events.Port, MinPort, MaxPort)
		}

		if c.Events.Exchange.Name == "" {
			return fmt.Errorf("events exchange name is required when events are enabled")
		}

		if c.Events.RoutingKey == "" {
			return fmt.Errorf("events routing_key is required when events are enabled")
		}
	}

	return nil
}
