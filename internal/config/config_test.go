package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		filePath  string
		wantErr   bool
		errString string
	}{
		{
			name:     "valid config file",
			filePath: "testdata/valid_config.yaml",
			wantErr:  false,
		},
		{
			name:      "non-existent file",
			filePath:  "testdata/nonexistent.yaml",
			wantErr:   true,
			errString: "failed to read config file",
		},
		{
			name:      "malformed yaml",
			filePath:  "testdata/malformed.yaml",
			wantErr:   true,
			errString: "failed to parse config file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(tt.filePath)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errString)
				assert.Nil(t, cfg)
			} else {
				require.NoError(t, err)
				require.NotNil(t, cfg)

				// Verify some key fields are populated
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, "secret-token", cfg.Auth.Token)
				assert.Equal(t, 4, cfg.Gateway.MaxWorkers)
				assert.Equal(t, 64, cfg.Gateway.QueueSize)
				assert.Equal(t, 10*time.Minute, cfg.Gateway.JobTTL)
				assert.Equal(t, 30*time.Second, cfg.Gateway.RequestTimeout)
				assert.Equal(t, "callback-secret", cfg.Callback.HMACSecret)
				assert.True(t, cfg.Events.Enabled)
				assert.Equal(t, "jobs_events", cfg.Events.Exchange.Name)
				assert.Equal(t, "jobs.finished", cfg.Events.RoutingKey)
				assert.Equal(t, "job-gateway", cfg.App.Name)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server: ServerConfig{Port: 8080},
			Gateway: GatewayConfig{
				MaxWorkers:     4,
				QueueSize:      64,
				JobTTL:         10 * time.Minute,
				RequestTimeout: 30 * time.Second,
				SweepInterval:  time.Minute,
			},
			Callback: CallbackConfig{Timeout: 10 * time.Second},
		}
	}

	tests := []struct {
		name      string
		mutate    func(*Config)
		wantErr   bool
		errString string
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:      "invalid server port - too low",
			mutate:    func(c *Config) { c.Server.Port = 0 },
			wantErr:   true,
			errString: "invalid server port",
		},
		{
			name:      "invalid server port - too high",
			mutate:    func(c *Config) { c.Server.Port = 70000 },
			wantErr:   true,
			errString: "invalid server port",
		},
		{
			name:      "missing max_workers",
			mutate:    func(c *Config) { c.Gateway.MaxWorkers = 0 },
			wantErr:   true,
			errString: "max_workers must be greater than 0",
		},
		{
			name:      "missing queue_size",
			mutate:    func(c *Config) { c.Gateway.QueueSize = 0 },
			wantErr:   true,
			errString: "queue_size must be greater than 0",
		},
		{
			name:      "missing job_ttl",
			mutate:    func(c *Config) { c.Gateway.JobTTL = 0 },
			wantErr:   true,
			errString: "job_ttl must be greater than 0",
		},
		{
			name:      "missing request_timeout",
			mutate:    func(c *Config) { c.Gateway.RequestTimeout = 0 },
			wantErr:   true,
			errString: "request_timeout must be greater than 0",
		},
		{
			name:      "missing sweep_interval",
			mutate:    func(c *Config) { c.Gateway.SweepInterval = 0 },
			wantErr:   true,
			errString: "sweep_interval must be greater than 0",
		},
		{
			name:      "missing callback timeout",
			mutate:    func(c *Config) { c.Callback.Timeout = 0 },
			wantErr:   true,
			errString: "callback timeout must be greater than 0",
		},
		{
			name: "events enabled without host",
			mutate: func(c *Config) {
				c.Events.Enabled = true
				c.Events.Port = 5672
				c.Events.Exchange.Name = "jobs_events"
				c.Events.RoutingKey = "jobs.finished"
			},
			wantErr:   true,
			errString: "events host is required",
		},
		{
			name: "events enabled without exchange name",
			mutate: func(c *Config) {
				c.Events.Enabled = true
				c.Events.Host = "localhost"
				c.Events.Port = 5672
				c.Events.RoutingKey = "jobs.finished"
			},
			wantErr:   true,
			errString: "events exchange name is required",
		},
		{
			name: "events enabled without routing key",
			mutate: func(c *Config) {
				c.Events.Enabled = true
				c.Events.Host = "localhost"
				c.Events.Port = 5672
				c.Events.Exchange.Name = "jobs_events"
			},
			wantErr:   true,
			errString: "events routing_key is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errString)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestLoad_ValidateIntegration(t *testing.T) {
	t.Run("load and validate valid config", func(t *testing.T) {
		cfg, err := Load("testdata/valid_config.yaml")
		require.NoError(t, err)
		require.NotNil(t, cfg)

		err = cfg.Validate()
		require.NoError(t, err)
	})

	t.Run("load config with invalid port", func(t *testing.T) {
		cfg, err := Load("testdata/invalid_port.yaml")
		require.NoError(t, err)
		require.NotNil(t, cfg)

		err = cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid server port")
	})

	t.Run("load config with missing workers", func(t *testing.T) {
		cfg, err := Load("testdata/missing_workers.yaml")
		require.NoError(t, err)
		require.NotNil(t, cfg)

		err = cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_workers must be greater than 0")
	})
}
