// Package common provides shared configuration and logging for mm-mcp.
package common

import (
	"fmt"
	"os"
	"strconv"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for the mm-mcp server.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	API      APIConfig      `toml:"api"`
	Strategy StrategyConfig `toml:"strategy"`
	Logging  LoggingConfig  `toml:"logging"`
}

// ServerConfig holds MCP server settings.
type ServerConfig struct {
	Name string `toml:"name"`
	Port string `toml:"port"`
}

// APIConfig holds the remote trading API client configuration.
type APIConfig struct {
	BaseURL string `toml:"base_url"`
	Timeout string `toml:"timeout"`
	Retries int    `toml:"retries"`
}

// GetTimeout parses and returns the request timeout duration.
func (c *APIConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// StrategyConfig holds defaults applied when a strategy-creation tool
// omits optional parameters.
type StrategyConfig struct {
	DefaultMinInterval float64 `toml:"default_min_interval"` // seconds
	DefaultMaxInterval float64 `toml:"default_max_interval"` // seconds
	DefaultTipAmount   float64 `toml:"default_tip_amount"`   // SOL
	DefaultSlippageBps float64 `toml:"default_slippage_bps"`
	MaxWalletCount     int     `toml:"max_wallet_count"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string   `toml:"level"`
	Format     string   `toml:"format"`
	Outputs    []string `toml:"outputs"`
	FilePath   string   `toml:"file_path"`
	MaxSizeMB  int      `toml:"max_size_mb"`
	MaxBackups int      `toml:"max_backups"`
}

// NewDefaultConfig returns a Config with sensible defaults.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Name: "mm-mcp",
			Port: "4270",
		},
		API: APIConfig{
			BaseURL: "http://localhost:3000",
			Timeout: "30s",
			Retries: 3,
		},
		Strategy: StrategyConfig{
			DefaultMinInterval: 1,
			DefaultMaxInterval: 2,
			DefaultTipAmount:   0.001,
			DefaultSlippageBps: 100,
			MaxWalletCount:     100000,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			Outputs:    []string{"console", "file"},
			FilePath:   "logs/mm-mcp.log",
			MaxSizeMB:  100,
			MaxBackups: 3,
		},
	}
}

// LoadConfig loads configuration from TOML files with environment overrides.
// Missing files are skipped; later files override earlier ones.
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config.
// REQUEST_TIMEOUT accepts either a Go duration ("45s") or an integer
// millisecond count, which is what the remote API's own tooling exports.
func applyEnvOverrides(config *Config) {
	if url := os.Getenv("API_BASE_URL"); url != "" {
		config.API.BaseURL = url
	}

	if timeout := os.Getenv("REQUEST_TIMEOUT"); timeout != "" {
		if ms, err := strconv.Atoi(timeout); err == nil && ms > 0 {
			config.API.Timeout = (time.Duration(ms) * time.Millisecond).String()
		} else if _, err := time.ParseDuration(timeout); err == nil {
			config.API.Timeout = timeout
		}
	}

	if retries := os.Getenv("API_RETRIES"); retries != "" {
		if r, err := strconv.Atoi(retries); err == nil && r >= 0 {
			config.API.Retries = r
		}
	}

	if port := os.Getenv("MM_MCP_PORT"); port != "" {
		config.Server.Port = port
	}

	if level := os.Getenv("LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
}
