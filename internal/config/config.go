// Package config loads service configuration from a YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	TwelveData struct {
		BaseURL            string `yaml:"base_url"`
		APIKey             string `yaml:"api_key"`
		TimeoutSeconds     int    `yaml:"timeout_seconds"`
		RateLimitPerMinute int    `yaml:"rate_limit_per_minute"`
	} `yaml:"twelvedata"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is not an error; the overrides
// and defaults alone can produce a usable config.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("TWELVE_DATA_BASE_URL"); v != "" {
		cfg.TwelveData.BaseURL = v
	}
	if v := os.Getenv("TWELVE_DATA_API_KEY"); v != "" {
		cfg.TwelveData.APIKey = v
	}

	// Defaults
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.TwelveData.BaseURL == "" {
		cfg.TwelveData.BaseURL = "https://api.twelvedata.com"
	}
	if cfg.TwelveData.TimeoutSeconds <= 0 {
		cfg.TwelveData.TimeoutSeconds = 10
	}
	if cfg.TwelveData.RateLimitPerMinute <= 0 {
		cfg.TwelveData.RateLimitPerMinute = 8 // free tier credit cap
	}

	return cfg, nil
}

// Timeout returns the provider HTTP timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TwelveData.TimeoutSeconds) * time.Second
}
