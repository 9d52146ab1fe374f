package config

import (
	"fmt"
	"net/url"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Player PlayerConfig `mapstructure:"player"`
	UI     UIConfig     `mapstructure:"ui"`
	Log    LogConfig    `mapstructure:"log"`
}

// ServerConfig contains backend connection settings
type ServerConfig struct {
	URL         string `mapstructure:"url"`
	HTTPTimeout int    `mapstructure:"http_timeout"` // in seconds
}

// PlayerConfig contains playback settings
type PlayerConfig struct {
	Backend string  `mapstructure:"backend"` // auto, mpv or beep
	Volume  float64 `mapstructure:"volume"`  // 0.0 to 1.0
}

// UIConfig contains user interface settings
type UIConfig struct {
	SearchLimit      int `mapstructure:"search_limit"`
	ProgressBarWidth int `mapstructure:"progress_bar_width"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"` // empty: default location under the user config dir
}

// GetHTTPTimeout returns the HTTP timeout as a time.Duration
func (s *ServerConfig) GetHTTPTimeout() time.Duration {
	return time.Duration(s.HTTPTimeout) * time.Second
}

// Validate checks that all configuration values are usable
func (c *Config) Validate() error {
	if c.Server.URL == "" {
		return fmt.Errorf("server.url cannot be empty")
	}
	if _, err := url.Parse(c.Server.URL); err != nil {
		return fmt.Errorf("server.url is not a valid URL: %w", err)
	}
	switch c.Player.Backend {
	case "auto", "mpv", "beep":
	default:
		return fmt.Errorf("player.backend must be auto, mpv or beep, got %q", c.Player.Backend)
	}
	if c.Player.Volume < 0 || c.Player.Volume > 1 {
		return fmt.Errorf("player.volume must be between 0 and 1, got %v", c.Player.Volume)
	}
	if c.Server.HTTPTimeout <= 0 {
		return fmt.Errorf("server.http_timeout must be positive, got %d", c.Server.HTTPTimeout)
	}
	return nil
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			URL:         "http://localhost:8080",
			HTTPTimeout: 15,
		},
		Player: PlayerConfig{
			Backend: "auto",
			Volume:  1.0,
		},
		UI: UIConfig{
			SearchLimit:      50,
			ProgressBarWidth: 30,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
