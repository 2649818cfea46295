package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the downloader API
type Config struct {
	// HTTP server settings
	Server ServerConfig `yaml:"server" json:"server"`

	// Third-party downloader site settings
	Upstream UpstreamConfig `yaml:"upstream" json:"upstream"`

	// Per-client rate limiting
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// Media proxy settings
	Proxy ProxyConfig `yaml:"proxy" json:"proxy"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host           string   `yaml:"host" json:"host"`
	Port           int      `yaml:"port" json:"port"`
	TrustedProxies []string `yaml:"trusted_proxies" json:"trusted_proxies"`
}

// Addr returns the listen address in host:port form.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// UpstreamConfig holds the third-party downloader endpoints and request
// settings. Each endpoint is a page URL the target post URL gets appended
// to as a percent-encoded query value.
type UpstreamConfig struct {
	ReelEndpoint  string        `yaml:"reel_endpoint" json:"reel_endpoint"`
	StoryEndpoint string        `yaml:"story_endpoint" json:"story_endpoint"`
	PostEndpoint  string        `yaml:"post_endpoint" json:"post_endpoint"`
	IGTVEndpoint  string        `yaml:"igtv_endpoint" json:"igtv_endpoint"`
	Referer       string        `yaml:"referer" json:"referer"`
	Timeout       time.Duration `yaml:"timeout" json:"timeout"`
}

// RateLimitConfig holds per-client rate limiting configuration
type RateLimitConfig struct {
	MaxRequests int           `yaml:"max_requests" json:"max_requests"`
	Window      time.Duration `yaml:"window" json:"window"`
}

// ProxyConfig holds media proxy configuration
type ProxyConfig struct {
	AllowedExtensions []string      `yaml:"allowed_extensions" json:"allowed_extensions"`
	Timeout           time.Duration `yaml:"timeout" json:"timeout"`
	SpoolDir          string        `yaml:"spool_dir" json:"spool_dir"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 5000,
		},
		Upstream: UpstreamConfig{
			ReelEndpoint:  "https://snapdownloader.com/tools/instagram-reels-downloader/download?url=",
			StoryEndpoint: "https://snapdownloader.com/tools/instagram-story-downloader/download?url=",
			PostEndpoint:  "https://snapdownloader.com/tools/instagram-photo-downloader/download?url=",
			IGTVEndpoint:  "https://snapdownloader.com/tools/instagram-igtv-downloader/download?url=",
			Referer:       "https://snapdownloader.com/",
			Timeout:       30 * time.Second,
		},
		RateLimit: RateLimitConfig{
			MaxRequests: 100,
			Window:      time.Hour,
		},
		Proxy: ProxyConfig{
			AllowedExtensions: []string{".mp4", ".jpg", ".jpeg", ".png"},
			Timeout:           30 * time.Second,
			SpoolDir:          "", // empty means the OS temp directory
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if host := os.Getenv("IGDL_HOST"); host != "" {
		c.Server.Host = host
	}
	if port := os.Getenv("IGDL_PORT"); port != "" {
		var val int
		fmt.Sscanf(port, "%d", &val)
		if val > 0 {
			c.Server.Port = val
		}
	}

	// Upstream endpoints
	if endpoint := os.Getenv("IGDL_REEL_ENDPOINT"); endpoint != "" {
		c.Upstream.ReelEndpoint = endpoint
	}
	if endpoint := os.Getenv("IGDL_STORY_ENDPOINT"); endpoint != "" {
		c.Upstream.StoryEndpoint = endpoint
	}
	if endpoint := os.Getenv("IGDL_POST_ENDPOINT"); endpoint != "" {
		c.Upstream.PostEndpoint = endpoint
	}
	if endpoint := os.Getenv("IGDL_IGTV_ENDPOINT"); endpoint != "" {
		c.Upstream.IGTVEndpoint = endpoint
	}
	if timeout := os.Getenv("IGDL_UPSTREAM_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			c.Upstream.Timeout = d
		}
	}

	// Rate limiting
	if max := os.Getenv("IGDL_RATE_LIMIT_MAX"); max != "" {
		var val int
		fmt.Sscanf(max, "%d", &val)
		if val > 0 {
			c.RateLimit.MaxRequests = val
		}
	}
	if window := os.Getenv("IGDL_RATE_LIMIT_WINDOW"); window != "" {
		if d, err := time.ParseDuration(window); err == nil && d > 0 {
			c.RateLimit.Window = d
		}
	}

	// Logging
	if logLevel := os.Getenv("IGDL_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFile := os.Getenv("IGDL_LOG_FILE"); logFile != "" {
		c.Logging.File = logFile
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	locations := []string{
		".igdlapi.yaml",
		".igdlapi.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "igdlapi", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "igdlapi", "config.yml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, errors.New("server port must be between 1 and 65535"))
	}

	if c.Upstream.ReelEndpoint == "" || c.Upstream.StoryEndpoint == "" ||
		c.Upstream.PostEndpoint == "" || c.Upstream.IGTVEndpoint == "" {
		errs = append(errs, errors.New("all upstream endpoints are required"))
	}
	if c.Upstream.Timeout <= 0 {
		errs = append(errs, errors.New("upstream timeout must be positive"))
	}

	if c.RateLimit.MaxRequests <= 0 {
		errs = append(errs, errors.New("rate limit max requests must be positive"))
	}
	if c.RateLimit.Window <= 0 {
		errs = append(errs, errors.New("rate limit window must be positive"))
	}

	if len(c.Proxy.AllowedExtensions) == 0 {
		errs = append(errs, errors.New("proxy allowed extensions are required"))
	}
	if c.Proxy.Timeout <= 0 {
		errs = append(errs, errors.New("proxy timeout must be positive"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if v, ok := flags["host"].(string); ok && v != "" {
		c.Server.Host = v
	}
	if v, ok := flags["port"].(int); ok && v > 0 {
		c.Server.Port = v
	}
	if v, ok := flags["upstream-timeout"].(time.Duration); ok && v > 0 {
		c.Upstream.Timeout = v
	}
	if v, ok := flags["rate-limit-max"].(int); ok && v > 0 {
		c.RateLimit.MaxRequests = v
	}
	if v, ok := flags["log-level"].(string); ok && v != "" {
		c.Logging.Level = v
	}
}

// Load builds the final configuration: defaults, then config file, then
// environment, then command line flags.
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".igdlapi.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
