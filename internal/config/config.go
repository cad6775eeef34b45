package config

import (
	"net/url"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"mandamentos/adapters/feed"
	"mandamentos/adapters/sheet"
	"mandamentos/internal/errors"
	"mandamentos/internal/policy"
)

// Config represents the complete application configuration
type Config struct {
	Sheet  SheetConfig
	Blog   BlogConfig
	Policy PolicyConfig
	Server ServerConfig
	Log    LogConfig
}

// SheetConfig holds the commandments spreadsheet settings
type SheetConfig struct {
	URL       string
	Format    string
	CacheBust bool
	Timeout   time.Duration
}

// BlogConfig holds the blog proxy settings
type BlogConfig struct {
	API     string
	RSSURL  string
	Timeout time.Duration
}

// PolicyConfig selects the normalization profile
type PolicyConfig struct {
	Profile string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	timeout := getEnvDurationOrDefault("HTTP_TIMEOUT", 30*time.Second)

	config := &Config{
		Sheet: SheetConfig{
			URL:       getEnvOrDefault("SHEET_URL", sheet.DefaultURL),
			Format:    strings.ToLower(getEnvOrDefault("SHEET_FORMAT", string(sheet.FormatAuto))),
			CacheBust: getEnvBoolOrDefault("SHEET_CACHE_BUST", true),
			Timeout:   timeout,
		},
		Blog: BlogConfig{
			API:     getEnvOrDefault("RSS2JSON_API", feed.DefaultAPI),
			RSSURL:  getEnvOrDefault("BLOG_RSS_URL", feed.DefaultRSSURL),
			Timeout: timeout,
		},
		Policy: PolicyConfig{
			Profile: getEnvOrDefault("POLICY_PROFILE", policy.DefaultProfile),
		},
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			GinMode: getEnvOrDefault("GIN_MODE", "release"),
		},
		Log: LogConfig{
			Level: getEnvOrDefault("LOG_LEVEL", "INFO"),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

// SheetReaderConfig converts the sheet settings for the sheet adapter
func (c *Config) SheetReaderConfig() sheet.Config {
	cfg := sheet.DefaultConfig()
	cfg.URL = c.Sheet.URL
	cfg.Format = sheet.Format(c.Sheet.Format)
	cfg.CacheBust = c.Sheet.CacheBust
	cfg.Timeout = c.Sheet.Timeout
	return cfg
}

// FeedReaderConfig converts the blog settings for the feed adapter
func (c *Config) FeedReaderConfig() feed.Config {
	return feed.Config{
		API:     c.Blog.API,
		RSSURL:  c.Blog.RSSURL,
		Timeout: c.Blog.Timeout,
	}
}

func validateConfig(config *Config) error {
	if !absoluteURL(config.Sheet.URL) {
		return errors.ConfigInvalid("SHEET_URL must be an absolute URL")
	}
	switch sheet.Format(config.Sheet.Format) {
	case sheet.FormatCSV, sheet.FormatXLSX, sheet.FormatAuto:
	default:
		return errors.ConfigInvalid("SHEET_FORMAT must be csv, xlsx or auto")
	}
	if !absoluteURL(config.Blog.API) {
		return errors.ConfigInvalid("RSS2JSON_API must be an absolute URL")
	}
	if !absoluteURL(config.Blog.RSSURL) {
		return errors.ConfigInvalid("BLOG_RSS_URL must be an absolute URL")
	}
	if config.Sheet.Timeout <= 0 {
		return errors.ConfigInvalid("HTTP_TIMEOUT must be positive")
	}
	if !slices.Contains(policy.Names(), config.Policy.Profile) {
		return errors.ConfigInvalid("unknown POLICY_PROFILE " + strconv.Quote(config.Policy.Profile))
	}
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT is required")
	}
	return nil
}

func absoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.Scheme != "" && u.Host != ""
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		if seconds, err := strconv.Atoi(value); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultValue
}
