// Package config provides configuration loading and validation for the
// wikireport CLI.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Sentinel validation errors.
var (
	ErrEmptySite        = errors.New("wiki site must not be empty")
	ErrEmptyUserAgent   = errors.New("wiki user agent must not be empty")
	ErrInvalidTimeout   = errors.New("wiki request timeout must be positive")
	ErrInvalidTTL       = errors.New("cache ttl must not be negative")
	ErrInvalidChartSize = errors.New("report chart limit must not be negative")
	ErrInvalidLogLevel  = errors.New("invalid logging level")
	ErrInvalidLogFormat = errors.New("invalid logging format")
)

// Default configuration values.
const (
	defaultSite       = "en.wikipedia.org"
	defaultUserAgent  = "WikiContributionReport/1.0 (https://github.com/infinitehoax/WikiContributionReport)"
	defaultChartLimit = 15
)

// Config holds all configuration for the wikireport CLI.
type Config struct {
	Wiki      WikiConfig      `mapstructure:"wiki"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Report    ReportConfig    `mapstructure:"report"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// WikiConfig holds MediaWiki source configuration.
type WikiConfig struct {
	Site           string        `mapstructure:"site"`
	UserAgent      string        `mapstructure:"user_agent"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// CacheConfig holds revision history cache configuration.
type CacheConfig struct {
	Directory string        `mapstructure:"directory"`
	TTL       time.Duration `mapstructure:"ttl"`
	Enabled   bool          `mapstructure:"enabled"`
}

// ReportConfig holds report rendering configuration.
type ReportConfig struct {
	// ChartLimit caps how many top contributors the share chart shows.
	// Zero disables the chart.
	ChartLimit int `mapstructure:"chart_limit"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SlogLevel maps the configured level name to a slog.Level. Unknown names
// fall back to info; validation rejects them before this is consulted.
func (lc LoggingConfig) SlogLevel() slog.Level {
	switch strings.ToLower(lc.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// JSON reports whether log output should be JSON-formatted.
func (lc LoggingConfig) JSON() bool {
	return strings.EqualFold(lc.Format, "json")
}

// TelemetryConfig holds OpenTelemetry export configuration. An empty
// endpoint disables export entirely.
type TelemetryConfig struct {
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
}

// LoadConfig loads configuration from file and environment variables.
// An empty path searches the working directory and ~/.config/wikireport.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName("config")
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("$HOME/.config/wikireport")
	}

	viperCfg.SetEnvPrefix("WIKIREPORT")
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := validateConfig(&config)
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

// setDefaults sets default configuration values.
func setDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("wiki.site", defaultSite)
	viperCfg.SetDefault("wiki.user_agent", defaultUserAgent)
	viperCfg.SetDefault("wiki.request_timeout", "30s")

	viperCfg.SetDefault("cache.enabled", true)
	viperCfg.SetDefault("cache.directory", "")
	viperCfg.SetDefault("cache.ttl", "24h")

	viperCfg.SetDefault("report.chart_limit", defaultChartLimit)

	viperCfg.SetDefault("logging.level", "info")
	viperCfg.SetDefault("logging.format", "text")

	viperCfg.SetDefault("telemetry.otlp_endpoint", "")
	viperCfg.SetDefault("telemetry.otlp_insecure", false)
	viperCfg.SetDefault("telemetry.sample_ratio", 1.0)
}

// validateConfig validates the configuration.
func validateConfig(config *Config) error {
	if config.Wiki.Site == "" {
		return ErrEmptySite
	}

	if config.Wiki.UserAgent == "" {
		return ErrEmptyUserAgent
	}

	if config.Wiki.RequestTimeout <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidTimeout, config.Wiki.RequestTimeout)
	}

	if config.Cache.TTL < 0 {
		return fmt.Errorf("%w: %s", ErrInvalidTTL, config.Cache.TTL)
	}

	if config.Report.ChartLimit < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidChartSize, config.Report.ChartLimit)
	}

	switch strings.ToLower(config.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, config.Logging.Level)
	}

	switch strings.ToLower(config.Logging.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, config.Logging.Format)
	}

	return nil
}
