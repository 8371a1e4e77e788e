// Package conf loads and validates sentinel's runtime configuration.
package conf

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Trend detector strategies selectable via alerting.trend_detector.
const (
	TrendDetectorTwoPoint        = "two_point"
	TrendDetectorConsecutiveDrop = "consecutive_drop"
)

// Database holds the persistence settings.
type Database struct {
	// Driver is "sqlite" or "mysql".
	Driver string `mapstructure:"driver" yaml:"driver"`
	// DSN is the driver-specific connection string. For sqlite this is a
	// file path (or ":memory:" for tests).
	DSN string `mapstructure:"dsn" yaml:"dsn"`
}

// HTTP holds the API server settings.
type HTTP struct {
	Listen string `mapstructure:"listen" yaml:"listen"`
}

// Alerting holds the evaluation cycle settings that are process-level
// rather than per monitoring type (those live in the settings table).
type Alerting struct {
	// PollInterval is how often the live evaluation cycle runs.
	PollInterval Duration `mapstructure:"poll_interval" yaml:"poll_interval"`
	// TrendDetector selects which trend strategy governs trend alerts:
	// "two_point" (previous vs current) or "consecutive_drop"
	// (N strictly decreasing periods, N from the per-type settings).
	TrendDetector string `mapstructure:"trend_detector" yaml:"trend_detector"`
	// HistoryLimit caps how many readings are fetched per item.
	HistoryLimit int `mapstructure:"history_limit" yaml:"history_limit"`
	// SettingsCacheTTL bounds how stale cached per-type settings may be.
	SettingsCacheTTL Duration `mapstructure:"settings_cache_ttl" yaml:"settings_cache_ttl"`
	// Notifications enables the log-backed notification dispatcher.
	Notifications bool `mapstructure:"notifications" yaml:"notifications"`
}

// Settings is the full runtime configuration.
type Settings struct {
	LogLevel string   `mapstructure:"log_level" yaml:"log_level"`
	Database Database `mapstructure:"database" yaml:"database"`
	HTTP     HTTP     `mapstructure:"http" yaml:"http"`
	Alerting Alerting `mapstructure:"alerting" yaml:"alerting"`
}

// setDefaults registers the default value for every config key so the
// engine never runs unconfigured.
func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "sentinel.db")
	v.SetDefault("http.listen", ":8090")
	v.SetDefault("alerting.poll_interval", "5m")
	v.SetDefault("alerting.trend_detector", TrendDetectorTwoPoint)
	v.SetDefault("alerting.history_limit", 90)
	v.SetDefault("alerting.settings_cache_ttl", "1m")
	v.SetDefault("alerting.notifications", true)
}

// Load reads configuration from the given file (optional), environment
// variables prefixed SENTINEL_, and built-in defaults, in that priority
// order. An empty configFile skips the file lookup entirely.
func Load(configFile string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("SENTINEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	var settings Settings
	if err := v.Unmarshal(&settings, viper.DecodeHook(DurationDecodeHook())); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &settings, nil
}

// Validate checks cross-field constraints that Unmarshal cannot express.
func (s *Settings) Validate() error {
	switch s.Database.Driver {
	case "sqlite", "mysql":
	default:
		return fmt.Errorf("unsupported database driver %q", s.Database.Driver)
	}

	switch s.Alerting.TrendDetector {
	case TrendDetectorTwoPoint, TrendDetectorConsecutiveDrop:
	default:
		return fmt.Errorf("unsupported trend detector %q", s.Alerting.TrendDetector)
	}

	if s.Alerting.PollInterval.Std() < time.Second {
		return fmt.Errorf("poll interval %s is below the 1s minimum", s.Alerting.PollInterval.Std())
	}
	if s.Alerting.HistoryLimit < 2 {
		return fmt.Errorf("history limit must be at least 2, got %d", s.Alerting.HistoryLimit)
	}
	return nil
}
