// Package config provides configuration management for the designer using
// Viper for loading from files, environment variables, and command-line
// flags.
//
// The configuration file is .designer.yml; environment variables override it
// with the DESIGNER_ prefix (DESIGNER_SERVER_PORT, DESIGNER_LOG_LEVEL, ...).
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	derrors "github.com/blocklang/designer/internal/errors"
	"github.com/blocklang/designer/internal/logging"
	"github.com/spf13/viper"
)

// Defaults
const (
	DefaultHost          = "localhost"
	DefaultPort          = 8080
	DefaultMode          = "design"
	DefaultCacheSize     = 512
	DefaultWatchDebounce = 300 * time.Millisecond
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "text"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	Page     PageConfig     `mapstructure:"page" yaml:"page"`
	Designer DesignerConfig `mapstructure:"designer" yaml:"designer"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
}

type ServerConfig struct {
	Host           string   `mapstructure:"host" yaml:"host"`
	Port           int      `mapstructure:"port" yaml:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
}

type PageConfig struct {
	Model string `mapstructure:"model" yaml:"model"`
	Mode  string `mapstructure:"mode" yaml:"mode"`
}

type DesignerConfig struct {
	CacheSize     int           `mapstructure:"cache_size" yaml:"cache_size"`
	WatchDebounce time.Duration `mapstructure:"watch_debounce" yaml:"watch_debounce"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Load reads the configuration from viper, applies defaults and validates
// the result.
func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, derrors.WrapConfig(err, derrors.ErrCodeConfigInvalid, "failed to decode configuration")
	}

	// Handle allowed origins set via viper (workaround for viper slice handling)
	if viper.IsSet("server.allowed_origins") && len(config.Server.AllowedOrigins) == 0 {
		config.Server.AllowedOrigins = viper.GetStringSlice("server.allowed_origins")
	}

	applyDefaults(&config)

	if err := validateConfig(&config); err != nil {
		return nil, derrors.WrapConfig(err, derrors.ErrCodeConfigInvalid, "invalid configuration")
	}

	return &config, nil
}

func applyDefaults(config *Config) {
	if config.Server.Host == "" {
		config.Server.Host = DefaultHost
	}
	if !viper.IsSet("server.port") && config.Server.Port == 0 {
		config.Server.Port = DefaultPort
	}
	if config.Page.Mode == "" {
		config.Page.Mode = DefaultMode
	}
	if config.Designer.CacheSize == 0 {
		config.Designer.CacheSize = DefaultCacheSize
	}
	if !viper.IsSet("designer.watch_debounce") && config.Designer.WatchDebounce == 0 {
		config.Designer.WatchDebounce = DefaultWatchDebounce
	}
	if config.Log.Level == "" {
		config.Log.Level = DefaultLogLevel
	}
	if config.Log.Format == "" {
		config.Log.Format = DefaultLogFormat
	}
}

// Address returns host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// LoggerConfig builds the logger configuration of the log section
func (c *Config) LoggerConfig() *logging.LoggerConfig {
	lc := logging.DefaultConfig()
	lc.Level = logging.ParseLevel(c.Log.Level)
	lc.Format = c.Log.Format
	return lc
}

// validateConfig validates configuration values for security and correctness
func validateConfig(config *Config) error {
	if err := validateServerConfig(&config.Server); err != nil {
		return fmt.Errorf("server config: %w", err)
	}
	if err := validatePageConfig(&config.Page); err != nil {
		return fmt.Errorf("page config: %w", err)
	}
	if err := validateDesignerConfig(&config.Designer); err != nil {
		return fmt.Errorf("designer config: %w", err)
	}
	if err := validateLogConfig(&config.Log); err != nil {
		return fmt.Errorf("log config: %w", err)
	}
	return nil
}

var dangerousChars = []string{";", "&", "|", "$", "`", "(", ")", "<", ">", "\"", "'", "\\"}

// validateServerConfig validates server configuration values
func validateServerConfig(config *ServerConfig) error {
	// allow 0 for system-assigned ports in testing
	if config.Port < 0 || config.Port > 65535 {
		return fmt.Errorf("port %d is not in valid range 0-65535", config.Port)
	}

	for _, char := range dangerousChars {
		if strings.Contains(config.Host, char) {
			return fmt.Errorf("host contains dangerous character: %s", char)
		}
	}

	return nil
}

func validatePageConfig(config *PageConfig) error {
	switch config.Mode {
	case "design", "preview":
	default:
		return fmt.Errorf("mode %q must be design or preview", config.Mode)
	}

	if config.Model == "" {
		return nil
	}
	switch strings.ToLower(filepath.Ext(config.Model)) {
	case ".json", ".yaml", ".yml":
	default:
		return fmt.Errorf("page model %s must be a .json, .yaml or .yml file", config.Model)
	}
	return validatePath(config.Model)
}

func validateDesignerConfig(config *DesignerConfig) error {
	if config.CacheSize < 0 {
		return fmt.Errorf("cache_size %d must not be negative", config.CacheSize)
	}
	if config.WatchDebounce < 0 {
		return fmt.Errorf("watch_debounce %s must not be negative", config.WatchDebounce)
	}
	return nil
}

func validateLogConfig(config *LogConfig) error {
	switch strings.ToLower(config.Level) {
	case "debug", "info", "warn", "warning", "error", "fatal":
	default:
		return fmt.Errorf("unknown log level %q", config.Level)
	}
	switch config.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log format %q must be text or json", config.Format)
	}
	return nil
}

// validatePath validates a file path for security
func validatePath(path string) error {
	cleanPath := filepath.Clean(path)

	for _, char := range dangerousChars[:len(dangerousChars)-1] {
		if strings.Contains(cleanPath, char) {
			return fmt.Errorf("path contains dangerous character: %s", char)
		}
	}

	return nil
}
