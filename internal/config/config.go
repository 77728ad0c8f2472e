// Package config loads server configuration from a lignin.yaml file and
// LIGNIN_* environment variables, falling back to built-in defaults.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full server configuration.
type Config struct {
	Server   ServerConfig   `json:"server" mapstructure:"server"`
	Analyzer AnalyzerConfig `json:"analyzer" mapstructure:"analyzer"`
	Logging  LoggingConfig  `json:"logging" mapstructure:"logging"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Addr            string        `json:"addr" mapstructure:"addr"`
	MaxUploadBytes  int64         `json:"maxUploadBytes" mapstructure:"maxUploadBytes"`
	ShutdownTimeout time.Duration `json:"shutdownTimeout" mapstructure:"shutdownTimeout"`
}

// AnalyzerConfig controls batch scheduling.
type AnalyzerConfig struct {
	Parallel bool `json:"parallel" mapstructure:"parallel"`
	Workers  int  `json:"workers" mapstructure:"workers"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			MaxUploadBytes:  50 << 20,
			ShutdownTimeout: 10 * time.Second,
		},
		Analyzer: AnalyzerConfig{
			Parallel: true,
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// Load reads lignin.yaml from dir, layering LIGNIN_* environment variables
// on top. A missing config file is not an error; defaults apply.
func Load(dir string) (*Config, error) {
	v := viper.New()

	def := Default()
	v.SetDefault("server.addr", def.Server.Addr)
	v.SetDefault("server.maxUploadBytes", def.Server.MaxUploadBytes)
	v.SetDefault("server.shutdownTimeout", def.Server.ShutdownTimeout)
	v.SetDefault("analyzer.parallel", def.Analyzer.Parallel)
	v.SetDefault("analyzer.workers", def.Analyzer.Workers)
	v.SetDefault("logging.format", def.Logging.Format)
	v.SetDefault("logging.level", def.Logging.Level)

	v.SetConfigName("lignin")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	v.SetEnvPrefix("LIGNIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field values that would otherwise fail at runtime.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return &Error{Field: "server.addr", Message: "must not be empty"}
	}
	if c.Server.MaxUploadBytes <= 0 {
		return &Error{Field: "server.maxUploadBytes", Message: "must be positive"}
	}
	switch c.Logging.Format {
	case "json", "human":
	default:
		return &Error{Field: "logging.format", Message: "must be json or human"}
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return &Error{Field: "logging.level", Message: "must be debug, info, warn, or error"}
	}
	return nil
}

// Error reports an invalid configuration field.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
