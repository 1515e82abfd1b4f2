// Package config loads the krd settings from defaults, an optional krd.yaml file and
// KRD_ environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/etnz/krd"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load, e.g. KRD_LOG_LEVEL.
const EnvPrefix = "KRD"

// Config holds every setting of the krd command line and server.
type Config struct {
	PeriodsPerYear int          `mapstructure:"periods_per_year"`
	DaysPerYear    float64      `mapstructure:"days_per_year"`
	Compounding    string       `mapstructure:"compounding"`
	Workers        int          `mapstructure:"workers"`
	Currency       string       `mapstructure:"currency"`
	Log            LogConfig    `mapstructure:"log"`
	Server         ServerConfig `mapstructure:"server"`
	Assist         AssistConfig `mapstructure:"assist"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // console or json
}

// ServerConfig holds the HTTP API settings.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// AssistConfig holds the assistant settings.
type AssistConfig struct {
	Model string `mapstructure:"model"`
}

// Load reads the configuration.
//
// When path is empty, krd.yaml is searched in the current directory then in
// $HOME/.krd, and a missing file is not an error. An explicit path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("krd")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(filepath.Join(homeDir(), ".krd"))
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// Default returns the configuration without any file or environment.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// defaults always decode
	_ = v.Unmarshal(&cfg)
	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("periods_per_year", krd.DefaultPeriodsPerYear)
	v.SetDefault("days_per_year", krd.DefaultDaysPerYear)
	v.SetDefault("compounding", krd.Discrete.String())
	v.SetDefault("workers", runtime.GOMAXPROCS(0))
	v.SetDefault("currency", "EUR")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("server.addr", ":8080")

	v.SetDefault("assist.model", "gemini-2.5-flash")
}

// Convention returns the validated day and period convention.
func (c *Config) Convention() (krd.Convention, error) {
	conv := krd.Convention{PeriodsPerYear: c.PeriodsPerYear, DaysPerYear: c.DaysPerYear}
	if err := conv.Validate(); err != nil {
		return krd.Convention{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return conv, nil
}

// Mode returns the configured compounding mode.
func (c *Config) Mode() (krd.Compounding, error) {
	m, err := krd.ParseCompounding(c.Compounding)
	if err != nil {
		return 0, fmt.Errorf("invalid configuration: %w", err)
	}
	return m, nil
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
