// Package config loads the viewer configuration with Viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// DatabaseConfig describes the remote query endpoint.
type DatabaseConfig struct {
	// URL is the libsql HTTP endpoint. Empty selects the local store.
	URL string `mapstructure:"url" yaml:"url"`

	// TimeoutSec bounds each request; 0 leaves timing to the transport.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`
}

// LocalConfig describes the local SQLite store used when no URL is set.
type LocalConfig struct {
	Path          string `mapstructure:"path" yaml:"path"`
	RetentionDays int    `mapstructure:"retention_days" yaml:"retention_days"`
}

// MailboxConfig holds the mailbox domain and paging settings.
type MailboxConfig struct {
	Domain        string `mapstructure:"domain" yaml:"domain"`
	PageSize      int    `mapstructure:"page_size" yaml:"page_size"`
	AddressPrefix string `mapstructure:"address_prefix" yaml:"address_prefix"`
}

// LogConfig controls the log file.
type LogConfig struct {
	Path  string `mapstructure:"path" yaml:"path"`
	Level string `mapstructure:"level" yaml:"level"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Local    LocalConfig    `mapstructure:"local" yaml:"local"`
	Mailbox  MailboxConfig  `mapstructure:"mailbox" yaml:"mailbox"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
}

// Remote reports whether a remote endpoint is configured.
func (c *AppConfig) Remote() bool {
	return c.Database.URL != ""
}

// Timeout returns the request timeout as a duration.
func (c *AppConfig) Timeout() time.Duration {
	return time.Duration(c.Database.TimeoutSec) * time.Second
}

// Dir returns the configuration directory, ~/.config/edgeinbox.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "edgeinbox")
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/edgeinbox/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// setDefaults registers the default value of every key.
func setDefaults(v *viper.Viper) {
	v.SetDefault("database.url", "")
	v.SetDefault("database.timeout_sec", 0)
	v.SetDefault("local.path", filepath.Join(os.TempDir(), "edgemail.db"))
	v.SetDefault("local.retention_days", 7)
	v.SetDefault("mailbox.domain", "idont.date")
	v.SetDefault("mailbox.page_size", 5)
	v.SetDefault("mailbox.address_prefix", "agent")
	v.SetDefault("log.path", filepath.Join(Dir(), "edgeinbox.log"))
	v.SetDefault("log.level", "info")
}

// bindEnv maps environment variables onto keys. EDGEINBOX_DATABASE_URL style
// names always work; the edgemail service's own variables are honoured too.
func bindEnv(v *viper.Viper) error {
	v.SetEnvPrefix("edgeinbox")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.BindEnv("database.url", "EDGEINBOX_DATABASE_URL", "LIBSQL_CLIENT_URL"); err != nil {
		return err
	}
	return v.BindEnv("mailbox.domain", "EDGEINBOX_MAILBOX_DOMAIN", "EDGEMAIL_DOMAIN")
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// A missing file is not an error. Flags in fs, when non-nil, override the
// file and environment for the keys they are bound to.
func LoadConfig(path string, fs *pflag.FlagSet) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	setDefaults(v)
	if err := bindEnv(v); err != nil {
		return nil, fmt.Errorf("binding environment: %w", err)
	}
	if fs != nil {
		if err := bindFlags(v, fs); err != nil {
			return nil, fmt.Errorf("binding flags: %w", err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); !ok {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		}
	}

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Mailbox.PageSize <= 0 {
		cfg.Mailbox.PageSize = 5
	}
	cfg.Database.URL = strings.TrimSpace(cfg.Database.URL)

	return cfg, nil
}

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"db-url":    "database.url",
	"domain":    "mailbox.domain",
	"page-size": "mailbox.page_size",
	"log-level": "log.level",
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return err
		}
	}
	return nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("database", cfg.Database)
	v.Set("local", cfg.Local)
	v.Set("mailbox", cfg.Mailbox)
	v.Set("log", cfg.Log)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
