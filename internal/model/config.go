package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// MailConfig locates the maildir tree and its special folders.
type MailConfig struct {
	// Root is the directory holding all maildir folders.
	Root string `mapstructure:"root" yaml:"root"`

	// ArchiveFolder receives archived messages.
	ArchiveFolder string `mapstructure:"archive_folder" yaml:"archive_folder"`

	// OutboxFolder receives composed drafts.
	OutboxFolder string `mapstructure:"outbox_folder" yaml:"outbox_folder"`
}

// StoreConfig holds settings for the contact database.
type StoreConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	Theme          string `mapstructure:"theme" yaml:"theme"`
	PollIntervalMs int    `mapstructure:"poll_interval_ms" yaml:"poll_interval_ms"`
}

// LogConfig controls the structured log output.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	File  string `mapstructure:"file" yaml:"file"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Mail    MailConfig    `mapstructure:"mail" yaml:"mail"`
	Store   StoreConfig   `mapstructure:"store" yaml:"store"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
}

// homeDir returns the user's home directory, or "." when it is unknown.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/noxmail/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(homeDir(), ".config", "noxmail", "config.yaml")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	home := homeDir()
	return &AppConfig{
		Mail: MailConfig{
			Root:          filepath.Join(home, ".Mail"),
			ArchiveFolder: "Archive",
			OutboxFolder:  "Outbox",
		},
		Store: StoreConfig{
			Path: filepath.Join(home, ".noxmail.db"),
		},
		Display: DisplayConfig{
			Theme:          "default",
			PollIntervalMs: 50,
		},
		Log: LogConfig{
			Level: "info",
			File:  filepath.Join(home, ".config", "noxmail", "nox.log"),
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	def := defaultAppConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("mail.root", def.Mail.Root)
	v.SetDefault("mail.archive_folder", def.Mail.ArchiveFolder)
	v.SetDefault("mail.outbox_folder", def.Mail.OutboxFolder)
	v.SetDefault("store.path", def.Store.Path)
	v.SetDefault("display.theme", def.Display.Theme)
	v.SetDefault("display.poll_interval_ms", def.Display.PollIntervalMs)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.file", def.Log.File)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return def, nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return def, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.Mail.Root = expandHome(cfg.Mail.Root)
	cfg.Store.Path = expandHome(cfg.Store.Path)
	cfg.Log.File = expandHome(cfg.Log.File)

	if cfg.Display.PollIntervalMs <= 0 {
		cfg.Display.PollIntervalMs = def.Display.PollIntervalMs
	}

	return cfg, nil
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

	v.Set("mail", cfg.Mail)
	v.Set("store", cfg.Store)
	v.Set("display", cfg.Display)
	v.Set("log", cfg.Log)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}

// expandHome resolves a leading "~/" against the home directory.
func expandHome(p string) string {
	if p == "~" {
		return homeDir()
	}
	if strings.HasPrefix(p, "~/") {
		return filepath.Join(homeDir(), p[2:])
	}
	return p
}
