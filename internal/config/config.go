package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// Config represents the complete olatui configuration
type Config struct {
	Source  SourceConfig  `mapstructure:"source"`
	Patcher PatcherConfig `mapstructure:"patcher"`
	TUI     TUIConfig     `mapstructure:"tui"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// SourceConfig controls where universe data is read from
type SourceConfig struct {
	// Dir is the snapshot directory laid out like the olad JSON API
	Dir string `mapstructure:"dir"`
	// PollInterval is how often the snapshot is re-read (default: 5s)
	PollInterval time.Duration `mapstructure:"poll_interval"`
	// Workers bounds the number of device records loaded concurrently (default: 4)
	Workers int `mapstructure:"workers"`
	// Watch re-reads the snapshot as soon as a file in it changes (default: true)
	Watch bool `mapstructure:"watch"`
}

// PatcherConfig controls the patch panel geometry
type PatcherConfig struct {
	// CellWidth is the width of one channel column in terminal cells (default: 9)
	CellWidth int `mapstructure:"cell_width"`
	// UnitHeight is the number of lines per track (default: 1)
	UnitHeight int `mapstructure:"unit_height"`
}

// TUIConfig controls terminal UI behavior
type TUIConfig struct {
	// Mouse enables drag and drop on the patch panel (default: true)
	Mouse bool `mapstructure:"mouse"`
	// UniverseFilter is a glob over universe names; non-matching universes are hidden (default: "*")
	UniverseFilter string `mapstructure:"universe_filter"`
	// SidebarWidth is the width of the plugin and universe sidebar (default: 28)
	SidebarWidth int `mapstructure:"sidebar_width"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Enabled controls whether logs are written at all (default: true)
	Enabled bool `mapstructure:"enabled"`
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level"`
	// Dir is where olatui.log is written (default: <config dir>/logs)
	Dir string `mapstructure:"dir"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			Dir:          "",
			PollInterval: 5 * time.Second,
			Workers:      4,
			Watch:        true,
		},
		Patcher: PatcherConfig{
			CellWidth:  9,
			UnitHeight: 1,
		},
		TUI: TUIConfig{
			Mouse:          true,
			UniverseFilter: "*",
			SidebarWidth:   28,
		},
		Logging: LoggingConfig{
			Enabled: true,
			Level:   "info",
			Dir:     "",
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	applyDefaults(viper.GetViper())
}

func applyDefaults(v *viper.Viper) {
	defaults := Default()

	// Source defaults
	v.SetDefault("source.dir", defaults.Source.Dir)
	v.SetDefault("source.poll_interval", defaults.Source.PollInterval)
	v.SetDefault("source.workers", defaults.Source.Workers)
	v.SetDefault("source.watch", defaults.Source.Watch)

	// Patcher defaults
	v.SetDefault("patcher.cell_width", defaults.Patcher.CellWidth)
	v.SetDefault("patcher.unit_height", defaults.Patcher.UnitHeight)

	// TUI defaults
	v.SetDefault("tui.mouse", defaults.TUI.Mouse)
	v.SetDefault("tui.universe_filter", defaults.TUI.UniverseFilter)
	v.SetDefault("tui.sidebar_width", defaults.TUI.SidebarWidth)

	// Logging defaults
	v.SetDefault("logging.enabled", defaults.Logging.Enabled)
	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.dir", defaults.Logging.Dir)
}

// decodeHook lets durations be written as "5s" and lists as "a,b".
func decodeHook() viper.DecoderConfigOption {
	return viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom is Load for an explicit viper instance.
func LoadFrom(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Watch calls onChange with the reloaded configuration every time the
// config file changes. Invalid edits are reported to onError and ignored.
func Watch(onChange func(*Config), onError func(error)) {
	viper.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := Load()
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		onChange(cfg)
	})
	viper.WatchConfig()
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "olatui")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".olatui"
	}
	return filepath.Join(home, ".config", "olatui")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// LogDir returns the directory log files are written to.
func (c *LoggingConfig) LogDir() string {
	if c.Dir != "" {
		return c.Dir
	}
	return filepath.Join(ConfigDir(), "logs")
}
