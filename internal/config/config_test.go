package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg == nil {
		t.Fatal("Default() returned nil")
	}

	if cfg.Source.PollInterval != 5*time.Second {
		t.Errorf("Source.PollInterval = %v, want 5s", cfg.Source.PollInterval)
	}
	if cfg.Source.Workers != 4 {
		t.Errorf("Source.Workers = %d, want 4", cfg.Source.Workers)
	}
	if !cfg.Source.Watch {
		t.Error("Source.Watch should be true by default")
	}

	if cfg.Patcher.CellWidth != 9 {
		t.Errorf("Patcher.CellWidth = %d, want 9", cfg.Patcher.CellWidth)
	}
	if cfg.Patcher.UnitHeight != 1 {
		t.Errorf("Patcher.UnitHeight = %d, want 1", cfg.Patcher.UnitHeight)
	}

	if !cfg.TUI.Mouse {
		t.Error("TUI.Mouse should be true by default")
	}
	if cfg.TUI.UniverseFilter != "*" {
		t.Errorf("TUI.UniverseFilter = %q, want %q", cfg.TUI.UniverseFilter, "*")
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "info")
	}
}

func TestConfigDir(t *testing.T) {
	t.Run("with XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/custom/config")
		if got, want := ConfigDir(), "/custom/config/olatui"; got != want {
			t.Errorf("ConfigDir() = %q, want %q", got, want)
		}
	})

	t.Run("without XDG_CONFIG_HOME", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", "")
		t.Setenv("HOME", home)
		if got, want := ConfigDir(), filepath.Join(home, ".config", "olatui"); got != want {
			t.Errorf("ConfigDir() = %q, want %q", got, want)
		}
	})
}

func TestConfigFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	if got, want := ConfigFile(), "/custom/config/olatui/config.yaml"; got != want {
		t.Errorf("ConfigFile() = %q, want %q", got, want)
	}
}

func TestLogDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")

	cfg := LoggingConfig{}
	if got, want := cfg.LogDir(), "/custom/config/olatui/logs"; got != want {
		t.Errorf("LogDir() = %q, want %q", got, want)
	}
	cfg.Dir = "/var/log/olatui"
	if got := cfg.LogDir(); got != "/var/log/olatui" {
		t.Errorf("LogDir() = %q with explicit dir", got)
	}
}

func TestLoadFrom(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		v := viper.New()
		applyDefaults(v)

		cfg, err := LoadFrom(v)
		if err != nil {
			t.Fatalf("LoadFrom() error: %v", err)
		}
		if *cfg != *Default() {
			t.Errorf("LoadFrom() = %+v, want defaults", cfg)
		}
	})

	t.Run("string values are decoded", func(t *testing.T) {
		v := viper.New()
		applyDefaults(v)
		v.Set("source.poll_interval", "750ms")
		v.Set("source.workers", "8")
		v.Set("tui.mouse", "false")

		cfg, err := LoadFrom(v)
		if err != nil {
			t.Fatalf("LoadFrom() error: %v", err)
		}
		if cfg.Source.PollInterval != 750*time.Millisecond {
			t.Errorf("PollInterval = %v, want 750ms", cfg.Source.PollInterval)
		}
		if cfg.Source.Workers != 8 {
			t.Errorf("Workers = %d, want 8", cfg.Source.Workers)
		}
		if cfg.TUI.Mouse {
			t.Error("Mouse should be false")
		}
	})

	t.Run("invalid values are rejected", func(t *testing.T) {
		v := viper.New()
		applyDefaults(v)
		v.Set("source.workers", 0)
		v.Set("patcher.cell_width", 100)

		_, err := LoadFrom(v)
		errs, ok := err.(ValidationErrors)
		if !ok {
			t.Fatalf("LoadFrom() error = %v, want ValidationErrors", err)
		}
		if len(errs) != 2 {
			t.Errorf("got %d validation errors, want 2: %v", len(errs), errs)
		}
	})
}
