package config

import (
	"strings"
	"testing"
	"time"
)

func TestValidationError_Error(t *testing.T) {
	err := ValidationError{Field: "source.workers", Value: 0, Message: "must be between 1 and 32"}
	want := "source.workers: must be between 1 and 32 (got: 0)"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestValidationErrors_Error(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		if got := ValidationErrors(nil).Error(); got != "" {
			t.Errorf("Error() = %q, want empty", got)
		}
	})

	t.Run("single", func(t *testing.T) {
		errs := ValidationErrors{{Field: "a", Value: 1, Message: "bad"}}
		if got := errs.Error(); got != "a: bad (got: 1)" {
			t.Errorf("Error() = %q", got)
		}
	})

	t.Run("multiple", func(t *testing.T) {
		errs := ValidationErrors{
			{Field: "a", Value: 1, Message: "bad"},
			{Field: "b", Value: 2, Message: "worse"},
		}
		got := errs.Error()
		if !strings.HasPrefix(got, "2 validation errors:") {
			t.Errorf("Error() = %q, want count prefix", got)
		}
		if !strings.Contains(got, "1. a: bad") || !strings.Contains(got, "2. b: worse") {
			t.Errorf("Error() = %q, want numbered entries", got)
		}
	})
}

func TestConfig_Validate_DefaultConfig(t *testing.T) {
	if errs := Default().Validate(); len(errs) != 0 {
		t.Errorf("default config should be valid, got: %v", errs)
	}
}

func hasField(errs []ValidationError, field string) bool {
	for _, err := range errs {
		if err.Field == field {
			return true
		}
	}
	return false
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{name: "poll interval too short", mutate: func(c *Config) { c.Source.PollInterval = 10 * time.Millisecond }, wantField: "source.poll_interval"},
		{name: "zero workers", mutate: func(c *Config) { c.Source.Workers = 0 }, wantField: "source.workers"},
		{name: "too many workers", mutate: func(c *Config) { c.Source.Workers = 33 }, wantField: "source.workers"},
		{name: "narrow cells", mutate: func(c *Config) { c.Patcher.CellWidth = 3 }, wantField: "patcher.cell_width"},
		{name: "wide cells", mutate: func(c *Config) { c.Patcher.CellWidth = 33 }, wantField: "patcher.cell_width"},
		{name: "zero unit height", mutate: func(c *Config) { c.Patcher.UnitHeight = 0 }, wantField: "patcher.unit_height"},
		{name: "tall units", mutate: func(c *Config) { c.Patcher.UnitHeight = 5 }, wantField: "patcher.unit_height"},
		{name: "narrow sidebar", mutate: func(c *Config) { c.TUI.SidebarWidth = 10 }, wantField: "tui.sidebar_width"},
		{name: "unknown log level", mutate: func(c *Config) { c.Logging.Level = "verbose" }, wantField: "logging.level"},
		{name: "uppercase log level", mutate: func(c *Config) { c.Logging.Level = "INFO" }, wantField: "logging.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			errs := cfg.Validate()
			if !hasField(errs, tt.wantField) {
				t.Errorf("expected error for %s, got %v", tt.wantField, errs)
			}
			if len(errs) != 1 {
				t.Errorf("got %d errors, want 1: %v", len(errs), errs)
			}
		})
	}
}

func TestConfig_Validate_Accepted(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "empty log level", mutate: func(c *Config) { c.Logging.Level = "" }},
		{name: "empty filter", mutate: func(c *Config) { c.TUI.UniverseFilter = "" }},
		{name: "brace filter", mutate: func(c *Config) { c.TUI.UniverseFilter = "{Stage,Truss}*" }},
		{name: "boundary workers", mutate: func(c *Config) { c.Source.Workers = MaxWorkers }},
		{name: "boundary cell width", mutate: func(c *Config) { c.Patcher.CellWidth = MinCellWidth }},
		{name: "minimum poll", mutate: func(c *Config) { c.Source.PollInterval = MinPollInterval }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if errs := cfg.Validate(); len(errs) != 0 {
				t.Errorf("unexpected errors: %v", errs)
			}
		})
	}
}

func TestConfig_Validate_MultipleErrors(t *testing.T) {
	cfg := Default()
	cfg.Source.Workers = -1
	cfg.Patcher.CellWidth = 0
	cfg.Logging.Level = "loud"

	if errs := cfg.Validate(); len(errs) != 3 {
		t.Errorf("got %d errors, want 3: %v", len(errs), errs)
	}
}

func TestValidLogLevels(t *testing.T) {
	levels := ValidLogLevels()
	for _, want := range []string{"debug", "info", "warn", "error"} {
		found := false
		for _, l := range levels {
			if l == want {
				found = true
			}
		}
		if !found {
			t.Errorf("ValidLogLevels() missing %q", want)
		}
	}
}
