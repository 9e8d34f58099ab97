package config

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/gobwas/glob"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "source.workers")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:\n", len(e))
	for i, err := range e {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// Limits enforced by Validate.
const (
	MinPollInterval = 100 * time.Millisecond
	MaxWorkers      = 32
	MinCellWidth    = 4
	MaxCellWidth    = 32
	MaxUnitHeight   = 4
)

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError
	errors = append(errors, c.validateSource()...)
	errors = append(errors, c.validatePatcher()...)
	errors = append(errors, c.validateTUI()...)
	errors = append(errors, c.validateLogging()...)
	return errors
}

func (c *Config) validateSource() []ValidationError {
	var errors []ValidationError

	if c.Source.PollInterval < MinPollInterval {
		errors = append(errors, ValidationError{
			Field:   "source.poll_interval",
			Value:   c.Source.PollInterval,
			Message: fmt.Sprintf("must be at least %s", MinPollInterval),
		})
	}

	if c.Source.Workers < 1 || c.Source.Workers > MaxWorkers {
		errors = append(errors, ValidationError{
			Field:   "source.workers",
			Value:   c.Source.Workers,
			Message: fmt.Sprintf("must be between 1 and %d", MaxWorkers),
		})
	}

	return errors
}

func (c *Config) validatePatcher() []ValidationError {
	var errors []ValidationError

	if c.Patcher.CellWidth < MinCellWidth || c.Patcher.CellWidth > MaxCellWidth {
		errors = append(errors, ValidationError{
			Field:   "patcher.cell_width",
			Value:   c.Patcher.CellWidth,
			Message: fmt.Sprintf("must be between %d and %d", MinCellWidth, MaxCellWidth),
		})
	}

	if c.Patcher.UnitHeight < 1 || c.Patcher.UnitHeight > MaxUnitHeight {
		errors = append(errors, ValidationError{
			Field:   "patcher.unit_height",
			Value:   c.Patcher.UnitHeight,
			Message: fmt.Sprintf("must be between 1 and %d", MaxUnitHeight),
		})
	}

	return errors
}

func (c *Config) validateTUI() []ValidationError {
	var errors []ValidationError

	if c.TUI.UniverseFilter != "" {
		if _, err := glob.Compile(c.TUI.UniverseFilter); err != nil {
			errors = append(errors, ValidationError{
				Field:   "tui.universe_filter",
				Value:   c.TUI.UniverseFilter,
				Message: fmt.Sprintf("invalid glob pattern: %v", err),
			})
		}
	}

	if c.TUI.SidebarWidth < 16 || c.TUI.SidebarWidth > 80 {
		errors = append(errors, ValidationError{
			Field:   "tui.sidebar_width",
			Value:   c.TUI.SidebarWidth,
			Message: "must be between 16 and 80",
		})
	}

	return errors
}

func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), c.Logging.Level) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	return errors
}
