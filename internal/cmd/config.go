package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/openlighting/olatui/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify olatui configuration",
	Long: `View or modify olatui configuration.

Without arguments, displays the current configuration.
Use subcommands to modify settings or create a config file.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the user's config file.

Keys use dot notation, e.g.:
  olatui config set source.dir /var/lib/olatui/snapshot
  olatui config set source.poll_interval 2s
  olatui config set patcher.cell_width 12

Valid keys:
  source.dir             - Snapshot directory
  source.poll_interval   - How often the snapshot is re-read (e.g. 5s)
  source.workers         - Device records loaded concurrently
  source.watch           - Re-read when snapshot files change (true/false)
  patcher.cell_width     - Width of one channel on the patch grid
  patcher.unit_height    - Lines per track on the patch grid
  tui.mouse              - Enable drag and drop (true/false)
  tui.universe_filter    - Glob over universe names, e.g. "stage*"
  tui.sidebar_width      - Width of the sidebar
  logging.enabled        - Write a log file (true/false)
  logging.level          - Options: debug, info, warn, error
  logging.dir            - Log directory`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long:  `Create a default config file at ~/.config/olatui/config.yaml with all available options.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path",
	RunE:  runConfigPath,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
}

type valueKind int

const (
	kindString valueKind = iota
	kindBool
	kindInt
	kindDuration
)

// settableKeys lists the keys config set accepts and how values are coerced.
var settableKeys = map[string]valueKind{
	"source.dir":           kindString,
	"source.poll_interval": kindDuration,
	"source.workers":       kindInt,
	"source.watch":         kindBool,
	"patcher.cell_width":   kindInt,
	"patcher.unit_height":  kindInt,
	"tui.mouse":            kindBool,
	"tui.universe_filter":  kindString,
	"tui.sidebar_width":    kindInt,
	"logging.enabled":      kindBool,
	"logging.level":        kindString,
	"logging.dir":          kindString,
}

// coerce converts a command line value to the type stored under key.
func coerce(key, value string) (any, error) {
	kind, ok := settableKeys[key]
	if !ok {
		keys := make([]string, 0, len(settableKeys))
		for k := range settableKeys {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		return nil, fmt.Errorf("unknown configuration key: %s\nValid keys: %s", key, strings.Join(keys, ", "))
	}

	switch kind {
	case kindBool:
		v, err := cast.ToBoolE(value)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: expected true or false", key)
		}
		return v, nil
	case kindInt:
		v, err := cast.ToIntE(value)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: expected integer", key)
		}
		return v, nil
	case kindDuration:
		v, err := cast.ToDurationE(value)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: expected a duration such as 5s", key)
		}
		return v.String(), nil
	default:
		return value, nil
	}
}

// settings returns the effective configuration as nested maps, without
// command line only keys.
func settings() map[string]any {
	all := viper.AllSettings()
	delete(all, "config")
	return all
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	// Show where config is being read from
	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "# Config file: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintln(out, "# Config file: (none - using defaults)")
	}

	if _, err := config.Load(); err != nil {
		fmt.Fprintf(out, "# Invalid configuration, defaults are used instead:\n# %s\n",
			strings.ReplaceAll(strings.TrimSpace(err.Error()), "\n", "\n# "))
	}

	data, err := yaml.Marshal(settings())
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	_, err = out.Write(data)
	return err
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := args[0]
	typedValue, err := coerce(key, args[1])
	if err != nil {
		return err
	}

	viper.Set(key, typedValue)
	if _, err := config.Load(); err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}

	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		configFile = config.ConfigFile()
	}
	if err := os.MkdirAll(filepath.Dir(configFile), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(settings())
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	if err := os.WriteFile(configFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Set %s = %v\n", key, typedValue)
	fmt.Fprintf(out, "Config saved to %s\n", configFile)
	return nil
}

const defaultConfigFile = `# olatui configuration

# Where universe data comes from
source:
  # Snapshot directory laid out like the olad JSON API
  dir: ""
  # How often the snapshot is re-read
  poll_interval: 5s
  # Device records loaded concurrently
  workers: 4
  # Re-read as soon as a file in the snapshot changes
  watch: true

# Patch grid geometry
patcher:
  # Width of one channel in terminal columns
  cell_width: 9
  # Lines per track
  unit_height: 1

# TUI (terminal user interface) settings
tui:
  # Drag devices on the patch grid with the mouse
  mouse: true
  # Only universes whose name matches this glob are listed
  universe_filter: "*"
  sidebar_width: 28

logging:
  enabled: true
  # Options: debug, info, warn, error
  level: info
  # Defaults to <config dir>/logs
  dir: ""
`

func runConfigInit(cmd *cobra.Command, args []string) error {
	configDir := config.ConfigDir()
	configFile := config.ConfigFile()

	// Check if config file already exists
	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists at %s\nUse 'olatui config set' to modify values", configFile)
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(configFile, []byte(defaultConfigFile), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created config file at %s\n", configFile)
	fmt.Fprintln(out, "Set source.dir to the snapshot directory to get started.")
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	configFile := config.ConfigFile()

	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "Active config: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintf(out, "Default path: %s (not created)\n", configFile)
	}

	// Also show config search paths
	fmt.Fprintln(out, "\nSearch paths:")
	fmt.Fprintf(out, "  1. %s\n", filepath.Join(config.ConfigDir(), "config.yaml"))
	fmt.Fprintln(out, "  2. $HOME/.config/olatui/config.yaml")
	fmt.Fprintln(out, "  3. ./config.yaml (current directory)")
	fmt.Fprintln(out, "\nEnvironment variables: OLATUI_* (e.g., OLATUI_SOURCE_DIR)")
	return nil
}
