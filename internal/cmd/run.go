package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/openlighting/olatui/internal/config"
	"github.com/openlighting/olatui/internal/event"
	"github.com/openlighting/olatui/internal/source"
	"github.com/openlighting/olatui/internal/tui"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the patch panel TUI",
	Long: `Start the terminal UI. This is also what 'olatui' without a subcommand does.

The snapshot is re-read every source.poll_interval and whenever a file in it
changes. Pass --universe to open a universe straight away.`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	defer env.close()

	universe, err := cmd.Flags().GetInt("universe")
	if err != nil {
		return err
	}

	bus := event.NewBus(env.logger)
	poller := source.NewPoller(env.snap, bus, source.PollerConfig{
		Interval: env.cfg.Source.PollInterval,
		Watch:    env.cfg.Source.Watch,
	}, env.logger)

	app, err := tui.New(tuiConfig(env.cfg, universe), env.snap, poller, bus, env.logger)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	// Only the log level is reloaded; the rest applies on the next start.
	if viper.ConfigFileUsed() != "" {
		config.Watch(func(cfg *config.Config) {
			env.logger.SetLevel(cfg.Logging.Level)
			env.logger.Info("configuration reloaded", "level", cfg.Logging.Level)
		}, func(err error) {
			env.logger.Warn("ignoring invalid configuration change", "error", err)
		})
	}

	env.logger.Info("starting", "dir", env.cfg.Source.Dir, "universe", universe)
	if err := app.Run(cmd.Context()); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

func tuiConfig(cfg *config.Config, universe int) tui.Config {
	return tui.Config{
		Mouse:          cfg.TUI.Mouse,
		SidebarWidth:   cfg.TUI.SidebarWidth,
		UniverseFilter: cfg.TUI.UniverseFilter,
		CellWidth:      cfg.Patcher.CellWidth,
		UnitHeight:     cfg.Patcher.UnitHeight,
		Universe:       universe,
	}
}
