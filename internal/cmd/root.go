package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/openlighting/olatui/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "olatui",
	Short: "Terminal patch panel for Open Lighting Architecture universes",
	Long: `olatui shows the plugins, universes and RDM responders of an OLA daemon
and lets you re-patch DMX start addresses by dragging devices on a grid of
the 512 channels of a universe.

Universe data is read from a snapshot directory laid out like the olad
JSON API (see 'olatui config set source.dir').`,
	SilenceUsage: true,
	RunE:         runTUI,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/olatui/config.yaml)")
	rootCmd.PersistentFlags().StringP("dir", "d", "", "snapshot directory (overrides source.dir)")
	rootCmd.PersistentFlags().IntP("universe", "u", 0, "universe id")
	bindFlags()
}

// bindFlags lets global flags override the matching configuration keys.
func bindFlags() {
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("source.dir", rootCmd.PersistentFlags().Lookup("dir"))
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath("$HOME/.config/olatui")
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("OLATUI")
	// e.g. OLATUI_SOURCE_DIR for source.dir
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}
