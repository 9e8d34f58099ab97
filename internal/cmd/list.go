package cmd

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/openlighting/olatui/internal/ola"
	"github.com/openlighting/olatui/internal/patcher"
	"github.com/openlighting/olatui/internal/sortedlist"
	"github.com/openlighting/olatui/internal/tui/view"
	"github.com/openlighting/olatui/internal/util"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print plugins, universes or RDM responders",
}

var listPluginsCmd = &cobra.Command{
	Use:   "plugins",
	Short: "List plugins, sorted by name",
	Args:  cobra.NoArgs,
	RunE:  runListPlugins,
}

var listUniversesCmd = &cobra.Command{
	Use:   "universes",
	Short: "List universes, sorted by id",
	Long: `List universes, sorted by id. Universes whose name does not match
tui.universe_filter (or --filter) are left out.`,
	Args: cobra.NoArgs,
	RunE: runListUniverses,
}

var listUIDsCmd = &cobra.Command{
	Use:   "uids",
	Short: "List the RDM responders of a universe",
	Args:  cobra.NoArgs,
	RunE:  runListUIDs,
}

var listDevicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List start address and footprint of every responder",
	Args:  cobra.NoArgs,
	RunE:  runListDevices,
}

var (
	pluginColumns   = []view.Column{{Title: "Id", Width: 4}, {Title: "Name", Width: 0}}
	universeColumns = []view.Column{
		{Title: "Id", Width: 6}, {Title: "Name", Width: 24},
		{Title: "In", Width: 3}, {Title: "Out", Width: 3}, {Title: "RDM", Width: 0},
	}
	deviceColumns = []view.Column{
		{Title: "UID", Width: 14}, {Title: "Start", Width: 5}, {Title: "End", Width: 5},
		{Title: "Footprint", Width: 9}, {Title: "Personality", Width: 11}, {Title: "Label", Width: 0},
	}
)

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.AddCommand(listPluginsCmd)
	listCmd.AddCommand(listUniversesCmd)
	listCmd.AddCommand(listUIDsCmd)
	listCmd.AddCommand(listDevicesCmd)

	listUniversesCmd.Flags().String("filter", "", "glob over universe names (overrides tui.universe_filter)")
}

// printTable writes rows under a header, sized to the terminal.
func printTable(cmd *cobra.Command, columns []view.Column, rows [][]string) {
	out := cmd.OutOrStdout()
	plain := plainOutput(out, false)
	fmt.Fprintln(out, view.RenderTable(columns, rows, terminalWidth(out), 0, plain))
}

func runListPlugins(cmd *cobra.Command, args []string) error {
	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	defer env.close()

	list, err := env.snap.UniversePluginList(cmd.Context())
	if err != nil {
		return err
	}
	sortedlist.Sort(list.Plugins, ola.ComparePlugins)

	rows := make([][]string, len(list.Plugins))
	for i, p := range list.Plugins {
		rows[i] = []string{strconv.Itoa(p.ID), p.Name}
	}
	printTable(cmd, pluginColumns, rows)
	return nil
}

func runListUniverses(cmd *cobra.Command, args []string) error {
	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	defer env.close()

	pattern := env.cfg.TUI.UniverseFilter
	if cmd.Flags().Changed("filter") {
		pattern, _ = cmd.Flags().GetString("filter")
	}
	filter, err := util.NewNameFilter(pattern)
	if err != nil {
		return fmt.Errorf("invalid filter %q: %w", pattern, err)
	}

	list, err := env.snap.UniversePluginList(cmd.Context())
	if err != nil {
		return err
	}
	sortedlist.Sort(list.Universes, ola.CompareUniverses)

	var rows [][]string
	for _, u := range list.Universes {
		if !filter.Match(u.Name) {
			continue
		}
		rows = append(rows, []string{
			strconv.Itoa(u.ID), u.Name,
			strconv.Itoa(u.InputPorts), strconv.Itoa(u.OutputPorts), strconv.Itoa(u.RDMDevices),
		})
	}
	printTable(cmd, universeColumns, rows)
	return nil
}

func runListUIDs(cmd *cobra.Command, args []string) error {
	universe, err := universeFlag(cmd)
	if err != nil {
		return err
	}
	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	defer env.close()

	list, err := env.snap.UIDs(cmd.Context(), universe)
	if err != nil {
		return err
	}
	sortedlist.Sort(list.UIDs, ola.CompareUIDs)
	printTable(cmd, view.UIDColumns, view.UIDRows(list.UIDs))
	return nil
}

func runListDevices(cmd *cobra.Command, args []string) error {
	universe, err := universeFlag(cmd)
	if err != nil {
		return err
	}
	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	defer env.close()

	p, _, err := loadPatch(cmd.Context(), env, universe)
	if err != nil {
		return err
	}

	// Address order, the way the grid reads.
	devices := slices.Clone(p.Devices())
	slices.SortStableFunc(devices, func(a, b *patcher.Device) int {
		return cmp.Compare(a.Start, b.Start)
	})
	rows := make([][]string, len(devices))
	for i, d := range devices {
		personality := "-"
		if d.PersonalityCount > 0 {
			personality = fmt.Sprintf("%d/%d", d.Personality, d.PersonalityCount)
		}
		rows[i] = []string{
			d.UID, strconv.Itoa(d.Start), strconv.Itoa(d.End()),
			strconv.Itoa(d.Footprint), personality, d.Label,
		}
	}
	printTable(cmd, deviceColumns, rows)
	return nil
}
