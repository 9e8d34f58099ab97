package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/openlighting/olatui/internal/errors"
	"github.com/openlighting/olatui/internal/patcher"
	"github.com/openlighting/olatui/internal/tui/view"
)

var patchCmd = &cobra.Command{
	Use:   "patch",
	Short: "Show or change the DMX patch of a universe",
	Long: `Show or change the DMX start addresses of the RDM responders on a
universe without starting the TUI. Every subcommand needs --universe.`,
}

var patchShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the patch grid and free channels",
	Long: `Print the 512 channels of a universe eight to a row, with one line per
track of overlapping devices, followed by the free channel summary.

Output is plain ASCII when stdout is not a terminal or --plain is given.`,
	Args: cobra.NoArgs,
	RunE: runPatchShow,
}

var patchMoveCmd = &cobra.Command{
	Use:     "move",
	Short:   "Change the start address of a device",
	Example: `  olatui patch move --universe 1 --uid 7a70:00000001 --start 17`,
	Args:    cobra.NoArgs,
	RunE:    runPatchMove,
}

var patchAutoCmd = &cobra.Command{
	Use:   "auto",
	Short: "Spread all devices over the universe",
	Long: `Assign new start addresses to every device on the universe.

When all footprints fit they are laid end to end, smallest first. Otherwise
devices are placed in overlapping rounds, largest first. Use --dry-run to
print the plan without writing it.`,
	Args: cobra.NoArgs,
	RunE: runPatchAuto,
}

var patchPersonalityCmd = &cobra.Command{
	Use:     "personality",
	Short:   "Select the DMX personality of a device",
	Example: `  olatui patch personality --universe 1 --uid 7a70:00000002 --index 2`,
	Args:    cobra.NoArgs,
	RunE:    runPatchPersonality,
}

func init() {
	rootCmd.AddCommand(patchCmd)
	patchCmd.AddCommand(patchShowCmd)
	patchCmd.AddCommand(patchMoveCmd)
	patchCmd.AddCommand(patchAutoCmd)
	patchCmd.AddCommand(patchPersonalityCmd)

	patchShowCmd.Flags().Bool("plain", false, "disable colors and styling")

	patchMoveCmd.Flags().String("uid", "", "device uid (mmmm:dddddddd)")
	patchMoveCmd.Flags().Int("start", 0, "new start address (1-512)")
	_ = patchMoveCmd.MarkFlagRequired("uid")
	_ = patchMoveCmd.MarkFlagRequired("start")

	patchAutoCmd.Flags().Bool("dry-run", false, "print the plan without writing it")

	patchPersonalityCmd.Flags().String("uid", "", "device uid (mmmm:dddddddd)")
	patchPersonalityCmd.Flags().Int("index", 0, "personality number, starting at 1")
	_ = patchPersonalityCmd.MarkFlagRequired("uid")
	_ = patchPersonalityCmd.MarkFlagRequired("index")
}

// loadPatch reads the devices of universe and lays them out.
func loadPatch(ctx context.Context, env *environment, universe int) (*patcher.Patcher, string, error) {
	info, err := env.snap.UniverseInfo(ctx, universe)
	if err != nil {
		return nil, "", err
	}
	infos, err := env.snap.Devices(ctx, universe)
	if err != nil {
		return nil, "", err
	}

	devices := make([]*patcher.Device, len(infos))
	for i, info := range infos {
		devices[i] = patcher.NewDevice(info)
	}
	p := patcher.New(patcher.Config{
		CellWidth:  env.cfg.Patcher.CellWidth,
		UnitHeight: env.cfg.Patcher.UnitHeight,
	}, env.logger.WithUniverse(universe))
	if err := p.SetDevices(universe, devices); err != nil {
		return nil, "", err
	}
	return p, info.Name, nil
}

func runPatchShow(cmd *cobra.Command, args []string) error {
	universe, err := universeFlag(cmd)
	if err != nil {
		return err
	}
	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	defer env.close()

	p, name, err := loadPatch(cmd.Context(), env, universe)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	force, _ := cmd.Flags().GetBool("plain")
	plain := plainOutput(out, force)

	// Narrow the cells so a row fits the terminal.
	width := env.cfg.Patcher.CellWidth
	if isTerminal(out) {
		width = min(width, max(terminalWidth(out)/patcher.ChannelsPerRow, 4))
	}

	fmt.Fprintf(out, "Universe %d: %s\n\n", universe, name)
	lines := view.RenderGrid(p.Grid(), view.GridOptions{
		CellWidth: width,
		Unit:      1,
		Plain:     plain,
	})
	for _, line := range lines {
		fmt.Fprintln(out, strings.TrimRight(line, " "))
	}
	fmt.Fprintln(out)
	printSummary(out, p)
	return nil
}

func printSummary(out io.Writer, p *patcher.Patcher) {
	fmt.Fprintln(out, p.FreeChannels())
	if depth, channel := deepestOverlap(p.Layout()); depth > 1 {
		fmt.Fprintf(out, "Deepest overlap: %d devices at channel %d\n", depth, channel)
	}
	for _, d := range p.Layout().Overflowing() {
		fmt.Fprintf(out, "warning: %s (%s) runs past channel %d\n", d.Name(), d.UID, patcher.NumChannels)
	}
}

// deepestOverlap returns the largest number of devices sharing a channel
// and the first channel where it occurs.
func deepestOverlap(l *patcher.Layout) (depth, channel int) {
	for ch := 1; ch <= patcher.NumChannels; ch++ {
		if d := l.Depth(ch); d > depth {
			depth, channel = d, ch
		}
	}
	return depth, channel
}

func runPatchMove(cmd *cobra.Command, args []string) error {
	universe, err := universeFlag(cmd)
	if err != nil {
		return err
	}
	uid, _ := cmd.Flags().GetString("uid")
	start, _ := cmd.Flags().GetInt("start")

	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	defer env.close()

	p, _, err := loadPatch(cmd.Context(), env, universe)
	if err != nil {
		return err
	}
	d, err := p.Device(uid)
	if err != nil {
		return err
	}
	old := d.Start
	if err := p.SetStartAddress(uid, start); err != nil {
		return err
	}
	if err := env.snap.SetStartAddress(cmd.Context(), universe, uid, start); err != nil {
		return fmt.Errorf("failed to write start address: %w", err)
	}
	env.logger.Info("start address changed", "universe", universe, "uid", uid, "old", old, "new", start)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s moved from %d to %d\n", uid, old, start)
	printSummary(out, p)
	return nil
}

func runPatchAuto(cmd *cobra.Command, args []string) error {
	universe, err := universeFlag(cmd)
	if err != nil {
		return err
	}
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	defer env.close()

	ctx := cmd.Context()
	p, _, err := loadPatch(ctx, env, universe)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	plan := p.AutoPatch()
	if len(plan) == 0 {
		fmt.Fprintln(out, "Nothing to patch")
		return nil
	}
	for _, c := range plan {
		fmt.Fprintf(out, "%-14s %-24s %3d -> %3d\n", c.Device.UID, c.Device.Name(), c.Device.Start, c.Start)
	}
	if dryRun {
		return nil
	}

	// Each write stands alone; the ones that succeed are kept.
	var errs []error
	applied := 0
	for _, c := range plan {
		uid := c.Device.UID
		if err := env.snap.SetStartAddress(ctx, universe, uid, c.Start); err != nil {
			errs = append(errs, errors.NewPatchError("write start address", err).WithUID(uid).WithUniverse(universe))
			continue
		}
		if err := p.SetStartAddress(uid, c.Start); err != nil {
			errs = append(errs, err)
			continue
		}
		applied++
	}
	env.logger.Info("auto patch", "universe", universe, "applied", applied, "failed", len(errs))

	fmt.Fprintf(out, "\nMoved %d of %d devices\n", applied, len(plan))
	printSummary(out, p)
	if len(errs) > 0 {
		return fmt.Errorf("auto patch incomplete: %w", errors.Join(errs...))
	}
	return nil
}

func runPatchPersonality(cmd *cobra.Command, args []string) error {
	universe, err := universeFlag(cmd)
	if err != nil {
		return err
	}
	uid, _ := cmd.Flags().GetString("uid")
	index, _ := cmd.Flags().GetInt("index")

	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	defer env.close()

	ctx := cmd.Context()
	p, _, err := loadPatch(ctx, env, universe)
	if err != nil {
		return err
	}
	if _, err := p.Device(uid); err != nil {
		return err
	}
	footprint, err := env.snap.SetPersonality(ctx, universe, uid, index)
	if err != nil {
		return fmt.Errorf("failed to select personality: %w", err)
	}
	if err := p.SetFootprint(uid, footprint); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: personality %d, %d channels\n", uid, index, footprint)
	printSummary(out, p)
	return nil
}
