package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openlighting/olatui/internal/ola"
	"github.com/openlighting/olatui/internal/sortedlist"
	"github.com/openlighting/olatui/internal/tui/view"
)

var rdmCmd = &cobra.Command{
	Use:   "rdm",
	Short: "Show or change the RDM attributes of a device",
	Long: `Read and write the RDM attribute sections of a responder, as the
attributes panel of the OLA web UI does. Every subcommand needs --universe
and --uid.`,
}

var rdmSectionsCmd = &cobra.Command{
	Use:     "sections",
	Short:   "Print every RDM section of a device",
	Long:    `Print the items of each RDM section of a device. Settable items are marked with "*".`,
	Example: `  olatui rdm sections --universe 1 --uid 7a70:00000002`,
	Args:    cobra.NoArgs,
	RunE:    runRDMSections,
}

var rdmSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change one item of an RDM section",
	Long: `Change one settable item of an RDM section. Numbers are checked against
the item's limits, booleans accept true/false or 1/0, and select items take
either the label or the value of a choice.`,
	Example: `  olatui rdm set --universe 1 --uid 7a70:00000002 --section device_label --item label --value "Spot left"`,
	Args:    cobra.NoArgs,
	RunE:    runRDMSet,
}

var rdmIdentifyCmd = &cobra.Command{
	Use:     "identify",
	Short:   "Switch the identify mode of a device",
	Example: `  olatui rdm identify --universe 1 --uid 7a70:00000002 --off`,
	Args:    cobra.NoArgs,
	RunE:    runRDMIdentify,
}

func init() {
	rootCmd.AddCommand(rdmCmd)
	rdmCmd.AddCommand(rdmSectionsCmd)
	rdmCmd.AddCommand(rdmSetCmd)
	rdmCmd.AddCommand(rdmIdentifyCmd)

	for _, c := range []*cobra.Command{rdmSectionsCmd, rdmSetCmd, rdmIdentifyCmd} {
		c.Flags().String("uid", "", "device uid (mmmm:dddddddd)")
		_ = c.MarkFlagRequired("uid")
	}

	rdmSetCmd.Flags().String("section", "", "section id, such as device_label")
	rdmSetCmd.Flags().String("item", "", "item id within the section")
	rdmSetCmd.Flags().String("value", "", "new value")
	_ = rdmSetCmd.MarkFlagRequired("section")
	_ = rdmSetCmd.MarkFlagRequired("item")
	_ = rdmSetCmd.MarkFlagRequired("value")

	rdmIdentifyCmd.Flags().Bool("off", false, "leave identify mode")
}

func runRDMSections(cmd *cobra.Command, args []string) error {
	universe, err := universeFlag(cmd)
	if err != nil {
		return err
	}
	uid, _ := cmd.Flags().GetString("uid")

	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	defer env.close()

	sections, err := env.snap.DeviceSections(cmd.Context(), universe, uid)
	if err != nil {
		return err
	}
	sortedlist.Sort(sections, func(a, b ola.DeviceSection) int {
		return ola.CompareSections(a.Section, b.Section)
	})
	printTable(cmd, view.DeviceSectionColumns, view.DeviceSectionRows(sections))
	return nil
}

func runRDMSet(cmd *cobra.Command, args []string) error {
	universe, err := universeFlag(cmd)
	if err != nil {
		return err
	}
	uid, _ := cmd.Flags().GetString("uid")
	section, _ := cmd.Flags().GetString("section")
	item, _ := cmd.Flags().GetString("item")
	value, _ := cmd.Flags().GetString("value")

	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	defer env.close()

	info, err := env.snap.SetSectionItem(cmd.Context(), universe, uid, section, item, value)
	if err != nil {
		return fmt.Errorf("failed to set %s.%s: %w", section, item, err)
	}
	env.logger.Info("section item set", "universe", universe, "uid", uid, "section", section, "item", item)

	it, _ := info.Item(item)
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s = %s\n", uid, it.Description, it.Text())
	return nil
}

func runRDMIdentify(cmd *cobra.Command, args []string) error {
	universe, err := universeFlag(cmd)
	if err != nil {
		return err
	}
	uid, _ := cmd.Flags().GetString("uid")
	off, _ := cmd.Flags().GetBool("off")

	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	defer env.close()

	if err := env.snap.SetIdentify(cmd.Context(), universe, uid, !off); err != nil {
		return fmt.Errorf("failed to set identify: %w", err)
	}
	state := "on"
	if off {
		state = "off"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: identify %s\n", uid, state)
	return nil
}
