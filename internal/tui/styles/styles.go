package styles

import (
	"hash/fnv"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Colors - all colors meet WCAG AA contrast (4.5:1) on both black and dark surfaces
	PrimaryColor   = lipgloss.Color("#A78BFA") // Purple
	SecondaryColor = lipgloss.Color("#10B981") // Green
	WarningColor   = lipgloss.Color("#F59E0B") // Amber
	ErrorColor     = lipgloss.Color("#F87171") // Red
	MutedColor     = lipgloss.Color("#9CA3AF") // Gray
	SurfaceColor   = lipgloss.Color("#1F2937") // Dark surface
	TextColor      = lipgloss.Color("#F9FAFB") // Light text
	BorderColor    = lipgloss.Color("#6B7280") // Gray
	DarkTextColor  = lipgloss.Color("#111827") // Text on device cells

	// DeviceColors are the backgrounds cycled through for device cells.
	DeviceColors = []lipgloss.Color{
		lipgloss.Color("#60A5FA"), // Blue
		lipgloss.Color("#34D399"), // Emerald
		lipgloss.Color("#FBBF24"), // Yellow
		lipgloss.Color("#F472B6"), // Pink
		lipgloss.Color("#A78BFA"), // Purple
		lipgloss.Color("#FB923C"), // Orange
		lipgloss.Color("#2DD4BF"), // Teal
		lipgloss.Color("#A3E635"), // Lime
	}

	// Convenience styles for colors
	Primary   = lipgloss.NewStyle().Foreground(PrimaryColor)
	Secondary = lipgloss.NewStyle().Foreground(SecondaryColor)
	Warning   = lipgloss.NewStyle().Foreground(WarningColor)
	Error     = lipgloss.NewStyle().Foreground(ErrorColor)
	Muted     = lipgloss.NewStyle().Foreground(MutedColor)
	Text      = lipgloss.NewStyle().Foreground(TextColor)

	// Tab styles
	TabActive = lipgloss.NewStyle().
			Bold(true).
			Foreground(TextColor).
			Background(PrimaryColor).
			Padding(0, 2)

	TabInactive = lipgloss.NewStyle().
			Foreground(MutedColor).
			Padding(0, 2)

	// Help bar
	HelpBar = lipgloss.NewStyle().
		Foreground(MutedColor)

	// Footer / status bar
	StatusBar = lipgloss.NewStyle().
			Foreground(TextColor).
			Background(SurfaceColor)

	// Sidebar styles
	SidebarItem = lipgloss.NewStyle().
			Padding(0, 1)

	SidebarItemActive = lipgloss.NewStyle().
				Bold(true).
				Foreground(TextColor).
				Background(PrimaryColor).
				Padding(0, 1)

	SidebarTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor)

	SidebarSectionTitle = lipgloss.NewStyle().
				Foreground(MutedColor)

	Separator = lipgloss.NewStyle().
			Foreground(BorderColor)

	// Table header
	TableHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor)

	// Patch grid styles
	GridTitle = lipgloss.NewStyle().
			Foreground(MutedColor)

	GridEmpty = lipgloss.NewStyle().
			Foreground(BorderColor)

	GridDetached = lipgloss.NewStyle().
			Foreground(MutedColor).
			Background(SurfaceColor)

	GridOverflow = lipgloss.NewStyle().
			Bold(true).
			Foreground(TextColor).
			Background(ErrorColor)

	GridFloating = lipgloss.NewStyle().
			Bold(true).
			Foreground(TextColor).
			Background(PrimaryColor)

	// Error message
	ErrorMsg = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	// Success message
	SuccessMsg = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			Bold(true)
)

// DeviceColor picks a stable background for a device uid.
func DeviceColor(uid string) lipgloss.Color {
	h := fnv.New32a()
	_, _ = h.Write([]byte(uid))
	return DeviceColors[h.Sum32()%uint32(len(DeviceColors))]
}

// DeviceCell returns the style of a cell drawn for the device uid.
// selected cells are underlined.
func DeviceCell(uid string, selected bool) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(DarkTextColor).
		Background(DeviceColor(uid)).
		Bold(selected).
		Underline(selected)
}
