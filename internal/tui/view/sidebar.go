package view

import (
	"strings"

	"github.com/openlighting/olatui/internal/tui/styles"
	"github.com/openlighting/olatui/internal/util"
)

// SidebarItem is one line of a sidebar list.
type SidebarItem struct {
	Label    string
	Selected bool
}

// SidebarState is what the sidebar shows.
type SidebarState struct {
	Title     string
	Universes []SidebarItem
	Plugins   []string
	// Filter is shown under the universe heading when set.
	Filter string
}

// RenderSidebar draws the universe and plugin lists into exactly height
// lines of width columns.
func RenderSidebar(state SidebarState, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	// Item styles carry one column of padding on each side.
	inner := max(width-2, 1)

	var lines []string
	lines = append(lines, styles.SidebarTitle.Render(util.PadLabel(state.Title, width)), "")

	heading := "Universes"
	if state.Filter != "" && state.Filter != "*" {
		heading += " (" + state.Filter + ")"
	}
	lines = append(lines, styles.SidebarSectionTitle.Render(util.PadLabel(heading, width)))
	if len(state.Universes) == 0 {
		lines = append(lines, styles.Muted.Render(util.PadLabel("  none", width)))
	}
	for _, u := range state.Universes {
		label := util.PadLabel(u.Label, inner)
		if u.Selected {
			lines = append(lines, styles.SidebarItemActive.Render(label))
		} else {
			lines = append(lines, styles.SidebarItem.Render(label))
		}
	}

	lines = append(lines, "", styles.SidebarSectionTitle.Render(util.PadLabel("Plugins", width)))
	for _, p := range state.Plugins {
		lines = append(lines, styles.SidebarItem.Render(util.PadLabel(p, inner)))
	}

	return fitLines(lines, width, height)
}

// fitLines cuts or pads lines to height and pads blank lines to width.
func fitLines(lines []string, width, height int) string {
	if len(lines) > height {
		lines = lines[:height]
	}
	blank := strings.Repeat(" ", width)
	for i, l := range lines {
		if l == "" {
			lines[i] = blank
		}
	}
	for len(lines) < height {
		lines = append(lines, blank)
	}
	return strings.Join(lines, "\n")
}
