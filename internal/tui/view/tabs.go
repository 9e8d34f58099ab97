package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/openlighting/olatui/internal/tui/styles"
	"github.com/openlighting/olatui/internal/util"
)

// RenderTabs draws the tab bar, highlighting active, cut to width.
func RenderTabs(names []string, active, width int) string {
	tabs := make([]string, len(names))
	for i, name := range names {
		if i == active {
			tabs[i] = styles.TabActive.Render(name)
		} else {
			tabs[i] = styles.TabInactive.Render(name)
		}
	}
	bar := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	if lipgloss.Width(bar) > width {
		return util.TruncateANSI(bar, width)
	}
	return bar + strings.Repeat(" ", width-lipgloss.Width(bar))
}
