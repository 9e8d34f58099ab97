package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/openlighting/olatui/internal/tui/styles"
	"github.com/openlighting/olatui/internal/util"
)

// RenderStatusLine draws the free channel summary on the left and the
// latest error or info message on the right, width columns wide.
func RenderStatusLine(summary, errMsg, info string, width int) string {
	if width <= 0 {
		return ""
	}
	left := " " + summary
	var right string
	switch {
	case errMsg != "":
		right = styles.ErrorMsg.Render(errMsg)
	case info != "":
		right = styles.SuccessMsg.Render(info)
	}

	room := width - lipgloss.Width(left) - 2
	if right != "" && room > 3 {
		right = util.TruncateANSI(right, room)
	} else {
		right = ""
	}
	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right)-1, 1)
	line := left + strings.Repeat(" ", gap) + right + " "
	return styles.StatusBar.Render(util.TruncateANSI(line, width))
}
