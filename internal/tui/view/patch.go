package view

import (
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/openlighting/olatui/internal/patcher"
	"github.com/openlighting/olatui/internal/tui/styles"
	"github.com/openlighting/olatui/internal/util"
)

// GridOptions controls RenderGrid.
type GridOptions struct {
	// CellWidth is the width of one channel in columns.
	CellWidth int
	// Unit is the number of lines per track.
	Unit int
	// Plain disables styling.
	Plain bool
	// Selected is the uid of the highlighted device.
	Selected string
}

func (o GridOptions) normalized() GridOptions {
	o.CellWidth = max(o.CellWidth, 1)
	o.Unit = max(o.Unit, 1)
	return o
}

// RenderGrid draws a patch grid, one string per screen line. Every grid row
// takes g.RowHeight(opts.Unit) lines and every line is
// patcher.ChannelsPerRow*opts.CellWidth columns wide, so line and column
// numbers are panel coordinates.
func RenderGrid(g *patcher.Grid, opts GridOptions) []string {
	opts = opts.normalized()
	width := patcher.ChannelsPerRow * opts.CellWidth
	blank := strings.Repeat(" ", width)

	lines := make([]string, 0, len(g.Rows)*g.RowHeight(opts.Unit))
	for i := range g.Rows {
		row := &g.Rows[i]
		lines = append(lines, renderTitle(row, opts))
		for range opts.Unit - 1 {
			lines = append(lines, blank)
		}
		for t := range row.Tracks {
			lines = append(lines, renderTrack(row.Tracks[t], opts, true))
			if opts.Unit > 1 {
				filler := renderTrack(row.Tracks[t], opts, false)
				for range opts.Unit - 1 {
					lines = append(lines, filler)
				}
			}
		}
	}
	return lines
}

func renderTitle(row *patcher.GridRow, opts GridOptions) string {
	var b strings.Builder
	for ch := row.FirstChannel; ch < row.FirstChannel+patcher.ChannelsPerRow; ch++ {
		b.WriteString(util.PadLabel(strconv.Itoa(ch), opts.CellWidth))
	}
	if opts.Plain {
		return b.String()
	}
	return styles.GridTitle.Render(b.String())
}

func renderTrack(cells []patcher.Cell, opts GridOptions, labelled bool) string {
	var b strings.Builder
	for i := range cells {
		b.WriteString(renderCell(&cells[i], opts, labelled))
	}
	return b.String()
}

func renderCell(c *patcher.Cell, opts GridOptions, labelled bool) string {
	w := c.Span * opts.CellWidth

	switch {
	case c.Empty():
		text := ""
		if labelled {
			text = "."
		}
		if opts.Plain {
			return util.PadLabel(text, w)
		}
		return styles.GridEmpty.Render(util.PadLabel(text, w))

	case c.Detached:
		if opts.Plain {
			return strings.Repeat(" ", w)
		}
		return styles.GridDetached.Render(strings.Repeat(" ", w))
	}

	text := ""
	if labelled {
		text = c.Device.Name()
		if c.Device.Identify {
			text = "*" + text
		}
		if c.Overflow {
			text = "!" + text
		}
	}
	if opts.Plain {
		if w < 2 {
			return util.PadLabel(text, w)
		}
		return "[" + util.PadLabel(text, w-2) + "]"
	}
	style := styles.DeviceCell(c.Device.UID, c.Device.UID == opts.Selected)
	if c.Overflow {
		style = styles.GridOverflow
	}
	return style.Render(" " + util.PadLabel(text, w-1))
}

// FloatingBlock draws the element that follows the pointer during a drag.
func FloatingBlock(d *patcher.Device, size patcher.Size, plain bool) []string {
	w, h := max(size.W, 1), max(size.H, 1)
	block := make([]string, h)
	for i := range block {
		text := ""
		if i == 0 {
			text = d.Name()
		}
		line := util.PadLabel(text, w)
		if !plain {
			line = styles.GridFloating.Render(line)
		}
		block[i] = line
	}
	return block
}

// Overlay paints block over lines with its top left corner at (x, y).
// Parts of the block outside lines are dropped. lines is not modified.
func Overlay(lines []string, x, y int, block []string) []string {
	out := slices.Clone(lines)
	x = max(x, 0)
	for i, b := range block {
		ly := y + i
		if ly < 0 || ly >= len(out) {
			continue
		}
		line := out[ly]
		left := ansi.Truncate(line, x, "")
		if pad := x - ansi.StringWidth(left); pad > 0 {
			left += strings.Repeat(" ", pad)
		}
		right := ansi.TruncateLeft(line, x+ansi.StringWidth(b), "")
		out[ly] = left + b + right
	}
	return out
}
