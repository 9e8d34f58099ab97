package view

import (
	"strconv"
	"strings"

	"github.com/openlighting/olatui/internal/ola"
	"github.com/openlighting/olatui/internal/tui/styles"
	"github.com/openlighting/olatui/internal/util"
)

// Column is one table column. A zero Width takes the remaining space.
type Column struct {
	Title string
	Width int
}

// RenderTable draws a header line and one line per row into exactly
// height lines of width columns.
func RenderTable(columns []Column, rows [][]string, width, height int, plain bool) string {
	widths := columnWidths(columns, width)

	header := make([]string, len(columns))
	for i, c := range columns {
		header[i] = util.PadLabel(c.Title, widths[i])
	}
	head := strings.Join(header, " ")
	if !plain {
		head = styles.TableHeader.Render(head)
	}

	lines := []string{head}
	if len(rows) == 0 {
		empty := util.PadLabel("(none)", width)
		if !plain {
			empty = styles.Muted.Render(empty)
		}
		lines = append(lines, empty)
	}
	for _, row := range rows {
		cells := make([]string, len(columns))
		for i := range columns {
			v := ""
			if i < len(row) {
				v = row[i]
			}
			cells[i] = util.PadLabel(v, widths[i])
		}
		lines = append(lines, strings.Join(cells, " "))
	}
	if height <= 0 {
		return strings.Join(lines, "\n")
	}
	return fitLines(lines, width, height)
}

func columnWidths(columns []Column, width int) []int {
	widths := make([]int, len(columns))
	used, flexible := max(len(columns)-1, 0), 0
	for i, c := range columns {
		if c.Width > 0 {
			widths[i] = c.Width
			used += c.Width
		} else {
			flexible++
		}
	}
	if flexible > 0 {
		share := max((width-used)/flexible, 4)
		for i := range widths {
			if widths[i] == 0 {
				widths[i] = share
			}
		}
	}
	return widths
}

// UIDColumns are the columns of the responder table.
var UIDColumns = []Column{{"UID", 14}, {"Manufacturer", 20}, {"Device", 0}}

// UIDRows formats responders for RenderTable.
func UIDRows(uids []ola.UID) [][]string {
	rows := make([][]string, len(uids))
	for i, u := range uids {
		rows[i] = []string{u.String(), u.Manufacturer, u.Device}
	}
	return rows
}

// PortColumns are the columns of the port table.
var PortColumns = []Column{{"Dir", 4}, {"Port", 12}, {"Priority", 8}, {"Device", 20}, {"Description", 0}}

// PortRows formats ports for RenderTable.
func PortRows(ports []ola.Port) [][]string {
	rows := make([][]string, len(ports))
	for i, p := range ports {
		dir := "in"
		if p.IsOutput {
			dir = "out"
		}
		rows[i] = []string{dir, p.ID, strconv.Itoa(p.Priority), p.Device, p.Description}
	}
	return rows
}

// SectionColumns are the columns of the RDM section table.
var SectionColumns = []Column{{"Section", 28}, {"Id", 24}, {"Hint", 0}}

// SectionRows formats RDM sections for RenderTable.
func SectionRows(sections []ola.Section) [][]string {
	rows := make([][]string, len(sections))
	for i, s := range sections {
		rows[i] = []string{s.Name, s.ID, s.Hint}
	}
	return rows
}

// DeviceSectionColumns are the columns of a responder's section contents.
var DeviceSectionColumns = []Column{{"Section", 24}, {"Item", 24}, {"Value", 0}}

// DeviceSectionRows formats the sections of one responder for
// RenderTable. The section name is shown on its first line only, and
// editable items are marked with "*".
func DeviceSectionRows(sections []ola.DeviceSection) [][]string {
	var rows [][]string
	for _, s := range sections {
		switch {
		case s.Info == nil:
			continue
		case s.Info.Error != "":
			rows = append(rows, []string{s.Name, "error", s.Info.Error})
			continue
		}
		name := s.Name
		for _, it := range s.Info.Items {
			if it.Type == ola.ItemHidden {
				continue
			}
			desc := it.Description
			if it.Editable() {
				desc += " *"
			}
			rows = append(rows, []string{name, desc, it.Text()})
			name = ""
		}
	}
	return rows
}

// RenderMessage draws a single muted line into a height by width box.
func RenderMessage(msg string, width, height int) string {
	return fitLines([]string{styles.Muted.Render(util.PadLabel(msg, width))}, width, max(height, 1))
}
