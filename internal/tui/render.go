package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"

	"github.com/openlighting/olatui/internal/tui/styles"
	"github.com/openlighting/olatui/internal/tui/view"
)

// View renders the UI
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	sidebar := view.RenderSidebar(m.sidebarState(), m.sidebarWidth(), m.height)
	sep := strings.TrimSuffix(strings.Repeat(styles.Separator.Render("│ ")+"\n", m.height), "\n")

	w := m.contentWidth()
	main := lipgloss.JoinVertical(lipgloss.Left,
		view.RenderTabs(tabNames, int(m.tab), w),
		m.renderContent(w, m.contentHeight()),
		view.RenderStatusLine(m.statusSummary(), m.errorMessage, m.infoMessage, w),
		styles.HelpBar.Render(m.help.View(m.keys)),
	)
	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, sep, main)
}

func (m Model) renderContent(width, height int) string {
	if !m.hasUniverse {
		return view.RenderMessage("Select a universe with j/k", width, height)
	}
	switch m.tab {
	case TabUIDs:
		return view.RenderTable(view.UIDColumns, view.UIDRows(m.uids.Items()), width, height, false)
	case TabPorts:
		return view.RenderTable(view.PortColumns, view.PortRows(m.ports.Items()), width, height, false)
	case TabSections:
		if m.selectedUID != "" && m.sectionsUID == m.selectedUID {
			return view.RenderTable(view.DeviceSectionColumns, view.DeviceSectionRows(m.deviceSections), width, height, false)
		}
		return view.RenderTable(view.SectionColumns, view.SectionRows(m.sections.Items()), width, height, false)
	default:
		return m.viewport.View()
	}
}

func (m Model) statusSummary() string {
	if !m.hasUniverse {
		return "No universe selected"
	}
	return fmt.Sprintf("Universe %d  %s", m.current, m.patcher.FreeChannels())
}

func (m Model) sidebarState() view.SidebarState {
	state := view.SidebarState{
		Title:  "olatui",
		Filter: m.filter.Pattern(),
	}
	for _, i := range m.visibleUniverses() {
		r := m.universes.row(i)
		state.Universes = append(state.Universes, view.SidebarItem{
			Label:    fmt.Sprintf("%d %s", r.item.ID, r.item.Name),
			Selected: r.selected,
		})
	}
	for _, p := range m.plugins.Items() {
		state.Plugins = append(state.Plugins, p.Name)
	}
	return state
}

// refreshGrid redraws the patch grid into the viewport, with the floating
// element of an active drag on top.
func (m *Model) refreshGrid() {
	lines := view.RenderGrid(m.patcher.Grid(), view.GridOptions{
		CellWidth: m.patcher.Geometry().CellWidth,
		Unit:      m.patcher.UnitHeight(),
		Selected:  m.selectedUID,
	})
	if d, pos, size, ok := m.patcher.Floating(); ok {
		lines = view.Overlay(lines, pos.X, pos.Y, view.FloatingBlock(d, size, false))
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))
}

func helpHeight(h help.Model, k help.KeyMap) int {
	return lipgloss.Height(h.View(k))
}
