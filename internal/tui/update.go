package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/openlighting/olatui/internal/errors"
	"github.com/openlighting/olatui/internal/event"
	"github.com/openlighting/olatui/internal/ola"
	"github.com/openlighting/olatui/internal/patcher"
)

// Messages

// addressMove is a start address change waiting to be written.
type addressMove struct {
	uid      string
	oldStart int
	newStart int
}

type addressWrittenMsg struct {
	universe int
	move     addressMove
	err      error
}

type autoPatchMsg struct {
	universe int
	applied  []addressMove
	errs     []error
	total    int
}

type identifyMsg struct {
	universe int
	uid      string
	on       bool
	err      error
}

type deviceSectionsMsg struct {
	universe int
	uid      string
	sections []ola.DeviceSection
	err      error
}

type personalityMsg struct {
	universe  int
	uid       string
	index     int
	footprint int
	err       error
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resize()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeypress(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case event.PluginListEvent:
		m.setPlugins(msg.Plugins)

	case event.UniverseListEvent:
		m.setUniverses(msg.Universes)

	case event.UIDListEvent:
		if m.hasUniverse && msg.Universe == m.current {
			m.reconcile("uids", func() error { _, err := m.uids.set(msg.UIDs); return err })
		}

	case event.DevicesEvent:
		m.setDevices(msg)

	case event.SourceErrorEvent:
		m.errorMessage = fmt.Sprintf("%s: %v", msg.Op, msg.Err)

	case addressWrittenMsg:
		m.handleAddressWritten(msg)

	case autoPatchMsg:
		m.handleAutoPatch(msg)

	case personalityMsg:
		m.handlePersonality(msg)

	case identifyMsg:
		if m.handleIdentify(msg) && m.tab == TabSections {
			return m, m.loadDeviceSections()
		}

	case deviceSectionsMsg:
		m.handleDeviceSections(msg)
	}
	return m, nil
}

// handleKeypress processes keyboard input
func (m Model) handleKeypress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.patcher.CancelDrag()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize()

	case key.Matches(msg, m.keys.Cancel):
		if m.patcher.Dragging() {
			m.patcher.CancelDrag()
			m.refreshGrid()
			m.refreshIfStale()
		}

	case key.Matches(msg, m.keys.NextTab):
		m.tab = (m.tab + 1) % numTabs
		if m.tab == TabSections {
			return m, m.loadDeviceSections()
		}

	case key.Matches(msg, m.keys.PrevTab):
		m.tab = (m.tab + numTabs - 1) % numTabs
		if m.tab == TabSections {
			return m, m.loadDeviceSections()
		}

	case key.Matches(msg, m.keys.Down):
		m.moveUniverse(1)

	case key.Matches(msg, m.keys.Up):
		m.moveUniverse(-1)

	case key.Matches(msg, m.keys.Refresh):
		if m.poller != nil {
			m.poller.Refresh()
			m.infoMessage = "Refreshing..."
		}
		if m.tab == TabSections {
			return m, m.loadDeviceSections()
		}

	case key.Matches(msg, m.keys.PageDown):
		m.scroll(m.viewport.Height)

	case key.Matches(msg, m.keys.PageUp):
		m.scroll(-m.viewport.Height)

	case key.Matches(msg, m.keys.AutoPatch):
		return m.autoPatch()

	case key.Matches(msg, m.keys.Nudge):
		return m.nudge(1)

	case key.Matches(msg, m.keys.NudgeBack):
		return m.nudge(-1)

	case key.Matches(msg, m.keys.Personality):
		return m.nextPersonality()

	case key.Matches(msg, m.keys.Identify):
		return m.toggleIdentify()
	}
	return m, nil
}

// handleMouse drives the drag resolver from mouse events on the patch tab.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.tab != TabPatch || !m.hasUniverse {
		return m, nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.scroll(-3)
		return m, nil
	case tea.MouseButtonWheelDown:
		m.scroll(3)
		return m, nil
	}

	pt := m.panelPoint(msg.X, msg.Y)
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !m.inContent(msg.X, msg.Y) || m.patcher.Dragging() {
			return m, nil
		}
		d, err := m.patcher.BeginDrag(pt)
		if err != nil {
			if !errors.Is(err, errors.ErrDeviceNotFound) {
				m.setError("drag", err)
			}
			m.selectedUID = ""
			m.refreshGrid()
			return m, nil
		}
		m.selectedUID = d.UID
		m.refreshGrid()

	case tea.MouseActionMotion:
		if m.patcher.Dragging() {
			_ = m.patcher.DragMove(pt)
			m.refreshGrid()
		}

	case tea.MouseActionRelease:
		if !m.patcher.Dragging() {
			return m, nil
		}
		drop, err := m.patcher.DragEnd(pt)
		m.refreshGrid()
		if err != nil {
			m.setError("drop", err)
			return m, nil
		}
		if !drop.Moved() {
			m.refreshIfStale()
			return m, nil
		}
		return m, m.persistMove(addressMove{
			uid:      drop.Device.UID,
			oldStart: drop.OldStart,
			newStart: drop.NewStart,
		})
	}
	return m, nil
}

func (m *Model) resize() {
	m.help.Width = m.contentWidth()
	m.viewport.Width = m.contentWidth()
	m.viewport.Height = m.contentHeight()
	m.refreshGrid()
}

func (m *Model) scroll(delta int) {
	m.viewport.SetYOffset(m.viewport.YOffset + delta)
}

// reconcile runs one list update, logging contract violations.
func (m *Model) reconcile(name string, update func() error) {
	if err := update(); err != nil {
		m.logger.Error("list update failed", "list", name, "error", err)
	}
}

func (m *Model) setPlugins(plugins []ola.Plugin) {
	m.reconcile("plugins", func() error { _, err := m.plugins.set(plugins); return err })
}

// setUniverses reconciles the universe list. Selection lives on the rows,
// so it survives unless the selected universe disappeared.
func (m *Model) setUniverses(universes []ola.Universe) {
	m.reconcile("universes", func() error { _, err := m.universes.set(universes); return err })

	if m.cfg.Universe != 0 {
		if i := m.universes.Index(ola.Universe{ID: m.cfg.Universe}); i >= 0 {
			m.cfg.Universe = 0
			m.selectUniverse(i)
			return
		}
	}
	if m.hasUniverse && m.universes.selected() < 0 {
		m.clearUniverse()
	}
	if !m.hasUniverse && m.cfg.Universe == 0 {
		if visible := m.visibleUniverses(); len(visible) > 0 {
			m.selectUniverse(visible[0])
		}
	}
}

func (m *Model) moveUniverse(delta int) {
	visible := m.visibleUniverses()
	if len(visible) == 0 {
		return
	}
	pos := -1
	sel := m.universes.selected()
	for i, idx := range visible {
		if idx == sel {
			pos = i
		}
	}
	next := min(max(pos+delta, 0), len(visible)-1)
	if next != pos {
		m.selectUniverse(visible[next])
	}
}

func (m *Model) selectUniverse(i int) {
	m.universes.selectIndex(i)
	id := m.universes.row(i).item.ID
	if m.hasUniverse && id == m.current {
		return
	}
	m.resetUniverse()
	m.current = id
	m.hasUniverse = true
	if m.poller != nil {
		m.poller.SetUniverse(id)
	}
	m.logger.Debug("universe selected", "universe", id)
}

func (m *Model) clearUniverse() {
	m.resetUniverse()
	m.hasUniverse = false
	if m.poller != nil {
		m.poller.ClearUniverse()
	}
}

// resetUniverse drops everything shown for the current universe.
func (m *Model) resetUniverse() {
	m.uids.Clear()
	m.ports.Clear()
	m.sections.Clear()
	m.selectedUID = ""
	m.deviceSections = nil
	m.sectionsUID = ""
	m.stale = false
	m.errorMessage = ""
	if err := m.patcher.SetDevices(0, nil); err != nil {
		m.logger.Error("clearing devices failed", "error", err)
	}
	m.viewport.SetYOffset(0)
	m.refreshGrid()
}

func (m *Model) setDevices(ev event.DevicesEvent) {
	if !m.hasUniverse || ev.Universe != m.current {
		return
	}
	m.reconcile("ports", func() error { _, err := m.ports.set(ev.Ports); return err })
	m.reconcile("sections", func() error { _, err := m.sections.set(ev.Sections); return err })

	// Replacing devices would cancel the drag in progress.
	if m.patcher.Dragging() {
		m.stale = true
		return
	}

	devices := make([]*patcher.Device, len(ev.Devices))
	for i, info := range ev.Devices {
		devices[i] = patcher.NewDevice(info)
	}
	if err := m.patcher.SetDevices(ev.Universe, devices); err != nil {
		m.logger.Error("setting devices failed", "error", err)
		return
	}
	if _, err := m.patcher.Device(m.selectedUID); err != nil {
		m.selectedUID = ""
	}
	m.refreshGrid()
}

func (m *Model) refreshIfStale() {
	if m.stale {
		m.stale = false
		if m.poller != nil {
			m.poller.Refresh()
		}
	}
}

// persistMove writes a start address that is already shown in the grid.
func (m Model) persistMove(move addressMove) tea.Cmd {
	if m.store == nil {
		return nil
	}
	ctx, store, bus, universe := m.ctx, m.store, m.bus, m.current
	return func() tea.Msg {
		err := store.SetStartAddress(ctx, universe, move.uid, move.newStart)
		if err == nil && bus != nil {
			bus.Publish(event.NewAddressChangedEvent(universe, move.uid, move.oldStart, move.newStart))
		}
		return addressWrittenMsg{universe: universe, move: move, err: err}
	}
}

func (m *Model) handleAddressWritten(msg addressWrittenMsg) {
	defer m.refreshIfStale()
	if msg.err == nil {
		m.errorMessage = ""
		m.infoMessage = fmt.Sprintf("%s moved to %d", msg.move.uid, msg.move.newStart)
		return
	}

	m.setError("move", errors.NewPatchError("write start address", msg.err).
		WithUID(msg.move.uid).WithUniverse(msg.universe))
	m.logger.Warn("start address not written",
		"universe", msg.universe,
		"uid", msg.move.uid,
		"start", msg.move.newStart,
		"error", msg.err)
	if !m.hasUniverse || msg.universe != m.current || m.patcher.Dragging() {
		return
	}
	if err := m.patcher.SetStartAddress(msg.move.uid, msg.move.oldStart); err == nil {
		m.refreshGrid()
	}
}

func (m Model) selectedDevice() *patcher.Device {
	if m.selectedUID == "" {
		return nil
	}
	d, err := m.patcher.Device(m.selectedUID)
	if err != nil {
		return nil
	}
	return d
}

// nudge moves the selected device by delta channels.
func (m Model) nudge(delta int) (tea.Model, tea.Cmd) {
	if m.tab != TabPatch || m.patcher.Dragging() {
		return m, nil
	}
	d := m.selectedDevice()
	if d == nil {
		m.infoMessage = "Select a device first"
		return m, nil
	}
	move := addressMove{uid: d.UID, oldStart: d.Start, newStart: d.Start + delta}
	if err := m.patcher.SetStartAddress(move.uid, move.newStart); err != nil {
		m.setError("nudge", err)
		return m, nil
	}
	m.refreshGrid()
	return m, m.persistMove(move)
}

// autoPatch plans new addresses for every device and writes them one by
// one. Only the writes that succeed are applied to the grid.
func (m Model) autoPatch() (tea.Model, tea.Cmd) {
	if !m.hasUniverse || m.patcher.Dragging() || m.store == nil {
		return m, nil
	}
	plan := m.patcher.AutoPatch()
	if len(plan) == 0 {
		m.infoMessage = "Nothing to patch"
		return m, nil
	}
	moves := make([]addressMove, len(plan))
	for i, c := range plan {
		moves[i] = addressMove{uid: c.Device.UID, oldStart: c.Device.Start, newStart: c.Start}
	}

	ctx, store, bus, universe := m.ctx, m.store, m.bus, m.current
	m.infoMessage = fmt.Sprintf("Auto patching %d devices...", len(moves))
	return m, func() tea.Msg {
		out := autoPatchMsg{universe: universe, total: len(moves)}
		for _, move := range moves {
			if err := store.SetStartAddress(ctx, universe, move.uid, move.newStart); err != nil {
				out.errs = append(out.errs, errors.NewPatchError("write start address", err).
					WithUID(move.uid).WithUniverse(universe))
				continue
			}
			out.applied = append(out.applied, move)
			if bus != nil {
				bus.Publish(event.NewAddressChangedEvent(universe, move.uid, move.oldStart, move.newStart))
			}
		}
		return out
	}
}

func (m *Model) handleAutoPatch(msg autoPatchMsg) {
	if m.hasUniverse && msg.universe == m.current && !m.patcher.Dragging() {
		for _, move := range msg.applied {
			// The device may be gone after a refresh.
			if err := m.patcher.SetStartAddress(move.uid, move.newStart); err != nil && !errors.Is(err, errors.ErrDeviceNotFound) {
				m.logger.Debug("auto patch move not applied", "uid", move.uid, "start", move.newStart, "error", err)
			}
		}
		m.refreshGrid()
	}

	if len(msg.errs) > 0 {
		msgs := make([]string, len(msg.errs))
		for i, err := range msg.errs {
			msgs[i] = err.Error()
		}
		m.errorMessage = fmt.Sprintf("Auto patch: %d of %d writes failed: %s",
			len(msg.errs), msg.total, strings.Join(msgs, "; "))
		m.logger.Warn("auto patch incomplete", "failed", len(msg.errs), "total", msg.total)
		return
	}
	m.errorMessage = ""
	m.infoMessage = fmt.Sprintf("Auto patch moved %d devices", len(msg.applied))
}

// nextPersonality switches the selected device to its next personality.
func (m Model) nextPersonality() (tea.Model, tea.Cmd) {
	if m.patcher.Dragging() || m.store == nil {
		return m, nil
	}
	d := m.selectedDevice()
	if d == nil {
		m.infoMessage = "Select a device first"
		return m, nil
	}
	if d.PersonalityCount < 2 {
		m.infoMessage = fmt.Sprintf("%s has a single personality", d.Name())
		return m, nil
	}
	next := d.Personality%d.PersonalityCount + 1
	ctx, store, universe, uid := m.ctx, m.store, m.current, d.UID
	return m, func() tea.Msg {
		footprint, err := store.SetPersonality(ctx, universe, uid, next)
		return personalityMsg{universe: universe, uid: uid, index: next, footprint: footprint, err: err}
	}
}

func (m *Model) handlePersonality(msg personalityMsg) {
	if msg.err != nil {
		m.setError("personality", errors.NewPatchError("change personality", msg.err).
			WithUID(msg.uid).WithUniverse(msg.universe))
		return
	}
	if !m.hasUniverse || msg.universe != m.current || m.patcher.Dragging() {
		return
	}
	d, err := m.patcher.Device(msg.uid)
	if err != nil {
		return
	}
	d.Personality = msg.index
	if err := m.patcher.SetFootprint(msg.uid, msg.footprint); err != nil {
		m.setError("personality", err)
		return
	}
	m.errorMessage = ""
	m.infoMessage = fmt.Sprintf("%s: personality %d, %d channels", d.Name(), msg.index, msg.footprint)
	m.refreshGrid()
}

// toggleIdentify switches the identify mode of the selected device.
func (m Model) toggleIdentify() (tea.Model, tea.Cmd) {
	if m.patcher.Dragging() || m.store == nil {
		return m, nil
	}
	d := m.selectedDevice()
	if d == nil {
		m.infoMessage = "Select a device first"
		return m, nil
	}
	on := !d.Identify
	ctx, store, universe, uid := m.ctx, m.store, m.current, d.UID
	return m, func() tea.Msg {
		err := store.SetIdentify(ctx, universe, uid, on)
		return identifyMsg{universe: universe, uid: uid, on: on, err: err}
	}
}

// handleIdentify applies a finished identify write and reports whether it
// succeeded.
func (m *Model) handleIdentify(msg identifyMsg) bool {
	if msg.err != nil {
		m.setError("identify", errors.NewPatchError("set identify", msg.err).
			WithUID(msg.uid).WithUniverse(msg.universe))
		return false
	}
	if !m.hasUniverse || msg.universe != m.current {
		return false
	}
	d, err := m.patcher.Device(msg.uid)
	if err != nil {
		return false
	}
	d.Identify = msg.on
	state := "off"
	if msg.on {
		state = "on"
	}
	m.errorMessage = ""
	m.infoMessage = fmt.Sprintf("Identify %s for %s", state, d.Name())
	m.refreshGrid()
	return true
}

// loadDeviceSections reads the RDM sections of the selected device.
func (m Model) loadDeviceSections() tea.Cmd {
	if m.store == nil || !m.hasUniverse || m.selectedUID == "" {
		return nil
	}
	ctx, store, universe, uid := m.ctx, m.store, m.current, m.selectedUID
	return func() tea.Msg {
		sections, err := store.DeviceSections(ctx, universe, uid)
		return deviceSectionsMsg{universe: universe, uid: uid, sections: sections, err: err}
	}
}

func (m *Model) handleDeviceSections(msg deviceSectionsMsg) {
	if !m.hasUniverse || msg.universe != m.current || msg.uid != m.selectedUID {
		return
	}
	if msg.err != nil {
		m.setError("sections", msg.err)
		return
	}
	m.deviceSections = msg.sections
	m.sectionsUID = msg.uid
}

// setError shows err on the status line. Errors that are not user facing
// are logged and replaced by a generic message.
func (m *Model) setError(op string, err error) {
	if !errors.IsUserFacing(err) {
		m.logger.Error("internal error", "op", op, "error", err)
		m.errorMessage = "Internal error, see log"
		return
	}
	m.errorMessage = err.Error()
}
