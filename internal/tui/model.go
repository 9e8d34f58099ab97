package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/openlighting/olatui/internal/event"
	"github.com/openlighting/olatui/internal/logging"
	"github.com/openlighting/olatui/internal/ola"
	"github.com/openlighting/olatui/internal/patcher"
	"github.com/openlighting/olatui/internal/util"
)

// Tab is a page of the universe view.
type Tab int

// Tabs in display order.
const (
	TabPatch Tab = iota
	TabUIDs
	TabPorts
	TabSections
	numTabs
)

var tabNames = []string{"Patch", "UIDs", "Ports", "RDM Sections"}

func (t Tab) String() string {
	if t < 0 || t >= numTabs {
		return "unknown"
	}
	return tabNames[t]
}

// Layout constants
const (
	headerLines    = 1 // tab bar
	separatorWidth = 2 // "│ " between sidebar and content
	minSidebar     = 16
)

// Store persists device changes made in the UI and loads the RDM sections
// of a responder on demand.
type Store interface {
	SetStartAddress(ctx context.Context, universe int, uid string, start int) error
	SetPersonality(ctx context.Context, universe int, uid string, index int) (int, error)
	SetIdentify(ctx context.Context, universe int, uid string, on bool) error
	DeviceSections(ctx context.Context, universe int, uid string) ([]ola.DeviceSection, error)
}

// Poller is the part of the snapshot poller the UI drives.
type Poller interface {
	SetUniverse(id int)
	ClearUniverse()
	Refresh()
}

// Config holds the TUI settings.
type Config struct {
	Mouse          bool
	SidebarWidth   int
	UniverseFilter string
	CellWidth      int
	UnitHeight     int
	// Universe is selected as soon as it is listed, when non-zero.
	Universe int
}

// Deps are the collaborators of a Model. Bus and Logger may be nil.
type Deps struct {
	Store  Store
	Poller Poller
	Bus    *event.Bus
	Logger *logging.Logger
}

// Model holds the TUI application state
type Model struct {
	cfg    Config
	ctx    context.Context
	store  Store
	poller Poller
	bus    *event.Bus
	logger *logging.Logger
	filter *util.NameFilter

	// Reconciled lists
	plugins   list[ola.Plugin]
	universes list[ola.Universe]
	uids      list[ola.UID]
	ports     list[ola.Port]
	sections  list[ola.Section]

	// Patch state of the selected universe
	patcher     *patcher.Patcher
	current     int
	hasUniverse bool
	selectedUID string
	// stale is set when a device refresh was dropped during a drag.
	stale bool
	// deviceSections holds the RDM sections of sectionsUID.
	deviceSections []ola.DeviceSection
	sectionsUID    string

	// UI state
	viewport     viewport.Model
	help         help.Model
	keys         keyMap
	tab          Tab
	width        int
	height       int
	ready        bool
	quitting     bool
	errorMessage string
	infoMessage  string
}

// NewModel creates a new TUI model
func NewModel(cfg Config, deps Deps) (Model, error) {
	filter, err := util.NewNameFilter(cfg.UniverseFilter)
	if err != nil {
		return Model{}, err
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.NopLogger()
	}
	logger = logger.WithComponent("tui")

	vp := viewport.New(0, 0)
	vp.MouseWheelEnabled = false

	return Model{
		cfg:    cfg,
		ctx:    context.Background(),
		store:  deps.Store,
		poller: deps.Poller,
		bus:    deps.Bus,
		logger: logger,
		filter: filter,

		plugins:   newList[ola.Plugin](ola.ComparePlugins),
		universes: newList[ola.Universe](ola.CompareUniverses),
		uids:      newList[ola.UID](ola.CompareUIDs),
		ports:     newList[ola.Port](ola.ComparePorts),
		sections:  newList[ola.Section](ola.CompareSections),

		patcher: patcher.New(patcher.Config{
			CellWidth:  cfg.CellWidth,
			UnitHeight: cfg.UnitHeight,
		}, logger),

		viewport: vp,
		help:     help.New(),
		keys:     defaultKeyMap(),
	}, nil
}

// Tab returns the active tab.
func (m Model) Tab() Tab {
	return m.tab
}

// Patcher exposes the patch state of the selected universe.
func (m Model) Patcher() *patcher.Patcher {
	return m.patcher
}

// SelectedUniverse returns the id of the selected universe.
func (m Model) SelectedUniverse() (int, bool) {
	return m.current, m.hasUniverse
}

// SelectedDevice returns the uid of the highlighted device.
func (m Model) SelectedDevice() string {
	return m.selectedUID
}

// ErrorMessage returns the message shown in the status line, if any.
func (m Model) ErrorMessage() string {
	return m.errorMessage
}

// InfoMessage returns the last informational message.
func (m Model) InfoMessage() string {
	return m.infoMessage
}

func (m Model) sidebarWidth() int {
	w := max(m.cfg.SidebarWidth, minSidebar)
	return min(w, max(m.width/3, minSidebar))
}

func (m Model) contentWidth() int {
	return max(m.width-m.sidebarWidth()-separatorWidth, 1)
}

func (m Model) footerHeight() int {
	return 1 + helpHeight(m.help, m.keys)
}

func (m Model) contentHeight() int {
	return max(m.height-headerLines-m.footerHeight(), 1)
}

// gridOrigin is the screen position of panel point (0, 0) when the grid is
// scrolled to the top.
func (m Model) gridOrigin() (x, y int) {
	return m.sidebarWidth() + separatorWidth, headerLines
}

// panelPoint converts a screen position to patch panel coordinates.
func (m Model) panelPoint(x, y int) patcher.Point {
	ox, oy := m.gridOrigin()
	return patcher.Point{X: x - ox, Y: y - oy + m.viewport.YOffset}
}

// inContent reports whether a screen position lies inside the content area.
func (m Model) inContent(x, y int) bool {
	ox, oy := m.gridOrigin()
	return x >= ox && x < ox+m.contentWidth() && y >= oy && y < oy+m.contentHeight()
}

// visibleUniverses returns the indexes of universe rows that pass the
// filter.
func (m Model) visibleUniverses() []int {
	var out []int
	for i := range m.universes.Len() {
		if m.filter.Match(m.universes.row(i).item.Name) {
			out = append(out, i)
		}
	}
	return out
}
