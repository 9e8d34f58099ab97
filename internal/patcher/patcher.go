package patcher

import (
	"github.com/openlighting/olatui/internal/errors"
	"github.com/openlighting/olatui/internal/logging"
)

// Config holds the display settings the patcher needs.
type Config struct {
	CellWidth  int
	UnitHeight int
}

// Patcher owns the device set of one universe together with its layout,
// rendered grid and drag state. It is not safe for concurrent use.
type Patcher struct {
	universe int
	devices  []*Device
	layout   *Layout
	renderer *Renderer
	drag     *DragResolver
	cfg      Config
	logger   *logging.Logger

	repacking bool
}

// New creates a patcher with no devices. logger may be nil.
func New(cfg Config, logger *logging.Logger) *Patcher {
	if cfg.CellWidth <= 0 {
		cfg.CellWidth = 1
	}
	if cfg.UnitHeight <= 0 {
		cfg.UnitHeight = 1
	}
	if logger == nil {
		logger = logging.NopLogger()
	}
	p := &Patcher{
		cfg:      cfg,
		logger:   logger.WithComponent("patcher"),
		renderer: NewRenderer(),
		layout:   &Layout{Assignment: map[string]int{}},
	}
	p.drag = NewDragResolver(p.geometry(), p.renderer)
	return p
}

// SetDevices replaces the device set of universe and re-packs. An active
// drag is cancelled.
func (p *Patcher) SetDevices(universe int, devices []*Device) error {
	if p.repacking {
		return errors.ErrReentrantUpdate
	}
	p.drag.Cancel()
	p.universe = universe
	p.devices = devices
	return p.repack()
}

// Universe returns the universe the devices belong to.
func (p *Patcher) Universe() int {
	return p.universe
}

// Devices returns the device set in the order it was given.
func (p *Patcher) Devices() []*Device {
	return p.devices
}

// Device looks up a device by uid.
func (p *Patcher) Device(uid string) (*Device, error) {
	for _, d := range p.devices {
		if d.UID == uid {
			return d, nil
		}
	}
	return nil, errors.NewNotFoundError("device", uid).WithCause(errors.ErrDeviceNotFound)
}

// Layout returns the current packing.
func (p *Patcher) Layout() *Layout {
	return p.layout
}

// Grid returns the current rendered grid.
func (p *Patcher) Grid() *Grid {
	return p.renderer.Grid()
}

// Geometry returns the cell size the grid is drawn with.
func (p *Patcher) Geometry() Geometry {
	return p.geometry()
}

// UnitHeight returns the height of one track line.
func (p *Patcher) UnitHeight() int {
	return p.cfg.UnitHeight
}

// FreeChannels summarises the unoccupied channels.
func (p *Patcher) FreeChannels() FreeChannels {
	return ComputeFreeChannels(p.layout)
}

// SetStartAddress moves a device and re-packs. Failures are returned as
// *errors.PatchError.
func (p *Patcher) SetStartAddress(uid string, start int) error {
	const op = "set start address"
	if !ValidStart(start) {
		return p.fail(op, uid, errors.NewValidationError("start address must be between 1 and 512").
			WithField("start").WithValue(start).WithCause(errors.ErrInvalidAddress))
	}
	d, err := p.Device(uid)
	if err != nil {
		return p.fail(op, uid, err)
	}
	if p.repacking {
		return p.fail(op, uid, errors.ErrReentrantUpdate)
	}
	d.SetStart(start)
	p.logger.Debug("start address changed", "uid", uid, "start", start)
	return p.fail(op, uid, p.repack())
}

// SetFootprint changes a device footprint, as a personality change does,
// and re-packs.
func (p *Patcher) SetFootprint(uid string, footprint int) error {
	const op = "set footprint"
	if footprint < 0 {
		return p.fail(op, uid, errors.NewValidationError("footprint must not be negative").
			WithField("footprint").WithValue(footprint).WithCause(errors.ErrInvalidFootprint))
	}
	d, err := p.Device(uid)
	if err != nil {
		return p.fail(op, uid, err)
	}
	if p.repacking {
		return p.fail(op, uid, errors.ErrReentrantUpdate)
	}
	d.SetFootprint(footprint)
	return p.fail(op, uid, p.repack())
}

// DeviceAt returns the device drawn under panel point pt, if any.
func (p *Patcher) DeviceAt(pt Point) *Device {
	grid := p.renderer.Grid()
	channel, track, ok := p.geometry().HitTest(pt, p.cfg.UnitHeight, grid.TrackCount)
	if !ok || track < 0 {
		return nil
	}
	return grid.DeviceAt(channel, track)
}

// Dragging reports whether a drag is in progress.
func (p *Patcher) Dragging() bool {
	return p.drag.State() == Dragging
}

// Floating exposes the floating element of an active drag.
func (p *Patcher) Floating() (*Device, Point, Size, bool) {
	return p.drag.Floating()
}

// BeginDrag starts dragging the device under pt. The floating element is
// one cell wide and one track line high.
func (p *Patcher) BeginDrag(pt Point) (*Device, error) {
	d := p.DeviceAt(pt)
	if d == nil {
		return nil, errors.NewNotFoundError("device", "at pointer").WithCause(errors.ErrDeviceNotFound)
	}
	if err := p.drag.Start(d, pt, Size{W: p.cfg.CellWidth, H: p.cfg.UnitHeight}); err != nil {
		return nil, err
	}
	return d, nil
}

// DragMove follows the pointer during a drag.
func (p *Patcher) DragMove(pt Point) error {
	return p.drag.Move(pt)
}

// DragEnd drops the dragged device at pt, applies the new start address
// and re-packs.
func (p *Patcher) DragEnd(pt Point) (Drop, error) {
	const op = "drop"
	if p.repacking {
		return Drop{}, p.fail(op, "", errors.ErrReentrantUpdate)
	}
	drop, err := p.drag.End(pt)
	if err != nil {
		return Drop{}, p.fail(op, "", err)
	}
	drop.Device.SetStart(drop.NewStart)
	if drop.Device.Overflows() {
		p.logger.Info("device dropped past the last channel",
			"uid", drop.Device.UID, "start", drop.NewStart, "footprint", drop.Device.Footprint)
	}
	return drop, p.fail(op, drop.Device.UID, p.repack())
}

// CancelDrag abandons an active drag.
func (p *Patcher) CancelDrag() {
	p.drag.Cancel()
}

// AutoPatch plans new start addresses for every device. Nothing is
// applied; callers persist each change and then call SetStartAddress.
func (p *Patcher) AutoPatch() []AddressChange {
	return Plan(p.devices)
}

// fail attaches the operation, device and universe to err.
func (p *Patcher) fail(op, uid string, err error) error {
	if err == nil {
		return nil
	}
	return errors.NewPatchError(op, err).WithUID(uid).WithUniverse(p.universe)
}

func (p *Patcher) geometry() Geometry {
	return Geometry{
		CellWidth:  p.cfg.CellWidth,
		CellHeight: p.renderer.Grid().RowHeight(p.cfg.UnitHeight),
	}
}

func (p *Patcher) repack() error {
	if p.repacking {
		return errors.ErrReentrantUpdate
	}
	p.repacking = true
	defer func() { p.repacking = false }()

	p.layout = Pack(p.devices)
	p.renderer.Render(p.layout)
	p.drag.SetGeometry(p.geometry())
	p.logger.Debug("repacked",
		"universe", p.universe,
		"devices", len(p.layout.Devices),
		"tracks", p.layout.TrackCount())
	return nil
}
