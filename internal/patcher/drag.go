package patcher

import (
	"fmt"

	"github.com/openlighting/olatui/internal/errors"
)

// Point is a position in panel coordinates, origin at the top left of the
// first grid row.
type Point struct {
	X, Y int
}

// Size is the extent of the floating element being dragged.
type Size struct {
	W, H int
}

// Geometry describes the on-screen size of grid cells.
type Geometry struct {
	CellWidth  int
	CellHeight int
}

// Width returns the panel width.
func (g Geometry) Width() int {
	return ChannelsPerRow * g.CellWidth
}

// Height returns the panel height.
func (g Geometry) Height() int {
	return NumRows * g.CellHeight
}

func (g Geometry) valid() bool {
	return g.CellWidth > 0 && g.CellHeight > 0
}

// ChannelAt returns the 0-based channel under p, clamped to the panel.
func (g Geometry) ChannelAt(p Point) int {
	x := clamp(p.X, 0, g.Width()-1)
	y := clamp(p.Y, 0, g.Height()-1)
	ch := x/g.CellWidth + ChannelsPerRow*(y/g.CellHeight)
	return clamp(ch, 0, NumChannels-1)
}

// HitTest maps p to a 1-based channel and a track index. The first line of
// every row is the title line and maps to track -1. ok is false when p lies
// outside the panel or below the last track.
func (g Geometry) HitTest(p Point, unit, trackCount int) (channel, track int, ok bool) {
	if !g.valid() || unit <= 0 || p.X < 0 || p.Y < 0 || p.X >= g.Width() || p.Y >= g.Height() {
		return 0, 0, false
	}
	row := p.Y / g.CellHeight
	line := (p.Y % g.CellHeight) / unit
	channel = row*ChannelsPerRow + p.X/g.CellWidth + 1
	track = line - 1
	if track >= max(1, trackCount) {
		return channel, track, false
	}
	return channel, track, true
}

// DragState is the state of a DragResolver.
type DragState int

// Drag states.
const (
	Idle DragState = iota
	Dragging
)

func (s DragState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	default:
		return fmt.Sprintf("DragState(%d)", int(s))
	}
}

// Detacher hides and restores the cells of a device while it is dragged.
type Detacher interface {
	Detach(uid string) int
	Attach(uid string)
}

// Drop is the outcome of a completed drag.
type Drop struct {
	Device   *Device
	OldStart int
	NewStart int
}

// Moved reports whether the drop changes the start address.
func (d Drop) Moved() bool {
	return d.OldStart != d.NewStart
}

// DragResolver turns pointer gestures into start address changes.
type DragResolver struct {
	geom     Geometry
	detacher Detacher

	state  DragState
	device *Device
	size   Size
	pos    Point
}

// NewDragResolver creates an idle resolver. detacher may be nil.
func NewDragResolver(geom Geometry, detacher Detacher) *DragResolver {
	return &DragResolver{geom: geom, detacher: detacher}
}

// State returns the current state.
func (r *DragResolver) State() DragState {
	return r.state
}

// SetGeometry updates the cell size used for later gestures.
func (r *DragResolver) SetGeometry(geom Geometry) {
	r.geom = geom
}

// Geometry returns the cell size in use.
func (r *DragResolver) Geometry() Geometry {
	return r.geom
}

// Floating returns the dragged device and the top left corner and size of
// its floating element. ok is false when idle.
func (r *DragResolver) Floating() (d *Device, pos Point, size Size, ok bool) {
	if r.state != Dragging {
		return nil, Point{}, Size{}, false
	}
	return r.device, r.pos, r.size, true
}

// Start begins dragging d with its floating element centred under p.
func (r *DragResolver) Start(d *Device, p Point, size Size) error {
	if r.state == Dragging {
		return errors.ErrDragInProgress
	}
	if d == nil {
		return errors.NewValidationError("no device to drag").WithField("device")
	}
	if !r.geom.valid() {
		return errors.NewValidationError("cell size must be positive").
			WithField("geometry").WithValue(r.geom)
	}

	r.state = Dragging
	r.device = d
	r.size = Size{W: max(1, size.W), H: max(1, size.H)}
	if r.detacher != nil {
		r.detacher.Detach(d.UID)
	}
	r.place(p)
	return nil
}

// Move repositions the floating element under p.
func (r *DragResolver) Move(p Point) error {
	if r.state != Dragging {
		return errors.ErrNotDragging
	}
	r.place(p)
	return nil
}

// End drops the device at p and returns the resolved start address. The
// device itself is not modified.
func (r *DragResolver) End(p Point) (Drop, error) {
	if r.state != Dragging {
		return Drop{}, errors.ErrNotDragging
	}
	r.place(p)

	cx := min(r.pos.X+r.size.W/2, r.geom.Width()-1)
	cy := min(r.pos.Y+r.size.H/2, r.geom.Height()-1)
	channel := r.geom.ChannelAt(Point{X: cx, Y: cy})

	drop := Drop{
		Device:   r.device,
		OldStart: r.device.Start,
		NewStart: channel + 1,
	}
	r.reset()
	return drop, nil
}

// Cancel abandons the drag without changing anything.
func (r *DragResolver) Cancel() {
	if r.state != Dragging {
		return
	}
	r.reset()
}

// place clamps the element so it stays inside the panel.
func (r *DragResolver) place(p Point) {
	maxX := max(0, r.geom.Width()-r.size.W-1)
	maxY := max(0, r.geom.Height()-r.size.H-1)
	r.pos = Point{
		X: clamp(p.X-r.size.W/2, 0, maxX),
		Y: clamp(p.Y-r.size.H/2, 0, maxY),
	}
}

func (r *DragResolver) reset() {
	if r.detacher != nil && r.device != nil {
		r.detacher.Attach(r.device.UID)
	}
	r.state = Idle
	r.device = nil
	r.size = Size{}
	r.pos = Point{}
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
