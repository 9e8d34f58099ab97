package patcher

// Cell is one table cell of the patch grid. An empty cell spans a single
// channel; a device cell spans the device channels that fall in its row.
type Cell struct {
	Device   *Device
	Channel  int
	Span     int
	Overflow bool
	// Detached is set while the device is being dragged.
	Detached bool
}

// Empty reports whether no device occupies the cell.
func (c *Cell) Empty() bool {
	return c.Device == nil
}

// GridRow holds one row of ChannelsPerRow channels, one cell run per track.
type GridRow struct {
	Index        int
	FirstChannel int
	Tracks       [][]Cell
}

// Grid is the rendered patch panel.
type Grid struct {
	Rows []GridRow
	// TrackCount is the number of tracks drawn, at least one.
	TrackCount int
}

// RowHeight returns the height of one grid row: a title line plus one line
// per track.
func (g *Grid) RowHeight(unit int) int {
	return (max(1, g.TrackCount) + 1) * unit
}

// CellAt returns the cell covering the 1-based channel in track, or nil.
func (g *Grid) CellAt(channel, track int) *Cell {
	if channel < 1 || channel > NumChannels || track < 0 || track >= g.TrackCount {
		return nil
	}
	row := &g.Rows[(channel-1)/ChannelsPerRow]
	cells := row.Tracks[track]
	for i := range cells {
		c := &cells[i]
		if channel >= c.Channel && channel < c.Channel+c.Span {
			return c
		}
	}
	return nil
}

// DeviceAt returns the device drawn at the 1-based channel in track, or
// nil.
func (g *Grid) DeviceAt(channel, track int) *Device {
	if c := g.CellAt(channel, track); c != nil {
		return c.Device
	}
	return nil
}

// CellsFor returns every cell drawn for the device with the given uid.
func (g *Grid) CellsFor(uid string) []*Cell {
	var out []*Cell
	for r := range g.Rows {
		for t := range g.Rows[r].Tracks {
			cells := g.Rows[r].Tracks[t]
			for i := range cells {
				if cells[i].Device != nil && cells[i].Device.UID == uid {
					out = append(out, &cells[i])
				}
			}
		}
	}
	return out
}

// Renderer turns layouts into grids. It reuses the same grid and cell
// storage across renders.
type Renderer struct {
	grid     Grid
	detached map[string]bool
}

// NewRenderer creates a renderer with an empty grid.
func NewRenderer() *Renderer {
	r := &Renderer{detached: make(map[string]bool)}
	r.Render(&Layout{})
	return r
}

// Grid returns the most recently rendered grid.
func (r *Renderer) Grid() *Grid {
	return &r.grid
}

// Render lays the tracks of layout onto the grid and returns it.
func (r *Renderer) Render(layout *Layout) *Grid {
	trackCount := max(1, len(layout.Tracks))
	g := &r.grid
	g.TrackCount = trackCount
	if len(g.Rows) != NumRows {
		g.Rows = make([]GridRow, NumRows)
	}

	for i := range g.Rows {
		row := &g.Rows[i]
		row.Index = i
		row.FirstChannel = i*ChannelsPerRow + 1

		if cap(row.Tracks) >= trackCount {
			row.Tracks = row.Tracks[:trackCount]
		} else {
			row.Tracks = append(row.Tracks[:cap(row.Tracks)], make([][]Cell, trackCount-cap(row.Tracks))...)
		}

		for t := 0; t < trackCount; t++ {
			var track *Track
			if t < len(layout.Tracks) {
				track = layout.Tracks[t]
			}
			row.Tracks[t] = r.renderTrack(row.Tracks[t][:0], track, row.FirstChannel)
		}
	}
	return g
}

func (r *Renderer) renderTrack(cells []Cell, track *Track, first int) []Cell {
	last := first + ChannelsPerRow - 1
	for ch := first; ch <= last; {
		var d *Device
		if track != nil {
			d = track.At(ch)
		}
		if d == nil {
			cells = append(cells, Cell{Channel: ch, Span: 1})
			ch++
			continue
		}
		span := min(d.End()-ch+1, last-ch+1)
		cells = append(cells, Cell{
			Device:   d,
			Channel:  ch,
			Span:     span,
			Overflow: d.Overflows(),
			Detached: r.detached[d.UID],
		})
		ch += span
	}
	return cells
}

// Detach hides every cell of the device and keeps it hidden across renders
// until Attach. It returns the number of cells affected.
func (r *Renderer) Detach(uid string) int {
	r.detached[uid] = true
	cells := r.grid.CellsFor(uid)
	for _, c := range cells {
		c.Detached = true
	}
	return len(cells)
}

// Attach reverses Detach.
func (r *Renderer) Attach(uid string) {
	delete(r.detached, uid)
	for _, c := range r.grid.CellsFor(uid) {
		c.Detached = false
	}
}
