package patcher

import (
	"cmp"
	"slices"
)

// Track is one lane of the patch panel. No two devices in a track overlap.
type Track struct {
	slots   [NumChannels]*Device
	devices []*Device
}

// At returns the device occupying the 1-based channel, or nil.
func (t *Track) At(channel int) *Device {
	if channel < 1 || channel > NumChannels {
		return nil
	}
	return t.slots[channel-1]
}

// Devices returns the devices in the track ordered by start address.
func (t *Track) Devices() []*Device {
	return t.devices
}

func (t *Track) fits(d *Device) bool {
	for ch := d.Start; ch <= d.End(); ch++ {
		if t.slots[ch-1] != nil {
			return false
		}
	}
	return true
}

func (t *Track) place(d *Device) {
	for ch := d.Start; ch <= d.End(); ch++ {
		t.slots[ch-1] = d
	}
	t.devices = append(t.devices, d)
}

// Layout is the result of packing a device set into tracks.
type Layout struct {
	Tracks []*Track
	// Assignment maps a device uid to its track index.
	Assignment map[string]int
	// Devices holds the laid out devices in packing order.
	Devices []*Device
}

// Pack assigns every visible device to the first track with room for it.
//
// Devices are visited by ascending start address, ties kept in input
// order, which makes the number of tracks equal to the largest number of
// devices sharing any single channel. The input slice is not reordered.
func Pack(devices []*Device) *Layout {
	sorted := make([]*Device, 0, len(devices))
	for _, d := range devices {
		if d != nil && d.Visible() {
			sorted = append(sorted, d)
		}
	}
	slices.SortStableFunc(sorted, func(a, b *Device) int {
		return cmp.Compare(a.Start, b.Start)
	})

	layout := &Layout{
		Assignment: make(map[string]int, len(sorted)),
		Devices:    sorted,
	}
	for _, d := range sorted {
		idx := -1
		for i, t := range layout.Tracks {
			if t.fits(d) {
				idx = i
				break
			}
		}
		if idx < 0 {
			layout.Tracks = append(layout.Tracks, &Track{})
			idx = len(layout.Tracks) - 1
		}
		layout.Tracks[idx].place(d)
		layout.Assignment[d.UID] = idx
	}
	return layout
}

// TrackCount returns the number of tracks.
func (l *Layout) TrackCount() int {
	return len(l.Tracks)
}

// Occupied reports whether any track uses the 1-based channel.
func (l *Layout) Occupied(channel int) bool {
	for _, t := range l.Tracks {
		if t.At(channel) != nil {
			return true
		}
	}
	return false
}

// Depth returns how many devices cover the 1-based channel.
func (l *Layout) Depth(channel int) int {
	n := 0
	for _, t := range l.Tracks {
		if t.At(channel) != nil {
			n++
		}
	}
	return n
}

// Overflowing returns the laid out devices that run past the last channel.
func (l *Layout) Overflowing() []*Device {
	var out []*Device
	for _, d := range l.Devices {
		if d.Overflows() {
			out = append(out, d)
		}
	}
	return out
}
