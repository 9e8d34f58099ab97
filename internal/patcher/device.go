package patcher

import (
	"github.com/openlighting/olatui/internal/ola"
)

// Channel layout of one DMX universe.
const (
	NumChannels    = 512
	ChannelsPerRow = 8
	NumRows        = NumChannels / ChannelsPerRow
)

// Device is an RDM responder as seen by the patcher.
//
// Start is 1-based. A device with a zero footprint is kept in the device set
// but never laid out.
type Device struct {
	UID              string
	Label            string
	Start            int
	Footprint        int
	Personality      int
	PersonalityCount int
	// Identify is set while the responder is in identify mode.
	Identify bool
}

// NewDevice builds a device from the daemon's uid_info record.
func NewDevice(info ola.DeviceInfo) *Device {
	return &Device{
		UID:              info.UID,
		Label:            info.Label,
		Start:            info.Address,
		Footprint:        info.Footprint,
		Personality:      info.Personality,
		PersonalityCount: info.PersonalityCount,
		Identify:         info.Identify,
	}
}

// End returns the last channel the device occupies, capped at NumChannels.
func (d *Device) End() int {
	return min(d.Start+d.Footprint-1, NumChannels)
}

// Overflows reports whether the footprint runs past the last channel.
func (d *Device) Overflows() bool {
	return d.Start+d.Footprint-1 > NumChannels
}

// Visible reports whether the device takes part in the layout.
func (d *Device) Visible() bool {
	return d.Footprint > 0 && d.Start >= 1 && d.Start <= NumChannels
}

// SetStart moves the device to a new 1-based start address.
func (d *Device) SetStart(start int) {
	d.Start = start
}

// SetFootprint changes the number of channels the device occupies.
func (d *Device) SetFootprint(footprint int) {
	d.Footprint = footprint
}

// Name returns the label, or the uid when the device has none.
func (d *Device) Name() string {
	if d.Label != "" {
		return d.Label
	}
	return d.UID
}

// Contains reports whether channel lies inside the laid out range.
func (d *Device) Contains(channel int) bool {
	return d.Visible() && channel >= d.Start && channel <= d.End()
}

// ValidStart reports whether start is a usable DMX start address.
func ValidStart(start int) bool {
	return start >= 1 && start <= NumChannels
}
