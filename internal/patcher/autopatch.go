package patcher

import (
	"cmp"
	"slices"
)

// AddressChange is a start address the auto patcher wants a device moved
// to.
type AddressChange struct {
	Device *Device
	Start  int
}

// Plan computes start addresses that spread devices over the universe.
//
// When every footprint fits, devices are laid end to end starting with the
// smallest. Otherwise devices are placed in rounds from channel 1, largest
// first, deferring any device that does not fit in what is left of the
// current round; each round overlaps the previous one. Devices with a zero
// footprint are ignored. The devices themselves are not modified.
func Plan(devices []*Device) []AddressChange {
	pending := make([]*Device, 0, len(devices))
	required := 0
	for _, d := range devices {
		if d == nil || d.Footprint <= 0 {
			continue
		}
		pending = append(pending, d)
		required += d.Footprint
	}
	slices.SortStableFunc(pending, func(a, b *Device) int {
		return cmp.Compare(a.Footprint, b.Footprint)
	})

	changes := make([]AddressChange, 0, len(pending))
	if required <= NumChannels {
		channel := 0
		for _, d := range pending {
			changes = append(changes, AddressChange{Device: d, Start: channel + 1})
			channel += d.Footprint
		}
		return changes
	}

	for len(pending) > 0 {
		var deferred []*Device
		channel := 0
		for len(pending) > 0 && channel < NumChannels {
			d := pending[len(pending)-1]
			pending = pending[:len(pending)-1]

			remaining := NumChannels - channel
			switch {
			case d.Footprint <= remaining:
				changes = append(changes, AddressChange{Device: d, Start: channel + 1})
				channel += d.Footprint
			case channel == 0:
				// Larger than the whole universe: it can only overflow.
				changes = append(changes, AddressChange{Device: d, Start: 1})
				channel = NumChannels
			default:
				deferred = append([]*Device{d}, deferred...)
			}
		}
		pending = append(pending, deferred...)
	}
	return changes
}
