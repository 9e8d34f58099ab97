package patcher

import "fmt"

// FreeChannels summarises the channels no device occupies.
type FreeChannels struct {
	// First and Last are 1-based, zero when nothing is free.
	First         int
	Last          int
	Count         int
	MaxContiguous int
}

// None reports whether every channel is in use.
func (f FreeChannels) None() bool {
	return f.Count == 0
}

func (f FreeChannels) String() string {
	if f.None() {
		return "No slots free"
	}
	return fmt.Sprintf("Free slots: first: %d, last: %d, max contiguous: %d", f.First, f.Last, f.MaxContiguous)
}

// ComputeFreeChannels scans layout for unoccupied channels.
func ComputeFreeChannels(layout *Layout) FreeChannels {
	var f FreeChannels
	run := 0
	for ch := 1; ch <= NumChannels; ch++ {
		if layout.Occupied(ch) {
			run = 0
			continue
		}
		if f.First == 0 {
			f.First = ch
		}
		f.Last = ch
		f.Count++
		run++
		f.MaxContiguous = max(f.MaxContiguous, run)
	}
	return f
}
