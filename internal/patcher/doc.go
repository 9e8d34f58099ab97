// Package patcher lays out the RDM devices of one DMX universe on a patch
// panel and lets the user re-address them by dragging.
//
// The panel has 64 rows of 8 channels. Devices that share channels are
// stacked on separate tracks; [Pack] assigns tracks first-fit in start
// address order, which uses exactly as many tracks as the deepest overlap.
// A [Renderer] turns the tracks into a [Grid] of cells whose spans add up to
// eight in every row and track, splitting devices that cross a row boundary.
//
// A [DragResolver] follows a pointer from press to release and maps the
// centre of the floating element back to a channel. Drops are clamped so the
// resulting start address is always 1..512; a device whose footprint then
// runs past channel 512 is flagged as overflowing, not rejected.
//
// [Patcher] ties these together for the terminal UI and the CLI.
package patcher
