package patcher

import (
	"testing"

	"github.com/openlighting/olatui/internal/errors"
)

type fakeDetacher struct {
	detached map[string]bool
}

func (f *fakeDetacher) Detach(uid string) int {
	f.detached[uid] = true
	return 1
}

func (f *fakeDetacher) Attach(uid string) {
	delete(f.detached, uid)
}

func TestDragDropScenario(t *testing.T) {
	geom := Geometry{CellWidth: 10, CellHeight: 4}
	r := NewDragResolver(geom, nil)
	d := dev("a", 1, 4)

	if err := r.Start(d, Point{X: 5, Y: 2}, Size{W: 10, H: 2}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	// centre (cw*2.5, ch*1.5)
	drop, err := r.End(Point{X: 25, Y: 6})
	if err != nil {
		t.Fatalf("End: %v", err)
	}
	if drop.NewStart != 11 {
		t.Errorf("NewStart = %d, want 11", drop.NewStart)
	}
	if drop.OldStart != 1 || !drop.Moved() {
		t.Errorf("drop = %+v", drop)
	}
	if d.Start != 1 {
		t.Error("End must not modify the device")
	}
	if r.State() != Idle {
		t.Errorf("State() = %v after End, want idle", r.State())
	}
}

func TestDragClamp(t *testing.T) {
	geom := Geometry{CellWidth: 9, CellHeight: 3}
	size := Size{W: 9, H: 1}
	points := []Point{
		{X: -1000, Y: -1000},
		{X: 0, Y: 0},
		{X: 71, Y: 0},
		{X: 5000, Y: 5000},
		{X: 0, Y: 191},
		{X: 72, Y: 192},
		{X: -5, Y: 100},
		{X: 40, Y: -3},
	}

	for _, p := range points {
		r := NewDragResolver(geom, nil)
		if err := r.Start(dev("a", 1, 1), Point{}, size); err != nil {
			t.Fatalf("Start: %v", err)
		}
		if err := r.Move(p); err != nil {
			t.Fatalf("Move: %v", err)
		}
		_, pos, sz, ok := r.Floating()
		if !ok {
			t.Fatal("Floating() reports no drag")
		}
		if pos.X < 0 || pos.Y < 0 || pos.X+sz.W > geom.Width() || pos.Y+sz.H > geom.Height() {
			t.Errorf("Move(%v) left element at %v outside the panel", p, pos)
		}
		drop, err := r.End(p)
		if err != nil {
			t.Fatalf("End: %v", err)
		}
		if drop.NewStart < 1 || drop.NewStart > NumChannels {
			t.Errorf("End(%v) start = %d, want within 1..512", p, drop.NewStart)
		}
	}
}

func TestDragLastChannel(t *testing.T) {
	geom := Geometry{CellWidth: 9, CellHeight: 3}
	r := NewDragResolver(geom, nil)
	if err := r.Start(dev("a", 1, 1), Point{}, Size{W: 1, H: 1}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	drop, err := r.End(Point{X: 1 << 20, Y: 1 << 20})
	if err != nil {
		t.Fatalf("End: %v", err)
	}
	if drop.NewStart != NumChannels {
		t.Errorf("NewStart = %d, want %d", drop.NewStart, NumChannels)
	}
}

func TestDragStateErrors(t *testing.T) {
	r := NewDragResolver(Geometry{CellWidth: 4, CellHeight: 2}, nil)

	if err := r.Move(Point{}); !errors.Is(err, errors.ErrNotDragging) {
		t.Errorf("Move while idle = %v, want ErrNotDragging", err)
	}
	if _, err := r.End(Point{}); !errors.Is(err, errors.ErrNotDragging) {
		t.Errorf("End while idle = %v, want ErrNotDragging", err)
	}
	if err := r.Start(nil, Point{}, Size{}); err == nil {
		t.Error("Start(nil) should fail")
	}

	if err := r.Start(dev("a", 1, 1), Point{}, Size{W: 1, H: 1}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := r.Start(dev("b", 1, 1), Point{}, Size{W: 1, H: 1}); !errors.Is(err, errors.ErrDragInProgress) {
		t.Errorf("second Start = %v, want ErrDragInProgress", err)
	}

	bad := NewDragResolver(Geometry{}, nil)
	if err := bad.Start(dev("a", 1, 1), Point{}, Size{}); err == nil {
		t.Error("Start with zero geometry should fail")
	}
}

func TestDragCancelRestoresCells(t *testing.T) {
	det := &fakeDetacher{detached: map[string]bool{}}
	r := NewDragResolver(Geometry{CellWidth: 4, CellHeight: 2}, det)
	d := dev("a", 40, 2)

	if err := r.Start(d, Point{X: 3, Y: 3}, Size{W: 4, H: 1}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !det.detached["a"] {
		t.Error("Start did not detach the device cells")
	}
	r.Cancel()
	if det.detached["a"] {
		t.Error("Cancel did not reattach the device cells")
	}
	if r.State() != Idle || d.Start != 40 {
		t.Errorf("Cancel left state %v start %d", r.State(), d.Start)
	}
	r.Cancel()
}

func TestHitTest(t *testing.T) {
	geom := Geometry{CellWidth: 5, CellHeight: 3}
	tests := []struct {
		name        string
		p           Point
		wantChannel int
		wantTrack   int
		wantOK      bool
	}{
		{name: "title line", p: Point{X: 0, Y: 0}, wantChannel: 1, wantTrack: -1, wantOK: true},
		{name: "first track", p: Point{X: 6, Y: 1}, wantChannel: 2, wantTrack: 0, wantOK: true},
		{name: "second row", p: Point{X: 39, Y: 5}, wantChannel: 16, wantTrack: 1, wantOK: true},
		{name: "below tracks", p: Point{X: 0, Y: 2}, wantChannel: 1, wantTrack: 1, wantOK: false},
		{name: "outside", p: Point{X: 40, Y: 0}},
		{name: "negative", p: Point{X: -1, Y: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trackCount := 1
			if tt.name == "second row" {
				trackCount = 2
			}
			ch, track, ok := geom.HitTest(tt.p, 1, trackCount)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if tt.wantChannel != 0 && (ch != tt.wantChannel || track != tt.wantTrack) {
				t.Errorf("HitTest(%v) = %d,%d, want %d,%d", tt.p, ch, track, tt.wantChannel, tt.wantTrack)
			}
		})
	}
}
