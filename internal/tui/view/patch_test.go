package view

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/openlighting/olatui/internal/patcher"
)

func renderPlain(t *testing.T, devices []*patcher.Device, cw, unit int) ([]string, *patcher.Grid) {
	t.Helper()
	r := patcher.NewRenderer()
	g := r.Render(patcher.Pack(devices))
	return RenderGrid(g, GridOptions{CellWidth: cw, Unit: unit, Plain: true}), g
}

func TestRenderGridDimensions(t *testing.T) {
	tests := []struct {
		name    string
		devices []*patcher.Device
		cw      int
		unit    int
	}{
		{name: "empty", cw: 6, unit: 1},
		{name: "one track", devices: []*patcher.Device{{UID: "a", Start: 1, Footprint: 3}}, cw: 6, unit: 1},
		{
			name: "two tracks",
			devices: []*patcher.Device{
				{UID: "a", Start: 1, Footprint: 4},
				{UID: "b", Start: 3, Footprint: 4},
			},
			cw:   9,
			unit: 1,
		},
		{name: "tall units", devices: []*patcher.Device{{UID: "a", Start: 10, Footprint: 2}}, cw: 5, unit: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines, g := renderPlain(t, tt.devices, tt.cw, tt.unit)
			if want := patcher.NumRows * g.RowHeight(tt.unit); len(lines) != want {
				t.Fatalf("len(lines) = %d, want %d", len(lines), want)
			}
			for i, l := range lines {
				if w := lipgloss.Width(l); w != patcher.ChannelsPerRow*tt.cw {
					t.Fatalf("line %d width = %d, want %d: %q", i, w, patcher.ChannelsPerRow*tt.cw, l)
				}
			}
		})
	}
}

func TestRenderGridPlainContent(t *testing.T) {
	lines, _ := renderPlain(t, []*patcher.Device{{UID: "a", Label: "Dim", Start: 2, Footprint: 2}}, 6, 1)

	if !strings.HasPrefix(lines[0], "1     2     3") {
		t.Errorf("title line = %q", lines[0])
	}
	want := ".     [Dim       ]." // channel 1 empty, channels 2-3 device
	if !strings.HasPrefix(lines[1], want) {
		t.Errorf("track line = %q, want prefix %q", lines[1], want)
	}
	if !strings.HasPrefix(lines[2], "9") {
		t.Errorf("second row title = %q", lines[2])
	}
}

func TestRenderGridOverflowMarker(t *testing.T) {
	lines, _ := renderPlain(t, []*patcher.Device{{UID: "a", Label: "Big", Start: 510, Footprint: 8}}, 8, 1)
	last := lines[len(lines)-1]
	if !strings.Contains(last, "[!Big") {
		t.Errorf("last track line = %q, want overflow marker", last)
	}
}

func TestRenderGridIdentifyMarker(t *testing.T) {
	lines, _ := renderPlain(t, []*patcher.Device{{UID: "a", Label: "Spot", Start: 1, Footprint: 2, Identify: true}}, 8, 1)
	if !strings.HasPrefix(lines[1], "[*Spot") {
		t.Errorf("track line = %q, want identify marker", lines[1])
	}
}

func TestRenderGridStyledWidth(t *testing.T) {
	r := patcher.NewRenderer()
	g := r.Render(patcher.Pack([]*patcher.Device{{UID: "a", Label: "Spot", Start: 7, Footprint: 4}}))
	lines := RenderGrid(g, GridOptions{CellWidth: 9, Unit: 1, Selected: "a"})
	for i, l := range lines {
		if w := lipgloss.Width(l); w != 72 {
			t.Fatalf("line %d width = %d, want 72", i, w)
		}
	}
}

func TestOverlay(t *testing.T) {
	lines := []string{"aaaaaaaa", "bbbbbbbb", "cccccccc"}

	tests := []struct {
		name  string
		x, y  int
		block []string
		want  []string
	}{
		{
			name:  "middle",
			x:     2,
			y:     1,
			block: []string{"XY"},
			want:  []string{"aaaaaaaa", "bbXYbbbb", "cccccccc"},
		},
		{
			name:  "left edge",
			x:     0,
			y:     0,
			block: []string{"XY", "ZW"},
			want:  []string{"XYaaaaaa", "ZWbbbbbb", "cccccccc"},
		},
		{
			name:  "clipped below",
			x:     6,
			y:     2,
			block: []string{"XY", "ZW"},
			want:  []string{"aaaaaaaa", "bbbbbbbb", "ccccccXY"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Overlay(lines, tt.x, tt.y, tt.block)
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("line %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
			if lines[1] != "bbbbbbbb" {
				t.Error("Overlay modified its input")
			}
		})
	}
}

func TestFloatingBlock(t *testing.T) {
	d := &patcher.Device{UID: "a", Label: "Moving Head", Start: 1, Footprint: 16}
	block := FloatingBlock(d, patcher.Size{W: 9, H: 2}, true)
	if len(block) != 2 {
		t.Fatalf("len(block) = %d, want 2", len(block))
	}
	if block[0] != "Moving..." {
		t.Errorf("block[0] = %q", block[0])
	}
	if block[1] != "         " {
		t.Errorf("block[1] = %q", block[1])
	}
}
