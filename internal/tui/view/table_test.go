package view

import (
	"strings"
	"testing"

	"github.com/openlighting/olatui/internal/ola"
)

func TestRenderTable(t *testing.T) {
	rows := UIDRows([]ola.UID{
		{ManufacturerID: 0x7a70, DeviceID: 1, Manufacturer: "Open Lighting", Device: "Dimmer"},
	})
	out := RenderTable(UIDColumns, rows, 60, 0, true)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "UID") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "7a70:00000001  Open Lighting") {
		t.Errorf("row = %q", lines[1])
	}
}

func TestRenderTableEmpty(t *testing.T) {
	out := RenderTable(SectionColumns, nil, 40, 4, true)
	lines := strings.Split(out, "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4", len(lines))
	}
	if !strings.HasPrefix(lines[1], "(none)") {
		t.Errorf("empty marker = %q", lines[1])
	}
}

func TestPortRows(t *testing.T) {
	rows := PortRows([]ola.Port{
		{ID: "1-1-I-0", Priority: 100},
		{ID: "1-1-O-0", Priority: 50, IsOutput: true},
	})
	if rows[0][0] != "in" || rows[1][0] != "out" || rows[1][2] != "50" {
		t.Errorf("rows = %v", rows)
	}
}

func TestDeviceSectionRows(t *testing.T) {
	rows := DeviceSectionRows([]ola.DeviceSection{
		{Section: ola.Section{ID: "boot_software", Name: "Boot Software"}},
		{
			Section: ola.Section{ID: "device_label", Name: "Device Label"},
			Info: &ola.SectionInfo{Items: []ola.SectionItem{
				{Description: "Label", Type: ola.ItemString, ID: "label", Value: []byte(`"Spot left"`)},
				{Description: "Hidden", Type: ola.ItemHidden, ID: "h", Value: []byte(`"x"`)},
				{Description: "Manufacturer", Type: ola.ItemString, Value: []byte(`"Acme"`)},
			}},
		},
		{Section: ola.Section{ID: "lamp_hours", Name: "Lamp Hours"}, Info: &ola.SectionInfo{Error: "timeout"}},
	})

	want := [][]string{
		{"Device Label", "Label *", "Spot left"},
		{"", "Manufacturer", "Acme"},
		{"Lamp Hours", "error", "timeout"},
	}
	if len(rows) != len(want) {
		t.Fatalf("rows = %q, want %q", rows, want)
	}
	for i := range want {
		for j := range want[i] {
			if rows[i][j] != want[i][j] {
				t.Errorf("rows[%d][%d] = %q, want %q", i, j, rows[i][j], want[i][j])
			}
		}
	}
}
