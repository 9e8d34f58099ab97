package source

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/openlighting/olatui/internal/errors"
	"github.com/openlighting/olatui/internal/ola"
)

const spotUID = "7a70:00000002"

func sectionFile(section string) string {
	return filepath.Join("universes", "1", "devices", "7a70_00000002.sections", section+".json")
}

// newSectionFixture adds section records for the moving head: a label, an
// identify switch, a personality choice and a failed lamp hours read.
func newSectionFixture(t *testing.T) (afero.Fs, *Snapshot) {
	t.Helper()
	fs, snap := newFixture(t)
	writeFixture(t, fs, sectionFile("device_label"), `{
		"error": "",
		"items": [
			{"description": "Manufacturer", "value": "Open Lighting"},
			{"description": "Label", "type": "string", "id": "label", "value": "Spot"}
		],
		"save_button": "Apply"
	}`)
	writeFixture(t, fs, sectionFile(ola.IdentifySection), `{
		"error": "",
		"items": [{"description": "Identify", "type": "bool", "id": "bool", "value": false}],
		"save_button": "Apply"
	}`)
	writeFixture(t, fs, sectionFile("dmx_address"), `{
		"error": "",
		"items": [
			{"description": "DMX Start Address", "type": "uint", "id": "int", "value": 3, "min": 1, "max": 512},
			{"description": "Mode", "type": "select", "id": "mode", "selected_offset": 0,
			 "value": [{"label": "Basic", "value": 1}, {"label": "Extended", "value": 2}]},
			{"description": "Token", "type": "hidden", "id": "token", "value": "abc"}
		]
	}`)
	writeFixture(t, fs, sectionFile("lamp_hours"), `{"error": "RDM timeout", "items": []}`)
	return fs, snap
}

func TestSnapshotSectionInfo(t *testing.T) {
	_, snap := newSectionFixture(t)
	ctx := context.Background()

	info, err := snap.SectionInfo(ctx, 1, spotUID, "device_label")
	if err != nil {
		t.Fatalf("SectionInfo: %v", err)
	}
	if len(info.Items) != 2 || info.SaveButton != "Apply" {
		t.Fatalf("info = %+v", info)
	}
	if got := info.Items[1].Text(); got != "Spot" {
		t.Errorf("label = %q, want Spot", got)
	}

	if _, err := snap.SectionInfo(ctx, 1, spotUID, "lamp_hours"); !errors.Is(err, errors.ErrServerReported) {
		t.Errorf("SectionInfo(lamp_hours) = %v, want ErrServerReported", err)
	}
	var nf *errors.NotFoundError
	if _, err := snap.SectionInfo(ctx, 1, spotUID, "boot_software"); !errors.As(err, &nf) {
		t.Errorf("SectionInfo(missing) = %v, want NotFoundError", err)
	}
}

func TestSnapshotDeviceSections(t *testing.T) {
	fs, snap := newSectionFixture(t)
	ctx := context.Background()
	writeFixture(t, fs, sectionFile("dmx_address"), `{"items": [`)

	sections, err := snap.DeviceSections(ctx, 1, spotUID)
	if err != nil {
		t.Fatalf("DeviceSections: %v", err)
	}
	if len(sections) != 4 {
		t.Fatalf("len(sections) = %d, want 4", len(sections))
	}

	byID := make(map[string]ola.DeviceSection)
	for _, s := range sections {
		byID[s.ID] = s
	}
	if s := byID["device_label"]; s.Info == nil || s.Name != "Device Label" || len(s.Info.Items) != 2 {
		t.Errorf("device_label = %+v", s)
	}
	if s := byID["lamp_hours"]; s.Info == nil || s.Info.Error != "RDM timeout" {
		t.Errorf("lamp_hours = %+v", s.Info)
	}
	if s := byID["dmx_address"]; s.Info == nil || !strings.Contains(s.Info.Error, "corrupted") {
		t.Errorf("corrupted dmx_address = %+v", s.Info)
	}
	if s := byID[ola.IdentifySection]; s.Info == nil {
		t.Error("identify section not read")
	}

	// The dimmer has no section records at all.
	sections, err = snap.DeviceSections(ctx, 1, "7a70:00000001")
	if err != nil {
		t.Fatalf("DeviceSections(dimmer): %v", err)
	}
	for _, s := range sections {
		if s.Info != nil {
			t.Errorf("section %s has info %+v, want none", s.ID, s.Info)
		}
	}

	var nf *errors.NotFoundError
	if _, err := snap.DeviceSections(ctx, 1, "7a70:000000ff"); !errors.As(err, &nf) {
		t.Errorf("DeviceSections(unknown) = %v, want NotFoundError", err)
	}
}

func TestSnapshotSetSectionItem(t *testing.T) {
	tests := []struct {
		name    string
		section string
		id      string
		value   string
		want    string
		wantErr bool
	}{
		{name: "string", section: "device_label", id: "label", value: "Spot left", want: "Spot left"},
		{name: "uint", section: "dmx_address", id: "int", value: "100", want: "100"},
		{name: "uint below min", section: "dmx_address", id: "int", value: "0", wantErr: true},
		{name: "uint above max", section: "dmx_address", id: "int", value: "513", wantErr: true},
		{name: "uint not a number", section: "dmx_address", id: "int", value: "ten", wantErr: true},
		{name: "select by label", section: "dmx_address", id: "mode", value: "Extended", want: "Extended"},
		{name: "select by value", section: "dmx_address", id: "mode", value: "2", want: "Extended"},
		{name: "select unknown", section: "dmx_address", id: "mode", value: "Wide", wantErr: true},
		{name: "bool", section: ola.IdentifySection, id: "bool", value: "1", want: "on"},
		{name: "bool invalid", section: ola.IdentifySection, id: "bool", value: "maybe", wantErr: true},
		{name: "hidden", section: "dmx_address", id: "token", value: "x", wantErr: true},
		{name: "unknown item", section: "device_label", id: "nope", value: "x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, snap := newSectionFixture(t)
			ctx := context.Background()

			info, err := snap.SetSectionItem(ctx, 1, spotUID, tt.section, tt.id, tt.value)
			if tt.wantErr {
				var ve *errors.ValidationError
				if !errors.As(err, &ve) {
					t.Errorf("SetSectionItem = %v, want ValidationError", err)
				}
				if snap.Writes() != 0 {
					t.Errorf("Writes() = %d after a rejected value", snap.Writes())
				}
				return
			}
			if err != nil {
				t.Fatalf("SetSectionItem: %v", err)
			}
			if it, _ := info.Item(tt.id); it.Text() != tt.want {
				t.Errorf("returned %s = %q, want %q", tt.id, it.Text(), tt.want)
			}

			reread, err := snap.SectionInfo(ctx, 1, spotUID, tt.section)
			if err != nil {
				t.Fatalf("SectionInfo: %v", err)
			}
			if it, _ := reread.Item(tt.id); it.Text() != tt.want {
				t.Errorf("stored %s = %q, want %q", tt.id, it.Text(), tt.want)
			}
		})
	}
}

func TestSnapshotSetIdentify(t *testing.T) {
	fs, snap := newSectionFixture(t)
	ctx := context.Background()

	if err := snap.SetIdentify(ctx, 1, spotUID, true); err != nil {
		t.Fatalf("SetIdentify: %v", err)
	}
	info, err := snap.DeviceInfo(ctx, 1, spotUID)
	if err != nil {
		t.Fatalf("DeviceInfo: %v", err)
	}
	if !info.Identify || info.Footprint != 8 {
		t.Errorf("info = %+v", info)
	}
	section, err := snap.SectionInfo(ctx, 1, spotUID, ola.IdentifySection)
	if err != nil {
		t.Fatalf("SectionInfo: %v", err)
	}
	if it, _ := section.Item(ola.IdentifyItem); it.Text() != "on" {
		t.Errorf("identify item = %q, want on", it.Text())
	}

	var raw map[string]any
	data, _ := afero.ReadFile(fs, filepath.Join(fixtureDir, "universes/1/devices/7a70_00000002.json"))
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	if raw["vendor_extra"] != float64(7) {
		t.Errorf("unknown field dropped: %v", raw)
	}

	// A responder without an identify section only has its record updated.
	if err := snap.SetIdentify(ctx, 1, "7a70:00000001", true); err != nil {
		t.Fatalf("SetIdentify(dimmer): %v", err)
	}
	if info, _ := snap.DeviceInfo(ctx, 1, "7a70:00000001"); !info.Identify {
		t.Error("dimmer not in identify mode")
	}

	if err := snap.SetIdentify(ctx, 1, "7a70:00000003", true); !errors.Is(err, errors.ErrServerReported) {
		t.Errorf("SetIdentify(error record) = %v, want ErrServerReported", err)
	}
}
