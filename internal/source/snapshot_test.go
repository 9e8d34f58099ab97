package source

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/spf13/afero"

	"github.com/openlighting/olatui/internal/errors"
	"github.com/openlighting/olatui/internal/logging"
	"github.com/openlighting/olatui/internal/testutil"
)

const fixtureDir = testutil.SnapshotRoot

// fixtureFiles is a snapshot with one universe holding three responders:
// a dimmer, a moving head with personalities and one that reports an error.
var fixtureFiles = map[string]string{
	"universe_plugin_list.json": `{
		"plugins": [{"id": 1, "name": "Dummy"}, {"id": 3, "name": "ArtNet"}],
		"universes": [{"id": 1, "name": "Stage", "input_ports": 0, "output_ports": 1, "rdm_devices": 3}]
	}`,
	"universes/1/universe_info.json": `{
		"id": 1, "name": "Stage", "merge_mode": "HTP",
		"input_ports": [],
		"output_ports": [{"id": "1-1-O-0", "device": "Dummy Device", "description": "Dummy Port", "priority": 100}]
	}`,
	"universes/1/uids.json": `{
		"universe": 1,
		"uids": [
			{"manufacturer_id": 31344, "device_id": 1, "manufacturer": "Open Lighting", "device": "Dimmer", "uid": "7a70:00000001"},
			{"manufacturer_id": 31344, "device_id": 2, "manufacturer": "Open Lighting", "device": "Moving Head", "uid": "7a70:00000002"},
			{"manufacturer_id": 31344, "device_id": 3, "manufacturer": "", "device": "", "uid": "7a70:00000003"}
		]
	}`,
	"universes/1/sections.json": `[
		{"id": "dmx_address", "name": "DMX Start Address", "hint": ""},
		{"id": "identify_device", "name": "Identify Device", "hint": ""},
		{"id": "device_label", "name": "Device Label", "hint": ""},
		{"id": "lamp_hours", "name": "Lamp Hours", "hint": ""}
	]`,
	testutil.DeviceFile(1, "7a70:00000001"): `{"error": "", "address": 1, "footprint": 4, "personality": 1, "personality_count": 1}`,
	testutil.DeviceFile(1, "7a70:00000002"): `{"error": "", "address": 3, "footprint": 8, "personality": 1, "personality_count": 2, "label": "Spot", "vendor_extra": 7}`,
	testutil.PersonalitiesFile(1, "7a70:00000002"): `{
		"error": "",
		"personalities": [{"name": "Basic", "index": 1, "footprint": 8}, {"name": "Extended", "index": 2, "footprint": 16}],
		"selected": 1
	}`,
	testutil.DeviceFile(1, "7a70:00000003"): `{"error": "RDM timeout", "address": 0, "footprint": 0}`,
}

func writeFixture(t *testing.T, fs afero.Fs, name, body string) {
	t.Helper()
	testutil.WriteFile(t, fs, fixtureDir, name, body)
}

func newFixture(t *testing.T) (afero.Fs, *Snapshot) {
	t.Helper()
	fs := testutil.SetupSnapshot(t, fixtureFiles)
	return fs, NewSnapshot(fs, fixtureDir, 2, logging.NopLogger())
}

func TestSnapshotUniversePluginList(t *testing.T) {
	_, snap := newFixture(t)
	list, err := snap.UniversePluginList(context.Background())
	if err != nil {
		t.Fatalf("UniversePluginList: %v", err)
	}
	if len(list.Plugins) != 2 || list.Plugins[1].Name != "ArtNet" {
		t.Errorf("Plugins = %+v", list.Plugins)
	}
	if len(list.Universes) != 1 || list.Universes[0].RDMDevices != 3 {
		t.Errorf("Universes = %+v", list.Universes)
	}
}

func TestSnapshotUniverse(t *testing.T) {
	_, snap := newFixture(t)
	ctx := context.Background()

	info, err := snap.UniverseInfo(ctx, 1)
	if err != nil {
		t.Fatalf("UniverseInfo: %v", err)
	}
	if ports := info.Ports(); len(ports) != 1 || !ports[0].IsOutput {
		t.Errorf("Ports() = %+v", ports)
	}

	sections, err := snap.Sections(ctx, 1)
	if err != nil {
		t.Fatalf("Sections: %v", err)
	}
	if len(sections) != 4 {
		t.Errorf("len(sections) = %d, want 4", len(sections))
	}

	uids, err := snap.UIDs(ctx, 1)
	if err != nil {
		t.Fatalf("UIDs: %v", err)
	}
	if len(uids.UIDs) != 3 || uids.UIDs[0].ManufacturerID != 0x7a70 {
		t.Errorf("UIDs = %+v", uids.UIDs)
	}
}

func TestSnapshotMissingUniverse(t *testing.T) {
	_, snap := newFixture(t)
	_, err := snap.UIDs(context.Background(), 9)
	if !errors.Is(err, errors.ErrUniverseNotFound) {
		t.Errorf("UIDs(9) = %v, want ErrUniverseNotFound", err)
	}
	var nf *errors.NotFoundError
	if !errors.As(err, &nf) || nf.ResourceID != "9" {
		t.Errorf("error %v is not a NotFoundError for universe 9", err)
	}
}

func TestSnapshotOptionalFiles(t *testing.T) {
	fs, snap := newFixture(t)
	if err := fs.MkdirAll(fixtureDir+"/universes/2", 0o755); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	uids, err := snap.UIDs(ctx, 2)
	if err != nil {
		t.Fatalf("UIDs: %v", err)
	}
	if len(uids.UIDs) != 0 || uids.Universe != 2 {
		t.Errorf("UIDs = %+v, want empty list for universe 2", uids)
	}
	devices, err := snap.Devices(ctx, 2)
	if err != nil || len(devices) != 0 {
		t.Errorf("Devices = %v, %v", devices, err)
	}
}

func TestSnapshotDevices(t *testing.T) {
	_, snap := newFixture(t)
	devices, err := snap.Devices(context.Background(), 1)
	if err != nil {
		t.Fatalf("Devices: %v", err)
	}
	if len(devices) != 2 {
		t.Fatalf("len(devices) = %d, want 2 (error record skipped)", len(devices))
	}
	if devices[0].UID != "7a70:00000001" || devices[0].Label != "Open Lighting, Dimmer" {
		t.Errorf("devices[0] = %+v", devices[0])
	}
	if devices[1].UID != "7a70:00000002" || devices[1].Label != "Spot" || devices[1].Footprint != 8 {
		t.Errorf("devices[1] = %+v", devices[1])
	}
}

func TestSnapshotDeviceInfoErrors(t *testing.T) {
	fs, snap := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		uid     string
		setup   func()
		wantErr error
	}{
		{name: "server error", uid: "7a70:00000003", wantErr: errors.ErrServerReported},
		{
			name:    "corrupted",
			uid:     "7a70:00000004",
			setup:   func() { writeFixture(t, fs, "universes/1/devices/7a70_00000004.json", `{"address":`) },
			wantErr: errors.ErrSnapshotCorrupted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setup != nil {
				tt.setup()
			}
			_, err := snap.DeviceInfo(ctx, 1, tt.uid)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("DeviceInfo(%s) = %v, want %v", tt.uid, err, tt.wantErr)
			}
		})
	}

	t.Run("missing", func(t *testing.T) {
		_, err := snap.DeviceInfo(ctx, 1, "7a70:000000ff")
		var nf *errors.NotFoundError
		if !errors.As(err, &nf) {
			t.Errorf("DeviceInfo(missing) = %v, want NotFoundError", err)
		}
	})
}

func TestSnapshotCanceled(t *testing.T) {
	_, snap := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := snap.UniversePluginList(ctx); !errors.Is(err, errors.ErrCanceled) {
		t.Errorf("UniversePluginList(canceled) = %v, want ErrCanceled", err)
	}
}

func TestSnapshotSetStartAddress(t *testing.T) {
	fs, snap := newFixture(t)
	ctx := context.Background()

	if err := snap.SetStartAddress(ctx, 1, "7a70:00000002", 40); err != nil {
		t.Fatalf("SetStartAddress: %v", err)
	}
	info, err := snap.DeviceInfo(ctx, 1, "7a70:00000002")
	if err != nil {
		t.Fatalf("DeviceInfo: %v", err)
	}
	if info.Address != 40 || info.Footprint != 8 {
		t.Errorf("info = %+v", info)
	}

	data := testutil.ReadFile(t, fs, fixtureDir, testutil.DeviceFile(1, "7a70:00000002"))
	var raw map[string]any
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		t.Fatal(err)
	}
	if raw["vendor_extra"] != float64(7) {
		t.Errorf("unknown field dropped: %v", raw)
	}
	if exists, _ := afero.Exists(fs, fixtureDir+"/universes/1/devices/7a70_00000002.json.tmp"); exists {
		t.Error("temporary file left behind")
	}
	if snap.Writes() != 1 {
		t.Errorf("Writes() = %d, want 1", snap.Writes())
	}

	tests := []struct {
		name    string
		uid     string
		start   int
		wantErr error
	}{
		{name: "zero", uid: "7a70:00000002", start: 0, wantErr: errors.ErrInvalidAddress},
		{name: "past the end", uid: "7a70:00000002", start: 513, wantErr: errors.ErrInvalidAddress},
		{name: "error record", uid: "7a70:00000003", start: 1, wantErr: errors.ErrServerReported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := snap.SetStartAddress(ctx, 1, tt.uid, tt.start); !errors.Is(err, tt.wantErr) {
				t.Errorf("SetStartAddress = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSnapshotSetPersonality(t *testing.T) {
	_, snap := newFixture(t)
	ctx := context.Background()

	footprint, err := snap.SetPersonality(ctx, 1, "7a70:00000002", 2)
	if err != nil {
		t.Fatalf("SetPersonality: %v", err)
	}
	if footprint != 16 {
		t.Errorf("footprint = %d, want 16", footprint)
	}

	info, err := snap.DeviceInfo(ctx, 1, "7a70:00000002")
	if err != nil {
		t.Fatalf("DeviceInfo: %v", err)
	}
	if info.Footprint != 16 || info.Personality != 2 {
		t.Errorf("info = %+v", info)
	}
	list, err := snap.Personalities(ctx, 1, "7a70:00000002")
	if err != nil {
		t.Fatalf("Personalities: %v", err)
	}
	if list.Selected != 2 {
		t.Errorf("Selected = %d, want 2", list.Selected)
	}

	if _, err := snap.SetPersonality(ctx, 1, "7a70:00000002", 7); !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("SetPersonality(7) = %v, want validation error", err)
	}
}

func TestUIDFileName(t *testing.T) {
	if got := UIDFileName("7a70:00000001"); got != "7a70_00000001" {
		t.Errorf("UIDFileName() = %q", got)
	}
}
