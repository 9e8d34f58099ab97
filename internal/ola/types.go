// Package ola defines the records served by an OLA daemon's JSON API and
// the orderings the UI lists are kept in.
//
// Field names follow the daemon's JSON output so snapshot files can be
// captured straight from a running olad.
package ola

import (
	"cmp"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Plugin is an entry of the "plugins" array in universe_plugin_list.
type Plugin struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Universe is an entry of the "universes" array in universe_plugin_list.
type Universe struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	InputPorts  int    `json:"input_ports"`
	OutputPorts int    `json:"output_ports"`
	RDMDevices  int    `json:"rdm_devices"`
}

// UniversePluginList is the body of json/universe_plugin_list.
type UniversePluginList struct {
	Plugins   []Plugin   `json:"plugins"`
	Universes []Universe `json:"universes"`
}

// Port is a device port patched to a universe.
type Port struct {
	ID          string `json:"id"`
	Device      string `json:"device"`
	Description string `json:"description"`
	Priority    int    `json:"priority"`
	IsOutput    bool   `json:"-"`
}

// UniverseInfo is the body of json/universe_info.
type UniverseInfo struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	MergeMode   string `json:"merge_mode"`
	InputPorts  []Port `json:"input_ports"`
	OutputPorts []Port `json:"output_ports"`
}

// Ports returns input and output ports in one slice, outputs flagged.
func (u *UniverseInfo) Ports() []Port {
	ports := make([]Port, 0, len(u.InputPorts)+len(u.OutputPorts))
	ports = append(ports, u.InputPorts...)
	for _, p := range u.OutputPorts {
		p.IsOutput = true
		ports = append(ports, p)
	}
	return ports
}

// UID identifies an RDM responder.
type UID struct {
	ManufacturerID int    `json:"manufacturer_id"`
	DeviceID       int    `json:"device_id"`
	Manufacturer   string `json:"manufacturer"`
	Device         string `json:"device"`
	UID            string `json:"uid"`
}

// String returns the canonical "mmmm:dddddddd" form.
func (u UID) String() string {
	if u.UID != "" {
		return u.UID
	}
	return fmt.Sprintf("%04x:%08x", u.ManufacturerID, u.DeviceID)
}

// DeviceName returns the best human label for the responder, empty when
// the daemon has not resolved it yet.
func (u UID) DeviceName() string {
	switch {
	case u.Manufacturer != "" && u.Device != "":
		return u.Manufacturer + ", " + u.Device
	case u.Device != "":
		return u.Device
	default:
		return u.Manufacturer
	}
}

// ParseUID parses "mmmm:dddddddd" into a UID.
func ParseUID(s string) (UID, error) {
	manufacturer, device, ok := strings.Cut(s, ":")
	if !ok {
		return UID{}, fmt.Errorf("invalid uid %q", s)
	}
	m, err := strconv.ParseUint(manufacturer, 16, 16)
	if err != nil {
		return UID{}, fmt.Errorf("invalid uid %q: %w", s, err)
	}
	d, err := strconv.ParseUint(device, 16, 32)
	if err != nil {
		return UID{}, fmt.Errorf("invalid uid %q: %w", s, err)
	}
	return UID{ManufacturerID: int(m), DeviceID: int(d), UID: s}, nil
}

// UIDList is the body of json/rdm/uids.
type UIDList struct {
	Universe int   `json:"universe"`
	UIDs     []UID `json:"uids"`
}

// Section is an RDM attribute section from json/rdm/supported_sections.
type Section struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Hint string `json:"hint"`
}

// DeviceInfo is the body of json/rdm/uid_info plus the uid it belongs to.
type DeviceInfo struct {
	Error            string `json:"error"`
	UID              string `json:"uid"`
	Label            string `json:"label"`
	Address          int    `json:"address"`
	Footprint        int    `json:"footprint"`
	Personality      int    `json:"personality"`
	PersonalityCount int    `json:"personality_count"`
	Identify         bool   `json:"identify"`
}

// Item types of a section_info response.
const (
	ItemString = "string"
	ItemUint   = "uint"
	ItemBool   = "bool"
	ItemSelect = "select"
	ItemHidden = "hidden"
)

// IdentifySection is the section holding a responder's identify mode.
// Its boolean item has the id IdentifyItem.
const (
	IdentifySection = "identify_device"
	IdentifyItem    = "bool"
)

// SectionOption is one choice of a select item.
type SectionOption struct {
	Label string `json:"label"`
	Value any    `json:"value"`
}

// SectionItem is one field of an RDM attribute section. Items with an id
// can be set; the value is kept raw since its shape depends on the type.
type SectionItem struct {
	Description    string          `json:"description"`
	Type           string          `json:"type,omitempty"`
	ID             string          `json:"id,omitempty"`
	Value          json.RawMessage `json:"value,omitempty"`
	Min            *int            `json:"min,omitempty"`
	Max            *int            `json:"max,omitempty"`
	Button         string          `json:"button,omitempty"`
	SelectedOffset int             `json:"selected_offset,omitempty"`
}

// Editable reports whether the item can be changed.
func (it SectionItem) Editable() bool {
	return it.ID != "" && it.Type != ItemHidden
}

// Options decodes the choices of a select item.
func (it SectionItem) Options() []SectionOption {
	if it.Type != ItemSelect {
		return nil
	}
	var opts []SectionOption
	if err := json.Unmarshal(it.Value, &opts); err != nil {
		return nil
	}
	return opts
}

// Text renders the value for display.
func (it SectionItem) Text() string {
	switch it.Type {
	case ItemHidden:
		return ""
	case ItemSelect:
		opts := it.Options()
		if it.SelectedOffset >= 0 && it.SelectedOffset < len(opts) {
			return opts[it.SelectedOffset].Label
		}
		return ""
	}
	if len(it.Value) == 0 {
		return ""
	}
	var v any
	if err := json.Unmarshal(it.Value, &v); err != nil {
		return string(it.Value)
	}
	switch v := v.(type) {
	case nil:
		return ""
	case bool:
		if v {
			return "on"
		}
		return "off"
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// SectionInfo is the body of json/rdm/section_info.
type SectionInfo struct {
	Error      string        `json:"error"`
	Items      []SectionItem `json:"items"`
	Refresh    bool          `json:"refresh,omitempty"`
	SaveButton string        `json:"save_button,omitempty"`
}

// Item returns the item with the given id.
func (s *SectionInfo) Item(id string) (*SectionItem, bool) {
	for i := range s.Items {
		if s.Items[i].ID == id {
			return &s.Items[i], true
		}
	}
	return nil, false
}

// DeviceSection is a section together with its contents for one
// responder. Info is nil when the responder has no record for it.
type DeviceSection struct {
	Section
	Info *SectionInfo
}

// Personality is one DMX personality of a responder.
type Personality struct {
	Name      string `json:"name"`
	Index     int    `json:"index"`
	Footprint int    `json:"footprint"`
}

// PersonalityList is the body of json/rdm/uid_personalities.
type PersonalityList struct {
	Error         string        `json:"error"`
	Personalities []Personality `json:"personalities"`
	Selected      int           `json:"selected"`
}

// Find returns the personality with the given 1-based index.
func (l *PersonalityList) Find(index int) (Personality, bool) {
	for _, p := range l.Personalities {
		if p.Index == index {
			return p, true
		}
	}
	return Personality{}, false
}

// ComparePlugins orders plugins by name, then id.
func ComparePlugins(a, b Plugin) int {
	if c := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// CompareUniverses orders universes by id.
func CompareUniverses(a, b Universe) int {
	return cmp.Compare(a.ID, b.ID)
}

// CompareUIDs orders UIDs by manufacturer id, then device id.
func CompareUIDs(a, b UID) int {
	if c := cmp.Compare(a.ManufacturerID, b.ManufacturerID); c != 0 {
		return c
	}
	return cmp.Compare(a.DeviceID, b.DeviceID)
}

// CompareSections orders RDM sections by name, then id.
func CompareSections(a, b Section) int {
	if c := strings.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	return strings.Compare(a.ID, b.ID)
}

// ComparePorts orders ports inputs first, then by id.
func ComparePorts(a, b Port) int {
	if a.IsOutput != b.IsOutput {
		if a.IsOutput {
			return 1
		}
		return -1
	}
	return strings.Compare(a.ID, b.ID)
}
