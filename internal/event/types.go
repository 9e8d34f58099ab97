package event

import (
	"time"

	"github.com/openlighting/olatui/internal/ola"
)

// Event types.
const (
	TypePluginList     = "plugins.updated"
	TypeUniverseList   = "universes.updated"
	TypeUIDList        = "uids.updated"
	TypeDevices        = "devices.updated"
	TypeAddressChanged = "device.address_changed"
	TypeSourceError    = "source.error"
)

// Event is implemented by everything published on a Bus.
type Event interface {
	// EventType returns the "category.action" identifier of the event.
	EventType() string
	Timestamp() time.Time
}

type baseEvent struct {
	eventType string
	timestamp time.Time
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

func newBaseEvent(eventType string) baseEvent {
	return baseEvent{
		eventType: eventType,
		timestamp: time.Now(),
	}
}

// PluginListEvent carries the full plugin list of a poll.
type PluginListEvent struct {
	baseEvent
	Plugins []ola.Plugin
}

// NewPluginListEvent creates a PluginListEvent.
func NewPluginListEvent(plugins []ola.Plugin) PluginListEvent {
	return PluginListEvent{
		baseEvent: newBaseEvent(TypePluginList),
		Plugins:   plugins,
	}
}

// UniverseListEvent carries the full universe list of a poll.
type UniverseListEvent struct {
	baseEvent
	Universes []ola.Universe
}

// NewUniverseListEvent creates a UniverseListEvent.
func NewUniverseListEvent(universes []ola.Universe) UniverseListEvent {
	return UniverseListEvent{
		baseEvent: newBaseEvent(TypeUniverseList),
		Universes: universes,
	}
}

// UIDListEvent carries the responders discovered on one universe.
type UIDListEvent struct {
	baseEvent
	Universe int
	UIDs     []ola.UID
}

// NewUIDListEvent creates a UIDListEvent.
func NewUIDListEvent(universe int, uids []ola.UID) UIDListEvent {
	return UIDListEvent{
		baseEvent: newBaseEvent(TypeUIDList),
		Universe:  universe,
		UIDs:      uids,
	}
}

// DevicesEvent carries the address and footprint of every responder on one
// universe, plus the universe's ports and RDM sections.
type DevicesEvent struct {
	baseEvent
	Universe int
	Devices  []ola.DeviceInfo
	Ports    []ola.Port
	Sections []ola.Section
}

// NewDevicesEvent creates a DevicesEvent.
func NewDevicesEvent(universe int, devices []ola.DeviceInfo, ports []ola.Port, sections []ola.Section) DevicesEvent {
	return DevicesEvent{
		baseEvent: newBaseEvent(TypeDevices),
		Universe:  universe,
		Devices:   devices,
		Ports:     ports,
		Sections:  sections,
	}
}

// AddressChangedEvent is published after a start address was written.
type AddressChangedEvent struct {
	baseEvent
	Universe int
	UID      string
	OldStart int
	NewStart int
}

// NewAddressChangedEvent creates an AddressChangedEvent.
func NewAddressChangedEvent(universe int, uid string, oldStart, newStart int) AddressChangedEvent {
	return AddressChangedEvent{
		baseEvent: newBaseEvent(TypeAddressChanged),
		Universe:  universe,
		UID:       uid,
		OldStart:  oldStart,
		NewStart:  newStart,
	}
}

// SourceErrorEvent reports a failed poll.
type SourceErrorEvent struct {
	baseEvent
	Op  string
	Err error
}

// NewSourceErrorEvent creates a SourceErrorEvent.
func NewSourceErrorEvent(op string, err error) SourceErrorEvent {
	return SourceErrorEvent{
		baseEvent: newBaseEvent(TypeSourceError),
		Op:        op,
		Err:       err,
	}
}
