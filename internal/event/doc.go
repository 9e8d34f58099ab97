// Package event provides the pub-sub bus that carries data-source updates
// to the terminal UI and the CLI.
//
// The snapshot poller publishes full lists (plugins, universes, UIDs,
// devices) on every refresh. The TUI subscribes and forwards each event into
// the bubbletea program, so the reconciler and the patcher only ever run on
// the UI goroutine.
//
// # Basic Usage
//
//	bus := event.NewBus(logger)
//
//	bus.Subscribe(event.TypeUniverseList, func(e event.Event) {
//	    universes := e.(event.UniverseListEvent).Universes
//	    ...
//	})
//
//	bus.Publish(event.NewUniverseListEvent(list.Universes))
//
// # Event Type Naming Convention
//
// Event types follow the pattern "category.action":
//   - plugins.updated, universes.updated, uids.updated, devices.updated
//   - device.address_changed
//   - source.error
//
// # Thread Safety
//
// [Bus] is safe for concurrent use. Handlers are called synchronously on
// the publishing goroutine; a panicking handler is logged and does not stop
// delivery to the others.
package event
