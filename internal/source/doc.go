// Package source reads universe data from a snapshot directory laid out
// like the olad JSON API and publishes it on the event bus.
//
// A snapshot looks like this:
//
//	<dir>/universe_plugin_list.json
//	<dir>/universes/<id>/universe_info.json
//	<dir>/universes/<id>/uids.json
//	<dir>/universes/<id>/sections.json
//	<dir>/universes/<id>/devices/<uid>.json
//	<dir>/universes/<id>/devices/<uid>.personalities.json
//
// where <uid> has its colon replaced by an underscore. Files are read
// through an afero.Fs so tests can use an in-memory filesystem.
//
// [Poller] publishes full lists on every refresh rather than deltas; the
// UI reconciles them against what it already shows.
package source
