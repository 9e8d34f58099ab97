package source

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/afero"

	"github.com/openlighting/olatui/internal/errors"
	"github.com/openlighting/olatui/internal/logging"
	"github.com/openlighting/olatui/internal/ola"
)

// File names inside a snapshot directory.
const (
	pluginListFile   = "universe_plugin_list.json"
	universesDir     = "universes"
	universeInfoFile = "universe_info.json"
	uidsFile         = "uids.json"
	sectionsFile     = "sections.json"
	devicesDir       = "devices"
	personalitiesExt = ".personalities.json"
)

// DefaultWorkers bounds concurrent device reads when no limit is set.
const DefaultWorkers = 4

// Snapshot reads and writes universe data stored as JSON files in the
// layout of the olad HTTP API.
type Snapshot struct {
	fs      afero.Fs
	dir     string
	workers int
	logger  *logging.Logger

	writes atomic.Uint64
}

// NewSnapshot opens the snapshot rooted at dir on fs. logger may be nil.
func NewSnapshot(fs afero.Fs, dir string, workers int, logger *logging.Logger) *Snapshot {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Snapshot{
		fs:      fs,
		dir:     dir,
		workers: workers,
		logger:  logger.WithComponent("source"),
	}
}

// Dir returns the snapshot root.
func (s *Snapshot) Dir() string {
	return s.dir
}

// Fs returns the filesystem the snapshot lives on.
func (s *Snapshot) Fs() afero.Fs {
	return s.fs
}

// UIDFileName maps a uid to the base name of its device file.
func UIDFileName(uid string) string {
	return strings.ReplaceAll(uid, ":", "_")
}

func (s *Snapshot) universePath(id int, elem ...string) string {
	return filepath.Join(append([]string{s.dir, universesDir, strconv.Itoa(id)}, elem...)...)
}

func (s *Snapshot) devicePath(universe int, uid string) string {
	return s.universePath(universe, devicesDir, UIDFileName(uid)+".json")
}

func (s *Snapshot) personalitiesPath(universe int, uid string) string {
	return s.universePath(universe, devicesDir, UIDFileName(uid)+personalitiesExt)
}

// UniversePluginList returns the plugins and universes known to the
// daemon.
func (s *Snapshot) UniversePluginList(ctx context.Context) (*ola.UniversePluginList, error) {
	var list ola.UniversePluginList
	if err := s.readJSON(ctx, filepath.Join(s.dir, pluginListFile), &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// UniverseInfo returns the settings and ports of one universe.
func (s *Snapshot) UniverseInfo(ctx context.Context, id int) (*ola.UniverseInfo, error) {
	if err := s.checkUniverse(id); err != nil {
		return nil, err
	}
	info := ola.UniverseInfo{ID: id}
	if err := s.readOptionalJSON(ctx, s.universePath(id, universeInfoFile), &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// UIDs returns the responders discovered on a universe. A universe that was
// never discovered has none.
func (s *Snapshot) UIDs(ctx context.Context, id int) (*ola.UIDList, error) {
	if err := s.checkUniverse(id); err != nil {
		return nil, err
	}
	list := ola.UIDList{Universe: id}
	if err := s.readOptionalJSON(ctx, s.universePath(id, uidsFile), &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// Sections returns the RDM sections supported on a universe.
func (s *Snapshot) Sections(ctx context.Context, id int) ([]ola.Section, error) {
	if err := s.checkUniverse(id); err != nil {
		return nil, err
	}
	var sections []ola.Section
	if err := s.readOptionalJSON(ctx, s.universePath(id, sectionsFile), &sections); err != nil {
		return nil, err
	}
	return sections, nil
}

// DeviceInfo returns the address and footprint of one responder. A record
// carrying an error from the daemon is returned as ErrServerReported.
func (s *Snapshot) DeviceInfo(ctx context.Context, universe int, uid string) (*ola.DeviceInfo, error) {
	p := s.devicePath(universe, uid)
	var info ola.DeviceInfo
	if err := s.readJSON(ctx, p, &info); err != nil {
		return nil, err
	}
	if info.Error != "" {
		return nil, errors.NewSourceError(info.Error, errors.ErrServerReported).WithPath(p)
	}
	info.UID = uid
	return &info, nil
}

// Devices loads the device record of every responder on a universe.
// Records that fail to load are logged and left out. The result keeps the
// order of the uid list.
func (s *Snapshot) Devices(ctx context.Context, universe int) ([]ola.DeviceInfo, error) {
	uids, err := s.UIDs(ctx, universe)
	if err != nil {
		return nil, err
	}

	results := make([]*ola.DeviceInfo, len(uids.UIDs))
	p := pool.New().WithContext(ctx).WithMaxGoroutines(s.workers)
	for i, uid := range uids.UIDs {
		p.Go(func(ctx context.Context) error {
			info, err := s.DeviceInfo(ctx, universe, uid.String())
			if err != nil {
				if errors.Is(err, errors.ErrCanceled) {
					return err
				}
				s.logger.Warn("skipping device",
					"universe", universe,
					"uid", uid.String(),
					"error", err)
				return nil
			}
			if info.Label == "" {
				info.Label = uid.DeviceName()
			}
			results[i] = info
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	devices := make([]ola.DeviceInfo, 0, len(results))
	for _, info := range results {
		if info != nil {
			devices = append(devices, *info)
		}
	}
	return devices, nil
}

// Personalities returns the DMX personalities of a responder.
func (s *Snapshot) Personalities(ctx context.Context, universe int, uid string) (*ola.PersonalityList, error) {
	p := s.personalitiesPath(universe, uid)
	var list ola.PersonalityList
	if err := s.readJSON(ctx, p, &list); err != nil {
		return nil, err
	}
	if list.Error != "" {
		return nil, errors.NewSourceError(list.Error, errors.ErrServerReported).WithPath(p)
	}
	return &list, nil
}

// SetStartAddress writes a new DMX start address for a responder.
func (s *Snapshot) SetStartAddress(ctx context.Context, universe int, uid string, start int) error {
	if start < 1 || start > 512 {
		return errors.NewValidationError("start address must be between 1 and 512").
			WithField("start").WithValue(start).WithCause(errors.ErrInvalidAddress)
	}
	return s.updateDevice(ctx, universe, uid, func(info map[string]any) {
		info["address"] = start
	})
}

// SetPersonality selects a personality and updates the responder's
// footprint to match. It returns the new footprint.
func (s *Snapshot) SetPersonality(ctx context.Context, universe int, uid string, index int) (int, error) {
	list, err := s.Personalities(ctx, universe, uid)
	if err != nil {
		return 0, err
	}
	personality, ok := list.Find(index)
	if !ok {
		return 0, errors.NewValidationError("unknown personality").
			WithField("personality").WithValue(index)
	}

	err = s.updateDevice(ctx, universe, uid, func(info map[string]any) {
		info["personality"] = index
		info["footprint"] = personality.Footprint
	})
	if err != nil {
		return 0, err
	}

	list.Selected = index
	if err := s.writeJSON(s.personalitiesPath(universe, uid), list); err != nil {
		return 0, err
	}
	return personality.Footprint, nil
}

// Writes returns the number of files written through this snapshot.
func (s *Snapshot) Writes() uint64 {
	return s.writes.Load()
}

// updateDevice rewrites a device record, keeping fields it does not know.
func (s *Snapshot) updateDevice(ctx context.Context, universe int, uid string, mutate func(map[string]any)) error {
	if _, err := s.DeviceInfo(ctx, universe, uid); err != nil {
		return err
	}
	p := s.devicePath(universe, uid)
	raw := make(map[string]any)
	if err := s.readJSON(ctx, p, &raw); err != nil {
		return err
	}
	mutate(raw)
	return s.writeJSON(p, raw)
}

func (s *Snapshot) checkUniverse(id int) error {
	ok, err := afero.DirExists(s.fs, s.universePath(id))
	if err != nil {
		return errors.NewSourceError("stat universe", err).WithPath(s.universePath(id)).WithRetryable(true)
	}
	if !ok {
		return errors.NewNotFoundError("universe", strconv.Itoa(id)).WithCause(errors.ErrUniverseNotFound)
	}
	return nil
}

func (s *Snapshot) readJSON(ctx context.Context, p string, v any) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(errors.ErrCanceled, err.Error())
	}
	data, err := afero.ReadFile(s.fs, p)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.NewNotFoundError("file", p).WithCause(err)
		}
		return errors.NewSourceError("read snapshot file", err).WithPath(p).WithRetryable(true)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.NewSourceError("decode snapshot file", errors.Join(errors.ErrSnapshotCorrupted, err)).WithPath(p)
	}
	return nil
}

func (s *Snapshot) readOptionalJSON(ctx context.Context, p string, v any) error {
	err := s.readJSON(ctx, p, v)
	var nf *errors.NotFoundError
	if errors.As(err, &nf) {
		return nil
	}
	return err
}

// writeJSON replaces a file through a temporary sibling and a rename.
func (s *Snapshot) writeJSON(p string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.NewSourceError("encode snapshot file", err).WithPath(p)
	}
	data = append(data, '\n')

	tmp := p + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, 0o644); err != nil {
		return errors.NewSourceError("write snapshot file", err).WithPath(tmp).WithRetryable(true)
	}
	if err := s.fs.Rename(tmp, p); err != nil {
		_ = s.fs.Remove(tmp)
		return errors.NewSourceError("replace snapshot file", err).WithPath(p).WithRetryable(true)
	}
	s.writes.Add(1)
	return nil
}
