package source

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/cast"

	"github.com/openlighting/olatui/internal/errors"
	"github.com/openlighting/olatui/internal/ola"
)

const sectionsDirExt = ".sections"

func (s *Snapshot) sectionPath(universe int, uid, section string) string {
	return s.universePath(universe, devicesDir, UIDFileName(uid)+sectionsDirExt, section+".json")
}

// SectionInfo returns the contents of one RDM section of a responder. A
// record carrying an error from the daemon is returned as
// ErrServerReported.
func (s *Snapshot) SectionInfo(ctx context.Context, universe int, uid, section string) (*ola.SectionInfo, error) {
	p := s.sectionPath(universe, uid, section)
	var info ola.SectionInfo
	if err := s.readJSON(ctx, p, &info); err != nil {
		return nil, err
	}
	if info.Error != "" {
		return nil, errors.NewSourceError(info.Error, errors.ErrServerReported).WithPath(p)
	}
	return &info, nil
}

// DeviceSections reads every section of the universe for one responder.
// Sections the responder has no record for are returned with a nil Info,
// and records carrying a daemon error keep that error in Info.Error.
func (s *Snapshot) DeviceSections(ctx context.Context, universe int, uid string) ([]ola.DeviceSection, error) {
	sections, err := s.Sections(ctx, universe)
	if err != nil {
		return nil, err
	}
	if _, err := s.DeviceInfo(ctx, universe, uid); err != nil {
		return nil, err
	}

	out := make([]ola.DeviceSection, len(sections))
	p := pool.New().WithContext(ctx).WithMaxGoroutines(s.workers)
	for i, section := range sections {
		out[i].Section = section
		p.Go(func(ctx context.Context) error {
			var info ola.SectionInfo
			err := s.readJSON(ctx, s.sectionPath(universe, uid, section.ID), &info)
			var nf *errors.NotFoundError
			switch {
			case errors.As(err, &nf):
				return nil
			case errors.Is(err, errors.ErrCanceled):
				return err
			case err != nil:
				info = ola.SectionInfo{Error: err.Error()}
			}
			out[i].Info = &info
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// SetSectionItem changes one item of a section record and returns the
// updated section. The value is checked against the item type and limits.
func (s *Snapshot) SetSectionItem(ctx context.Context, universe int, uid, section, id, value string) (*ola.SectionInfo, error) {
	info, err := s.SectionInfo(ctx, universe, uid, section)
	if err != nil {
		return nil, err
	}
	item, ok := info.Item(id)
	if !ok || !item.Editable() {
		return nil, errors.NewValidationError(fmt.Sprintf("section %s has no settable item %q", section, id)).
			WithField("item").WithValue(id)
	}
	if err := setItemValue(item, value); err != nil {
		return nil, err
	}
	if err := s.writeJSON(s.sectionPath(universe, uid, section), info); err != nil {
		return nil, err
	}
	s.logger.Debug("section item set", "universe", universe, "uid", uid, "section", section, "item", id)
	return info, nil
}

// SetIdentify switches the identify mode of a responder. The identify
// section is kept in step when the responder has one.
func (s *Snapshot) SetIdentify(ctx context.Context, universe int, uid string, on bool) error {
	err := s.updateDevice(ctx, universe, uid, func(info map[string]any) {
		info["identify"] = on
	})
	if err != nil {
		return err
	}
	_, err = s.SetSectionItem(ctx, universe, uid, ola.IdentifySection, ola.IdentifyItem, strconv.FormatBool(on))
	var nf *errors.NotFoundError
	if errors.As(err, &nf) {
		return nil
	}
	return err
}

// setItemValue stores value in item, converted to the item type.
func setItemValue(item *ola.SectionItem, value string) error {
	invalid := func(msg string) error {
		return errors.NewValidationError(item.Description + " " + msg).WithField(item.ID).WithValue(value)
	}

	var v any
	switch item.Type {
	case ola.ItemUint:
		n, err := cast.ToIntE(value)
		if err != nil || n < 0 {
			return invalid("must be an integer")
		}
		if item.Min != nil && n < *item.Min {
			return invalid(fmt.Sprintf("must be at least %d", *item.Min))
		}
		if item.Max != nil && n > *item.Max {
			return invalid(fmt.Sprintf("must be at most %d", *item.Max))
		}
		v = n
	case ola.ItemBool:
		b, err := cast.ToBoolE(value)
		if err != nil {
			return invalid("must be true or false")
		}
		v = b
	case ola.ItemSelect:
		for i, opt := range item.Options() {
			if cast.ToString(opt.Value) == value || opt.Label == value {
				item.SelectedOffset = i
				return nil
			}
		}
		return invalid("is not one of the choices")
	default:
		v = value
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return invalid(err.Error())
	}
	item.Value = raw
	return nil
}
