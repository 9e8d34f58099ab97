package source

import (
	"context"
	"sync"
	"time"

	"github.com/sourcegraph/conc"
	"github.com/spf13/afero"

	"github.com/openlighting/olatui/internal/errors"
	"github.com/openlighting/olatui/internal/event"
	"github.com/openlighting/olatui/internal/logging"
	"github.com/openlighting/olatui/internal/ola"
)

// DefaultPollInterval matches the refresh rate of the OLA web UI.
const DefaultPollInterval = 5 * time.Second

// PollerConfig controls a Poller.
type PollerConfig struct {
	Interval time.Duration
	// Watch enables filesystem notifications when the snapshot is on the
	// OS filesystem.
	Watch bool
}

// Poller re-reads a snapshot periodically and publishes what it finds.
type Poller struct {
	snap   *Snapshot
	bus    *event.Bus
	cfg    PollerConfig
	logger *logging.Logger

	mu       sync.Mutex
	universe int
	active   bool

	refresh chan struct{}
}

// NewPoller creates a poller. logger may be nil.
func NewPoller(snap *Snapshot, bus *event.Bus, cfg PollerConfig, logger *logging.Logger) *Poller {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultPollInterval
	}
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Poller{
		snap:    snap,
		bus:     bus,
		cfg:     cfg,
		logger:  logger.WithComponent("poller"),
		refresh: make(chan struct{}, 1),
	}
}

// SetUniverse selects the universe whose UIDs and devices are published
// and asks for an immediate refresh.
func (p *Poller) SetUniverse(id int) {
	p.mu.Lock()
	p.universe = id
	p.active = true
	p.mu.Unlock()
	p.Refresh()
}

// ClearUniverse stops publishing per-universe data.
func (p *Poller) ClearUniverse() {
	p.mu.Lock()
	p.active = false
	p.mu.Unlock()
}

// Universe returns the selected universe.
func (p *Poller) Universe() (int, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.universe, p.active
}

// Refresh asks a running poller to poll now. It never blocks.
func (p *Poller) Refresh() {
	select {
	case p.refresh <- struct{}{}:
	default:
	}
}

// Run polls until ctx is cancelled. Cancellation only stops future polls.
func (p *Poller) Run(ctx context.Context) error {
	var w *watcher
	if p.cfg.Watch {
		if _, ok := p.snap.Fs().(*afero.OsFs); ok {
			var err error
			w, err = newWatcher(p.snap.Dir(), p.logger)
			if err != nil {
				p.logger.Warn("watching snapshot disabled", "dir", p.snap.Dir(), "error", err)
				w = nil
			}
		}
	}

	var wg conc.WaitGroup
	var changed <-chan struct{}
	if w != nil {
		changed = w.changed
		wg.Go(w.loop)
		defer func() {
			w.close()
			wg.Wait()
		}()
	}

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	p.pollAndReport(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		case <-p.refresh:
		case <-changed:
		}
		p.pollAndReport(ctx)
	}
}

func (p *Poller) pollAndReport(ctx context.Context) {
	if err := p.Poll(ctx); err != nil && ctx.Err() == nil {
		if errors.IsRetryable(err) || errors.GetSeverity(err) < errors.SeverityError {
			p.logger.Warn("poll failed", "error", err, "retryable", errors.IsRetryable(err))
		} else {
			p.logger.Error("poll failed", "error", err, "severity", errors.GetSeverity(err).String())
		}
		p.bus.Publish(event.NewSourceErrorEvent("poll", err))
	}
}

// Poll reads the snapshot once and publishes the plugin and universe lists
// and, when a universe is selected, its UIDs and devices.
func (p *Poller) Poll(ctx context.Context) error {
	list, err := p.snap.UniversePluginList(ctx)
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		return nil
	}
	p.bus.Publish(event.NewPluginListEvent(list.Plugins))
	p.bus.Publish(event.NewUniverseListEvent(list.Universes))

	universe, active := p.Universe()
	if !active {
		return nil
	}
	return p.pollUniverse(ctx, universe)
}

func (p *Poller) pollUniverse(ctx context.Context, universe int) error {
	uids, err := p.snap.UIDs(ctx, universe)
	if err != nil {
		return err
	}

	var (
		info     *ola.UniverseInfo
		sections []ola.Section
		devices  []ola.DeviceInfo
		infoErr  error
		secErr   error
		devErr   error
	)
	var wg conc.WaitGroup
	wg.Go(func() { info, infoErr = p.snap.UniverseInfo(ctx, universe) })
	wg.Go(func() { sections, secErr = p.snap.Sections(ctx, universe) })
	wg.Go(func() { devices, devErr = p.snap.Devices(ctx, universe) })
	wg.Wait()

	if err := errors.Join(infoErr, secErr, devErr); err != nil {
		return err
	}
	if ctx.Err() != nil {
		return nil
	}

	p.bus.Publish(event.NewUIDListEvent(universe, uids.UIDs))
	p.bus.Publish(event.NewDevicesEvent(universe, devices, info.Ports(), sections))
	return nil
}
