package source

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/openlighting/olatui/internal/logging"
)

// DebounceInterval collapses bursts of file events into one refresh.
const DebounceInterval = 150 * time.Millisecond

// watcher signals changed once a burst of writes under a directory tree
// settles.
type watcher struct {
	fsw     *fsnotify.Watcher
	changed chan struct{}
	stopCh  chan struct{}
	logger  *logging.Logger
}

func newWatcher(root string, logger *logging.Logger) (*watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &watcher{
		fsw:     fsw,
		changed: make(chan struct{}, 1),
		stopCh:  make(chan struct{}),
		logger:  logger,
	}
	if err := fsw.Add(root); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	w.addTree(root)
	return w, nil
}

// addTree watches every directory below root. fsnotify is not recursive.
func (w *watcher) addTree(root string) {
	_ = filepath.Walk(root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			_ = w.fsw.Add(p)
		}
		return nil
	})
}

func (w *watcher) loop() {
	debounce := time.NewTimer(DebounceInterval)
	if !debounce.Stop() {
		<-debounce.C
	}

	for {
		select {
		case <-w.stopCh:
			debounce.Stop()
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if strings.HasSuffix(ev.Name, ".tmp") {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					w.addTree(ev.Name)
				}
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) &&
				!ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
				continue
			}
			debounce.Reset(DebounceInterval)

		case <-debounce.C:
			select {
			case w.changed <- struct{}{}:
			default:
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("snapshot watcher error", "error", err)
		}
	}
}

func (w *watcher) close() {
	close(w.stopCh)
	_ = w.fsw.Close()
}
