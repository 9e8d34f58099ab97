package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/openlighting/olatui/internal/config"
	"github.com/openlighting/olatui/internal/errors"
	"github.com/openlighting/olatui/internal/logging"
	"github.com/openlighting/olatui/internal/source"
)

// newFs opens the filesystem snapshots are read from. Tests replace it.
var newFs = afero.NewOsFs

// defaultWidth is used when the output is not a terminal.
const defaultWidth = 80

// environment is what every data command needs: the loaded configuration,
// a logger and the snapshot.
type environment struct {
	cfg    *config.Config
	logger *logging.Logger
	snap   *source.Snapshot
}

func loadEnvironment() (*environment, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.Source.Dir == "" {
		return nil, errors.NewValidationError("no snapshot directory: pass --dir or set source.dir").
			WithField("source.dir")
	}

	logger := logging.NopLogger()
	if cfg.Logging.Enabled {
		logger, err = logging.NewLogger(cfg.Logging.LogDir(), cfg.Logging.Level)
		if err != nil {
			return nil, err
		}
	}

	return &environment{
		cfg:    cfg,
		logger: logger,
		snap:   source.NewSnapshot(newFs(), cfg.Source.Dir, cfg.Source.Workers, logger),
	}, nil
}

func (e *environment) close() {
	e.logger.Debug("snapshot closed", "dir", e.snap.Dir(), "writes", e.snap.Writes())
	_ = e.logger.Close()
}

// universeFlag returns --universe, which must be set.
func universeFlag(cmd *cobra.Command) (int, error) {
	id, err := cmd.Flags().GetInt("universe")
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, errors.NewValidationError("--universe is required").
			WithField("universe").WithValue(id)
	}
	return id, nil
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// terminalWidth returns the width of the terminal behind w.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return defaultWidth
	}
	width, _, err := term.GetSize(f.Fd())
	if err != nil || width <= 0 {
		return defaultWidth
	}
	return width
}

// plainOutput reports whether w gets unstyled ASCII. Styled output is
// rendered with the profile of the terminal.
func plainOutput(w io.Writer, force bool) bool {
	if force || !isTerminal(w) {
		lipgloss.SetColorProfile(termenv.Ascii)
		return true
	}
	return false
}
