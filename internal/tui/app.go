package tui

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sourcegraph/conc"

	"github.com/openlighting/olatui/internal/event"
	"github.com/openlighting/olatui/internal/logging"
	"github.com/openlighting/olatui/internal/source"
)

// App wraps the Bubbletea program
type App struct {
	program *tea.Program
	model   Model
	poller  *source.Poller
	bus     *event.Bus
	logger  *logging.Logger
	mouse   bool
}

// New creates a new TUI application reading from snap. The poller must
// publish on bus.
func New(cfg Config, snap *source.Snapshot, poller *source.Poller, bus *event.Bus, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.NopLogger()
	}
	model, err := NewModel(cfg, Deps{
		Store:  snap,
		Poller: poller,
		Bus:    bus,
		Logger: logger,
	})
	if err != nil {
		return nil, err
	}
	return &App{
		model:  model,
		poller: poller,
		bus:    bus,
		logger: logger.WithComponent("app"),
		mouse:  cfg.Mouse,
	}, nil
}

// Run starts the TUI application and blocks until the user quits. The
// poller runs for as long as the program does.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	a.model.ctx = ctx

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if a.mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	a.program = tea.NewProgram(a.model, opts...)

	// Events reach the model on the program goroutine only.
	subID := a.bus.SubscribeAll(func(e event.Event) {
		a.logger.Debug("event", "type", e.EventType())
		a.program.Send(e)
	})
	defer a.bus.Unsubscribe(subID)

	var wg conc.WaitGroup
	defer wg.Wait()
	wg.Go(func() {
		if err := a.poller.Run(ctx); err != nil {
			a.logger.Error("poller stopped", "error", err)
		}
	})
	defer cancel()

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case <-sigChan:
			a.program.Send(tea.Quit())
		case <-ctx.Done():
			a.program.Send(tea.Quit())
		}
	}()

	_, err := a.program.Run()
	return err
}
