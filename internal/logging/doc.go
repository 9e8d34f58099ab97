// Package logging provides structured logging for olatui.
//
// This package wraps Go's log/slog to write JSON-formatted logs. The TUI
// owns the terminal, so logs go to a file in the configured log directory
// rather than to stderr.
//
// # Thread Safety
//
// [Logger] is safe for concurrent use. The data-source poller logs from its
// own goroutine while the UI logs from the bubbletea event loop; both share
// one handler and one file.
//
// # Basic Usage
//
//	logger, err := logging.NewLogger("/path/to/logs", "INFO")
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	logger.Info("universe list refreshed", "universes", 4)
//
// # Context Propagation
//
//	patchLogger := logger.WithComponent("patcher").WithUniverse(1)
//	patchLogger.Info("device moved", "uid", "7a70:00000001", "start", 11)
//
// Output:
//
//	{"time":"...","level":"INFO","msg":"device moved","component":"patcher","universe":1,"uid":"7a70:00000001","start":11}
//
// # Level Changes
//
// [Logger.SetLevel] changes the level of a logger and every child created
// from it. The config watcher uses it to apply logging.level edits without
// a restart.
//
// # Testing
//
// Use [NopLogger] to discard all output.
package logging
