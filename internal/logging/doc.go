// Package logging provides structured logging for eisen.
//
// This package wraps Go's log/slog to write JSON lines, either to
// {dataDir}/eisen.log or to stderr. Persistence failures are never returned
// to store callers, so this log is where they surface.
//
// # Basic Usage
//
//	logger, err := logging.NewLogger(cfg.Storage.Dir, cfg.Logging.Level)
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	logger.WithStore("tasks").WithKey("task_manager.tasks.v1").
//	    Warn("write failed", "error", err)
//
// Output:
//
//	{"time":"...","level":"WARN","msg":"write failed","store":"tasks","key":"task_manager.tasks.v1","error":"..."}
//
// # Testing
//
// Use [NopLogger] to discard output, or [NewWriterLogger] with a
// bytes.Buffer to assert on what was logged.
package logging
