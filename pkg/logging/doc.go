// Package logging configures the structured loggers used by gostman.
//
// It wraps log/slog so the CLI and the interchange engine share one set of
// levels and output formats:
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.LevelDebug,
//	    Format: logging.FormatJSON,
//	})
//	logger.Debug("request skipped", "request", id, "reason", "unsupported method")
//
// Library components take a *slog.Logger through an option and fall back to
// Nop, so importing the interchange package never writes to stderr on its
// own.
package logging
