// Package logging configures log/slog for fsmond.
//
// Loggers write JSON to stderr and carry "module" and "version"
// attributes. At debug level every record also carries its source location.
//
//	logging.SetDefaultStructuredLogger("fsmond", version)
//	slog.Info("snapshot written", "path", path)
//
// SetDefaultStructuredLogger reads the level from LOG_LEVEL;
// SetDefaultStructuredLoggerWithLevel takes it explicitly. Level names are
// debug, info, warn (or warning) and error; anything else selects info.
//
// NewLogLogger adapts the default handler to a *log.Logger for APIs that
// still take one, such as http.Server.ErrorLog.
package logging
