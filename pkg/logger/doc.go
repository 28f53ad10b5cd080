// Package logger builds the structured slog logger shared by the CLI and the server.
//
// The level and format come from Config. Context extractors add request-scoped
// attributes, such as the request id set by the HTTP middleware, to every record logged
// with that context:
//
//	log, err := logger.New(os.Stdout, cfg.Log, logger.RequestID())
//	if err != nil {
//		return err
//	}
//	ctx := logger.WithRequestID(ctx, "7f3c...")
//	log.InfoContext(ctx, "reloaded", slog.Int("languages", 4))
//	// {"level":"INFO","msg":"reloaded","languages":4,"request_id":"7f3c..."}
//
// With a Sentry DSN configured, errors become Sentry issues and warnings are stored as
// Sentry logs. Call Flush before exiting so buffered events are delivered.
//
// NewNope discards everything and is the default logger of library packages.
package logger
