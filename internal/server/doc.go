// Package server exposes a workspace over HTTP with chi.
//
// Routes:
//
//	GET  /api/languages               loaded languages, primary and revision
//	PUT  /api/primary                 {"language":"fr"} switches the primary language
//	POST /api/reload                  re-reads every language from the source
//	GET  /api/records?q=&status=      classified records, fuzzy-filtered
//	GET  /api/records/subtree?key=&lang=  nested value of one cell
//	GET  /api/counts                  status counts
//	GET  /api/placeholders            placeholder mismatches against the primary
//	GET  /report, /report.md          HTML or Markdown report, same q and status filters
//	GET  /health/live, /health/ready  liveness and readiness probes
//
// Errors are JSON objects of the form {"error": "..."}. Every response carries an
// X-Request-ID header, reused from the request when present.
//
// Run serves a handler until the context ends or the process is signaled and then
// runs shutdown hooks.
package server
