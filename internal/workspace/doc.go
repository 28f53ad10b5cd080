// Package workspace owns the lifecycle of the loaded translations: it loads languages
// from a source, keeps the current comparison session behind a read-write lock, swaps it
// on reload or primary change, and serves cached fuzzy searches against it.
//
// Every swap publishes a new immutable Snapshot with a higher revision. The revision is
// part of the search cache key, so results computed for an older snapshot are never read.
//
//	ws := workspace.New(src, workspace.WithPrimary("en"))
//	if _, err := ws.Reload(ctx); err != nil {
//		return err
//	}
//	report, err := ws.Search(ctx, "welcome", match.All)
//
// A Scheduler reloads the workspace on a cron schedule.
package workspace
