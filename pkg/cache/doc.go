// Package cache stores fuzzy-search results between requests.
//
// Entries are keyed by the workspace revision, the status filter and the query, so a
// reload makes every earlier entry unreachable. Two backends implement [Cache]:
//
//   - [Memory]: an in-process LRU with per-entry expiry, for a single server
//   - [Redis]: JSON values under a key prefix, shared between instances
//
// [Loader] sits in front of either backend and runs the search only once when concurrent
// requests miss on the same key:
//
//	loader := cache.NewLoader(cache.NewMemory(), 5*time.Minute)
//	hits, cached, err := loader.GetOrSearch(ctx, cache.Key{Revision: rev, Query: q, Filter: "all"},
//		func(ctx context.Context) ([]cache.Hit, error) {
//			return search(q), nil
//		})
package cache
