package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"
)

// Hit is one cached search match: the record key and its score.
type Hit struct {
	Key   string  `json:"key"`
	Score float64 `json:"score"`
}

// Key identifies one search against one revision of the loaded translations.
// A reload bumps the revision, so stale entries are never read. Snapshot names the
// loaded data globally; revisions alone repeat across processes sharing a Redis cache.
type Key struct {
	Query    string
	Filter   string
	Revision uint64
	Snapshot string
}

// String returns the storage key "[<snapshot>:]<revision>:<filter>:<query digest>".
func (k Key) String() string {
	sum := sha256.Sum256([]byte(k.Query))
	s := strconv.FormatUint(k.Revision, 10) + ":" + k.Filter + ":" + hex.EncodeToString(sum[:12])
	if k.Snapshot != "" {
		s = k.Snapshot + ":" + s
	}
	return s
}

// Cache stores search hits.
//
// TTL semantics for Set: positive expires after the duration, zero uses the cache
// default and negative never expires.
type Cache interface {
	// Get returns ErrNotFound when the key is missing or expired.
	Get(ctx context.Context, key Key) ([]Hit, error)
	Set(ctx context.Context, key Key, hits []Hit, ttl time.Duration) error
	// Clear drops every entry, typically after a reload.
	Clear(ctx context.Context) error
	Close() error
}

// Loader fronts a Cache and collapses concurrent misses for the same key into one search.
type Loader struct {
	cache Cache
	group singleflight.Group
	ttl   time.Duration
}

// NewLoader wraps c. ttl is passed to Set for every stored result.
func NewLoader(c Cache, ttl time.Duration) *Loader {
	return &Loader{cache: c, ttl: ttl}
}

// Cache returns the underlying cache.
func (l *Loader) Cache() Cache { return l.cache }

// GetOrSearch returns the cached hits for key, or runs search on a miss and caches its
// result. The boolean reports whether the hits came from the cache. Storing the result
// is best effort; a failing cache never fails the search.
func (l *Loader) GetOrSearch(ctx context.Context, key Key, search func(ctx context.Context) ([]Hit, error)) ([]Hit, bool, error) {
	if hits, err := l.cache.Get(ctx, key); err == nil {
		return hits, true, nil
	}

	v, err, _ := l.group.Do(key.String(), func() (any, error) {
		hits, err := search(ctx)
		if err != nil {
			return nil, err
		}
		_ = l.cache.Set(ctx, key, hits, l.ttl)
		return hits, nil
	})
	if err != nil {
		return nil, false, err
	}

	return v.([]Hit), false, nil
}
