package workspace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/langdiff/pkg/cache"
	"github.com/dmitrymomot/langdiff/pkg/compare"
	"github.com/dmitrymomot/langdiff/pkg/keypath"
	"github.com/dmitrymomot/langdiff/pkg/logger"
	"github.com/dmitrymomot/langdiff/pkg/match"
	"github.com/dmitrymomot/langdiff/pkg/source"
)

// Snapshot is one immutable load of the translations.
type Snapshot struct {
	LoadedAt time.Time
	Session  *compare.Session
	Report   *compare.Report
	Engine   *match.Engine
	Revision uint64
	// ID is unique per snapshot across processes.
	ID string
}

// Workspace owns the current comparison session. Readers get immutable snapshots;
// Reload and SetPrimary replace the snapshot wholesale and bump the revision.
type Workspace struct {
	src    source.Source
	logger *slog.Logger
	loader *cache.Loader
	now    func() time.Time

	primary        string
	flatten        []keypath.Option
	threshold      float64
	concurrency    int
	blankAsMissing bool
	skipFailed     bool

	// writeMu serializes Reload and SetPrimary.
	writeMu  sync.Mutex
	mu       sync.RWMutex
	snap     *Snapshot
	revision uint64
}

// Option configures a Workspace.
type Option func(*Workspace)

// WithLogger sets the logger. Default: discard.
func WithLogger(l *slog.Logger) Option {
	return func(w *Workspace) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithCache caches search hits per revision. Without it every search runs.
func WithCache(l *cache.Loader) Option {
	return func(w *Workspace) {
		w.loader = l
	}
}

// WithPrimary sets the preferred primary language used on the first load and whenever
// the current primary disappears from the source.
func WithPrimary(name string) Option {
	return func(w *Workspace) {
		w.primary = name
	}
}

// WithBlankAsMissing sets the presence policy. Default: true.
func WithBlankAsMissing(on bool) Option {
	return func(w *Workspace) {
		w.blankAsMissing = on
	}
}

// WithSkipFailed leaves failed languages out of classification. Default: false.
func WithSkipFailed(on bool) Option {
	return func(w *Workspace) {
		w.skipFailed = on
	}
}

// WithThreshold sets the fuzzy match threshold. Default: match.DefaultThreshold.
func WithThreshold(th float64) Option {
	return func(w *Workspace) {
		w.threshold = th
	}
}

// WithConcurrency bounds parallel language reads.
func WithConcurrency(n int) Option {
	return func(w *Workspace) {
		w.concurrency = n
	}
}

// WithFlattenOptions is passed to keypath.Flatten for every language.
func WithFlattenOptions(opts ...keypath.Option) Option {
	return func(w *Workspace) {
		w.flatten = append(w.flatten, opts...)
	}
}

// New creates an empty workspace over src. Call Reload before reading.
func New(src source.Source, opts ...Option) *Workspace {
	w := &Workspace{
		src:            src,
		logger:         logger.NewNope(),
		now:            time.Now,
		threshold:      match.DefaultThreshold,
		concurrency:    source.DefaultConcurrency,
		blankAsMissing: true,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Snapshot returns the current snapshot or ErrNotLoaded.
func (w *Workspace) Snapshot() (*Snapshot, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.snap == nil {
		return nil, ErrNotLoaded
	}
	return w.snap, nil
}

// Reload reads every language from the source and replaces the session.
//
// The current primary is kept when it still exists; otherwise the configured primary
// is used, then the first loaded language. On failure the previous snapshot stays in place.
func (w *Workspace) Reload(ctx context.Context) (*Snapshot, error) {
	w.writeMu.Lock()
	defer w.writeMu.Unlock()

	start := w.now()
	langs, err := source.Load(ctx, w.src,
		source.WithLogger(w.logger),
		source.WithConcurrency(w.concurrency),
		source.WithFlattenOptions(w.flatten...),
	)
	if err != nil {
		return nil, errors.Join(ErrReloadFailed, err)
	}
	if len(langs) == 0 {
		return nil, errors.Join(ErrReloadFailed, ErrNoLanguages)
	}

	opts := []compare.Option{
		compare.WithBlankAsMissing(w.blankAsMissing),
		compare.WithSkipFailed(w.skipFailed),
	}
	if primary := w.pickPrimary(langs); primary != "" {
		opts = append(opts, compare.WithPrimary(primary))
	}

	sess, err := compare.NewSession(langs, opts...)
	if err != nil {
		return nil, errors.Join(ErrReloadFailed, err)
	}

	snap := w.install(ctx, sess)

	failed := sess.Failed()
	for name, ferr := range failed {
		w.logger.WarnContext(ctx, "language failed to load",
			slog.String("language", name),
			slog.String("error", ferr.Error()),
		)
	}
	primary, _ := sess.Primary()
	w.logger.InfoContext(ctx, "translations loaded",
		slog.Uint64("revision", snap.Revision),
		slog.Int("languages", len(langs)),
		slog.Int("failed", len(failed)),
		slog.Int("keys", snap.Report.Counts.Total),
		slog.String("primary", primary),
		slog.Duration("took", w.now().Sub(start)),
	)

	return snap, nil
}

func (w *Workspace) pickPrimary(langs []compare.Language) string {
	usable := func(name string) bool {
		for _, l := range langs {
			if l.Name == name && !l.Failed() {
				return true
			}
		}
		return false
	}

	if cur, err := w.Snapshot(); err == nil {
		if name, _ := cur.Session.Primary(); name != "" && usable(name) {
			return name
		}
	}
	if w.primary != "" && usable(w.primary) {
		return w.primary
	}
	return ""
}

// SetPrimary switches the reference language and reclassifies every record.
// A name that is not a loaded language gives ErrUnknownLanguage; a language that failed
// to load gives ErrFailedLanguage.
func (w *Workspace) SetPrimary(ctx context.Context, name string) (*Snapshot, error) {
	w.writeMu.Lock()
	defer w.writeMu.Unlock()

	cur, err := w.Snapshot()
	if err != nil {
		return nil, err
	}

	sess, err := cur.Session.WithPrimary(name)
	if err != nil {
		switch {
		case errors.Is(err, compare.ErrUnknownLanguage):
			return nil, fmt.Errorf("%w: %q", ErrUnknownLanguage, name)
		case errors.Is(err, compare.ErrFailedLanguage):
			return nil, fmt.Errorf("%w: %q", ErrFailedLanguage, name)
		}
		return nil, err
	}

	snap := w.install(ctx, sess)
	w.logger.InfoContext(ctx, "primary language changed",
		slog.String("primary", name),
		slog.Uint64("revision", snap.Revision),
	)
	return snap, nil
}

// install publishes a snapshot for sess. Callers hold writeMu.
func (w *Workspace) install(ctx context.Context, sess *compare.Session) *Snapshot {
	report := sess.Report()
	snap := &Snapshot{
		LoadedAt: w.now(),
		ID:       uuid.NewString(),
		Session:  sess,
		Report:   report,
		Engine:   match.New(report, match.WithThreshold(w.threshold)),
	}

	w.mu.Lock()
	w.revision++
	snap.Revision = w.revision
	w.snap = snap
	w.mu.Unlock()

	if w.loader != nil {
		if err := w.loader.Cache().Clear(ctx); err != nil {
			w.logger.WarnContext(ctx, "failed to clear search cache", slog.String("error", err.Error()))
		}
	}

	return snap
}

// Search runs a fuzzy search against the current snapshot and returns the matching
// records as a report. Non-empty queries are served from the cache when one is set.
func (w *Workspace) Search(ctx context.Context, query string, filter match.Filter) (*compare.Report, error) {
	snap, err := w.Snapshot()
	if err != nil {
		return nil, err
	}
	if query == "" || w.loader == nil {
		return snap.Engine.Report(query, filter), nil
	}

	key := cache.Key{
		Query:    query,
		Filter:   filter.String(),
		Revision: snap.Revision,
		Snapshot: snap.ID,
	}
	hits, cached, err := w.loader.GetOrSearch(ctx, key, func(context.Context) ([]cache.Hit, error) {
		results := snap.Engine.Search(query, filter)
		hits := make([]cache.Hit, len(results))
		for i, r := range results {
			hits[i] = cache.Hit{Key: r.Record.Key, Score: r.Score}
		}
		return hits, nil
	})
	if err != nil {
		return nil, err
	}

	records := make([]compare.Record, 0, len(hits))
	for _, h := range hits {
		if rec, ok := snap.Session.Record(h.Key); ok {
			records = append(records, rec)
		}
	}
	w.logger.DebugContext(ctx, "search",
		slog.String("filter", filter.String()),
		slog.Int("hits", len(records)),
		slog.Bool("cached", cached),
	)
	return snap.Report.Filter(records), nil
}

// Healthcheck fails until a load succeeded and when every language failed.
func (w *Workspace) Healthcheck(context.Context) error {
	snap, err := w.Snapshot()
	if err != nil {
		return err
	}
	if len(snap.Session.Failed()) == len(snap.Report.Languages) {
		return ErrAllFailed
	}
	return nil
}

// Details describes the current snapshot for readiness responses.
func (w *Workspace) Details(context.Context) map[string]any {
	snap, err := w.Snapshot()
	if err != nil {
		return map[string]any{"loaded": false}
	}
	return map[string]any{
		"loaded":    true,
		"revision":  snap.Revision,
		"loaded_at": snap.LoadedAt.UTC().Format(time.RFC3339),
		"languages": len(snap.Report.Languages),
		"failed":    len(snap.Report.Failures),
		"keys":      snap.Report.Counts.Total,
		"primary":   snap.Report.Primary,
	}
}
