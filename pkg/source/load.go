package source

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"

	"github.com/dmitrymomot/langdiff/pkg/compare"
	"github.com/dmitrymomot/langdiff/pkg/keypath"
	"github.com/dmitrymomot/langdiff/pkg/logger"
)

// DefaultConcurrency is the number of languages read in parallel by Load.
const DefaultConcurrency = 8

type loadOptions struct {
	logger      *slog.Logger
	flatten     []keypath.Option
	concurrency int
}

// LoadOption configures Load.
type LoadOption func(*loadOptions)

// WithLogger sets the logger used for load warnings.
func WithLogger(l *slog.Logger) LoadOption {
	return func(o *loadOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithConcurrency bounds how many languages are read at once.
func WithConcurrency(n int) LoadOption {
	return func(o *loadOptions) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithFlattenOptions passes options to keypath.Flatten for every document.
func WithFlattenOptions(opts ...keypath.Option) LoadOption {
	return func(o *loadOptions) {
		o.flatten = append(o.flatten, opts...)
	}
}

// Load reads and flattens every language of src.
//
// Languages come back in listing order. A language that cannot be read or parsed is
// returned with Err set and an empty FlatMap; it never affects the others. Only a listing
// failure or a canceled context fails the whole load.
func Load(ctx context.Context, src Source, opts ...LoadOption) ([]compare.Language, error) {
	o := &loadOptions{
		logger:      logger.NewNope(),
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(o)
	}

	names, err := src.Languages(ctx)
	if err != nil {
		return nil, err
	}

	langs := make([]compare.Language, len(names))

	var g errgroup.Group
	g.SetLimit(o.concurrency)
	for i, name := range names {
		g.Go(func() error {
			langs[i] = loadLanguage(ctx, src, name, o)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return langs, nil
}

func loadLanguage(ctx context.Context, src Source, name string, o *loadOptions) compare.Language {
	if _, err := language.Parse(name); err != nil {
		o.logger.WarnContext(ctx, "language directory is not a BCP 47 tag",
			slog.String("language", name),
			slog.String("error", err.Error()),
		)
	}

	f, err := src.Read(ctx, name)
	if err != nil {
		o.logger.WarnContext(ctx, "failed to read translations",
			slog.String("language", name),
			slog.String("error", err.Error()),
		)
		return compare.Language{Name: name, Flat: keypath.NewFlatMap(), Err: err}
	}

	v, err := f.Decode()
	if err != nil {
		o.logger.WarnContext(ctx, "failed to parse translations",
			slog.String("language", name),
			slog.String("file", f.Name),
			slog.String("error", err.Error()),
		)
		return compare.Language{Name: name, Source: f.Name, Flat: keypath.NewFlatMap(), Err: err}
	}

	flat := keypath.Flatten(v, o.flatten...)
	o.logger.DebugContext(ctx, "loaded translations",
		slog.String("language", name),
		slog.String("file", f.Name),
		slog.Int("keys", flat.Len()),
	)

	return compare.Language{Name: name, Source: f.Name, Flat: flat}
}
