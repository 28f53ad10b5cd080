package render

import "github.com/dmitrymomot/langdiff/pkg/compare"

// DefaultMaxWidth is the number of runes of a value shown before it is truncated.
const DefaultMaxWidth = 80

type options struct {
	title        string
	missing      string
	placeholders []compare.PlaceholderMismatch
	maxWidth     int
}

// Option configures a renderer.
type Option func(*options)

func newOptions(opts []Option) *options {
	o := &options{
		title:    "Translation report",
		maxWidth: DefaultMaxWidth,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithTitle sets the report heading.
func WithTitle(title string) Option {
	return func(o *options) {
		if title != "" {
			o.title = title
		}
	}
}

// WithMissing sets the text shown for absent values.
func WithMissing(marker string) Option {
	return func(o *options) {
		o.missing = marker
	}
}

// WithMaxWidth truncates values longer than n runes. Zero disables truncation.
func WithMaxWidth(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.maxWidth = n
		}
	}
}

// WithPlaceholders adds a section listing placeholder mismatches.
func WithPlaceholders(m []compare.PlaceholderMismatch) Option {
	return func(o *options) {
		o.placeholders = m
	}
}

func truncate(s string, n int) string {
	if n <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
