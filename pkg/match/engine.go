package match

import (
	"slices"

	"github.com/dmitrymomot/langdiff/pkg/compare"
)

// DefaultThreshold is the highest score still counted as a match.
const DefaultThreshold = 0.3

// Result is a record that matched a search, with its score.
type Result struct {
	Record compare.Record `json:"record"`
	Score  float64        `json:"score"`
}

// Engine searches the records of a report by key and translated text.
// It is immutable and safe for concurrent use.
type Engine struct {
	report    *compare.Report
	texts     [][]string
	threshold float64
}

// Option configures an Engine.
type Option func(*Engine)

// WithThreshold sets the match threshold. Values outside [0, 1] are ignored.
func WithThreshold(th float64) Option {
	return func(e *Engine) {
		if th >= 0 && th <= 1 {
			e.threshold = th
		}
	}
}

// New indexes the records of report.
func New(report *compare.Report, opts ...Option) *Engine {
	e := &Engine{
		report:    report,
		threshold: DefaultThreshold,
		texts:     make([][]string, len(report.Records)),
	}
	for _, opt := range opts {
		opt(e)
	}

	for i, rec := range report.Records {
		fields := make([]string, 0, len(rec.Cells)+1)
		fields = append(fields, Normalize(rec.Key))
		for _, c := range rec.Cells {
			if c.Present {
				fields = append(fields, Normalize(c.Text()))
			}
		}
		e.texts[i] = fields
	}

	return e
}

// Threshold returns the match threshold in use.
func (e *Engine) Threshold() float64 { return e.threshold }

// Search returns the records that pass filter and match query.
//
// An empty query returns every record that passes filter in universe order with score 0.
// Otherwise a record scores the best Score over its key and its present values, and
// results are ordered by score with ties kept in universe order.
func (e *Engine) Search(query string, filter Filter) []Result {
	q := Normalize(query)

	var out []Result
	for i, rec := range e.report.Records {
		if !filter.Match(rec.Status) {
			continue
		}
		if q == "" {
			out = append(out, Result{Record: rec})
			continue
		}

		best := 1.0
		for _, text := range e.texts[i] {
			if s := Score(q, text); s < best {
				best = s
				if best == 0 {
					break
				}
			}
		}
		if best <= e.threshold {
			out = append(out, Result{Record: rec, Score: best})
		}
	}

	slices.SortStableFunc(out, func(a, b Result) int {
		switch {
		case a.Score < b.Score:
			return -1
		case a.Score > b.Score:
			return 1
		default:
			return 0
		}
	})

	return out
}

// Report returns a report holding only the matching records, with counts recomputed.
func (e *Engine) Report(query string, filter Filter) *compare.Report {
	results := e.Search(query, filter)
	records := make([]compare.Record, len(results))
	for i, r := range results {
		records[i] = r.Record
	}
	return e.report.Filter(records)
}
