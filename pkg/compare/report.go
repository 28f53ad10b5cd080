package compare

import (
	"bytes"
	"encoding/json"
	"slices"

	"github.com/dmitrymomot/langdiff/pkg/jsonv"
)

// Report is a snapshot of a session: the classified records in universe order and the
// counts derived from them.
type Report struct {
	Languages []string
	Primary   string
	Records   []Record
	Counts    Counts
	Failures  []Failure
}

// Failure describes a language that could not be loaded.
type Failure struct {
	Language string `json:"language"`
	Source   string `json:"source,omitempty"`
	Error    string `json:"error"`
}

// LanguageIndex returns the position of lang in the report, or -1.
func (r *Report) LanguageIndex(lang string) int {
	return slices.Index(r.Languages, lang)
}

// Cell returns rec's cell for lang. Unknown languages give the absent cell.
func (r *Report) Cell(rec Record, lang string) Cell {
	i := r.LanguageIndex(lang)
	if i < 0 || i >= len(rec.Cells) {
		return Cell{}
	}
	return rec.Cells[i]
}

// Filter returns a report restricted to records, with counts recomputed.
func (r *Report) Filter(records []Record) *Report {
	return &Report{
		Languages: r.Languages,
		Primary:   r.Primary,
		Records:   records,
		Counts:    Count(records),
		Failures:  r.Failures,
	}
}

type recordJSON struct {
	Key     string                 `json:"key"`
	Status  string                 `json:"status"`
	Values  map[string]jsonv.Value `json:"values"`
	Missing []string               `json:"missing,omitempty"`
}

type reportJSON struct {
	Languages []string     `json:"languages"`
	Primary   string       `json:"primary,omitempty"`
	Counts    Counts       `json:"counts"`
	Failures  []Failure    `json:"failures,omitempty"`
	Records   []recordJSON `json:"records"`
}

// MarshalJSON encodes records as objects with a value per present language and the
// names of the languages that lack the key.
func (r *Report) MarshalJSON() ([]byte, error) {
	out := reportJSON{
		Languages: r.Languages,
		Primary:   r.Primary,
		Counts:    r.Counts,
		Failures:  r.Failures,
		Records:   make([]recordJSON, 0, len(r.Records)),
	}
	for _, rec := range r.Records {
		rj := recordJSON{
			Key:    rec.Key,
			Status: rec.Status.String(),
			Values: make(map[string]jsonv.Value, len(rec.Cells)),
		}
		for i, c := range rec.Cells {
			if i >= len(r.Languages) {
				break
			}
			if c.Present {
				rj.Values[r.Languages[i]] = c.Value
			} else {
				rj.Missing = append(rj.Missing, r.Languages[i])
			}
		}
		out.Records = append(out.Records, rj)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
