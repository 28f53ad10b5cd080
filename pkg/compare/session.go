package compare

import (
	"fmt"
	"slices"
)

// Session is an immutable comparison of a fixed set of languages.
// It is safe for concurrent use.
type Session struct {
	langs    []Language
	universe *KeyUniverse
	records  map[string]Record
	present  PresenceFunc

	// index of the primary language in langs, or -1
	primary int

	primaryName    string
	blankAsMissing bool
	skipFailed     bool
}

// Option configures a Session during construction.
type Option func(*Session) error

// WithPrimary selects the primary language by name.
// An empty name leaves the default choice in place.
func WithPrimary(name string) Option {
	return func(s *Session) error {
		s.primaryName = name
		return nil
	}
}

// WithBlankAsMissing controls whether "" and null values count as untranslated.
// It is on by default.
func WithBlankAsMissing(on bool) Option {
	return func(s *Session) error {
		s.blankAsMissing = on
		return nil
	}
}

// WithSkipFailed leaves failed languages out of the language count used for
// classification, so a key present in every loaded language is translated. It is off
// by default: a failed language counts as known with no keys.
func WithSkipFailed(on bool) Option {
	return func(s *Session) error {
		s.skipFailed = on
		return nil
	}
}

// NewSession aggregates langs and classifies every key.
//
// Language names must be unique and non-empty. Failed languages keep their position and
// count as known languages with no keys unless WithSkipFailed is set. A failed language
// cannot be primary. Without WithPrimary the first language that loaded
// successfully is primary; if every language failed there is no primary and all records
// are unclassified.
func NewSession(langs []Language, opts ...Option) (*Session, error) {
	s := &Session{
		langs:          slices.Clone(langs),
		primary:        -1,
		blankAsMissing: true,
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	seen := make(map[string]struct{}, len(s.langs))
	for _, l := range s.langs {
		if l.Name == "" {
			return nil, ErrEmptyLanguage
		}
		if _, ok := seen[l.Name]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateLanguage, l.Name)
		}
		seen[l.Name] = struct{}{}
	}

	if s.primaryName != "" {
		idx, err := s.primaryIndex(s.primaryName)
		if err != nil {
			return nil, err
		}
		s.primary = idx
	} else {
		s.primary = slices.IndexFunc(s.langs, func(l Language) bool { return !l.Failed() })
	}

	s.present = Present
	if s.blankAsMissing {
		s.present = PresentNonBlank
	}

	s.universe, s.records = Aggregate(s.langs)
	s.classify()

	return s, nil
}

func (s *Session) classify() {
	if !s.skipFailed || !slices.ContainsFunc(s.langs, Language.Failed) {
		for k, rec := range s.records {
			rec.Status = Classify(rec, s.primary, s.present)
			s.records[k] = rec
		}
		return
	}

	// classify over the loaded languages only
	loaded := make([]int, 0, len(s.langs))
	primary := -1
	for i, l := range s.langs {
		if l.Failed() {
			continue
		}
		if i == s.primary {
			primary = len(loaded)
		}
		loaded = append(loaded, i)
	}
	cells := make([]Cell, len(loaded))
	for k, rec := range s.records {
		for j, i := range loaded {
			cells[j] = rec.Cells[i]
		}
		rec.Status = Classify(Record{Key: k, Cells: cells}, primary, s.present)
		s.records[k] = rec
	}
}

func (s *Session) indexOf(name string) int {
	return slices.IndexFunc(s.langs, func(l Language) bool { return l.Name == name })
}

func (s *Session) primaryIndex(name string) (int, error) {
	idx := s.indexOf(name)
	if idx < 0 {
		return -1, fmt.Errorf("%w: %q", ErrUnknownLanguage, name)
	}
	if s.langs[idx].Failed() {
		return -1, fmt.Errorf("%w: %q", ErrFailedLanguage, name)
	}
	return idx, nil
}

// WithPrimary returns a copy of the session with name as the primary language.
// The key universe is shared; every record is reclassified.
func (s *Session) WithPrimary(name string) (*Session, error) {
	idx, err := s.primaryIndex(name)
	if err != nil {
		return nil, err
	}

	next := &Session{
		langs:          s.langs,
		universe:       s.universe,
		records:        make(map[string]Record, len(s.records)),
		present:        s.present,
		primary:        idx,
		primaryName:    name,
		blankAsMissing: s.blankAsMissing,
		skipFailed:     s.skipFailed,
	}
	for k, rec := range s.records {
		next.records[k] = rec
	}
	next.classify()

	return next, nil
}

// Languages returns the languages in comparison order.
func (s *Session) Languages() []Language { return slices.Clone(s.langs) }

// LanguageNames returns the language names in comparison order.
func (s *Session) LanguageNames() []string {
	names := make([]string, len(s.langs))
	for i, l := range s.langs {
		names[i] = l.Name
	}
	return names
}

// Primary returns the primary language name and its index, or "" and -1.
func (s *Session) Primary() (string, int) {
	if s.primary < 0 {
		return "", -1
	}
	return s.langs[s.primary].Name, s.primary
}

// BlankAsMissing reports whether blank values count as untranslated.
func (s *Session) BlankAsMissing() bool { return s.blankAsMissing }

// SkipFailed reports whether failed languages are left out of classification.
func (s *Session) SkipFailed() bool { return s.skipFailed }

// Universe returns the ordered key universe. It must not be modified.
func (s *Session) Universe() *KeyUniverse { return s.universe }

// Record returns the classified record for key.
func (s *Session) Record(key string) (Record, bool) {
	rec, ok := s.records[key]
	if !ok {
		return Record{}, false
	}
	rec.Cells = slices.Clone(rec.Cells)
	return rec, true
}

// Records returns every classified record in universe order.
func (s *Session) Records() []Record {
	out := make([]Record, 0, len(s.universe.keys))
	for _, k := range s.universe.keys {
		rec := s.records[k]
		rec.Cells = slices.Clone(rec.Cells)
		out = append(out, rec)
	}
	return out
}

// Failed returns the load error of each failed language keyed by name.
func (s *Session) Failed() map[string]error {
	out := make(map[string]error)
	for _, l := range s.langs {
		if l.Failed() {
			out[l.Name] = l.Err
		}
	}
	return out
}

// Report snapshots the session into a renderable report.
func (s *Session) Report() *Report {
	primary, _ := s.Primary()
	records := s.Records()

	r := &Report{
		Languages: s.LanguageNames(),
		Primary:   primary,
		Records:   records,
		Counts:    Count(records),
	}
	for _, l := range s.langs {
		if l.Failed() {
			r.Failures = append(r.Failures, Failure{Language: l.Name, Source: l.Source, Error: l.Err.Error()})
		}
	}
	return r
}
