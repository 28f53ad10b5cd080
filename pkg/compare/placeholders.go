package compare

import (
	"regexp"
	"slices"
)

var placeholderRe = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_.\-]+)\s*\}\}`)

// Placeholders returns the distinct {{name}} placeholders of s in order of appearance.
func Placeholders(s string) []string {
	var names []string
	for _, m := range placeholderRe.FindAllStringSubmatch(s, -1) {
		if !slices.Contains(names, m[1]) {
			names = append(names, m[1])
		}
	}
	return names
}

// PlaceholderMismatch reports a translation whose placeholders differ from the primary
// language's value for the same key.
type PlaceholderMismatch struct {
	Key      string   `json:"key"`
	Language string   `json:"language"`
	Missing  []string `json:"missing,omitempty"`
	Extra    []string `json:"extra,omitempty"`
}

// CheckPlaceholders compares the placeholders of every present string value of rec with
// the primary language's value. Records whose primary value is absent or not a string are
// skipped. langs names the cells of rec in order.
func CheckPlaceholders(rec Record, langs []string, primary int) []PlaceholderMismatch {
	if primary < 0 || primary >= len(rec.Cells) {
		return nil
	}
	base, ok := stringCell(rec.Cells[primary])
	if !ok {
		return nil
	}
	want := Placeholders(base)

	var out []PlaceholderMismatch
	for i, c := range rec.Cells {
		if i == primary || i >= len(langs) {
			continue
		}
		s, ok := stringCell(c)
		if !ok {
			continue
		}
		got := Placeholders(s)

		m := PlaceholderMismatch{Key: rec.Key, Language: langs[i]}
		for _, name := range want {
			if !slices.Contains(got, name) {
				m.Missing = append(m.Missing, name)
			}
		}
		for _, name := range got {
			if !slices.Contains(want, name) {
				m.Extra = append(m.Extra, name)
			}
		}
		if len(m.Missing) > 0 || len(m.Extra) > 0 {
			out = append(out, m)
		}
	}
	return out
}

// CheckPlaceholders runs CheckPlaceholders over every record in universe order.
func (s *Session) CheckPlaceholders() []PlaceholderMismatch {
	names := s.LanguageNames()
	var out []PlaceholderMismatch
	for _, k := range s.universe.keys {
		out = append(out, CheckPlaceholders(s.records[k], names, s.primary)...)
	}
	return out
}

func stringCell(c Cell) (string, bool) {
	if !c.Present {
		return "", false
	}
	return c.Value.Str()
}
