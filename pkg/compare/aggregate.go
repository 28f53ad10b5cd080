package compare

import (
	"slices"

	"github.com/dmitrymomot/langdiff/pkg/jsonv"
	"github.com/dmitrymomot/langdiff/pkg/keypath"
)

// Language is one loaded translation document.
type Language struct {
	// Err records why the document could not be loaded. A failed language keeps its
	// place in the comparison with an empty FlatMap.
	Err error

	Flat *keypath.FlatMap

	// Name is the language identifier, usually the directory name.
	Name string

	// Source names the file the document was read from, if any.
	Source string
}

// Failed reports whether the language could not be loaded.
func (l Language) Failed() bool { return l.Err != nil }

// Cell is one language's contribution to a record.
// The zero Cell is the absent marker.
type Cell struct {
	Value   jsonv.Value `json:"value"`
	Present bool        `json:"present"`
}

// Text returns the display text of the value, or "" when absent.
func (c Cell) Text() string {
	if !c.Present {
		return ""
	}
	if s, ok := c.Value.Str(); ok {
		return s
	}
	return c.Value.Text()
}

// Record is one key of the universe with a cell per known language.
// Cells are ordered like the languages of the session that produced the record.
type Record struct {
	Key    string `json:"key"`
	Status Status `json:"status"`
	Cells  []Cell `json:"cells"`
}

// KeyUniverse is the ordered set of every key seen across languages.
// Keys keep first-seen order and are never removed.
type KeyUniverse struct {
	index map[string]int
	keys  []string
}

// NewKeyUniverse creates an empty universe.
func NewKeyUniverse() *KeyUniverse {
	return &KeyUniverse{index: make(map[string]int)}
}

// Add inserts key if it has not been seen and reports whether it was new.
func (u *KeyUniverse) Add(key string) bool {
	if _, ok := u.index[key]; ok {
		return false
	}
	u.index[key] = len(u.keys)
	u.keys = append(u.keys, key)
	return true
}

// Contains reports whether key is in the universe.
func (u *KeyUniverse) Contains(key string) bool {
	_, ok := u.index[key]
	return ok
}

// Position returns the first-seen position of key, or -1.
func (u *KeyUniverse) Position(key string) int {
	if i, ok := u.index[key]; ok {
		return i
	}
	return -1
}

// Len returns the number of keys.
func (u *KeyUniverse) Len() int { return len(u.keys) }

// Keys returns the keys in first-seen order.
func (u *KeyUniverse) Keys() []string { return slices.Clone(u.keys) }

// Aggregate merges per-language flat maps into a key universe and a record per key.
//
// Keys are visited language by language in the given order, so the universe lists the
// first language's keys first. A language without a value for a key gets the absent
// cell. Records come back unclassified.
func Aggregate(langs []Language) (*KeyUniverse, map[string]Record) {
	u := NewKeyUniverse()
	for _, l := range langs {
		for k := range l.Flat.All() {
			u.Add(k)
		}
	}

	records := make(map[string]Record, u.Len())
	for _, k := range u.keys {
		cells := make([]Cell, len(langs))
		for i, l := range langs {
			if v, ok := l.Flat.Get(k); ok {
				cells[i] = Cell{Value: v, Present: true}
			}
		}
		records[k] = Record{Key: k, Cells: cells}
	}

	return u, records
}
