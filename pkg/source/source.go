package source

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/dmitrymomot/langdiff/pkg/jsonv"
)

// DefaultFileName is the translation file looked up inside each language directory.
const DefaultFileName = "translation.json"

// MaxFileSize bounds how much of a single translation file is read.
const MaxFileSize = 32 << 20 // 32MB

// Source lists languages and reads their translation files.
type Source interface {
	// Languages returns the language identifiers in a stable order.
	Languages(ctx context.Context) ([]string, error)

	// Read returns the translation file of lang.
	// A language without a translation file yields an error wrapping ErrNotFound.
	Read(ctx context.Context, lang string) (*File, error)
}

// File is the raw content of one translation file.
type File struct {
	Language string
	// Name is the path of the file relative to the source root.
	Name string
	Data []byte
}

// Decode parses the file by extension: .yaml and .yml as YAML, anything else as JSON.
// The root must be an object or an array.
func (f *File) Decode() (jsonv.Value, error) {
	var (
		v   jsonv.Value
		err error
	)
	switch strings.ToLower(path.Ext(f.Name)) {
	case ".yaml", ".yml":
		v, err = jsonv.ParseYAMLDocument(f.Data)
	default:
		v, err = jsonv.ParseDocument(f.Data)
	}
	if err != nil {
		return jsonv.Value{}, fmt.Errorf("%w: %s: %w", ErrParseFailed, f.Name, err)
	}
	return v, nil
}

func hidden(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}
