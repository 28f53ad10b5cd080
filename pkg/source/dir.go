package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
)

// Dir reads translations from a directory tree where every top-level directory is a
// language:
//
//	en/translation.json
//	fr/translation.json
//	pt-BR/translation.yaml
//
// Directories starting with '.' or '_' are skipped.
type Dir struct {
	fsys  fs.FS
	names []string
}

// DirOption configures a Dir.
type DirOption func(*Dir)

// WithFileNames sets the file names tried, in order, inside each language directory.
func WithFileNames(names ...string) DirOption {
	return func(d *Dir) {
		if len(names) > 0 {
			d.names = names
		}
	}
}

// NewDir returns a Source over fsys.
func NewDir(fsys fs.FS, opts ...DirOption) *Dir {
	d := &Dir{fsys: fsys, names: []string{DefaultFileName}}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// OpenDir returns a Source over the directory root of the local file system.
func OpenDir(root string, opts ...DirOption) (*Dir, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrInvalidConfig, root)
	}
	return NewDir(os.DirFS(root), opts...), nil
}

// Languages returns the language directories sorted by name.
func (d *Dir) Languages(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := fs.ReadDir(d.fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrListFailed, err)
	}

	var langs []string
	for _, e := range entries {
		if !e.IsDir() || hidden(e.Name()) {
			continue
		}
		langs = append(langs, e.Name())
	}
	return langs, nil
}

// Read returns the first configured file that exists in the lang directory.
func (d *Dir) Read(ctx context.Context, lang string) (*File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !fs.ValidPath(lang) || lang == "." {
		return nil, fmt.Errorf("%w: invalid language %q", ErrNotFound, lang)
	}

	for _, name := range d.names {
		p := path.Join(lang, name)
		data, err := readLimited(d.fsys, p)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return &File{Language: lang, Name: p, Data: data}, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrNotFound, path.Join(lang, d.names[0]))
}

func readLimited(fsys fs.FS, name string) ([]byte, error) {
	f, err := fsys.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrReadFailed, name, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrReadFailed, name, err)
	}
	if len(data) > MaxFileSize {
		return nil, fmt.Errorf("%w: %s", ErrFileTooLarge, name)
	}
	return data, nil
}
