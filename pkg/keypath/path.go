package keypath

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxIndex bounds array indexes accepted by Parse so a hostile path cannot force a huge allocation.
const MaxIndex = 1 << 20

// Segment is one step of a key path: either an object field or an array index.
type Segment struct {
	Key     string
	Index   int
	IsIndex bool
}

// FieldSegment returns a segment that descends into the object field name.
func FieldSegment(name string) Segment { return Segment{Key: name} }

// IndexSegment returns a segment that descends into array element i.
func IndexSegment(i int) Segment { return Segment{Index: i, IsIndex: true} }

// String returns the segment as it appears inside a path, without a leading dot.
func (s Segment) String() string {
	if s.IsIndex {
		return "[" + strconv.Itoa(s.Index) + "]"
	}
	return s.Key
}

// Field appends an object field to parent. At the root the name is the whole path.
func Field(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}

// Index appends an array index to parent.
func Index(parent string, i int) string {
	return parent + "[" + strconv.Itoa(i) + "]"
}

// Format joins segments back into a path.
func Format(segs []Segment) string {
	var b strings.Builder
	for i, s := range segs {
		switch {
		case s.IsIndex:
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(s.Index))
			b.WriteByte(']')
		case i == 0:
			b.WriteString(s.Key)
		default:
			b.WriteByte('.')
			b.WriteString(s.Key)
		}
	}
	return b.String()
}

// Parse splits a path such as "a.b[0].c" into segments.
// A dot introduces a field name and a bracketed decimal introduces an array index.
// Field names cannot contain '.' or '['.
func Parse(path string) ([]Segment, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrMalformedPath)
	}

	var segs []Segment
	for i := 0; i < len(path); {
		switch path[i] {
		case '[':
			end := strings.IndexByte(path[i:], ']')
			if end < 0 {
				return nil, fmt.Errorf("%w: unclosed bracket in %q", ErrMalformedPath, path)
			}
			idx, ok := parseIndex(path[i+1 : i+end])
			if !ok {
				return nil, fmt.Errorf("%w: invalid index %q in %q", ErrMalformedPath, path[i+1:i+end], path)
			}
			segs = append(segs, IndexSegment(idx))
			i += end + 1

		case '.':
			if len(segs) == 0 {
				return nil, fmt.Errorf("%w: leading dot in %q", ErrMalformedPath, path)
			}
			name, next := readName(path, i+1)
			if name == "" {
				return nil, fmt.Errorf("%w: empty field name in %q", ErrMalformedPath, path)
			}
			segs = append(segs, FieldSegment(name))
			i = next

		default:
			if len(segs) > 0 {
				// a field directly after an index, e.g. "a[0]b"
				return nil, fmt.Errorf("%w: missing dot at offset %d in %q", ErrMalformedPath, i, path)
			}
			name, next := readName(path, i)
			segs = append(segs, FieldSegment(name))
			i = next
		}
	}

	return segs, nil
}

func readName(path string, from int) (string, int) {
	j := from
	for j < len(path) && path[j] != '.' && path[j] != '[' {
		j++
	}
	return path[from:j], j
}

func parseIndex(s string) (int, bool) {
	if s == "" || (len(s) > 1 && s[0] == '0') {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil || n > MaxIndex {
		return 0, false
	}
	return n, true
}
