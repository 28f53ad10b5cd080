package keypath

import "errors"

var (
	ErrMalformedPath = errors.New("keypath: malformed path")
	ErrPathConflict  = errors.New("keypath: conflicting paths")
)
