package jsonv

import "errors"

var (
	ErrInvalidJSON  = errors.New("jsonv: invalid JSON")
	ErrInvalidYAML  = errors.New("jsonv: invalid YAML")
	ErrNotContainer = errors.New("jsonv: document root must be an object or an array")
)
