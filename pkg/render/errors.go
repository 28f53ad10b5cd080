package render

import "errors"

var (
	ErrNoValue         = errors.New("render: language has no value for key")
	ErrUnknownLanguage = errors.New("render: unknown language")
	ErrRenderFailed    = errors.New("render: failed to render report")
)
