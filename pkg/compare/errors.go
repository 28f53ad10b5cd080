package compare

import "errors"

var (
	ErrEmptyLanguage     = errors.New("compare: language name cannot be empty")
	ErrDuplicateLanguage = errors.New("compare: duplicate language")
	ErrUnknownLanguage   = errors.New("compare: unknown language")
	ErrUnknownStatus     = errors.New("compare: unknown status")
	ErrFailedLanguage    = errors.New("compare: language failed to load")
)
