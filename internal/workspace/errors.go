package workspace

import "errors"

var (
	ErrNotLoaded       = errors.New("workspace: translations not loaded yet")
	ErrReloadFailed    = errors.New("workspace: reload failed")
	ErrNoLanguages     = errors.New("workspace: no languages found")
	ErrAllFailed       = errors.New("workspace: every language failed to load")
	ErrUnknownLanguage = errors.New("workspace: unknown language")
	ErrUnknownKey      = errors.New("workspace: unknown key")
	ErrFailedLanguage  = errors.New("workspace: language failed to load")
)
