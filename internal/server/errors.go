package server

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/langdiff/internal/workspace"
	"github.com/dmitrymomot/langdiff/pkg/match"
	"github.com/dmitrymomot/langdiff/pkg/render"
)

// HTTPError is an error with the status code and message sent to the client.
type HTTPError struct {
	// Err is the underlying error, logged but never exposed.
	Err error

	Message string
	Code    int
}

func (e *HTTPError) Error() string { return e.Message }

func (e *HTTPError) Unwrap() error { return e.Err }

func newHTTPError(code int, message string, err error) *HTTPError {
	return &HTTPError{Code: code, Message: message, Err: err}
}

func errBadRequest(message string, err error) *HTTPError {
	return newHTTPError(http.StatusBadRequest, message, err)
}

func errNotFound(message string, err error) *HTTPError {
	return newHTTPError(http.StatusNotFound, message, err)
}

func errUnprocessable(message string, err error) *HTTPError {
	return newHTTPError(http.StatusUnprocessableEntity, message, err)
}

// PanicError carries a recovered panic to the error handler.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string { return "panic recovered" }

// asHTTPError maps domain errors to HTTP errors. Unknown errors become 500.
func asHTTPError(err error) *HTTPError {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	switch {
	case errors.Is(err, workspace.ErrNotLoaded):
		return newHTTPError(http.StatusServiceUnavailable, "translations are not loaded yet", err)
	case errors.Is(err, workspace.ErrReloadFailed):
		return newHTTPError(http.StatusBadGateway, "failed to reload translations", err)
	case errors.Is(err, workspace.ErrUnknownLanguage), errors.Is(err, render.ErrUnknownLanguage):
		return errNotFound("unknown language", err)
	case errors.Is(err, workspace.ErrFailedLanguage):
		return errUnprocessable("language failed to load", err)
	case errors.Is(err, workspace.ErrUnknownKey):
		return errNotFound("unknown key", err)
	case errors.Is(err, render.ErrNoValue):
		return errNotFound("language has no value for key", err)
	case errors.Is(err, match.ErrInvalidFilter):
		return errBadRequest("invalid status filter", err)
	}

	return newHTTPError(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError), err)
}
