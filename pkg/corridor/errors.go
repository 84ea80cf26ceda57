package corridor

import (
	"errors"
	"net/http"
)

var (
	// ErrBadRequest means source or destination was empty
	ErrBadRequest = errors.New("missing source or destination")
	// ErrNodeNotFound means a name did not resolve to any habitat
	ErrNodeNotFound = errors.New("sanctuary not found")
	// ErrNoPath means the habitats are not connected in the spanning forest
	ErrNoPath = errors.New("no path found")
)

// User-facing messages for the query errors
const (
	MsgBadRequest   = "Missing source or destination"
	MsgNodeNotFound = "Sanctuary not found. Check spelling."
	MsgNoPath       = "No path found"
	MsgInternal     = "internal error"
)

// StatusCode maps a Find error to its HTTP status
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrNodeNotFound), errors.Is(err, ErrNoPath):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Message maps a Find error to the message shown to users
func Message(err error) string {
	switch {
	case errors.Is(err, ErrBadRequest):
		return MsgBadRequest
	case errors.Is(err, ErrNodeNotFound):
		return MsgNodeNotFound
	case errors.Is(err, ErrNoPath):
		return MsgNoPath
	default:
		return MsgInternal
	}
}
