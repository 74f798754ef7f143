package api

import (
	"errors"
	"fmt"
)

// ErrUnauthenticated marks an operation that was short-circuited client-side
// because no session is active. No network call was made.
var ErrUnauthenticated = errors.New("not authenticated")

// Error is any non-2xx response from the commerce service. The caller treats
// it as transient: the last known-good local state is kept and the user may
// re-trigger the action.
type Error struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("commerce api: %d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("commerce api: unexpected status %d", e.StatusCode)
}

// errorBody is the error shape the commerce service responds with.
type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
