package transport

import (
	"fmt"
)

// Error codes reported by the remote service in error bodies.
const (
	// CodeTokenExpired marks a 401 caused by an expired access token, the
	// only 401 variant the refresh coordinator recovers from.
	CodeTokenExpired = "TOKEN_EXPIRED"
)

// APIError is a non-2xx response from the remote service, normalized from
// its {code, message} error body.
type APIError struct {
	Status  int    // HTTP status code
	Code    string // Machine-readable error code, may be empty
	Message string // Human-readable message, may be empty
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("api error %d (%s)", e.Status, e.Code)
}

// TokenExpired reports whether the response marks the bearer token as
// expired. Only this combination hands control to the refresh coordinator;
// any other 401 is returned to the caller verbatim.
func (e *APIError) TokenExpired() bool {
	return e.Status == 401 && e.Code == CodeTokenExpired
}
