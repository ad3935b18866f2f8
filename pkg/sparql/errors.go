package sparql

import (
	"fmt"
	"net/http"
)

// UpstreamError indicates the triple store was unreachable or answered
// with a non-success status.
type UpstreamError struct {
	Operation string
	Status    int
	Err       error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("triple store %s failed: %v", e.Operation, e.Err)
	}
	return fmt.Sprintf("triple store %s failed with status %d", e.Operation, e.Status)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status code for this error.
func (e *UpstreamError) StatusCode() int {
	return http.StatusBadGateway
}
