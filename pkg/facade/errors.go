package facade

import "net/http"

// OperationError indicates a method/route combination the façade does
// not allow.
type OperationError struct {
	Hint string
}

func (e *OperationError) Error() string {
	if e.Hint != "" {
		return "Operation not allowed. " + e.Hint
	}
	return "Operation not allowed"
}

// StatusCode returns the HTTP status code for this error.
func (e *OperationError) StatusCode() int {
	return http.StatusMethodNotAllowed
}

// RequestError indicates a malformed façade request.
type RequestError struct {
	Message string
}

func (e *RequestError) Error() string {
	return e.Message
}

// StatusCode returns the HTTP status code for this error.
func (e *RequestError) StatusCode() int {
	return http.StatusBadRequest
}
