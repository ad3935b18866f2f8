package httputil

import (
	"fmt"
	"net/http"
)

// StatusCoder is implemented by errors that know their HTTP status.
type StatusCoder interface {
	error
	StatusCode() int
}

// ErrorBody is the uniform error response shape. Every error leaving
// the servers funnels through it.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries the message, the request path that failed, and
// the underlying error chain as a string.
type ErrorDetail struct {
	Message string `json:"message"`
	Path    string `json:"path"`
	Detail  string `json:"error"`
}

// WriteAPIError converts any error into the uniform error body. The
// status comes from StatusCode() when the error carries one and is 500
// otherwise, so an error can never leave with a success status.
func WriteAPIError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	if sc, ok := err.(StatusCoder); ok && sc.StatusCode() != 0 {
		status = sc.StatusCode()
	}
	WriteJSON(w, status, ErrorBody{
		Error: ErrorDetail{
			Message: err.Error(),
			Path:    r.URL.Path,
			Detail:  err.Error(),
		},
	})
}

// MethodError indicates a request used a method outside the whitelist.
type MethodError struct {
	Method string
}

func (e *MethodError) Error() string {
	return fmt.Sprintf("method %s is not allowed", e.Method)
}

// StatusCode returns the HTTP status code for this error.
func (e *MethodError) StatusCode() int {
	return http.StatusMethodNotAllowed
}

// ContentTypeError indicates a PUT or POST body was not declared as JSON.
type ContentTypeError struct {
	ContentType string
}

func (e *ContentTypeError) Error() string {
	return "only application/json bodies are accepted"
}

// StatusCode returns the HTTP status code for this error.
func (e *ContentTypeError) StatusCode() int {
	return http.StatusNotAcceptable
}

// RouteError indicates no route matched the request.
type RouteError struct {
	Path string
}

func (e *RouteError) Error() string {
	return "page not found"
}

// StatusCode returns the HTTP status code for this error.
func (e *RouteError) StatusCode() int {
	return http.StatusNotFound
}
