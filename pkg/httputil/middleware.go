package httputil

import (
	"log/slog"
	"mime"
	"net/http"
	"time"
)

// Middleware wraps an http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// MiddlewareChain manages the HTTP middleware stack for a server.
type MiddlewareChain struct {
	middlewares []Middleware
}

// NewMiddlewareChain creates a chain applying the given middlewares in
// order, first one outermost.
func NewMiddlewareChain(middlewares ...Middleware) *MiddlewareChain {
	return &MiddlewareChain{middlewares: middlewares}
}

// Use appends a middleware to the chain.
func (mc *MiddlewareChain) Use(m Middleware) {
	mc.middlewares = append(mc.middlewares, m)
}

// Wrap wraps the given handler with all configured middleware.
func (mc *MiddlewareChain) Wrap(handler http.Handler) http.Handler {
	h := handler
	for i := len(mc.middlewares) - 1; i >= 0; i-- {
		h = mc.middlewares[i](h)
	}
	return h
}

// RequestLogging logs method, path and duration for every request.
func RequestLogging(log *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			log.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"duration", time.Since(start))
		})
	}
}

// MethodFilter rejects every method outside GET, PUT, POST and DELETE
// with a 405 through the error funnel. It runs before the content-type
// filter so a disallowed method never reaches body inspection.
func MethodFilter() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodPut, http.MethodPost, http.MethodDelete:
				next.ServeHTTP(w, r)
			default:
				WriteAPIError(w, r, &MethodError{Method: r.Method})
			}
		})
	}
}

// ContentTypeFilter rejects PUT and POST requests whose body is not
// declared as application/json with a 406 through the error funnel.
// Media type parameters (charset) are tolerated. Exempt paths skip the
// check entirely.
func ContentTypeFilter(exempt ...string) Middleware {
	exemptPaths := make(map[string]struct{}, len(exempt))
	for _, p := range exempt {
		exemptPaths[p] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}
			if r.Method == http.MethodPut || r.Method == http.MethodPost {
				ct := r.Header.Get("Content-Type")
				mediaType, _, err := mime.ParseMediaType(ct)
				if err != nil || mediaType != "application/json" {
					WriteAPIError(w, r, &ContentTypeError{ContentType: ct})
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
