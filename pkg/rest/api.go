// Package rest implements the tweet/user CRUD API over the in-memory store.
package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/chirpd/chirpd/pkg/httputil"
	"github.com/chirpd/chirpd/pkg/logging"
	"github.com/chirpd/chirpd/pkg/store"
)

// API exposes the tweet and user collections over HTTP.
type API struct {
	store      *store.Store
	httpServer *http.Server
	port       int
	log        *slog.Logger
}

// Option configures the API.
type Option func(*API)

// WithStore injects the record store. Defaults to a seeded store.
func WithStore(s *store.Store) Option {
	return func(a *API) {
		a.store = s
	}
}

// WithLogger sets the operational logger.
func WithLogger(log *slog.Logger) Option {
	return func(a *API) {
		if log != nil {
			a.log = log
		}
	}
}

// New creates a new API listening on the given port.
func New(port int, opts ...Option) *API {
	api := &API{
		port: port,
		log:  logging.Nop(),
	}

	for _, opt := range opts {
		opt(api)
	}

	if api.store == nil {
		api.store = store.NewWithDefaults()
	}

	mux := http.NewServeMux()
	api.registerRoutes(mux)

	api.httpServer = &http.Server{
		Addr:         ":" + strconv.Itoa(port),
		Handler:      api.withMiddleware(mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return api
}

// Handler returns the fully wrapped handler, for tests and embedding.
func (a *API) Handler() http.Handler {
	return a.httpServer.Handler
}

// Start begins serving in a background goroutine.
func (a *API) Start() error {
	a.log.Info("starting REST API", "port", a.port)
	go func() {
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.Error("REST API error", "error", err)
		}
	}()
	return nil
}

// Stop gracefully shuts down the server.
func (a *API) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return a.httpServer.Shutdown(ctx)
}

// SetLogger sets the operational logger for the API.
func (a *API) SetLogger(log *slog.Logger) {
	if log != nil {
		a.log = log
	} else {
		a.log = logging.Nop()
	}
}

// withMiddleware wraps the mux with the validation chain.
// Order (outermost to innermost): logging -> method filter -> content-type filter -> handler.
func (a *API) withMiddleware(handler http.Handler) http.Handler {
	chain := httputil.NewMiddlewareChain(
		httputil.RequestLogging(a.log),
		httputil.MethodFilter(),
		httputil.ContentTypeFilter(),
	)
	return chain.Wrap(handler)
}
