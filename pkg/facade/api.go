// Package facade exposes the triple store as a REST and GraphQL API.
// Routes are translated to parameterized SPARQL queries; responses
// carry the raw SPARQL result bindings.
package facade

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/chirpd/chirpd/pkg/graphql"
	"github.com/chirpd/chirpd/pkg/httputil"
	"github.com/chirpd/chirpd/pkg/logging"
	"github.com/chirpd/chirpd/pkg/sparql"
)

// API serves the SPARQL-backed REST façade and the GraphQL endpoint.
type API struct {
	client     *sparql.Client
	builder    *sparql.Builder
	gql        *graphql.Handler
	httpServer *http.Server
	port       int
	log        *slog.Logger

	// createMu serializes count-based id allocation so two concurrent
	// creates cannot mint the same id.
	createMu sync.Mutex
}

// Option configures the API.
type Option func(*API)

// WithClient injects the triple store client.
func WithClient(client *sparql.Client) Option {
	return func(a *API) {
		a.client = client
	}
}

// WithBuilder injects the query builder.
func WithBuilder(builder *sparql.Builder) Option {
	return func(a *API) {
		a.builder = builder
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

// New creates a façade listening on the given port.
func New(port int, opts ...Option) *API {
	api := &API{
		port: port,
		log:  logging.Nop(),
	}

	for _, opt := range opts {
		opt(api)
	}

	if api.client == nil {
		api.client = sparql.NewClient("http://localhost:3030", "ds")
	}
	if api.builder == nil {
		api.builder = sparql.NewBuilder("http://localhost:3030")
	}

	resolver := graphql.NewResolver(api.client, api.builder, api.log)
	api.gql = graphql.NewHandler(graphql.NewExecutor(graphql.MustSchema(), resolver))

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
	a.log.Info("starting SPARQL façade", "port", a.port)
	go func() {
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.Error("façade error", "error", err)
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

// SetLogger sets the operational logger for the façade.
func (a *API) SetLogger(log *slog.Logger) {
	if log != nil {
		a.log = log
	} else {
		a.log = logging.Nop()
	}
}

// withMiddleware wraps the mux with the same validation chain the CRUD
// API uses.
func (a *API) withMiddleware(handler http.Handler) http.Handler {
	chain := httputil.NewMiddlewareChain(
		httputil.RequestLogging(a.log),
		httputil.MethodFilter(),
		httputil.ContentTypeFilter("/graphql"),
	)
	return chain.Wrap(handler)
}
