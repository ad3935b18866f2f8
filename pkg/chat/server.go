package chat

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	ws "github.com/coder/websocket"

	"github.com/chirpd/chirpd/pkg/logging"
)

// DefaultStoreTimeout bounds each triple store call made on behalf of
// a chat frame.
const DefaultStoreTimeout = 10 * time.Second

// API is the WebSocket chat relay server.
type API struct {
	registry   *Registry
	store      MessageStore
	httpServer *http.Server
	port       int
	path       string
	timeout    time.Duration
	log        *slog.Logger
}

// Option configures the API.
type Option func(*API)

// WithMessageStore injects the message store.
func WithMessageStore(store MessageStore) Option {
	return func(a *API) {
		a.store = store
	}
}

// WithPath overrides the upgrade path. Defaults to /ws.
func WithPath(path string) Option {
	return func(a *API) {
		a.path = path
	}
}

// WithStoreTimeout overrides the per-frame store timeout.
func WithStoreTimeout(d time.Duration) Option {
	return func(a *API) {
		a.timeout = d
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

// New creates a chat relay listening on the given port.
func New(port int, opts ...Option) *API {
	api := &API{
		registry: NewRegistry(),
		port:     port,
		path:     "/ws",
		timeout:  DefaultStoreTimeout,
		log:      logging.Nop(),
	}

	for _, opt := range opts {
		opt(api)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+api.path, api.handleUpgrade)

	api.httpServer = &http.Server{
		Addr:        ":" + strconv.Itoa(port),
		Handler:     mux,
		ReadTimeout: 0, // WebSocket connections are long-lived
	}

	return api
}

// Handler returns the HTTP handler, for tests and embedding.
func (a *API) Handler() http.Handler {
	return a.httpServer.Handler
}

// Registry returns the client registry.
func (a *API) Registry() *Registry {
	return a.registry
}

// Start begins serving in a background goroutine.
func (a *API) Start() error {
	a.log.Info("starting chat relay", "port", a.port, "path", a.path)
	go func() {
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.Error("chat relay error", "error", err)
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

// SetLogger sets the operational logger for the relay.
func (a *API) SetLogger(log *slog.Logger) {
	if log != nil {
		a.log = log
	} else {
		a.log = logging.Nop()
	}
}

// handleUpgrade accepts the WebSocket upgrade and hands the connection
// to its read loop.
func (a *API) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	wsConn, err := ws.Accept(w, r, &ws.AcceptOptions{
		InsecureSkipVerify: true, // Any origin may connect
	})
	if err != nil {
		a.log.Warn("upgrade failed", "error", err, "remote", r.RemoteAddr)
		return
	}

	conn := NewConnection(wsConn)
	a.log.Info("client connected", "conn", conn.ID(), "remote", r.RemoteAddr)

	go a.handleConnection(conn)
}

// handleConnection runs the read loop. On exit the connection is
// unbound from the registry and closed.
func (a *API) handleConnection(conn *Connection) {
	defer func() {
		a.registry.RemoveConnection(conn)
		_ = conn.CloseNormal()
		a.log.Info("client disconnected", "conn", conn.ID(),
			"duration", time.Since(conn.ConnectedAt()),
			"idle", time.Since(conn.LastMessageAt()),
			"sent", conn.MessagesSent(),
			"received", conn.MessagesReceived())
	}()

	for {
		data, err := conn.Read()
		if err != nil {
			return
		}
		a.handleFrame(conn, data)
	}
}

// handleFrame dispatches a single frame from a client.
func (a *API) handleFrame(conn *Connection, data []byte) {
	var frame Frame
	if err := json.Unmarshal(data, &frame); err != nil {
		_ = conn.SendJSON(errorFrame{Error: "invalid JSON frame"})
		return
	}

	switch {
	case frame.IsIdentify():
		a.identify(conn, frame.Name)
	case frame.IsChat():
		a.relay(conn, &frame)
	default:
		_ = conn.SendJSON(errorFrame{Error: "frame needs a name or sender/recipient/message"})
	}
}

// identify binds the client name to this connection. A previous
// connection under the same name is closed.
func (a *API) identify(conn *Connection, name string) {
	old := a.registry.Register(name, conn)
	if old != nil && old != conn {
		_ = old.CloseNormal()
		a.log.Info("client re-identified", "name", name, "conn", conn.ID())
		return
	}
	a.log.Info("client identified", "name", name, "conn", conn.ID())
}

// relay persists the message, answers the sender with the conversation
// history and forwards the message to the recipient if connected.
func (a *API) relay(conn *Connection, frame *Frame) {
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()

	if a.store != nil {
		err := a.store.Save(ctx, Message{
			Sender:    frame.Sender,
			Recipient: frame.Recipient,
			Text:      frame.Message,
			SentAt:    time.Now(),
		})
		if err != nil {
			a.log.Error("message persistence failed", "error", err,
				"sender", frame.Sender, "recipient", frame.Recipient)
			_ = conn.SendJSON(errorFrame{Error: "message could not be stored"})
			return
		}

		history, err := a.store.History(ctx, frame.Sender, frame.Recipient)
		if err != nil {
			a.log.Error("history fetch failed", "error", err)
			_ = conn.SendJSON(errorFrame{Error: "history could not be fetched"})
		} else {
			_ = conn.SendText(HistoryPrefix + string(history))
		}
	}

	if recipient, ok := a.registry.Lookup(frame.Recipient); ok {
		if err := recipient.SendText(frame.Message); err != nil {
			a.log.Warn("forward failed", "error", err, "recipient", frame.Recipient)
			_ = conn.SendText(OfflineNotice)
		}
		return
	}
	_ = conn.SendText(OfflineNotice)
}
