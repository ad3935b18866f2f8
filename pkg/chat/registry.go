package chat

import "sync"

// Registry maps client names to their live connections. A name is bound
// to at most one connection; re-identifying replaces the old binding.
type Registry struct {
	mu      sync.RWMutex
	clients map[string]*Connection
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		clients: make(map[string]*Connection),
	}
}

// Register binds a name to a connection and returns the previously
// bound connection, if any.
func (r *Registry) Register(name string, conn *Connection) *Connection {
	r.mu.Lock()
	defer r.mu.Unlock()

	old := r.clients[name]
	r.clients[name] = conn
	return old
}

// Lookup returns the connection bound to a name.
func (r *Registry) Lookup(name string) (*Connection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conn, ok := r.clients[name]
	return conn, ok
}

// RemoveConnection unbinds every name bound to the departing
// connection. A name re-bound to a newer connection is left alone.
func (r *Registry) RemoveConnection(conn *Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for name, c := range r.clients {
		if c == conn {
			delete(r.clients, name)
		}
	}
}

// Names returns the currently registered client names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.clients))
	for name := range r.clients {
		names = append(names, name)
	}
	return names
}

// Len returns the number of registered clients.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}
