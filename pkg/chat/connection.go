// Package chat implements the WebSocket chat relay. Messages between
// named clients are persisted as RDF triples in the triple store and
// relayed live when the recipient is connected.
package chat

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	ws "github.com/coder/websocket"

	"github.com/chirpd/chirpd/internal/id"
)

// Connection represents an active WebSocket connection.
type Connection struct {
	id            string
	conn          *ws.Conn
	connectedAt   time.Time
	lastMessageAt atomic.Value // time.Time
	messagesSent  atomic.Int64
	messagesRecv  atomic.Int64

	ctx    context.Context
	cancel context.CancelFunc
	sendMu sync.RWMutex // Coordinates Send with Close to prevent TOCTOU races
	closed atomic.Bool
}

// NewConnection creates a new Connection wrapping a websocket.Conn.
func NewConnection(wsConn *ws.Conn) *Connection {
	ctx, cancel := context.WithCancel(context.Background())

	c := &Connection{
		id:          id.Short(),
		conn:        wsConn,
		connectedAt: time.Now(),
		ctx:         ctx,
		cancel:      cancel,
	}
	c.lastMessageAt.Store(c.connectedAt)
	return c
}

// ID returns the unique connection ID.
func (c *Connection) ID() string {
	return c.id
}

// ConnectedAt returns the connection establishment time.
func (c *Connection) ConnectedAt() time.Time {
	return c.connectedAt
}

// LastMessageAt returns the last message time.
func (c *Connection) LastMessageAt() time.Time {
	v := c.lastMessageAt.Load()
	if t, ok := v.(time.Time); ok {
		return t
	}
	return c.connectedAt
}

// MessagesSent returns the total messages sent.
func (c *Connection) MessagesSent() int64 {
	return c.messagesSent.Load()
}

// MessagesReceived returns the total messages received.
func (c *Connection) MessagesReceived() int64 {
	return c.messagesRecv.Load()
}

// SendText sends a text message.
func (c *Connection) SendText(text string) error {
	c.sendMu.RLock()
	defer c.sendMu.RUnlock()

	if c.closed.Load() {
		return ErrConnectionClosed
	}

	if err := c.conn.Write(c.ctx, ws.MessageText, []byte(text)); err != nil {
		return err
	}

	c.messagesSent.Add(1)
	c.lastMessageAt.Store(time.Now())
	return nil
}

// SendJSON sends a JSON-encoded message.
func (c *Connection) SendJSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.SendText(string(data))
}

// Read reads the next text message from the connection.
// Close() cancels the context, which unblocks a pending Read.
func (c *Connection) Read() ([]byte, error) {
	if c.closed.Load() {
		return nil, ErrConnectionClosed
	}

	_, data, err := c.conn.Read(c.ctx)
	if err != nil {
		return nil, err
	}

	c.messagesRecv.Add(1)
	c.lastMessageAt.Store(time.Now())
	return data, nil
}

// Close closes the connection with the given status.
func (c *Connection) Close(code ws.StatusCode, reason string) error {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if c.closed.Swap(true) {
		return ErrConnectionClosed
	}

	c.cancel()
	return c.conn.Close(code, reason)
}

// CloseNormal closes the connection with normal closure.
func (c *Connection) CloseNormal() error {
	return c.Close(ws.StatusNormalClosure, "")
}
