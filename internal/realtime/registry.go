// Package realtime holds the per-process registry of live WebSocket
// connections used to push notifications to clients the moment they are
// created. Registry state is in-memory only: it is lost on restart and
// clients re-sync through the notifications API after reconnecting.
package realtime

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Event is the tagged frame transmitted over a live connection.
type Event struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// writeWait bounds how long a push may block on a slow client.
const writeWait = 5 * time.Second

// messageWriter is the slice of *websocket.Conn the registry needs.
// Tests substitute an in-memory fake.
type messageWriter interface {
	WriteJSON(v interface{}) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Connection is one registered live connection. The write lock serializes
// pushes with the handshake frame written by the WebSocket handler.
type Connection struct {
	id uint64
	mu sync.Mutex
	w  messageWriter
}

func (c *Connection) send(e Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.w.SetWriteDeadline(time.Now().Add(writeWait))
	return c.w.WriteJSON(e)
}

// Registry tracks at most one live connection per user. It is constructed
// once per server process and injected into whatever needs to push.
type Registry struct {
	mu     sync.Mutex
	nextID uint64
	conns  map[uint]*Connection
	log    *zap.Logger
}

// NewRegistry creates an empty connection registry.
func NewRegistry(log *zap.Logger) *Registry {
	return &Registry{
		conns: make(map[uint]*Connection),
		log:   log,
	}
}

// Register maps userID to w, silently replacing any prior registration for
// that user. The replaced connection is not closed; it just stops receiving
// pushes. The returned Connection identifies this registration for Unregister.
func (r *Registry) Register(userID uint, w messageWriter) *Connection {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	c := &Connection{id: r.nextID, w: w}
	r.conns[userID] = c
	return c
}

// Unregister removes the mapping for userID only if c is still the currently
// registered connection, so a delayed close event from a replaced connection
// cannot clobber a newer registration.
func (r *Registry) Unregister(userID uint, c *Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.conns[userID]; ok && cur.id == c.id {
		delete(r.conns, userID)
	}
}

// UnregisterAll unconditionally drops any registration for userID.
func (r *Registry) UnregisterAll(userID uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conns, userID)
}

// Connected reports whether userID currently has a live connection.
func (r *Registry) Connected(userID uint) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.conns[userID]
	return ok
}

// Push transmits e to userID's live connection. Fire-and-forget: when the
// user has no connection the call is a silent no-op, and a failed write is
// reported to the caller but never retried or queued.
func (r *Registry) Push(userID uint, e Event) error {
	r.mu.Lock()
	c, ok := r.conns[userID]
	r.mu.Unlock()
	if !ok {
		return nil
	}
	return c.send(e)
}

// Close tears the registry down on server shutdown, closing every live
// connection.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for userID, c := range r.conns {
		if err := c.w.Close(); err != nil {
			r.log.Debug("closing live connection", zap.Uint("user_id", userID), zap.Error(err))
		}
		delete(r.conns, userID)
	}
}
