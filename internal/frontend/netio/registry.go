// Package netio provides the session registry shared by the server's
// transport frontends: it allocates session ids, maps them to framed packet
// connections, and exposes the fire-and-forget send primitive the lobby
// subsystem depends on.
package netio

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/cory-johannsen/chatserver/internal/protocol"
)

// PacketConn is a connection that can carry one framed packet per write.
// Both the TCP and the WebSocket frontends implement it.
type PacketConn interface {
	WritePacket(id protocol.PacketID, payload []byte) error
}

// Handler consumes inbound traffic from the frontends. The dispatcher
// implements it.
type Handler interface {
	// HandlePacket queues one inbound request for in-order processing.
	HandlePacket(sessionID int32, id protocol.PacketID, payload []byte) error
	// SessionClosed queues the session's teardown behind its pending requests.
	SessionClosed(sessionID int32) error
}

// Registry tracks live connections keyed by session id. All methods are safe
// for concurrent use.
type Registry struct {
	logger *zap.Logger

	mu     sync.RWMutex
	conns  map[int32]PacketConn
	nextID int32
}

// NewRegistry creates an empty Registry.
//
// Precondition: logger must be non-nil.
func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		logger: logger,
		conns:  make(map[int32]PacketConn),
	}
}

// Register adds a connection and allocates its session id, stable for the
// connection's lifetime.
func (r *Registry) Register(conn PacketConn) int32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	id := r.nextID
	r.conns[id] = conn
	return id
}

// Unregister removes the connection for the given session id. Unknown ids
// are ignored; teardown may race with send failures.
func (r *Registry) Unregister(sessionID int32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conns, sessionID)
}

// SendData writes one packet to the given session. It implements the
// transport send primitive: fire-and-forget, no delivery confirmation.
//
// Postcondition: Returns an error if the session has no live connection or
// the write failed; the caller logs and moves on.
func (r *Registry) SendData(sessionID int32, id protocol.PacketID, payload []byte) error {
	r.mu.RLock()
	conn, ok := r.conns[sessionID]
	r.mu.RUnlock()

	if !ok {
		return fmt.Errorf("session %d has no connection", sessionID)
	}
	return conn.WritePacket(id, payload)
}

// Count returns the number of live connections.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
