// Package ws accepts WebSocket client connections carrying the binary packet
// protocol, one complete frame per binary message.
package ws

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/cory-johannsen/chatserver/internal/config"
	"github.com/cory-johannsen/chatserver/internal/frontend/netio"
	"github.com/cory-johannsen/chatserver/internal/protocol"
)

// Acceptor serves the WebSocket endpoint and pumps client frames into the
// dispatcher. Sessions registered here share the same registry, id space,
// and lobby state as TCP sessions.
type Acceptor struct {
	cfg      config.WebsocketConfig
	registry *netio.Registry
	handler  netio.Handler
	logger   *zap.Logger

	upgrader websocket.Upgrader
	server   *http.Server
	listener net.Listener
	wg       sync.WaitGroup
	quit     chan struct{}
	mu       sync.Mutex
	running  bool

	connMu sync.Mutex
	conns  map[*wsConn]struct{}
}

// NewAcceptor creates a WebSocket acceptor with the given configuration.
//
// Precondition: cfg must have a valid port and path; registry, handler, and
// logger must be non-nil.
func NewAcceptor(cfg config.WebsocketConfig, registry *netio.Registry, handler netio.Handler, logger *zap.Logger) *Acceptor {
	return &Acceptor{
		cfg:      cfg,
		registry: registry,
		handler:  handler,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  protocol.MaxPacketSize,
			WriteBufferSize: protocol.MaxPacketSize,
		},
		quit:  make(chan struct{}),
		conns: make(map[*wsConn]struct{}),
	}
}

// ListenAndServe starts the HTTP server hosting the WebSocket endpoint.
// This method blocks until Stop is called.
func (a *Acceptor) ListenAndServe() error {
	mux := http.NewServeMux()
	mux.HandleFunc(a.cfg.Path, a.serveWS)

	listener, err := net.Listen("tcp", a.cfg.Addr())
	if err != nil {
		return fmt.Errorf("listening on %s: %w", a.cfg.Addr(), err)
	}

	a.mu.Lock()
	a.server = &http.Server{Handler: mux}
	a.listener = listener
	a.running = true
	server := a.server
	a.mu.Unlock()

	a.logger.Info("websocket acceptor listening",
		zap.String("addr", listener.Addr().String()),
		zap.String("path", a.cfg.Path),
	)

	if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving websocket on %s: %w", a.cfg.Addr(), err)
	}
	return nil
}

// serveWS upgrades one HTTP request and runs its read loop.
func (a *Acceptor) serveWS(w http.ResponseWriter, r *http.Request) {
	raw, err := a.upgrader.Upgrade(w, r, nil)
	if err != nil {
		a.logger.Warn("websocket upgrade failed",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err),
		)
		return
	}

	a.wg.Add(1)
	defer a.wg.Done()

	start := time.Now()
	conn := newWSConn(raw, a.cfg.WriteTimeout)
	defer conn.Close()
	a.trackConn(conn)
	defer a.untrackConn(conn)

	sessionID := a.registry.Register(conn)
	log := a.logger.With(
		zap.Int32("session_id", sessionID),
		zap.String("conn_id", uuid.NewString()),
		zap.String("remote_addr", r.RemoteAddr),
	)
	log.Info("websocket client connected")

	readErr := a.readLoop(sessionID, conn, log)

	a.registry.Unregister(sessionID)
	if err := a.handler.SessionClosed(sessionID); err != nil {
		log.Warn("queuing session teardown failed", zap.Error(err))
	}

	if readErr != nil && !websocket.IsCloseError(readErr, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		log.Warn("websocket session ended",
			zap.Error(readErr),
			zap.Duration("duration", time.Since(start)),
		)
		return
	}
	log.Info("websocket session ended cleanly",
		zap.Duration("duration", time.Since(start)),
	)
}

func (a *Acceptor) readLoop(sessionID int32, conn *wsConn, log *zap.Logger) error {
	for {
		id, payload, err := conn.ReadPacket()
		if err != nil {
			return err
		}
		if id == 0 {
			// non-binary or empty message, skip
			continue
		}
		if err := a.handler.HandlePacket(sessionID, id, payload); err != nil {
			return fmt.Errorf("queuing packet %s: %w", id, err)
		}
	}
}

// trackConn records a live WebSocket connection so Stop can close it. An
// upgrade that completes while Stop is in flight is closed here.
func (a *Acceptor) trackConn(conn *wsConn) {
	a.connMu.Lock()
	a.conns[conn] = struct{}{}
	a.connMu.Unlock()

	select {
	case <-a.quit:
		conn.Close()
	default:
	}
}

func (a *Acceptor) untrackConn(conn *wsConn) {
	a.connMu.Lock()
	delete(a.conns, conn)
	a.connMu.Unlock()
}

// Stop shuts the HTTP server down, closes every live WebSocket connection,
// and waits for session goroutines to exit. http.Server.Close does not reach
// hijacked connections, so the tracked set is what unblocks their read loops.
func (a *Acceptor) Stop() {
	a.mu.Lock()
	if !a.running {
		a.mu.Unlock()
		return
	}
	a.running = false

	close(a.quit)
	if a.server != nil {
		_ = a.server.Close()
	}
	a.mu.Unlock()

	a.connMu.Lock()
	for conn := range a.conns {
		conn.Close()
	}
	a.connMu.Unlock()

	a.wg.Wait()

	a.logger.Info("websocket acceptor stopped")
}

// Addr returns the actual listening address, or empty string if not yet
// listening.
func (a *Acceptor) Addr() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.listener != nil {
		return a.listener.Addr().String()
	}
	return ""
}
