package tcpserv

import (
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/chatserver/internal/config"
	"github.com/cory-johannsen/chatserver/internal/frontend/netio"
)

// Acceptor listens for TCP client connections and pumps their packets into
// the dispatcher until the connection closes.
type Acceptor struct {
	cfg      config.TCPConfig
	registry *netio.Registry
	handler  netio.Handler
	logger   *zap.Logger

	listener net.Listener
	wg       sync.WaitGroup
	quit     chan struct{}
	mu       sync.Mutex
	running  bool

	connMu sync.Mutex
	conns  map[*Conn]struct{}
}

// NewAcceptor creates a TCP acceptor with the given configuration.
//
// Precondition: cfg must have a valid port; registry, handler, and logger
// must be non-nil.
func NewAcceptor(cfg config.TCPConfig, registry *netio.Registry, handler netio.Handler, logger *zap.Logger) *Acceptor {
	return &Acceptor{
		cfg:      cfg,
		registry: registry,
		handler:  handler,
		logger:   logger,
		quit:     make(chan struct{}),
		conns:    make(map[*Conn]struct{}),
	}
}

// ListenAndServe starts the TCP listener and accepts connections until Stop
// is called. This method blocks until the acceptor is stopped.
//
// Postcondition: The listener is closed when this method returns.
func (a *Acceptor) ListenAndServe() error {
	start := time.Now()

	listener, err := net.Listen("tcp", a.cfg.Addr())
	if err != nil {
		return fmt.Errorf("listening on %s: %w", a.cfg.Addr(), err)
	}

	a.mu.Lock()
	a.listener = listener
	a.running = true
	a.mu.Unlock()

	a.logger.Info("tcp acceptor listening",
		zap.String("addr", listener.Addr().String()),
		zap.Duration("startup", time.Since(start)),
	)

	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-a.quit:
				return nil
			default:
				a.logger.Error("accepting connection", zap.Error(err))
				continue
			}
		}

		a.wg.Add(1)
		go a.handleConn(conn)
	}
}

// handleConn runs the read loop for a single client connection. When the
// loop ends, for any reason, the session is unregistered and its teardown is
// queued behind any requests already read.
func (a *Acceptor) handleConn(raw net.Conn) {
	defer a.wg.Done()
	start := time.Now()

	conn := NewConn(raw, a.cfg.ReadTimeout, a.cfg.WriteTimeout)
	defer conn.Close()
	a.trackConn(conn)
	defer a.untrackConn(conn)

	sessionID := a.registry.Register(conn)
	connID := uuid.NewString()
	log := a.logger.With(
		zap.Int32("session_id", sessionID),
		zap.String("conn_id", connID),
		zap.String("remote_addr", raw.RemoteAddr().String()),
	)
	log.Info("client connected")

	err := a.readLoop(sessionID, conn)

	a.registry.Unregister(sessionID)
	if qerr := a.handler.SessionClosed(sessionID); qerr != nil {
		log.Warn("queuing session teardown failed", zap.Error(qerr))
	}

	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
		log.Warn("session ended",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)),
		)
		return
	}
	log.Info("session ended cleanly",
		zap.Duration("duration", time.Since(start)),
	)
}

func (a *Acceptor) readLoop(sessionID int32, conn *Conn) error {
	for {
		select {
		case <-a.quit:
			return nil
		default:
		}

		id, payload, err := conn.ReadPacket()
		if err != nil {
			return err
		}
		if err := a.handler.HandlePacket(sessionID, id, payload); err != nil {
			return fmt.Errorf("queuing packet %s: %w", id, err)
		}
	}
}

// trackConn records a live connection so Stop can close it. A connection
// accepted while Stop is in flight is closed here instead of lingering.
func (a *Acceptor) trackConn(conn *Conn) {
	a.connMu.Lock()
	a.conns[conn] = struct{}{}
	a.connMu.Unlock()

	select {
	case <-a.quit:
		conn.Close()
	default:
	}
}

func (a *Acceptor) untrackConn(conn *Conn) {
	a.connMu.Lock()
	delete(a.conns, conn)
	a.connMu.Unlock()
}

// Stop gracefully stops the acceptor: it closes the listener and every live
// client connection, then waits for all connection goroutines to finish.
// Closing the connections is what unblocks read loops parked in ReadPacket.
func (a *Acceptor) Stop() {
	a.mu.Lock()
	if !a.running {
		a.mu.Unlock()
		return
	}
	a.running = false

	close(a.quit)
	if a.listener != nil {
		a.listener.Close()
	}
	a.mu.Unlock()

	a.connMu.Lock()
	for conn := range a.conns {
		conn.Close()
	}
	a.connMu.Unlock()

	a.wg.Wait()

	a.logger.Info("tcp acceptor stopped")
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
