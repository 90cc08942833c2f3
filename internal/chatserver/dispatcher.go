package chatserver

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/cory-johannsen/chatserver/internal/protocol"
)

// event is one unit of inbound work: either a request packet or a session
// teardown marker.
type event struct {
	sessionID int32
	packetID  protocol.PacketID
	payload   []byte
	closed    bool
}

// Dispatcher routes inbound packets to worker goroutines. Work is sharded by
// session id, so requests from different sessions run concurrently while a
// single session's requests (including its teardown) are processed strictly
// in arrival order.
type Dispatcher struct {
	process *PacketProcess
	logger  *zap.Logger

	queues []chan event
	wg     sync.WaitGroup

	mu      sync.RWMutex
	running bool
}

// NewDispatcher creates a Dispatcher with the given worker count and
// per-worker queue depth.
//
// Precondition: process and logger must be non-nil; workers and queueDepth
// must be >= 1.
func NewDispatcher(process *PacketProcess, workers, queueDepth int, logger *zap.Logger) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	if queueDepth < 1 {
		queueDepth = 1
	}

	queues := make([]chan event, workers)
	for i := range queues {
		queues[i] = make(chan event, queueDepth)
	}

	return &Dispatcher{
		process: process,
		logger:  logger,
		queues:  queues,
	}
}

// Start launches the worker goroutines.
//
// Precondition: The dispatcher must not already be running.
func (d *Dispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running {
		return
	}
	d.running = true

	for i, q := range d.queues {
		d.wg.Add(1)
		go d.worker(i, q)
	}

	d.logger.Info("dispatcher started",
		zap.Int("workers", len(d.queues)),
		zap.Int("queue_depth", cap(d.queues[0])),
	)
}

// Stop closes the work queues and waits for in-flight requests to drain.
//
// Postcondition: All workers have exited; further HandlePacket calls fail.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	d.running = false
	d.mu.Unlock()

	for _, q := range d.queues {
		close(q)
	}
	d.wg.Wait()
	d.logger.Info("dispatcher stopped")
}

// HandlePacket enqueues an inbound request. The call blocks when the
// session's shard queue is full, which backpressures the reading connection.
//
// Postcondition: The packet is queued for in-order processing, or an error
// is returned if the dispatcher is not running.
func (d *Dispatcher) HandlePacket(sessionID int32, id protocol.PacketID, payload []byte) error {
	return d.enqueue(event{sessionID: sessionID, packetID: id, payload: payload})
}

// SessionClosed enqueues a teardown marker for the session, ordered behind
// any of its pending requests.
func (d *Dispatcher) SessionClosed(sessionID int32) error {
	return d.enqueue(event{sessionID: sessionID, closed: true})
}

// enqueue sends the event to its shard queue while holding the read lock.
// Stop flips running under the write lock before closing the queues, so a
// send in flight always completes before any queue is closed.
func (d *Dispatcher) enqueue(ev event) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if !d.running {
		return fmt.Errorf("dispatcher not running")
	}
	d.queues[d.shard(ev.sessionID)] <- ev
	return nil
}

// shard maps a session id to its worker queue.
func (d *Dispatcher) shard(sessionID int32) int {
	n := int32(len(d.queues))
	idx := sessionID % n
	if idx < 0 {
		idx += n
	}
	return int(idx)
}

func (d *Dispatcher) worker(id int, queue <-chan event) {
	defer d.wg.Done()

	for ev := range queue {
		if ev.closed {
			d.process.SessionClosed(ev.sessionID)
			continue
		}
		d.dispatch(ev)
	}

	d.logger.Debug("dispatch worker exited", zap.Int("worker", id))
}

// dispatch decodes the request payload and invokes the matching handler.
// A malformed payload is logged and dropped: framing validity is the
// transport's job, and there is no decoded request to answer.
func (d *Dispatcher) dispatch(ev event) {
	var code protocol.ErrorCode

	switch ev.packetID {
	case protocol.IDLoginReq:
		var req protocol.LoginReq
		if err := req.Unmarshal(ev.payload); err != nil {
			d.logMalformed(ev, err)
			return
		}
		code = d.process.Login(ev.sessionID, &req)

	case protocol.IDLobbyEnterReq:
		var req protocol.LobbyEnterReq
		if err := req.Unmarshal(ev.payload); err != nil {
			d.logMalformed(ev, err)
			return
		}
		code = d.process.LobbyEnter(ev.sessionID, &req)

	case protocol.IDLobbyLeaveReq:
		var req protocol.LobbyLeaveReq
		if err := req.Unmarshal(ev.payload); err != nil {
			d.logMalformed(ev, err)
			return
		}
		code = d.process.LobbyLeave(ev.sessionID, &req)

	case protocol.IDLobbyRoomListReq:
		var req protocol.LobbyRoomListReq
		if err := req.Unmarshal(ev.payload); err != nil {
			d.logMalformed(ev, err)
			return
		}
		code = d.process.LobbyRoomList(ev.sessionID, &req)

	case protocol.IDLobbyUserListReq:
		var req protocol.LobbyUserListReq
		if err := req.Unmarshal(ev.payload); err != nil {
			d.logMalformed(ev, err)
			return
		}
		code = d.process.LobbyUserList(ev.sessionID, &req)

	default:
		d.logger.Warn("unknown request packet",
			zap.Stringer("packet", ev.packetID),
			zap.Int32("session_id", ev.sessionID),
		)
		return
	}

	if !code.IsOK() {
		d.logger.Debug("request rejected",
			zap.Stringer("packet", ev.packetID),
			zap.Int32("session_id", ev.sessionID),
			zap.Stringer("error_code", code),
		)
	}
}

func (d *Dispatcher) logMalformed(ev event, err error) {
	d.logger.Warn("malformed request payload",
		zap.Stringer("packet", ev.packetID),
		zap.Int32("session_id", ev.sessionID),
		zap.Error(err),
	)
}
