// Package tcpserv accepts raw TCP client connections carrying the binary
// packet protocol and feeds them into the dispatcher.
package tcpserv

import (
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/cory-johannsen/chatserver/internal/protocol"
)

// Conn wraps a TCP connection with packet framing. Reads happen from the
// connection's single reader goroutine; writes are serialized by a mutex
// because responses and notifications come from different workers.
type Conn struct {
	raw net.Conn

	writeMu      sync.Mutex
	readTimeout  time.Duration
	writeTimeout time.Duration
}

// NewConn wraps a raw TCP connection with packet framing.
//
// Precondition: raw must be a valid, open network connection.
func NewConn(raw net.Conn, readTimeout, writeTimeout time.Duration) *Conn {
	return &Conn{
		raw:          raw,
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
	}
}

// ReadPacket reads one complete frame and returns its packet id and payload.
//
// Postcondition: Returns the next packet, or an error (including io.EOF on a
// clean close).
func (c *Conn) ReadPacket() (protocol.PacketID, []byte, error) {
	if c.readTimeout > 0 {
		_ = c.raw.SetReadDeadline(time.Now().Add(c.readTimeout))
	}

	header := make([]byte, protocol.HeaderSize)
	if _, err := io.ReadFull(c.raw, header); err != nil {
		return 0, nil, err
	}

	total, id, err := protocol.DecodeHeader(header)
	if err != nil {
		return 0, nil, fmt.Errorf("reading packet header: %w", err)
	}

	payload := make([]byte, total-protocol.HeaderSize)
	if _, err := io.ReadFull(c.raw, payload); err != nil {
		return 0, nil, fmt.Errorf("reading packet %s payload: %w", id, err)
	}
	return id, payload, nil
}

// WritePacket frames and writes one packet.
//
// Postcondition: The complete frame is written, or an error is returned.
func (c *Conn) WritePacket(id protocol.PacketID, payload []byte) error {
	frame, err := protocol.EncodeFrame(id, payload)
	if err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if c.writeTimeout > 0 {
		_ = c.raw.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	}
	_, err = c.raw.Write(frame)
	return err
}

// Close closes the underlying TCP connection.
func (c *Conn) Close() error {
	return c.raw.Close()
}

// RemoteAddr returns the remote network address of the client.
func (c *Conn) RemoteAddr() net.Addr {
	return c.raw.RemoteAddr()
}
