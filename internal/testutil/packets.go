// Package testutil provides helpers for integration-style tests.
package testutil

import (
	"io"
	"net"
	"testing"
	"time"

	"github.com/cory-johannsen/chatserver/internal/protocol"
)

// PacketClient is a minimal framed-packet test client for exercising the
// server over a real TCP connection.
type PacketClient struct {
	conn net.Conn
	t    *testing.T
}

// NewPacketClient dials the given address and returns a test client.
//
// Precondition: addr must be a valid "host:port" string with a listening
// server.
// Postcondition: Returns a connected PacketClient or fails the test.
func NewPacketClient(t *testing.T, addr string) *PacketClient {
	t.Helper()

	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		t.Fatalf("connecting to %s: %v", addr, err)
	}

	t.Cleanup(func() {
		conn.Close()
	})

	return &PacketClient{conn: conn, t: t}
}

// Send frames and writes one packet, failing the test on error.
func (c *PacketClient) Send(id protocol.PacketID, payload []byte) {
	c.t.Helper()

	frame, err := protocol.EncodeFrame(id, payload)
	if err != nil {
		c.t.Fatalf("encoding %s: %v", id, err)
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if _, err := c.conn.Write(frame); err != nil {
		c.t.Fatalf("sending %s: %v", id, err)
	}
}

// Recv reads the next packet, failing the test on error or timeout.
func (c *PacketClient) Recv(timeout time.Duration) (protocol.PacketID, []byte) {
	c.t.Helper()
	_ = c.conn.SetReadDeadline(time.Now().Add(timeout))

	header := make([]byte, protocol.HeaderSize)
	if _, err := io.ReadFull(c.conn, header); err != nil {
		c.t.Fatalf("reading packet header: %v", err)
	}
	total, id, err := protocol.DecodeHeader(header)
	if err != nil {
		c.t.Fatalf("decoding packet header: %v", err)
	}

	payload := make([]byte, total-protocol.HeaderSize)
	if _, err := io.ReadFull(c.conn, payload); err != nil {
		c.t.Fatalf("reading %s payload: %v", id, err)
	}
	return id, payload
}

// RecvType reads packets until one with the wanted id arrives, skipping
// anything else (typically notifications), and returns its payload.
func (c *PacketClient) RecvType(want protocol.PacketID, timeout time.Duration) []byte {
	c.t.Helper()
	deadline := time.Now().Add(timeout)

	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			c.t.Fatalf("timed out waiting for %s", want)
		}
		id, payload := c.Recv(remaining)
		if id == want {
			return payload
		}
		c.t.Logf("skipping %s while waiting for %s", id, want)
	}
}

// Close closes the client connection, simulating a client disconnect.
func (c *PacketClient) Close() {
	_ = c.conn.Close()
}
