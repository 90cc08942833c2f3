package ws

import (
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/cory-johannsen/chatserver/internal/protocol"
)

// wsConn adapts a WebSocket connection to the framed packet model: each
// binary message carries exactly one frame. Writes are serialized by a
// mutex; gorilla/websocket permits only one concurrent writer.
type wsConn struct {
	raw *websocket.Conn

	writeMu      sync.Mutex
	writeTimeout time.Duration
}

func newWSConn(raw *websocket.Conn, writeTimeout time.Duration) *wsConn {
	return &wsConn{
		raw:          raw,
		writeTimeout: writeTimeout,
	}
}

// ReadPacket reads the next binary message and decodes its frame. A
// non-binary message yields (0, nil, nil) and is skipped by the caller.
func (c *wsConn) ReadPacket() (protocol.PacketID, []byte, error) {
	mt, data, err := c.raw.ReadMessage()
	if err != nil {
		return 0, nil, err
	}
	if mt != websocket.BinaryMessage {
		return 0, nil, nil
	}

	total, id, err := protocol.DecodeHeader(data)
	if err != nil {
		return 0, nil, err
	}
	if total != len(data) {
		return 0, nil, fmt.Errorf("packet %s declares %d bytes but message has %d", id, total, len(data))
	}
	return id, data[protocol.HeaderSize:], nil
}

// WritePacket frames and writes one packet as a single binary message.
func (c *wsConn) WritePacket(id protocol.PacketID, payload []byte) error {
	frame, err := protocol.EncodeFrame(id, payload)
	if err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if c.writeTimeout > 0 {
		_ = c.raw.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	}
	return c.raw.WriteMessage(websocket.BinaryMessage, frame)
}

// Close closes the underlying WebSocket connection.
func (c *wsConn) Close() error {
	return c.raw.Close()
}
