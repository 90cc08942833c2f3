package netio

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/chatserver/internal/protocol"
)

type recordingConn struct {
	mu      sync.Mutex
	packets []protocol.PacketID
	failing bool
}

func (c *recordingConn) WritePacket(id protocol.PacketID, payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failing {
		return fmt.Errorf("connection reset")
	}
	c.packets = append(c.packets, id)
	return nil
}

func TestRegistry_RegisterAllocatesDistinctIDs(t *testing.T) {
	r := NewRegistry(zaptest.NewLogger(t))

	id1 := r.Register(&recordingConn{})
	id2 := r.Register(&recordingConn{})

	assert.NotEqual(t, id1, id2)
	assert.Equal(t, 2, r.Count())
}

func TestRegistry_SendData(t *testing.T) {
	r := NewRegistry(zaptest.NewLogger(t))
	conn := &recordingConn{}
	id := r.Register(conn)

	require.NoError(t, r.SendData(id, protocol.IDLoginRes, nil))
	assert.Equal(t, []protocol.PacketID{protocol.IDLoginRes}, conn.packets)
}

func TestRegistry_SendData_UnknownSession(t *testing.T) {
	r := NewRegistry(zaptest.NewLogger(t))
	err := r.SendData(42, protocol.IDLoginRes, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no connection")
}

func TestRegistry_SendData_WriteFailurePropagates(t *testing.T) {
	r := NewRegistry(zaptest.NewLogger(t))
	id := r.Register(&recordingConn{failing: true})
	assert.Error(t, r.SendData(id, protocol.IDLoginRes, nil))
}

func TestRegistry_Unregister(t *testing.T) {
	r := NewRegistry(zaptest.NewLogger(t))
	conn := &recordingConn{}
	id := r.Register(conn)

	r.Unregister(id)
	assert.Equal(t, 0, r.Count())
	assert.Error(t, r.SendData(id, protocol.IDLoginRes, nil))

	// unknown ids are ignored
	r.Unregister(999)
}

func TestRegistry_ConcurrentUse(t *testing.T) {
	r := NewRegistry(zaptest.NewLogger(t))
	const n = 50

	var wg sync.WaitGroup
	ids := make([]int32, n)
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			ids[i] = r.Register(&recordingConn{})
		}(i)
	}
	wg.Wait()
	assert.Equal(t, n, r.Count())

	seen := make(map[int32]bool)
	for _, id := range ids {
		assert.False(t, seen[id], "session id %d allocated twice", id)
		seen[id] = true
	}

	wg.Add(n)
	for _, id := range ids {
		go func(id int32) {
			defer wg.Done()
			r.Unregister(id)
		}(id)
	}
	wg.Wait()
	assert.Equal(t, 0, r.Count())
}
