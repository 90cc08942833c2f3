package lobby

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserManager_AddUser(t *testing.T) {
	m := NewUserManager()

	user, err := m.AddUser(1, "alice")
	require.NoError(t, err)
	assert.Equal(t, int32(1), user.SessionID())
	assert.Equal(t, "alice", user.UserID())
	assert.Equal(t, DomainLoggedIn, user.Domain())
	assert.Equal(t, 1, m.Count())
}

func TestUserManager_AddUser_DuplicateSession(t *testing.T) {
	m := NewUserManager()
	_, err := m.AddUser(1, "alice")
	require.NoError(t, err)

	_, err = m.AddUser(1, "bob")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already has a user")
}

func TestUserManager_AddUser_DuplicateUserID(t *testing.T) {
	m := NewUserManager()
	_, err := m.AddUser(1, "alice")
	require.NoError(t, err)

	_, err = m.AddUser(2, "alice")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already logged in")
}

func TestUserManager_GetUser(t *testing.T) {
	m := NewUserManager()
	_, err := m.AddUser(1, "alice")
	require.NoError(t, err)

	user, ok := m.GetUser(1)
	require.True(t, ok)
	assert.Equal(t, "alice", user.UserID())

	_, ok = m.GetUser(99)
	assert.False(t, ok)
}

func TestUserManager_GetUserByID(t *testing.T) {
	m := NewUserManager()
	_, err := m.AddUser(1, "alice")
	require.NoError(t, err)

	user, ok := m.GetUserByID("alice")
	require.True(t, ok)
	assert.Equal(t, int32(1), user.SessionID())

	_, ok = m.GetUserByID("nobody")
	assert.False(t, ok)
}

func TestUserManager_RemoveUser(t *testing.T) {
	m := NewUserManager()
	_, err := m.AddUser(1, "alice")
	require.NoError(t, err)

	require.NoError(t, m.RemoveUser(1))
	assert.Equal(t, 0, m.Count())

	_, ok := m.GetUserByID("alice")
	assert.False(t, ok, "removing a user frees its user id")
}

func TestUserManager_RemoveUser_NotFound(t *testing.T) {
	m := NewUserManager()
	assert.Error(t, m.RemoveUser(42))
}

func TestUserManager_ConcurrentAddRemove(t *testing.T) {
	m := NewUserManager()
	const n = 100

	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			_, _ = m.AddUser(int32(i), fmt.Sprintf("user%d", i))
		}(i)
	}
	wg.Wait()
	assert.Equal(t, n, m.Count())

	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			_ = m.RemoveUser(int32(i))
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 0, m.Count())
}
