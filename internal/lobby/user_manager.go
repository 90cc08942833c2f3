package lobby

import (
	"fmt"
	"sync"
)

// UserManager is the registry mapping a session id to its User. Entries
// churn with connections: a user is added when the transport reports a
// completed login and removed when the session is torn down.
// All methods are safe for concurrent use.
type UserManager struct {
	mu        sync.RWMutex
	bySession map[int32]*User
	byUserID  map[string]*User
}

// NewUserManager creates an empty UserManager.
func NewUserManager() *UserManager {
	return &UserManager{
		bySession: make(map[int32]*User),
		byUserID:  make(map[string]*User),
	}
}

// AddUser registers a logged-in user for the given session.
//
// Precondition: userID must be non-empty.
// Postcondition: Returns the created User, or an error if the session or the
// user id is already registered.
func (m *UserManager) AddUser(sessionID int32, userID string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.bySession[sessionID]; exists {
		return nil, fmt.Errorf("session %d already has a user", sessionID)
	}
	if _, exists := m.byUserID[userID]; exists {
		return nil, fmt.Errorf("user %q already logged in", userID)
	}

	user := NewUser(sessionID, userID)
	m.bySession[sessionID] = user
	m.byUserID[userID] = user
	return user, nil
}

// RemoveUser removes the user bound to the given session.
//
// Postcondition: Returns an error if the session has no user.
func (m *UserManager) RemoveUser(sessionID int32) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, exists := m.bySession[sessionID]
	if !exists {
		return fmt.Errorf("session %d has no user", sessionID)
	}

	delete(m.bySession, sessionID)
	delete(m.byUserID, user.userID)
	return nil
}

// GetUser returns the user bound to the given session. Absence is a normal,
// expected outcome the caller must handle, not a fault.
func (m *UserManager) GetUser(sessionID int32) (*User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.bySession[sessionID]
	return user, ok
}

// GetUserByID returns the user with the given public identity.
func (m *UserManager) GetUserByID(userID string) (*User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.byUserID[userID]
	return user, ok
}

// Count returns the number of registered users.
func (m *UserManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.bySession)
}
