// Package lobby provides the user and lobby registries at the heart of the
// chat server: per-session user state, capacity-bounded lobby membership,
// notification fan-out, and paged room/member listings.
package lobby

import (
	"sync"

	"github.com/cory-johannsen/chatserver/internal/protocol"
)

// Domain is a user's current logical phase. It gates which requests are
// valid for the session.
type Domain int8

const (
	// DomainDisconnected means the session has no live connection state.
	DomainDisconnected Domain = iota
	// DomainLoggedIn means the user is authenticated but not in a lobby.
	DomainLoggedIn
	// DomainInLobby means the user is a member of a lobby.
	DomainInLobby
	// DomainInRoom means the user has entered a room within a lobby.
	DomainInRoom
)

// String returns the domain's symbolic name for logging.
func (d Domain) String() string {
	switch d {
	case DomainDisconnected:
		return "Disconnected"
	case DomainLoggedIn:
		return "LoggedIn"
	case DomainInLobby:
		return "InLobby"
	case DomainInRoom:
		return "InRoom"
	default:
		return "Unknown"
	}
}

// User is the per-connection state: identity, current domain, and (when in a
// lobby) which lobby it belongs to. Users are owned exclusively by the
// UserManager; lobbies hold non-owning references to their current members.
type User struct {
	sessionID int32
	userID    string

	mu        sync.RWMutex
	domain    Domain
	lobbyID   int16
	userIndex uint16
}

// NewUser creates a logged-in user bound to the given session.
//
// Precondition: userID must be non-empty.
func NewUser(sessionID int32, userID string) *User {
	return &User{
		sessionID: sessionID,
		userID:    userID,
		domain:    DomainLoggedIn,
	}
}

// SessionID returns the transport-assigned session identifier.
func (u *User) SessionID() int32 { return u.sessionID }

// UserID returns the user's public identity.
func (u *User) UserID() string { return u.userID }

// Domain returns the user's current logical phase.
func (u *User) Domain() Domain {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.domain
}

// IsLoggedIn reports whether the user is authenticated and outside any lobby.
func (u *User) IsLoggedIn() bool {
	return u.Domain() == DomainLoggedIn
}

// IsInLobby reports whether the user is currently a lobby member.
func (u *User) IsInLobby() bool {
	return u.Domain() == DomainInLobby
}

// LobbyID returns the id of the lobby the user belongs to. Only meaningful
// when the domain is InLobby or InRoom.
func (u *User) LobbyID() int16 {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.lobbyID
}

// UserIndex returns the user's stable index within its lobby's member table.
// Undefined when the user is not in a lobby.
func (u *User) UserIndex() uint16 {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.userIndex
}

// Summary returns the user's public description for listings and
// notifications.
func (u *User) Summary() protocol.UserSummary {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return protocol.UserSummary{UserIndex: u.userIndex, UserID: u.userID}
}

// enterLobby records a successful lobby admission. Called with the lobby
// lock held.
func (u *User) enterLobby(lobbyID int16, userIndex uint16) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.domain = DomainInLobby
	u.lobbyID = lobbyID
	u.userIndex = userIndex
}

// leaveLobby reverts the user to the logged-in domain. Called with the lobby
// lock held. userIndex is left as-is: it is undefined outside a lobby, and
// the departure notification still describes the vacated slot.
func (u *User) leaveLobby() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.domain = DomainLoggedIn
	u.lobbyID = 0
}
