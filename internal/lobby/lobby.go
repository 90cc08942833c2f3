package lobby

import (
	"sync"

	"go.uber.org/zap"

	"github.com/cory-johannsen/chatserver/internal/protocol"
)

// Sender is the transport send primitive this package depends on. Delivery
// is fire-and-forget; no confirmation flows back into lobby logic.
type Sender interface {
	SendData(sessionID int32, id protocol.PacketID, payload []byte) error
}

// Page sizes for the room and member listings.
const (
	RoomListPageSize = 16
	UserListPageSize = 16
)

// Lobby is a capacity-bounded container of member users plus a static set of
// room summaries. It owns membership mutation and broadcast notification.
// Membership mutation and the user domain transitions it implies are
// serialized by the per-lobby mutex; listing snapshots under the same lock.
type Lobby struct {
	id           int16
	maxUserCount int16
	maxRoomCount int16

	sender Sender
	logger *zap.Logger

	mu        sync.RWMutex
	members   map[uint16]*User
	order     []uint16
	nextIndex uint16
	rooms     []protocol.RoomSummary
}

// NewLobby creates a lobby from its static definition.
//
// Precondition: def must have been validated; sender and logger must be
// non-nil.
func NewLobby(def Definition, sender Sender, logger *zap.Logger) *Lobby {
	rooms := make([]protocol.RoomSummary, 0, len(def.Rooms))
	for _, room := range def.Rooms {
		rooms = append(rooms, protocol.RoomSummary{
			RoomID:       room.ID,
			Title:        room.Title,
			MaxUserCount: room.MaxUsers,
		})
	}

	return &Lobby{
		id:           def.ID,
		maxUserCount: def.MaxUsers,
		maxRoomCount: def.MaxRooms,
		sender:       sender,
		logger:       logger.With(zap.Int16("lobby_id", def.ID)),
		members:      make(map[uint16]*User),
		rooms:        rooms,
	}
}

// ID returns the lobby's immutable identifier.
func (l *Lobby) ID() int16 { return l.id }

// MaxUserCount returns the lobby's configured member capacity.
func (l *Lobby) MaxUserCount() int16 { return l.maxUserCount }

// MaxRoomCount returns the lobby's configured room capacity.
func (l *Lobby) MaxRoomCount() int16 { return l.maxRoomCount }

// MemberCount returns the current number of members.
func (l *Lobby) MemberCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.members)
}

// EnterUser admits a user to the lobby.
//
// Precondition: user must not already be a member of any lobby.
// Postcondition: On success the user's domain is InLobby with lobbyID and
// userIndex set, and membership size has grown by one without exceeding
// MaxUserCount. Returns ErrLobbyEnterFull if the lobby is at capacity.
func (l *Lobby) EnterUser(user *User) protocol.ErrorCode {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.members) >= int(l.maxUserCount) {
		return protocol.ErrLobbyEnterFull
	}

	idx := l.nextIndex
	l.nextIndex++
	l.members[idx] = user
	l.order = append(l.order, idx)
	user.enterLobby(l.id, idx)

	l.logger.Debug("user entered lobby",
		zap.String("user_id", user.UserID()),
		zap.Uint16("user_index", idx),
		zap.Int("member_count", len(l.members)),
	)
	return protocol.ErrNone
}

// LeaveUser removes the member with the given user index.
//
// Postcondition: On success the departed user's domain reverts to LoggedIn
// with its lobby fields cleared. Returns ErrLobbyLeaveNotMember if the index
// is not present.
func (l *Lobby) LeaveUser(userIndex uint16) protocol.ErrorCode {
	l.mu.Lock()
	defer l.mu.Unlock()

	user, ok := l.members[userIndex]
	if !ok {
		return protocol.ErrLobbyLeaveNotMember
	}

	delete(l.members, userIndex)
	for i, idx := range l.order {
		if idx == userIndex {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
	user.leaveLobby()

	l.logger.Debug("user left lobby",
		zap.String("user_id", user.UserID()),
		zap.Uint16("user_index", userIndex),
		zap.Int("member_count", len(l.members)),
	)
	return protocol.ErrNone
}

// NotifyLobbyEnterUserInfo pushes an enter notification describing user to
// every other current member. Delivery failures to individual members are
// logged, never propagated.
func (l *Lobby) NotifyLobbyEnterUserInfo(user *User) {
	ntf := protocol.LobbyEnterNtf{User: user.Summary()}
	l.broadcast(user.SessionID(), protocol.IDLobbyEnterNtf, ntf.Marshal())
}

// NotifyLobbyLeaveUserInfo pushes a leave notification describing user to
// every remaining member.
func (l *Lobby) NotifyLobbyLeaveUserInfo(user *User) {
	ntf := protocol.LobbyLeaveNtf{User: user.Summary()}
	l.broadcast(user.SessionID(), protocol.IDLobbyLeaveNtf, ntf.Marshal())
}

// broadcast fans a packet out to every member except the subject session.
func (l *Lobby) broadcast(excludeSessionID int32, id protocol.PacketID, payload []byte) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, idx := range l.order {
		member := l.members[idx]
		if member.SessionID() == excludeSessionID {
			continue
		}
		if err := l.sender.SendData(member.SessionID(), id, payload); err != nil {
			l.logger.Warn("notification delivery failed",
				zap.Stringer("packet", id),
				zap.Int32("session_id", member.SessionID()),
				zap.Error(err),
			)
		}
	}
}

// SendRoomList sends one page of room summaries, starting at startIndex, to
// the given session only. An out-of-range start yields an empty page, not an
// error.
func (l *Lobby) SendRoomList(sessionID int32, startIndex int16) {
	l.mu.RLock()
	res := protocol.LobbyRoomListRes{Rooms: pageOf(l.rooms, int(startIndex), RoomListPageSize)}
	l.mu.RUnlock()

	if err := l.sender.SendData(sessionID, protocol.IDLobbyRoomListRes, res.Marshal()); err != nil {
		l.logger.Warn("room list delivery failed",
			zap.Int32("session_id", sessionID),
			zap.Error(err),
		)
	}
}

// SendUserList sends one page of member summaries, in stable admission
// order, to the given session only.
func (l *Lobby) SendUserList(sessionID int32, startIndex int16) {
	l.mu.RLock()
	summaries := make([]protocol.UserSummary, 0, len(l.order))
	for _, idx := range l.order {
		summaries = append(summaries, l.members[idx].Summary())
	}
	l.mu.RUnlock()

	res := protocol.LobbyUserListRes{Users: pageOf(summaries, int(startIndex), UserListPageSize)}
	if err := l.sender.SendData(sessionID, protocol.IDLobbyUserListRes, res.Marshal()); err != nil {
		l.logger.Warn("user list delivery failed",
			zap.Int32("session_id", sessionID),
			zap.Error(err),
		)
	}
}

// pageOf slices one bounded page out of items. Starts at or past the end
// (or negative) produce an empty page.
func pageOf[T any](items []T, start, size int) []T {
	if start < 0 || start >= len(items) {
		return nil
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
