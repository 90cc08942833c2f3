// Package chatserver dispatches inbound request packets to the lobby
// subsystem: one handler per request type, each producing exactly one
// response to the requesting session plus zero or more notifications to
// other sessions.
package chatserver

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/chatserver/internal/lobby"
	"github.com/cory-johannsen/chatserver/internal/protocol"
)

// PacketProcess holds the per-request handlers. Every handler follows the
// same validation sequence: resolve the user from the session id, check the
// user's domain, resolve the target lobby, delegate, and send exactly one
// response of the expected type whether the request succeeded or failed.
// Handler return values feed logging only, never retries.
type PacketProcess struct {
	users   *lobby.UserManager
	lobbies *lobby.Manager
	sender  lobby.Sender
	logger  *zap.Logger
}

// NewPacketProcess creates a PacketProcess with constructor-injected
// collaborators.
//
// Precondition: all arguments must be non-nil.
func NewPacketProcess(users *lobby.UserManager, lobbies *lobby.Manager, sender lobby.Sender, logger *zap.Logger) *PacketProcess {
	return &PacketProcess{
		users:   users,
		lobbies: lobbies,
		sender:  sender,
		logger:  logger,
	}
}

// Login binds a user identity to the requesting session. Credential
// verification is the transport collaborator's job and has already happened;
// this handler only registers the session in the user registry.
func (p *PacketProcess) Login(sessionID int32, req *protocol.LoginReq) protocol.ErrorCode {
	if _, err := p.users.AddUser(sessionID, req.UserID); err != nil {
		return p.respondError(sessionID, protocol.IDLoginRes, &protocol.LoginRes{}, protocol.ErrLoginAlreadyRegistered)
	}

	p.logger.Info("user logged in",
		zap.Int32("session_id", sessionID),
		zap.String("user_id", req.UserID),
	)
	p.respond(sessionID, protocol.IDLoginRes, &protocol.LoginRes{})
	return protocol.ErrNone
}

// LobbyEnter admits the session's user to the requested lobby. On success
// the response carries the lobby's configured capacities and every
// pre-existing member is notified of the new member.
func (p *PacketProcess) LobbyEnter(sessionID int32, req *protocol.LobbyEnterReq) protocol.ErrorCode {
	res := &protocol.LobbyEnterRes{}

	user, ok := p.users.GetUser(sessionID)
	if !ok {
		return p.respondError(sessionID, protocol.IDLobbyEnterRes, res, protocol.ErrUserNotFound)
	}
	if !user.IsLoggedIn() {
		return p.respondError(sessionID, protocol.IDLobbyEnterRes, res, protocol.ErrLobbyEnterInvalidDomain)
	}

	lob, ok := p.lobbies.GetLobby(req.LobbyID)
	if !ok {
		return p.respondError(sessionID, protocol.IDLobbyEnterRes, res, protocol.ErrLobbyEnterInvalidLobbyIndex)
	}

	if code := lob.EnterUser(user); !code.IsOK() {
		return p.respondError(sessionID, protocol.IDLobbyEnterRes, res, code)
	}

	lob.NotifyLobbyEnterUserInfo(user)

	res.MaxUserCount = lob.MaxUserCount()
	res.MaxRoomCount = lob.MaxRoomCount()
	p.respond(sessionID, protocol.IDLobbyEnterRes, res)
	return protocol.ErrNone
}

// LobbyLeave removes the session's user from its current lobby and notifies
// the remaining members of the departure.
func (p *PacketProcess) LobbyLeave(sessionID int32, _ *protocol.LobbyLeaveReq) protocol.ErrorCode {
	res := &protocol.LobbyLeaveRes{}

	user, ok := p.users.GetUser(sessionID)
	if !ok {
		return p.respondError(sessionID, protocol.IDLobbyLeaveRes, res, protocol.ErrUserNotFound)
	}
	if !user.IsInLobby() {
		return p.respondError(sessionID, protocol.IDLobbyLeaveRes, res, protocol.ErrLobbyLeaveInvalidDomain)
	}

	lob, ok := p.lobbies.GetLobby(user.LobbyID())
	if !ok {
		return p.respondError(sessionID, protocol.IDLobbyLeaveRes, res, protocol.ErrLobbyLeaveInvalidLobbyIndex)
	}

	if code := lob.LeaveUser(user.UserIndex()); !code.IsOK() {
		return p.respondError(sessionID, protocol.IDLobbyLeaveRes, res, code)
	}

	lob.NotifyLobbyLeaveUserInfo(user)

	p.respond(sessionID, protocol.IDLobbyLeaveRes, res)
	return protocol.ErrNone
}

// LobbyRoomList sends one page of the lobby's room list to the requester.
func (p *PacketProcess) LobbyRoomList(sessionID int32, req *protocol.LobbyRoomListReq) protocol.ErrorCode {
	res := &protocol.LobbyRoomListRes{}

	user, ok := p.users.GetUser(sessionID)
	if !ok {
		return p.respondError(sessionID, protocol.IDLobbyRoomListRes, res, protocol.ErrUserNotFound)
	}
	if !user.IsInLobby() {
		return p.respondError(sessionID, protocol.IDLobbyRoomListRes, res, protocol.ErrLobbyRoomListInvalidDomain)
	}

	lob, ok := p.lobbies.GetLobby(user.LobbyID())
	if !ok {
		return p.respondError(sessionID, protocol.IDLobbyRoomListRes, res, protocol.ErrLobbyRoomListInvalidLobbyIndex)
	}

	lob.SendRoomList(sessionID, req.StartRoomIndex)
	return protocol.ErrNone
}

// LobbyUserList sends one page of the lobby's member list to the requester.
func (p *PacketProcess) LobbyUserList(sessionID int32, req *protocol.LobbyUserListReq) protocol.ErrorCode {
	res := &protocol.LobbyUserListRes{}

	user, ok := p.users.GetUser(sessionID)
	if !ok {
		return p.respondError(sessionID, protocol.IDLobbyUserListRes, res, protocol.ErrUserNotFound)
	}
	if !user.IsInLobby() {
		return p.respondError(sessionID, protocol.IDLobbyUserListRes, res, protocol.ErrLobbyUserListInvalidDomain)
	}

	lob, ok := p.lobbies.GetLobby(user.LobbyID())
	if !ok {
		return p.respondError(sessionID, protocol.IDLobbyUserListRes, res, protocol.ErrLobbyUserListInvalidLobbyIndex)
	}

	lob.SendUserList(sessionID, req.StartUserIndex)
	return protocol.ErrNone
}

// SessionClosed handles transport-level session teardown: an implicit lobby
// leave (if the user is in one) followed by user destruction. No response is
// produced; there is no session left to reply to.
func (p *PacketProcess) SessionClosed(sessionID int32) {
	user, ok := p.users.GetUser(sessionID)
	if !ok {
		return
	}

	if d := user.Domain(); d == lobby.DomainInLobby || d == lobby.DomainInRoom {
		if lob, found := p.lobbies.GetLobby(user.LobbyID()); found {
			if code := lob.LeaveUser(user.UserIndex()); code.IsOK() {
				lob.NotifyLobbyLeaveUserInfo(user)
			}
		}
	}

	if err := p.users.RemoveUser(sessionID); err == nil {
		p.logger.Info("user disconnected",
			zap.Int32("session_id", sessionID),
			zap.String("user_id", user.UserID()),
		)
	}
}

// respond sends a success-shaped response to the requesting session.
func (p *PacketProcess) respond(sessionID int32, id protocol.PacketID, res protocol.Response) {
	if err := p.sender.SendData(sessionID, id, res.Marshal()); err != nil {
		p.logger.Warn("response delivery failed",
			zap.Stringer("packet", id),
			zap.Int32("session_id", sessionID),
			zap.Error(err),
		)
	}
}

// respondError sends a response of the expected type with only the error
// field populated, and returns the code for the caller's telemetry.
func (p *PacketProcess) respondError(sessionID int32, id protocol.PacketID, res protocol.Response, code protocol.ErrorCode) protocol.ErrorCode {
	res.SetError(code)
	p.respond(sessionID, id, res)
	return code
}
