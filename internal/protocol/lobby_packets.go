package protocol

// Response is implemented by every response packet. SetError overwrites only
// the error field, leaving the rest of the structure in its zero state; this
// is how failure paths reuse the success-shaped response.
type Response interface {
	SetError(code ErrorCode)
	Marshal() []byte
}

// RoomSummary is the public description of a room shown in lobby listings.
type RoomSummary struct {
	RoomID       int32
	Title        string
	UserCount    int16
	MaxUserCount int16
}

// UserSummary is the public description of a lobby member.
type UserSummary struct {
	UserIndex uint16
	UserID    string
}

// LoginReq binds a user identity to the requesting session. Credential
// verification happens before this subsystem; the token is opaque here.
type LoginReq struct {
	UserID    string
	AuthToken string
}

// Marshal encodes the payload in wire order.
func (p *LoginReq) Marshal() []byte {
	var w writer
	w.str(p.UserID)
	w.str(p.AuthToken)
	return w.buf
}

// Unmarshal decodes the payload, returning an error on truncated input.
func (p *LoginReq) Unmarshal(data []byte) error {
	r := reader{buf: data}
	p.UserID = r.str()
	p.AuthToken = r.str()
	return r.err("LoginReq")
}

// LoginRes acknowledges a login request.
type LoginRes struct {
	ErrorCode ErrorCode
}

func (p *LoginRes) SetError(code ErrorCode) { p.ErrorCode = code }

func (p *LoginRes) Marshal() []byte {
	var w writer
	w.u16(uint16(p.ErrorCode))
	return w.buf
}

func (p *LoginRes) Unmarshal(data []byte) error {
	r := reader{buf: data}
	p.ErrorCode = ErrorCode(r.u16())
	return r.err("LoginRes")
}

// LobbyEnterReq asks to join the lobby with the given id.
type LobbyEnterReq struct {
	LobbyID int16
}

func (p *LobbyEnterReq) Marshal() []byte {
	var w writer
	w.i16(p.LobbyID)
	return w.buf
}

func (p *LobbyEnterReq) Unmarshal(data []byte) error {
	r := reader{buf: data}
	p.LobbyID = r.i16()
	return r.err("LobbyEnterReq")
}

// LobbyEnterRes reports the outcome of a lobby enter request. On success it
// carries the lobby's configured capacities.
type LobbyEnterRes struct {
	ErrorCode    ErrorCode
	MaxUserCount int16
	MaxRoomCount int16
}

func (p *LobbyEnterRes) SetError(code ErrorCode) { p.ErrorCode = code }

func (p *LobbyEnterRes) Marshal() []byte {
	var w writer
	w.u16(uint16(p.ErrorCode))
	w.i16(p.MaxUserCount)
	w.i16(p.MaxRoomCount)
	return w.buf
}

func (p *LobbyEnterRes) Unmarshal(data []byte) error {
	r := reader{buf: data}
	p.ErrorCode = ErrorCode(r.u16())
	p.MaxUserCount = r.i16()
	p.MaxRoomCount = r.i16()
	return r.err("LobbyEnterRes")
}

// LobbyEnterNtf announces a new member to the lobby's existing members.
type LobbyEnterNtf struct {
	User UserSummary
}

func (p *LobbyEnterNtf) Marshal() []byte {
	var w writer
	w.u16(p.User.UserIndex)
	w.str(p.User.UserID)
	return w.buf
}

func (p *LobbyEnterNtf) Unmarshal(data []byte) error {
	r := reader{buf: data}
	p.User.UserIndex = r.u16()
	p.User.UserID = r.str()
	return r.err("LobbyEnterNtf")
}

// LobbyLeaveReq asks to leave the user's current lobby. It has no payload.
type LobbyLeaveReq struct{}

func (p *LobbyLeaveReq) Marshal() []byte { return nil }

func (p *LobbyLeaveReq) Unmarshal(data []byte) error { return nil }

// LobbyLeaveRes reports the outcome of a lobby leave request.
type LobbyLeaveRes struct {
	ErrorCode ErrorCode
}

func (p *LobbyLeaveRes) SetError(code ErrorCode) { p.ErrorCode = code }

func (p *LobbyLeaveRes) Marshal() []byte {
	var w writer
	w.u16(uint16(p.ErrorCode))
	return w.buf
}

func (p *LobbyLeaveRes) Unmarshal(data []byte) error {
	r := reader{buf: data}
	p.ErrorCode = ErrorCode(r.u16())
	return r.err("LobbyLeaveRes")
}

// LobbyLeaveNtf announces a departed member to the lobby's remaining members.
type LobbyLeaveNtf struct {
	User UserSummary
}

func (p *LobbyLeaveNtf) Marshal() []byte {
	var w writer
	w.u16(p.User.UserIndex)
	w.str(p.User.UserID)
	return w.buf
}

func (p *LobbyLeaveNtf) Unmarshal(data []byte) error {
	r := reader{buf: data}
	p.User.UserIndex = r.u16()
	p.User.UserID = r.str()
	return r.err("LobbyLeaveNtf")
}

// LobbyRoomListReq asks for a page of the lobby's room list.
type LobbyRoomListReq struct {
	StartRoomIndex int16
}

func (p *LobbyRoomListReq) Marshal() []byte {
	var w writer
	w.i16(p.StartRoomIndex)
	return w.buf
}

func (p *LobbyRoomListReq) Unmarshal(data []byte) error {
	r := reader{buf: data}
	p.StartRoomIndex = r.i16()
	return r.err("LobbyRoomListReq")
}

// LobbyRoomListRes carries a page of room summaries.
type LobbyRoomListRes struct {
	ErrorCode ErrorCode
	Rooms     []RoomSummary
}

func (p *LobbyRoomListRes) SetError(code ErrorCode) { p.ErrorCode = code }

func (p *LobbyRoomListRes) Marshal() []byte {
	var w writer
	w.u16(uint16(p.ErrorCode))
	w.u16(uint16(len(p.Rooms)))
	for _, room := range p.Rooms {
		w.i32(room.RoomID)
		w.str(room.Title)
		w.i16(room.UserCount)
		w.i16(room.MaxUserCount)
	}
	return w.buf
}

func (p *LobbyRoomListRes) Unmarshal(data []byte) error {
	r := reader{buf: data}
	p.ErrorCode = ErrorCode(r.u16())
	count := int(r.u16())
	for i := 0; i < count && !r.bad; i++ {
		var room RoomSummary
		room.RoomID = r.i32()
		room.Title = r.str()
		room.UserCount = r.i16()
		room.MaxUserCount = r.i16()
		p.Rooms = append(p.Rooms, room)
	}
	return r.err("LobbyRoomListRes")
}

// LobbyUserListReq asks for a page of the lobby's member list.
type LobbyUserListReq struct {
	StartUserIndex int16
}

func (p *LobbyUserListReq) Marshal() []byte {
	var w writer
	w.i16(p.StartUserIndex)
	return w.buf
}

func (p *LobbyUserListReq) Unmarshal(data []byte) error {
	r := reader{buf: data}
	p.StartUserIndex = r.i16()
	return r.err("LobbyUserListReq")
}

// LobbyUserListRes carries a page of member summaries.
type LobbyUserListRes struct {
	ErrorCode ErrorCode
	Users     []UserSummary
}

func (p *LobbyUserListRes) SetError(code ErrorCode) { p.ErrorCode = code }

func (p *LobbyUserListRes) Marshal() []byte {
	var w writer
	w.u16(uint16(p.ErrorCode))
	w.u16(uint16(len(p.Users)))
	for _, user := range p.Users {
		w.u16(user.UserIndex)
		w.str(user.UserID)
	}
	return w.buf
}

func (p *LobbyUserListRes) Unmarshal(data []byte) error {
	r := reader{buf: data}
	p.ErrorCode = ErrorCode(r.u16())
	count := int(r.u16())
	for i := 0; i < count && !r.bad; i++ {
		var user UserSummary
		user.UserIndex = r.u16()
		user.UserID = r.str()
		p.Users = append(p.Users, user)
	}
	return r.err("LobbyUserListRes")
}
