package protocol

import "fmt"

// ErrorCode is the result code carried by every response packet. All values
// are expected, client-triggerable conditions; none is a server fault.
type ErrorCode uint16

const (
	// ErrNone indicates success.
	ErrNone ErrorCode = 0

	// ErrUserNotFound: the session has no registered user (not logged in or
	// already torn down).
	ErrUserNotFound ErrorCode = 11

	// ErrLoginAlreadyRegistered: a user is already bound to this session.
	ErrLoginAlreadyRegistered ErrorCode = 12

	ErrLobbyEnterInvalidDomain     ErrorCode = 21
	ErrLobbyEnterInvalidLobbyIndex ErrorCode = 22
	// ErrLobbyEnterFull: admission refused because the lobby is at capacity.
	ErrLobbyEnterFull ErrorCode = 23

	ErrLobbyLeaveInvalidDomain     ErrorCode = 31
	ErrLobbyLeaveInvalidLobbyIndex ErrorCode = 32
	// ErrLobbyLeaveNotMember: the recorded user index is not present in the
	// lobby's member table.
	ErrLobbyLeaveNotMember ErrorCode = 33

	ErrLobbyRoomListInvalidDomain     ErrorCode = 41
	ErrLobbyRoomListInvalidLobbyIndex ErrorCode = 42

	ErrLobbyUserListInvalidDomain     ErrorCode = 51
	ErrLobbyUserListInvalidLobbyIndex ErrorCode = 52
)

// String returns the error code's symbolic name for logging.
func (e ErrorCode) String() string {
	switch e {
	case ErrNone:
		return "None"
	case ErrUserNotFound:
		return "UserNotFound"
	case ErrLoginAlreadyRegistered:
		return "LoginAlreadyRegistered"
	case ErrLobbyEnterInvalidDomain:
		return "LobbyEnterInvalidDomain"
	case ErrLobbyEnterInvalidLobbyIndex:
		return "LobbyEnterInvalidLobbyIndex"
	case ErrLobbyEnterFull:
		return "LobbyEnterFull"
	case ErrLobbyLeaveInvalidDomain:
		return "LobbyLeaveInvalidDomain"
	case ErrLobbyLeaveInvalidLobbyIndex:
		return "LobbyLeaveInvalidLobbyIndex"
	case ErrLobbyLeaveNotMember:
		return "LobbyLeaveNotMember"
	case ErrLobbyRoomListInvalidDomain:
		return "LobbyRoomListInvalidDomain"
	case ErrLobbyRoomListInvalidLobbyIndex:
		return "LobbyRoomListInvalidLobbyIndex"
	case ErrLobbyUserListInvalidDomain:
		return "LobbyUserListInvalidDomain"
	case ErrLobbyUserListInvalidLobbyIndex:
		return "LobbyUserListInvalidLobbyIndex"
	default:
		return fmt.Sprintf("ErrorCode(%d)", uint16(e))
	}
}

// IsOK reports whether the code represents success.
func (e ErrorCode) IsOK() bool {
	return e == ErrNone
}
