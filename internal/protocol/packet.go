// Package protocol defines the packet identifiers, error codes, and binary
// wire codec shared by the chat server and its clients.
//
// A packet on the wire is a little-endian header followed by the payload:
//
//	totalSize uint16 | packetID uint16 | payload...
//
// totalSize includes the header itself. Strings are uint16 length-prefixed
// UTF-8; lists are uint16 count-prefixed.
package protocol

import (
	"encoding/binary"
	"fmt"
)

// PacketID identifies the type of a packet on the wire.
type PacketID uint16

// Packet identifiers. Requests and responses come in pairs; Ntf packets are
// server-initiated pushes with no corresponding request.
const (
	IDLoginReq PacketID = 101
	IDLoginRes PacketID = 102

	IDLobbyEnterReq PacketID = 201
	IDLobbyEnterRes PacketID = 202
	IDLobbyEnterNtf PacketID = 203

	IDLobbyLeaveReq PacketID = 204
	IDLobbyLeaveRes PacketID = 205
	IDLobbyLeaveNtf PacketID = 206

	IDLobbyRoomListReq PacketID = 207
	IDLobbyRoomListRes PacketID = 208

	IDLobbyUserListReq PacketID = 209
	IDLobbyUserListRes PacketID = 210
)

// String returns the packet identifier's symbolic name for logging.
func (id PacketID) String() string {
	switch id {
	case IDLoginReq:
		return "LoginReq"
	case IDLoginRes:
		return "LoginRes"
	case IDLobbyEnterReq:
		return "LobbyEnterReq"
	case IDLobbyEnterRes:
		return "LobbyEnterRes"
	case IDLobbyEnterNtf:
		return "LobbyEnterNtf"
	case IDLobbyLeaveReq:
		return "LobbyLeaveReq"
	case IDLobbyLeaveRes:
		return "LobbyLeaveRes"
	case IDLobbyLeaveNtf:
		return "LobbyLeaveNtf"
	case IDLobbyRoomListReq:
		return "LobbyRoomListReq"
	case IDLobbyRoomListRes:
		return "LobbyRoomListRes"
	case IDLobbyUserListReq:
		return "LobbyUserListReq"
	case IDLobbyUserListRes:
		return "LobbyUserListRes"
	default:
		return fmt.Sprintf("PacketID(%d)", uint16(id))
	}
}

// HeaderSize is the fixed size of the packet header in bytes.
const HeaderSize = 4

// MaxPacketSize bounds the total size of a single packet. Anything larger is
// rejected at the framing layer before the payload is read.
const MaxPacketSize = 8 * 1024

// EncodeFrame prepends the wire header to a marshalled payload.
//
// Precondition: len(payload)+HeaderSize must not exceed MaxPacketSize.
// Postcondition: Returns a complete frame ready to be written to a connection.
func EncodeFrame(id PacketID, payload []byte) ([]byte, error) {
	total := HeaderSize + len(payload)
	if total > MaxPacketSize {
		return nil, fmt.Errorf("packet %s payload too large: %d bytes", id, len(payload))
	}

	frame := make([]byte, total)
	binary.LittleEndian.PutUint16(frame[0:2], uint16(total))
	binary.LittleEndian.PutUint16(frame[2:4], uint16(id))
	copy(frame[HeaderSize:], payload)
	return frame, nil
}

// DecodeHeader parses a wire header.
//
// Precondition: header must be at least HeaderSize bytes.
// Postcondition: Returns the total frame size and packet id, or an error if
// the declared size is inconsistent.
func DecodeHeader(header []byte) (int, PacketID, error) {
	if len(header) < HeaderSize {
		return 0, 0, fmt.Errorf("short packet header: %d bytes", len(header))
	}

	total := int(binary.LittleEndian.Uint16(header[0:2]))
	id := PacketID(binary.LittleEndian.Uint16(header[2:4]))

	if total < HeaderSize {
		return 0, 0, fmt.Errorf("packet %s declares impossible size %d", id, total)
	}
	if total > MaxPacketSize {
		return 0, 0, fmt.Errorf("packet %s exceeds max size: %d bytes", id, total)
	}
	return total, id, nil
}
