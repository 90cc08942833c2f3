package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeFrame_Header(t *testing.T) {
	frame, err := EncodeFrame(IDLobbyEnterReq, []byte{0x02, 0x00})
	require.NoError(t, err)

	total, id, err := DecodeHeader(frame)
	require.NoError(t, err)
	assert.Equal(t, len(frame), total)
	assert.Equal(t, IDLobbyEnterReq, id)
	assert.Equal(t, []byte{0x02, 0x00}, frame[HeaderSize:])
}

func TestEncodeFrame_EmptyPayload(t *testing.T) {
	frame, err := EncodeFrame(IDLobbyLeaveReq, nil)
	require.NoError(t, err)
	assert.Len(t, frame, HeaderSize)
}

func TestEncodeFrame_TooLarge(t *testing.T) {
	_, err := EncodeFrame(IDLobbyEnterReq, make([]byte, MaxPacketSize))
	assert.Error(t, err)
}

func TestDecodeHeader_Short(t *testing.T) {
	_, _, err := DecodeHeader([]byte{0x01})
	assert.Error(t, err)
}

func TestDecodeHeader_ImpossibleSize(t *testing.T) {
	// declared total below the header size
	_, _, err := DecodeHeader([]byte{0x02, 0x00, 0xC9, 0x00})
	assert.Error(t, err)
}

func TestLobbyEnterRes_Roundtrip(t *testing.T) {
	orig := LobbyEnterRes{MaxUserCount: 64, MaxRoomCount: 16}

	var got LobbyEnterRes
	require.NoError(t, got.Unmarshal(orig.Marshal()))
	assert.Equal(t, orig, got)
}

func TestLobbyEnterRes_SetError(t *testing.T) {
	res := LobbyEnterRes{}
	res.SetError(ErrLobbyEnterFull)

	var got LobbyEnterRes
	require.NoError(t, got.Unmarshal(res.Marshal()))
	assert.Equal(t, ErrLobbyEnterFull, got.ErrorCode)
	assert.Zero(t, got.MaxUserCount, "error responses carry zeroed success fields")
	assert.Zero(t, got.MaxRoomCount)
}

func TestLobbyRoomListRes_Roundtrip(t *testing.T) {
	orig := LobbyRoomListRes{
		Rooms: []RoomSummary{
			{RoomID: 1, Title: "General", UserCount: 3, MaxUserCount: 8},
			{RoomID: 2, Title: "Ranked", MaxUserCount: 4},
		},
	}

	var got LobbyRoomListRes
	require.NoError(t, got.Unmarshal(orig.Marshal()))
	assert.Equal(t, ErrNone, got.ErrorCode)
	require.Len(t, got.Rooms, 2)
	assert.Equal(t, orig.Rooms, got.Rooms)
}

func TestLobbyUserListRes_EmptyPage(t *testing.T) {
	orig := LobbyUserListRes{}

	var got LobbyUserListRes
	require.NoError(t, got.Unmarshal(orig.Marshal()))
	assert.Empty(t, got.Users)
}

func TestLoginReq_Truncated(t *testing.T) {
	orig := LoginReq{UserID: "alice", AuthToken: "token"}
	data := orig.Marshal()

	var got LoginReq
	assert.Error(t, got.Unmarshal(data[:3]))
}

func TestLobbyEnterNtf_Roundtrip(t *testing.T) {
	orig := LobbyEnterNtf{User: UserSummary{UserIndex: 7, UserID: "bob"}}

	var got LobbyEnterNtf
	require.NoError(t, got.Unmarshal(orig.Marshal()))
	assert.Equal(t, orig, got)
}
