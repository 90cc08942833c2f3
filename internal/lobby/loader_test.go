package lobby

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validLobbyYAML = `
lobbies:
  - id: 0
    max_users: 64
    max_rooms: 16
    rooms:
      - id: 1
        title: General
        max_users: 8
      - id: 2
        title: Ranked
        max_users: 4
  - id: 1
    max_users: 32
    max_rooms: 8
`

func TestLoadDefinitionsFromBytes(t *testing.T) {
	defs, err := LoadDefinitionsFromBytes([]byte(validLobbyYAML))
	require.NoError(t, err)
	require.Len(t, defs, 2)

	assert.Equal(t, int16(0), defs[0].ID)
	assert.Equal(t, int16(64), defs[0].MaxUsers)
	assert.Equal(t, int16(16), defs[0].MaxRooms)
	require.Len(t, defs[0].Rooms, 2)
	assert.Equal(t, "General", defs[0].Rooms[0].Title)

	assert.Empty(t, defs[1].Rooms, "a lobby may define no rooms")
}

func TestLoadDefinitionsFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lobbies.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validLobbyYAML), 0644))

	defs, err := LoadDefinitionsFromFile(path)
	require.NoError(t, err)
	assert.Len(t, defs, 2)
}

func TestLoadDefinitions_MissingFile(t *testing.T) {
	_, err := LoadDefinitionsFromFile("/nonexistent/lobbies.yaml")
	assert.Error(t, err)
}

func TestLoadDefinitions_InvalidYAML(t *testing.T) {
	_, err := LoadDefinitionsFromBytes([]byte("lobbies: ["))
	assert.Error(t, err)
}

func TestLoadDefinitions_Empty(t *testing.T) {
	_, err := LoadDefinitionsFromBytes([]byte("lobbies: []"))
	assert.Error(t, err)
}

func TestLoadDefinitions_DuplicateID(t *testing.T) {
	_, err := LoadDefinitionsFromBytes([]byte(`
lobbies:
  - id: 0
    max_users: 4
    max_rooms: 0
  - id: 0
    max_users: 4
    max_rooms: 0
`))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate lobby id")
}

func TestDefinitionValidate(t *testing.T) {
	def := Definition{ID: 0, MaxUsers: 4, MaxRooms: 1, Rooms: []RoomDefinition{{ID: 1, Title: "A", MaxUsers: 2}}}
	assert.NoError(t, def.Validate())

	bad := def
	bad.MaxUsers = 0
	assert.Error(t, bad.Validate())

	bad = def
	bad.Rooms = append(bad.Rooms, RoomDefinition{ID: 2, Title: "B", MaxUsers: 2})
	assert.Error(t, bad.Validate(), "room count above max_rooms must fail")

	bad = def
	bad.Rooms = []RoomDefinition{{ID: 1, Title: "", MaxUsers: 2}}
	assert.Error(t, bad.Validate(), "empty room title must fail")
}
