package lobby

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RoomDefinition is the static description of a room within a lobby.
type RoomDefinition struct {
	ID       int32  `yaml:"id"`
	Title    string `yaml:"title"`
	MaxUsers int16  `yaml:"max_users"`
}

// Definition is the static description of a lobby, loaded at startup.
type Definition struct {
	ID       int16            `yaml:"id"`
	MaxUsers int16            `yaml:"max_users"`
	MaxRooms int16            `yaml:"max_rooms"`
	Rooms    []RoomDefinition `yaml:"rooms"`
}

// yamlLobbyFile is the top-level YAML structure for lobby definition files.
type yamlLobbyFile struct {
	Lobbies []Definition `yaml:"lobbies"`
}

// LoadDefinitionsFromFile reads and validates a lobby definition YAML file.
//
// Precondition: path must point to a valid YAML lobby file.
// Postcondition: Returns validated definitions or a non-nil error.
func LoadDefinitionsFromFile(path string) ([]Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading lobby file %s: %w", path, err)
	}
	return LoadDefinitionsFromBytes(data)
}

// LoadDefinitionsFromBytes parses and validates lobby definitions from YAML
// bytes.
//
// Postcondition: Returns at least one validated definition or a non-nil
// error.
func LoadDefinitionsFromBytes(data []byte) ([]Definition, error) {
	var file yamlLobbyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing lobby YAML: %w", err)
	}

	if len(file.Lobbies) == 0 {
		return nil, fmt.Errorf("lobby file defines no lobbies")
	}

	seen := make(map[int16]bool, len(file.Lobbies))
	for _, def := range file.Lobbies {
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("lobby %d: %w", def.ID, err)
		}
		if seen[def.ID] {
			return nil, fmt.Errorf("duplicate lobby id %d", def.ID)
		}
		seen[def.ID] = true
	}

	return file.Lobbies, nil
}

// Validate checks a single definition's invariants.
func (d Definition) Validate() error {
	if d.ID < 0 {
		return fmt.Errorf("id must be >= 0, got %d", d.ID)
	}
	if d.MaxUsers < 1 {
		return fmt.Errorf("max_users must be >= 1, got %d", d.MaxUsers)
	}
	if d.MaxRooms < 0 {
		return fmt.Errorf("max_rooms must be >= 0, got %d", d.MaxRooms)
	}
	if len(d.Rooms) > int(d.MaxRooms) {
		return fmt.Errorf("defines %d rooms but max_rooms is %d", len(d.Rooms), d.MaxRooms)
	}

	roomIDs := make(map[int32]bool, len(d.Rooms))
	for _, room := range d.Rooms {
		if room.Title == "" {
			return fmt.Errorf("room %d has an empty title", room.ID)
		}
		if room.MaxUsers < 1 {
			return fmt.Errorf("room %d max_users must be >= 1, got %d", room.ID, room.MaxUsers)
		}
		if roomIDs[room.ID] {
			return fmt.Errorf("duplicate room id %d", room.ID)
		}
		roomIDs[room.ID] = true
	}
	return nil
}
