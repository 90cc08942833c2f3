package lobby

import (
	"fmt"

	"go.uber.org/zap"
)

// Manager is the fixed registry mapping a lobby id to its Lobby. All lobbies
// are created once at startup from static definitions and live for the
// process lifetime, so lookups need no runtime synchronization.
type Manager struct {
	lobbies map[int16]*Lobby
	ids     []int16
}

// NewManager builds all lobbies from their definitions.
//
// Precondition: defs must be validated (unique ids, sane capacities);
// sender and logger must be non-nil.
// Postcondition: Returns a Manager holding one Lobby per definition, or an
// error on duplicate ids.
func NewManager(defs []Definition, sender Sender, logger *zap.Logger) (*Manager, error) {
	m := &Manager{
		lobbies: make(map[int16]*Lobby, len(defs)),
	}

	for _, def := range defs {
		if _, exists := m.lobbies[def.ID]; exists {
			return nil, fmt.Errorf("duplicate lobby id %d", def.ID)
		}
		m.lobbies[def.ID] = NewLobby(def, sender, logger)
		m.ids = append(m.ids, def.ID)
	}

	return m, nil
}

// GetLobby returns the lobby with the given id. Absence is a normal outcome
// the caller must handle.
func (m *Manager) GetLobby(lobbyID int16) (*Lobby, bool) {
	l, ok := m.lobbies[lobbyID]
	return l, ok
}

// Lobbies returns all lobbies in definition order.
func (m *Manager) Lobbies() []*Lobby {
	out := make([]*Lobby, 0, len(m.ids))
	for _, id := range m.ids {
		out = append(out, m.lobbies[id])
	}
	return out
}

// Count returns the number of configured lobbies.
func (m *Manager) Count() int {
	return len(m.lobbies)
}
