package room

import (
	"sync"
	"time"
)

// Manager is the session store: room-id -> room, nothing leaks across
// rooms. Rooms are torn down the moment their last player leaves.
type Manager struct {
	rooms        map[string]*Room
	cookingGrace time.Duration
	mutex        sync.RWMutex
}

func NewManager(cookingGrace time.Duration) *Manager {
	return &Manager{
		rooms:        make(map[string]*Room),
		cookingGrace: cookingGrace,
	}
}

// CreateOrGet returns the room for a player-chosen code, creating it with
// a fresh table inventory and menu stock on first join.
func (m *Manager) CreateOrGet(id string, broadcaster Broadcaster) (*Room, bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if room, exists := m.rooms[id]; exists {
		return room, false
	}

	room := NewRoom(id, m.cookingGrace, broadcaster)
	m.rooms[id] = room
	return room, true
}

func (m *Manager) Get(id string) (*Room, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	room, exists := m.rooms[id]
	return room, exists
}

// Remove closes and deletes a room.
func (m *Manager) Remove(id string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if room, exists := m.rooms[id]; exists {
		room.Close()
		delete(m.rooms, id)
	}
}

// RemovePlayer drops a player from their room and deletes the room
// immediately if it became empty. There is no reconnect grace period: a
// rejoin under the same code gets a brand-new room.
func (m *Manager) RemovePlayer(roomID, sessionID string) (player *Player, roomDeleted bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	room, exists := m.rooms[roomID]
	if !exists {
		return nil, false
	}

	player, empty := room.RemovePlayer(sessionID)
	if empty {
		room.Close()
		delete(m.rooms, roomID)
	}
	return player, empty
}

func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.rooms)
}
