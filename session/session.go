// session/session.go
package session

import (
	"sync"
	"time"

	"github.com/bistroduet/gameserver/network"
)

// Session is one live connection. Role and RoomID are set when the
// connection joins a room and cleared when it leaves.
type Session struct {
	ID         string
	Conn       network.Connection
	RoomID     string
	Role       string
	Username   string
	CreatedAt  time.Time
	LastActive time.Time
	mutex      sync.RWMutex
}

func NewSession(id string, conn network.Connection) *Session {
	now := time.Now()
	return &Session{
		ID:         id,
		Conn:       conn,
		CreatedAt:  now,
		LastActive: now,
	}
}

func (s *Session) Send(msgID uint16, data []byte) error {
	s.LastActive = time.Now()
	return s.Conn.Send(msgID, data)
}

// SendPayload marshals a typed payload and sends it.
func (s *Session) SendPayload(msgID uint16, payload interface{}) error {
	return s.Send(msgID, network.Marshal(payload))
}

func (s *Session) GetID() string {
	return s.ID
}

func (s *Session) SetIdentity(role, username string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.Role = role
	s.Username = username
}

func (s *Session) GetRole() string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.Role
}

func (s *Session) Close() error {
	return s.Conn.Close()
}

// Manager tracks every live session on this process.
type Manager struct {
	sessions map[string]*Session
	mutex    sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
	}
}

func (m *Manager) Add(session *Session) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.sessions[session.ID] = session
}

func (m *Manager) Remove(sessionID string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.sessions, sessionID)
}

func (m *Manager) Get(sessionID string) (*Session, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	session, exists := m.sessions[sessionID]
	return session, exists
}

func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.sessions)
}

// GetByRoom returns every session currently joined to one room.
func (m *Manager) GetByRoom(roomID string) []*Session {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	var result []*Session
	for _, session := range m.sessions {
		if session.RoomID == roomID {
			result = append(result, session)
		}
	}
	return result
}
