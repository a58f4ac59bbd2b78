// broadcast/broadcast.go
package broadcast

import (
	"errors"

	"github.com/bistroduet/gameserver/room"
	"github.com/bistroduet/gameserver/session"
)

var (
	ErrRoomNotFound   = errors.New("room not found")
	ErrPlayerNotFound = errors.New("player not found")
)

// Broadcaster fans events out to room members. Sends are fire-and-forget:
// a failed send never fails the handler that triggered it.
type Broadcaster interface {
	BroadcastToRoom(roomID string, msgID uint16, data []byte) error
	BroadcastToOthers(roomID, exceptSessionID string, msgID uint16, data []byte) error
	SendToRole(roomID, role string, msgID uint16, data []byte) error
}

type RoomBroadcaster struct {
	roomManager    *room.Manager
	sessionManager *session.Manager
}

func NewRoomBroadcaster(roomManager *room.Manager, sessionManager *session.Manager) *RoomBroadcaster {
	return &RoomBroadcaster{
		roomManager:    roomManager,
		sessionManager: sessionManager,
	}
}

func (b *RoomBroadcaster) BroadcastToRoom(roomID string, msgID uint16, data []byte) error {
	r, exists := b.roomManager.Get(roomID)
	if !exists {
		return ErrRoomNotFound
	}

	for _, p := range r.Peers("") {
		if err := p.Session.Send(msgID, data); err != nil {
			continue
		}
	}
	return nil
}

// BroadcastToOthers relays to every room member except the sender.
func (b *RoomBroadcaster) BroadcastToOthers(roomID, exceptSessionID string, msgID uint16, data []byte) error {
	r, exists := b.roomManager.Get(roomID)
	if !exists {
		return ErrRoomNotFound
	}

	for _, p := range r.Peers(exceptSessionID) {
		if err := p.Session.Send(msgID, data); err != nil {
			continue
		}
	}
	return nil
}

// SendToRole targets the visitor or the chef of one room.
func (b *RoomBroadcaster) SendToRole(roomID, role string, msgID uint16, data []byte) error {
	r, exists := b.roomManager.Get(roomID)
	if !exists {
		return ErrRoomNotFound
	}

	p, ok := r.GetByRole(role)
	if !ok {
		return ErrPlayerNotFound
	}
	return p.Session.Send(msgID, data)
}
