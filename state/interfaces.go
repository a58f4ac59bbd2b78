// state/interfaces.go
package state

import (
	"time"

	"github.com/bistroduet/gameserver/order"
)

// RoomContext is what a lifecycle state needs from its room. Defined here
// to break the import cycle between room and state.
type RoomContext interface {
	GetID() string
	HasRole(role string) bool
	ActiveOrders() []order.Order
	CookingGrace() time.Duration
	CompensateOrder(o order.Order)
	ChangeState(newState State) error
	Broadcast(msgID uint16, data []byte) error
}
