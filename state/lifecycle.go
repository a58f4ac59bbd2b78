package state

import (
	"time"

	"github.com/bistroduet/gameserver/logger"
	"github.com/bistroduet/gameserver/order"
)

const (
	StateWaiting    = "waiting"
	StateService    = "service"
	StateSettlement = "settlement"
)

// WaitingState holds until both roles are present.
type WaitingState struct {
	RoomStateBase
}

func NewWaitingState(room RoomContext) *WaitingState {
	return &WaitingState{
		RoomStateBase: RoomStateBase{ID: StateWaiting, Room: room},
	}
}

func (s *WaitingState) OnUpdate() {
	if s.Room.HasRole("visitor") && s.Room.HasRole("chef") {
		s.Room.ChangeState(NewServiceState(s.Room))
	}
}

// ServiceState is normal operation: both roles seated, orders flowing.
// Its tick runs the cooking watchdog — any order still cooking past its
// estimate plus the configured grace is cancelled with a free-dish
// compensation, so a stalled chef can never starve the visitor forever.
type ServiceState struct {
	RoomStateBase
}

func NewServiceState(room RoomContext) *ServiceState {
	return &ServiceState{
		RoomStateBase: RoomStateBase{ID: StateService, Room: room},
	}
}

func (s *ServiceState) OnEnter() {
	logger.Log.Infof("room %s entering service: both roles present", s.Room.GetID())
}

func (s *ServiceState) OnUpdate() {
	// A disconnect drops us back to waiting until the role is refilled.
	if !s.Room.HasRole("visitor") || !s.Room.HasRole("chef") {
		s.Room.ChangeState(NewWaitingState(s.Room))
		return
	}

	now := time.Now()
	grace := s.Room.CookingGrace()
	for _, o := range s.Room.ActiveOrders() {
		if o.Status != order.StatusCooking {
			continue
		}
		if now.After(o.CreatedAt.Add(o.Estimate + grace)) {
			logger.Log.Warnf("room %s order %s exceeded cooking budget, compensating", s.Room.GetID(), o.ID)
			s.Room.CompensateOrder(o)
		}
	}
}

// SettlementState is terminal; entered when a session ends.
type SettlementState struct {
	RoomStateBase
}

func NewSettlementState(room RoomContext) *SettlementState {
	return &SettlementState{
		RoomStateBase: RoomStateBase{ID: StateSettlement, Room: room},
	}
}

func (s *SettlementState) OnEnter() {
	logger.Log.Infof("room %s settled", s.Room.GetID())
}
