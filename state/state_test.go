package state

import (
	"os"
	"testing"
	"time"

	"github.com/bistroduet/gameserver/logger"
	"github.com/bistroduet/gameserver/order"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

// mockRoom is a test double for the RoomContext interface.
type mockRoom struct {
	machine     StateMachine
	roles       map[string]bool
	orders      []order.Order
	grace       time.Duration
	compensated []string
	broadcasts  int
}

func newMockRoom() *mockRoom {
	return &mockRoom{
		roles: make(map[string]bool),
		grace: time.Second,
	}
}

func (m *mockRoom) GetID() string { return "mock" }

func (m *mockRoom) HasRole(role string) bool { return m.roles[role] }

func (m *mockRoom) ActiveOrders() []order.Order { return m.orders }

func (m *mockRoom) CookingGrace() time.Duration { return m.grace }

func (m *mockRoom) CompensateOrder(o order.Order) {
	m.compensated = append(m.compensated, o.ID)
}
func (m *mockRoom) ChangeState(newState State) error {
	return m.machine.ChangeState(newState)
}
func (m *mockRoom) Broadcast(msgID uint16, data []byte) error {
	m.broadcasts++
	return nil
}

func TestWaitingState_AdvancesWhenBothRolesPresent(t *testing.T) {
	room := newMockRoom()
	room.machine = NewBaseStateMachine(NewWaitingState(room))

	room.machine.GetCurrentState().OnUpdate()
	if got := room.machine.GetCurrentState().GetID(); got != StateWaiting {
		t.Fatalf("room with no players should stay waiting, got %q", got)
	}

	room.roles["visitor"] = true
	room.machine.GetCurrentState().OnUpdate()
	if got := room.machine.GetCurrentState().GetID(); got != StateWaiting {
		t.Fatalf("room with one role should stay waiting, got %q", got)
	}

	room.roles["chef"] = true
	room.machine.GetCurrentState().OnUpdate()
	if got := room.machine.GetCurrentState().GetID(); got != StateService {
		t.Fatalf("room with both roles should enter service, got %q", got)
	}
}

func TestServiceState_FallsBackWhenRoleMissing(t *testing.T) {
	room := newMockRoom()
	room.roles["visitor"] = true
	room.roles["chef"] = true
	room.machine = NewBaseStateMachine(NewServiceState(room))

	room.roles["chef"] = false
	room.machine.GetCurrentState().OnUpdate()

	if got := room.machine.GetCurrentState().GetID(); got != StateWaiting {
		t.Fatalf("service without a chef should fall back to waiting, got %q", got)
	}
}

func TestServiceState_CompensatesOverdueCookingOrders(t *testing.T) {
	room := newMockRoom()
	room.roles["visitor"] = true
	room.roles["chef"] = true
	room.grace = time.Millisecond
	room.machine = NewBaseStateMachine(NewServiceState(room))

	room.orders = []order.Order{
		{
			ID:        "overdue",
			Status:    order.StatusCooking,
			CreatedAt: time.Now().Add(-time.Minute),
			Estimate:  time.Second,
		},
		{
			ID:        "on-track",
			Status:    order.StatusCooking,
			CreatedAt: time.Now(),
			Estimate:  time.Hour,
		},
		{
			ID:        "pending-forever",
			Status:    order.StatusPending,
			CreatedAt: time.Now().Add(-time.Hour),
			Estimate:  time.Second,
		},
	}

	room.machine.GetCurrentState().OnUpdate()

	if len(room.compensated) != 1 || room.compensated[0] != "overdue" {
		t.Fatalf("only the overdue cooking order should be compensated, got %v", room.compensated)
	}
}

func TestSettlementState_IsTerminal(t *testing.T) {
	room := newMockRoom()
	room.machine = NewBaseStateMachine(NewSettlementState(room))

	err := room.machine.ChangeState(NewWaitingState(room))
	if err != ErrTransitionNotAllowed {
		t.Fatalf("leaving settlement should be rejected, got %v", err)
	}
	if got := room.machine.GetCurrentState().GetID(); got != StateSettlement {
		t.Fatalf("state should remain settlement, got %q", got)
	}
}
