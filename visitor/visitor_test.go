package visitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bistroduet/gameserver/order"
	"github.com/bistroduet/gameserver/world"
)

func advanceToBooking(t *testing.T, m *Machine) {
	t.Helper()
	require.True(t, m.UpdatePosition(world.EntranceDoor))
	require.True(t, m.SelectPartySize(2))
	require.Equal(t, PhaseBooking, m.Phase())
}

func advanceToOrdering(t *testing.T, m *Machine) {
	t.Helper()
	advanceToBooking(t, m)
	tablePos := world.Position{X: 4, Y: 0, Z: 6}
	require.True(t, m.TableAssigned(3, tablePos))
	require.True(t, m.WaiterApproached())
	require.True(t, m.UpdatePosition(tablePos))
	require.True(t, m.SitDown())
	require.True(t, m.RequestMenu())
	require.True(t, m.MenuBrought())
	require.Equal(t, PhaseOrdering, m.Phase())
}

func TestHappyPath(t *testing.T) {
	m := NewMachine(DefaultConfig(), nil)
	assert.Equal(t, PhaseEntrance, m.Phase())

	advanceToOrdering(t, m)

	o := order.Order{ID: "ord-1", TableID: 3, Items: []order.Line{{Name: "Burger", Quantity: 1}}}
	require.True(t, m.OrderSubmitted(o))
	assert.Equal(t, PhaseWaiting, m.Phase())

	require.True(t, m.OrderServed("ord-1"))
	require.True(t, m.StartRating())
	require.True(t, m.SubmitRating(5))

	assert.Equal(t, PhaseComplete, m.Phase())
	st := m.State()
	assert.Equal(t, 5, st.Rating)
	assert.Nil(t, st.CurrentOrder, "the order snapshot is dropped once rated")
}

func TestTransitionsAreGuarded(t *testing.T) {
	m := NewMachine(DefaultConfig(), nil)

	// None of these apply at the entrance; each is a silent no-op.
	assert.False(t, m.SitDown())
	assert.False(t, m.RequestMenu())
	assert.False(t, m.MenuBrought())
	assert.False(t, m.WaiterApproached())
	assert.False(t, m.TableAssigned(1, world.Position{}))
	assert.False(t, m.OrderServed("ord-1"))
	assert.False(t, m.SubmitRating(5))
	assert.Equal(t, PhaseEntrance, m.Phase())
}

func TestDuplicateEventsAreIdempotent(t *testing.T) {
	m := NewMachine(DefaultConfig(), nil)
	advanceToBooking(t, m)

	require.True(t, m.TableAssigned(2, world.Position{X: -4, Z: 6}))
	// A re-delivered confirmation changes nothing.
	assert.False(t, m.TableAssigned(5, world.Position{X: 9, Z: 9}))
	assert.Equal(t, 2, m.State().CurrentTable)

	require.True(t, m.WaiterApproached())
	assert.False(t, m.WaiterApproached())
	assert.Equal(t, PhaseWalkingToTable, m.Phase())
}

func TestUpdatePosition_EntranceThreshold(t *testing.T) {
	m := NewMachine(DefaultConfig(), nil)

	// Still out on the street; nothing fires.
	assert.False(t, m.UpdatePosition(world.Position{X: 0, Z: 30}))
	assert.Equal(t, PhaseEntrance, m.Phase())

	assert.True(t, m.UpdatePosition(world.EntranceDoor))
	assert.Equal(t, PhaseReception, m.Phase())
	assert.True(t, m.State().ReceptionDone)
}

func TestUpdatePosition_TableArrival(t *testing.T) {
	m := NewMachine(DefaultConfig(), nil)
	advanceToBooking(t, m)

	tablePos := world.Position{X: 4, Z: 6}
	require.True(t, m.TableAssigned(3, tablePos))
	require.True(t, m.WaiterApproached())

	// Still walking: just outside the table radius.
	assert.False(t, m.UpdatePosition(world.Position{X: 4, Z: 9}))
	assert.Equal(t, PhaseWalkingToTable, m.Phase())

	assert.True(t, m.UpdatePosition(world.Position{X: 4.5, Z: 6.5}))
	assert.Equal(t, PhaseAtTable, m.Phase())
}

func TestSelectPartySize_RejectsNonPositive(t *testing.T) {
	m := NewMachine(DefaultConfig(), nil)
	require.True(t, m.UpdatePosition(world.EntranceDoor))

	assert.False(t, m.SelectPartySize(0))
	assert.False(t, m.SelectPartySize(-3))
	assert.Equal(t, PhaseReception, m.Phase())

	assert.True(t, m.SelectPartySize(4))
	assert.Equal(t, 4, m.State().SelectedTableSize)
}

func TestOrderSubmitted_RequiresItemsAndTable(t *testing.T) {
	m := NewMachine(DefaultConfig(), nil)
	advanceToOrdering(t, m)

	assert.False(t, m.OrderSubmitted(order.Order{ID: "ord-empty"}))
	assert.Equal(t, PhaseOrdering, m.Phase())

	o := order.Order{ID: "ord-2", Items: []order.Line{{Name: "Cola", Quantity: 1}}}
	assert.True(t, m.OrderSubmitted(o))
}

func TestOrderServed_RequiresMatchingID(t *testing.T) {
	m := NewMachine(DefaultConfig(), nil)
	advanceToOrdering(t, m)
	require.True(t, m.OrderSubmitted(order.Order{ID: "ord-3", Items: []order.Line{{Name: "Burger", Quantity: 1}}}))

	assert.False(t, m.OrderServed("ord-somebody-else"))
	assert.Equal(t, PhaseWaiting, m.Phase())

	assert.True(t, m.OrderServed("ord-3"))
	assert.Equal(t, order.StatusServed, m.State().CurrentOrder.Status)
}

func TestSubmitRating_Bounds(t *testing.T) {
	m := NewMachine(DefaultConfig(), nil)
	advanceToOrdering(t, m)
	require.True(t, m.OrderSubmitted(order.Order{ID: "ord-4", Items: []order.Line{{Name: "Burger", Quantity: 1}}}))
	require.True(t, m.OrderServed("ord-4"))
	require.True(t, m.StartRating())

	assert.False(t, m.SubmitRating(0))
	assert.False(t, m.SubmitRating(6))
	assert.Equal(t, PhaseRating, m.Phase())

	assert.True(t, m.SubmitRating(3))
	assert.Equal(t, PhaseComplete, m.Phase())
}

func TestNearNPC(t *testing.T) {
	m := NewMachine(DefaultConfig(), nil)
	npc := world.Position{X: 10, Z: 10}

	assert.True(t, m.NearNPC(world.Position{X: 11, Z: 11}, npc))
	assert.False(t, m.NearNPC(world.Position{X: 14, Z: 10}, npc))
}
