package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindAvailable_FirstFit(t *testing.T) {
	inv := NewInventory()

	// Occupy both two-tops; a party of two then gets the first four-top,
	// not the better-matching nothing-else.
	require.True(t, inv.Reserve(1, "a"))
	require.True(t, inv.Reserve(2, "b"))

	got, found := inv.FindAvailable(2)
	require.True(t, found)
	assert.Equal(t, 3, got.ID)
	assert.Equal(t, 4, got.Capacity)
}

func TestFindAvailable_NeverUndersized(t *testing.T) {
	inv := NewInventory()

	got, found := inv.FindAvailable(5)
	require.True(t, found)
	assert.GreaterOrEqual(t, got.Capacity, 5)
	assert.False(t, got.IsOccupied)
}

func TestFindAvailable_NoFit(t *testing.T) {
	inv := NewInventory()
	_, found := inv.FindAvailable(7)
	assert.False(t, found, "no table seats more than six")
}

func TestReserve_Exclusive(t *testing.T) {
	inv := NewInventory()

	assert.True(t, inv.Reserve(1, "first"))
	assert.False(t, inv.Reserve(1, "second"), "second reservation must observe the occupied table and fail")

	got, ok := inv.Get(1)
	require.True(t, ok)
	assert.Equal(t, "first", got.ReservedBy)
	assert.False(t, got.ReservedAt.IsZero())
}

func TestFindAvailable_SkipsOccupied(t *testing.T) {
	inv := NewInventory()
	require.True(t, inv.Reserve(1, "a"))

	got, found := inv.FindAvailable(2)
	require.True(t, found)
	assert.NotEqual(t, 1, got.ID)
	assert.False(t, got.IsOccupied)
}

func TestRelease_Idempotent(t *testing.T) {
	inv := NewInventory()

	require.True(t, inv.Reserve(3, "party"))
	require.True(t, inv.LinkOrder(3, "ord-1"))

	assert.True(t, inv.Release(3))
	assert.False(t, inv.Release(3), "releasing a free table returns false without error")

	got, ok := inv.Get(3)
	require.True(t, ok)
	assert.False(t, got.IsOccupied)
	assert.Empty(t, got.ReservedBy)
	assert.Empty(t, got.OrderID)
}

func TestLinkOrder_RequiresReservation(t *testing.T) {
	inv := NewInventory()
	assert.False(t, inv.LinkOrder(1, "ord-1"), "cannot link an order to a free table")
}

func TestSnapshot_FullLayout(t *testing.T) {
	inv := NewInventory()
	snapshot := inv.Snapshot()

	require.Len(t, snapshot, 6)
	capacities := make([]int, 0, 6)
	for _, tbl := range snapshot {
		capacities = append(capacities, tbl.Capacity)
	}
	assert.Equal(t, []int{2, 2, 4, 4, 6, 6}, capacities)
}

func TestReservedByParty(t *testing.T) {
	inv := NewInventory()
	require.True(t, inv.Reserve(2, "me"))
	require.True(t, inv.Reserve(4, "someone-else"))

	mine := inv.ReservedByParty("me")
	require.Len(t, mine, 1)
	assert.Equal(t, 2, mine[0].ID)
}
