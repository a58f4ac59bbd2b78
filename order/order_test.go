package order

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bistroduet/gameserver/menu"
	"github.com/bistroduet/gameserver/table"
)

func newTestLedger(t *testing.T) (*Ledger, *table.Inventory) {
	t.Helper()
	tables := table.NewInventory()
	catalog := menu.NewCatalog([]menu.Item{
		{ID: "t1", Name: "Burger", Price: 8.50, Available: 10, CookTime: 8 * time.Minute},
		{ID: "t2", Name: "Cola", Price: 2.50, Available: 10, CookTime: time.Minute},
	})
	return NewLedger(tables, catalog), tables
}

func TestCreate_RequiresOccupiedTable(t *testing.T) {
	ledger, _ := newTestLedger(t)

	o := ledger.Create(1, []Line{{Name: "Burger", Quantity: 1, UnitPrice: 8.50}})
	assert.Nil(t, o, "an order on an unoccupied table must be rejected")
}

func TestCreate_TotalsAndEstimate(t *testing.T) {
	ledger, tables := newTestLedger(t)
	require.True(t, tables.Reserve(1, "visitor"))

	o := ledger.Create(1, []Line{
		{Name: "Burger", Quantity: 2, UnitPrice: 8.50},
		{Name: "Cola", Quantity: 1, UnitPrice: 2.50},
	})
	require.NotNil(t, o)

	assert.Equal(t, StatusPending, o.Status)
	assert.InDelta(t, 19.50, o.Total, 0.001, "total is the sum of multiplied line prices")
	assert.Equal(t, 17*time.Minute, o.Estimate, "estimate sums cook time per unit")
	assert.NotEmpty(t, o.ID)

	// The table now links back to the order.
	tbl, ok := tables.Get(1)
	require.True(t, ok)
	assert.Equal(t, o.ID, tbl.OrderID)
}

func TestCreate_PreMultipliedLineTotals(t *testing.T) {
	ledger, tables := newTestLedger(t)
	require.True(t, tables.Reserve(1, "visitor"))

	o := ledger.Create(1, []Line{
		{Name: "Burger", Quantity: 2, UnitPrice: 8.50, Total: 17.00},
	})
	require.NotNil(t, o)
	assert.InDelta(t, 17.00, o.Total, 0.001)
}

func TestCreate_UniqueIDs(t *testing.T) {
	ledger, tables := newTestLedger(t)
	require.True(t, tables.Reserve(1, "visitor"))

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		o := ledger.Create(1, []Line{{Name: "Cola", Quantity: 1, UnitPrice: 2.50}})
		require.NotNil(t, o)
		assert.False(t, seen[o.ID], "order ids must not collide within a room")
		seen[o.ID] = true
	}
}

func TestUpdateStatus_ServedRemovesOrder(t *testing.T) {
	ledger, tables := newTestLedger(t)
	require.True(t, tables.Reserve(1, "visitor"))

	o := ledger.Create(1, []Line{{Name: "Burger", Quantity: 1, UnitPrice: 8.50}})
	require.NotNil(t, o)

	snapshot, found := ledger.UpdateStatus(o.ID, StatusServed, "chef-1")
	require.True(t, found)
	assert.Equal(t, StatusServed, snapshot.Status)
	assert.Equal(t, "chef-1", snapshot.ChefID)

	// Gone from the active ledger; a repeat update is a no-op.
	_, found = ledger.Get(o.ID)
	assert.False(t, found)
	_, found = ledger.UpdateStatus(o.ID, StatusServed, "chef-1")
	assert.False(t, found)

	served, revenue := ledger.Stats()
	assert.Equal(t, 1, served)
	assert.InDelta(t, 8.50, revenue, 0.001)
}

func TestUpdateStatus_FreeFormProgression(t *testing.T) {
	ledger, tables := newTestLedger(t)
	require.True(t, tables.Reserve(1, "visitor"))

	o := ledger.Create(1, []Line{{Name: "Burger", Quantity: 1, UnitPrice: 8.50}})
	require.NotNil(t, o)

	// The ledger itself does not guard ordering; that lives upstream.
	for _, status := range []Status{StatusCooking, StatusReady} {
		snapshot, found := ledger.UpdateStatus(o.ID, status, "")
		require.True(t, found)
		assert.Equal(t, status, snapshot.Status)
	}
}

func TestCancel(t *testing.T) {
	ledger, tables := newTestLedger(t)
	require.True(t, tables.Reserve(1, "visitor"))

	o := ledger.Create(1, []Line{{Name: "Cola", Quantity: 1, UnitPrice: 2.50}})
	require.NotNil(t, o)

	cancelled, found := ledger.Cancel(o.ID)
	require.True(t, found)
	assert.Equal(t, StatusCancelled, cancelled.Status)

	_, found = ledger.Get(o.ID)
	assert.False(t, found)

	// Cancelled orders earn nothing.
	served, revenue := ledger.Stats()
	assert.Zero(t, served)
	assert.Zero(t, revenue)
}

func TestActive(t *testing.T) {
	ledger, tables := newTestLedger(t)
	require.True(t, tables.Reserve(1, "visitor"))
	require.True(t, tables.Reserve(2, "visitor"))

	ledger.Create(1, []Line{{Name: "Burger", Quantity: 1, UnitPrice: 8.50}})
	ledger.Create(2, []Line{{Name: "Cola", Quantity: 1, UnitPrice: 2.50}})

	assert.Len(t, ledger.Active(), 2)
}
