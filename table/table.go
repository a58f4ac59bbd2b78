package table

import (
	"sync"
	"time"

	"github.com/bistroduet/gameserver/world"
)

// Table is one seat group of the fixed floor plan. Tables are created with
// the room and live until the room is torn down; only the reservation
// fields ever change.
type Table struct {
	ID         int            `json:"id"`
	Position   world.Position `json:"position"`
	Capacity   int            `json:"capacity"`
	IsOccupied bool           `json:"is_occupied"`
	ReservedBy string         `json:"reserved_by,omitempty"`
	ReservedAt time.Time      `json:"reserved_at,omitempty"`
	OrderID    string         `json:"order_id,omitempty"`
}

// Inventory is the per-room table set. First-fit on the layout order; no
// attempt to minimize wasted seats.
type Inventory struct {
	tables []*Table
	mutex  sync.RWMutex
}

// NewInventory instantiates the static layout for a fresh room.
func NewInventory() *Inventory {
	inv := &Inventory{}
	for _, spot := range world.TableLayout {
		inv.tables = append(inv.tables, &Table{
			ID:       spot.ID,
			Position: spot.Position,
			Capacity: spot.Capacity,
		})
	}
	return inv
}

// FindAvailable returns the first free table seating at least size guests,
// or false when the room cannot seat the party.
func (inv *Inventory) FindAvailable(size int) (Table, bool) {
	inv.mutex.RLock()
	defer inv.mutex.RUnlock()

	for _, t := range inv.tables {
		if !t.IsOccupied && t.Capacity >= size {
			return *t, true
		}
	}
	return Table{}, false
}

// Reserve claims a table for one party. Returns false when the table is
// unknown or already occupied; the caller surfaces "unavailable" to the
// requester.
func (inv *Inventory) Reserve(tableID int, who string) bool {
	inv.mutex.Lock()
	defer inv.mutex.Unlock()

	t := inv.lookup(tableID)
	if t == nil || t.IsOccupied {
		return false
	}

	t.IsOccupied = true
	t.ReservedBy = who
	t.ReservedAt = time.Now()
	return true
}

// Release frees a table. Idempotent: releasing a free table returns false
// without error.
func (inv *Inventory) Release(tableID int) bool {
	inv.mutex.Lock()
	defer inv.mutex.Unlock()

	t := inv.lookup(tableID)
	if t == nil || !t.IsOccupied {
		return false
	}

	t.IsOccupied = false
	t.ReservedBy = ""
	t.ReservedAt = time.Time{}
	t.OrderID = ""
	return true
}

// LinkOrder attaches an order id to a reserved table.
func (inv *Inventory) LinkOrder(tableID int, orderID string) bool {
	inv.mutex.Lock()
	defer inv.mutex.Unlock()

	t := inv.lookup(tableID)
	if t == nil || !t.IsOccupied {
		return false
	}
	t.OrderID = orderID
	return true
}

// Get returns a copy of one table.
func (inv *Inventory) Get(tableID int) (Table, bool) {
	inv.mutex.RLock()
	defer inv.mutex.RUnlock()

	t := inv.lookup(tableID)
	if t == nil {
		return Table{}, false
	}
	return *t, true
}

// Snapshot returns the whole floor plan for a late joiner.
func (inv *Inventory) Snapshot() []Table {
	inv.mutex.RLock()
	defer inv.mutex.RUnlock()

	out := make([]Table, 0, len(inv.tables))
	for _, t := range inv.tables {
		out = append(out, *t)
	}
	return out
}

// ReservedBy returns tables currently held by one party.
func (inv *Inventory) ReservedByParty(who string) []Table {
	inv.mutex.RLock()
	defer inv.mutex.RUnlock()

	var out []Table
	for _, t := range inv.tables {
		if t.IsOccupied && t.ReservedBy == who {
			out = append(out, *t)
		}
	}
	return out
}

func (inv *Inventory) lookup(tableID int) *Table {
	for _, t := range inv.tables {
		if t.ID == tableID {
			return t
		}
	}
	return nil
}
