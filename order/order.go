package order

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bistroduet/gameserver/menu"
	"github.com/bistroduet/gameserver/table"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCooking   Status = "cooking"
	StatusReady     Status = "ready"
	StatusServed    Status = "served"
	StatusCancelled Status = "cancelled"
)

// Line is one dish of an order. Total carries the already-multiplied line
// price; the order total is the sum of line totals.
type Line struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Total     float64 `json:"total"`
}

type Order struct {
	ID        string        `json:"id"`
	TableID   int           `json:"table_id"`
	Items     []Line        `json:"items"`
	Total     float64       `json:"total"`
	Status    Status        `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	Estimate  time.Duration `json:"estimate"`
	ChefID    string        `json:"chef_id,omitempty"`
}

// Ledger is the authoritative per-room order record. Status writes are
// free-form overwrites here; sequencing guards live in the protocol
// handler and the phase machines.
type Ledger struct {
	orders  map[string]*Order
	tables  *table.Inventory
	catalog *menu.Catalog

	servedCount int
	revenue     float64
	mutex       sync.RWMutex
}

func NewLedger(tables *table.Inventory, catalog *menu.Catalog) *Ledger {
	return &Ledger{
		orders:  make(map[string]*Order),
		tables:  tables,
		catalog: catalog,
	}
}

// Create records a new pending order for an occupied table. Returns nil
// when the table has no active reservation.
func (l *Ledger) Create(tableID int, lines []Line) *Order {
	t, ok := l.tables.Get(tableID)
	if !ok || !t.IsOccupied {
		return nil
	}

	l.mutex.Lock()
	defer l.mutex.Unlock()

	reqs := make([]menu.Request, 0, len(lines))
	var total float64
	for i := range lines {
		if lines[i].Total == 0 {
			lines[i].Total = lines[i].UnitPrice * float64(lines[i].Quantity)
		}
		total += lines[i].Total
		reqs = append(reqs, menu.Request{Name: lines[i].Name, Quantity: lines[i].Quantity})
	}

	o := &Order{
		ID:        newOrderID(),
		TableID:   tableID,
		Items:     lines,
		Total:     total,
		Status:    StatusPending,
		CreatedAt: time.Now(),
		Estimate:  l.catalog.EstimateTime(reqs),
	}
	l.orders[o.ID] = o
	l.tables.LinkOrder(tableID, o.ID)
	return o
}

// UpdateStatus overwrites an order's status. A served order leaves the
// ledger so memory stays bounded; repeat updates for a gone id are no-ops.
func (l *Ledger) UpdateStatus(orderID string, status Status, chefID string) (Order, bool) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	o, ok := l.orders[orderID]
	if !ok {
		return Order{}, false
	}

	o.Status = status
	if chefID != "" {
		o.ChefID = chefID
	}

	snapshot := *o
	if status == StatusServed {
		l.servedCount++
		l.revenue += o.Total
		delete(l.orders, orderID)
	}
	return snapshot, true
}

// Cancel removes a non-served order, used for disconnect and timeout
// compensation.
func (l *Ledger) Cancel(orderID string) (Order, bool) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	o, ok := l.orders[orderID]
	if !ok {
		return Order{}, false
	}

	o.Status = StatusCancelled
	snapshot := *o
	delete(l.orders, orderID)
	return snapshot, true
}

func (l *Ledger) Get(orderID string) (Order, bool) {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	o, ok := l.orders[orderID]
	if !ok {
		return Order{}, false
	}
	return *o, true
}

// Active returns every order still on the ledger.
func (l *Ledger) Active() []Order {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	out := make([]Order, 0, len(l.orders))
	for _, o := range l.orders {
		out = append(out, *o)
	}
	return out
}

// Stats returns served count and revenue for the session summary.
func (l *Ledger) Stats() (served int, revenue float64) {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	return l.servedCount, l.revenue
}

// newOrderID is collision-resistant within a room's lifetime: wall-clock
// millis plus a uuid fragment.
func newOrderID() string {
	return fmt.Sprintf("ord-%d-%s", time.Now().UnixMilli(), uuid.New().String()[:8])
}
