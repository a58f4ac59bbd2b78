// visitor implements the client-local mirror of a visitor's progress
// through the restaurant. The machine is a read-only projection of server
// state: every transition is a no-op unless the machine sits in the
// required source phase, which makes it idempotent against duplicate and
// late relay events.
package visitor

import (
	"sync"
	"time"

	"github.com/bistroduet/gameserver/order"
	"github.com/bistroduet/gameserver/world"
)

type Phase string

const (
	PhaseEntrance          Phase = "entrance"
	PhaseReception         Phase = "reception"
	PhaseBooking           Phase = "booking"
	PhaseWaiterApproaching Phase = "waiter_approaching"
	PhaseWalkingToTable    Phase = "walking_to_table"
	PhaseAtTable           Phase = "at_table"
	PhaseSeated            Phase = "seated"
	PhaseMenuRequested     Phase = "menu_requested"
	PhaseOrdering          Phase = "ordering"
	PhaseWaiting           Phase = "waiting"
	PhaseServed            Phase = "served"
	PhaseRating            Phase = "rating"
	PhaseComplete          Phase = "complete"
)

// Config carries the proximity radii. Values mirror the server defaults.
type Config struct {
	EntranceRadius float64
	TableRadius    float64
	NPCRadius      float64
}

func DefaultConfig() Config {
	return Config{
		EntranceRadius: 5.0,
		TableRadius:    2.5,
		NPCRadius:      3.0,
	}
}

// State is everything the visitor client tracks locally.
type State struct {
	CurrentTable      int
	TablePosition     world.Position
	SelectedTableSize int
	CurrentOrder      *order.Order
	Rating            int

	ReceptionDone    bool
	Seated           bool
	WaiterApproached bool
	MenuRequested    bool
}

type Machine struct {
	phase Phase
	state State
	cfg   Config
	now   func() time.Time
	mutex sync.Mutex
}

// NewMachine starts at the entrance. now is injectable for tests.
func NewMachine(cfg Config, now func() time.Time) *Machine {
	if now == nil {
		now = time.Now
	}
	return &Machine{
		phase: PhaseEntrance,
		cfg:   cfg,
		now:   now,
	}
}

func (m *Machine) Phase() Phase {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.phase
}

func (m *Machine) State() State {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.state
}

// guard advances only from the expected phase; anything else is ignored.
func (m *Machine) guard(from, to Phase) bool {
	if m.phase != from {
		return false
	}
	m.phase = to
	return true
}

// UpdatePosition feeds the local avatar position into the proximity
// triggers: crossing the door threshold and arriving at the assigned
// table.
func (m *Machine) UpdatePosition(pos world.Position) bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	switch m.phase {
	case PhaseEntrance:
		if world.Within(pos, world.EntranceDoor, m.cfg.EntranceRadius) {
			m.state.ReceptionDone = true
			return m.guard(PhaseEntrance, PhaseReception)
		}
	case PhaseWalkingToTable:
		if world.Within(pos, m.state.TablePosition, m.cfg.TableRadius) {
			return m.guard(PhaseWalkingToTable, PhaseAtTable)
		}
	}
	return false
}

// SelectPartySize is the reception interaction.
func (m *Machine) SelectPartySize(size int) bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.phase != PhaseReception || size <= 0 {
		return false
	}
	m.state.SelectedTableSize = size
	return m.guard(PhaseReception, PhaseBooking)
}

// TableAssigned is the server's booking confirmation.
func (m *Machine) TableAssigned(tableID int, pos world.Position) bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.phase != PhaseBooking {
		return false
	}
	m.state.CurrentTable = tableID
	m.state.TablePosition = pos
	return m.guard(PhaseBooking, PhaseWaiterApproaching)
}

// WaiterApproached fires on the server's delayed dispatch signal.
func (m *Machine) WaiterApproached() bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.guard(PhaseWaiterApproaching, PhaseWalkingToTable) {
		m.state.WaiterApproached = true
		return true
	}
	return false
}

// SitDown is the explicit user action at the table.
func (m *Machine) SitDown() bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.guard(PhaseAtTable, PhaseSeated) {
		m.state.Seated = true
		return true
	}
	return false
}

// RequestMenu asks the waiter for the menu.
func (m *Machine) RequestMenu() bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.guard(PhaseSeated, PhaseMenuRequested) {
		m.state.MenuRequested = true
		return true
	}
	return false
}

// MenuBrought fires when the menu arrives after the bringing delay.
func (m *Machine) MenuBrought() bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.guard(PhaseMenuRequested, PhaseOrdering)
}

// OrderSubmitted records the acknowledged order. Requires at least one
// item and an assigned table.
func (m *Machine) OrderSubmitted(o order.Order) bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.phase != PhaseOrdering || len(o.Items) == 0 || m.state.CurrentTable == 0 {
		return false
	}
	m.state.CurrentOrder = &o
	return m.guard(PhaseOrdering, PhaseWaiting)
}

// OrderServed reacts to the matching order reaching "served".
func (m *Machine) OrderServed(orderID string) bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.phase != PhaseWaiting {
		return false
	}
	if m.state.CurrentOrder == nil || m.state.CurrentOrder.ID != orderID {
		return false
	}
	m.state.CurrentOrder.Status = order.StatusServed
	return m.guard(PhaseWaiting, PhaseServed)
}

// StartRating moves on to the rating prompt.
func (m *Machine) StartRating() bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.guard(PhaseServed, PhaseRating)
}

// SubmitRating finishes the visit. The order snapshot is kept until the
// rating lands.
func (m *Machine) SubmitRating(rating int) bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.phase != PhaseRating || rating < 1 || rating > 5 {
		return false
	}
	m.state.Rating = rating
	m.state.CurrentOrder = nil
	return m.guard(PhaseRating, PhaseComplete)
}

// NearNPC reports whether pos is within talking distance of a landmark,
// the alternative trigger for requesting the menu.
func (m *Machine) NearNPC(pos, npc world.Position) bool {
	return world.Within(pos, npc, m.cfg.NPCRadius)
}
