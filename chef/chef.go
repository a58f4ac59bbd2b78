// chef implements the client-local mirror of the chef's cook loop.
// Cooking progress is a pure function of the injected clock, sampled on
// the render tick, so progress bars stay smooth between relay events and
// tests never need real timers.
package chef

import (
	"math"
	"sync"
	"time"

	"github.com/bistroduet/gameserver/menu"
	"github.com/bistroduet/gameserver/order"
)

type Phase string

const (
	PhaseSpawn           Phase = "spawn"
	PhaseTutorial        Phase = "tutorial"
	PhaseWaitingForOrder Phase = "waiting_for_order"
	PhaseCooking         Phase = "cooking"
	PhaseServing         Phase = "serving"
)

// State is the chef's local scoreboard and current-order view.
type State struct {
	CurrentOrder      *order.Order
	CookingProgress   float64 // 0..100
	TimeRemaining     float64 // seconds
	Score             int
	CompletedOrders   int
	IsInKitchen       bool
	TutorialCompleted bool
}

type Machine struct {
	phase     Phase
	state     State
	startedAt time.Time
	estimate  time.Duration
	now       func() time.Time
	mutex     sync.Mutex
}

func NewMachine(now func() time.Time) *Machine {
	if now == nil {
		now = time.Now
	}
	return &Machine{
		phase: PhaseSpawn,
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

// EnterKitchen starts the tutorial on the first visit; later visits are
// recorded but change nothing.
func (m *Machine) EnterKitchen() bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.state.IsInKitchen = true
	if m.phase != PhaseSpawn {
		return false
	}
	m.phase = PhaseTutorial
	return true
}

// CompleteTutorial sets the one-way tutorialCompleted flag; it is never
// reset.
func (m *Machine) CompleteTutorial() bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.phase != PhaseTutorial {
		return false
	}
	m.state.TutorialCompleted = true
	m.phase = PhaseWaitingForOrder
	return true
}

// HandleOrder accepts an incoming order from the relay and starts the
// cook timer.
func (m *Machine) HandleOrder(o order.Order) bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.phase != PhaseWaitingForOrder {
		return false
	}

	m.state.CurrentOrder = &o
	m.estimate = o.Estimate
	m.startedAt = m.now()
	m.state.CookingProgress = 0
	m.state.TimeRemaining = o.Estimate.Seconds()
	m.phase = PhaseCooking
	return true
}

// Tick samples elapsed time and recomputes progress. Reaching 100%
// auto-transitions to serving and computes the score; no user action
// distinguishes "fully cooked" from "served" here.
func (m *Machine) Tick() (progress float64, remaining float64) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.phase != PhaseCooking {
		return m.state.CookingProgress, m.state.TimeRemaining
	}

	elapsed := m.now().Sub(m.startedAt).Seconds()
	total := m.estimate.Seconds()

	progress = 100
	remaining = 0
	if total > 0 {
		progress = math.Min(elapsed/total*100, 100)
		remaining = math.Max(total-elapsed, 0)
	}
	m.state.CookingProgress = progress
	m.state.TimeRemaining = remaining

	if progress >= 100 {
		m.completeCooking()
	}
	return progress, remaining
}

// completeCooking scores the dish and moves to serving. Caller holds the
// lock.
func (m *Machine) completeCooking() {
	dish := ""
	if m.state.CurrentOrder != nil && len(m.state.CurrentOrder.Items) > 0 {
		dish = m.state.CurrentOrder.Items[0].Name
	}
	m.state.Score += ScoreFor(dish, m.estimate.Seconds(), m.state.TimeRemaining)
	m.phase = PhaseServing
}

// Serve is the explicit hand-off that clears the current order and loops
// back to waiting.
func (m *Machine) Serve() bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.phase != PhaseServing {
		return false
	}

	m.state.CurrentOrder = nil
	m.state.CookingProgress = 0
	m.state.TimeRemaining = 0
	m.state.CompletedOrders++
	m.phase = PhaseWaitingForOrder
	return true
}

// ScoreFor is the serving score: the dish's base value plus ten points
// per second of time bonus, where the bonus is the estimate minus the
// remaining clock, floored at zero.
func ScoreFor(dish string, estimatedSecs, remainingSecs float64) int {
	timeBonus := math.Max(0, estimatedSecs-remainingSecs)
	return menu.BaseScore(dish) + int(math.Floor(timeBonus*10))
}
