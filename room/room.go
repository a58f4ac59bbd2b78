// room/room.go
package room

import (
	"errors"
	"sync"
	"time"

	"github.com/bistroduet/gameserver/menu"
	"github.com/bistroduet/gameserver/models"
	"github.com/bistroduet/gameserver/network"
	"github.com/bistroduet/gameserver/order"
	"github.com/bistroduet/gameserver/session"
	"github.com/bistroduet/gameserver/state"
	"github.com/bistroduet/gameserver/table"
	"github.com/bistroduet/gameserver/world"
)

const (
	RoleVisitor = "visitor"
	RoleChef    = "chef"

	// Two players per room, one per role.
	MaxPlayers = 2
)

var (
	ErrRoomFull  = errors.New("room is full")
	ErrRoleTaken = errors.New("role already taken")
)

// Player is the room's authoritative record of one participant. Position
// and rotation are opaque to everything but proximity math and late-join
// snapshots.
type Player struct {
	Session  *session.Session
	Role     string
	Username string
	Position world.Position
	Rotation world.Rotation
	JoinedAt time.Time
}

// Room is one isolated two-player service session. It owns the player
// records, the table inventory, the menu stock and the order ledger, and
// runs a small lifecycle state machine on a tick loop.
type Room struct {
	ID           string
	CreatedAt    time.Time
	Players      map[string]*Player // sessionID -> player
	Tables       *table.Inventory
	Catalog      *menu.Catalog
	Orders       *order.Ledger
	StateMachine state.StateMachine
	Rating       int

	cookingGrace time.Duration
	broadcaster  Broadcaster
	playerMutex  sync.RWMutex
	ratingMutex  sync.Mutex
	ticker       *time.Ticker
	closeChan    chan bool
	closeOnce    sync.Once
}

// NewRoom creates a room with a fresh table inventory and menu stock.
func NewRoom(id string, cookingGrace time.Duration, broadcaster Broadcaster) *Room {
	tables := table.NewInventory()
	catalog := menu.DefaultCatalog()

	room := &Room{
		ID:           id,
		CreatedAt:    time.Now(),
		Players:      make(map[string]*Player),
		Tables:       tables,
		Catalog:      catalog,
		Orders:       order.NewLedger(tables, catalog),
		cookingGrace: cookingGrace,
		broadcaster:  broadcaster,
		closeChan:    make(chan bool),
	}

	room.StateMachine = state.NewBaseStateMachine(state.NewWaitingState(room))

	room.ticker = time.NewTicker(100 * time.Millisecond) // 10 FPS
	go room.loop()

	return room
}

// --- state.RoomContext ---

func (r *Room) GetID() string {
	return r.ID
}

func (r *Room) HasRole(role string) bool {
	_, ok := r.GetByRole(role)
	return ok
}

func (r *Room) ActiveOrders() []order.Order {
	return r.Orders.Active()
}

func (r *Room) CookingGrace() time.Duration {
	return r.cookingGrace
}

// CompensateOrder cancels an order that blew its cooking budget and tells
// the room the dish is on the house.
func (r *Room) CompensateOrder(o order.Order) {
	cancelled, ok := r.Orders.Cancel(o.ID)
	if !ok {
		return
	}
	r.Tables.Release(cancelled.TableID)
	payload := models.OrderCancelled{
		OrderID:      cancelled.ID,
		Reason:       "cooking timeout",
		Compensation: "free dish",
	}
	r.Broadcast(network.MsgTypeOrderCancelled, network.Marshal(payload))
}

func (r *Room) ChangeState(newState state.State) error {
	return r.StateMachine.ChangeState(newState)
}

func (r *Room) Broadcast(msgID uint16, data []byte) error {
	return r.broadcaster.BroadcastToRoom(r.ID, msgID, data)
}

// --- player records ---

// AddPlayer enforces room capacity and role uniqueness.
func (r *Room) AddPlayer(s *session.Session, role, username string) (*Player, error) {
	r.playerMutex.Lock()
	defer r.playerMutex.Unlock()

	if len(r.Players) >= MaxPlayers {
		return nil, ErrRoomFull
	}
	for _, p := range r.Players {
		if p.Role == role {
			return nil, ErrRoleTaken
		}
	}

	player := &Player{
		Session:  s,
		Role:     role,
		Username: username,
		Position: world.SpawnFor(role),
		JoinedAt: time.Now(),
	}
	r.Players[s.ID] = player
	s.RoomID = r.ID
	s.SetIdentity(role, username)
	return player, nil
}

// RemovePlayer drops a player record and reports whether the room is now
// empty. Teardown of empty rooms is the manager's job.
func (r *Room) RemovePlayer(sessionID string) (*Player, bool) {
	r.playerMutex.Lock()
	defer r.playerMutex.Unlock()

	player, exists := r.Players[sessionID]
	if exists {
		player.Session.RoomID = ""
		delete(r.Players, sessionID)
	}
	return player, len(r.Players) == 0
}

func (r *Room) GetPlayer(sessionID string) (*Player, bool) {
	r.playerMutex.RLock()
	defer r.playerMutex.RUnlock()

	player, exists := r.Players[sessionID]
	return player, exists
}

// GetByRole finds the visitor or the chef.
func (r *Room) GetByRole(role string) (*Player, bool) {
	r.playerMutex.RLock()
	defer r.playerMutex.RUnlock()

	for _, p := range r.Players {
		if p.Role == role {
			return p, true
		}
	}
	return nil, false
}

// Peers returns every player except the given session.
func (r *Room) Peers(exceptSessionID string) []*Player {
	r.playerMutex.RLock()
	defer r.playerMutex.RUnlock()

	peers := make([]*Player, 0, len(r.Players))
	for id, p := range r.Players {
		if id != exceptSessionID {
			peers = append(peers, p)
		}
	}
	return peers
}

// UpdatePosition stores the latest reported transform so late joiners get
// a consistent snapshot. Not otherwise validated.
func (r *Room) UpdatePosition(sessionID string, pos world.Position, rot world.Rotation) {
	r.playerMutex.Lock()
	defer r.playerMutex.Unlock()

	if p, exists := r.Players[sessionID]; exists {
		p.Position = pos
		p.Rotation = rot
	}
}

// PlayerInfos is the wire view of everyone in the room.
func (r *Room) PlayerInfos() []models.PlayerInfo {
	r.playerMutex.RLock()
	defer r.playerMutex.RUnlock()

	infos := make([]models.PlayerInfo, 0, len(r.Players))
	for id, p := range r.Players {
		infos = append(infos, models.PlayerInfo{
			SessionID: id,
			Role:      p.Role,
			Username:  p.Username,
			Position:  p.Position,
			Rotation:  p.Rotation,
		})
	}
	return infos
}

func (r *Room) PlayerCount() int {
	r.playerMutex.RLock()
	defer r.playerMutex.RUnlock()
	return len(r.Players)
}

func (r *Room) SetRating(rating int) {
	r.ratingMutex.Lock()
	defer r.ratingMutex.Unlock()
	r.Rating = rating
}

func (r *Room) GetRating() int {
	r.ratingMutex.Lock()
	defer r.ratingMutex.Unlock()
	return r.Rating
}

// Summary builds the end-of-session aggregate.
func (r *Room) Summary() models.SessionRecord {
	served, revenue := r.Orders.Stats()
	return models.SessionRecord{
		RoomID:       r.ID,
		Players:      r.PlayerInfos(),
		OrdersServed: served,
		Revenue:      revenue,
		Rating:       r.GetRating(),
		Duration:     time.Since(r.CreatedAt),
		CompletedAt:  time.Now(),
	}
}

// loop drives the lifecycle state machine.
func (r *Room) loop() {
	for {
		select {
		case <-r.ticker.C:
			r.Update()
		case <-r.closeChan:
			r.ticker.Stop()
			return
		}
	}
}

func (r *Room) Update() {
	if r.StateMachine != nil {
		if currentState := r.StateMachine.GetCurrentState(); currentState != nil {
			currentState.OnUpdate()
		}
	}
}

func (r *Room) Close() {
	r.closeOnce.Do(func() {
		close(r.closeChan)
	})
}
