// models holds the typed wire payloads, one struct per message id, plus
// the records handed to persistence. Every payload crossing the relay is
// one of these; nothing is decoded into untyped maps.
package models

import (
	"encoding/json"
	"time"

	"github.com/bistroduet/gameserver/menu"
	"github.com/bistroduet/gameserver/order"
	"github.com/bistroduet/gameserver/table"
	"github.com/bistroduet/gameserver/world"
)

// PlayerInfo is the room-visible view of one player.
type PlayerInfo struct {
	SessionID string         `json:"session_id"`
	Role      string         `json:"role"`
	Username  string         `json:"username"`
	Position  world.Position `json:"position"`
	Rotation  world.Rotation `json:"rotation"`
}

// --- room lifecycle ---

type JoinRoomRequest struct {
	RoomID   string `json:"room_id"`
	Role     string `json:"role"`
	Username string `json:"username"`
}

// RoomJoined is the full snapshot replied to a joiner: peers, floor plan,
// menu, and any in-flight orders.
type RoomJoined struct {
	RoomID    string         `json:"room_id"`
	SessionID string         `json:"session_id"`
	Role      string         `json:"role"`
	Spawn     world.Position `json:"spawn"`
	Players   []PlayerInfo   `json:"players"`
	Tables    []table.Table  `json:"tables"`
	Menu      []menu.Item    `json:"menu"`
	Orders    []order.Order  `json:"orders"`
}

type PlayerJoined struct {
	Player PlayerInfo `json:"player"`
}

type PlayerLeft struct {
	SessionID string `json:"session_id"`
	Role      string `json:"role"`
}

type JoinRejected struct {
	Message string `json:"message"`
}

// --- movement and generic actions ---

type MoveRequest struct {
	Position world.Position `json:"position"`
	Rotation world.Rotation `json:"rotation"`
}

type PlayerMoved struct {
	SessionID string         `json:"session_id"`
	Position  world.Position `json:"position"`
	Rotation  world.Rotation `json:"rotation"`
}

type PlayerAction struct {
	SessionID string          `json:"session_id,omitempty"`
	Action    string          `json:"action"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// --- table booking ---

type BookTableRequest struct {
	TableSize int `json:"table_size"`
}

type TableAssigned struct {
	TableID  int            `json:"table_id"`
	Position world.Position `json:"position"`
}

type TableUnavailable struct {
	Message string `json:"message"`
}

// TableBooked tells the peer which table just went out of circulation.
type TableBooked struct {
	TableID int    `json:"table_id"`
	By      string `json:"by"`
}

// --- order flow ---

type PlaceOrderRequest struct {
	TableID int          `json:"table_id"`
	Items   []order.Line `json:"items"`
}

type OrderPlaced struct {
	Order order.Order `json:"order"`
}

type OrderReceived struct {
	Order order.Order `json:"order"`
}

type OrderStatusUpdate struct {
	OrderID string       `json:"order_id"`
	Status  order.Status `json:"status"`
}

type OrderStatusChanged struct {
	OrderID string       `json:"order_id"`
	Status  order.Status `json:"status"`
	Dish    string       `json:"dish,omitempty"`
	TableID int          `json:"table_id,omitempty"`
}

// OrderCompleted is the chef's ready report.
type OrderCompleted struct {
	OrderID        string  `json:"order_id"`
	CompletionTime float64 `json:"completion_time_seconds"`
	WasOnTime      bool    `json:"was_on_time"`
}

type OrderReady struct {
	OrderID   string `json:"order_id"`
	Dish      string `json:"dish"`
	TableID   int    `json:"table_id"`
	WasOnTime bool   `json:"was_on_time"`
}

// OrderRejected is the synchronous refusal of a place-order request; it
// goes to the requester only.
type OrderRejected struct {
	Message string `json:"message"`
}

// OrderCancelled carries the compensation policy outcome to both roles.
type OrderCancelled struct {
	OrderID      string `json:"order_id"`
	Reason       string `json:"reason"`
	Compensation string `json:"compensation,omitempty"`
}

// --- informational relays ---

type WaiterLine struct {
	Situation string `json:"situation"`
	Text      string `json:"text"`
}

type MenuBrought struct {
	Items []menu.Item `json:"items"`
}

// --- ratings / session end ---

type SubmitRating struct {
	Rating int `json:"rating"`
}

type RatingShared struct {
	Rating int    `json:"rating"`
	By     string `json:"by"`
}

type SessionEnded struct {
	Players      []PlayerInfo `json:"players"`
	OrdersServed int          `json:"orders_served"`
	Revenue      float64      `json:"revenue"`
	Rating       int          `json:"rating,omitempty"`
	CompletedAt  time.Time    `json:"completed_at"`
}

// SessionRecord is what persistence keeps after a room is torn down.
type SessionRecord struct {
	RoomID       string        `json:"room_id"`
	Players      []PlayerInfo  `json:"players"`
	OrdersServed int           `json:"orders_served"`
	Revenue      float64       `json:"revenue"`
	Rating       int           `json:"rating"`
	Duration     time.Duration `json:"duration"`
	CompletedAt  time.Time     `json:"completed_at"`
}
