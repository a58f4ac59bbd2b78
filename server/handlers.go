package server

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/bistroduet/gameserver/dialogue"
	"github.com/bistroduet/gameserver/logger"
	"github.com/bistroduet/gameserver/menu"
	"github.com/bistroduet/gameserver/models"
	"github.com/bistroduet/gameserver/network"
	"github.com/bistroduet/gameserver/order"
	"github.com/bistroduet/gameserver/room"
	"github.com/bistroduet/gameserver/session"
	"github.com/bistroduet/gameserver/state"
)

// buildBatch fills missing unit prices from the room's catalog and
// returns the availability-check batch for the order lines.
func (s *GameServer) buildBatch(r *room.Room, req *models.PlaceOrderRequest) []menu.Request {
	batch := make([]menu.Request, 0, len(req.Items))
	for i := range req.Items {
		if req.Items[i].UnitPrice == 0 {
			if item, ok := r.Catalog.Get(req.Items[i].Name); ok {
				req.Items[i].UnitPrice = item.Price
			}
		}
		batch = append(batch, menu.Request{
			Name:     req.Items[i].Name,
			Quantity: req.Items[i].Quantity,
		})
	}
	return batch
}

func (s *GameServer) handleJoinRoom(sess *session.Session, packet *network.Packet) {
	var req models.JoinRoomRequest
	if err := json.Unmarshal(packet.Data, &req); err != nil {
		logger.Log.Warnf("Malformed join-room from %s: %v", sess.GetID(), err)
		return
	}
	if req.RoomID == "" || (req.Role != room.RoleVisitor && req.Role != room.RoleChef) {
		logger.Log.Warnf("Invalid join-room from %s: room=%q role=%q", sess.GetID(), req.RoomID, req.Role)
		return
	}

	r, created := s.roomManager.CreateOrGet(req.RoomID, s.broadcaster)
	if created {
		logger.Log.Infof("Room %s created", req.RoomID)
		s.mon.SetActiveRooms(s.roomManager.Count())
	}

	player, err := r.AddPlayer(sess, req.Role, req.Username)
	if err != nil {
		// Capacity and conflict rejections go to the requester only.
		switch {
		case errors.Is(err, room.ErrRoomFull):
			sess.SendPayload(network.MsgTypeRoomFull, models.JoinRejected{Message: "room already has two players"})
		case errors.Is(err, room.ErrRoleTaken):
			sess.SendPayload(network.MsgTypeRoleTaken, models.JoinRejected{Message: "role " + req.Role + " is already taken"})
		}
		return
	}

	logger.Log.Infof("Session %s joined room %s as %s", sess.GetID(), req.RoomID, req.Role)

	// Full snapshot to the joiner, incremental event to the peer.
	sess.SendPayload(network.MsgTypeRoomJoined, models.RoomJoined{
		RoomID:    r.ID,
		SessionID: sess.GetID(),
		Role:      player.Role,
		Spawn:     player.Position,
		Players:   r.PlayerInfos(),
		Tables:    r.Tables.Snapshot(),
		Menu:      r.Catalog.Items(),
		Orders:    r.Orders.Active(),
	})

	s.broadcaster.BroadcastToOthers(r.ID, sess.GetID(), network.MsgTypePlayerJoined, network.Marshal(models.PlayerJoined{
		Player: models.PlayerInfo{
			SessionID: sess.GetID(),
			Role:      player.Role,
			Username:  player.Username,
			Position:  player.Position,
		},
	}))

	if req.Role == room.RoleVisitor {
		s.sendWaiterLine(r.ID, dialogue.SituationGreeting, req.Username)
	}
}

func (s *GameServer) handlePlayerMove(sess *session.Session, packet *network.Packet) {
	r, ok := s.currentRoom(sess)
	if !ok {
		return
	}

	var req models.MoveRequest
	if err := json.Unmarshal(packet.Data, &req); err != nil {
		logger.Log.Warnf("Malformed player-move from %s: %v", sess.GetID(), err)
		return
	}

	// Stored for late-join snapshot consistency, not validated.
	r.UpdatePosition(sess.GetID(), req.Position, req.Rotation)

	s.broadcaster.BroadcastToOthers(r.ID, sess.GetID(), network.MsgTypePlayerMoved, network.Marshal(models.PlayerMoved{
		SessionID: sess.GetID(),
		Position:  req.Position,
		Rotation:  req.Rotation,
	}))
}

func (s *GameServer) handlePlayerAction(sess *session.Session, packet *network.Packet) {
	r, ok := s.currentRoom(sess)
	if !ok {
		return
	}

	var req models.PlayerAction
	if err := json.Unmarshal(packet.Data, &req); err != nil {
		logger.Log.Warnf("Malformed player-action from %s: %v", sess.GetID(), err)
		return
	}
	req.SessionID = sess.GetID()

	s.broadcaster.BroadcastToOthers(r.ID, sess.GetID(), network.MsgTypePlayerAction, network.Marshal(req))
}

func (s *GameServer) handleBookTable(sess *session.Session, packet *network.Packet) {
	r, ok := s.currentRoom(sess)
	if !ok {
		return
	}
	if sess.GetRole() != room.RoleVisitor {
		logger.Log.Warnf("Non-visitor %s tried to book a table", sess.GetID())
		return
	}

	var req models.BookTableRequest
	if err := json.Unmarshal(packet.Data, &req); err != nil || req.TableSize <= 0 {
		logger.Log.Warnf("Malformed book-table from %s", sess.GetID())
		return
	}

	// First-fit against the authoritative copy. The find and the reserve
	// are two steps, so the reserve can still lose; both failures surface
	// as "unavailable" to the requester only.
	t, found := r.Tables.FindAvailable(req.TableSize)
	if !found || !r.Tables.Reserve(t.ID, sess.GetID()) {
		s.mon.IncBookingConflicts()
		sess.SendPayload(network.MsgTypeTableUnavailable, models.TableUnavailable{
			Message: "no free table for that party size",
		})
		return
	}

	sess.SendPayload(network.MsgTypeTableAssigned, models.TableAssigned{
		TableID:  t.ID,
		Position: t.Position,
	})

	s.broadcaster.BroadcastToOthers(r.ID, sess.GetID(), network.MsgTypeTableBooked, network.Marshal(models.TableBooked{
		TableID: t.ID,
		By:      sess.GetID(),
	}))

	// Simulated waiter dispatch: the approach signal arrives after a fixed
	// delay rather than instantly.
	roomID := r.ID
	s.timers.AddTimer(s.gameCfg.WaiterDelay, 0, func() {
		s.broadcaster.SendToRole(roomID, room.RoleVisitor, network.MsgTypeWaiterApproached, nil)
	})
	s.sendWaiterLine(r.ID, dialogue.SituationSeating, "")
}

func (s *GameServer) handlePlaceOrder(sess *session.Session, packet *network.Packet) {
	r, ok := s.currentRoom(sess)
	if !ok {
		return
	}
	if sess.GetRole() != room.RoleVisitor {
		logger.Log.Warnf("Non-visitor %s tried to place an order", sess.GetID())
		return
	}

	var req models.PlaceOrderRequest
	if err := json.Unmarshal(packet.Data, &req); err != nil {
		logger.Log.Warnf("Malformed place-order from %s: %v", sess.GetID(), err)
		return
	}
	if len(req.Items) == 0 {
		sess.SendPayload(network.MsgTypeOrderRejected, models.OrderRejected{Message: "order has no items"})
		return
	}

	batch := s.buildBatch(r, &req)
	if !r.Catalog.CheckAvailability(batch) {
		sess.SendPayload(network.MsgTypeOrderRejected, models.OrderRejected{Message: "some items are out of stock"})
		return
	}

	o := r.Orders.Create(req.TableID, req.Items)
	if o == nil {
		sess.SendPayload(network.MsgTypeOrderRejected, models.OrderRejected{Message: "table has no active reservation"})
		return
	}

	// Stock is consumed only after the whole batch passed the check.
	r.Catalog.Decrement(batch)
	s.mon.IncOrdersPlaced()

	s.broadcaster.SendToRole(r.ID, room.RoleChef, network.MsgTypeOrderReceived, network.Marshal(models.OrderReceived{Order: *o}))
	sess.SendPayload(network.MsgTypeOrderPlaced, models.OrderPlaced{Order: *o})

	dish := ""
	if len(o.Items) > 0 {
		dish = o.Items[0].Name
	}
	s.sendWaiterLine(r.ID, dialogue.SituationOrderAck, dish)
}

func (s *GameServer) handleOrderStatusUpdate(sess *session.Session, packet *network.Packet) {
	r, ok := s.currentRoom(sess)
	if !ok {
		return
	}

	var req models.OrderStatusUpdate
	if err := json.Unmarshal(packet.Data, &req); err != nil {
		logger.Log.Warnf("Malformed order-status-update from %s: %v", sess.GetID(), err)
		return
	}

	o, found := r.Orders.UpdateStatus(req.OrderID, req.Status, sess.GetID())
	if !found {
		// Late or repeated update for an order already off the ledger.
		return
	}

	dish := ""
	if len(o.Items) > 0 {
		dish = o.Items[0].Name
	}
	s.broadcaster.SendToRole(r.ID, room.RoleVisitor, network.MsgTypeOrderStatusChanged, network.Marshal(models.OrderStatusChanged{
		OrderID: o.ID,
		Status:  req.Status,
		Dish:    dish,
		TableID: o.TableID,
	}))

	if req.Status == order.StatusServed {
		s.sendWaiterLine(r.ID, dialogue.SituationServing, dish)
	}
}

func (s *GameServer) handleOrderCompleted(sess *session.Session, packet *network.Packet) {
	r, ok := s.currentRoom(sess)
	if !ok {
		return
	}

	var req models.OrderCompleted
	if err := json.Unmarshal(packet.Data, &req); err != nil {
		logger.Log.Warnf("Malformed order-completed from %s: %v", sess.GetID(), err)
		return
	}

	o, found := r.Orders.UpdateStatus(req.OrderID, order.StatusReady, sess.GetID())
	if !found {
		return
	}

	dish := ""
	if len(o.Items) > 0 {
		dish = o.Items[0].Name
	}
	s.broadcaster.SendToRole(r.ID, room.RoleVisitor, network.MsgTypeOrderReady, network.Marshal(models.OrderReady{
		OrderID:   o.ID,
		Dish:      dish,
		TableID:   o.TableID,
		WasOnTime: req.WasOnTime,
	}))
}

func (s *GameServer) handleSubmitRating(sess *session.Session, packet *network.Packet) {
	r, ok := s.currentRoom(sess)
	if !ok {
		return
	}

	var req models.SubmitRating
	if err := json.Unmarshal(packet.Data, &req); err != nil || req.Rating < 1 || req.Rating > 5 {
		logger.Log.Warnf("Invalid rating from %s", sess.GetID())
		return
	}

	r.SetRating(req.Rating)
	s.statsService.RecordRating(r.ID, req.Rating)

	s.broadcaster.BroadcastToRoom(r.ID, network.MsgTypeRatingShared, network.Marshal(models.RatingShared{
		Rating: req.Rating,
		By:     sess.GetID(),
	}))
}

// handleInfoRelay forwards informational signals (tutorial-completed,
// visitor-sat-down) to the peer unchanged.
func (s *GameServer) handleInfoRelay(sess *session.Session, packet *network.Packet) {
	r, ok := s.currentRoom(sess)
	if !ok {
		return
	}
	s.broadcaster.BroadcastToOthers(r.ID, sess.GetID(), packet.MsgID, packet.Data)
}

func (s *GameServer) handleMenuRequested(sess *session.Session, packet *network.Packet) {
	r, ok := s.currentRoom(sess)
	if !ok {
		return
	}

	s.broadcaster.BroadcastToOthers(r.ID, sess.GetID(), network.MsgTypeMenuRequested, packet.Data)

	// Menu-bringing simulation: the menu lands after a fixed delay.
	roomID := r.ID
	items := r.Catalog.Items()
	s.timers.AddTimer(s.gameCfg.MenuDelay, 0, func() {
		s.broadcaster.SendToRole(roomID, room.RoleVisitor, network.MsgTypeMenuBrought, network.Marshal(models.MenuBrought{Items: items}))
	})
	s.sendWaiterLine(r.ID, dialogue.SituationMenu, "")
}

func (s *GameServer) handleEndSession(sess *session.Session, packet *network.Packet) {
	r, ok := s.currentRoom(sess)
	if !ok {
		return
	}

	summary := r.Summary()
	r.ChangeState(state.NewSettlementState(r))

	s.broadcaster.BroadcastToRoom(r.ID, network.MsgTypeSessionEnded, network.Marshal(models.SessionEnded{
		Players:      summary.Players,
		OrdersServed: summary.OrdersServed,
		Revenue:      summary.Revenue,
		Rating:       summary.Rating,
		CompletedAt:  summary.CompletedAt,
	}))

	s.sendWaiterLine(r.ID, dialogue.SituationFarewell, "")
	s.statsService.RecordSession(summary)

	s.roomManager.Remove(r.ID)
	s.mon.SetActiveRooms(s.roomManager.Count())
	logger.Log.Infof("Session %s ended by %s", r.ID, sess.GetID())
}

// handleDisconnect applies the cancel-and-compensate policy before the
// room record is dropped: a chef walking out refunds the visitor, a
// visitor walking out releases their table and flags the chef's orders.
func (s *GameServer) handleDisconnect(sess *session.Session) {
	if sess.RoomID == "" {
		return
	}
	r, exists := s.roomManager.Get(sess.RoomID)
	if !exists {
		return
	}

	role := sess.GetRole()
	for _, o := range r.Orders.Active() {
		cancelled, ok := r.Orders.Cancel(o.ID)
		if !ok {
			continue
		}
		compensation := "refund to visitor"
		if role == room.RoleVisitor {
			compensation = "penalty waived for chef"
		}
		s.broadcaster.BroadcastToOthers(r.ID, sess.GetID(), network.MsgTypeOrderCancelled, network.Marshal(models.OrderCancelled{
			OrderID:      cancelled.ID,
			Reason:       role + " disconnected",
			Compensation: compensation,
		}))
	}

	// Free any table the visitor held.
	for _, t := range r.Tables.ReservedByParty(sess.GetID()) {
		r.Tables.Release(t.ID)
	}

	s.broadcaster.BroadcastToOthers(r.ID, sess.GetID(), network.MsgTypePlayerLeft, network.Marshal(models.PlayerLeft{
		SessionID: sess.GetID(),
		Role:      role,
	}))

	if _, deleted := s.roomManager.RemovePlayer(r.ID, sess.GetID()); deleted {
		logger.Log.Infof("Room %s deleted: last player left", r.ID)
		s.mon.SetActiveRooms(s.roomManager.Count())
	}
}

// sendWaiterLine asks the dialogue generator off the handler path; flavor
// text must never block a gameplay transition.
func (s *GameServer) sendWaiterLine(roomID, situation, hint string) {
	go func() {
		text := dialogue.Line(context.Background(), s.waiter, situation, hint)
		s.broadcaster.SendToRole(roomID, room.RoleVisitor, network.MsgTypeWaiterLine, network.Marshal(models.WaiterLine{
			Situation: situation,
			Text:      text,
		}))
	}()
}
