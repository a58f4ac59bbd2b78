package server

import (
	"net/http"
	"net/rpc"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/bistroduet/gameserver/broadcast"
	"github.com/bistroduet/gameserver/config"
	"github.com/bistroduet/gameserver/dialogue"
	"github.com/bistroduet/gameserver/logger"
	"github.com/bistroduet/gameserver/monitor"
	"github.com/bistroduet/gameserver/network"
	"github.com/bistroduet/gameserver/persistence"
	"github.com/bistroduet/gameserver/room"
	gameserver_rpc "github.com/bistroduet/gameserver/rpc"
	"github.com/bistroduet/gameserver/services"
	"github.com/bistroduet/gameserver/session"
	"github.com/bistroduet/gameserver/timer"
)

// GameServer is the authoritative relay: every inbound packet is handled
// to completion on its connection's read goroutine, and all room state is
// guarded by the room's own locks, so within one room a handler invocation
// is effectively atomic.
type GameServer struct {
	addr           string
	upgrader       websocket.Upgrader
	gameCfg        config.GameConfig
	roomManager    *room.Manager
	sessionManager *session.Manager
	statsService   *services.StatsService
	broadcaster    broadcast.Broadcaster
	timers         *timer.Manager
	waiter         dialogue.Generator
	mon            *monitor.Monitor
	rpcServer      *gameserver_rpc.Server
	shutdownChan   chan struct{}
}

func NewGameServer(cfg *config.Config, db persistence.Database) *GameServer {
	s := &GameServer{
		addr:           cfg.Server.HTTPAddress,
		gameCfg:        cfg.Game,
		roomManager:    room.NewManager(cfg.Game.CookingGrace),
		sessionManager: session.NewManager(),
		statsService:   services.NewStatsService(db),
		timers:         timer.NewManager(),
		waiter:         dialogue.FromConfig(cfg.Dialogue),
		mon:            monitor.NewMonitor("bistroduet"),
		shutdownChan:   make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // clients are game builds served from anywhere
			},
		},
	}

	s.broadcaster = broadcast.NewRoomBroadcaster(s.roomManager, s.sessionManager)

	rpcServer, err := gameserver_rpc.NewServer(cfg.Server.RPCAddress)
	if err != nil {
		logger.Log.Fatalf("Failed to create RPC server: %v", err)
	}
	s.rpcServer = rpcServer

	adminService := gameserver_rpc.NewAdminService(
		s.statsService,
		s.roomManager.Count,
		s.sessionManager.Count,
	)
	rpc.Register(adminService)

	s.mon.StartServer(cfg.Server.MetricsAddress)

	return s
}

func (s *GameServer) Start() error {
	go s.rpcServer.Start()

	http.HandleFunc("/ws", s.handleWebSocket)
	logger.Log.Infof("Bistro relay listening on %s", s.addr)
	return http.ListenAndServe(s.addr, nil)
}

func (s *GameServer) Shutdown() {
	close(s.shutdownChan)
	s.timers.Stop()
	s.rpcServer.Stop()
}

func (s *GameServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Infof("Failed to upgrade connection: %v", err)
		return
	}
	s.handleConnection(conn)
}

func (s *GameServer) handleConnection(conn *websocket.Conn) {
	wsConn := network.NewWSConnection(conn)
	sess := session.NewSession(uuid.New().String(), wsConn)
	s.sessionManager.Add(sess)
	s.mon.IncOnlinePlayers()

	logger.Log.Infof("New connection from %s, session ID: %s", wsConn.RemoteAddr(), sess.GetID())

	defer func() {
		logger.Log.Infof("Connection closed from %s, session ID: %s", wsConn.RemoteAddr(), sess.GetID())
		s.handleDisconnect(sess)
		s.sessionManager.Remove(sess.GetID())
		s.mon.DecOnlinePlayers()
		wsConn.Close()
	}()

	for {
		select {
		case <-s.shutdownChan:
			return
		default:
			packet, err := wsConn.ReadPacket()
			if err != nil {
				return
			}
			s.handlePacket(sess, packet)
		}
	}
}

// handlePacket is the dispatch boundary: every message name maps to one
// typed handler. Unknown or malformed messages are dropped with a log and
// the session continues.
func (s *GameServer) handlePacket(sess *session.Session, packet *network.Packet) {
	start := time.Now()
	s.mon.IncMessagesReceived()
	defer func() {
		s.mon.ObserveMessageLatency(time.Since(start))
	}()

	switch packet.MsgID {
	case network.MsgTypeHeartbeat:
		sess.LastActive = time.Now()
	case network.MsgTypeJoinRoom:
		s.handleJoinRoom(sess, packet)
	case network.MsgTypePlayerMove:
		s.handlePlayerMove(sess, packet)
	case network.MsgTypePlayerAction:
		s.handlePlayerAction(sess, packet)
	case network.MsgTypeBookTable:
		s.handleBookTable(sess, packet)
	case network.MsgTypePlaceOrder:
		s.handlePlaceOrder(sess, packet)
	case network.MsgTypeOrderStatusUpdate:
		s.handleOrderStatusUpdate(sess, packet)
	case network.MsgTypeOrderCompleted:
		s.handleOrderCompleted(sess, packet)
	case network.MsgTypeSubmitRating:
		s.handleSubmitRating(sess, packet)
	case network.MsgTypeTutorialCompleted, network.MsgTypeVisitorSatDown:
		s.handleInfoRelay(sess, packet)
	case network.MsgTypeMenuRequested:
		s.handleMenuRequested(sess, packet)
	case network.MsgTypeEndSession:
		s.handleEndSession(sess, packet)
	default:
		logger.Log.Infof("Unknown message type %d from session %s, dropping", packet.MsgID, sess.GetID())
	}
}

// currentRoom resolves the sender's room, logging when the sender is not
// in one.
func (s *GameServer) currentRoom(sess *session.Session) (*room.Room, bool) {
	if sess.RoomID == "" {
		logger.Log.Warnf("Session %s sent a room message but is not in a room", sess.GetID())
		return nil, false
	}
	r, exists := s.roomManager.Get(sess.RoomID)
	if !exists {
		logger.Log.Errorf("Room %s not found for session %s", sess.RoomID, sess.GetID())
		return nil, false
	}
	return r, true
}
