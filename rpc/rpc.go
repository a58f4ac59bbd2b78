package rpc

import (
	"net"
	"net/rpc"

	"github.com/bistroduet/gameserver/logger"
	"github.com/bistroduet/gameserver/models"
	"github.com/bistroduet/gameserver/services"
)

// Server manages the RPC listener.
type Server struct {
	listener net.Listener
	address  string
}

func NewServer(addr string) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Server{
		listener: listener,
		address:  addr,
	}, nil
}

// Start begins listening for RPC requests.
func (s *Server) Start() {
	logger.Log.Infof("RPC server listening on %s", s.address)
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if _, ok := err.(*net.OpError); ok {
				logger.Log.Info("RPC server listener closed.")
				return
			}
			logger.Log.Errorf("RPC server accept error: %v", err)
			continue
		}
		go rpc.ServeConn(conn)
	}
}

// Stop closes the RPC listener.
func (s *Server) Stop() {
	if s.listener != nil {
		logger.Log.Info("Stopping RPC server.")
		s.listener.Close()
	}
}

// AdminService exposes operational queries over net/rpc: exported method,
// exported argument types, pointer reply, error return.
type AdminService struct {
	statsService *services.StatsService
	roomCount    func() int
	playerCount  func() int
}

func NewAdminService(ss *services.StatsService, roomCount, playerCount func() int) *AdminService {
	return &AdminService{
		statsService: ss,
		roomCount:    roomCount,
		playerCount:  playerCount,
	}
}

type StatsArgs struct{}

type StatsReply struct {
	Stats models.RestaurantStats
}

func (as *AdminService) GetRestaurantStats(args *StatsArgs, reply *StatsReply) error {
	stats, err := as.statsService.RestaurantStats()
	if err != nil {
		return err
	}
	reply.Stats = stats
	return nil
}

type LiveArgs struct{}

type LiveReply struct {
	ActiveRooms      int
	ConnectedPlayers int
}

func (as *AdminService) GetLiveCounts(args *LiveArgs, reply *LiveReply) error {
	reply.ActiveRooms = as.roomCount()
	reply.ConnectedPlayers = as.playerCount()
	return nil
}
