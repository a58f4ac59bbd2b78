// services/stats_service.go
package services

import (
	"fmt"

	"github.com/bistroduet/gameserver/logger"
	"github.com/bistroduet/gameserver/models"
	"github.com/bistroduet/gameserver/persistence"
)

// StatsService records session outcomes and serves restaurant-wide
// aggregates. With a nil database it logs and otherwise does nothing, so
// gameplay never depends on persistence being up.
type StatsService struct {
	db persistence.Database
}

func NewStatsService(db persistence.Database) *StatsService {
	return &StatsService{db: db}
}

// RecordSession persists an end-of-session summary. Best effort: failures
// are logged, never propagated to the room teardown path.
func (s *StatsService) RecordSession(record models.SessionRecord) {
	if s.db == nil {
		logger.Log.Infof("session %s ended: %d orders served, revenue %.2f (persistence disabled)",
			record.RoomID, record.OrdersServed, record.Revenue)
		return
	}
	if err := s.db.SaveSessionRecord(record); err != nil {
		logger.Log.Errorf("failed to save session record for room %s: %v", record.RoomID, err)
	}
}

// RecordRating persists one visitor rating.
func (s *StatsService) RecordRating(roomID string, rating int) {
	if s.db == nil {
		return
	}
	if err := s.db.SaveRating(roomID, rating); err != nil {
		logger.Log.Errorf("failed to save rating for room %s: %v", roomID, err)
	}
}

// RestaurantStats returns the aggregate view for the admin RPC.
func (s *StatsService) RestaurantStats() (models.RestaurantStats, error) {
	if s.db == nil {
		return models.RestaurantStats{}, fmt.Errorf("persistence disabled")
	}
	return s.db.GetRestaurantStats()
}
