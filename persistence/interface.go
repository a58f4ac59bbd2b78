// persistence/interface.go
package persistence

import (
	"fmt"

	"github.com/bistroduet/gameserver/models"
)

// Database persists session outcomes. Two implementations exist: the GORM
// one (default) and a plain database/sql one kept for deployments that
// want no ORM. The server treats the store as optional; a nil Database
// degrades to log-only operation.
type Database interface {
	SaveSessionRecord(record models.SessionRecord) error
	SaveRating(roomID string, rating int) error
	GetRestaurantStats() (models.RestaurantStats, error)
	Close() error
}

var (
	ErrRecordNotFound = fmt.Errorf("record not found")
)
