// persistence/gorm_postgresql.go
package persistence

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/bistroduet/gameserver/models"
)

// GormPostgreSQL is the GORM-backed store.
type GormPostgreSQL struct {
	db *gorm.DB
}

func NewGormPostgreSQL(host string, port int, user, password, dbname string) (*GormPostgreSQL, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	gormLogger := gormlogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold: time.Second,
			LogLevel:      gormlogger.Silent,
			Colorful:      false,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&models.GormSessionRecord{}, &models.GormRating{}); err != nil {
		return nil, err
	}

	return &GormPostgreSQL{db: db}, nil
}

// SaveSessionRecord writes the summary and, if a rating was submitted, the
// rating row in one transaction.
func (p *GormPostgreSQL) SaveSessionRecord(record models.SessionRecord) error {
	players := make(map[string]interface{}, len(record.Players))
	for _, info := range record.Players {
		data, err := json.Marshal(info)
		if err != nil {
			return err
		}
		var m map[string]interface{}
		if err := json.Unmarshal(data, &m); err != nil {
			return err
		}
		players[info.SessionID] = m
	}

	return p.db.Transaction(func(tx *gorm.DB) error {
		row := models.GormSessionRecord{
			RoomID:       record.RoomID,
			Players:      players,
			OrdersServed: record.OrdersServed,
			Revenue:      record.Revenue,
			Rating:       record.Rating,
			DurationSecs: int(record.Duration.Seconds()),
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}

		if record.Rating > 0 {
			rating := models.GormRating{RoomID: record.RoomID, Rating: record.Rating}
			if err := tx.Create(&rating).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (p *GormPostgreSQL) SaveRating(roomID string, rating int) error {
	row := models.GormRating{RoomID: roomID, Rating: rating}
	return p.db.Create(&row).Error
}

func (p *GormPostgreSQL) GetRestaurantStats() (models.RestaurantStats, error) {
	var stats models.RestaurantStats

	err := p.db.Raw(`
        SELECT
            COUNT(*) as total_sessions,
            COALESCE(SUM(orders_served), 0) as orders_served,
            COALESCE(SUM(revenue), 0) as total_revenue,
            COALESCE(AVG(NULLIF(rating, 0)), 0) as average_rating
        FROM gorm_session_records
        WHERE deleted_at IS NULL`,
	).Scan(&stats).Error

	return stats, err
}

func (p *GormPostgreSQL) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
