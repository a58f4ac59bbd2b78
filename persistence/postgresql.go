// persistence/postgresql.go
package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/bistroduet/gameserver/models"
)

// PostgreSQL is the plain database/sql store, for deployments that prefer
// raw SQL over the ORM.
type PostgreSQL struct {
	db *sql.DB
}

func NewPostgreSQL(host string, port int, user, password, dbname string) (*PostgreSQL, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := initTables(db); err != nil {
		return nil, err
	}

	return &PostgreSQL{db: db}, nil
}

func initTables(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS session_records (
            id SERIAL PRIMARY KEY,
            room_id TEXT NOT NULL,
            players JSONB NOT NULL,
            orders_served INT NOT NULL DEFAULT 0,
            revenue NUMERIC NOT NULL DEFAULT 0,
            rating INT NOT NULL DEFAULT 0,
            duration_secs INT NOT NULL DEFAULT 0,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
        CREATE TABLE IF NOT EXISTS ratings (
            id SERIAL PRIMARY KEY,
            room_id TEXT NOT NULL,
            rating INT NOT NULL,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )`)
	return err
}

func (p *PostgreSQL) SaveSessionRecord(record models.SessionRecord) error {
	players, err := json.Marshal(record.Players)
	if err != nil {
		return err
	}

	tx, err := p.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
        INSERT INTO session_records (room_id, players, orders_served, revenue, rating, duration_secs)
        VALUES ($1, $2, $3, $4, $5, $6)`,
		record.RoomID, players, record.OrdersServed, record.Revenue,
		record.Rating, int(record.Duration.Seconds()))
	if err != nil {
		return err
	}

	if record.Rating > 0 {
		_, err = tx.Exec(`INSERT INTO ratings (room_id, rating) VALUES ($1, $2)`,
			record.RoomID, record.Rating)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (p *PostgreSQL) SaveRating(roomID string, rating int) error {
	_, err := p.db.Exec(`INSERT INTO ratings (room_id, rating) VALUES ($1, $2)`,
		roomID, rating)
	return err
}

func (p *PostgreSQL) GetRestaurantStats() (models.RestaurantStats, error) {
	var stats models.RestaurantStats
	err := p.db.QueryRow(`
        SELECT
            COUNT(*),
            COALESCE(SUM(orders_served), 0),
            COALESCE(SUM(revenue), 0),
            COALESCE(AVG(NULLIF(rating, 0)), 0)
        FROM session_records`,
	).Scan(&stats.TotalSessions, &stats.OrdersServed, &stats.TotalRevenue, &stats.AverageRating)
	return stats, err
}

func (p *PostgreSQL) Close() error {
	return p.db.Close()
}
