// models/gorm_models.go
package models

import (
	"gorm.io/gorm"
)

// GormSessionRecord is the persisted end-of-session summary.
type GormSessionRecord struct {
	gorm.Model
	RoomID       string                 `gorm:"index;not null"`
	Players      map[string]interface{} `gorm:"serializer:json;type:jsonb"`
	OrdersServed int                    `gorm:"default:0"`
	Revenue      float64                `gorm:"default:0"`
	Rating       int                    `gorm:"default:0"`
	DurationSecs int                    `gorm:"default:0"`
}

// GormRating keeps individual visitor ratings for the aggregate stats.
type GormRating struct {
	gorm.Model
	RoomID string `gorm:"index;not null"`
	Rating int    `gorm:"not null"`
}

// RestaurantStats is the aggregate view served over the admin RPC.
type RestaurantStats struct {
	TotalSessions int     `json:"total_sessions"`
	OrdersServed  int     `json:"orders_served"`
	TotalRevenue  float64 `json:"total_revenue"`
	AverageRating float64 `json:"average_rating"`
}
