package models

import (
	"time"

	"github.com/google/uuid"
)

// AnalyticsDaily is one row per canteen per day, written by the rollup worker.
// RevenueGenerated is a postgres numeric read back as text.
type AnalyticsDaily struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CanteenID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_analytics_canteen_date" json:"canteen_id"`
	Canteen          *Canteen  `json:"canteen,omitempty"`
	Date             time.Time `gorm:"type:date;not null;index;uniqueIndex:idx_analytics_canteen_date" json:"date"`
	TotalFoodLogged  int       `gorm:"not null;default:0" json:"total_food_logged"`
	TotalFoodSold    int       `gorm:"not null;default:0" json:"total_food_sold"`
	TotalFoodDonated int       `gorm:"not null;default:0" json:"total_food_donated"`
	RevenueGenerated string    `gorm:"type:numeric(12,2);not null;default:0" json:"revenue_generated"`
	MealsProvided    int       `gorm:"not null;default:0" json:"meals_provided"`
	CreatedAt        time.Time `json:"created_at"`
}

func (AnalyticsDaily) TableName() string { return "analytics" }
