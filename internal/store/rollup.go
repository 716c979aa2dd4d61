package store

import (
	"context"
	"fmt"
	"time"

	"replate-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DayActivity is what happened in [From, From+24h).
type DayActivity struct {
	Items     []models.FoodItem
	Claims    []models.Claim
	Donations []models.Donation
}

func (s *Store) ActivityForDay(ctx context.Context, day time.Time) (*DayActivity, error) {
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)
	db := s.db.WithContext(ctx)

	var out DayActivity
	if err := db.Where("created_at >= ? AND created_at < ?", from, to).
		Find(&out.Items).Error; err != nil {
		return nil, fmt.Errorf("items for day: %w", err)
	}
	if err := db.Preload("FoodItem").Where("created_at >= ? AND created_at < ?", from, to).
		Find(&out.Claims).Error; err != nil {
		return nil, fmt.Errorf("claims for day: %w", err)
	}
	if err := db.Preload("FoodItem").Where("created_at >= ? AND created_at < ?", from, to).
		Find(&out.Donations).Error; err != nil {
		return nil, fmt.Errorf("donations for day: %w", err)
	}
	return &out, nil
}

// UpsertAnalytics writes rollup rows, replacing any row for the same
// canteen and date.
func (s *Store) UpsertAnalytics(ctx context.Context, rows []models.AnalyticsDaily) error {
	if len(rows) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "canteen_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"total_food_logged", "total_food_sold", "total_food_donated",
				"revenue_generated", "meals_provided",
			}),
		}).Create(&rows).Error
		if err != nil {
			return fmt.Errorf("upsert analytics: %w", err)
		}
		return nil
	})
}
