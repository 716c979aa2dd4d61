package dashboard

import (
	"context"
	"errors"

	"replate-backend/internal/models"
	"replate-backend/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type StaffData struct {
	Profile         *models.Profile         `json:"profile"`
	Canteen         *models.Canteen         `json:"canteen"`
	FoodItems       []models.FoodItem       `json:"food_items"`
	TodayAnalytics  *models.AnalyticsDaily  `json:"today_analytics"`
	WeeklyAnalytics []models.AnalyticsDaily `json:"weekly_analytics"`
}

func (a *Assembler) Staff(ctx context.Context, userID uuid.UUID) (*StaffData, error) {
	profile, err := a.profileFor(ctx, userID, models.RoleStaff)
	if err != nil {
		return nil, err
	}
	out := &StaffData{Profile: profile, FoodItems: []models.FoodItem{}, WeeklyAnalytics: []models.AnalyticsDaily{}}
	if profile.CanteenID == nil {
		a.Log.Warn("staff profile has no canteen", zap.String("profile_id", profile.ID.String()))
		return out, nil
	}
	canteenID := *profile.CanteenID
	now := a.Now()

	var (
		items  []models.FoodItem
		weekly []models.AnalyticsDaily
	)
	g := newGroup()
	fetch(ctx, g, a.Log, "canteen", &out.Canteen, func(ctx context.Context) (*models.Canteen, error) {
		return a.Store.GetCanteen(ctx, canteenID)
	})
	fetch(ctx, g, a.Log, "canteen_food_items", &items, func(ctx context.Context) ([]models.FoodItem, error) {
		return a.Store.ListCanteenFoodItems(ctx, canteenID)
	})
	fetch(ctx, g, a.Log, "today_analytics", &out.TodayAnalytics, func(ctx context.Context) (*models.AnalyticsDaily, error) {
		row, err := a.Store.GetAnalyticsForDay(ctx, canteenID, daysAgo(now, 0))
		// no row yet today is normal
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return row, err
	})
	fetch(ctx, g, a.Log, "weekly_analytics", &weekly, func(ctx context.Context) ([]models.AnalyticsDaily, error) {
		return a.Store.ListAnalytics(ctx, store.AnalyticsFilter{CanteenID: &canteenID, From: daysAgo(now, staffWindowDays)})
	})
	_ = g.Wait()

	out.FoodItems = emptyIfNil(items)
	out.WeeklyAnalytics = emptyIfNil(weekly)
	return out, nil
}
