package dashboard

import (
	"context"

	"replate-backend/internal/analytics"
	"replate-backend/internal/models"
	"replate-backend/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CanteenPerformance is one analytics row with the canteen name attached.
type CanteenPerformance struct {
	CanteenID        uuid.UUID `json:"canteen_id"`
	CanteenName      string    `json:"canteen_name"`
	Date             string    `json:"date"`
	TotalFoodLogged  int       `json:"total_food_logged"`
	TotalFoodSold    int       `json:"total_food_sold"`
	TotalFoodDonated int       `json:"total_food_donated"`
	RevenueGenerated float64   `json:"revenue_generated"`
}

type AdminData struct {
	Profile              *models.Profile           `json:"profile"`
	SystemStats          analytics.SystemStats     `json:"system_stats"`
	DailyMetrics         []models.AnalyticsDaily   `json:"daily_metrics"`
	CanteenPerformance   []CanteenPerformance      `json:"canteen_performance"`
	CategoryDistribution []analytics.CategoryCount `json:"category_distribution"`
	RecentActivities     []models.FoodItem         `json:"recent_activities"`
	Canteens             []models.Canteen          `json:"canteens"`
	NGOs                 []models.NGO              `json:"ngos"`
}

// adminSnapshot is the profile-independent part of the admin dashboard,
// shared between admins through the cache.
type adminSnapshot struct {
	SystemStats          analytics.SystemStats     `json:"system_stats"`
	DailyMetrics         []models.AnalyticsDaily   `json:"daily_metrics"`
	CanteenPerformance   []CanteenPerformance      `json:"canteen_performance"`
	CategoryDistribution []analytics.CategoryCount `json:"category_distribution"`
	RecentActivities     []models.FoodItem         `json:"recent_activities"`
	Canteens             []models.Canteen          `json:"canteens"`
	NGOs                 []models.NGO              `json:"ngos"`
}

func (a *Assembler) Admin(ctx context.Context, userID uuid.UUID) (*AdminData, error) {
	profile, err := a.profileFor(ctx, userID, models.RoleAdmin)
	if err != nil {
		return nil, err
	}

	var snap adminSnapshot
	found, err := a.Cache.Get(ctx, adminCacheKey, &snap)
	if err != nil {
		a.Log.Warn("admin dashboard cache read failed", zap.Error(err))
	}
	if !found {
		var complete bool
		snap, complete = a.buildAdminSnapshot(ctx)
		// a snapshot with fallback zeros is served once, never cached
		if complete {
			if err := a.Cache.Set(ctx, adminCacheKey, snap, a.CacheTTL); err != nil {
				a.Log.Warn("admin dashboard cache write failed", zap.Error(err))
			}
		}
	}

	return &AdminData{
		Profile:              profile,
		SystemStats:          snap.SystemStats,
		DailyMetrics:         emptyIfNil(snap.DailyMetrics),
		CanteenPerformance:   emptyIfNil(snap.CanteenPerformance),
		CategoryDistribution: emptyIfNil(snap.CategoryDistribution),
		RecentActivities:     emptyIfNil(snap.RecentActivities),
		Canteens:             emptyIfNil(snap.Canteens),
		NGOs:                 emptyIfNil(snap.NGOs),
	}, nil
}

// buildAdminSnapshot reports complete=false when any fetch failed.
func (a *Assembler) buildAdminSnapshot(ctx context.Context) (snap adminSnapshot, complete bool) {
	now := a.Now()

	var (
		totalUsers, canteenCount, ngoCount int64
		roleRows                           []models.Profile
		daily, weekly                      []models.AnalyticsDaily
		categories, recent                 []models.FoodItem
		canteens                           []models.Canteen
		ngos                               []models.NGO
	)

	g := newGroup()
	fetch(ctx, g, a.Log, "count_profiles", &totalUsers, a.Store.CountProfiles)
	fetch(ctx, g, a.Log, "count_canteens", &canteenCount, a.Store.CountCanteens)
	fetch(ctx, g, a.Log, "count_ngos", &ngoCount, a.Store.CountNGOs)
	fetch(ctx, g, a.Log, "profile_roles", &roleRows, a.Store.ListProfileRoles)
	fetch(ctx, g, a.Log, "analytics_30d", &daily, func(ctx context.Context) ([]models.AnalyticsDaily, error) {
		return a.Store.ListAnalytics(ctx, store.AnalyticsFilter{From: daysAgo(now, adminWindowDays)})
	})
	fetch(ctx, g, a.Log, "canteen_performance", &weekly, func(ctx context.Context) ([]models.AnalyticsDaily, error) {
		return a.Store.ListAnalytics(ctx, store.AnalyticsFilter{From: daysAgo(now, performanceWindowDays), WithCanteen: true})
	})
	fetch(ctx, g, a.Log, "food_categories", &categories, a.Store.ListFoodCategories)
	fetch(ctx, g, a.Log, "recent_food_items", &recent, func(ctx context.Context) ([]models.FoodItem, error) {
		return a.Store.ListRecentFoodItems(ctx, recentActivityLimit)
	})
	fetch(ctx, g, a.Log, "canteens", &canteens, a.Store.ListCanteens)
	fetch(ctx, g, a.Log, "ngos", &ngos, a.Store.ListNGOs)
	_ = g.Wait()

	counts := analytics.SystemCounts{
		TotalUsers:     totalUsers,
		ActiveCanteens: canteenCount,
		NGOPartners:    ngoCount,
	}

	snap = adminSnapshot{
		SystemStats:          analytics.SystemKPIs(counts, daily, analytics.RoleDistribution(roleRows)),
		DailyMetrics:         emptyIfNil(daily),
		CanteenPerformance:   canteenPerformance(weekly),
		CategoryDistribution: analytics.CategoryDistribution(categories),
		RecentActivities:     emptyIfNil(recent),
		Canteens:             emptyIfNil(canteens),
		NGOs:                 emptyIfNil(ngos),
	}
	return snap, !g.Degraded()
}

func canteenPerformance(rows []models.AnalyticsDaily) []CanteenPerformance {
	out := make([]CanteenPerformance, 0, len(rows))
	for _, r := range rows {
		name := ""
		if r.Canteen != nil {
			name = r.Canteen.Name
		}
		out = append(out, CanteenPerformance{
			CanteenID:        r.CanteenID,
			CanteenName:      name,
			Date:             r.Date.Format("2006-01-02"),
			TotalFoodLogged:  r.TotalFoodLogged,
			TotalFoodSold:    r.TotalFoodSold,
			TotalFoodDonated: r.TotalFoodDonated,
			RevenueGenerated: analytics.ParseNumeric(r.RevenueGenerated),
		})
	}
	return out
}
