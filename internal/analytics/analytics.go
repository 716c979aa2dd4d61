// Package analytics reduces row sets from the store into dashboard
// metrics. Every function is pure: nil or empty input gives a fully
// populated zero result, and malformed numbers count as zero.
package analytics

import (
	"math"
	"strconv"
	"strings"
	"time"

	"replate-backend/internal/models"

	"github.com/google/uuid"
)

// KgPerPortion is the assumed weight of one meal or donated portion.
const KgPerPortion = 0.5

// SystemCounts are the table totals the admin dashboard shows as-is.
type SystemCounts struct {
	TotalUsers     int64
	ActiveCanteens int64
	NGOPartners    int64
}

type SystemStats struct {
	TotalUsers     int64          `json:"total_users"`
	ActiveCanteens int64          `json:"active_canteens"`
	NGOPartners    int64          `json:"ngo_partners"`
	TotalSurplus   int64          `json:"total_surplus"`
	WasteReduction int64          `json:"waste_reduction"`
	Revenue        float64        `json:"revenue"`
	PeopleFed      int64          `json:"people_fed"`
	UsersByRole    map[string]int `json:"users_by_role"`
}

type CategoryCount struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// Impact is a student's personal contribution.
type Impact struct {
	MealsSaved   int64   `json:"meals_saved"`
	MoneySaved   float64 `json:"money_saved"`
	WasteReduced float64 `json:"waste_reduced"`
}

type WeeklyStats struct {
	TotalDonations  int64   `json:"total_donations"`
	TotalPortions   int64   `json:"total_portions"`
	EstimatedWeight float64 `json:"estimated_weight"`
	PeopleFed       int64   `json:"people_fed"`
}

// ParseNumeric reads a numeric column delivered as text. Anything that
// is not a finite number is 0.
func ParseNumeric(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// RoleDistribution counts profiles per role. Role values are used
// verbatim, including empty and unknown ones.
func RoleDistribution(profiles []models.Profile) map[string]int {
	out := make(map[string]int)
	for _, p := range profiles {
		out[string(p.Role)]++
	}
	return out
}

// SystemKPIs folds analytics rows into the admin totals. The counts are
// copied through untouched whatever the number of rows.
func SystemKPIs(counts SystemCounts, rows []models.AnalyticsDaily, usersByRole map[string]int) SystemStats {
	if usersByRole == nil {
		usersByRole = map[string]int{}
	}
	out := SystemStats{
		TotalUsers:     counts.TotalUsers,
		ActiveCanteens: counts.ActiveCanteens,
		NGOPartners:    counts.NGOPartners,
		UsersByRole:    usersByRole,
	}
	for _, r := range rows {
		out.TotalSurplus += int64(r.TotalFoodLogged)
		out.WasteReduction += int64(r.TotalFoodSold) + int64(r.TotalFoodDonated)
		out.Revenue += ParseNumeric(r.RevenueGenerated)
		out.PeopleFed += int64(r.MealsProvided)
	}
	return out
}

// CategoryDistribution counts food items per category, in the order each
// category is first seen.
func CategoryDistribution(items []models.FoodItem) []CategoryCount {
	out := make([]CategoryCount, 0)
	index := make(map[string]int)
	for _, it := range items {
		i, ok := index[it.Category]
		if !ok {
			i = len(out)
			index[it.Category] = i
			out = append(out, CategoryCount{Name: it.Category})
		}
		out[i].Value++
	}
	return out
}

// StudentImpact totals a student's claims. A claim whose item has no
// original price still counts as meals and weight but saves nothing.
func StudentImpact(claims []models.Claim) Impact {
	var out Impact
	for _, c := range claims {
		out.MealsSaved += int64(c.Quantity)
		out.WasteReduced += float64(c.Quantity) * KgPerPortion
		if c.FoodItem != nil && c.FoodItem.OriginalPrice != nil {
			out.MoneySaved += *c.FoodItem.OriginalPrice*float64(c.Quantity) - c.AmountPaid
		}
	}
	return out
}

// VolunteerWeeklyStats totals completed donations. The caller selects
// the rows (status and window); nothing is filtered here.
func VolunteerWeeklyStats(donations []models.Donation) WeeklyStats {
	var out WeeklyStats
	for _, d := range donations {
		out.TotalDonations++
		out.TotalPortions += int64(d.Quantity)
		out.EstimatedWeight += float64(d.Quantity) * KgPerPortion
		out.PeopleFed += int64(d.Quantity)
	}
	return out
}

// DailyRollup builds the analytics rows for one UTC day, one per canteen
// that had any activity. items are the food items logged that day,
// claims and donations those created that day; claims and donations must
// carry their FoodItem so the canteen is known. Logged quantity is the
// amount staff entered, so later claims never shrink a past day.
func DailyRollup(day time.Time, items []models.FoodItem, claims []models.Claim, donations []models.Donation) []models.AnalyticsDaily {
	type acc struct {
		logged, sold, donated int
		revenue               float64
	}
	d := day.UTC()
	date := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)

	var order []uuid.UUID
	byCanteen := map[uuid.UUID]*acc{}
	get := func(id uuid.UUID) *acc {
		a, ok := byCanteen[id]
		if !ok {
			a = &acc{}
			byCanteen[id] = a
			order = append(order, id)
		}
		return a
	}

	for _, it := range items {
		get(it.CanteenID).logged += it.LoggedQuantity()
	}
	for _, c := range claims {
		if c.FoodItem == nil {
			continue
		}
		a := get(c.FoodItem.CanteenID)
		a.sold += c.Quantity
		a.revenue += c.AmountPaid
	}
	for _, dn := range donations {
		if dn.FoodItem == nil {
			continue
		}
		get(dn.FoodItem.CanteenID).donated += dn.Quantity
	}

	out := make([]models.AnalyticsDaily, 0, len(order))
	for _, id := range order {
		a := byCanteen[id]
		out = append(out, models.AnalyticsDaily{
			CanteenID:        id,
			Date:             date,
			TotalFoodLogged:  a.logged,
			TotalFoodSold:    a.sold,
			TotalFoodDonated: a.donated,
			RevenueGenerated: strconv.FormatFloat(a.revenue, 'f', 2, 64),
			MealsProvided:    a.sold + a.donated,
		})
	}
	return out
}
