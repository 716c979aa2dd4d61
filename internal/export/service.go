// Package export renders analytics as an XLSX workbook.
package export

import (
	"context"
	"fmt"
	"sort"
	"time"

	"replate-backend/internal/analytics"
	"replate-backend/internal/models"
	"replate-backend/internal/store"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	SummarySheet = "Summary"
	DailySheet   = "Daily"
)

type Reader interface {
	CountProfiles(ctx context.Context) (int64, error)
	CountCanteens(ctx context.Context) (int64, error)
	CountNGOs(ctx context.Context) (int64, error)
	ListProfileRoles(ctx context.Context) ([]models.Profile, error)
	ListAnalytics(ctx context.Context, f store.AnalyticsFilter) ([]models.AnalyticsDaily, error)
}

type Service struct {
	Store Reader
	Log   *zap.Logger
	Now   func() time.Time
}

func NewService(r Reader, logger *zap.Logger) *Service {
	return &Service{Store: r, Log: logger, Now: time.Now}
}

// AnalyticsXLSX builds a workbook covering the last days days. Unlike the
// dashboards, any failed read fails the export.
func (s *Service) AnalyticsXLSX(ctx context.Context, days int) ([]byte, error) {
	start := time.Now()

	d := s.Now().UTC().AddDate(0, 0, -days)
	from := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)

	var counts analytics.SystemCounts
	var err error
	if counts.TotalUsers, err = s.Store.CountProfiles(ctx); err != nil {
		return nil, fmt.Errorf("count profiles: %w", err)
	}
	if counts.ActiveCanteens, err = s.Store.CountCanteens(ctx); err != nil {
		return nil, fmt.Errorf("count canteens: %w", err)
	}
	if counts.NGOPartners, err = s.Store.CountNGOs(ctx); err != nil {
		return nil, fmt.Errorf("count ngos: %w", err)
	}
	roles, err := s.Store.ListProfileRoles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	rows, err := s.Store.ListAnalytics(ctx, store.AnalyticsFilter{From: from, WithCanteen: true})
	if err != nil {
		return nil, fmt.Errorf("list analytics: %w", err)
	}

	stats := analytics.SystemKPIs(counts, rows, analytics.RoleDistribution(roles))

	f := excelize.NewFile()
	defer f.Close()

	// the default sheet becomes Summary
	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(DailySheet); err != nil {
		return nil, err
	}

	summary := [][]any{
		{"Metric", "Value"},
		{"From", from.Format(time.DateOnly)},
		{"To", s.Now().UTC().Format(time.DateOnly)},
		{"Total users", stats.TotalUsers},
		{"Active canteens", stats.ActiveCanteens},
		{"NGO partners", stats.NGOPartners},
		{"Total surplus", stats.TotalSurplus},
		{"Waste reduction", stats.WasteReduction},
		{"Revenue", stats.Revenue},
		{"People fed", stats.PeopleFed},
	}
	for _, role := range roleOrder(stats.UsersByRole) {
		label := role
		if label == "" {
			label = "(blank)"
		}
		summary = append(summary, []any{"Users: " + label, stats.UsersByRole[role]})
	}
	for i, r := range summary {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(SummarySheet, cell, &r); err != nil {
			return nil, err
		}
	}

	header := []any{"Date", "Canteen", "Food logged", "Food sold", "Food donated", "Revenue", "Meals provided"}
	if err := f.SetSheetRow(DailySheet, "A1", &header); err != nil {
		return nil, err
	}
	for i, r := range rows {
		name := ""
		if r.Canteen != nil {
			name = r.Canteen.Name
		}
		line := []any{
			r.Date.Format(time.DateOnly),
			name,
			r.TotalFoodLogged,
			r.TotalFoodSold,
			r.TotalFoodDonated,
			analytics.ParseNumeric(r.RevenueGenerated),
			r.MealsProvided,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(DailySheet, cell, &line); err != nil {
			return nil, err
		}
	}

	_ = f.SetColWidth(SummarySheet, "A", "A", 22)
	_ = f.SetColWidth(DailySheet, "A", "A", 12)
	_ = f.SetColWidth(DailySheet, "B", "B", 24)
	_ = f.SetColWidth(DailySheet, "C", "G", 14)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.Log.Info("analytics export built",
		zap.Int("days", days),
		zap.Int("rows", len(rows)),
		zap.Duration("took", time.Since(start)))
	return buf.Bytes(), nil
}

// roleOrder lists the known roles first, even at zero, then any other
// stored role values sorted.
func roleOrder(byRole map[string]int) []string {
	out := make([]string, 0, len(models.Roles)+len(byRole))
	known := map[string]bool{}
	for _, r := range models.Roles {
		out = append(out, string(r))
		known[string(r)] = true
	}
	var extra []string
	for r := range byRole {
		if !known[r] {
			extra = append(extra, r)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}
