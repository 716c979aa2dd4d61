package dashboard

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"replate-backend/internal/cache"
	"replate-backend/internal/models"
	"replate-backend/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	adminWindowDays       = 30
	performanceWindowDays = 7
	staffWindowDays       = 7
	completedWindowDays   = 30
	weeklyWindowDays      = 7
	recentActivityLimit   = 10
	fetchLimit            = 4

	adminCacheKey = "dashboard:admin"
)

// ErrUnauthorized means the caller has no profile or the wrong role for
// the requested dashboard; the client should send them to sign-in.
var ErrUnauthorized = errors.New("dashboard: profile missing or role mismatch")

// Reader is the part of the store the dashboards read from.
type Reader interface {
	GetProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	CountProfiles(ctx context.Context) (int64, error)
	CountCanteens(ctx context.Context) (int64, error)
	CountNGOs(ctx context.Context) (int64, error)
	ListProfileRoles(ctx context.Context) ([]models.Profile, error)
	ListCanteens(ctx context.Context) ([]models.Canteen, error)
	ListNGOs(ctx context.Context) ([]models.NGO, error)
	GetCanteen(ctx context.Context, id uuid.UUID) (*models.Canteen, error)
	GetNGO(ctx context.Context, id uuid.UUID) (*models.NGO, error)
	ListAnalytics(ctx context.Context, f store.AnalyticsFilter) ([]models.AnalyticsDaily, error)
	GetAnalyticsForDay(ctx context.Context, canteenID uuid.UUID, day time.Time) (*models.AnalyticsDaily, error)
	ListFoodCategories(ctx context.Context) ([]models.FoodItem, error)
	ListRecentFoodItems(ctx context.Context, limit int) ([]models.FoodItem, error)
	ListCanteenFoodItems(ctx context.Context, canteenID uuid.UUID) ([]models.FoodItem, error)
	ListActiveFlashSales(ctx context.Context, now time.Time) ([]models.FlashSale, error)
	ListClaimsByStudent(ctx context.Context, studentID uuid.UUID) ([]models.Claim, error)
	ListDonations(ctx context.Context, f store.DonationFilter) ([]models.Donation, error)
}

// Assembler builds one dashboard per role: it loads the caller's profile,
// runs the independent fetches concurrently, then hands the rows to the
// analytics package.
type Assembler struct {
	Store    Reader
	Cache    cache.Cache
	CacheTTL time.Duration
	Log      *zap.Logger
	Now      func() time.Time
}

func NewAssembler(r Reader, c cache.Cache, ttl time.Duration, logger *zap.Logger) *Assembler {
	if c == nil {
		c = cache.Nop{}
	}
	return &Assembler{Store: r, Cache: c, CacheTTL: ttl, Log: logger, Now: time.Now}
}

// daysAgo returns UTC midnight n days before now.
func daysAgo(now time.Time, n int) time.Time {
	d := now.UTC().AddDate(0, 0, -n)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

// profileFor loads the caller and checks the role.
func (a *Assembler) profileFor(ctx context.Context, userID uuid.UUID, role models.Role) (*models.Profile, error) {
	p, err := a.Store.GetProfile(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	if p.Role != role {
		return nil, ErrUnauthorized
	}
	return p, nil
}

// fetchGroup is an errgroup that remembers whether any fetch fell back to
// its empty default.
type fetchGroup struct {
	*errgroup.Group
	degraded atomic.Bool
}

func newGroup() *fetchGroup {
	g := &fetchGroup{Group: new(errgroup.Group)}
	g.SetLimit(fetchLimit)
	return g
}

// Degraded reports whether any fetch failed. Call it after Wait.
func (g *fetchGroup) Degraded() bool { return g.degraded.Load() }

// fetch runs fn on g. A failing fetch is logged and leaves its target at
// the zero value so the rest of the dashboard still renders.
func fetch[T any](ctx context.Context, g *fetchGroup, log *zap.Logger, name string, dst *T, fn func(context.Context) (T, error)) {
	g.Go(func() error {
		v, err := fn(ctx)
		if err != nil {
			log.Warn("dashboard fetch failed, using empty default",
				zap.String("fetch", name), zap.Error(err))
			g.degraded.Store(true)
			return nil
		}
		*dst = v
		return nil
	})
}

// emptyIfNil keeps JSON arrays from rendering as null.
func emptyIfNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
