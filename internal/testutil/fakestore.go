// Package testutil holds an in-memory stand-in for the postgres store.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"replate-backend/internal/models"
	"replate-backend/internal/store"

	"github.com/google/uuid"
)

// FakeStore keeps rows in slices and satisfies every store interface the
// handlers accept. Set Errs["MethodName"] to make that method fail.
// Dashboards call it from several goroutines, so all access is locked.
type FakeStore struct {
	mu sync.Mutex

	Profiles   []models.Profile
	Canteens   []models.Canteen
	NGOs       []models.NGO
	FoodItems  []models.FoodItem
	FlashSales []models.FlashSale
	Claims     []models.Claim
	Donations  []models.Donation
	Analytics  []models.AnalyticsDaily
	AuditLogs  []models.AuditLog

	Errs  map[string]error
	Calls map[string]int
}

func NewFakeStore() *FakeStore {
	return &FakeStore{Errs: map[string]error{}, Calls: map[string]int{}}
}

// call records the invocation and returns the injected error, if any.
// Callers must hold mu.
func (f *FakeStore) call(name string) error {
	if f.Calls == nil {
		f.Calls = map[string]int{}
	}
	f.Calls[name]++
	return f.Errs[name]
}

func (f *FakeStore) CallCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Calls[name]
}

func (f *FakeStore) canteen(id uuid.UUID) *models.Canteen {
	for i := range f.Canteens {
		if f.Canteens[i].ID == id {
			c := f.Canteens[i]
			return &c
		}
	}
	return nil
}

func (f *FakeStore) item(id uuid.UUID) *models.FoodItem {
	for i := range f.FoodItems {
		if f.FoodItems[i].ID == id {
			return &f.FoodItems[i]
		}
	}
	return nil
}

// audit appends an entry the way the gorm store does inside its
// transactions. Callers must hold mu.
func (f *FakeStore) audit(entry models.AuditLog) {
	entry.ID = uuid.New()
	entry.CreatedAt = time.Now()
	f.AuditLogs = append(f.AuditLogs, entry)
}

func (f *FakeStore) withCanteen(it models.FoodItem) models.FoodItem {
	it.Canteen = f.canteen(it.CanteenID)
	return it
}

// Profiles

func (f *FakeStore) GetProfile(_ context.Context, id uuid.UUID) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("GetProfile"); err != nil {
		return nil, err
	}
	for _, p := range f.Profiles {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *FakeStore) GetProfileByEmail(_ context.Context, email string) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("GetProfileByEmail"); err != nil {
		return nil, err
	}
	for _, p := range f.Profiles {
		if p.Email == email {
			return &p, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *FakeStore) CreateProfile(_ context.Context, p *models.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("CreateProfile"); err != nil {
		return err
	}
	for _, existing := range f.Profiles {
		if existing.Email == p.Email {
			return store.ErrDuplicateEmail
		}
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	f.Profiles = append(f.Profiles, *p)
	return nil
}

func (f *FakeStore) CountProfilesByRole(_ context.Context, role models.Role) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("CountProfilesByRole"); err != nil {
		return 0, err
	}
	var n int64
	for _, p := range f.Profiles {
		if p.Role == role {
			n++
		}
	}
	return n, nil
}

func (f *FakeStore) CountProfiles(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("CountProfiles"); err != nil {
		return 0, err
	}
	return int64(len(f.Profiles)), nil
}

func (f *FakeStore) ListProfileRoles(context.Context) ([]models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("ListProfileRoles"); err != nil {
		return nil, err
	}
	out := make([]models.Profile, 0, len(f.Profiles))
	for _, p := range f.Profiles {
		out = append(out, models.Profile{Role: p.Role})
	}
	return out, nil
}

// Canteens and NGOs

func (f *FakeStore) CountCanteens(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("CountCanteens"); err != nil {
		return 0, err
	}
	return int64(len(f.Canteens)), nil
}

func (f *FakeStore) CountNGOs(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("CountNGOs"); err != nil {
		return 0, err
	}
	return int64(len(f.NGOs)), nil
}

func (f *FakeStore) ListCanteens(context.Context) ([]models.Canteen, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("ListCanteens"); err != nil {
		return nil, err
	}
	out := append([]models.Canteen(nil), f.Canteens...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *FakeStore) ListNGOs(context.Context) ([]models.NGO, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("ListNGOs"); err != nil {
		return nil, err
	}
	out := append([]models.NGO(nil), f.NGOs...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *FakeStore) GetCanteen(_ context.Context, id uuid.UUID) (*models.Canteen, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("GetCanteen"); err != nil {
		return nil, err
	}
	if c := f.canteen(id); c != nil {
		return c, nil
	}
	return nil, store.ErrNotFound
}

func (f *FakeStore) GetNGO(_ context.Context, id uuid.UUID) (*models.NGO, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("GetNGO"); err != nil {
		return nil, err
	}
	for _, n := range f.NGOs {
		if n.ID == id {
			return &n, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *FakeStore) CreateCanteen(_ context.Context, c *models.Canteen) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("CreateCanteen"); err != nil {
		return err
	}
	for _, existing := range f.Canteens {
		if existing.Name == c.Name {
			return store.ErrDuplicateName
		}
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	f.Canteens = append(f.Canteens, *c)
	return nil
}

func (f *FakeStore) UpdateCanteen(_ context.Context, c *models.Canteen) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("UpdateCanteen"); err != nil {
		return err
	}
	idx := -1
	for i, existing := range f.Canteens {
		if existing.ID == c.ID {
			idx = i
		} else if existing.Name == c.Name {
			return store.ErrDuplicateName
		}
	}
	if idx < 0 {
		return store.ErrNotFound
	}
	f.Canteens[idx] = *c
	return nil
}

func (f *FakeStore) CreateNGO(_ context.Context, n *models.NGO) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("CreateNGO"); err != nil {
		return err
	}
	for _, existing := range f.NGOs {
		if existing.Name == n.Name {
			return store.ErrDuplicateName
		}
	}
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	f.NGOs = append(f.NGOs, *n)
	return nil
}

func (f *FakeStore) UpdateNGO(_ context.Context, n *models.NGO) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("UpdateNGO"); err != nil {
		return err
	}
	idx := -1
	for i, existing := range f.NGOs {
		if existing.ID == n.ID {
			idx = i
		} else if existing.Name == n.Name {
			return store.ErrDuplicateName
		}
	}
	if idx < 0 {
		return store.ErrNotFound
	}
	f.NGOs[idx] = *n
	return nil
}

// Analytics

func sameDay(a, b time.Time) bool {
	return a.Format(time.DateOnly) == b.Format(time.DateOnly)
}

func (f *FakeStore) ListAnalytics(_ context.Context, filter store.AnalyticsFilter) ([]models.AnalyticsDaily, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("ListAnalytics"); err != nil {
		return nil, err
	}
	from := filter.From.Format(time.DateOnly)
	var out []models.AnalyticsDaily
	for _, a := range f.Analytics {
		if a.Date.Format(time.DateOnly) < from {
			continue
		}
		if filter.CanteenID != nil && a.CanteenID != *filter.CanteenID {
			continue
		}
		if filter.WithCanteen {
			a.Canteen = f.canteen(a.CanteenID)
		}
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (f *FakeStore) GetAnalyticsForDay(_ context.Context, canteenID uuid.UUID, day time.Time) (*models.AnalyticsDaily, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("GetAnalyticsForDay"); err != nil {
		return nil, err
	}
	for _, a := range f.Analytics {
		if a.CanteenID == canteenID && sameDay(a.Date, day) {
			return &a, nil
		}
	}
	return nil, store.ErrNotFound
}

// Food items

func (f *FakeStore) ListFoodCategories(context.Context) ([]models.FoodItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("ListFoodCategories"); err != nil {
		return nil, err
	}
	out := make([]models.FoodItem, 0, len(f.FoodItems))
	for _, it := range f.FoodItems {
		out = append(out, models.FoodItem{Category: it.Category})
	}
	return out, nil
}

func (f *FakeStore) newestFirst(items []models.FoodItem) {
	sort.SliceStable(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
}

func (f *FakeStore) ListRecentFoodItems(_ context.Context, limit int) ([]models.FoodItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("ListRecentFoodItems"); err != nil {
		return nil, err
	}
	out := make([]models.FoodItem, 0, len(f.FoodItems))
	for _, it := range f.FoodItems {
		out = append(out, f.withCanteen(it))
	}
	f.newestFirst(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *FakeStore) ListCanteenFoodItems(_ context.Context, canteenID uuid.UUID) ([]models.FoodItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("ListCanteenFoodItems"); err != nil {
		return nil, err
	}
	var out []models.FoodItem
	for _, it := range f.FoodItems {
		if it.CanteenID != canteenID {
			continue
		}
		it = f.withCanteen(it)
		it.FlashSales = nil
		for _, s := range f.FlashSales {
			if s.FoodItemID == it.ID {
				it.FlashSales = append(it.FlashSales, s)
			}
		}
		out = append(out, it)
	}
	f.newestFirst(out)
	return out, nil
}

func (f *FakeStore) CreateFoodItem(_ context.Context, item *models.FoodItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("CreateFoodItem"); err != nil {
		return err
	}
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	if item.Status == "" {
		item.Status = models.FoodAvailable
	}
	if item.InitialQuantity == 0 {
		item.InitialQuantity = item.Quantity
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}
	f.FoodItems = append(f.FoodItems, *item)
	f.audit(models.AuditLog{
		ActorID: item.StaffID, EntityType: "food_item", EntityID: item.ID,
		Action: models.AuditActionCreate, ToStatus: string(item.Status), Note: item.Name,
	})
	return nil
}

// Flash sales and claims

func (f *FakeStore) ListActiveFlashSales(_ context.Context, now time.Time) ([]models.FlashSale, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("ListActiveFlashSales"); err != nil {
		return nil, err
	}
	var out []models.FlashSale
	for _, s := range f.FlashSales {
		if !s.ActiveAt(now) {
			continue
		}
		if it := f.item(s.FoodItemID); it != nil {
			withCanteen := f.withCanteen(*it)
			s.FoodItem = &withCanteen
		}
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (f *FakeStore) ListClaimsByStudent(_ context.Context, studentID uuid.UUID) ([]models.Claim, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("ListClaimsByStudent"); err != nil {
		return nil, err
	}
	var out []models.Claim
	for _, c := range f.Claims {
		if c.StudentID != studentID {
			continue
		}
		if it := f.item(c.FoodItemID); it != nil {
			cp := *it
			c.FoodItem = &cp
		}
		out = append(out, c)
	}
	return out, nil
}

func (f *FakeStore) StartFlashSale(_ context.Context, p store.FlashSaleParams) (*models.FlashSale, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("StartFlashSale"); err != nil {
		return nil, err
	}
	item := f.item(p.FoodItemID)
	if item == nil {
		return nil, store.ErrNotFound
	}
	work := *item
	sale, err := store.PlanFlashSale(&work, p)
	if err != nil {
		return nil, err
	}
	from := item.Status
	*item = work
	sale.ID = uuid.New()
	f.FlashSales = append(f.FlashSales, *sale)
	f.audit(models.AuditLog{
		ActorID: p.ActorID, EntityType: "food_item", EntityID: item.ID,
		Action: models.AuditActionTransition, FromStatus: string(from), ToStatus: string(item.Status),
	})
	return sale, nil
}

func (f *FakeStore) ClaimFlashSale(_ context.Context, p store.ClaimParams) (*models.Claim, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("ClaimFlashSale"); err != nil {
		return nil, err
	}
	var sale *models.FlashSale
	for i := range f.FlashSales {
		if f.FlashSales[i].ID == p.FlashSaleID {
			sale = &f.FlashSales[i]
		}
	}
	if sale == nil {
		return nil, store.ErrNotFound
	}
	item := f.item(sale.FoodItemID)
	if item == nil {
		return nil, store.ErrNotFound
	}
	workSale, workItem := *sale, *item
	claim, err := store.PlanClaim(&workSale, &workItem, p)
	if err != nil {
		return nil, err
	}
	from := item.Status
	*sale, *item = workSale, workItem
	claim.ID = uuid.New()
	claim.CreatedAt = time.Now()
	f.Claims = append(f.Claims, *claim)
	f.audit(models.AuditLog{
		ActorID: p.StudentID, EntityType: "claim", EntityID: claim.ID,
		Action: models.AuditActionCreate, FromStatus: string(from), ToStatus: string(item.Status),
	})
	cp := workItem
	claim.FoodItem = &cp
	return claim, nil
}

// Donations

func (f *FakeStore) ListDonations(_ context.Context, filter store.DonationFilter) ([]models.Donation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("ListDonations"); err != nil {
		return nil, err
	}
	var out []models.Donation
	for _, d := range f.Donations {
		if d.NGOID != filter.NGOID || d.Status != filter.Status {
			continue
		}
		if filter.Since != nil && d.CreatedAt.Before(*filter.Since) {
			continue
		}
		if it := f.item(d.FoodItemID); it != nil {
			withCanteen := f.withCanteen(*it)
			d.FoodItem = &withCanteen
		}
		out = append(out, d)
	}
	switch filter.Order {
	case store.PickupSoonestFirst:
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].PickupTime == nil || out[j].PickupTime == nil {
				return out[j].PickupTime == nil && out[i].PickupTime != nil
			}
			return out[i].PickupTime.Before(*out[j].PickupTime)
		})
	default:
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	}
	return out, nil
}

func (f *FakeStore) DonateFoodItem(_ context.Context, p store.DonateParams) (*models.Donation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("DonateFoodItem"); err != nil {
		return nil, err
	}
	found := false
	for _, n := range f.NGOs {
		if n.ID == p.NGOID {
			found = true
		}
	}
	item := f.item(p.FoodItemID)
	if !found || item == nil {
		return nil, store.ErrNotFound
	}
	work := *item
	d, err := store.PlanDonation(&work, p)
	if err != nil {
		return nil, err
	}
	from := item.Status
	*item = work
	f.audit(models.AuditLog{
		ActorID: p.ActorID, EntityType: "food_item", EntityID: item.ID,
		Action: models.AuditActionTransition, FromStatus: string(from), ToStatus: string(item.Status),
	})
	for i := range f.FlashSales {
		if f.FlashSales[i].FoodItemID == item.ID {
			f.FlashSales[i].IsActive = false
		}
	}
	d.ID = uuid.New()
	d.CreatedAt = time.Now()
	f.Donations = append(f.Donations, *d)
	return d, nil
}

func (f *FakeStore) AdvanceDonation(_ context.Context, p store.AdvanceParams) (*models.Donation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("AdvanceDonation"); err != nil {
		return nil, err
	}
	for i := range f.Donations {
		if f.Donations[i].ID != p.DonationID {
			continue
		}
		work := f.Donations[i]
		if err := store.PlanAdvance(&work, p); err != nil {
			return nil, err
		}
		f.audit(models.AuditLog{
			ActorID: p.ActorID, EntityType: "donation", EntityID: work.ID,
			Action: models.AuditActionTransition, FromStatus: string(f.Donations[i].Status), ToStatus: string(work.Status),
		})
		f.Donations[i] = work
		return &work, nil
	}
	return nil, store.ErrNotFound
}

// Sweeper and audit

func (f *FakeStore) ExpireFoodItems(_ context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("ExpireFoodItems"); err != nil {
		return 0, err
	}
	var n int64
	for i := range f.FoodItems {
		if !store.Expirable(f.FoodItems[i], now) {
			continue
		}
		f.audit(models.AuditLog{
			EntityType: "food_item", EntityID: f.FoodItems[i].ID, Action: models.AuditActionTransition,
			FromStatus: string(f.FoodItems[i].Status), ToStatus: string(models.FoodExpired), Note: "expiry sweep",
		})
		f.FoodItems[i].Status = models.FoodExpired
		for j := range f.FlashSales {
			if f.FlashSales[j].FoodItemID == f.FoodItems[i].ID {
				f.FlashSales[j].IsActive = false
			}
		}
		n++
	}
	return n, nil
}

func (f *FakeStore) ListAuditLogs(_ context.Context, filter store.AuditFilter) ([]models.AuditLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("ListAuditLogs"); err != nil {
		return nil, err
	}
	var out []models.AuditLog
	for _, l := range f.AuditLogs {
		if filter.EntityType != "" && l.EntityType != filter.EntityType {
			continue
		}
		if filter.EntityID != nil && l.EntityID != *filter.EntityID {
			continue
		}
		if filter.ActorID != nil && l.ActorID != *filter.ActorID {
			continue
		}
		out = append(out, l)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// Rollup

func (f *FakeStore) ActivityForDay(_ context.Context, day time.Time) (*store.DayActivity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("ActivityForDay"); err != nil {
		return nil, err
	}
	var out store.DayActivity
	for _, it := range f.FoodItems {
		if sameDay(it.CreatedAt.UTC(), day.UTC()) {
			out.Items = append(out.Items, it)
		}
	}
	for _, c := range f.Claims {
		if sameDay(c.CreatedAt.UTC(), day.UTC()) {
			if it := f.item(c.FoodItemID); it != nil {
				cp := *it
				c.FoodItem = &cp
			}
			out.Claims = append(out.Claims, c)
		}
	}
	for _, d := range f.Donations {
		if sameDay(d.CreatedAt.UTC(), day.UTC()) {
			if it := f.item(d.FoodItemID); it != nil {
				cp := *it
				d.FoodItem = &cp
			}
			out.Donations = append(out.Donations, d)
		}
	}
	return &out, nil
}

func (f *FakeStore) UpsertAnalytics(_ context.Context, rows []models.AnalyticsDaily) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("UpsertAnalytics"); err != nil {
		return err
	}
	for _, r := range rows {
		replaced := false
		for i := range f.Analytics {
			if f.Analytics[i].CanteenID == r.CanteenID && sameDay(f.Analytics[i].Date, r.Date) {
				r.ID = f.Analytics[i].ID
				f.Analytics[i] = r
				replaced = true
			}
		}
		if !replaced {
			if r.ID == uuid.Nil {
				r.ID = uuid.New()
			}
			f.Analytics = append(f.Analytics, r)
		}
	}
	return nil
}
