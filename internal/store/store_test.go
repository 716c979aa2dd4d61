package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"replate-backend/internal/analytics"
	"replate-backend/internal/database"
	"replate-backend/internal/models"
	"replate-backend/internal/store"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openStore runs the real gorm store against an in-memory sqlite db with
// the production migrations. Row locks are dropped by the sqlite dialect.
func openStore(t *testing.T) (*store.Store, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	// every connection to :memory: is its own database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return store.New(db), db
}

type seed struct {
	canteen models.Canteen
	ngo     models.NGO
	staff   models.Profile
	student models.Profile
}

func seedRows(t *testing.T, db *gorm.DB) seed {
	t.Helper()
	s := seed{
		canteen: models.Canteen{ID: uuid.New(), Name: "North Hall"},
		ngo:     models.NGO{ID: uuid.New(), Name: "Food Bridge"},
	}
	s.staff = models.Profile{ID: uuid.New(), Email: "cook@campus.edu", PasswordHash: "x", Role: models.RoleStaff, CanteenID: &s.canteen.ID}
	s.student = models.Profile{ID: uuid.New(), Email: "stu@campus.edu", PasswordHash: "x", Role: models.RoleStudent}
	for _, row := range []any{&s.canteen, &s.ngo, &s.staff, &s.student} {
		if err := db.Create(row).Error; err != nil {
			t.Fatalf("seed %T: %v", row, err)
		}
	}
	return s
}

func (s seed) item(t *testing.T, st *store.Store, qty int, expiry time.Time) *models.FoodItem {
	t.Helper()
	it := &models.FoodItem{
		CanteenID: s.canteen.ID, StaffID: s.staff.ID, Name: "Veg Pulao", Category: "Meals",
		Quantity: qty, OriginalPrice: ptr(40.0), ExpiryTime: expiry,
	}
	if err := st.CreateFoodItem(context.Background(), it); err != nil {
		t.Fatalf("CreateFoodItem: %v", err)
	}
	return it
}

func auditActions(t *testing.T, st *store.Store, entity uuid.UUID) []string {
	t.Helper()
	logs, err := st.ListAuditLogs(context.Background(), store.AuditFilter{EntityID: &entity, Limit: 50})
	if err != nil {
		t.Fatalf("ListAuditLogs: %v", err)
	}
	var out []string
	for _, l := range logs {
		out = append(out, l.FromStatus+">"+l.ToStatus)
	}
	return out
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func TestCreateProfileDuplicateEmail(t *testing.T) {
	st, _ := openStore(t)
	ctx := context.Background()

	p := &models.Profile{Email: "dup@campus.edu", PasswordHash: "x", Role: models.RoleStudent}
	if err := st.CreateProfile(ctx, p); err != nil {
		t.Fatalf("first: %v", err)
	}
	if p.ID == uuid.Nil {
		t.Error("id not assigned on create")
	}
	err := st.CreateProfile(ctx, &models.Profile{Email: "dup@campus.edu", PasswordHash: "y", Role: models.RoleStudent})
	if !errors.Is(err, store.ErrDuplicateEmail) {
		t.Errorf("second: got %v, want ErrDuplicateEmail", err)
	}

	if _, err := st.GetProfileByEmail(ctx, "ghost@campus.edu"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("unknown email: got %v, want ErrNotFound", err)
	}
}

func TestSaveNamedPartners(t *testing.T) {
	st, _ := openStore(t)
	ctx := context.Background()

	north := &models.Canteen{Name: "North Hall", Location: "Block A"}
	south := &models.Canteen{Name: "South Hall"}
	for _, c := range []*models.Canteen{north, south} {
		if err := st.CreateCanteen(ctx, c); err != nil {
			t.Fatalf("CreateCanteen %s: %v", c.Name, err)
		}
	}
	if err := st.CreateCanteen(ctx, &models.Canteen{Name: "North Hall"}); !errors.Is(err, store.ErrDuplicateName) {
		t.Errorf("duplicate create: got %v, want ErrDuplicateName", err)
	}

	south.Name = "North Hall"
	if err := st.UpdateCanteen(ctx, south); !errors.Is(err, store.ErrDuplicateName) {
		t.Errorf("rename onto existing: got %v, want ErrDuplicateName", err)
	}

	north.Location = "Block B"
	if err := st.UpdateCanteen(ctx, north); err != nil {
		t.Fatalf("UpdateCanteen: %v", err)
	}
	got, err := st.GetCanteen(ctx, north.ID)
	if err != nil || got.Location != "Block B" {
		t.Errorf("after update: %+v, %v", got, err)
	}

	if err := st.UpdateNGO(ctx, &models.NGO{ID: uuid.New(), Name: "Ghost"}); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("update unknown ngo: got %v, want ErrNotFound", err)
	}
}

func TestWritePathsAuditInTransaction(t *testing.T) {
	st, db := openStore(t)
	s := seedRows(t, db)
	ctx := context.Background()

	item := s.item(t, st, 5, now.Add(3*time.Hour))
	if item.InitialQuantity != 5 {
		t.Errorf("initial quantity = %d, want 5", item.InitialQuantity)
	}

	sale, err := st.StartFlashSale(ctx, store.FlashSaleParams{
		FoodItemID: item.ID, CanteenID: s.canteen.ID, ActorID: s.staff.ID,
		DiscountedPrice: 15, Start: now, End: now.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("StartFlashSale: %v", err)
	}

	claim, err := st.ClaimFlashSale(ctx, store.ClaimParams{FlashSaleID: sale.ID, StudentID: s.student.ID, Quantity: 5, Now: now})
	if err != nil {
		t.Fatalf("ClaimFlashSale: %v", err)
	}
	if claim.AmountPaid != 75 {
		t.Errorf("amount paid = %v, want 75", claim.AmountPaid)
	}

	var stored models.FoodItem
	if err := db.First(&stored, "id = ?", item.ID).Error; err != nil {
		t.Fatal(err)
	}
	if stored.Status != models.FoodClaimed || stored.Quantity != 0 || stored.InitialQuantity != 5 {
		t.Errorf("stored item = status %s qty %d initial %d", stored.Status, stored.Quantity, stored.InitialQuantity)
	}
	var storedSale models.FlashSale
	if err := db.First(&storedSale, "id = ?", sale.ID).Error; err != nil || storedSale.IsActive {
		t.Errorf("sale after sell-out: active=%v err=%v", storedSale.IsActive, err)
	}

	// rejected write leaves no rows behind
	if _, err := st.ClaimFlashSale(ctx, store.ClaimParams{FlashSaleID: sale.ID, StudentID: s.student.ID, Quantity: 1, Now: now}); !errors.Is(err, store.ErrSaleClosed) {
		t.Errorf("claim on closed sale: got %v", err)
	}
	var claims int64
	db.Model(&models.Claim{}).Count(&claims)
	if claims != 1 {
		t.Errorf("claims = %d, want 1", claims)
	}

	got := auditActions(t, st, item.ID)
	if len(got) != 2 || !contains(got, ">available") || !contains(got, "available>flash_sale") {
		t.Errorf("food item audit = %v", got)
	}
	if a := auditActions(t, st, claim.ID); len(a) != 1 || a[0] != "flash_sale>claimed" {
		t.Errorf("claim audit = %v", a)
	}
}

func TestDonationLifecycle(t *testing.T) {
	st, db := openStore(t)
	s := seedRows(t, db)
	ctx := context.Background()

	item := s.item(t, st, 8, now.Add(3*time.Hour))
	d, err := st.DonateFoodItem(ctx, store.DonateParams{FoodItemID: item.ID, CanteenID: s.canteen.ID, NGOID: s.ngo.ID, ActorID: s.staff.ID})
	if err != nil {
		t.Fatalf("DonateFoodItem: %v", err)
	}
	if d.Quantity != 8 || d.Status != models.DonationAvailable {
		t.Errorf("donation = %+v", d)
	}

	if _, err := st.AdvanceDonation(ctx, store.AdvanceParams{DonationID: d.ID, NGOID: s.ngo.ID, To: models.DonationCompleted, Now: now}); !errors.Is(err, store.ErrInvalidTransition) {
		t.Errorf("skip to completed: got %v", err)
	}
	pickup := now.Add(time.Hour)
	if _, err := st.AdvanceDonation(ctx, store.AdvanceParams{DonationID: d.ID, NGOID: s.ngo.ID, To: models.DonationScheduled, PickupTime: &pickup, Now: now}); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	done, err := st.AdvanceDonation(ctx, store.AdvanceParams{DonationID: d.ID, NGOID: s.ngo.ID, To: models.DonationCompleted, Now: now})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if done.Status != models.DonationCompleted || done.CompletedAt == nil {
		t.Errorf("completed donation = %+v", done)
	}
	if a := auditActions(t, st, d.ID); len(a) != 2 {
		t.Errorf("donation audit = %v, want two transitions", a)
	}
}

func TestListDonationsOrder(t *testing.T) {
	st, db := openStore(t)
	s := seedRows(t, db)
	ctx := context.Background()
	item := s.item(t, st, 3, now.Add(3*time.Hour))

	mk := func(created time.Time, pickup time.Time, status models.DonationStatus) models.Donation {
		d := models.Donation{FoodItemID: item.ID, NGOID: s.ngo.ID, Quantity: 1, Status: status, PickupTime: &pickup, CreatedAt: created}
		if err := db.Create(&d).Error; err != nil {
			t.Fatal(err)
		}
		return d
	}
	older := mk(now.Add(-2*time.Hour), now.Add(5*time.Hour), models.DonationScheduled)
	newer := mk(now.Add(-time.Hour), now.Add(2*time.Hour), models.DonationScheduled)
	mk(now.Add(-30*time.Minute), now, models.DonationCompleted)

	byCreated, err := st.ListDonations(ctx, store.DonationFilter{NGOID: s.ngo.ID, Status: models.DonationScheduled})
	if err != nil {
		t.Fatal(err)
	}
	if len(byCreated) != 2 || byCreated[0].ID != newer.ID || byCreated[1].ID != older.ID {
		t.Errorf("newest first = %v", ids(byCreated))
	}
	if byCreated[0].FoodItem == nil || byCreated[0].FoodItem.Canteen == nil {
		t.Error("food item and canteen not preloaded")
	}

	byPickup, err := st.ListDonations(ctx, store.DonationFilter{NGOID: s.ngo.ID, Status: models.DonationScheduled, Order: store.PickupSoonestFirst})
	if err != nil {
		t.Fatal(err)
	}
	if len(byPickup) != 2 || byPickup[0].ID != newer.ID {
		t.Errorf("pickup soonest first = %v", ids(byPickup))
	}

	since := now.Add(-90 * time.Minute)
	recent, err := st.ListDonations(ctx, store.DonationFilter{NGOID: s.ngo.ID, Status: models.DonationScheduled, Since: &since})
	if err != nil || len(recent) != 1 || recent[0].ID != newer.ID {
		t.Errorf("since filter = %v, %v", ids(recent), err)
	}
}

func ids(ds []models.Donation) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ds))
	for _, d := range ds {
		out = append(out, d.ID)
	}
	return out
}

func TestExpireFoodItems(t *testing.T) {
	st, db := openStore(t)
	s := seedRows(t, db)
	ctx := context.Background()

	stale := s.item(t, st, 4, now.Add(time.Hour))
	fresh := s.item(t, st, 4, now.Add(5*time.Hour))
	if _, err := st.StartFlashSale(ctx, store.FlashSaleParams{
		FoodItemID: stale.ID, CanteenID: s.canteen.ID, DiscountedPrice: 10, Start: now, End: now.Add(30 * time.Minute),
	}); err != nil {
		t.Fatal(err)
	}

	later := now.Add(2 * time.Hour)
	n, err := st.ExpireFoodItems(ctx, later)
	if err != nil || n != 1 {
		t.Fatalf("ExpireFoodItems = %d, %v; want 1", n, err)
	}
	var got models.FoodItem
	db.First(&got, "id = ?", stale.ID)
	if got.Status != models.FoodExpired {
		t.Errorf("stale status = %s", got.Status)
	}
	db.First(&got, "id = ?", fresh.ID)
	if got.Status != models.FoodAvailable {
		t.Errorf("fresh status = %s", got.Status)
	}
	var open int64
	db.Model(&models.FlashSale{}).Where("is_active = ?", true).Count(&open)
	if open != 0 {
		t.Errorf("%d flash sales still open", open)
	}
	if a := auditActions(t, st, stale.ID); len(a) != 3 {
		t.Errorf("stale audit = %v, want create, sale, expiry", a)
	}

	if n, _ := st.ExpireFoodItems(ctx, later); n != 0 {
		t.Errorf("second sweep = %d, want 0", n)
	}
}

func TestRollupRoundTrip(t *testing.T) {
	st, db := openStore(t)
	s := seedRows(t, db)
	ctx := context.Background()
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	item := &models.FoodItem{
		CanteenID: s.canteen.ID, StaffID: s.staff.ID, Name: "Dal", Category: "Meals",
		Quantity: 10, ExpiryTime: now.Add(time.Hour), CreatedAt: day.Add(9 * time.Hour),
	}
	if err := st.CreateFoodItem(ctx, item); err != nil {
		t.Fatal(err)
	}
	claim := models.Claim{FlashSaleID: uuid.New(), FoodItemID: item.ID, StudentID: s.student.ID, Quantity: 4, AmountPaid: 40, CreatedAt: day.Add(10 * time.Hour)}
	nextDay := models.Claim{FlashSaleID: uuid.New(), FoodItemID: item.ID, StudentID: s.student.ID, Quantity: 1, AmountPaid: 10, CreatedAt: day.Add(30 * time.Hour)}
	for _, c := range []*models.Claim{&claim, &nextDay} {
		if err := db.Create(c).Error; err != nil {
			t.Fatal(err)
		}
	}

	act, err := st.ActivityForDay(ctx, day.Add(15*time.Hour))
	if err != nil {
		t.Fatalf("ActivityForDay: %v", err)
	}
	if len(act.Items) != 1 || len(act.Claims) != 1 || act.Claims[0].FoodItem == nil {
		t.Fatalf("activity = %d items, %d claims", len(act.Items), len(act.Claims))
	}

	rows := analytics.DailyRollup(day, act.Items, act.Claims, act.Donations)
	if err := st.UpsertAnalytics(ctx, rows); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	rows[0].TotalFoodSold = 9
	rows[0].ID = uuid.Nil
	if err := st.UpsertAnalytics(ctx, rows); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	var all []models.AnalyticsDaily
	if err := db.Find(&all).Error; err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 {
		t.Fatalf("analytics rows = %d, want 1 after conflict", len(all))
	}
	if all[0].TotalFoodSold != 9 || all[0].TotalFoodLogged != 10 {
		t.Errorf("row = %+v", all[0])
	}
	if analytics.ParseNumeric(all[0].RevenueGenerated) != 40 {
		t.Errorf("revenue = %q", all[0].RevenueGenerated)
	}
}
