package models_test

import (
	"testing"
	"time"

	"replate-backend/internal/models"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in     string
		want   models.Role
		wantOK bool
	}{
		{"staff", models.RoleStaff, true},
		{" Student ", models.RoleStudent, true},
		{"VOLUNTEER", models.RoleVolunteer, true},
		{"admin", models.RoleAdmin, true},
		{"janitor", "janitor", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := models.ParseRole(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseRole(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestRoleHomePath(t *testing.T) {
	want := map[models.Role]string{
		models.RoleStaff:     "/staff",
		models.RoleStudent:   "/student",
		models.RoleVolunteer: "/volunteer",
		models.RoleAdmin:     "/admin",
		"janitor":            "/auth/login",
	}
	for role, path := range want {
		if got := role.HomePath(); got != path {
			t.Errorf("%q.HomePath() = %q, want %q", role, got, path)
		}
	}
	if len(models.Roles) != 4 {
		t.Errorf("Roles: got %d entries", len(models.Roles))
	}
}

func TestFoodStatusTransitions(t *testing.T) {
	all := []models.FoodStatus{models.FoodAvailable, models.FoodFlashSale, models.FoodDonated, models.FoodClaimed, models.FoodExpired}
	allowed := map[models.FoodStatus][]models.FoodStatus{
		models.FoodAvailable: {models.FoodFlashSale, models.FoodDonated, models.FoodClaimed, models.FoodExpired},
		models.FoodFlashSale: {models.FoodDonated, models.FoodClaimed, models.FoodExpired},
	}
	for _, from := range all {
		ok := map[models.FoodStatus]bool{}
		for _, to := range allowed[from] {
			ok[to] = true
		}
		for _, to := range all {
			if got := from.CanTransitionTo(to); got != ok[to] {
				t.Errorf("%s -> %s: got %v, want %v", from, to, got, ok[to])
			}
		}
		if from.Terminal() != (len(allowed[from]) == 0) {
			t.Errorf("%s.Terminal() = %v", from, from.Terminal())
		}
	}
}

func TestDonationStatusNext(t *testing.T) {
	next, ok := models.DonationAvailable.Next()
	if !ok || next != models.DonationScheduled {
		t.Errorf("available.Next() = %s, %v", next, ok)
	}
	next, ok = models.DonationScheduled.Next()
	if !ok || next != models.DonationCompleted {
		t.Errorf("scheduled.Next() = %s, %v", next, ok)
	}
	if _, ok := models.DonationCompleted.Next(); ok {
		t.Error("completed should have no successor")
	}
	if _, ok := models.DonationStatus("lost").Next(); ok {
		t.Error("unknown status should have no successor")
	}
}

func TestFlashSaleActiveAt(t *testing.T) {
	now := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		sale models.FlashSale
		want bool
	}{
		{"running", models.FlashSale{IsActive: true, EndTime: now.Add(time.Minute)}, true},
		{"ends now", models.FlashSale{IsActive: true, EndTime: now}, false},
		{"switched off", models.FlashSale{IsActive: false, EndTime: now.Add(time.Hour)}, false},
	}
	for _, tt := range tests {
		if got := tt.sale.ActiveAt(now); got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}
