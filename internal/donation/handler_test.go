package donation_test

import (
	"net/http"
	"testing"
	"time"

	"replate-backend/internal/apierror"
	"replate-backend/internal/auth"
	"replate-backend/internal/donation"
	"replate-backend/internal/models"
	"replate-backend/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var now = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

func setup(t *testing.T) (*testutil.FakeStore, *fiber.App, models.Profile) {
	t.Helper()
	fs := testutil.NewFakeStore()
	ngo := uuid.New()
	vol := models.Profile{ID: uuid.New(), Email: "vol@ngo.org", Role: models.RoleVolunteer, NGOID: &ngo}
	fs.NGOs = []models.NGO{{ID: ngo, Name: "Food Bridge"}}
	fs.Donations = []models.Donation{
		{ID: uuid.New(), FoodItemID: uuid.New(), NGOID: ngo, Quantity: 8, Status: models.DonationAvailable},
		{ID: uuid.New(), FoodItemID: uuid.New(), NGOID: uuid.New(), Quantity: 2, Status: models.DonationAvailable},
	}

	h := donation.NewHandler(fs, zap.NewNop())
	h.Now = func() time.Time { return now }

	app := fiber.New(fiber.Config{ErrorHandler: apierror.Handler(zap.NewNop())})
	v := app.Group("/api/volunteer", auth.JWTMiddleware(testutil.Secret), auth.RequireRole(models.RoleVolunteer))
	v.Post("/donations/:id/schedule", h.Schedule())
	v.Post("/donations/:id/complete", h.Complete())
	return fs, app, vol
}

func TestScheduleThenComplete(t *testing.T) {
	fs, app, vol := setup(t)
	id := fs.Donations[0].ID.String()
	token := testutil.Token(t, &vol)
	pickup := now.Add(2 * time.Hour)

	var d models.Donation
	req := testutil.Request(t, http.MethodPost, "/api/volunteer/donations/"+id+"/schedule", map[string]any{"pickup_time": pickup}, token)
	if code := testutil.Do(t, app, req, &d); code != http.StatusOK {
		t.Fatalf("schedule status = %d", code)
	}
	if d.Status != models.DonationScheduled || d.PickupTime == nil || !d.PickupTime.Equal(pickup) {
		t.Errorf("scheduled donation = %+v", d)
	}

	d = models.Donation{}
	req = testutil.Request(t, http.MethodPost, "/api/volunteer/donations/"+id+"/complete", nil, token)
	if code := testutil.Do(t, app, req, &d); code != http.StatusOK {
		t.Fatalf("complete status = %d", code)
	}
	if d.Status != models.DonationCompleted || d.CompletedAt == nil || !d.CompletedAt.Equal(now) {
		t.Errorf("completed donation = %+v", d)
	}
	if len(fs.AuditLogs) != 2 {
		t.Errorf("audit entries = %d, want 2", len(fs.AuditLogs))
	}
}

func TestAdvanceRejections(t *testing.T) {
	fs, app, vol := setup(t)
	mine, theirs := fs.Donations[0].ID.String(), fs.Donations[1].ID.String()
	token := testutil.Token(t, &vol)
	pickup := map[string]any{"pickup_time": now.Add(time.Hour)}
	student := models.Profile{ID: uuid.New(), Role: models.RoleStudent}

	cases := []struct {
		name   string
		target string
		body   any
		token  string
		want   int
	}{
		{"complete skips scheduled", "/api/volunteer/donations/" + mine + "/complete", nil, token, http.StatusConflict},
		{"missing pickup time", "/api/volunteer/donations/" + mine + "/schedule", map[string]any{}, token, http.StatusBadRequest},
		{"pickup in the past", "/api/volunteer/donations/" + mine + "/schedule", map[string]any{"pickup_time": now.Add(-time.Hour)}, token, http.StatusBadRequest},
		{"other ngo", "/api/volunteer/donations/" + theirs + "/schedule", pickup, token, http.StatusForbidden},
		{"unknown donation", "/api/volunteer/donations/" + uuid.NewString() + "/schedule", pickup, token, http.StatusNotFound},
		{"wrong role", "/api/volunteer/donations/" + mine + "/schedule", pickup, testutil.Token(t, &student), http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := testutil.Request(t, http.MethodPost, tc.target, tc.body, tc.token)
			if got := testutil.Do(t, app, req, nil); got != tc.want {
				t.Errorf("status = %d, want %d", got, tc.want)
			}
		})
	}
	if fs.Donations[0].Status != models.DonationAvailable {
		t.Errorf("rejected requests moved donation to %s", fs.Donations[0].Status)
	}
}
