package admin_test

import (
	"net/http"
	"testing"

	"replate-backend/internal/admin"
	"replate-backend/internal/apierror"
	"replate-backend/internal/models"
	"replate-backend/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func newApp(fs *testutil.FakeStore) *fiber.App {
	h := admin.NewHandler(fs, zap.NewNop())
	app := fiber.New(fiber.Config{ErrorHandler: apierror.Handler(zap.NewNop())})
	app.Get("/canteens", h.ListCanteens())
	app.Post("/canteens", h.CreateCanteen())
	app.Put("/canteens/:id", h.UpdateCanteen())
	app.Get("/ngos", h.ListNGOs())
	app.Post("/ngos", h.CreateNGO())
	app.Put("/ngos/:id", h.UpdateNGO())
	return app
}

func do(t *testing.T, app *fiber.App, method, target string, body, out any) int {
	t.Helper()
	return testutil.Do(t, app, testutil.Request(t, method, target, body, ""), out)
}

func TestCanteenLifecycle(t *testing.T) {
	fs := testutil.NewFakeStore()
	app := newApp(fs)

	var created models.Canteen
	if code := do(t, app, http.MethodPost, "/canteens", map[string]any{"name": " North Hall ", "location": "Block A"}, &created); code != http.StatusCreated {
		t.Fatalf("create = %d", code)
	}
	if created.Name != "North Hall" || created.ID == uuid.Nil {
		t.Errorf("created = %+v", created)
	}
	if code := do(t, app, http.MethodPost, "/canteens", map[string]any{"name": "North Hall"}, nil); code != http.StatusConflict {
		t.Errorf("duplicate = %d, want 409", code)
	}
	if code := do(t, app, http.MethodPost, "/canteens", map[string]any{"location": "nowhere"}, nil); code != http.StatusBadRequest {
		t.Errorf("nameless = %d, want 400", code)
	}

	var updated models.Canteen
	if code := do(t, app, http.MethodPut, "/canteens/"+created.ID.String(), map[string]any{"contact_phone": "555-0101"}, &updated); code != http.StatusOK {
		t.Fatalf("update = %d", code)
	}
	if updated.Name != "North Hall" || updated.Location != "Block A" || updated.ContactPhone != "555-0101" {
		t.Errorf("partial update clobbered fields: %+v", updated)
	}
	if code := do(t, app, http.MethodPut, "/canteens/"+uuid.NewString(), map[string]any{"name": "X"}, nil); code != http.StatusNotFound {
		t.Errorf("unknown = %d, want 404", code)
	}

	var list []models.Canteen
	do(t, app, http.MethodGet, "/canteens", nil, &list)
	if len(list) != 1 || list[0].ContactPhone != "555-0101" {
		t.Errorf("list = %+v", list)
	}
}

func TestNGOLifecycle(t *testing.T) {
	fs := testutil.NewFakeStore()
	fs.NGOs = []models.NGO{{ID: uuid.New(), Name: "Food Bridge"}}
	app := newApp(fs)

	var created models.NGO
	if code := do(t, app, http.MethodPost, "/ngos", map[string]any{"name": "Meal Share", "address": "12 Market St"}, &created); code != http.StatusCreated {
		t.Fatalf("create = %d", code)
	}
	if code := do(t, app, http.MethodPut, "/ngos/"+created.ID.String(), map[string]any{"name": "Food Bridge"}, nil); code != http.StatusConflict {
		t.Errorf("rename onto existing = %d, want 409", code)
	}
	if code := do(t, app, http.MethodPut, "/ngos/"+created.ID.String(), map[string]any{"name": ""}, nil); code != http.StatusBadRequest {
		t.Errorf("blank rename = %d, want 400", code)
	}

	var list []models.NGO
	do(t, app, http.MethodGet, "/ngos", nil, &list)
	if len(list) != 2 || list[0].Name != "Food Bridge" || list[1].Address != "12 Market St" {
		t.Errorf("list = %+v", list)
	}
}
