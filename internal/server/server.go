// Package server wires the handlers into one fiber app.
package server

import (
	"strings"

	"replate-backend/internal/admin"
	"replate-backend/internal/apierror"
	"replate-backend/internal/audit"
	"replate-backend/internal/auth"
	"replate-backend/internal/cache"
	"replate-backend/internal/config"
	"replate-backend/internal/dashboard"
	"replate-backend/internal/donation"
	"replate-backend/internal/export"
	"replate-backend/internal/logging"
	"replate-backend/internal/models"
	"replate-backend/internal/surplus"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// Store is everything the HTTP surface reads and writes. *store.Store
// and testutil.FakeStore both satisfy it.
type Store interface {
	admin.Store
	auth.Profiles
	dashboard.Reader
	surplus.Store
	donation.Store
	audit.Store
	export.Reader
}

func New(cfg *config.Config, st Store, c cache.Cache, log *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: apierror.Handler(log),
	})

	origins := strings.Split(cfg.CORSOrigins, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	app.Use(recover.New())
	app.Use(logging.RequestLogger(log))
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(origins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	authH := auth.NewHandler(st, cfg.JWTSecret, cfg.TokenTTL, log)
	dashH := dashboard.NewHandler(dashboard.NewAssembler(st, c, cfg.CacheTTL, log))
	surplusH := surplus.NewHandler(st, log)
	donationH := donation.NewHandler(st, log)
	auditH := audit.NewHandler(st)
	partnerH := admin.NewHandler(st, log)
	exportH := export.NewHandler(export.NewService(st, log))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/sign-up", authH.SignUp())
	api.Post("/auth/register-admin", authH.RegisterAdmin())
	api.Post("/auth/login", authH.Login())

	// Sign-up needs these to pick a canteen or ngo
	api.Get("/canteens", partnerH.ListCanteens())
	api.Get("/ngos", partnerH.ListNGOs())

	// Protected
	protected := api.Group("", auth.JWTMiddleware(cfg.JWTSecret))
	protected.Get("/auth/me", authH.Me())
	protected.Get("/home", authH.Home())
	protected.Get("/dashboard", dashH.Dispatch())

	adminRoutes := protected.Group("/admin", auth.RequireRole(models.RoleAdmin))
	adminRoutes.Get("/dashboard", dashH.Admin())
	adminRoutes.Get("/audit-logs", auditH.List())
	adminRoutes.Get("/analytics/export", exportH.Analytics())
	adminRoutes.Post("/canteens", partnerH.CreateCanteen())
	adminRoutes.Put("/canteens/:id", partnerH.UpdateCanteen())
	adminRoutes.Post("/ngos", partnerH.CreateNGO())
	adminRoutes.Put("/ngos/:id", partnerH.UpdateNGO())

	staff := protected.Group("/staff", auth.RequireRole(models.RoleStaff))
	staff.Get("/dashboard", dashH.Staff())
	staff.Post("/food-items", surplusH.CreateFoodItem())
	staff.Post("/food-items/:id/flash-sale", surplusH.StartFlashSale())
	staff.Post("/food-items/:id/donate", surplusH.Donate())

	student := protected.Group("/student", auth.RequireRole(models.RoleStudent))
	student.Get("/dashboard", dashH.Student())
	student.Post("/flash-sales/:id/claim", surplusH.Claim())

	volunteer := protected.Group("/volunteer", auth.RequireRole(models.RoleVolunteer))
	volunteer.Get("/dashboard", dashH.Volunteer())
	volunteer.Post("/donations/:id/schedule", donationH.Schedule())
	volunteer.Post("/donations/:id/complete", donationH.Complete())

	return app
}
