package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"foodshare/internal/http/middleware"
	"foodshare/internal/service"
)

// Services are the dependencies of the HTTP routes.
type Services struct {
	DB        *sql.DB
	Donations service.DonationService
	Auth      service.AuthService
	// Photos is nil when object storage is not configured; photo routes are then not mounted.
	Photos service.PhotoService
	// Metrics is served on /metrics when set.
	Metrics prometheus.Gatherer
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, s Services) {
	app.Get("/health", HealthCheck(s.DB))
	app.Get("/healthz", LivenessProbe())
	if s.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(s.Metrics, promhttp.HandlerOpts{})))
	}

	requireAuth := middleware.RequireAuth(s.Auth)

	app.Post("/auth/register", Register(s.Auth))
	app.Post("/auth/login", Login(s.Auth))
	app.Get("/auth/me", requireAuth, Me(s.Auth))

	// /donations/user must be registered before /donations/:id.
	app.Get("/donations", ListDonations(s.Donations))
	app.Post("/donations", requireAuth, CreateDonation(s.Donations))
	app.Get("/donations/user", requireAuth, ListUserDonations(s.Donations))
	app.Get("/donations/:id", GetDonation(s.Donations))
	app.Put("/donations/:id", requireAuth, UpdateDonation(s.Donations))
	app.Delete("/donations/:id", requireAuth, DeleteDonation(s.Donations))
	app.Put("/donations/:id/claim", requireAuth, ClaimDonation(s.Donations))
	app.Put("/donations/:id/expire", requireAuth, ExpireDonation(s.Donations))

	if s.Photos != nil {
		app.Post("/donations/:id/photo", requireAuth, UploadDonationPhoto(s.Photos))
		app.Get("/donations/:id/photo", GetDonationPhoto(s.Photos))
	}
}
