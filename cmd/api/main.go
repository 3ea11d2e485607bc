package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"foodshare/docs"
	"foodshare/internal/auth"
	"foodshare/internal/config"
	"foodshare/internal/database"
	"foodshare/internal/database/migration"
	handlers "foodshare/internal/http/handler"
	"foodshare/internal/http/middleware"
	"foodshare/internal/logger"
	"foodshare/internal/otel"
	"foodshare/internal/repository/postgres"
	"foodshare/internal/service"
	"foodshare/internal/storage"
)

// @title                      Foodshare API
// @version                    1.0
// @description                Surplus food donations: post, browse, claim and withdraw.
// @BasePath                   /
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	log := logger.New(cfg.AppEnv, cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg *config.AppConfig, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Warn().Err(err).Msg("tracing shutdown failed")
		}
	}()

	// PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
		return err
	}

	issuer, err := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}

	donationRepo := postgres.NewDonationPostgres(db)
	donationSvc := service.NewDonationService(donationRepo, service.DonationOptions{
		StoreTimeout:     cfg.Donation.StoreTimeout,
		RejectPastExpiry: cfg.Donation.RejectPastExpiry,
	})
	authSvc := service.NewAuthService(postgres.NewUserPostgres(db), issuer, service.AuthOptions{
		AdminEmails:  cfg.Auth.AdminEmails,
		StoreTimeout: cfg.Donation.StoreTimeout,
	})

	var photoSvc service.PhotoService
	if cfg.MinIO.Enabled() {
		objStore, err := storage.NewMinIO(ctx, cfg.MinIO, log)
		if err != nil {
			return err
		}
		photoSvc = service.NewPhotoService(objStore, donationRepo, donationSvc, cfg.Donation.StoreTimeout)
	} else {
		log.Info().Msg("MINIO_ENDPOINT not set; donation photos disabled")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return err
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler(),
		DisableStartupMessage: true,
		BodyLimit:             8 * 1024 * 1024,
	})

	app.Use(otelfiber.Middleware())
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(log))
	app.Use(promMiddleware.Handler())

	handlers.RegisterRoutes(app, handlers.Services{
		DB:        db,
		Donations: donationSvc,
		Auth:      authSvc,
		Photos:    photoSvc,
		Metrics:   reg,
	})

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.AppEnv).Msg("http server listening")
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(sctx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}
