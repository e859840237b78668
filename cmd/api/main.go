package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"uploadapi/docs"
	"uploadapi/internal/config"
	"uploadapi/internal/database"
	"uploadapi/internal/database/migration"
	handlers "uploadapi/internal/http/handler"
	"uploadapi/internal/http/middleware"
	"uploadapi/internal/otel"
	"uploadapi/internal/repository/sqlstore"
	"uploadapi/internal/service"
	"uploadapi/internal/storage"
)

const shutdownTimeout = 10 * time.Second

// @title Upload API
// @version 1.0
// @description Accepts file uploads, keeps them in storage and records each upload.
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		log.Printf("invalid TZ %q, falling back to UTC: %v", cfg.TimeZone, err)
		loc = time.UTC
	}

	ctx := context.Background()
	shutdownTracing, err := otel.Init(ctx, "uploadapi", loc)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}

	// Metadata Store: SQLite by default, PostgreSQL with DB_DRIVER=postgres
	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, cfg.Database.Driver, loc); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	store, err := newStorage(cfg)
	if err != nil {
		log.Fatalf("failed to initialize storage: %v", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	promMw, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatalf("failed to register http metrics: %v", err)
	}
	uploadMetrics, err := service.NewMetrics(reg)
	if err != nil {
		log.Fatalf("failed to register upload metrics: %v", err)
	}

	uploadRepo := sqlstore.NewUploadSQL(db, cfg.Database.Driver)
	uploadSvc := service.NewUploadService(store, uploadRepo,
		service.WithMetrics(uploadMetrics),
		service.WithLocation(loc),
	)

	app := newApp(cfg, loc, db, uploadSvc, promMw, reg)

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(":" + cfg.Port)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	case sig := <-sigCh:
		log.Printf("received %s, shutting down", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Printf("tracer shutdown: %v", err)
	}
}

func newStorage(cfg *config.AppConfig) (storage.Storage, error) {
	if cfg.Storage.Backend == "minio" {
		return storage.NewMinIO(cfg.MinIO)
	}
	return storage.NewLocalDisk(cfg.Upload.Dir)
}

func newApp(cfg *config.AppConfig, loc *time.Location, db *sql.DB, svc service.UploadService, promMw *middleware.PrometheusMiddleware, reg *prometheus.Registry) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    cfg.Upload.MaxBodyBytes,
	})

	// Register global middleware
	app.Use(otelfiber.Middleware())
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.LoggerWithWriter(os.Stdout, loc))
	app.Use(promMw.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	handlers.RegisterRoutes(app, db, svc)

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

	return app
}
