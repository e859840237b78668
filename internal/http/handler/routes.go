package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"uploadapi/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Handlers only translate between HTTP and the service; rules live in the service.
func RegisterRoutes(app *fiber.App, db *sql.DB, svc service.UploadService) {
	app.Get("/", UploadForm())
	app.Post("/upload", UploadFile(svc))
	app.Get("/files", ListFiles(svc))
	app.Get("/uploads/:filename", ServeFile(svc))
	app.Get("/history", History(svc))

	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())
}
