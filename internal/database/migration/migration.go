package migration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"
)

// Step is one named schema statement.
type Step struct {
	Name string
	SQL  string
}

var sqliteSteps = []Step{
	{
		Name: "create_table_uploads",
		SQL: `CREATE TABLE IF NOT EXISTS uploads (
  id          INTEGER   PRIMARY KEY AUTOINCREMENT,
  filename    TEXT      NOT NULL,
  upload_time TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);`,
	},
	{
		Name: "create_index_uploads_filename",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_uploads_filename ON uploads (filename);`,
	},
}

var postgresSteps = []Step{
	{
		Name: "create_table_uploads",
		SQL: `CREATE TABLE IF NOT EXISTS uploads (
  id          BIGSERIAL   PRIMARY KEY,
  filename    TEXT        NOT NULL,
  upload_time TIMESTAMPTZ DEFAULT now()
);`,
	},
	{
		Name: "create_index_uploads_filename",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_uploads_filename ON uploads (filename);`,
	},
}

// Steps returns the schema statements for the given driver ("sqlite" or "postgres").
func Steps(driver string) ([]Step, error) {
	switch driver {
	case "sqlite", "":
		return sqliteSteps, nil
	case "postgres":
		return postgresSteps, nil
	default:
		return nil, fmt.Errorf("no migrations for driver %q", driver)
	}
}

// EnsureMigrated creates the uploads table and its index if they are missing.
// Every statement is IF NOT EXISTS, so it is safe to run on each startup and more than once.
func EnsureMigrated(ctx context.Context, db *sql.DB, driver string, loc *time.Location) error {
	start := time.Now()

	steps, err := Steps(driver)
	if err != nil {
		return err
	}

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_start",
		"status":    "in_progress",
		"db_driver": driver,
	})

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			logJSON(loc, map[string]any{
				"component":        "database",
				"event":            "db_migration_failed",
				"status":           "error",
				"migration_step":   step.Name,
				"error_message":    err.Error(),
				"db_driver":        driver,
				"duration_ms":      time.Since(start).Milliseconds(),
				"step_duration_ms": time.Since(stepStart).Milliseconds(),
			})
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		logJSON(loc, map[string]any{
			"component":        "database",
			"event":            "db_migration_step",
			"status":           "success",
			"migration_step":   step.Name,
			"db_driver":        driver,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	logJSON(loc, map[string]any{
		"component":   "database",
		"event":       "db_migration_success",
		"status":      "success",
		"db_driver":   driver,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return nil
}

func logJSON(loc *time.Location, data map[string]any) {
	if loc == nil {
		loc = time.UTC
	}
	data["ts"] = time.Now().In(loc).Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		if data["status"] == "error" {
			data["level"] = "error"
		} else {
			data["level"] = "info"
		}
	}

	b, err := json.Marshal(data)
	if err != nil {
		log.Printf("failed to marshal migration log: %v", err)
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
