package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"uploadapi/internal/model"
	"uploadapi/internal/repository"
)

// UploadSQL is a database/sql implementation of repository.UploadRepository for SQLite and
// PostgreSQL. Queries are written with '?' placeholders and rebound for PostgreSQL.
type UploadSQL struct {
	db       *sql.DB
	postgres bool
}

// NewUploadSQL creates a repository on db. driver is "sqlite" or "postgres".
func NewUploadSQL(db *sql.DB, driver string) *UploadSQL {
	return &UploadSQL{db: db, postgres: driver == "postgres"}
}

var _ repository.UploadRepository = (*UploadSQL)(nil)

// Create inserts a row and returns it with the id and upload_time set by the database.
func (r *UploadSQL) Create(ctx context.Context, filename string) (*model.UploadRecord, error) {
	const q = `
		INSERT INTO uploads (filename)
		VALUES (?)
		RETURNING id, filename, upload_time
	`
	row := r.db.QueryRowContext(ctx, r.rebind(q), filename)

	var (
		out model.UploadRecord
		ts  dbTime
	)
	if err := row.Scan(&out.ID, &out.Filename, &ts); err != nil {
		return nil, err
	}
	out.UploadTime = ts.Time
	return &out, nil
}

// List returns all rows ordered by id descending.
func (r *UploadSQL) List(ctx context.Context) ([]model.UploadRecord, error) {
	const q = `
		SELECT id, filename, upload_time
		FROM uploads
		ORDER BY id DESC
	`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.UploadRecord, 0)
	for rows.Next() {
		var (
			rec model.UploadRecord
			ts  dbTime
		)
		if err := rows.Scan(&rec.ID, &rec.Filename, &ts); err != nil {
			return nil, err
		}
		rec.UploadTime = ts.Time
		items = append(items, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// rebind turns '?' placeholders into PostgreSQL's $1, $2, ...
func (r *UploadSQL) rebind(q string) string {
	if !r.postgres {
		return q
	}
	var b strings.Builder
	n := 0
	for _, c := range q {
		if c == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}

// SQLite stores CURRENT_TIMESTAMP as text; depending on the column's declared type the driver
// hands back either a time.Time or the raw string.
var timeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05.999999999-07:00",
	time.RFC3339Nano,
}

// dbTime scans a nullable timestamp column.
type dbTime struct {
	Time time.Time
}

func (t *dbTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		t.Time = time.Time{}
		return nil
	case time.Time:
		t.Time = v.UTC()
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	default:
		return fmt.Errorf("unsupported timestamp type %T", src)
	}
}

func (t *dbTime) parse(s string) error {
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			t.Time = ts.UTC()
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}
