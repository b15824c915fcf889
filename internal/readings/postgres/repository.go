// Package postgres is the Postgres implementation of the readings
// archive. The driver is registered by the binary importing
// github.com/jackc/pgx/v5/stdlib.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"smartcity-ops/internal/readings"
)

const defaultTable = "sensor_readings"

// Repository stores readings in Postgres.
type Repository struct {
	db    *sql.DB
	table string
}

// NewRepository constructs a repository.
func NewRepository(db *sql.DB, opts ...Option) *Repository {
	repo := &Repository{db: db, table: defaultTable}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

// Option configures the repository.
type Option func(*Repository)

// WithTable overrides the table name.
func WithTable(table string) Option {
	return func(repo *Repository) {
		if table != "" {
			repo.table = table
		}
	}
}

// EnsureSchema creates the readings table when absent.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if r == nil || r.db == nil {
		return errors.New("readings store: nil db")
	}
	query := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
	id BIGSERIAL PRIMARY KEY,
	device_id TEXT NOT NULL,
	temperature DOUBLE PRECISION,
	humidity DOUBLE PRECISION,
	sleep_seconds INTEGER,
	measured_at TIMESTAMPTZ NOT NULL,
	received_at TIMESTAMPTZ NOT NULL
)`, r.table)
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return err
	}
	index := fmt.Sprintf(`
CREATE INDEX IF NOT EXISTS %s_device_ts
ON %s (device_id, measured_at DESC)`, r.table, r.table)
	_, err := r.db.ExecContext(ctx, index)
	return err
}

// Insert writes one record.
func (r *Repository) Insert(ctx context.Context, rec readings.Record) error {
	if r == nil || r.db == nil {
		return errors.New("readings store: nil db")
	}
	query := fmt.Sprintf(`
INSERT INTO %s (
	device_id,
	temperature,
	humidity,
	sleep_seconds,
	measured_at,
	received_at
) VALUES (
	$1, $2, $3, $4, $5, $6
)`, r.table)
	_, err := r.db.ExecContext(ctx, query,
		rec.DeviceID, rec.Temperature, rec.Humidity, rec.SleepSeconds,
		rec.MeasuredAt, rec.ReceivedAt)
	return err
}

// ListRecent returns the newest records for a device.
func (r *Repository) ListRecent(ctx context.Context, deviceID string, limit int) ([]readings.Record, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("readings store: nil db")
	}
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf(`
SELECT device_id, temperature, humidity, sleep_seconds, measured_at, received_at
FROM %s
WHERE device_id = $1
ORDER BY measured_at DESC
LIMIT $2`, r.table)

	rows, err := r.db.QueryContext(ctx, query, deviceID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []readings.Record
	for rows.Next() {
		var rec readings.Record
		var temp, hum sql.NullFloat64
		var sleep sql.NullInt64
		if err := rows.Scan(&rec.DeviceID, &temp, &hum, &sleep, &rec.MeasuredAt, &rec.ReceivedAt); err != nil {
			return nil, err
		}
		if temp.Valid {
			rec.Temperature = &temp.Float64
		}
		if hum.Valid {
			rec.Humidity = &hum.Float64
		}
		if sleep.Valid {
			n := int(sleep.Int64)
			rec.SleepSeconds = &n
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
