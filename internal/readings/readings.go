// Package readings archives forwarded sensor measurements locally so
// reports and audits do not depend on the backend retaining raw data.
package readings

import (
	"context"
	"sort"
	"sync"
	"time"

	"smartcity-ops/internal/domain"
)

// Record is one archived measurement.
type Record struct {
	DeviceID     string
	Temperature  *float64
	Humidity     *float64
	SleepSeconds *int
	MeasuredAt   time.Time
	ReceivedAt   time.Time
}

// Repository stores forwarded measurements.
type Repository interface {
	Insert(ctx context.Context, rec Record) error
	ListRecent(ctx context.Context, deviceID string, limit int) ([]Record, error)
}

// FromReading builds an archive record from a forwarded measurement.
func FromReading(r domain.SensorReading, receivedAt time.Time) Record {
	measured := receivedAt
	if r.Timestamp > 0 {
		measured = time.Unix(r.Timestamp, 0).UTC()
	}
	return Record{
		DeviceID:     r.DeviceID,
		Temperature:  r.Temperature,
		Humidity:     r.Humidity,
		SleepSeconds: r.SleepSeconds,
		MeasuredAt:   measured,
		ReceivedAt:   receivedAt.UTC(),
	}
}

// MemoryRepository keeps records in memory. Used when no database is
// configured and in tests.
type MemoryRepository struct {
	mu      sync.Mutex
	records []Record
}

// NewMemoryRepository constructs an empty in-memory archive.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// Insert appends one record.
func (m *MemoryRepository) Insert(_ context.Context, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, rec)
	return nil
}

// ListRecent returns the newest records for a device.
func (m *MemoryRepository) ListRecent(_ context.Context, deviceID string, limit int) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit <= 0 {
		limit = 50
	}
	out := make([]Record, 0, limit)
	for _, rec := range m.records {
		if rec.DeviceID == deviceID {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MeasuredAt.After(out[j].MeasuredAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
