package readings

import (
	"context"
	"testing"
	"time"

	"smartcity-ops/internal/domain"
)

func TestFromReadingUsesDeviceTimestamp(t *testing.T) {
	received := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	temp := 21.7
	rec := FromReading(domain.SensorReading{
		DeviceID:    "dev-1",
		Temperature: &temp,
		Timestamp:   1770000000,
	}, received)
	if rec.MeasuredAt != time.Unix(1770000000, 0).UTC() {
		t.Fatalf("measured at = %v", rec.MeasuredAt)
	}
	if rec.ReceivedAt != received {
		t.Fatalf("received at = %v", rec.ReceivedAt)
	}
}

func TestFromReadingFallsBackToReceivedTime(t *testing.T) {
	received := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	rec := FromReading(domain.SensorReading{DeviceID: "dev-1"}, received)
	if rec.MeasuredAt != received {
		t.Fatalf("measured at = %v, want received time", rec.MeasuredAt)
	}
}

func TestMemoryRepositoryListRecentOrdersAndLimits(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		_ = repo.Insert(ctx, Record{
			DeviceID:   "dev-1",
			MeasuredAt: base.Add(time.Duration(i) * time.Minute),
		})
	}
	_ = repo.Insert(ctx, Record{DeviceID: "dev-2", MeasuredAt: base})

	recs, err := repo.ListRecent(ctx, "dev-1", 3)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("len = %d", len(recs))
	}
	if !recs[0].MeasuredAt.After(recs[1].MeasuredAt) {
		t.Fatalf("records not newest-first: %v", recs)
	}
}
