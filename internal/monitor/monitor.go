// Package monitor runs the synchronization loop: it keeps a backend
// session alive, polls every entity kind into an in-memory snapshot,
// and forwards device telemetry through the ingestion endpoint.
package monitor

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"

	"smartcity-ops/internal/client"
	"smartcity-ops/internal/domain"
	"smartcity-ops/internal/observability/metrics"
	"smartcity-ops/internal/readings"
	"smartcity-ops/internal/report"
	"smartcity-ops/internal/store"
)

// Monitor drives the polling loop.
type Monitor struct {
	api      *client.API
	auth     *client.AuthClient
	store    *store.Store
	archive  readings.Repository
	logger   *log.Logger
	interval time.Duration

	creds client.Credentials

	mu       sync.RWMutex
	snapshot report.Snapshot
	polledAt time.Time
}

// New constructs a monitor.
func New(api *client.API, auth *client.AuthClient, st *store.Store, archive readings.Repository,
	creds client.Credentials, interval time.Duration, logger *log.Logger) *Monitor {
	return &Monitor{
		api:      api,
		auth:     auth,
		store:    st,
		archive:  archive,
		logger:   logger,
		interval: interval,
		creds:    creds,
	}
}

// Run polls until the context ends. The first cycle runs immediately.
func (m *Monitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.cycle(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			m.cycle(ctx)
		}
	}
}

// cycle runs one poll. A missing session triggers a login first; a
// login that keeps failing leaves the store degraded to empty reads
// until the next cycle.
func (m *Monitor) cycle(ctx context.Context) {
	start := time.Now()
	defer func() { metrics.ObservePollCycle(time.Since(start)) }()

	if err := m.ensureSession(ctx); err != nil {
		m.logger.Printf("monitor: session: %v", err)
	}

	snap := report.Snapshot{
		WasteBins:    m.store.WasteBins.GetAll(ctx),
		UtilityNodes: m.store.UtilityNodes.GetAll(ctx),
		AirSensors:   m.store.AirSensors.GetAll(ctx),
		Facilities:   m.store.Facilities.GetAll(ctx),
		CallRequests: m.store.CallRequests.GetAll(ctx),
	}
	// The backend reports ticket counts but not always a matching
	// status; the snapshot shows the reconciled one.
	for i, n := range snap.UtilityNodes {
		snap.UtilityNodes[i] = domain.ReconcileNodeStatus(n, n.ActiveTickets)
	}
	metrics.SetEntityCount("waste-bins", len(snap.WasteBins))
	metrics.SetEntityCount("utility-nodes", len(snap.UtilityNodes))
	metrics.SetEntityCount("air-sensors", len(snap.AirSensors))
	metrics.SetEntityCount("facilities", len(snap.Facilities))
	metrics.SetEntityCount("call-requests", len(snap.CallRequests))

	m.mu.Lock()
	m.snapshot = snap
	m.polledAt = time.Now().UTC()
	m.mu.Unlock()
}

// ensureSession validates the held token and logs in again when it is
// missing or stale. Login attempts back off briefly; the backend drops
// connections while restarting.
func (m *Monitor) ensureSession(ctx context.Context) error {
	ok, err := m.auth.Validate(ctx)
	if err == nil && ok {
		return nil
	}
	if m.creds.Username == "" {
		return err
	}
	return retry.Do(
		func() error {
			_, err := m.auth.Login(ctx, m.creds)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(2*time.Second),
		retry.LastErrorOnly(true),
	)
}

// Snapshot returns the latest polled state and when it was taken.
func (m *Monitor) Snapshot() (report.Snapshot, time.Time) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot, m.polledAt
}

// ForwardTelemetry parses a device message and pushes the reading to
// the backend, archiving it locally whatever the backend says.
func (m *Monitor) ForwardTelemetry(ctx context.Context, text string) (domain.SensorReading, error) {
	reading, ok := ParseTelemetry(text)
	if !ok {
		metrics.IncReadingForwarded(metrics.ResultSkipped)
		return domain.SensorReading{}, ErrNotTelemetry
	}
	reading.Timestamp = time.Now().Unix()

	if err := m.archive.Insert(ctx, readings.FromReading(reading, time.Now())); err != nil {
		m.logger.Printf("monitor: archive reading: %v", err)
	}
	if _, err := m.api.SendSensorData(ctx, reading); err != nil {
		metrics.IncReadingForwarded(metrics.ResultError)
		return reading, err
	}
	metrics.IncReadingForwarded(metrics.ResultSuccess)
	return reading, nil
}
