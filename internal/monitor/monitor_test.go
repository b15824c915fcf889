package monitor

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"smartcity-ops/internal/client"
	"smartcity-ops/internal/readings"
	"smartcity-ops/internal/session"
	"smartcity-ops/internal/store"
	"smartcity-ops/internal/transport"
)

func newTestMonitor(t *testing.T, handler http.HandlerFunc) (*Monitor, *session.Store, *readings.MemoryRepository) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	sess := session.New()
	tr, err := transport.NewClient(srv.URL, sess)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	api := client.NewAPI(tr)
	auth := client.NewAuthClient(api, sess)
	logger := log.New(io.Discard, "", 0)
	st := store.New(api, sess, logger)
	archive := readings.NewMemoryRepository()
	m := New(api, auth, st, archive, client.Credentials{}, time.Minute, logger)
	return m, sess, archive
}

func TestForwardTelemetryArchivesAndSends(t *testing.T) {
	var sent map[string]any
	m, sess, archive := newTestMonitor(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/iot-devices/data/update/" {
			t.Errorf("path = %q", r.URL.Path)
		}
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &sent)
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "ok"})
	})
	sess.SetToken("tok")

	reading, err := m.ForwardTelemetry(context.Background(), "🆔 0420101\n🌡 21.7°C 💧 43.9%")
	if err != nil {
		t.Fatalf("ForwardTelemetry: %v", err)
	}
	if sent["device_id"] != "0420101" || sent["temperature"] != 21.7 {
		t.Fatalf("sent = %v", sent)
	}
	recs, err := archive.ListRecent(context.Background(), reading.DeviceID, 10)
	if err != nil || len(recs) != 1 {
		t.Fatalf("archive = %v, %v", recs, err)
	}
}

func TestForwardTelemetryRejectsChatter(t *testing.T) {
	m, _, archive := newTestMonitor(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("chatter reached the network")
	})
	if _, err := m.ForwardTelemetry(context.Background(), "salom hammaga"); err != ErrNotTelemetry {
		t.Fatalf("err = %v, want ErrNotTelemetry", err)
	}
	if recs, _ := archive.ListRecent(context.Background(), "salom", 10); len(recs) != 0 {
		t.Fatalf("chatter archived: %v", recs)
	}
}

func TestCycleBuildsSnapshot(t *testing.T) {
	m, sess, _ := newTestMonitor(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/validate/":
			_ = json.NewEncoder(w).Encode(map[string]any{"valid": true})
		case "/waste-bins/":
			_ = json.NewEncoder(w).Encode([]any{
				map[string]any{"id": "bin-100200300", "fill_level": float64(91), "is_full": true},
			})
		default:
			_ = json.NewEncoder(w).Encode([]any{})
		}
	})
	sess.SetToken("tok")

	m.cycle(context.Background())
	snap, polledAt := m.Snapshot()
	if len(snap.WasteBins) != 1 || !snap.WasteBins[0].IsFull {
		t.Fatalf("snapshot = %+v", snap.WasteBins)
	}
	if polledAt.IsZero() {
		t.Fatalf("polledAt not set")
	}
}
