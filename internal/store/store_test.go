package store

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"smartcity-ops/internal/client"
	"smartcity-ops/internal/domain"
	"smartcity-ops/internal/session"
	"smartcity-ops/internal/transport"
)

func newTestStore(t *testing.T, handler http.HandlerFunc) (*Store, *session.Store) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	sess := session.New()
	tr, err := transport.NewClient(srv.URL, sess)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	logger := log.New(io.Discard, "", 0)
	return New(client.NewAPI(tr), sess, logger), sess
}

func TestGetAllWithoutTokenSkipsNetwork(t *testing.T) {
	var hits atomic.Int32
	s, _ := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	})
	bins := s.WasteBins.GetAll(context.Background())
	if bins != nil {
		t.Fatalf("bins = %v, want nil", bins)
	}
	if hits.Load() != 0 {
		t.Fatalf("tokenless read hit the network %d times", hits.Load())
	}
}

func TestGetAllDegradesToEmptyOnFailure(t *testing.T) {
	s, sess := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	sess.SetToken("tok")
	if got := s.Buses.GetAll(context.Background()); len(got) != 0 {
		t.Fatalf("degraded read returned %v", got)
	}
}

func TestGetAllRejectedTokenShortCircuitsNextRead(t *testing.T) {
	var hits atomic.Int32
	s, sess := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, `{"detail":"Invalid token."}`, http.StatusUnauthorized)
	})
	sess.SetToken("stale")

	s.AirSensors.GetAll(context.Background())
	if sess.Token() != "" {
		t.Fatalf("rejected token survived")
	}
	s.AirSensors.GetAll(context.Background())
	if hits.Load() != 1 {
		t.Fatalf("second read hit the network, %d hits total", hits.Load())
	}
}

func TestSaveRoutesByPersistedID(t *testing.T) {
	type call struct{ method, path string }
	var calls []call
	s, sess := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, call{r.Method, r.URL.Path})
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "truck-100200300"})
	})
	sess.SetToken("tok")

	ctx := context.Background()
	if _, err := s.Trucks.Save(ctx, domain.Truck{ID: "tmp-1", DriverName: "A"}); err != nil {
		t.Fatalf("Save draft: %v", err)
	}
	if _, err := s.Trucks.Save(ctx, domain.Truck{ID: domain.NewDraftID(), DriverName: "B"}); err != nil {
		t.Fatalf("Save placeholder: %v", err)
	}
	if _, err := s.Trucks.Save(ctx, domain.Truck{ID: "truck-100200300", DriverName: "C"}); err != nil {
		t.Fatalf("Save persisted: %v", err)
	}

	want := []call{
		{http.MethodPost, "/trucks/"},
		{http.MethodPost, "/trucks/"},
		{http.MethodPut, "/trucks/truck-100200300/"},
	}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v", calls)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Fatalf("call %d = %v, want %v", i, calls[i], want[i])
		}
	}
}

func TestSaveStampsOwnerOnCreate(t *testing.T) {
	var body map[string]any
	s, sess := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &body)
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "bin-100200300"})
	})
	sess.SetToken("tok")
	sess.SetOrganizationID("org-556677889")

	if _, err := s.WasteBins.Save(context.Background(), domain.WasteBin{Address: "Chilonzor 9"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if body["organization_id"] != "org-556677889" {
		t.Fatalf("create body = %v, want stamped owner", body)
	}
}

func TestSilentSaveReturnsOriginalOnFailure(t *testing.T) {
	s, sess := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	sess.SetToken("tok")

	in := domain.WasteBin{ID: "bin-100200300", Address: "Chilonzor 9", FillLevel: 55}
	out, err := s.WasteBins.Save(context.Background(), in)
	if err != nil {
		t.Fatalf("silent save surfaced error: %v", err)
	}
	if out.ID != in.ID || out.Address != in.Address || out.FillLevel != in.FillLevel {
		t.Fatalf("out = %+v, want caller's record back", out)
	}
}

func TestOrganizationSaveBlocksOnFailure(t *testing.T) {
	s, sess := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"login":["already taken"]}`, http.StatusBadRequest)
	})
	sess.SetToken("tok")

	org := domain.Organization{Name: "Suvsoz", Login: "suvsoz"}
	if _, err := s.Organizations.Save(context.Background(), org); err == nil {
		t.Fatalf("blocking save swallowed the failure")
	}
}

func TestOrganizationSaveValidatesFirst(t *testing.T) {
	var hits atomic.Int32
	s, sess := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	})
	sess.SetToken("tok")

	if _, err := s.Organizations.Save(context.Background(), domain.Organization{Name: "Suvsoz"}); err == nil {
		t.Fatalf("invalid organization accepted")
	}
	if hits.Load() != 0 {
		t.Fatalf("invalid organization reached the network")
	}
}

func TestSaveBatchContinuesPastFailures(t *testing.T) {
	var n atomic.Int32
	s, sess := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		if n.Add(1) == 2 {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "org-100200300"})
	})
	sess.SetToken("tok")

	orgs := []domain.Organization{
		{Name: "Suvsoz", Login: "suvsoz"},
		{Name: "Issiqlik", Login: "issiqlik"},
		{Name: "Tozalik", Login: "tozalik"},
	}
	out, failed := s.Organizations.SaveBatch(context.Background(), orgs)
	if failed != 1 {
		t.Fatalf("failed = %d, want 1", failed)
	}
	if len(out) != 3 {
		t.Fatalf("out = %d records, want 3", len(out))
	}
	if n.Load() != 3 {
		t.Fatalf("batch stopped early after %d requests", n.Load())
	}
	if out[1].Name != "Issiqlik" {
		t.Fatalf("failed slot = %+v, want original record", out[1])
	}
}

func TestDeleteIgnoresDrafts(t *testing.T) {
	var hits atomic.Int32
	s, sess := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	})
	sess.SetToken("tok")

	s.Rooms.Delete(context.Background(), domain.NewDraftID())
	s.Rooms.Delete(context.Background(), "short")
	if hits.Load() != 0 {
		t.Fatalf("draft delete hit the network")
	}
}

func TestPatchWasteBinFallsBackToLocalMerge(t *testing.T) {
	s, sess := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	sess.SetToken("tok")

	fill := 77.0
	bin := domain.WasteBin{ID: "bin-100200300", Address: "Chilonzor 9", FillLevel: 10}
	out := s.PatchWasteBin(context.Background(), bin, domain.WasteBinPatch{FillLevel: &fill})
	if out.FillLevel != 77 {
		t.Fatalf("FillLevel = %v, want patched 77", out.FillLevel)
	}
	if out.Address != "Chilonzor 9" || out.ID != bin.ID {
		t.Fatalf("merge lost fields: %+v", out)
	}
}
