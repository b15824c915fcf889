package ops

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"smartcity-ops/internal/client"
	"smartcity-ops/internal/domain"
	"smartcity-ops/internal/monitor"
	"smartcity-ops/internal/readings"
	"smartcity-ops/internal/session"
	"smartcity-ops/internal/store"
	"smartcity-ops/internal/transport"
	"smartcity-ops/internal/vision"
)

type stubClassifier struct {
	verdict vision.Classification
	err     error
}

func (s stubClassifier) AnalyzeBinImage(context.Context, string) (vision.Classification, error) {
	return s.verdict, s.err
}

func newTestHandler(t *testing.T, backend http.HandlerFunc) (*Handler, *monitor.Monitor, *session.Store, *http.ServeMux) {
	t.Helper()
	srv := httptest.NewServer(backend)
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
	mon := monitor.New(api, auth, st, archive, client.Credentials{}, time.Minute, logger)
	h := NewHandler(api, st, mon, archive, nil, logger)
	mux := http.NewServeMux()
	h.Register(mux)
	return h, mon, sess, mux
}

func TestTelemetryEndpoint(t *testing.T) {
	_, _, sess, mux := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "ok"})
	})
	sess.SetToken("tok")

	body := `{"message":"🆔 0420101\n🌡 21.7°C 💧 43.9%"}`
	req := httptest.NewRequest(http.MethodPost, "/ops/telemetry", strings.NewReader(body))
	resp := httptest.NewRecorder()
	mux.ServeHTTP(resp, req)
	if resp.Code != http.StatusAccepted {
		t.Fatalf("code = %d, body %s", resp.Code, resp.Body.String())
	}

	req = httptest.NewRequest(http.MethodPost, "/ops/telemetry", strings.NewReader(`{"message":"salom"}`))
	resp = httptest.NewRecorder()
	mux.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("chatter code = %d", resp.Code)
	}
}

func TestExportBeforeFirstPoll(t *testing.T) {
	_, _, _, mux := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {})
	req := httptest.NewRequest(http.MethodGet, "/reports/export?format=pdf", nil)
	resp := httptest.NewRecorder()
	mux.ServeHTTP(resp, req)
	if resp.Code != http.StatusConflict {
		t.Fatalf("code = %d", resp.Code)
	}
}

func TestFlagOutageEndpoint(t *testing.T) {
	var saved map[string]any
	_, _, sess, mux := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet:
			_ = json.NewEncoder(w).Encode(map[string]any{
				"id": "node-100200300", "name": "TP-14", "status": domain.NodeActive,
				"activeTickets": float64(1),
			})
		case r.Method == http.MethodPut:
			data, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(data, &saved)
			saved["id"] = "node-100200300"
			_ = json.NewEncoder(w).Encode(saved)
		}
	})
	sess.SetToken("tok")

	req := httptest.NewRequest(http.MethodPost, "/ops/outages/node-100200300/flag", nil)
	resp := httptest.NewRecorder()
	mux.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("code = %d, body %s", resp.Code, resp.Body.String())
	}
	if saved["status"] != domain.NodeOutage {
		t.Fatalf("saved status = %v", saved["status"])
	}
	if saved["activeTickets"] != float64(2) {
		t.Fatalf("saved tickets = %v", saved["activeTickets"])
	}
}

func TestRouteTicketEndpoint(t *testing.T) {
	var saved map[string]any
	_, _, sess, mux := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet:
			_ = json.NewEncoder(w).Encode(map[string]any{
				"id": "call-100200300", "status": domain.TicketNew, "citizenName": "G. Yusupova",
			})
		case r.Method == http.MethodPut:
			data, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(data, &saved)
			saved["id"] = "call-100200300"
			_ = json.NewEncoder(w).Encode(saved)
		}
	})
	sess.SetToken("tok")

	body := `{"organizationId":"org-556677889","organizationName":"Suvsoz"}`
	req := httptest.NewRequest(http.MethodPost, "/ops/tickets/call-100200300/route", strings.NewReader(body))
	resp := httptest.NewRecorder()
	mux.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("code = %d, body %s", resp.Code, resp.Body.String())
	}
	if saved["status"] != domain.TicketAssigned || saved["assignedOrg"] != "org-556677889" {
		t.Fatalf("saved = %v", saved)
	}
	timeline, _ := saved["timeline"].([]any)
	if len(timeline) != 1 {
		t.Fatalf("timeline = %v", timeline)
	}
}

func TestNoteTicketEndpoint(t *testing.T) {
	var saved map[string]any
	_, _, sess, mux := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet:
			_ = json.NewEncoder(w).Encode(map[string]any{
				"id": "call-100200300", "status": domain.TicketAssigned, "citizenName": "G. Yusupova",
			})
		case r.Method == http.MethodPut:
			data, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(data, &saved)
			saved["id"] = "call-100200300"
			_ = json.NewEncoder(w).Encode(saved)
		}
	})
	sess.SetToken("tok")

	body := `{"note":"SMS yuborildi"}`
	req := httptest.NewRequest(http.MethodPost, "/ops/tickets/call-100200300/note", strings.NewReader(body))
	resp := httptest.NewRecorder()
	mux.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("code = %d, body %s", resp.Code, resp.Body.String())
	}
	if saved["status"] != domain.TicketAssigned {
		t.Fatalf("status changed: %v", saved["status"])
	}
	timeline, _ := saved["timeline"].([]any)
	if len(timeline) != 1 {
		t.Fatalf("timeline = %v", timeline)
	}
	step, _ := timeline[0].(map[string]any)
	if step["step"] != "SMS yuborildi" {
		t.Fatalf("step = %v", step)
	}
}

func TestRoutingTargetsEndpoint(t *testing.T) {
	_, _, sess, mux := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/responsible-orgs/"):
			_, _ = w.Write([]byte(`[{"id":"org-556677889","name":"Suvsoz","type":"WATER","active_brigades":4,"current_load":62}]`))
		case strings.HasPrefix(r.URL.Path, "/regions/"):
			_, _ = w.Write([]byte(`[{"id":"reg-100200300","name":"Navoiy viloyati","districts":[{"id":"dst-1","name":"Karmana"}]}]`))
		default:
			http.NotFound(w, r)
		}
	})
	sess.SetToken("tok")

	req := httptest.NewRequest(http.MethodGet, "/ops/routing-targets", nil)
	resp := httptest.NewRecorder()
	mux.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("code = %d, body %s", resp.Code, resp.Body.String())
	}
	var body struct {
		Organizations []domain.ResponsibleOrg `json:"organizations"`
		Regions       []domain.Region         `json:"regions"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Organizations) != 1 || body.Organizations[0].ActiveBrigades != 4 {
		t.Fatalf("organizations = %+v", body.Organizations)
	}
	if len(body.Regions) != 1 || len(body.Regions[0].Districts) != 1 {
		t.Fatalf("regions = %+v", body.Regions)
	}
}

func TestAnalyzeBinModelDownLeavesBinUntouched(t *testing.T) {
	var writes atomic.Int32
	h, _, sess, mux := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writes.Add(1)
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id": "bin-100200300", "fill_level": 85, "is_full": true,
		})
	})
	sess.SetToken("tok")
	h.classifier = stubClassifier{err: vision.ErrModelUnavailable}

	req := httptest.NewRequest(http.MethodPost, "/ops/bins/bin-100200300/analyze",
		strings.NewReader(`{"image":"argb=="}`))
	resp := httptest.NewRecorder()
	mux.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadGateway {
		t.Fatalf("code = %d, body %s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), vision.Degraded().Notes) {
		t.Fatalf("body = %s, want operator notice", resp.Body.String())
	}
	if writes.Load() != 0 {
		t.Fatalf("bin mutated while the model was down")
	}
}
