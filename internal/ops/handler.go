// Package ops exposes the daemon's operator HTTP endpoints: the polled
// snapshot, telemetry forwarding, outage and ticket actions, and the
// report exports.
package ops

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	json "github.com/goccy/go-json"

	"smartcity-ops/internal/authz"
	"smartcity-ops/internal/client"
	"smartcity-ops/internal/domain"
	"smartcity-ops/internal/monitor"
	"smartcity-ops/internal/observability/metrics"
	"smartcity-ops/internal/readings"
	"smartcity-ops/internal/report"
	"smartcity-ops/internal/store"
	"smartcity-ops/internal/vision"
)

// Handler serves the operator endpoints.
type Handler struct {
	api        *client.API
	store      *store.Store
	monitor    *monitor.Monitor
	archive    readings.Repository
	classifier vision.Classifier
	logger     *log.Logger
}

// NewHandler constructs the handler. classifier may be nil when no
// model is configured.
func NewHandler(api *client.API, st *store.Store, mon *monitor.Monitor, archive readings.Repository,
	classifier vision.Classifier, logger *log.Logger) *Handler {
	return &Handler{api: api, store: st, monitor: mon, archive: archive, classifier: classifier, logger: logger}
}

// Register mounts the routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", h.health)
	mux.HandleFunc("GET /ops/status", h.status)
	mux.HandleFunc("GET /ops/snapshot", h.snapshot)
	mux.HandleFunc("POST /ops/telemetry", h.telemetry)
	mux.HandleFunc("GET /ops/readings", h.listReadings)
	mux.HandleFunc("POST /ops/outages/{id}/flag", h.flagOutage)
	mux.HandleFunc("POST /ops/outages/{id}/resolve", h.resolveOutage)
	mux.HandleFunc("POST /ops/tickets/{id}/route", h.routeTicket)
	mux.HandleFunc("POST /ops/tickets/{id}/note", h.noteTicket)
	mux.HandleFunc("GET /ops/routing-targets", h.routingTargets)
	mux.HandleFunc("POST /ops/bins/{id}/analyze", h.analyzeBin)
	mux.HandleFunc("GET /ops/search", h.search)
	mux.HandleFunc("GET /ops/stats", h.stats)
	mux.HandleFunc("GET /reports/export", h.exportReport)
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	snap, polledAt := h.monitor.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"polled_at":     polledAt,
		"waste_bins":    len(snap.WasteBins),
		"utility_nodes": len(snap.UtilityNodes),
		"air_sensors":   len(snap.AirSensors),
		"facilities":    len(snap.Facilities),
		"call_requests": len(snap.CallRequests),
	})
}

func (h *Handler) snapshot(w http.ResponseWriter, r *http.Request) {
	snap, polledAt := h.monitor.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{"polled_at": polledAt, "snapshot": snap})
}

func (h *Handler) telemetry(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	reading, err := h.monitor.ForwardTelemetry(r.Context(), body.Message)
	if err == monitor.ErrNotTelemetry {
		http.Error(w, "message carries no reading", http.StatusUnprocessableEntity)
		return
	}
	if err != nil {
		h.logger.Printf("ops: forward telemetry: %v", err)
		http.Error(w, "upstream rejected reading", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{"device_id": reading.DeviceID})
}

func (h *Handler) listReadings(w http.ResponseWriter, r *http.Request) {
	deviceID := r.URL.Query().Get("device")
	if deviceID == "" {
		http.Error(w, "device required", http.StatusBadRequest)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	recs, err := h.archive.ListRecent(r.Context(), deviceID, limit)
	if err != nil {
		h.logger.Printf("ops: list readings: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

func (h *Handler) flagOutage(w http.ResponseWriter, r *http.Request) {
	h.updateNode(w, r, domain.FlagOutage)
}

func (h *Handler) resolveOutage(w http.ResponseWriter, r *http.Request) {
	h.updateNode(w, r, domain.ResolveOutage)
}

func (h *Handler) updateNode(w http.ResponseWriter, r *http.Request, apply func(domain.UtilityNode) domain.UtilityNode) {
	id := r.PathValue("id")
	node, err := h.api.UtilityNodes.Get(r.Context(), id)
	if err != nil {
		http.Error(w, "node not found", http.StatusNotFound)
		return
	}
	saved, err := h.store.UtilityNodes.Save(r.Context(), apply(node))
	if err != nil {
		h.logger.Printf("ops: save node %s: %v", id, err)
		http.Error(w, "save failed", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (h *Handler) routeTicket(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var body struct {
		OrganizationID   string `json:"organizationId"`
		OrganizationName string `json:"organizationName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	ticket, err := h.api.CallRequests.Get(r.Context(), id)
	if err != nil {
		http.Error(w, "ticket not found", http.StatusNotFound)
		return
	}
	routed, err := domain.RouteTicket(ticket, body.OrganizationID, body.OrganizationName, time.Now())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	saved, err := h.store.CallRequests.Save(r.Context(), routed)
	if err != nil {
		h.logger.Printf("ops: route ticket %s: %v", id, err)
		http.Error(w, "save failed", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// noteTicket appends a dispatcher note (an SMS notice and the like) to
// the ticket timeline without touching its status.
func (h *Handler) noteTicket(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var body struct {
		Note string `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Note == "" {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	ticket, err := h.api.CallRequests.Get(r.Context(), id)
	if err != nil {
		http.Error(w, "ticket not found", http.StatusNotFound)
		return
	}
	saved, err := h.store.CallRequests.Save(r.Context(), domain.AppendTimelineNote(ticket, body.Note, time.Now()))
	if err != nil {
		h.logger.Printf("ops: note ticket %s: %v", id, err)
		http.Error(w, "save failed", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// routingTargets lists the dispatch organizations tickets can be
// routed to, with the regions they serve.
func (h *Handler) routingTargets(w http.ResponseWriter, r *http.Request) {
	orgs, err := h.api.ResponsibleOrgs.List(r.Context())
	if err != nil {
		h.logger.Printf("ops: routing targets: %v", err)
		http.Error(w, "upstream error", http.StatusBadGateway)
		return
	}
	regions, err := h.api.Regions.List(r.Context())
	if err != nil {
		h.logger.Printf("ops: routing regions: %v", err)
		http.Error(w, "upstream error", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"organizations": orgs, "regions": regions})
}

// analyzeBin runs the image model on a camera frame and applies the
// verdict to the bin as a sparse update. A model outage leaves the bin
// untouched and answers 502 with the operator notice.
func (h *Handler) analyzeBin(w http.ResponseWriter, r *http.Request) {
	if h.classifier == nil {
		http.Error(w, "no image model configured", http.StatusNotImplemented)
		return
	}
	id := r.PathValue("id")
	var body struct {
		Image string `json:"image"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Image == "" {
		http.Error(w, "image required", http.StatusBadRequest)
		return
	}
	bin, err := h.api.WasteBins.Get(r.Context(), id)
	if err != nil {
		http.Error(w, "bin not found", http.StatusNotFound)
		return
	}
	verdict, err := h.classifier.AnalyzeBinImage(r.Context(), body.Image)
	if err != nil {
		h.logger.Printf("ops: analyze bin %s: %v", id, err)
		if errors.Is(err, vision.ErrModelUnavailable) {
			writeJSON(w, http.StatusBadGateway, map[string]any{"error": vision.Degraded().Notes})
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	updated := h.store.PatchWasteBin(r.Context(), bin, vision.BinPatch(verdict, time.Now()))
	writeJSON(w, http.StatusOK, map[string]any{"verdict": verdict, "bin": updated})
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	h.proxy(w, func(ctx context.Context) (map[string]any, error) {
		return h.api.Search(ctx, r.URL.Query().Get("q"), r.URL.Query().Get("type"))
	}, r)
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	h.proxy(w, h.api.DashboardStats, r)
}

func (h *Handler) proxy(w http.ResponseWriter, fetch func(context.Context) (map[string]any, error), r *http.Request) {
	resp, err := fetch(r.Context())
	if err != nil {
		h.logger.Printf("ops: proxy %s: %v", r.URL.Path, err)
		http.Error(w, "upstream error", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) exportReport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "pdf"
	}
	snap, polledAt := h.monitor.Snapshot()
	if polledAt.IsZero() {
		http.Error(w, "no snapshot yet", http.StatusConflict)
		return
	}
	entries := report.Entries(snap, polledAt)

	var data []byte
	var err error
	var contentType, ext string
	switch format {
	case "pdf":
		data, err = report.BuildPDF(entries, time.Now())
		contentType, ext = "application/pdf", "pdf"
	case "xlsx":
		data, err = report.BuildXLSX(entries, time.Now())
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		ext = "xlsx"
	default:
		http.Error(w, "unknown format", http.StatusBadRequest)
		return
	}
	if err != nil {
		metrics.IncReportExport(format, metrics.ResultError)
		h.logger.Printf("ops: export %s: %v", format, err)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	metrics.IncReportExport(format, metrics.ResultSuccess)

	org := authz.OrganizationFromContext(r.Context())
	if org != "" {
		h.logger.Printf("ops: report export (%s) for %s", format, org)
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=city-operations.%s", ext))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
