package report

import (
	"testing"
	"time"

	"smartcity-ops/internal/domain"
)

func sampleSnapshot() Snapshot {
	return Snapshot{
		WasteBins: []domain.WasteBin{
			{ID: "bin-1", Address: "Chilonzor 9", FillLevel: 95, IsFull: true},
			{ID: "bin-2", Address: "Chilonzor 10", FillLevel: 20},
		},
		UtilityNodes: []domain.UtilityNode{
			{ID: "node-1", Name: "TP-14", Status: domain.NodeOutage, ActiveTickets: 5},
			{ID: "node-2", Name: "TP-15", Status: domain.NodeActive},
		},
		AirSensors: []domain.AirSensor{
			{ID: "air-1", Name: "Yunusobod", AQI: 160, Status: domain.StatusCritical},
			{ID: "air-2", Name: "Mirzo Ulugbek", AQI: 40, Status: domain.StatusOptimal},
		},
		CallRequests: []domain.CallRequest{
			{ID: "call-1", Status: domain.TicketNew, Category: "suv"},
			{ID: "call-2", Status: domain.TicketResolved, Category: "yo'l"},
		},
	}
}

func TestEntriesKeepsOnlyActionableRows(t *testing.T) {
	entries := Entries(sampleSnapshot(), time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC))
	if len(entries) != 4 {
		t.Fatalf("entries = %d, want 4: %+v", len(entries), entries)
	}
	for _, e := range entries {
		switch e.ID {
		case "bin-2", "node-2", "air-2", "call-2":
			t.Fatalf("healthy record %s made the report", e.ID)
		}
	}
}

func TestSummarizeCountsCategories(t *testing.T) {
	entries := Entries(sampleSnapshot(), time.Now())
	summary := Summarize(entries)
	if summary.Total != 4 {
		t.Fatalf("total = %d", summary.Total)
	}
	if summary.ByCategory["waste"] != 1 || summary.ByCategory["utility"] != 1 {
		t.Fatalf("by category = %v", summary.ByCategory)
	}
	// full bin, outage and fresh ticket are critical; degraded air too
	if summary.Critical != 4 {
		t.Fatalf("critical = %d", summary.Critical)
	}
}

func TestBuildPDFAndXLSXProduceOutput(t *testing.T) {
	entries := Entries(sampleSnapshot(), time.Now())
	at := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	pdf, err := BuildPDF(entries, at)
	if err != nil {
		t.Fatalf("BuildPDF: %v", err)
	}
	if len(pdf) == 0 {
		t.Fatalf("empty PDF")
	}
	xlsx, err := BuildXLSX(entries, at)
	if err != nil {
		t.Fatalf("BuildXLSX: %v", err)
	}
	if len(xlsx) == 0 {
		t.Fatalf("empty workbook")
	}
}
