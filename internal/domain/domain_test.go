package domain

import (
	"strings"
	"testing"
	"time"
)

func TestPersisted(t *testing.T) {
	cases := []struct {
		id   string
		want bool
	}{
		{"", false},
		{"short", false},
		{"exactly-10", false},
		{"bin-100200300", true},
		{NewDraftID(), false},
	}
	for _, tc := range cases {
		if got := Persisted(tc.id); got != tc.want {
			t.Fatalf("Persisted(%q) = %v, want %v", tc.id, got, tc.want)
		}
	}
}

func TestNewDraftIDIsDraft(t *testing.T) {
	id := NewDraftID()
	if !IsDraftID(id) {
		t.Fatalf("draft id %q not recognized", id)
	}
	if len(id) <= 10 {
		t.Fatalf("draft id %q suspiciously short", id)
	}
	if Persisted(id) {
		t.Fatalf("draft id %q counted as persisted despite its length", id)
	}
}

func TestRouteTicket(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	ticket := CallRequest{ID: "call-1", Status: TicketNew}

	routed, err := RouteTicket(ticket, "org-556677889", "Suvsoz", now)
	if err != nil {
		t.Fatalf("RouteTicket: %v", err)
	}
	if routed.Status != TicketAssigned {
		t.Fatalf("status = %q", routed.Status)
	}
	if routed.AssignedOrg != "org-556677889" {
		t.Fatalf("assigned org = %q", routed.AssignedOrg)
	}
	if routed.Deadline != "2026-03-14T13:00:00Z" {
		t.Fatalf("deadline = %q", routed.Deadline)
	}
	if len(routed.Timeline) != 1 {
		t.Fatalf("timeline = %v", routed.Timeline)
	}
	step := routed.Timeline[0]
	if !strings.HasPrefix(step.Step, "Ijroga yo'naltirildi: ") || !strings.HasSuffix(step.Step, "Suvsoz") {
		t.Fatalf("step = %q", step.Step)
	}
	if step.Actor != "Dispetcher" || step.Status != "DONE" {
		t.Fatalf("step = %+v", step)
	}
}

func TestRouteTicketRejectsEmptyOrg(t *testing.T) {
	if _, err := RouteTicket(CallRequest{}, "", "Suvsoz", time.Now()); err == nil {
		t.Fatalf("empty org accepted")
	}
}

func TestOutageLifecycle(t *testing.T) {
	node := UtilityNode{ID: "node-1", Status: NodeActive, ActiveTickets: 2}

	flagged := FlagOutage(node)
	if flagged.Status != NodeOutage || flagged.ActiveTickets != 3 {
		t.Fatalf("flagged = %+v", flagged)
	}
	resolved := ResolveOutage(flagged)
	if resolved.Status != NodeActive || resolved.ActiveTickets != 0 {
		t.Fatalf("resolved = %+v", resolved)
	}
}

func TestReconcileNodeStatus(t *testing.T) {
	cases := []struct {
		status  string
		tickets int
		want    string
	}{
		{NodeActive, 0, NodeActive},
		{NodeActive, 2, NodeWarning},
		{NodeActive, 4, NodeOutage},
		{NodeMaintenance, 2, NodeMaintenance},
		{NodeOutage, 5, NodeOutage},
	}
	for _, tc := range cases {
		got := ReconcileNodeStatus(UtilityNode{Status: tc.status}, tc.tickets)
		if got.Status != tc.want {
			t.Fatalf("ReconcileNodeStatus(%s, %d) = %s, want %s", tc.status, tc.tickets, got.Status, tc.want)
		}
		if got.ActiveTickets != tc.tickets {
			t.Fatalf("tickets not recorded: %+v", got)
		}
	}
}

func TestOrganizationValidate(t *testing.T) {
	ok := Organization{Name: "Suvsoz", Login: "suvsoz"}
	if err := ok.Validate(); err != nil {
		t.Fatalf("valid organization rejected: %v", err)
	}
	if err := (Organization{Login: "suvsoz"}).Validate(); err == nil {
		t.Fatalf("nameless organization accepted")
	}
	if err := (Organization{Name: "Suvsoz"}).Validate(); err == nil {
		t.Fatalf("loginless organization accepted")
	}
}
