package domain

import (
	"errors"
	"time"
)

// CallRequest is a citizen call intake ticket.
type CallRequest struct {
	ID                string         `json:"id"`
	CitizenName       string         `json:"citizenName"`
	Phone             string         `json:"phone"`
	Transcript        string         `json:"transcript"`
	Category          string         `json:"category"`
	Status            string         `json:"status"`
	Timestamp         string         `json:"timestamp"`
	Address           string         `json:"address,omitempty"`
	MFY               string         `json:"mfy"`
	AISummary         string         `json:"aiSummary"`
	Keywords          []string       `json:"keywords"`
	CitizenTrustScore float64        `json:"citizenTrustScore"`
	AssignedOrg       string         `json:"assignedOrg,omitempty"`
	Deadline          string         `json:"deadline,omitempty"`
	Timeline          []TimelineStep `json:"timeline"`
}

// Ticket statuses.
const (
	TicketNew        = "NEW"
	TicketAssigned   = "ASSIGNED"
	TicketProcessing = "PROCESSING"
	TicketResolved   = "RESOLVED"
	TicketClosed     = "CLOSED"
)

// RoutingSLA is how long an assigned organization has to react.
const RoutingSLA = 4 * time.Hour

// RouteTicket assigns a ticket to an organization. The ticket moves to
// ASSIGNED, gets a deadline one SLA window past now, and records a
// completed timeline entry naming the organization.
func RouteTicket(t CallRequest, orgID, orgName string, now time.Time) (CallRequest, error) {
	if orgID == "" {
		return t, errors.New("domain: empty organization id")
	}
	t.Status = TicketAssigned
	t.AssignedOrg = orgID
	t.Deadline = now.Add(RoutingSLA).UTC().Format(time.RFC3339)
	t.Timeline = append(t.Timeline, TimelineStep{
		Step:      "Ijroga yo'naltirildi: " + orgName,
		Timestamp: now.UTC().Format(time.RFC3339),
		Actor:     "Dispetcher",
		Status:    "DONE",
	})
	return t, nil
}

// AppendTimelineNote records a free-form dispatcher action (an SMS
// notice, a status call) without changing the ticket status.
func AppendTimelineNote(t CallRequest, note string, now time.Time) CallRequest {
	t.Timeline = append(t.Timeline, TimelineStep{
		Step:      note,
		Timestamp: now.UTC().Format(time.RFC3339),
		Actor:     "Dispetcher",
		Status:    "DONE",
	})
	return t
}

// ResponsibleOrg is an organization tickets can be routed to.
type ResponsibleOrg struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Type           string `json:"type"`
	ActiveBrigades int    `json:"activeBrigades"`
	TotalBrigades  int    `json:"totalBrigades"`
	CurrentLoad    int    `json:"currentLoad"`
	ContactPhone   string `json:"contactPhone"`
}
