// Package report renders operational exports from polled city state.
package report

import (
	"fmt"
	"time"

	"github.com/samber/lo"

	"smartcity-ops/internal/domain"
)

// Snapshot is the polled state a report is built from.
type Snapshot struct {
	WasteBins    []domain.WasteBin
	UtilityNodes []domain.UtilityNode
	AirSensors   []domain.AirSensor
	Facilities   []domain.Facility
	CallRequests []domain.CallRequest
}

// Entries flattens a snapshot into report rows. Only rows worth an
// operator's attention make the report: full bins, flagged nodes,
// degraded air and facility readings, and unresolved tickets.
func Entries(s Snapshot, now time.Time) []domain.ReportEntry {
	ts := now.UTC().Format(time.RFC3339)
	var out []domain.ReportEntry

	fullBins := lo.Filter(s.WasteBins, func(b domain.WasteBin, _ int) bool {
		return b.IsFull || b.FillLevel >= 80
	})
	for _, b := range fullBins {
		out = append(out, domain.ReportEntry{
			ID:          b.ID,
			Timestamp:   ts,
			Location:    b.Address,
			MFY:         b.TozaHudud,
			Category:    "waste",
			MetricLabel: "fill level",
			Value:       fmt.Sprintf("%.0f%%", b.FillLevel),
			Status:      binStatus(b),
			Responsible: b.OrganizationID,
		})
	}

	troubled := lo.Filter(s.UtilityNodes, func(n domain.UtilityNode, _ int) bool {
		return n.Status != domain.NodeActive
	})
	for _, n := range troubled {
		out = append(out, domain.ReportEntry{
			ID:          n.ID,
			Timestamp:   ts,
			Location:    n.Address,
			MFY:         n.MFY,
			Category:    "utility",
			MetricLabel: n.Type + " status",
			Value:       fmt.Sprintf("%s, %d tickets", n.Status, n.ActiveTickets),
			Status:      nodeStatus(n),
		})
	}

	for _, a := range s.AirSensors {
		if a.Status == domain.StatusOptimal {
			continue
		}
		out = append(out, domain.ReportEntry{
			ID:          a.ID,
			Timestamp:   ts,
			Location:    a.Name,
			MFY:         a.MFY,
			Category:    "air",
			MetricLabel: "aqi",
			Value:       fmt.Sprintf("%.0f", a.AQI),
			Status:      a.Status,
			Responsible: a.OrganizationID,
		})
	}

	for _, f := range s.Facilities {
		if f.OverallStatus == domain.StatusOptimal || f.OverallStatus == "" {
			continue
		}
		out = append(out, domain.ReportEntry{
			ID:          f.ID,
			Timestamp:   ts,
			Location:    f.Name,
			MFY:         f.MFY,
			Category:    "facility",
			MetricLabel: "efficiency",
			Value:       fmt.Sprintf("%.0f", f.EfficiencyScore),
			Status:      f.OverallStatus,
			Responsible: f.ManagerName,
		})
	}

	open := lo.Filter(s.CallRequests, func(t domain.CallRequest, _ int) bool {
		return t.Status != domain.TicketResolved && t.Status != domain.TicketClosed
	})
	for _, t := range open {
		out = append(out, domain.ReportEntry{
			ID:          t.ID,
			Timestamp:   ts,
			Location:    t.Address,
			MFY:         t.MFY,
			Category:    "callcenter",
			MetricLabel: "ticket " + t.Status,
			Value:       t.Category,
			Status:      ticketStatus(t),
			Responsible: t.AssignedOrg,
		})
	}
	return out
}

// Summary aggregates entries per category and severity.
type Summary struct {
	Total      int
	ByCategory map[string]int
	Critical   int
}

// Summarize counts entries per category.
func Summarize(entries []domain.ReportEntry) Summary {
	return Summary{
		Total: len(entries),
		ByCategory: lo.CountValuesBy(entries, func(e domain.ReportEntry) string {
			return e.Category
		}),
		Critical: lo.CountBy(entries, func(e domain.ReportEntry) bool {
			return e.Status == domain.StatusCritical
		}),
	}
}

func binStatus(b domain.WasteBin) domain.SensorStatus {
	if b.IsFull || b.FillLevel >= 90 {
		return domain.StatusCritical
	}
	return domain.StatusWarning
}

func nodeStatus(n domain.UtilityNode) domain.SensorStatus {
	if n.Status == domain.NodeOutage {
		return domain.StatusCritical
	}
	return domain.StatusWarning
}

func ticketStatus(t domain.CallRequest) domain.SensorStatus {
	if t.Status == domain.TicketNew {
		return domain.StatusCritical
	}
	return domain.StatusWarning
}
