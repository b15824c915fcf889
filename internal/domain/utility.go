package domain

// Utility node statuses.
const (
	NodeActive      = "ACTIVE"
	NodeWarning     = "WARNING"
	NodeOutage      = "OUTAGE"
	NodeMaintenance = "MAINTENANCE"
)

// UtilityNode is a point in the electricity/water/gas network.
type UtilityNode struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Type          string     `json:"type"`
	MFY           string     `json:"mfy"`
	Address       string     `json:"address"`
	Location      Coordinate `json:"location"`
	Status        string     `json:"status"`
	Load          float64    `json:"load"`
	Capacity      string     `json:"capacity"`
	ActiveTickets int        `json:"activeTickets"`
}

// FlagOutage marks a node as out of service and opens one more ticket
// against it.
func FlagOutage(n UtilityNode) UtilityNode {
	n.Status = NodeOutage
	n.ActiveTickets++
	return n
}

// ResolveOutage returns a node to service and closes its tickets.
func ResolveOutage(n UtilityNode) UtilityNode {
	n.Status = NodeActive
	n.ActiveTickets = 0
	return n
}

// ReconcileNodeStatus applies the ticket-pressure rules the dispatch
// board uses: a few open tickets degrade a node to WARNING, sustained
// pressure flags an OUTAGE. Nodes already flagged stay flagged.
func ReconcileNodeStatus(n UtilityNode, openTickets int) UtilityNode {
	n.ActiveTickets = openTickets
	switch {
	case openTickets > 3 && n.Status != NodeOutage:
		n.Status = NodeOutage
	case openTickets > 0 && n.Status == NodeActive:
		n.Status = NodeWarning
	}
	return n
}
