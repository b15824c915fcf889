package domain

// ReportEntry is one row of the operational report built from polled
// entity state.
type ReportEntry struct {
	ID          string       `json:"id"`
	Timestamp   string       `json:"timestamp"`
	MFY         string       `json:"mfy"`
	Location    string       `json:"locationName"`
	Category    string       `json:"category"`
	MetricLabel string       `json:"metricLabel"`
	Value       string       `json:"value"`
	Status      SensorStatus `json:"status"`
	Responsible string       `json:"responsible"`
}
