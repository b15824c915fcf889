package domain

// Coordinate is a latitude/longitude pair.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// SensorStatus classifies a sensor or facility reading.
type SensorStatus string

const (
	StatusOptimal  SensorStatus = "OPTIMAL"
	StatusWarning  SensorStatus = "WARNING"
	StatusCritical SensorStatus = "CRITICAL"
)

// DeviceHealth describes the embedded health block carried by field
// devices (bins, SOS columns, boilers). Entities that declare it always
// send it complete; missing pieces are filled with defaults on write.
type DeviceHealth struct {
	BatteryLevel    float64 `json:"batteryLevel"`
	SignalStrength  float64 `json:"signalStrength"`
	LastPing        string  `json:"lastPing"`
	FirmwareVersion string  `json:"firmwareVersion"`
	IsOnline        bool    `json:"isOnline"`
}

// TimelineStep is one entry in a call request's processing history.
type TimelineStep struct {
	Step      string `json:"step"`
	Timestamp string `json:"timestamp"`
	Actor     string `json:"actor"`
	Status    string `json:"status"`
}
