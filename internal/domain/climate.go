package domain

// MoistureSensor is a soil moisture probe.
type MoistureSensor struct {
	ID            string       `json:"id"`
	Location      Coordinate   `json:"location"`
	MFY           string       `json:"mfy"`
	Status        SensorStatus `json:"status"`
	MoistureLevel float64      `json:"moistureLevel"`
	LastUpdate    string       `json:"lastUpdate"`
}

// Room is a humidity-controlled room, optionally attached to a boiler.
type Room struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	FacilityID     string       `json:"facilityId,omitempty"`
	Floor          int          `json:"floor,omitempty"`
	Capacity       int          `json:"capacity,omitempty"`
	IsOccupied     bool         `json:"isOccupied"`
	// Nil targets mean never set; the wire layer fills the declared
	// defaults. An explicit 0 stays 0.
	TargetHumidity *float64     `json:"targetHumidity"`
	Humidity       float64      `json:"humidity"`
	Temperature    *float64     `json:"temperature,omitempty"`
	Status         SensorStatus `json:"status"`
	Trend          []float64    `json:"trend"`
	CreatedAt      string       `json:"createdAt,omitempty"`
	LastUpdated    string       `json:"lastUpdated,omitempty"`
}

// Boiler heats a set of connected rooms.
type Boiler struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	TargetHumidity *float64     `json:"targetHumidity"`
	Humidity       float64      `json:"humidity"`
	Temperature    *float64     `json:"temperature"`
	Status         SensorStatus `json:"status"`
	Trend          []float64    `json:"trend"`
	DeviceHealth   DeviceHealth `json:"deviceHealth"`
	ConnectedRooms []Room       `json:"connectedRooms"`
	CreatedAt      string       `json:"createdAt,omitempty"`
	LastUpdated    string       `json:"lastUpdated,omitempty"`
}

// Facility is a public building (school, kindergarten, hospital)
// aggregating boilers, which in turn aggregate rooms.
type Facility struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	Type            string       `json:"type"`
	MFY             string       `json:"mfy"`
	OverallStatus   SensorStatus `json:"overallStatus"`
	EnergyUsage     float64      `json:"energyUsage"`
	EfficiencyScore float64      `json:"efficiencyScore"`
	ManagerName     string       `json:"managerName"`
	LastMaintenance string       `json:"lastMaintenance"`
	History         []float64    `json:"history"`
	Boilers         []Boiler     `json:"boilers"`
	OrganizationID  string       `json:"organizationId,omitempty"`
}

// IoTDevice is a registered temperature/humidity sensor unit.
type IoTDevice struct {
	ID                 string     `json:"id"`
	DeviceID           string     `json:"deviceId"`
	DeviceType         string     `json:"deviceType"`
	RoomID             string     `json:"roomId,omitempty"`
	BoilerID           string     `json:"boilerId,omitempty"`
	Location           Coordinate `json:"location"`
	LastSeen           string     `json:"lastSeen"`
	IsActive           bool       `json:"isActive"`
	CreatedAt          string     `json:"createdAt,omitempty"`
	CurrentTemperature float64    `json:"currentTemperature,omitempty"`
	CurrentHumidity    float64    `json:"currentHumidity,omitempty"`
	LastSensorUpdate   string     `json:"lastSensorUpdate,omitempty"`
	OrganizationID     string     `json:"organizationId,omitempty"`
}

// SensorReading is one measurement pushed through the ingestion
// endpoint on behalf of a device.
type SensorReading struct {
	DeviceID     string
	Temperature  *float64
	Humidity     *float64
	SleepSeconds *int
	Timestamp    int64
}
