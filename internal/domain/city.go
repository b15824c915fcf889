package domain

// AirSensor is an air quality monitoring point.
type AirSensor struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	MFY            string       `json:"mfy"`
	Location       Coordinate   `json:"location"`
	AQI            float64      `json:"aqi"`
	PM25           float64      `json:"pm25"`
	CO2            float64      `json:"co2"`
	Status         SensorStatus `json:"status"`
	OrganizationID string       `json:"organizationId,omitempty"`
}

// SOSColumn is a street emergency call column.
type SOSColumn struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Location       Coordinate   `json:"location"`
	MFY            string       `json:"mfy"`
	Status         string       `json:"status"`
	CameraURL      string       `json:"cameraUrl"`
	LastTest       string       `json:"lastTest"`
	DeviceHealth   DeviceHealth `json:"deviceHealth"`
	OrganizationID string       `json:"organizationId,omitempty"`
}

// ConstructionMission is one stage milestone on a construction site.
type ConstructionMission struct {
	ID        string  `json:"id"`
	StageName string  `json:"stageName"`
	StageType string  `json:"stageType"`
	Deadline  string  `json:"deadline"`
	Status    string  `json:"status"`
	Progress  float64 `json:"progress"`
}

// ConstructionSite is a monitored building site.
type ConstructionSite struct {
	ID              string                `json:"id"`
	Name            string                `json:"name"`
	Address         string                `json:"address"`
	ContractorName  string                `json:"contractorName"`
	CameraURL       string                `json:"cameraUrl"`
	StartDate       string                `json:"startDate"`
	Status          string                `json:"status"`
	OverallProgress float64               `json:"overallProgress"`
	CurrentAIStage  string                `json:"currentAiStage"`
	AIConfidence    float64               `json:"aiConfidence"`
	Missions        []ConstructionMission `json:"missions"`
	OrganizationID  string                `json:"organizationId,omitempty"`
}

// LightPole is a monitored street light.
type LightPole struct {
	ID             string     `json:"id"`
	Location       Coordinate `json:"location"`
	Address        string     `json:"address"`
	CameraURL      string     `json:"cameraUrl"`
	Status         string     `json:"status"`
	Luminance      float64    `json:"luminance"`
	LastCheck      string     `json:"lastCheck"`
	OrganizationID string     `json:"organizationId,omitempty"`
}

// Bus is a public transport vehicle with onboard telemetry.
type Bus struct {
	ID             string     `json:"id"`
	RouteNumber    string     `json:"routeNumber"`
	PlateNumber    string     `json:"plateNumber"`
	DriverName     string     `json:"driverName"`
	Location       Coordinate `json:"location"`
	Bearing        float64    `json:"bearing"`
	Speed          float64    `json:"speed"`
	Passengers     int        `json:"passengers"`
	Status         string     `json:"status"`
	FuelLevel      float64    `json:"fuelLevel"`
	EngineTemp     float64    `json:"engineTemp"`
	NextStop       string     `json:"nextStop"`
	OrganizationID string     `json:"organizationId,omitempty"`
}

// EcoViolation is a detected environmental violation.
type EcoViolation struct {
	ID             string  `json:"id"`
	LocationName   string  `json:"locationName"`
	MFY            string  `json:"mfy"`
	Timestamp      string  `json:"timestamp"`
	ImageURL       string  `json:"imageUrl"`
	Confidence     float64 `json:"confidence"`
	OffenderName   string  `json:"offenderName,omitempty"`
	FaceID         string  `json:"faceId,omitempty"`
	OrganizationID string  `json:"organizationId,omitempty"`
}
