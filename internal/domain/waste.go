package domain

// WasteBin is a monitored waste container.
type WasteBin struct {
	ID             string       `json:"id"`
	Location       Coordinate   `json:"location"`
	Address        string       `json:"address"`
	TozaHudud      string       `json:"tozaHudud"`
	FillLevel      float64      `json:"fillLevel"`
	FillRate       float64      `json:"fillRate"`
	LastAnalysis   string       `json:"lastAnalysis"`
	ImageURL       string       `json:"imageUrl"`
	ImageSource    string       `json:"imageSource,omitempty"`
	CameraURL      string       `json:"cameraUrl,omitempty"`
	GoogleMapsURL  string       `json:"googleMapsUrl,omitempty"`
	IsFull         bool         `json:"isFull"`
	DeviceHealth   DeviceHealth `json:"deviceHealth"`
	QRCodeURL      string       `json:"qrCodeUrl,omitempty"`
	Image          string       `json:"image,omitempty"`
	OrganizationID string       `json:"organizationId,omitempty"`
}

// WasteBinPatch is a partial update for a waste bin. Nil fields are
// left untouched by the backend; only set fields reach the wire.
type WasteBinPatch struct {
	Address        *string
	TozaHudud      *string
	FillLevel      *float64
	FillRate       *float64
	LastAnalysis   *string
	ImageURL       *string
	ImageSource    *string
	CameraURL      *string
	GoogleMapsURL  *string
	IsFull         *bool
	DeviceHealth   *DeviceHealth
	QRCodeURL      *string
	Image          *string
	OrganizationID *string
}

// Truck is a waste collection vehicle with its driver.
type Truck struct {
	ID             string     `json:"id"`
	DriverName     string     `json:"driverName"`
	PlateNumber    string     `json:"plateNumber"`
	TozaHudud      string     `json:"tozaHudud"`
	Location       Coordinate `json:"location"`
	Status         string     `json:"status"`
	FuelLevel      float64    `json:"fuelLevel"`
	Phone          string     `json:"phone"`
	Login          string     `json:"login,omitempty"`
	Password       string     `json:"password,omitempty"`
	OrganizationID string     `json:"organizationId,omitempty"`
}
