package mapping

import "smartcity-ops/internal/domain"

// WasteBinFromWire normalizes a waste bin record.
func WasteBinFromWire(m map[string]any) domain.WasteBin {
	b := domain.WasteBin{
		ID:             str(m, "", "id"),
		Location:       coordField(m),
		Address:        str(m, "", "address"),
		TozaHudud:      str(m, "", "toza_hudud", "tozaHudud"),
		FillLevel:      num(m, 0, "fill_level", "fillLevel"),
		FillRate:       num(m, 0, "fill_rate", "fillRate"),
		LastAnalysis:   str(m, "", "last_analysis", "lastAnalysis"),
		ImageURL:       str(m, "", "image_url", "imageUrl"),
		ImageSource:    str(m, "", "image_source", "imageSource"),
		CameraURL:      str(m, "", "camera_url", "cameraUrl"),
		GoogleMapsURL:  str(m, "", "google_maps_url", "googleMapsUrl"),
		IsFull:         boolean(m, false, "is_full", "isFull"),
		QRCodeURL:      str(m, "", "qr_code_url", "qrCodeUrl"),
		Image:          str(m, "", "image"),
		OrganizationID: str(m, "", "organization_id", "organizationId"),
	}
	if health, ok := sub(m, "device_health", "deviceHealth"); ok {
		b.DeviceHealth = DeviceHealthFromWire(health)
	} else {
		b.DeviceHealth = DeviceHealthFromWire(nil)
	}
	return b
}

// WasteBinToWire builds a full bin payload. Coordinates and fill
// figures are always numbers on the wire, and the health block is
// always complete.
func WasteBinToWire(b domain.WasteBin, _ Mode) map[string]any {
	wire := map[string]any{
		"location":      CoordinateToWire(b.Location),
		"address":       b.Address,
		"toza_hudud":    b.TozaHudud,
		"fill_level":    b.FillLevel,
		"fill_rate":     b.FillRate,
		"is_full":       b.IsFull,
		"device_health": DeviceHealthToWire(b.DeviceHealth),
	}
	setIf(wire, "last_analysis", b.LastAnalysis)
	setIf(wire, "image_url", b.ImageURL)
	setIf(wire, "image_source", b.ImageSource)
	setIf(wire, "camera_url", b.CameraURL)
	setIf(wire, "google_maps_url", b.GoogleMapsURL)
	setIf(wire, "qr_code_url", b.QRCodeURL)
	setIf(wire, "image", b.Image)
	setIf(wire, "organization_id", b.OrganizationID)
	return wire
}

// WasteBinPatchWire builds a sparse update payload. Only fields set on
// the patch appear; an absent field must never reach the wire, or the
// backend would reset it to a default the caller did not ask for.
func WasteBinPatchWire(p domain.WasteBinPatch) map[string]any {
	wire := map[string]any{}
	if p.Address != nil {
		wire["address"] = *p.Address
	}
	if p.TozaHudud != nil {
		wire["toza_hudud"] = *p.TozaHudud
	}
	if p.FillLevel != nil {
		wire["fill_level"] = *p.FillLevel
	}
	if p.FillRate != nil {
		wire["fill_rate"] = *p.FillRate
	}
	if p.LastAnalysis != nil {
		wire["last_analysis"] = isoOrNow(*p.LastAnalysis)
	}
	if p.ImageURL != nil {
		wire["image_url"] = *p.ImageURL
	}
	if p.ImageSource != nil {
		wire["image_source"] = *p.ImageSource
	}
	if p.CameraURL != nil {
		wire["camera_url"] = *p.CameraURL
	}
	if p.GoogleMapsURL != nil {
		wire["google_maps_url"] = *p.GoogleMapsURL
	}
	if p.IsFull != nil {
		wire["is_full"] = *p.IsFull
	}
	if p.DeviceHealth != nil {
		wire["device_health"] = DeviceHealthToWire(*p.DeviceHealth)
	}
	if p.QRCodeURL != nil {
		wire["qr_code_url"] = *p.QRCodeURL
	}
	if p.Image != nil {
		wire["image"] = *p.Image
	}
	if p.OrganizationID != nil {
		wire["organization_id"] = *p.OrganizationID
	}
	return wire
}

// TruckFromWire normalizes a truck record.
func TruckFromWire(m map[string]any) domain.Truck {
	return domain.Truck{
		ID:             str(m, "", "id"),
		DriverName:     str(m, "", "driver_name", "driverName"),
		PlateNumber:    str(m, "", "plate_number", "plateNumber"),
		TozaHudud:      str(m, "", "toza_hudud", "tozaHudud"),
		Location:       coordField(m),
		Status:         str(m, "", "status"),
		FuelLevel:      num(m, 0, "fuel_level", "fuelLevel"),
		Phone:          str(m, "", "phone"),
		Login:          str(m, "", "login"),
		Password:       str(m, "", "password"),
		OrganizationID: str(m, "", "organization", "organization_id", "organizationId"),
	}
}

// TruckToWire builds a truck payload. The owning organization travels
// under the bare relation name on this endpoint.
func TruckToWire(t domain.Truck, _ Mode) map[string]any {
	wire := map[string]any{
		"driver_name":  t.DriverName,
		"plate_number": t.PlateNumber,
		"phone":        t.Phone,
		"toza_hudud":   t.TozaHudud,
		"location":     CoordinateToWire(t.Location),
		"fuel_level":   t.FuelLevel,
	}
	setIf(wire, "status", t.Status)
	setIf(wire, "login", t.Login)
	setIf(wire, "password", t.Password)
	setIf(wire, "organization", t.OrganizationID)
	return wire
}
