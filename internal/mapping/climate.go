package mapping

import "smartcity-ops/internal/domain"

// RoomFromWire normalizes a room record.
func RoomFromWire(m map[string]any) domain.Room {
	return domain.Room{
		ID:             str(m, "", "id"),
		Name:           str(m, "", "name", "roomName"),
		FacilityID:     str(m, "", "facility", "facility_id", "facilityId"),
		Floor:          int(num(m, 0, "floor")),
		Capacity:       int(num(m, 0, "capacity")),
		IsOccupied:     boolean(m, false, "is_occupied", "isOccupied"),
		TargetHumidity: fallback(numOpt(m, "target_humidity", "targetHumidity"), DefaultTargetHumidity),
		Humidity:       num(m, 0, "humidity", "moisture_level", "current_humidity"),
		Temperature:    numOpt(m, "temperature", "temp"),
		Status:         domain.SensorStatus(str(m, "", "status")),
		Trend:          numbers(m, "trend", "history"),
		CreatedAt:      str(m, "", "created_at", "createdAt"),
		LastUpdated:    str(m, "", "last_updated", "lastUpdated"),
	}
}

// RoomToWire builds a room payload. Rooms keep their id in the body so
// a boiler update can address existing connected rooms.
func RoomToWire(r domain.Room, mode Mode) map[string]any {
	wire := map[string]any{
		"name":            r.Name,
		"target_humidity": numOr(r.TargetHumidity, DefaultTargetHumidity),
		"humidity":        r.Humidity,
		"temperature":     numOr(r.Temperature, DefaultTemperature),
		"trend":           trend(r.Trend),
	}
	setIf(wire, "status", string(r.Status))
	if mode == Update || r.ID != "" {
		setIf(wire, "id", r.ID)
	}
	return wire
}

// BoilerFromWire normalizes a boiler and its connected rooms.
func BoilerFromWire(m map[string]any) domain.Boiler {
	b := domain.Boiler{
		ID:             str(m, "", "id"),
		Name:           str(m, "", "name"),
		TargetHumidity: fallback(numOpt(m, "target_humidity", "targetHumidity"), DefaultTargetHumidity),
		Humidity:       num(m, 0, "humidity", "current_humidity"),
		Temperature:    fallback(numOpt(m, "temperature"), DefaultTemperature),
		Status:         domain.SensorStatus(str(m, "", "status")),
		Trend:          numbers(m, "trend"),
		CreatedAt:      str(m, "", "created_at", "createdAt"),
		LastUpdated:    str(m, "", "last_updated", "lastUpdated"),
	}
	if health, ok := sub(m, "device_health", "deviceHealth"); ok {
		b.DeviceHealth = DeviceHealthFromWire(health)
	} else {
		b.DeviceHealth = DeviceHealthFromWire(nil)
	}
	for _, item := range list(m, "connected_rooms", "connectedRooms") {
		if room, ok := item.(map[string]any); ok {
			b.ConnectedRooms = append(b.ConnectedRooms, RoomFromWire(room))
		}
	}
	return b
}

// BoilerToWire builds a boiler payload, recursively mapping the
// connected rooms and always embedding a complete health block.
func BoilerToWire(b domain.Boiler, mode Mode) map[string]any {
	rooms := make([]any, 0, len(b.ConnectedRooms))
	for _, room := range b.ConnectedRooms {
		rooms = append(rooms, RoomToWire(room, mode))
	}
	wire := map[string]any{
		"name":            b.Name,
		"target_humidity": numOr(b.TargetHumidity, DefaultTargetHumidity),
		"humidity":        b.Humidity,
		"temperature":     numOr(b.Temperature, DefaultTemperature),
		"trend":           trend(b.Trend),
		"device_health":   DeviceHealthToWire(b.DeviceHealth),
		"connected_rooms": rooms,
	}
	setIf(wire, "status", string(b.Status))
	return wire
}

// FacilityFromWire normalizes a facility with its nested boilers.
func FacilityFromWire(m map[string]any) domain.Facility {
	f := domain.Facility{
		ID:              str(m, "", "id"),
		Name:            str(m, "", "name"),
		Type:            str(m, "", "type"),
		MFY:             str(m, "", "mfy"),
		OverallStatus:   domain.SensorStatus(str(m, "", "overall_status", "overallStatus")),
		EnergyUsage:     num(m, 0, "energy_usage", "energyUsage"),
		EfficiencyScore: num(m, 0, "efficiency_score", "efficiencyScore"),
		ManagerName:     str(m, "", "manager_name", "managerName"),
		LastMaintenance: str(m, "", "last_maintenance", "lastMaintenance"),
		History:         numbers(m, "history", "histories"),
		OrganizationID:  str(m, "", "organization_id", "organizationId", "organization"),
	}
	for _, item := range list(m, "boilers", "boilers_list") {
		if boiler, ok := item.(map[string]any); ok {
			f.Boilers = append(f.Boilers, BoilerFromWire(boiler))
		}
	}
	return f
}

// FacilityToWire builds the full nested facility payload. Updates send
// the complete composite: the backend replaces boilers and rooms
// wholesale, so a sparse facility patch would orphan nested records.
func FacilityToWire(f domain.Facility, mode Mode) map[string]any {
	boilers := make([]any, 0, len(f.Boilers))
	for _, boiler := range f.Boilers {
		boilers = append(boilers, BoilerToWire(boiler, mode))
	}
	wire := map[string]any{
		"name":             f.Name,
		"type":             f.Type,
		"mfy":              f.MFY,
		"energy_usage":     f.EnergyUsage,
		"efficiency_score": f.EfficiencyScore,
		"manager_name":     f.ManagerName,
		"last_maintenance": isoOrNow(f.LastMaintenance),
		"history":          trend(f.History),
		"boilers":          boilers,
	}
	setIf(wire, "overall_status", string(f.OverallStatus))
	setIf(wire, "organization_id", f.OrganizationID)
	return wire
}

// IoTDeviceFromWire normalizes a device record. The backend returns
// room/boiler references under bare relation names.
func IoTDeviceFromWire(m map[string]any) domain.IoTDevice {
	return domain.IoTDevice{
		ID:                 str(m, "", "id"),
		DeviceID:           str(m, "", "device_id", "deviceId"),
		DeviceType:         str(m, "", "device_type", "deviceType"),
		RoomID:             str(m, "", "room", "room_id", "roomId"),
		BoilerID:           str(m, "", "boiler", "boiler_id", "boilerId"),
		Location:           coordField(m),
		LastSeen:           str(m, "", "last_seen", "lastSeen"),
		IsActive:           boolean(m, false, "is_active", "isActive"),
		CreatedAt:          str(m, "", "created_at", "createdAt"),
		CurrentTemperature: num(m, 0, "current_temperature", "currentTemperature"),
		CurrentHumidity:    num(m, 0, "current_humidity", "currentHumidity"),
		LastSensorUpdate:   str(m, "", "last_sensor_update", "lastSensorUpdate"),
		OrganizationID:     str(m, "", "organization_id", "organizationId"),
	}
}

// IoTDeviceToWire builds a device payload.
func IoTDeviceToWire(d domain.IoTDevice, mode Mode) map[string]any {
	wire := map[string]any{
		"device_id":   d.DeviceID,
		"device_type": d.DeviceType,
		"location":    CoordinateToWire(d.Location),
	}
	setIf(wire, "room_id", d.RoomID)
	setIf(wire, "boiler_id", d.BoilerID)
	setIf(wire, "organization_id", d.OrganizationID)
	if mode == Update {
		wire["is_active"] = d.IsActive
	}
	return wire
}

// MoistureSensorFromWire normalizes a soil moisture probe.
func MoistureSensorFromWire(m map[string]any) domain.MoistureSensor {
	return domain.MoistureSensor{
		ID:            str(m, "", "id"),
		Location:      coordField(m),
		MFY:           str(m, "", "mfy"),
		Status:        domain.SensorStatus(str(m, "", "status")),
		MoistureLevel: num(m, 0, "moistureLevel", "moisture_level"),
		LastUpdate:    str(m, "", "lastUpdate", "last_update"),
	}
}

// MoistureSensorToWire builds a probe payload.
func MoistureSensorToWire(s domain.MoistureSensor, _ Mode) map[string]any {
	wire := map[string]any{
		"location":      CoordinateToWire(s.Location),
		"mfy":           s.MFY,
		"moistureLevel": s.MoistureLevel,
		"lastUpdate":    isoOrNow(s.LastUpdate),
	}
	setIf(wire, "status", string(s.Status))
	return wire
}

func coordField(m map[string]any) domain.Coordinate {
	if loc, ok := sub(m, "location"); ok {
		return CoordinateFromWire(loc)
	}
	return domain.Coordinate{}
}

func trend(values []float64) []any {
	out := make([]any, 0, len(values))
	for _, v := range values {
		out = append(out, v)
	}
	return out
}
