package mapping

import "smartcity-ops/internal/domain"

// AirSensorFromWire normalizes an air quality sensor record.
func AirSensorFromWire(m map[string]any) domain.AirSensor {
	return domain.AirSensor{
		ID:             str(m, "", "id"),
		Name:           str(m, "", "name"),
		MFY:            str(m, "", "mfy"),
		Location:       coordField(m),
		AQI:            num(m, 0, "aqi"),
		PM25:           num(m, 0, "pm25"),
		CO2:            num(m, 0, "co2"),
		Status:         domain.SensorStatus(str(m, string(domain.StatusOptimal), "status")),
		OrganizationID: str(m, "", "organization_id", "organizationId"),
	}
}

// AirSensorToWire builds an air sensor payload. The endpoint speaks
// camelCase and takes all readings as numbers.
func AirSensorToWire(s domain.AirSensor, _ Mode) map[string]any {
	wire := map[string]any{
		"name":     s.Name,
		"mfy":      s.MFY,
		"location": CoordinateToWire(s.Location),
		"aqi":      s.AQI,
		"pm25":     s.PM25,
		"co2":      s.CO2,
		"status":   string(s.Status),
	}
	setIf(wire, "organizationId", s.OrganizationID)
	return wire
}

// SOSColumnFromWire normalizes a street SOS column record.
func SOSColumnFromWire(m map[string]any) domain.SOSColumn {
	col := domain.SOSColumn{
		ID:             str(m, "", "id"),
		Name:           str(m, "", "name"),
		Location:       coordField(m),
		MFY:            str(m, "", "mfy"),
		Status:         str(m, "ONLINE", "status"),
		CameraURL:      str(m, "", "camera_url", "cameraUrl"),
		LastTest:       str(m, "", "last_test", "lastTest"),
		OrganizationID: str(m, "", "organization_id", "organizationId"),
	}
	if health, ok := sub(m, "device_health", "deviceHealth"); ok {
		col.DeviceHealth = DeviceHealthFromWire(health)
	} else {
		col.DeviceHealth = DeviceHealthFromWire(nil)
	}
	return col
}

// SOSColumnToWire builds an SOS column payload with a complete
// camelCase health block.
func SOSColumnToWire(c domain.SOSColumn, _ Mode) map[string]any {
	wire := map[string]any{
		"name":         c.Name,
		"location":     CoordinateToWire(c.Location),
		"mfy":          c.MFY,
		"status":       c.Status,
		"lastTest":     isoOrNow(c.LastTest),
		"deviceHealth": deviceHealthCamel(c.DeviceHealth),
	}
	setIf(wire, "cameraUrl", c.CameraURL)
	setIf(wire, "organizationId", c.OrganizationID)
	return wire
}

// ConstructionSiteFromWire normalizes a construction site with its
// stage missions.
func ConstructionSiteFromWire(m map[string]any) domain.ConstructionSite {
	site := domain.ConstructionSite{
		ID:              str(m, "", "id"),
		Name:            str(m, "", "name"),
		Address:         str(m, "", "address"),
		ContractorName:  str(m, "", "contractor_name", "contractorName"),
		CameraURL:       str(m, "", "camera_url", "cameraUrl"),
		StartDate:       str(m, "", "start_date", "startDate"),
		Status:          str(m, "", "status"),
		OverallProgress: num(m, 0, "overall_progress", "overallProgress"),
		CurrentAIStage:  str(m, "", "current_ai_stage", "currentAiStage"),
		AIConfidence:    num(m, 0, "ai_confidence", "aiConfidence"),
		OrganizationID:  str(m, "", "organization_id", "organizationId"),
	}
	for _, item := range list(m, "missions") {
		child, ok := item.(map[string]any)
		if !ok {
			continue
		}
		site.Missions = append(site.Missions, domain.ConstructionMission{
			ID:        str(child, "", "id"),
			StageName: str(child, "", "stage_name", "stageName"),
			StageType: str(child, "", "stage_type", "stageType"),
			Deadline:  str(child, "", "deadline"),
			Status:    str(child, "", "status"),
			Progress:  num(child, 0, "progress"),
		})
	}
	return site
}

// ConstructionSiteToWire builds a site payload. Missions travel nested
// and complete; progress figures are always numbers.
func ConstructionSiteToWire(s domain.ConstructionSite, _ Mode) map[string]any {
	missions := make([]map[string]any, 0, len(s.Missions))
	for _, mi := range s.Missions {
		child := map[string]any{
			"stageName": mi.StageName,
			"stageType": mi.StageType,
			"deadline":  mi.Deadline,
			"status":    mi.Status,
			"progress":  mi.Progress,
		}
		setIf(child, "id", mi.ID)
		missions = append(missions, child)
	}
	wire := map[string]any{
		"name":            s.Name,
		"address":         s.Address,
		"contractorName":  s.ContractorName,
		"startDate":       s.StartDate,
		"status":          s.Status,
		"overallProgress": s.OverallProgress,
		"aiConfidence":    s.AIConfidence,
		"missions":        missions,
	}
	setIf(wire, "cameraUrl", s.CameraURL)
	setIf(wire, "currentAiStage", s.CurrentAIStage)
	setIf(wire, "organizationId", s.OrganizationID)
	return wire
}

// LightPoleFromWire normalizes a street light record.
func LightPoleFromWire(m map[string]any) domain.LightPole {
	return domain.LightPole{
		ID:             str(m, "", "id"),
		Location:       coordField(m),
		Address:        str(m, "", "address"),
		CameraURL:      str(m, "", "camera_url", "cameraUrl"),
		Status:         str(m, "", "status"),
		Luminance:      num(m, 0, "luminance"),
		LastCheck:      str(m, "", "last_check", "lastCheck"),
		OrganizationID: str(m, "", "organization_id", "organizationId"),
	}
}

// LightPoleToWire builds a light pole payload.
func LightPoleToWire(p domain.LightPole, _ Mode) map[string]any {
	wire := map[string]any{
		"location":  CoordinateToWire(p.Location),
		"address":   p.Address,
		"status":    p.Status,
		"luminance": p.Luminance,
		"lastCheck": isoOrNow(p.LastCheck),
	}
	setIf(wire, "cameraUrl", p.CameraURL)
	setIf(wire, "organizationId", p.OrganizationID)
	return wire
}

// BusFromWire normalizes a bus telemetry record.
func BusFromWire(m map[string]any) domain.Bus {
	return domain.Bus{
		ID:             str(m, "", "id"),
		RouteNumber:    str(m, "", "route_number", "routeNumber"),
		PlateNumber:    str(m, "", "plate_number", "plateNumber"),
		DriverName:     str(m, "", "driver_name", "driverName"),
		Location:       coordField(m),
		Bearing:        num(m, 0, "bearing"),
		Speed:          num(m, 0, "speed"),
		Passengers:     int(num(m, 0, "passengers")),
		Status:         str(m, "", "status"),
		FuelLevel:      num(m, 0, "fuel_level", "fuelLevel"),
		EngineTemp:     num(m, 0, "engine_temp", "engineTemp"),
		NextStop:       str(m, "", "next_stop", "nextStop"),
		OrganizationID: str(m, "", "organization_id", "organizationId"),
	}
}

// BusToWire builds a bus payload.
func BusToWire(b domain.Bus, _ Mode) map[string]any {
	wire := map[string]any{
		"routeNumber": b.RouteNumber,
		"plateNumber": b.PlateNumber,
		"driverName":  b.DriverName,
		"location":    CoordinateToWire(b.Location),
		"bearing":     b.Bearing,
		"speed":       b.Speed,
		"passengers":  b.Passengers,
		"fuelLevel":   b.FuelLevel,
		"engineTemp":  b.EngineTemp,
	}
	setIf(wire, "status", b.Status)
	setIf(wire, "nextStop", b.NextStop)
	setIf(wire, "organizationId", b.OrganizationID)
	return wire
}

// EcoViolationFromWire normalizes a detected violation. Offender
// details arrive either flattened or nested under "offender".
func EcoViolationFromWire(m map[string]any) domain.EcoViolation {
	v := domain.EcoViolation{
		ID:             str(m, "", "id"),
		LocationName:   str(m, "", "location_name", "locationName"),
		MFY:            str(m, "", "mfy"),
		Timestamp:      str(m, "", "timestamp"),
		ImageURL:       str(m, "", "image_url", "imageUrl"),
		Confidence:     num(m, 0, "confidence"),
		OffenderName:   str(m, "", "offender_name", "offenderName"),
		FaceID:         str(m, "", "face_id", "faceId"),
		OrganizationID: str(m, "", "organization_id", "organizationId"),
	}
	if offender, ok := sub(m, "offender"); ok {
		if v.OffenderName == "" {
			v.OffenderName = str(offender, "", "name")
		}
		if v.FaceID == "" {
			v.FaceID = str(offender, "", "face_id", "faceId")
		}
	}
	return v
}

// EcoViolationToWire builds a violation payload with offender fields
// flattened.
func EcoViolationToWire(v domain.EcoViolation, _ Mode) map[string]any {
	wire := map[string]any{
		"locationName": v.LocationName,
		"mfy":          v.MFY,
		"timestamp":    isoOrNow(v.Timestamp),
		"confidence":   v.Confidence,
	}
	setIf(wire, "imageUrl", v.ImageURL)
	setIf(wire, "offenderName", v.OffenderName)
	setIf(wire, "faceId", v.FaceID)
	setIf(wire, "organizationId", v.OrganizationID)
	return wire
}

// UtilityNodeFromWire normalizes a utility network node.
func UtilityNodeFromWire(m map[string]any) domain.UtilityNode {
	return domain.UtilityNode{
		ID:            str(m, "", "id"),
		Name:          str(m, "", "name"),
		Type:          str(m, "", "type"),
		MFY:           str(m, "", "mfy"),
		Address:       str(m, "", "address"),
		Location:      coordField(m),
		Status:        str(m, domain.NodeActive, "status"),
		Load:          num(m, 0, "load"),
		Capacity:      str(m, "", "capacity"),
		ActiveTickets: int(num(m, 0, "active_tickets", "activeTickets")),
	}
}

// UtilityNodeToWire builds a utility node payload.
func UtilityNodeToWire(n domain.UtilityNode, _ Mode) map[string]any {
	return map[string]any{
		"name":          n.Name,
		"type":          n.Type,
		"mfy":           n.MFY,
		"address":       n.Address,
		"location":      CoordinateToWire(n.Location),
		"status":        n.Status,
		"load":          n.Load,
		"capacity":      n.Capacity,
		"activeTickets": n.ActiveTickets,
	}
}
