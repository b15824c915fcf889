package mapping

import "smartcity-ops/internal/domain"

// CoordinateFromWire reads a lat/lng pair, tolerating string-typed
// values.
func CoordinateFromWire(m map[string]any) domain.Coordinate {
	if m == nil {
		return domain.Coordinate{}
	}
	return domain.Coordinate{
		Lat: num(m, 0, "lat", "latitude"),
		Lng: num(m, 0, "lng", "longitude"),
	}
}

// CoordinateToWire writes a lat/lng pair as numbers.
func CoordinateToWire(c domain.Coordinate) map[string]any {
	return map[string]any{"lat": c.Lat, "lng": c.Lng}
}

// DeviceHealthFromWire reads a health block from either casing and
// fills defaults for anything absent.
func DeviceHealthFromWire(m map[string]any) domain.DeviceHealth {
	return domain.DeviceHealth{
		BatteryLevel:    num(m, DefaultBattery, "battery_level", "batteryLevel"),
		SignalStrength:  num(m, DefaultSignal, "signal_strength", "signalStrength"),
		LastPing:        str(m, "", "last_ping", "lastPing"),
		FirmwareVersion: str(m, DefaultFirmware, "firmware_version", "firmwareVersion"),
		IsOnline:        boolean(m, true, "is_online", "isOnline"),
	}
}

// DeviceHealthToWire writes a complete snake_case health block. The
// block is never partially omitted: zero battery/signal on a fresh
// draft means "unknown", which maps to the declared defaults, and a
// placeholder last-ping string is replaced with the current instant.
func DeviceHealthToWire(h domain.DeviceHealth) map[string]any {
	if h == (domain.DeviceHealth{}) {
		h = domain.DeviceHealth{
			BatteryLevel:    DefaultBattery,
			SignalStrength:  DefaultSignal,
			FirmwareVersion: DefaultFirmware,
			IsOnline:        true,
		}
	}
	firmware := h.FirmwareVersion
	if firmware == "" {
		firmware = DefaultFirmware
	}
	return map[string]any{
		"battery_level":    h.BatteryLevel,
		"signal_strength":  h.SignalStrength,
		"last_ping":        isoOrNow(h.LastPing),
		"firmware_version": firmware,
		"is_online":        h.IsOnline,
	}
}

// deviceHealthCamel writes the camelCase variant used by the entity
// kinds whose endpoints never adopted snake_case.
func deviceHealthCamel(h domain.DeviceHealth) map[string]any {
	wire := DeviceHealthToWire(h)
	return map[string]any{
		"batteryLevel":    wire["battery_level"],
		"signalStrength":  wire["signal_strength"],
		"lastPing":        wire["last_ping"],
		"firmwareVersion": wire["firmware_version"],
		"isOnline":        wire["is_online"],
	}
}
