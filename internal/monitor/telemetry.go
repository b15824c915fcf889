package monitor

import (
	"regexp"
	"strconv"
	"strings"

	"smartcity-ops/internal/domain"
)

// Device messages arrive in two shapes. The compact one:
//
//	🆔 0420101
//	🌡 21.7°C 💧 43.9%
//	⏱ 2000s
//
// and the legacy labeled one:
//
//	Qurilma: ESP-100FDA
//	🌡 Harorat: 18.9 °C
//	💧 Havo namligi: 43.0 %
//	⏱ Sleep: 1800 sekund
var (
	reDeviceID       = regexp.MustCompile(`🆔\s*([A-Za-z0-9_-]+)`)
	reDeviceIDLegacy = regexp.MustCompile(`(?i)Qurilma:\s*([A-Za-z0-9_-]+)`)
	reDeviceIDBare   = regexp.MustCompile(`(?:ID|id|:\s*)?([A-Za-z0-9_-]{3,})`)
	reTemp         = regexp.MustCompile(`(?i)🌡\s*([-+]?\d+(?:[\.,]\d+)?)\s*°?C?`)
	reTempLegacy   = regexp.MustCompile(`(?i)Harorat:\s*([-+]?\d+(?:[\.,]\d+)?)\s*°?C`)
	reHum          = regexp.MustCompile(`💧\s*([-+]?\d+(?:[\.,]\d+)?)\s*%`)
	reHumLegacy    = regexp.MustCompile(`(?i)Havo\s+namligi:\s*([-+]?\d+(?:[\.,]\d+)?)\s*%`)
	reSleep        = regexp.MustCompile(`(?i)⏱\s*(\d+)\s*s`)
	reSleepLegacy  = regexp.MustCompile(`(?i)Sleep:\s*(\d+)\s*sekund`)
)

// ParseTelemetry extracts a reading from a device message. A message
// counts only when it names a device and carries at least one of
// temperature or humidity.
func ParseTelemetry(text string) (domain.SensorReading, bool) {
	var r domain.SensorReading

	if m := reDeviceID.FindStringSubmatch(text); m != nil {
		r.DeviceID = m[1]
	} else if m := reDeviceIDLegacy.FindStringSubmatch(text); m != nil {
		r.DeviceID = m[1]
	} else if m := reDeviceIDBare.FindStringSubmatch(text); m != nil {
		r.DeviceID = m[1]
	}

	if v, ok := matchFloat(reTemp, reTempLegacy, text); ok {
		r.Temperature = &v
	}
	if v, ok := matchFloat(reHum, reHumLegacy, text); ok {
		r.Humidity = &v
	}
	if m := reSleep.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			r.SleepSeconds = &n
		}
	} else if m := reSleepLegacy.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			r.SleepSeconds = &n
		}
	}

	if r.DeviceID == "" || (r.Temperature == nil && r.Humidity == nil) {
		return domain.SensorReading{}, false
	}
	return r, true
}

// matchFloat tries the compact pattern first, then the legacy one.
// Decimal commas are accepted.
func matchFloat(primary, legacy *regexp.Regexp, text string) (float64, bool) {
	for _, re := range []*regexp.Regexp{primary, legacy} {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
		if err == nil {
			return v, true
		}
	}
	return 0, false
}
