package monitor

import "errors"

// ErrNotTelemetry marks a message that carries no usable reading.
var ErrNotTelemetry = errors.New("monitor: message carries no reading")
