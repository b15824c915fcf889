package client

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"smartcity-ops/internal/domain"
)

// SendSensorData pushes one measurement through the ingestion endpoint
// on behalf of a device. Optional readings stay absent rather than
// zero so the backend can tell "not measured" from 0.
func (a *API) SendSensorData(ctx context.Context, r domain.SensorReading) (map[string]any, error) {
	if r.DeviceID == "" {
		return nil, errors.New("client: reading carries no device id")
	}
	body := map[string]any{"device_id": r.DeviceID}
	if r.Temperature != nil {
		body["temperature"] = *r.Temperature
	}
	if r.Humidity != nil {
		body["humidity"] = *r.Humidity
	}
	if r.SleepSeconds != nil {
		body["sleep_seconds"] = *r.SleepSeconds
	}
	if r.Timestamp != 0 {
		body["timestamp"] = r.Timestamp
	}
	var resp map[string]any
	if err := a.tr.Do(ctx, http.MethodPost, "/iot-devices/data/update/", body, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// LinkDeviceToBoiler attaches a registered device to a boiler.
func (a *API) LinkDeviceToBoiler(ctx context.Context, deviceID, boilerID string) (map[string]any, error) {
	body := map[string]any{"device_id": deviceID, "boiler_id": boilerID}
	var resp map[string]any
	if err := a.tr.Do(ctx, http.MethodPost, "/iot-devices/link-to-boiler/", body, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// LinkDeviceToRoom attaches a registered device to a room.
func (a *API) LinkDeviceToRoom(ctx context.Context, deviceID, roomID string) (map[string]any, error) {
	body := map[string]any{"device_id": deviceID, "room_id": roomID}
	var resp map[string]any
	if err := a.tr.Do(ctx, http.MethodPost, "/iot-devices/link-to-room/", body, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// DashboardStats fetches the backend's aggregate counters. The shape
// varies by deployment, so it stays a raw map.
func (a *API) DashboardStats(ctx context.Context) (map[string]any, error) {
	var resp map[string]any
	if err := a.tr.Do(ctx, http.MethodGet, "/dashboard/stats/", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Search runs a cross-entity text search, optionally narrowed to one
// kind.
func (a *API) Search(ctx context.Context, query, kind string) (map[string]any, error) {
	q := url.Values{}
	q.Set("q", query)
	if kind != "" {
		q.Set("type", kind)
	}
	var resp map[string]any
	if err := a.tr.Do(ctx, http.MethodGet, "/search/?"+q.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}
