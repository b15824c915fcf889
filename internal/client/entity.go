// Package client exposes typed access to the backend's REST resources.
// Every entity kind shares one CRUD shape over `/<resource>/` paths;
// the per-kind codecs plug the field mappers into it.
package client

import (
	"context"
	"net/http"
	"net/url"

	"smartcity-ops/internal/domain"
	"smartcity-ops/internal/mapping"
	"smartcity-ops/internal/transport"
)

// Codec binds an entity kind to its resource path and field mappers.
type Codec[T any] struct {
	Resource string
	FromWire func(map[string]any) T
	ToWire   func(T, mapping.Mode) map[string]any
}

// Entity is a typed CRUD client for one resource.
type Entity[T any] struct {
	tr    *transport.Client
	codec Codec[T]
}

// NewEntity builds a typed client over the shared transport.
func NewEntity[T any](tr *transport.Client, codec Codec[T]) *Entity[T] {
	return &Entity[T]{tr: tr, codec: codec}
}

// Resource returns the wire resource name.
func (e *Entity[T]) Resource() string { return e.codec.Resource }

// List fetches every record of the kind. The backend returns either a
// bare array or a paginated envelope with a "results" key.
func (e *Entity[T]) List(ctx context.Context) ([]T, error) {
	var raw any
	if err := e.tr.Do(ctx, http.MethodGet, "/"+e.codec.Resource+"/", nil, &raw); err != nil {
		return nil, err
	}
	items := unwrapList(raw)
	out := make([]T, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, e.codec.FromWire(m))
		}
	}
	return out, nil
}

// Get fetches one record by id.
func (e *Entity[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	var raw map[string]any
	if err := e.tr.Do(ctx, http.MethodGet, e.itemPath(id), nil, &raw); err != nil {
		return zero, err
	}
	return e.codec.FromWire(raw), nil
}

// Create posts a new record and returns the backend's version of it,
// including the issued id.
func (e *Entity[T]) Create(ctx context.Context, record T) (T, error) {
	var zero T
	var raw map[string]any
	body := e.codec.ToWire(record, mapping.Create)
	if err := e.tr.Do(ctx, http.MethodPost, "/"+e.codec.Resource+"/", body, &raw); err != nil {
		return zero, err
	}
	return e.codec.FromWire(raw), nil
}

// Update replaces a record and returns the backend's version.
func (e *Entity[T]) Update(ctx context.Context, id string, record T) (T, error) {
	var zero T
	var raw map[string]any
	body := e.codec.ToWire(record, mapping.Update)
	if err := e.tr.Do(ctx, http.MethodPut, e.itemPath(id), body, &raw); err != nil {
		return zero, err
	}
	return e.codec.FromWire(raw), nil
}

// Patch sends a sparse payload built by the caller. Used by the kinds
// whose endpoints accept partial updates.
func (e *Entity[T]) Patch(ctx context.Context, id string, fields map[string]any) (T, error) {
	var zero T
	var raw map[string]any
	if err := e.tr.Do(ctx, http.MethodPatch, e.itemPath(id), fields, &raw); err != nil {
		return zero, err
	}
	return e.codec.FromWire(raw), nil
}

// Delete removes a record.
func (e *Entity[T]) Delete(ctx context.Context, id string) error {
	return e.tr.Do(ctx, http.MethodDelete, e.itemPath(id), nil, nil)
}

func (e *Entity[T]) itemPath(id string) string {
	return "/" + e.codec.Resource + "/" + url.PathEscape(id) + "/"
}

// unwrapList tolerates both response shapes the backend uses for
// collection endpoints.
func unwrapList(raw any) []any {
	switch v := raw.(type) {
	case []any:
		return v
	case map[string]any:
		if results, ok := v["results"].([]any); ok {
			return results
		}
	}
	return nil
}

// API bundles the typed clients for every entity kind the dashboard
// synchronizes, plus the non-CRUD endpoints.
type API struct {
	tr *transport.Client

	WasteBins         *Entity[domain.WasteBin]
	Trucks            *Entity[domain.Truck]
	Organizations     *Entity[domain.Organization]
	MoistureSensors   *Entity[domain.MoistureSensor]
	AirSensors        *Entity[domain.AirSensor]
	SOSColumns        *Entity[domain.SOSColumn]
	Facilities        *Entity[domain.Facility]
	Boilers           *Entity[domain.Boiler]
	Rooms             *Entity[domain.Room]
	IoTDevices        *Entity[domain.IoTDevice]
	LightPoles        *Entity[domain.LightPole]
	UtilityNodes      *Entity[domain.UtilityNode]
	ConstructionSites *Entity[domain.ConstructionSite]
	Buses             *Entity[domain.Bus]
	CallRequests      *Entity[domain.CallRequest]
	EcoViolations     *Entity[domain.EcoViolation]
	ResponsibleOrgs   *Entity[domain.ResponsibleOrg]
	Regions           *Entity[domain.Region]
}

// NewAPI wires every entity client over one transport.
func NewAPI(tr *transport.Client) *API {
	return &API{
		tr: tr,
		WasteBins: NewEntity(tr, Codec[domain.WasteBin]{
			Resource: "waste-bins",
			FromWire: mapping.WasteBinFromWire,
			ToWire:   mapping.WasteBinToWire,
		}),
		Trucks: NewEntity(tr, Codec[domain.Truck]{
			Resource: "trucks",
			FromWire: mapping.TruckFromWire,
			ToWire:   mapping.TruckToWire,
		}),
		Organizations: NewEntity(tr, Codec[domain.Organization]{
			Resource: "organizations",
			FromWire: mapping.OrganizationFromWire,
			ToWire:   mapping.OrganizationToWire,
		}),
		MoistureSensors: NewEntity(tr, Codec[domain.MoistureSensor]{
			Resource: "moisture-sensors",
			FromWire: mapping.MoistureSensorFromWire,
			ToWire:   mapping.MoistureSensorToWire,
		}),
		AirSensors: NewEntity(tr, Codec[domain.AirSensor]{
			Resource: "air-sensors",
			FromWire: mapping.AirSensorFromWire,
			ToWire:   mapping.AirSensorToWire,
		}),
		SOSColumns: NewEntity(tr, Codec[domain.SOSColumn]{
			Resource: "sos-columns",
			FromWire: mapping.SOSColumnFromWire,
			ToWire:   mapping.SOSColumnToWire,
		}),
		Facilities: NewEntity(tr, Codec[domain.Facility]{
			Resource: "facilities",
			FromWire: mapping.FacilityFromWire,
			ToWire:   mapping.FacilityToWire,
		}),
		Boilers: NewEntity(tr, Codec[domain.Boiler]{
			Resource: "boilers",
			FromWire: mapping.BoilerFromWire,
			ToWire:   mapping.BoilerToWire,
		}),
		Rooms: NewEntity(tr, Codec[domain.Room]{
			Resource: "rooms",
			FromWire: mapping.RoomFromWire,
			ToWire:   mapping.RoomToWire,
		}),
		IoTDevices: NewEntity(tr, Codec[domain.IoTDevice]{
			Resource: "iot-devices",
			FromWire: mapping.IoTDeviceFromWire,
			ToWire:   mapping.IoTDeviceToWire,
		}),
		LightPoles: NewEntity(tr, Codec[domain.LightPole]{
			Resource: "light-poles",
			FromWire: mapping.LightPoleFromWire,
			ToWire:   mapping.LightPoleToWire,
		}),
		UtilityNodes: NewEntity(tr, Codec[domain.UtilityNode]{
			Resource: "utility-nodes",
			FromWire: mapping.UtilityNodeFromWire,
			ToWire:   mapping.UtilityNodeToWire,
		}),
		ConstructionSites: NewEntity(tr, Codec[domain.ConstructionSite]{
			Resource: "construction-sites",
			FromWire: mapping.ConstructionSiteFromWire,
			ToWire:   mapping.ConstructionSiteToWire,
		}),
		Buses: NewEntity(tr, Codec[domain.Bus]{
			Resource: "buses",
			FromWire: mapping.BusFromWire,
			ToWire:   mapping.BusToWire,
		}),
		CallRequests: NewEntity(tr, Codec[domain.CallRequest]{
			Resource: "call-requests",
			FromWire: mapping.CallRequestFromWire,
			ToWire:   mapping.CallRequestToWire,
		}),
		EcoViolations: NewEntity(tr, Codec[domain.EcoViolation]{
			Resource: "eco-violations",
			FromWire: mapping.EcoViolationFromWire,
			ToWire:   mapping.EcoViolationToWire,
		}),
		ResponsibleOrgs: NewEntity(tr, Codec[domain.ResponsibleOrg]{
			Resource: "responsible-orgs",
			FromWire: mapping.ResponsibleOrgFromWire,
			ToWire:   mapping.ResponsibleOrgToWire,
		}),
		Regions: NewEntity(tr, Codec[domain.Region]{
			Resource: "regions",
			FromWire: mapping.RegionFromWire,
			ToWire:   mapping.RegionToWire,
		}),
	}
}

// UpdateWasteBin applies a sparse bin patch.
func (a *API) UpdateWasteBin(ctx context.Context, id string, patch domain.WasteBinPatch) (domain.WasteBin, error) {
	return a.WasteBins.Patch(ctx, id, mapping.WasteBinPatchWire(patch))
}
