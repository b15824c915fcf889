// Package store is the data access layer the dashboard reads and
// writes through. Reads degrade: without a token nothing touches the
// network and every kind reads as empty, and a failed fetch logs and
// reads as empty rather than erroring the caller. Writes split by
// policy: most kinds save silently and hand the caller back its own
// record on failure, while access-control records save blocking so the
// operator sees the rejection.
package store

import (
	"context"
	"fmt"
	"log"

	"smartcity-ops/internal/client"
	"smartcity-ops/internal/domain"
	"smartcity-ops/internal/mapping"
	"smartcity-ops/internal/observability/metrics"
	"smartcity-ops/internal/session"
)

// writePolicy selects what a failed save does.
type writePolicy int

const (
	// silent logs the failure and returns the caller's record
	// unchanged, so optimistic UI state survives a flaky backend.
	silent writePolicy = iota
	// blocking returns the failure to the caller.
	blocking
)

// Collection is the synchronized view of one entity kind.
type Collection[T any] struct {
	kind   string
	entity *client.Entity[T]
	sess   *session.Store
	logger *log.Logger
	policy writePolicy

	id       func(T) string
	ownerSet func(*T, string)
	validate func(T) error
}

// GetAll reads every record of the kind. Unauthenticated sessions read
// empty without a network round trip; failed fetches log and read
// empty. The transport already dropped the token if the backend
// rejected it, so the next call short-circuits.
func (c *Collection[T]) GetAll(ctx context.Context) []T {
	if c.sess.Token() == "" {
		metrics.IncSyncRead(c.kind, metrics.ResultSkipped)
		return nil
	}
	records, err := c.entity.List(ctx)
	if err != nil {
		c.logger.Printf("store: fetch %s: %v", c.kind, err)
		metrics.IncSyncRead(c.kind, metrics.ResultDegraded)
		return nil
	}
	metrics.IncSyncRead(c.kind, metrics.ResultSuccess)
	return records
}

// Save persists one record, creating or updating by whether the id
// looks backend-issued. Creates stamp the session's organization on
// records that lack an owner. Failure behavior follows the kind's
// write policy.
func (c *Collection[T]) Save(ctx context.Context, record T) (T, error) {
	if c.validate != nil {
		if err := c.validate(record); err != nil {
			metrics.IncSyncSave(c.kind, metrics.ResultError)
			return record, err
		}
	}

	var saved T
	var err error
	if id := c.id(record); domain.Persisted(id) {
		saved, err = c.entity.Update(ctx, id, record)
	} else {
		if c.ownerSet != nil {
			if org := c.sess.OrganizationID(); org != "" {
				c.ownerSet(&record, org)
			}
		}
		saved, err = c.entity.Create(ctx, record)
	}
	if err != nil {
		metrics.IncSyncSave(c.kind, metrics.ResultError)
		if c.policy == blocking {
			return record, fmt.Errorf("store: save %s: %w", c.kind, err)
		}
		c.logger.Printf("store: save %s: %v", c.kind, err)
		return record, nil
	}
	metrics.IncSyncSave(c.kind, metrics.ResultSuccess)
	return saved, nil
}

// SaveBatch persists records sequentially, continuing past failures.
// It returns the per-record outcomes and how many failed; a partial
// batch is a normal outcome, not an error.
func (c *Collection[T]) SaveBatch(ctx context.Context, records []T) ([]T, int) {
	out := make([]T, 0, len(records))
	failed := 0
	for _, record := range records {
		saved, err := c.Save(ctx, record)
		if err != nil {
			failed++
			metrics.IncBatchFailure(c.kind)
			out = append(out, record)
			continue
		}
		out = append(out, saved)
	}
	if failed > 0 {
		c.logger.Printf("store: batch %s: %d of %d failed", c.kind, failed, len(records))
	}
	return out, failed
}

// Delete removes one record. Failures are logged, never surfaced:
// the dashboard removes the row optimistically either way.
func (c *Collection[T]) Delete(ctx context.Context, id string) {
	if !domain.Persisted(id) {
		return
	}
	if err := c.entity.Delete(ctx, id); err != nil {
		c.logger.Printf("store: delete %s %s: %v", c.kind, id, err)
		metrics.IncSyncSave(c.kind, metrics.ResultError)
		return
	}
	metrics.IncSyncSave(c.kind, metrics.ResultSuccess)
}

// Store aggregates the synchronized collections for every entity kind.
type Store struct {
	api    *client.API
	sess   *session.Store
	logger *log.Logger

	WasteBins         *Collection[domain.WasteBin]
	Trucks            *Collection[domain.Truck]
	Organizations     *Collection[domain.Organization]
	MoistureSensors   *Collection[domain.MoistureSensor]
	AirSensors        *Collection[domain.AirSensor]
	SOSColumns        *Collection[domain.SOSColumn]
	Facilities        *Collection[domain.Facility]
	Boilers           *Collection[domain.Boiler]
	Rooms             *Collection[domain.Room]
	IoTDevices        *Collection[domain.IoTDevice]
	LightPoles        *Collection[domain.LightPole]
	UtilityNodes      *Collection[domain.UtilityNode]
	ConstructionSites *Collection[domain.ConstructionSite]
	Buses             *Collection[domain.Bus]
	CallRequests      *Collection[domain.CallRequest]
	EcoViolations     *Collection[domain.EcoViolation]
}

// New wires a store over the typed API clients.
func New(api *client.API, sess *session.Store, logger *log.Logger) *Store {
	s := &Store{api: api, sess: sess, logger: logger}

	s.WasteBins = newCollection(s, api.WasteBins, silent,
		func(b domain.WasteBin) string { return b.ID },
		func(b *domain.WasteBin, org string) {
			if b.OrganizationID == "" {
				b.OrganizationID = org
			}
		}, nil)
	s.Trucks = newCollection(s, api.Trucks, silent,
		func(t domain.Truck) string { return t.ID },
		func(t *domain.Truck, org string) {
			if t.OrganizationID == "" {
				t.OrganizationID = org
			}
		}, nil)
	s.Organizations = newCollection(s, api.Organizations, blocking,
		func(o domain.Organization) string { return o.ID },
		nil,
		domain.Organization.Validate)
	s.MoistureSensors = newCollection(s, api.MoistureSensors, silent,
		func(m domain.MoistureSensor) string { return m.ID }, nil, nil)
	s.AirSensors = newCollection(s, api.AirSensors, silent,
		func(a domain.AirSensor) string { return a.ID },
		func(a *domain.AirSensor, org string) {
			if a.OrganizationID == "" {
				a.OrganizationID = org
			}
		}, nil)
	s.SOSColumns = newCollection(s, api.SOSColumns, silent,
		func(c domain.SOSColumn) string { return c.ID },
		func(c *domain.SOSColumn, org string) {
			if c.OrganizationID == "" {
				c.OrganizationID = org
			}
		}, nil)
	s.Facilities = newCollection(s, api.Facilities, silent,
		func(f domain.Facility) string { return f.ID },
		func(f *domain.Facility, org string) {
			if f.OrganizationID == "" {
				f.OrganizationID = org
			}
		}, nil)
	s.Boilers = newCollection(s, api.Boilers, silent,
		func(b domain.Boiler) string { return b.ID }, nil, nil)
	s.Rooms = newCollection(s, api.Rooms, silent,
		func(r domain.Room) string { return r.ID }, nil, nil)
	s.IoTDevices = newCollection(s, api.IoTDevices, silent,
		func(d domain.IoTDevice) string { return d.ID },
		func(d *domain.IoTDevice, org string) {
			if d.OrganizationID == "" {
				d.OrganizationID = org
			}
		}, nil)
	s.LightPoles = newCollection(s, api.LightPoles, silent,
		func(p domain.LightPole) string { return p.ID },
		func(p *domain.LightPole, org string) {
			if p.OrganizationID == "" {
				p.OrganizationID = org
			}
		}, nil)
	s.UtilityNodes = newCollection(s, api.UtilityNodes, silent,
		func(n domain.UtilityNode) string { return n.ID }, nil, nil)
	s.ConstructionSites = newCollection(s, api.ConstructionSites, silent,
		func(c domain.ConstructionSite) string { return c.ID },
		func(c *domain.ConstructionSite, org string) {
			if c.OrganizationID == "" {
				c.OrganizationID = org
			}
		}, nil)
	s.Buses = newCollection(s, api.Buses, silent,
		func(b domain.Bus) string { return b.ID },
		func(b *domain.Bus, org string) {
			if b.OrganizationID == "" {
				b.OrganizationID = org
			}
		}, nil)
	s.CallRequests = newCollection(s, api.CallRequests, silent,
		func(c domain.CallRequest) string { return c.ID }, nil, nil)
	s.EcoViolations = newCollection(s, api.EcoViolations, silent,
		func(v domain.EcoViolation) string { return v.ID },
		func(v *domain.EcoViolation, org string) {
			if v.OrganizationID == "" {
				v.OrganizationID = org
			}
		}, nil)
	return s
}

func newCollection[T any](s *Store, entity *client.Entity[T], policy writePolicy,
	id func(T) string, ownerSet func(*T, string), validate func(T) error) *Collection[T] {
	return &Collection[T]{
		kind:     entity.Resource(),
		entity:   entity,
		sess:     s.sess,
		logger:   s.logger,
		policy:   policy,
		id:       id,
		ownerSet: ownerSet,
		validate: validate,
	}
}

// PatchWasteBin applies a sparse bin update. Failures follow the
// silent policy, handing back a locally patched copy of the record.
func (s *Store) PatchWasteBin(ctx context.Context, bin domain.WasteBin, patch domain.WasteBinPatch) domain.WasteBin {
	if !domain.Persisted(bin.ID) {
		s.logger.Printf("store: patch waste-bins: %q is not persisted", bin.ID)
		return applyBinPatch(bin, patch)
	}
	updated, err := s.api.UpdateWasteBin(ctx, bin.ID, patch)
	if err != nil {
		s.logger.Printf("store: patch waste-bins %s: %v", bin.ID, err)
		metrics.IncSyncSave("waste-bins", metrics.ResultError)
		return applyBinPatch(bin, patch)
	}
	metrics.IncSyncSave("waste-bins", metrics.ResultSuccess)
	return updated
}

func applyBinPatch(bin domain.WasteBin, patch domain.WasteBinPatch) domain.WasteBin {
	wire := mapping.WasteBinPatchWire(patch)
	merged := mapping.WasteBinToWire(bin, mapping.Update)
	for k, v := range wire {
		merged[k] = v
	}
	merged["id"] = bin.ID
	return mapping.WasteBinFromWire(merged)
}
