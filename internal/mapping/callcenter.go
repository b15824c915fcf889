package mapping

import "smartcity-ops/internal/domain"

// CallRequestFromWire normalizes a call center ticket with its
// timeline.
func CallRequestFromWire(m map[string]any) domain.CallRequest {
	t := domain.CallRequest{
		ID:                str(m, "", "id"),
		CitizenName:       str(m, "", "citizen_name", "citizenName"),
		Phone:             str(m, "", "phone"),
		Transcript:        str(m, "", "transcript"),
		Category:          str(m, "", "category"),
		Status:            str(m, domain.TicketNew, "status"),
		Timestamp:         str(m, "", "timestamp"),
		Address:           str(m, "", "address"),
		MFY:               str(m, "", "mfy"),
		AISummary:         str(m, "", "ai_summary", "aiSummary"),
		Keywords:          strs(m, "keywords"),
		CitizenTrustScore: num(m, 0, "citizen_trust_score", "citizenTrustScore"),
		AssignedOrg:       str(m, "", "assigned_org", "assignedOrg"),
		Deadline:          str(m, "", "deadline"),
	}
	for _, item := range list(m, "timeline") {
		child, ok := item.(map[string]any)
		if !ok {
			continue
		}
		t.Timeline = append(t.Timeline, domain.TimelineStep{
			Step:      str(child, "", "step"),
			Timestamp: str(child, "", "timestamp"),
			Actor:     str(child, "", "actor"),
			Status:    str(child, "", "status"),
		})
	}
	return t
}

// CallRequestToWire builds a ticket payload. The timeline travels in
// full on every write so routing history survives the round trip.
func CallRequestToWire(t domain.CallRequest, _ Mode) map[string]any {
	timeline := make([]map[string]any, 0, len(t.Timeline))
	for _, step := range t.Timeline {
		timeline = append(timeline, map[string]any{
			"step":      step.Step,
			"timestamp": step.Timestamp,
			"actor":     step.Actor,
			"status":    step.Status,
		})
	}
	wire := map[string]any{
		"citizenName":       t.CitizenName,
		"phone":             t.Phone,
		"transcript":        t.Transcript,
		"category":          t.Category,
		"status":            t.Status,
		"timestamp":         isoOrNow(t.Timestamp),
		"mfy":               t.MFY,
		"keywords":          t.Keywords,
		"citizenTrustScore": t.CitizenTrustScore,
		"timeline":          timeline,
	}
	setIf(wire, "address", t.Address)
	setIf(wire, "aiSummary", t.AISummary)
	setIf(wire, "assignedOrg", t.AssignedOrg)
	setIf(wire, "deadline", t.Deadline)
	return wire
}

// OrganizationFromWire normalizes an organization record.
func OrganizationFromWire(m map[string]any) domain.Organization {
	o := domain.Organization{
		ID:             str(m, "", "id"),
		Name:           str(m, "", "name"),
		Type:           str(m, "", "type"),
		RegionID:       str(m, "", "region_id", "regionId"),
		DistrictID:     str(m, "", "district_id", "districtId"),
		Login:          str(m, "", "login"),
		Password:       str(m, "", "password"),
		EnabledModules: strs(m, "enabled_modules", "enabledModules"),
	}
	if center, ok := sub(m, "center"); ok {
		o.Center = CoordinateFromWire(center)
	}
	return o
}

// OrganizationToWire builds an organization payload. The password is
// only sent when set, so an edit without a password change never
// clears the stored credential.
func OrganizationToWire(o domain.Organization, _ Mode) map[string]any {
	wire := map[string]any{
		"name":            o.Name,
		"type":            o.Type,
		"login":           o.Login,
		"enabled_modules": o.EnabledModules,
		"center":          CoordinateToWire(o.Center),
	}
	setIf(wire, "region_id", o.RegionID)
	setIf(wire, "district_id", o.DistrictID)
	setIf(wire, "password", o.Password)
	return wire
}

// ResponsibleOrgFromWire normalizes a dispatch board organization.
func ResponsibleOrgFromWire(m map[string]any) domain.ResponsibleOrg {
	return domain.ResponsibleOrg{
		ID:             str(m, "", "id"),
		Name:           str(m, "", "name"),
		Type:           str(m, "", "type"),
		ActiveBrigades: int(num(m, 0, "active_brigades", "activeBrigades")),
		TotalBrigades:  int(num(m, 0, "total_brigades", "totalBrigades")),
		CurrentLoad:    int(num(m, 0, "current_load", "currentLoad")),
		ContactPhone:   str(m, "", "contact_phone", "contactPhone"),
	}
}

// ResponsibleOrgToWire builds a dispatch board organization payload.
func ResponsibleOrgToWire(o domain.ResponsibleOrg, _ Mode) map[string]any {
	return map[string]any{
		"name":           o.Name,
		"type":           o.Type,
		"activeBrigades": o.ActiveBrigades,
		"totalBrigades":  o.TotalBrigades,
		"currentLoad":    o.CurrentLoad,
		"contactPhone":   o.ContactPhone,
	}
}

// DistrictFromWire normalizes a district record.
func DistrictFromWire(m map[string]any) domain.District {
	d := domain.District{
		ID:   str(m, "", "id"),
		Name: str(m, "", "name"),
	}
	if center, ok := sub(m, "center"); ok {
		d.Center = CoordinateFromWire(center)
	}
	return d
}

// DistrictToWire builds a district payload.
func DistrictToWire(d domain.District, _ Mode) map[string]any {
	return map[string]any{
		"name":   d.Name,
		"center": CoordinateToWire(d.Center),
	}
}

// RegionFromWire normalizes a region with its districts.
func RegionFromWire(m map[string]any) domain.Region {
	r := domain.Region{
		ID:   str(m, "", "id"),
		Name: str(m, "", "name"),
	}
	for _, item := range list(m, "districts") {
		if child, ok := item.(map[string]any); ok {
			r.Districts = append(r.Districts, DistrictFromWire(child))
		}
	}
	return r
}

// RegionToWire builds a region payload with its districts nested.
func RegionToWire(r domain.Region, mode Mode) map[string]any {
	districts := make([]map[string]any, 0, len(r.Districts))
	for _, d := range r.Districts {
		districts = append(districts, DistrictToWire(d, mode))
	}
	return map[string]any{
		"name":      r.Name,
		"districts": districts,
	}
}
