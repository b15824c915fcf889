package domain

import "errors"

// Organization is an access-control entity owning field assets.
type Organization struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Type           string     `json:"type"`
	RegionID       string     `json:"regionId"`
	DistrictID     string     `json:"districtId"`
	Login          string     `json:"login"`
	Password       string     `json:"password,omitempty"`
	EnabledModules []string   `json:"enabledModules"`
	Center         Coordinate `json:"center"`
}

// Validate checks organization invariants before a blocking save.
func (o Organization) Validate() error {
	if o.Name == "" {
		return errors.New("organization: empty name")
	}
	if o.Login == "" {
		return errors.New("organization: empty login")
	}
	return nil
}

// District is an administrative district.
type District struct {
	ID     string     `json:"id"`
	Name   string     `json:"name"`
	Center Coordinate `json:"center"`
}

// Region is an administrative region with its districts.
type Region struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Districts []District `json:"districts"`
}
