package vehicletype

import (
	"strconv"
	"strings"

	"fleetdesk/internal/domain/validation"
)

type Status string

const (
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
)

// VehicleType is a body/capacity class such as "32ft MXL" or "20ft SXL".
type VehicleType struct {
	ID       int64   `json:"id,omitempty"`
	OrgID    int64   `json:"orgId,omitempty"`
	Name     string  `json:"vehicleType"`
	Capacity float64 `json:"capacity"`
	Axles    int     `json:"axles,omitempty"`
	Status   Status  `json:"status"`
}

func New() VehicleType {
	return VehicleType{Status: StatusActive}
}

func (v VehicleType) RecordID() string {
	if v.ID == 0 {
		return ""
	}
	return strconv.FormatInt(v.ID, 10)
}

func (v VehicleType) Validate() validation.Errors {
	e := validation.Errors{}
	e.Required("vehicleType", v.Name)
	e.Positive("capacity", v.Capacity)
	if v.Axles < 0 {
		e.Add("axles", "must not be negative")
	}
	e.OneOf("status", string(v.Status), string(StatusActive), string(StatusInactive))
	return e
}

func (v VehicleType) Payload(orgID int64) any {
	v.OrgID = orgID
	v.Name = strings.TrimSpace(v.Name)
	return v
}
