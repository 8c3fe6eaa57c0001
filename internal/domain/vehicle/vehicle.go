package vehicle

import (
	"strconv"

	"fleetdesk/internal/domain/validation"
)

type Status string

const (
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
)

// Vehicle is a fleet vehicle master record.
type Vehicle struct {
	ID            int64   `json:"id,omitempty"`
	OrgID         int64   `json:"orgId,omitempty"`
	VehicleNumber string  `json:"vehicleNumber"`
	VehicleType   string  `json:"vehicleType"`
	Capacity      float64 `json:"capacity"`
	OwnerName     string  `json:"ownerName,omitempty"`
	DriverName    string  `json:"driverName,omitempty"`
	DriverPhone   string  `json:"driverPhone,omitempty"`
	Status        Status  `json:"status"`
}

func New() Vehicle {
	return Vehicle{Status: StatusActive}
}

func (v Vehicle) RecordID() string {
	if v.ID == 0 {
		return ""
	}
	return strconv.FormatInt(v.ID, 10)
}

func (v Vehicle) Validate() validation.Errors {
	e := validation.Errors{}
	e.VehicleNumber("vehicleNumber", v.VehicleNumber)
	e.Required("vehicleType", v.VehicleType)
	e.Positive("capacity", v.Capacity)
	e.OptionalPhone("driverPhone", v.DriverPhone)
	e.OneOf("status", string(v.Status), string(StatusActive), string(StatusInactive))
	return e
}

func (v Vehicle) Payload(orgID int64) any {
	v.OrgID = orgID
	v.VehicleNumber = validation.NormalizeVehicleNumber(v.VehicleNumber)
	v.DriverPhone = validation.NormalizePhone(v.DriverPhone)
	if v.Status == "" {
		v.Status = StatusActive
	}
	return v
}
