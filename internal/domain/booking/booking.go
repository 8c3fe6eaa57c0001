package booking

import (
	"strconv"
	"strings"

	"fleetdesk/internal/domain/validation"
)

type Status string

const (
	StatusPending   Status = "Pending"
	StatusConfirmed Status = "Confirmed"
	StatusCancelled Status = "Cancelled"
)

// Request is a customer's booking request for a vehicle.
type Request struct {
	ID           int64   `json:"id,omitempty"`
	OrgID        int64   `json:"orgId,omitempty"`
	CustomerName string  `json:"customerName"`
	Phone        string  `json:"phoneNumber"`
	Origin       string  `json:"origin"`
	Destination  string  `json:"destination"`
	PickupDate   string  `json:"pickupDate"`
	VehicleType  string  `json:"vehicleType"`
	Material     string  `json:"material,omitempty"`
	Weight       float64 `json:"weight,omitempty"`
	Remarks      string  `json:"remarks,omitempty"`
	Status       Status  `json:"status"`
}

func New() Request {
	return Request{Status: StatusPending}
}

func (r Request) RecordID() string {
	if r.ID == 0 {
		return ""
	}
	return strconv.FormatInt(r.ID, 10)
}

func (r Request) Validate() validation.Errors {
	e := validation.Errors{}
	e.Required("customerName", r.CustomerName)
	e.Phone("phoneNumber", r.Phone)
	e.DistinctPlaces("origin", r.Origin, "destination", r.Destination)
	e.Date("pickupDate", r.PickupDate)
	e.Required("vehicleType", r.VehicleType)
	if r.Weight < 0 {
		e.Add("weight", "must not be negative")
	}
	e.OneOf("status", string(r.Status), string(StatusPending), string(StatusConfirmed), string(StatusCancelled))
	return e
}

func (r Request) Payload(orgID int64) any {
	r.OrgID = orgID
	r.CustomerName = strings.TrimSpace(r.CustomerName)
	r.Phone = validation.NormalizePhone(r.Phone)
	if r.Status == "" {
		r.Status = StatusPending
	}
	return r
}
