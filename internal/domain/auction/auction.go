package auction

import (
	"strconv"
	"strings"

	"fleetdesk/internal/domain/validation"
)

// Status of an auction.
type Status string

const (
	StatusOpen   Status = "Open"
	StatusClosed Status = "Closed"
)

// Auction is a freight load put up for transporters to bid on.
type Auction struct {
	ID           int64   `json:"id,omitempty"`
	OrgID        int64   `json:"orgId,omitempty"`
	Origin       string  `json:"loadingLocation"`
	Destination  string  `json:"unloadingLocation"`
	VehicleType  string  `json:"vehicleType"`
	NoOfVehicles int     `json:"noOfVehicles"`
	Material     string  `json:"material"`
	Weight       float64 `json:"weight"`
	StartDate    string  `json:"startDate"`
	EndDate      string  `json:"endDate"`
	Status       Status  `json:"status"`
}

// New returns the defaults of the "add auction" form.
func New() Auction {
	return Auction{NoOfVehicles: 1, Status: StatusOpen}
}

func (a Auction) RecordID() string {
	if a.ID == 0 {
		return ""
	}
	return strconv.FormatInt(a.ID, 10)
}

func (a Auction) Validate() validation.Errors {
	e := validation.Errors{}
	e.DistinctPlaces("loadingLocation", a.Origin, "unloadingLocation", a.Destination)
	e.Required("vehicleType", a.VehicleType)
	e.Required("material", a.Material)
	if a.NoOfVehicles <= 0 {
		e.Add("noOfVehicles", "must be at least 1")
	}
	e.Positive("weight", a.Weight)
	start, okStart := e.Date("startDate", a.StartDate)
	end, okEnd := e.Date("endDate", a.EndDate)
	if okStart && okEnd && !end.After(start) {
		e.Add("endDate", "must be after startDate")
	}
	e.OneOf("status", string(a.Status), string(StatusOpen), string(StatusClosed))
	return e
}

// Payload is the body of the create/update call.
func (a Auction) Payload(orgID int64) any {
	a.OrgID = orgID
	a.Origin = strings.TrimSpace(a.Origin)
	a.Destination = strings.TrimSpace(a.Destination)
	if a.Status == "" {
		a.Status = StatusOpen
	}
	return a
}
