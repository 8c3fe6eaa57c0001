// Package fuel models fuel entries and the derived figures the fuel screens
// and the analytics panel show.
package fuel

import (
	"math"
	"strconv"

	"fleetdesk/internal/domain/validation"
)

type Type string

const (
	Diesel Type = "Diesel"
	Petrol Type = "Petrol"
	CNG    Type = "CNG"
)

// Entry is one refuelling of one vehicle. Liters and Amount are totals for
// the fill; the odometer readings bracket the distance it covered.
type Entry struct {
	ID            int64   `json:"id,omitempty"`
	OrgID         int64   `json:"orgId,omitempty"`
	VehicleNumber string  `json:"vehicleNumber"`
	FuelType      Type    `json:"fuelType"`
	Date          string  `json:"date"`
	Liters        float64 `json:"quantity"`
	Amount        float64 `json:"amount"`
	OdometerStart float64 `json:"startKm"`
	OdometerEnd   float64 `json:"endKm"`
	Station       string  `json:"station,omitempty"`

	// Derived, filled in by Payload.
	Mileage      float64 `json:"mileage,omitempty"`
	CostPerLiter float64 `json:"costPerLiter,omitempty"`
}

func New() Entry {
	return Entry{FuelType: Diesel}
}

func (e Entry) RecordID() string {
	if e.ID == 0 {
		return ""
	}
	return strconv.FormatInt(e.ID, 10)
}

// Distance in km; zero when the readings are missing or reversed.
func (e Entry) Distance() float64 {
	return math.Max(0, e.OdometerEnd-e.OdometerStart)
}

// Efficiency in km per litre.
func (e Entry) Efficiency() float64 {
	if e.Liters <= 0 {
		return 0
	}
	return round2(e.Distance() / e.Liters)
}

func (e Entry) PricePerLiter() float64 {
	if e.Liters <= 0 {
		return 0
	}
	return round2(e.Amount / e.Liters)
}

func (e Entry) Validate() validation.Errors {
	errs := validation.Errors{}
	errs.VehicleNumber("vehicleNumber", e.VehicleNumber)
	errs.Date("date", e.Date)
	errs.Positive("quantity", e.Liters)
	errs.Positive("amount", e.Amount)
	if e.OdometerEnd < e.OdometerStart {
		errs.Add("endKm", "must not be below startKm")
	}
	errs.OneOf("fuelType", string(e.FuelType), string(Diesel), string(Petrol), string(CNG))
	return errs
}

func (e Entry) Payload(orgID int64) any {
	e.OrgID = orgID
	e.VehicleNumber = validation.NormalizeVehicleNumber(e.VehicleNumber)
	e.Mileage = e.Efficiency()
	e.CostPerLiter = e.PricePerLiter()
	return e
}

// Summary aggregates a set of entries for the analytics panel. Averages are
// weighted by litres, not by entry.
type Summary struct {
	Entries         int     `json:"entries"`
	Liters          float64 `json:"liters"`
	Cost            float64 `json:"cost"`
	Distance        float64 `json:"distance"`
	AvgEfficiency   float64 `json:"avgEfficiency"`
	AvgCostPerLiter float64 `json:"avgCostPerLiter"`
}

func Summarize(entries []Entry) Summary {
	var s Summary
	for _, e := range entries {
		s.Entries++
		s.Liters += e.Liters
		s.Cost += e.Amount
		s.Distance += e.Distance()
	}
	if s.Liters > 0 {
		s.AvgEfficiency = round2(s.Distance / s.Liters)
		s.AvgCostPerLiter = round2(s.Cost / s.Liters)
	}
	s.Liters = round2(s.Liters)
	s.Cost = round2(s.Cost)
	s.Distance = round2(s.Distance)
	return s
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
