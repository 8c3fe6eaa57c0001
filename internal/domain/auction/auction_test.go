package auction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func valid() Auction {
	a := New()
	a.Origin = "Pune"
	a.Destination = "Mumbai"
	a.VehicleType = "32ft MXL"
	a.Material = "Steel coils"
	a.Weight = 18.5
	a.StartDate = "2025-06-01"
	a.EndDate = "2025-06-03"
	return a
}

func TestValidate(t *testing.T) {
	assert.Empty(t, valid().Validate())

	a := valid()
	a.Destination = "pune"
	a.EndDate = "2025-05-01"
	a.NoOfVehicles = 0
	errs := a.Validate()
	assert.Contains(t, errs, "unloadingLocation")
	assert.Contains(t, errs, "endDate")
	assert.Contains(t, errs, "noOfVehicles")
}

func TestPayloadCarriesOrg(t *testing.T) {
	a := valid()
	a.Status = ""
	p := a.Payload(12).(Auction)
	assert.Equal(t, int64(12), p.OrgID)
	assert.Equal(t, StatusOpen, p.Status)
	assert.Equal(t, "", p.RecordID())
}
