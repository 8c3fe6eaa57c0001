package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPhone(t *testing.T) {
	for v, ok := range map[string]bool{
		"9876543210":    true,
		"98765-43210":   true,
		"98765 43210":   true,
		"987654321":     false,
		"+919876543210": false,
		"":              false,
	} {
		e := Errors{}
		e.Phone("phone", v)
		assert.Equal(t, ok, len(e) == 0, "phone %q", v)
	}
}

func TestVehicleNumber(t *testing.T) {
	for v, ok := range map[string]bool{
		"MH12AB1234":    true,
		"mh 12 ab 1234": true,
		"KA01F9999":     true,
		"DL1C1234":      true,
		"12AB1234":      false,
		"MH12AB123":     false,
		"MH12ABCD1234":  false,
	} {
		e := Errors{}
		e.VehicleNumber("vehicleNumber", v)
		assert.Equal(t, ok, len(e) == 0, "vehicle %q", v)
	}
}

func TestDistinctPlaces(t *testing.T) {
	e := Errors{}
	e.DistinctPlaces("origin", "Pune", "destination", " pune ")
	assert.Equal(t, "must differ from origin", e["destination"])

	e = Errors{}
	e.DistinctPlaces("origin", "", "destination", "Pune")
	assert.Equal(t, "is required", e["origin"])
	assert.NotContains(t, e, "destination")
}

func TestErrorsWrapSentinel(t *testing.T) {
	e := Errors{}
	assert.NoError(t, e.Err())

	e.Add("name", "is required")
	e.Add("name", "ignored second message")
	err := e.Err()
	assert.True(t, errors.Is(err, ErrInvalid))
	assert.Equal(t, "validation failed: name: is required", err.Error())
}

func TestDate(t *testing.T) {
	e := Errors{}
	d, ok := e.Date("startDate", "2025-03-14")
	assert.True(t, ok)
	assert.Equal(t, 14, d.Day())

	_, ok = e.Date("endDate", "14/03/2025")
	assert.False(t, ok)
	assert.Contains(t, e, "endDate")

	_, ok = ParseDate("2025-03-14T08:30:00Z")
	assert.True(t, ok)
}
