package fleet

import (
	"strconv"

	"fleetdesk/internal/backend"
	"fleetdesk/internal/domain/auction"
	"fleetdesk/internal/domain/booking"
	"fleetdesk/internal/domain/chargetype"
	"fleetdesk/internal/domain/driver"
	"fleetdesk/internal/domain/fuel"
	"fleetdesk/internal/domain/vehicle"
	"fleetdesk/internal/domain/vehicletype"
	"fleetdesk/internal/mirror"
	"fleetdesk/internal/store/repositories"
)

var (
	Auctions = Define(backend.Auctions, auction.New,
		[]string{"ID", "From", "To", "Vehicle type", "Vehicles", "Start", "End", "Status"},
		func(a auction.Auction) []string {
			return []string{id(a.ID), a.Origin, a.Destination, a.VehicleType, strconv.Itoa(a.NoOfVehicles), a.StartDate, a.EndDate, string(a.Status)}
		})

	Vehicles = Define(backend.Vehicles, vehicle.New,
		[]string{"ID", "Number", "Type", "Capacity", "Driver", "Status"},
		func(v vehicle.Vehicle) []string {
			return []string{id(v.ID), v.VehicleNumber, v.VehicleType, num(v.Capacity), v.DriverName, string(v.Status)}
		})

	Drivers = Define(backend.Drivers, driver.New,
		[]string{"ID", "Name", "Phone", "Licence", "Status"},
		func(d driver.Driver) []string {
			return []string{id(d.ID), d.Name, d.Phone, d.LicenseNo, string(d.Status)}
		})

	Fuel = Define(backend.Fuel, fuel.New,
		[]string{"ID", "Vehicle", "Date", "Fuel", "Litres", "Amount", "Km", "Km/l"},
		func(e fuel.Entry) []string {
			return []string{id(e.ID), e.VehicleNumber, e.Date, string(e.FuelType), num(e.Liters), num(e.Amount), num(e.Distance()), num(e.Efficiency())}
		})

	ChargeTypes = Define(backend.ChargeTypes, chargetype.New,
		[]string{"ID", "Name", "Code", "Category", "Status"},
		func(c chargetype.ChargeType) []string {
			return []string{id(c.ID), c.Name, c.Code, c.Category, string(c.Status)}
		})

	VehicleTypes = Define(backend.VehicleTypes, vehicletype.New,
		[]string{"ID", "Name", "Capacity", "Axles", "Status"},
		func(v vehicletype.VehicleType) []string {
			return []string{id(v.ID), v.Name, num(v.Capacity), strconv.Itoa(v.Axles), string(v.Status)}
		})

	Bookings = Define(backend.Bookings, booking.New,
		[]string{"ID", "Customer", "Phone", "From", "To", "Pickup", "Status"},
		func(r booking.Request) []string {
			return []string{id(r.ID), r.CustomerName, r.Phone, r.Origin, r.Destination, r.PickupDate, string(r.Status)}
		})
)

// All lists every entity the dashboard knows about.
func All() []Entity {
	return []Entity{Auctions, Vehicles, Drivers, Fuel, ChargeTypes, VehicleTypes, Bookings}
}

// RegisterAll registers every entity against client. When repo is non-nil
// the fuel resource keeps an offline mirror in it.
func RegisterAll(c *Catalog, client *backend.HTTPClient, repo repositories.MirrorRepository) {
	for _, e := range All() {
		res := backend.NewResource(client, e.Spec())
		if e.Name() == backend.Fuel.Name && repo != nil {
			c.Register(e, mirror.Wrap(res, repo), true)
			continue
		}
		c.Register(e, res, false)
	}
}

func id(v int64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatInt(v, 10)
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
