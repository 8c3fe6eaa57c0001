package backend

// Endpoints and envelope keys of the logistics backend. The first key of each
// list is the one current deployments use; the second is the older spelling
// some environments still return.
var (
	Auctions = Spec{
		Name:       "auctions",
		ListPath:   "/api/auction/getAllAuctionsByOrgId",
		RecordPath: "/api/auction/getAuctionById",
		SavePath:   "/api/auction/createUpdateAuction",
		ListKeys:   []string{"auctionVO", "auctionsVO"},
		RecordKeys: []string{"auctionVO", "auctionsVO"},
		Filters:    []string{"status", "vehicleType"},
	}
	Vehicles = Spec{
		Name:       "vehicles",
		ListPath:   "/api/master/getAllVehiclesByOrgId",
		RecordPath: "/api/master/getVehicleById",
		SavePath:   "/api/master/createUpdateVehicle",
		ListKeys:   []string{"vehicleVO", "vehiclesVO"},
		RecordKeys: []string{"vehicleVO", "vehiclesVO"},
		Filters:    []string{"status", "vehicleType"},
	}
	Drivers = Spec{
		Name:       "drivers",
		ListPath:   "/api/master/getAllDriversByOrgId",
		RecordPath: "/api/master/getDriverById",
		SavePath:   "/api/master/createUpdateDriver",
		ListKeys:   []string{"driverVO", "driversVO"},
		RecordKeys: []string{"driverVO", "driversVO"},
		Filters:    []string{"status"},
	}
	Fuel = Spec{
		Name:       "fuel",
		ListPath:   "/api/fuel/getAllFuelEntriesByOrgId",
		RecordPath: "/api/fuel/getFuelEntryById",
		SavePath:   "/api/fuel/createUpdateFuelEntry",
		ListKeys:   []string{"fuelVO", "fuelEntryVO"},
		RecordKeys: []string{"fuelVO", "fuelEntryVO"},
		Filters:    []string{"vehicleNumber", "fuelType"},
	}
	ChargeTypes = Spec{
		Name:       "chargeTypes",
		ListPath:   "/api/master/getAllChargeTypesByOrgId",
		RecordPath: "/api/master/getChargeTypeById",
		SavePath:   "/api/master/createUpdateChargeType",
		ListKeys:   []string{"chargeTypeVO", "chargeTypesVO"},
		RecordKeys: []string{"chargeTypeVO", "chargeTypesVO"},
		Filters:    []string{"status", "category"},
	}
	VehicleTypes = Spec{
		Name:       "vehicleTypes",
		ListPath:   "/api/master/getAllVehicleTypesByOrgId",
		RecordPath: "/api/master/getVehicleTypeById",
		SavePath:   "/api/master/createUpdateVehicleType",
		ListKeys:   []string{"vehicleTypeVO", "vehicleTypesVO"},
		RecordKeys: []string{"vehicleTypeVO", "vehicleTypesVO"},
		Filters:    []string{"status"},
	}
	Bookings = Spec{
		Name:       "bookings",
		ListPath:   "/api/booking/getAllBookingRequestsByOrgId",
		RecordPath: "/api/booking/getBookingRequestById",
		SavePath:   "/api/booking/createUpdateBookingRequest",
		ListKeys:   []string{"bookingRequestVO", "bookingVO"},
		RecordKeys: []string{"bookingRequestVO", "bookingVO"},
		Filters:    []string{"status", "vehicleType"},
	}
)
