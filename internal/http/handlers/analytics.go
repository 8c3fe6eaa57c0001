package handlers

import (
	"errors"
	"net/http"
	"strings"

	"fleetdesk/internal/domain/validation"
	"fleetdesk/internal/fleet"
	middlewarex "fleetdesk/internal/http/middleware"
)

// FuelAnalytics returns totals over the most recent fuel entries, optionally
// for one vehicle.
func FuelAnalytics(catalog *fleet.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID, _ := middlewarex.OrgID(r.Context())
		vehicle := strings.TrimSpace(r.URL.Query().Get("vehicleNumber"))
		if vehicle != "" {
			vehicle = validation.NormalizeVehicleNumber(vehicle)
		}

		sum, err := catalog.FuelSummary(r.Context(), orgID, vehicle)
		if err != nil {
			if errors.Is(err, fleet.ErrUnknownEntity) {
				writeError(w, http.StatusNotFound, err.Error())
				return
			}
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"vehicleNumber": vehicle,
			"window":        fleet.AnalyticsWindow,
			"summary":       sum,
		})
	}
}
