package handlers

import (
	"net/http"

	"fleetdesk/internal/fleet"
)

// ListEntities serves the catalogue: names, columns, filters and keys.
func ListEntities(catalog *fleet.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"entities": catalog.Info()})
	}
}
