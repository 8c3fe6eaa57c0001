package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"fleetdesk/internal/domain/validation"
	"fleetdesk/internal/fleet"
	"fleetdesk/internal/form"
	middlewarex "fleetdesk/internal/http/middleware"

	"github.com/go-chi/chi/v5"
)

const maxRecordBody = 1 << 20

// NewRecordID asks GetRecord for the defaults of a blank form.
const NewRecordID = "new"

// GetRecord loads one record through its master form.
func GetRecord(catalog *fleet.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID, _ := middlewarex.OrgID(r.Context())
		id := chi.URLParam(r, "id")
		if id == NewRecordID {
			id = ""
		}
		snap, err := catalog.Load(r.Context(), chi.URLParam(r, "entity"), orgID, id)
		if err != nil {
			writeRecordError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, snap)
	}
}

// SaveRecord validates and saves the record in the body. Invalid records
// come back as 422 with per-field errors and never reach the backend.
func SaveRecord(catalog *fleet.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID, _ := middlewarex.OrgID(r.Context())

		body, err := io.ReadAll(io.LimitReader(r.Body, maxRecordBody))
		if err != nil || !json.Valid(body) {
			writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}

		snap, err := catalog.Save(r.Context(), chi.URLParam(r, "entity"), orgID, body)
		if err != nil {
			writeRecordError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"status": "saved", "form": snap})
	}
}

func writeRecordError(w http.ResponseWriter, err error) {
	var fields validation.Errors
	switch {
	case errors.As(err, &fields):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": fields})
	case errors.Is(err, fleet.ErrUnknownEntity), errors.Is(err, form.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, fleet.ErrBadPayload):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, form.ErrBusy):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusBadGateway, err.Error())
	}
}
