package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"fleetdesk/internal/fleet"
	middlewarex "fleetdesk/internal/http/middleware"
	"fleetdesk/internal/listing"
	"fleetdesk/internal/services/views"

	"github.com/go-chi/chi/v5"
)

// OpenView starts a list session for the entity in the path.
func OpenView(svc *views.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID, ok := middlewarex.OrgID(r.Context())
		if !ok {
			writeError(w, http.StatusBadRequest, "org not set")
			return
		}

		var req views.OpenRequest
		if r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid JSON")
				return
			}
		}

		sf, err := svc.Open(r.Context(), orgID, chi.URLParam(r, "entity"), req)
		if err != nil {
			writeViewError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, sf)
	}
}

// GetView returns the session's current frame.
func GetView(svc *views.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID, _ := middlewarex.OrgID(r.Context())
		frame, err := svc.Get(orgID, chi.URLParam(r, "id"))
		if err != nil {
			writeViewError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, frame)
	}
}

// PatchView applies filter panel changes and returns the resulting frame.
func PatchView(svc *views.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID, _ := middlewarex.OrgID(r.Context())

		var p views.Patch
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}

		frame, err := svc.Apply(r.Context(), orgID, chi.URLParam(r, "id"), p)
		if err != nil {
			writeViewError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, frame)
	}
}

// CloseView ends the session.
func CloseView(svc *views.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID, _ := middlewarex.OrgID(r.Context())
		if err := svc.Close(orgID, chi.URLParam(r, "id")); err != nil {
			writeViewError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeViewError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, views.ErrSessionNotFound), errors.Is(err, fleet.ErrUnknownEntity):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, listing.ErrPageOutOfRange), errors.Is(err, listing.ErrInvalidPageSize), errors.Is(err, views.ErrPageWithReset):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
