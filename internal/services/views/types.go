package views

import "fleetdesk/internal/listing"

// OpenRequest is the initial query of a new session. Zero values fall back
// to the service defaults.
type OpenRequest struct {
	Count   int               `json:"count,omitempty"`
	Search  string            `json:"search,omitempty"`
	Filters map[string]string `json:"filters,omitempty"`
}

// Patch carries the filter panel's changes. Nil fields are left alone; a
// filter set to "" or "all" is cleared.
type Patch struct {
	Search  *string           `json:"search,omitempty"`
	Filters map[string]string `json:"filters,omitempty"`
	Page    *int              `json:"page,omitempty"`
	Count   *int              `json:"count,omitempty"`
	Refresh bool              `json:"refresh,omitempty"`
}

func (p Patch) resetsPage() bool {
	return p.Search != nil || p.Count != nil || len(p.Filters) > 0
}

// SessionFrame is what Open returns.
type SessionFrame struct {
	SessionID string        `json:"sessionId"`
	Entity    string        `json:"entity"`
	Frame     listing.Frame `json:"frame"`
}
