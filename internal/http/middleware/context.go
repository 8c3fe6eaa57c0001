package middlewarex

import (
	"context"
	"net/http"
	"strconv"
	"strings"
)

type ctxKey string

const (
	ctxOrgID ctxKey = "org_id"

	HeaderOrgID = "X-Org-ID"
)

func WithOrgID(ctx context.Context, orgID int64) context.Context {
	return context.WithValue(ctx, ctxOrgID, orgID)
}

func OrgID(ctx context.Context) (int64, bool) {
	v, ok := ctx.Value(ctxOrgID).(int64)
	return v, ok
}

// OrgScope reads the organisation from X-Org-ID. Every backend call is made
// on behalf of exactly one org, so requests without it are rejected.
func OrgScope(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimSpace(r.Header.Get(HeaderOrgID))
		if raw == "" {
			http.Error(w, "missing "+HeaderOrgID, http.StatusBadRequest)
			return
		}
		orgID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || orgID <= 0 {
			http.Error(w, "invalid "+HeaderOrgID, http.StatusBadRequest)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithOrgID(r.Context(), orgID)))
	})
}
