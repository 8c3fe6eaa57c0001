package backend

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Spec describes one backend entity: where it lives and which
// paramObjectsMap keys its envelopes may use.
type Spec struct {
	Name       string
	ListPath   string
	RecordPath string
	SavePath   string
	ListKeys   []string
	RecordKeys []string
	Filters    []string
}

// ListParams is what a list fetch sends to the backend.
type ListParams struct {
	Page    int
	Count   int
	Search  string
	OrgID   int64
	Filters map[string]string
}

// IsUnset reports whether a filter value is one of the "no filter" sentinels.
func IsUnset(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.EqualFold(v, "all")
}

// Values encodes the params as the backend's query string. Unset filters are
// left out.
func (p ListParams) Values() url.Values {
	q := url.Values{}
	q.Set("count", strconv.Itoa(p.Count))
	q.Set("page", strconv.Itoa(p.Page))
	q.Set("search", p.Search)
	q.Set("orgId", strconv.FormatInt(p.OrgID, 10))

	keys := make([]string, 0, len(p.Filters))
	for k := range p.Filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if v := p.Filters[k]; !IsUnset(v) {
			q.Set(k, v)
		}
	}
	return q
}

// Resource is the request/response mapping for one entity. It does not retry
// and does not cache.
type Resource struct {
	http *HTTPClient
	spec Spec
}

func NewResource(c *HTTPClient, spec Spec) *Resource {
	return &Resource{http: c, spec: spec}
}

func (r *Resource) Spec() Spec { return r.spec }

// List fetches one page.
func (r *Resource) List(ctx context.Context, p ListParams) (*Envelope, error) {
	resp, err := r.http.Get(ctx, r.spec.ListPath, p.Values())
	return r.envelope("list", resp, err)
}

// GetByID fetches one record.
func (r *Resource) GetByID(ctx context.Context, orgID int64, id string) (*Envelope, error) {
	q := url.Values{}
	q.Set("id", id)
	q.Set("orgId", strconv.FormatInt(orgID, 10))
	resp, err := r.http.Get(ctx, r.spec.RecordPath, q)
	return r.envelope("get", resp, err)
}

// CreateOrUpdate submits payload. The backend treats a payload carrying an id
// as an update and one without as a create.
func (r *Resource) CreateOrUpdate(ctx context.Context, payload any) (*Envelope, error) {
	resp, err := r.http.PutJSON(ctx, r.spec.SavePath, payload)
	return r.envelope("save", resp, err)
}

func (r *Resource) envelope(op string, resp *HTTPResponse, err error) (*Envelope, error) {
	if err != nil {
		return nil, &Error{Op: op, Resource: r.spec.Name, Err: err}
	}
	if !resp.IsSuccess() {
		return nil, &Error{
			Op:         op,
			Resource:   r.spec.Name,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%w: %s", ErrRejected, snippet(resp.Body)),
		}
	}

	var env Envelope
	if err := resp.Decode(&env); err != nil {
		return nil, &Error{Op: op, Resource: r.spec.Name, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode envelope: %w", err)}
	}
	if !env.OK() {
		msg := env.Message()
		if msg == "" {
			msg = "status=false"
		}
		return nil, &Error{Op: op, Resource: r.spec.Name, StatusCode: resp.StatusCode, Err: fmt.Errorf("%w: %s", ErrRejected, msg)}
	}
	return &env, nil
}

func snippet(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	if s == "" {
		return "empty body"
	}
	return s
}
