package httpx

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"fleetdesk/internal/backend"
	"fleetdesk/internal/config"
	"fleetdesk/internal/fleet"
	"fleetdesk/internal/metrics"
	"fleetdesk/internal/services/views"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const apiToken = "s3cret"

type testEnv struct {
	api   *httptest.Server
	saves atomic.Int32
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{}

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case backend.Vehicles.ListPath:
			_, _ = io.WriteString(w, `{"status":true,"paramObjectsMap":{"vehicleVO":{"data":[
				{"id":1,"vehicleNumber":"MH12AB1234","vehicleType":"Trailer","capacity":20,"status":"Active"}
			],"totalCount":1}}}`)
		case backend.Vehicles.SavePath:
			env.saves.Add(1)
			_, _ = io.WriteString(w, `{"status":true,"paramObjectsMap":{"vehicleVO":{"id":5,"vehicleNumber":"MH12AB1234"}}}`)
		case backend.Drivers.SavePath:
			env.saves.Add(1)
			w.WriteHeader(http.StatusInternalServerError)
		case backend.Fuel.ListPath:
			_, _ = io.WriteString(w, `{"paramObjectsMap":{"fuelVO":{"data":[
				{"id":1,"vehicleNumber":"MH12AB1234","quantity":20,"amount":2000,"startKm":0,"endKm":240}
			],"totalCount":1}}}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(upstream.Close)

	m := metrics.New()
	catalog := fleet.NewCatalog(fleet.Observers{List: m, Form: m})
	fleet.RegisterAll(catalog, backend.NewHTTPClient(upstream.URL, "", 5), nil)
	svc := views.NewService(catalog, m, views.Config{DefaultCount: 20, Debounce: 10 * time.Millisecond, Timeout: time.Second})
	t.Cleanup(svc.CloseAll)

	cfg := config.Cfg{App: config.AppCfg{Env: "test"}, Sec: config.SecurityCfg{APIToken: apiToken}}
	env.api = httptest.NewServer(NewRouter(RouterDependencies{Config: cfg, Catalog: catalog, Views: svc, Metrics: m}))
	t.Cleanup(env.api.Close)
	return env
}

func (e *testEnv) do(t *testing.T, method, path, body string, headers map[string]string) (*http.Response, map[string]any) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, e.api.URL+path, rd)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+apiToken)
	req.Header.Set("X-Org-ID", "7")
	for k, v := range headers {
		if v == "" {
			req.Header.Del(k)
		} else {
			req.Header.Set(k, v)
		}
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(b) > 0 && b[0] == '{' {
		require.NoError(t, json.Unmarshal(b, &out))
	}
	return resp, out
}

func TestHealthIsPublic(t *testing.T) {
	env := newTestEnv(t)
	resp, body := env.do(t, http.MethodGet, "/health", "", map[string]string{"Authorization": "", "X-Org-ID": ""})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

func TestAPIGuards(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.do(t, http.MethodGet, "/api/v1/entities", "", map[string]string{"Authorization": ""})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = env.do(t, http.MethodGet, "/api/v1/entities", "", map[string]string{"Authorization": "Bearer wrong"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = env.do(t, http.MethodGet, "/api/v1/entities", "", map[string]string{"X-Org-ID": ""})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = env.do(t, http.MethodGet, "/api/v1/entities", "", map[string]string{"X-Org-ID": "abc"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body := env.do(t, http.MethodGet, "/api/v1/entities", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["entities"], 7)
}

func TestViewSessionLifecycle(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodPost, "/api/v1/views/vehicles", `{"filters":{"status":"Active"}}`, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id, _ := body["sessionId"].(string)
	require.NotEmpty(t, id)
	frame := body["frame"].(map[string]any)
	assert.Equal(t, float64(1), frame["totalCount"])
	assert.Equal(t, false, frame["loading"])
	assert.Len(t, frame["rows"], 1)

	resp, body = env.do(t, http.MethodPatch, "/api/v1/views/sessions/"+id, `{"page":9}`, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["error"], "page out of range")

	resp, body = env.do(t, http.MethodPatch, "/api/v1/views/sessions/"+id, `{"page":1,"filters":{"status":"Inactive"}}`, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["error"], "page cannot be combined")

	resp, body = env.do(t, http.MethodPatch, "/api/v1/views/sessions/"+id, `{"search":"mh","refresh":true}`, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "mh", body["search"])

	resp, _ = env.do(t, http.MethodGet, "/api/v1/views/sessions/"+id, "", map[string]string{"X-Org-ID": "8"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = env.do(t, http.MethodDelete, "/api/v1/views/sessions/"+id, "", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = env.do(t, http.MethodGet, "/api/v1/views/sessions/"+id, "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestOpenUnknownEntity(t *testing.T) {
	env := newTestEnv(t)
	resp, _ := env.do(t, http.MethodPost, "/api/v1/views/trucks", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSaveRecord(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodPut, "/api/v1/records/vehicles", `{"vehicleNumber":"12","capacity":0}`, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	errs := body["errors"].(map[string]any)
	assert.Contains(t, errs, "vehicleNumber")
	assert.Contains(t, errs, "capacity")
	assert.Zero(t, env.saves.Load())

	resp, _ = env.do(t, http.MethodPut, "/api/v1/records/vehicles", `{nope`, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = env.do(t, http.MethodPut, "/api/v1/records/vehicles",
		`{"vehicleNumber":"MH12AB1234","vehicleType":"Trailer","capacity":20}`, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "saved", body["status"])
	form := body["form"].(map[string]any)
	assert.Equal(t, "saved", form["state"])
	assert.Equal(t, float64(5), form["record"].(map[string]any)["id"])

	resp, body = env.do(t, http.MethodPut, "/api/v1/records/drivers",
		`{"name":"Ravi","phoneNumber":"9876543210","licenseNo":"MH1420110062821"}`, nil)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.NotEmpty(t, body["error"])
}

func TestGetRecord(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodGet, "/api/v1/records/vehicles/new", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "populated", body["state"])
	assert.Equal(t, "Active", body["record"].(map[string]any)["status"])

	resp, _ = env.do(t, http.MethodGet, "/api/v1/records/trucks/1", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = env.do(t, http.MethodGet, "/api/v1/records/vehicles/1", "", nil)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode, "upstream 404 is a failed read")
}

func TestFuelAnalytics(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodGet, "/api/v1/analytics/fuel?vehicleNumber=mh12ab1234", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "MH12AB1234", body["vehicleNumber"])
	sum := body["summary"].(map[string]any)
	assert.Equal(t, float64(12), sum["avgEfficiency"])
	assert.Equal(t, float64(100), sum["avgCostPerLiter"])
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodGet, "/api/v1/entities", "", nil)

	resp, err := http.Get(env.api.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(b), `route="/api/v1/entities"`)
}
