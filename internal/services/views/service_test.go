package views

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"fleetdesk/internal/backend"
	"fleetdesk/internal/domain/vehicle"
	"fleetdesk/internal/fleet"
	"fleetdesk/internal/listing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// vehicles serves `total` vehicles, paged like the backend.
type vehicles struct {
	total int

	mu     sync.Mutex
	params []backend.ListParams
}

func (v *vehicles) Spec() backend.Spec { return backend.Vehicles }

func (v *vehicles) List(_ context.Context, p backend.ListParams) (*backend.Envelope, error) {
	v.mu.Lock()
	v.params = append(v.params, p)
	v.mu.Unlock()

	var rows []vehicle.Vehicle
	for id := (p.Page-1)*p.Count + 1; id <= min(p.Page*p.Count, v.total); id++ {
		rows = append(rows, vehicle.Vehicle{ID: int64(id), VehicleNumber: fmt.Sprintf("MH12AB%04d", id)})
	}
	raw, err := json.Marshal(map[string]any{"data": rows, "totalCount": v.total})
	if err != nil {
		return nil, err
	}
	return &backend.Envelope{ParamObjectsMap: map[string]json.RawMessage{"vehicleVO": raw}}, nil
}

func (v *vehicles) GetByID(context.Context, int64, string) (*backend.Envelope, error) {
	return nil, errors.New("not used")
}

func (v *vehicles) CreateOrUpdate(context.Context, any) (*backend.Envelope, error) {
	return nil, errors.New("not used")
}

func (v *vehicles) last() backend.ListParams {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.params[len(v.params)-1]
}

type gauge struct {
	mu sync.Mutex
	n  int
}

func (g *gauge) SetActiveSessions(n int) {
	g.mu.Lock()
	g.n = n
	g.mu.Unlock()
}

func (g *gauge) value() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.n
}

func newService(t *testing.T, total int) (*Service, *vehicles, *gauge) {
	t.Helper()
	src := &vehicles{total: total}
	cat := fleet.NewCatalog(fleet.Observers{})
	cat.Register(fleet.Vehicles, src, false)
	g := &gauge{}
	svc := NewService(cat, g, Config{DefaultCount: 20, Debounce: 20 * time.Millisecond, Timeout: time.Second, Settle: 2 * time.Second})
	t.Cleanup(svc.CloseAll)
	return svc, src, g
}

func rowsOf(t *testing.T, f listing.Frame) []vehicle.Vehicle {
	t.Helper()
	rows, ok := f.Rows.([]vehicle.Vehicle)
	require.True(t, ok, "rows are %T", f.Rows)
	return rows
}

func TestOpenReturnsFirstFrame(t *testing.T) {
	svc, src, g := newService(t, 45)

	sf, err := svc.Open(context.Background(), 7, "vehicles", OpenRequest{Filters: map[string]string{"status": "Active"}})
	require.NoError(t, err)
	assert.NotEmpty(t, sf.SessionID)
	assert.Equal(t, "vehicles", sf.Entity)
	assert.False(t, sf.Frame.Loading)
	assert.Equal(t, 45, sf.Frame.TotalCount)
	assert.Equal(t, 3, sf.Frame.TotalPages)
	assert.Len(t, rowsOf(t, sf.Frame), 20)
	assert.Equal(t, int64(7), src.last().OrgID)
	assert.Equal(t, "Active", src.last().Filters["status"])
	assert.Equal(t, 1, g.value())
}

func TestOpenUnknownEntity(t *testing.T) {
	svc, _, _ := newService(t, 1)

	_, err := svc.Open(context.Background(), 7, "trucks", OpenRequest{})
	assert.ErrorIs(t, err, fleet.ErrUnknownEntity)
	var se *ServiceError
	assert.True(t, errors.As(err, &se))
	assert.Equal(t, "open", se.Op)
}

func TestApplyPageAndSearch(t *testing.T) {
	svc, src, _ := newService(t, 45)
	ctx := context.Background()
	sf, err := svc.Open(ctx, 7, "vehicles", OpenRequest{})
	require.NoError(t, err)

	page := 3
	f, err := svc.Apply(ctx, 7, sf.SessionID, Patch{Page: &page})
	require.NoError(t, err)
	assert.Equal(t, 3, f.Page)
	assert.Equal(t, 41, f.ShowingFrom)
	assert.Equal(t, 45, f.ShowingTo)
	assert.Len(t, rowsOf(t, f), 5)

	search := "mh12"
	f, err = svc.Apply(ctx, 7, sf.SessionID, Patch{Search: &search})
	require.NoError(t, err)
	assert.Equal(t, 1, f.Page, "search returns to the first page")
	assert.False(t, f.Loading)
	assert.Equal(t, "mh12", src.last().Search)
}

func TestApplyRejectsOutOfRange(t *testing.T) {
	svc, _, _ := newService(t, 45)
	ctx := context.Background()
	sf, err := svc.Open(ctx, 7, "vehicles", OpenRequest{})
	require.NoError(t, err)

	page := 9
	f, err := svc.Apply(ctx, 7, sf.SessionID, Patch{Page: &page})
	assert.ErrorIs(t, err, listing.ErrPageOutOfRange)
	assert.Equal(t, 1, f.Page)

	count := 0
	_, err = svc.Apply(ctx, 7, sf.SessionID, Patch{Count: &count})
	assert.ErrorIs(t, err, listing.ErrInvalidPageSize)
}

func TestApplyRejectsPageWithReset(t *testing.T) {
	svc, src, _ := newService(t, 45)
	ctx := context.Background()
	sf, err := svc.Open(ctx, 7, "vehicles", OpenRequest{})
	require.NoError(t, err)
	src.mu.Lock()
	calls := len(src.params)
	src.mu.Unlock()

	page, count, search := 2, 10, "mh"
	for name, p := range map[string]Patch{
		"filters": {Page: &page, Filters: map[string]string{"status": "Active"}},
		"search":  {Page: &page, Search: &search},
		"count":   {Page: &page, Count: &count},
	} {
		f, err := svc.Apply(ctx, 7, sf.SessionID, p)
		assert.ErrorIs(t, err, ErrPageWithReset, name)
		assert.Equal(t, 1, f.Page, name)
		assert.Empty(t, f.Filters["status"], name)
	}
	src.mu.Lock()
	assert.Len(t, src.params, calls, "rejected patches fetch nothing")
	src.mu.Unlock()
}

func TestSessionsAreScopedToOrg(t *testing.T) {
	svc, _, _ := newService(t, 5)
	sf, err := svc.Open(context.Background(), 7, "vehicles", OpenRequest{})
	require.NoError(t, err)

	_, err = svc.Get(8, sf.SessionID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, svc.Close(8, sf.SessionID), ErrSessionNotFound)

	f, err := svc.Get(7, sf.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 5, f.TotalCount)
}

func TestCloseRemovesSession(t *testing.T) {
	svc, _, g := newService(t, 5)
	sf, err := svc.Open(context.Background(), 7, "vehicles", OpenRequest{})
	require.NoError(t, err)

	require.NoError(t, svc.Close(7, sf.SessionID))
	assert.Zero(t, svc.Len())
	assert.Zero(t, g.value())
	_, err = svc.Get(7, sf.SessionID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestEvictIdleSessions(t *testing.T) {
	svc, _, g := newService(t, 5)
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	old, err := svc.Open(context.Background(), 7, "vehicles", OpenRequest{})
	require.NoError(t, err)
	now = now.Add(10 * time.Minute)
	fresh, err := svc.Open(context.Background(), 7, "vehicles", OpenRequest{})
	require.NoError(t, err)
	now = now.Add(10 * time.Minute)

	assert.Equal(t, 1, svc.Evict(15*time.Minute))
	assert.Equal(t, 1, g.value())
	_, err = svc.Get(7, old.SessionID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = svc.Get(7, fresh.SessionID)
	assert.NoError(t, err)
}
