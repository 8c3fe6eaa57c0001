package form

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"fleetdesk/internal/backend"
	"fleetdesk/internal/domain/validation"
	"fleetdesk/internal/domain/vehicle"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var keys = []string{"vehicleVO", "vehiclesVO"}

type fakeStore struct {
	record   json.RawMessage
	getErr   error
	saveErr  error
	saveResp *backend.Envelope
	saved    []any
	gets     int
}

func (s *fakeStore) GetByID(_ context.Context, _ int64, _ string) (*backend.Envelope, error) {
	s.gets++
	if s.getErr != nil {
		return nil, s.getErr
	}
	return &backend.Envelope{ParamObjectsMap: map[string]json.RawMessage{"vehiclesVO": s.record}}, nil
}

func (s *fakeStore) CreateOrUpdate(_ context.Context, payload any) (*backend.Envelope, error) {
	s.saved = append(s.saved, payload)
	if s.saveErr != nil {
		return nil, s.saveErr
	}
	if s.saveResp != nil {
		return s.saveResp, nil
	}
	return &backend.Envelope{}, nil
}

func newForm(store Store) *Form[vehicle.Vehicle] {
	return New[vehicle.Vehicle](store, Options[vehicle.Vehicle]{
		Resource: "vehicles",
		Keys:     keys,
		OrgID:    11,
		Defaults: vehicle.New,
	})
}

func validVehicle() vehicle.Vehicle {
	v := vehicle.New()
	v.VehicleNumber = "MH12AB1234"
	v.VehicleType = "Trailer"
	v.Capacity = 20
	return v
}

func TestNewRecordStartsPopulated(t *testing.T) {
	store := &fakeStore{}
	f := newForm(store)
	assert.Equal(t, StateNew, f.State())

	require.NoError(t, f.Load(context.Background(), ""))
	assert.Equal(t, StatePopulated, f.State())
	assert.Equal(t, vehicle.StatusActive, f.Snapshot().Record.Status)
	assert.Zero(t, store.gets)
}

func TestLoadByID(t *testing.T) {
	store := &fakeStore{record: json.RawMessage(`{"data":[{"id":4,"vehicleNumber":"KA01F9999","status":"Inactive"}]}`)}
	f := newForm(store)

	require.NoError(t, f.Load(context.Background(), "4"))
	s := f.Snapshot()
	assert.Equal(t, StatePopulated, s.State)
	assert.Equal(t, int64(4), s.Record.ID)
	assert.Equal(t, "KA01F9999", s.Record.VehicleNumber)
}

func TestLoadFailures(t *testing.T) {
	f := newForm(&fakeStore{getErr: errors.New("offline")})
	err := f.Load(context.Background(), "4")
	require.Error(t, err)
	assert.Equal(t, StateLoadFailed, f.State())
	assert.Equal(t, "offline", f.Snapshot().Error)

	f = newForm(&fakeStore{record: json.RawMessage(`{"data":[]}`)})
	err = f.Load(context.Background(), "4")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveInvalidMakesNoCall(t *testing.T) {
	store := &fakeStore{}
	f := newForm(store)
	require.NoError(t, f.Load(context.Background(), ""))

	err := f.Save(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, validation.ErrInvalid)

	var fields validation.Errors
	require.True(t, errors.As(err, &fields))
	assert.Contains(t, fields, "vehicleNumber")
	assert.Empty(t, store.saved)
	assert.Equal(t, StatePopulated, f.State())
	assert.Contains(t, f.Snapshot().Errors, "vehicleType")
}

func TestSaveSubmitsPayload(t *testing.T) {
	store := &fakeStore{saveResp: &backend.Envelope{
		ParamObjectsMap: map[string]json.RawMessage{
			"vehicleVO": json.RawMessage(`{"id":99,"vehicleNumber":"MH12AB1234","vehicleType":"Trailer","capacity":20,"status":"Active"}`),
			"message":   json.RawMessage(`"Vehicle created"`),
		},
	}}
	f := newForm(store)
	v := validVehicle()
	v.VehicleNumber = "mh12ab1234"
	require.NoError(t, f.Set(v))

	require.NoError(t, f.Save(context.Background()))
	require.Len(t, store.saved, 1)
	payload := store.saved[0].(vehicle.Vehicle)
	assert.Equal(t, int64(11), payload.OrgID)
	assert.Equal(t, "MH12AB1234", payload.VehicleNumber)
	assert.Zero(t, payload.ID)

	s := f.Snapshot()
	assert.Equal(t, StateSaved, s.State)
	assert.Equal(t, int64(99), s.Record.ID)
	assert.Equal(t, "Vehicle created", s.Message)
}

func TestSaveFailureStays(t *testing.T) {
	store := &fakeStore{saveErr: errors.New("502")}
	f := newForm(store)
	require.NoError(t, f.Set(validVehicle()))

	err := f.Save(context.Background())
	require.Error(t, err)
	s := f.Snapshot()
	assert.Equal(t, StateSaveFailed, s.State)
	assert.Equal(t, "502", s.Error)
	assert.Equal(t, "MH12AB1234", s.Record.VehicleNumber, "edits survive a failed save")
}

func TestValidateAndClear(t *testing.T) {
	f := newForm(&fakeStore{})
	v := validVehicle()
	v.Capacity = 0
	require.NoError(t, f.Set(v))

	errs := f.Validate()
	assert.Contains(t, errs, "capacity")
	assert.Equal(t, StatePopulated, f.State())

	f.Clear()
	s := f.Snapshot()
	assert.Empty(t, s.Errors)
	assert.Equal(t, "", s.Record.VehicleNumber)
	assert.Equal(t, StatePopulated, s.State)
}

func TestMirroredLoadIsFlagged(t *testing.T) {
	store := &mirroredStore{}
	f := newForm(store)
	require.NoError(t, f.Load(context.Background(), "1"))
	assert.True(t, f.Snapshot().Mirrored)
}

type mirroredStore struct{ fakeStore }

func (m *mirroredStore) GetByID(context.Context, int64, string) (*backend.Envelope, error) {
	return &backend.Envelope{
		StatusFlag:      backend.FlagMirrored,
		ParamObjectsMap: map[string]json.RawMessage{"vehicleVO": json.RawMessage(`{"id":1}`)},
	}, nil
}
