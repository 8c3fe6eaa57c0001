// Package form drives a master/detail record through
// New → Loading → Populated → Validating → Saving → Saved | SaveFailed.
package form

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"fleetdesk/internal/backend"
	"fleetdesk/internal/domain/validation"

	"github.com/rs/zerolog/log"
)

var (
	ErrBusy     = errors.New("form is busy")
	ErrNotFound = errors.New("record not found")
)

// Record is implemented by every master entity.
type Record interface {
	Validate() validation.Errors
	Payload(orgID int64) any
	RecordID() string
}

// Store is the resource client side of a form.
type Store interface {
	GetByID(ctx context.Context, orgID int64, id string) (*backend.Envelope, error)
	CreateOrUpdate(ctx context.Context, payload any) (*backend.Envelope, error)
}

type State string

const (
	StateNew        State = "new"
	StateLoading    State = "loading"
	StateLoadFailed State = "load_failed"
	StatePopulated  State = "populated"
	StateValidating State = "validating"
	StateSaving     State = "saving"
	StateSaved      State = "saved"
	StateSaveFailed State = "save_failed"
)

type Outcome string

const (
	OutcomeSaved   Outcome = "saved"
	OutcomeInvalid Outcome = "invalid"
	OutcomeFailed  Outcome = "failed"
)

type Observer interface {
	SaveCompleted(resource string, outcome Outcome, took time.Duration)
}

type Options[T Record] struct {
	Resource string
	Keys     []string
	OrgID    int64
	Defaults func() T
	Observer Observer
}

// Snapshot is what the view binds to.
type Snapshot[T Record] struct {
	State    State             `json:"state"`
	Record   T                 `json:"record"`
	Errors   validation.Errors `json:"errors,omitempty"`
	Error    string            `json:"error,omitempty"`
	Message  string            `json:"message,omitempty"`
	Mirrored bool              `json:"mirrored,omitempty"`
}

type Form[T Record] struct {
	store Store
	opts  Options[T]

	mu       sync.Mutex
	state    State
	record   T
	errs     validation.Errors
	err      error
	message  string
	mirrored bool
}

func New[T Record](store Store, opts Options[T]) *Form[T] {
	f := &Form[T]{store: store, opts: opts, state: StateNew}
	f.record = f.defaults()
	return f
}

func (f *Form[T]) defaults() T {
	if f.opts.Defaults != nil {
		return f.opts.Defaults()
	}
	var zero T
	return zero
}

// Load populates the form from the backend. An empty id starts a new record.
func (f *Form[T]) Load(ctx context.Context, id string) error {
	f.mu.Lock()
	if f.state == StateLoading || f.state == StateSaving {
		f.mu.Unlock()
		return ErrBusy
	}
	f.errs, f.err, f.message, f.mirrored = nil, nil, "", false
	if id == "" {
		f.record = f.defaults()
		f.state = StatePopulated
		f.mu.Unlock()
		return nil
	}
	f.state = StateLoading
	f.mu.Unlock()

	rec, mirrored, err := f.fetch(ctx, id)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.state = StateLoadFailed
		f.err = err
		log.Error().Err(err).Str("resource", f.opts.Resource).Str("id", id).Msg("form load failed")
		return err
	}
	f.record = rec
	f.mirrored = mirrored
	f.state = StatePopulated
	return nil
}

func (f *Form[T]) fetch(ctx context.Context, id string) (rec T, mirrored bool, err error) {
	env, err := f.store.GetByID(ctx, f.opts.OrgID, id)
	if err != nil {
		return rec, false, err
	}
	rec, found, err := backend.DecodeRecord[T](env, f.opts.Keys)
	if err != nil {
		return rec, false, err
	}
	if !found {
		return rec, false, fmt.Errorf("%w: %s %s", ErrNotFound, f.opts.Resource, id)
	}
	return rec, env.StatusFlag == backend.FlagMirrored, nil
}

// Set replaces the record with the user's edits.
func (f *Form[T]) Set(rec T) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == StateLoading || f.state == StateSaving {
		return ErrBusy
	}
	f.record = rec
	f.state = StatePopulated
	return nil
}

// Validate runs the entity's checks without touching the network.
func (f *Form[T]) Validate() validation.Errors {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = StateValidating
	f.errs = f.record.Validate()
	f.state = StatePopulated
	return f.errs
}

// Save validates and, only if the record is valid, submits it. A validation
// failure is returned as validation.Errors and makes no network call.
func (f *Form[T]) Save(ctx context.Context) error {
	start := time.Now()

	f.mu.Lock()
	if f.state == StateLoading || f.state == StateSaving {
		f.mu.Unlock()
		return ErrBusy
	}
	f.state = StateValidating
	f.err, f.message = nil, ""
	f.errs = f.record.Validate()
	if len(f.errs) > 0 {
		f.state = StatePopulated
		errs := f.errs
		f.mu.Unlock()
		f.observe(OutcomeInvalid, time.Since(start))
		return errs
	}
	f.state = StateSaving
	payload := f.record.Payload(f.opts.OrgID)
	f.mu.Unlock()

	env, err := f.store.CreateOrUpdate(ctx, payload)

	f.mu.Lock()
	if err != nil {
		f.state = StateSaveFailed
		f.err = err
		f.mu.Unlock()
		log.Error().Err(err).Str("resource", f.opts.Resource).Msg("form save failed")
		f.observe(OutcomeFailed, time.Since(start))
		return err
	}
	if rec, found, derr := backend.DecodeRecord[T](env, f.opts.Keys); derr == nil && found {
		f.record = rec
	}
	f.message = env.Message()
	f.state = StateSaved
	id := f.record.RecordID()
	f.mu.Unlock()

	log.Info().Str("resource", f.opts.Resource).Str("id", id).Int64("org_id", f.opts.OrgID).Msg("record saved")
	f.observe(OutcomeSaved, time.Since(start))
	return nil
}

// Clear drops edits and errors and starts over with defaults.
func (f *Form[T]) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record = f.defaults()
	f.errs, f.err, f.message, f.mirrored = nil, nil, "", false
	f.state = StatePopulated
}

func (f *Form[T]) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Form[T]) Snapshot() Snapshot[T] {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := Snapshot[T]{State: f.state, Record: f.record, Errors: f.errs, Message: f.message, Mirrored: f.mirrored}
	if f.err != nil {
		s.Error = f.err.Error()
	}
	return s
}

func (f *Form[T]) observe(o Outcome, took time.Duration) {
	if f.opts.Observer != nil {
		f.opts.Observer.SaveCompleted(f.opts.Resource, o, took)
	}
}
