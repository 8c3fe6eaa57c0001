package fleet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"fleetdesk/internal/backend"
	"fleetdesk/internal/form"
	"fleetdesk/internal/listing"
	"fleetdesk/internal/render"
)

// ErrBadPayload is returned by Save when the body does not decode into the
// entity's record.
var ErrBadPayload = errors.New("malformed record")

type formOptions struct {
	Resource string
	Keys     []string
	OrgID    int64
	Observer form.Observer
}

// Entity is the typed half of a registration, built by Define.
type Entity struct {
	spec    backend.Spec
	columns []string

	newView func(src listing.Source, opts listing.Options) View
	load    func(ctx context.Context, store form.Store, fo formOptions, id string) (any, error)
	save    func(ctx context.Context, store form.Store, fo formOptions, body json.RawMessage) (any, error)
}

func (e Entity) Name() string       { return e.spec.Name }
func (e Entity) Spec() backend.Spec { return e.spec }
func (e Entity) Columns() []string  { return e.columns }

// Define ties a record type to its backend spec and its table columns.
func Define[T form.Record](spec backend.Spec, defaults func() T, columns []string, row func(T) []string) Entity {
	return Entity{
		spec:    spec,
		columns: columns,
		newView: func(src listing.Source, opts listing.Options) View {
			return &view[T]{
				Controller: listing.NewController[T](src, opts),
				title:      spec.Name,
				columns:    columns,
				row:        row,
			}
		},
		load: func(ctx context.Context, store form.Store, fo formOptions, id string) (any, error) {
			f := form.New[T](store, typedOptions(fo, defaults))
			err := f.Load(ctx, id)
			return f.Snapshot(), err
		},
		save: func(ctx context.Context, store form.Store, fo formOptions, body json.RawMessage) (any, error) {
			rec := defaults()
			if err := json.Unmarshal(body, &rec); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
			}
			f := form.New[T](store, typedOptions(fo, defaults))
			if err := f.Set(rec); err != nil {
				return nil, err
			}
			err := f.Save(ctx)
			return f.Snapshot(), err
		},
	}
}

func typedOptions[T form.Record](fo formOptions, defaults func() T) form.Options[T] {
	return form.Options[T]{
		Resource: fo.Resource,
		Keys:     fo.Keys,
		OrgID:    fo.OrgID,
		Defaults: defaults,
		Observer: fo.Observer,
	}
}

type view[T any] struct {
	*listing.Controller[T]
	title   string
	columns []string
	row     func(T) []string
}

func (v *view[T]) WaitIdle(ctx context.Context) (listing.Frame, error) {
	s, err := v.Controller.WaitIdle(ctx)
	return listing.Frame{Summary: s.Summary(), Rows: s.Rows}, err
}

func (v *view[T]) Table() render.Table {
	s := v.Snapshot()
	rows := make([][]string, 0, len(s.Rows))
	for _, r := range s.Rows {
		rows = append(rows, v.row(r))
	}
	return render.Table{Title: v.title, Columns: v.columns, Rows: rows, Summary: s.Summary()}
}
