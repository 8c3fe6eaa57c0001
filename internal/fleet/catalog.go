// Package fleet binds each backend entity to its record type: list views,
// master forms and table columns, looked up by entity name.
package fleet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"fleetdesk/internal/backend"
	"fleetdesk/internal/form"
	"fleetdesk/internal/listing"
	"fleetdesk/internal/render"

	"github.com/rs/zerolog/log"
)

var ErrUnknownEntity = errors.New("unknown entity")

// Resource is a backend entity client, plain or mirrored.
type Resource interface {
	Spec() backend.Spec
	listing.Source
	form.Store
}

// View is a list controller with its row type erased.
type View interface {
	Start()
	Refresh()
	SetSearch(text string)
	SetFilter(key, value string)
	SetPage(n int) error
	SetCount(n int) error
	Close()
	Summary() listing.Summary
	Frame() listing.Frame
	WaitIdle(ctx context.Context) (listing.Frame, error)
	Table() render.Table
}

// Observers receive list and form outcomes; either may be nil.
type Observers struct {
	List listing.Observer
	Form form.Observer
}

// Info describes an entity for the catalogue endpoint.
type Info struct {
	Name       string   `json:"name"`
	Columns    []string `json:"columns"`
	Filters    []string `json:"filters"`
	ListKeys   []string `json:"listKeys"`
	RecordKeys []string `json:"recordKeys"`
	Mirrored   bool     `json:"mirrored"`
}

// Catalog holds the registered entities.
type Catalog struct {
	mu        sync.RWMutex
	entries   map[string]registered
	observers Observers
}

type registered struct {
	entity   Entity
	resource Resource
	mirrored bool
}

func NewCatalog(obs Observers) *Catalog {
	return &Catalog{entries: make(map[string]registered), observers: obs}
}

// Register binds entity to the resource that serves it.
func (c *Catalog) Register(e Entity, res Resource, mirrored bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[e.Name()] = registered{entity: e, resource: res, mirrored: mirrored}
	log.Info().
		Str("entity", e.Name()).
		Strs("filters", e.Spec().Filters).
		Bool("mirrored", mirrored).
		Msg("registered entity")
}

func (c *Catalog) lookup(name string) (registered, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.entries[name]
	if !ok {
		return registered{}, fmt.Errorf("%w: %q", ErrUnknownEntity, name)
	}
	return r, nil
}

// Names returns the registered entity names in sorted order.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.entries))
	for n := range c.entries {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (c *Catalog) Info() []Info {
	names := c.Names()
	out := make([]Info, 0, len(names))
	for _, n := range names {
		r, err := c.lookup(n)
		if err != nil {
			continue
		}
		out = append(out, Describe(r.entity, r.mirrored))
	}
	return out
}

// Describe is the catalogue entry of e.
func Describe(e Entity, mirrored bool) Info {
	return Info{
		Name:       e.Name(),
		Columns:    e.Columns(),
		Filters:    e.spec.Filters,
		ListKeys:   e.spec.ListKeys,
		RecordKeys: e.spec.RecordKeys,
		Mirrored:   mirrored,
	}
}

// Resource returns the client registered for name.
func (c *Catalog) Resource(name string) (Resource, error) {
	r, err := c.lookup(name)
	if err != nil {
		return nil, err
	}
	return r.resource, nil
}

// OpenView builds a list view for name. The caller starts and closes it.
func (c *Catalog) OpenView(name string, opts listing.Options) (View, error) {
	r, err := c.lookup(name)
	if err != nil {
		return nil, err
	}
	spec := r.resource.Spec()
	opts.Resource = spec.Name
	opts.Keys = spec.ListKeys
	if opts.Observer == nil {
		opts.Observer = c.observers.List
	}
	return r.entity.newView(r.resource, opts), nil
}

// Load reads one record through a master form and returns its snapshot.
// An empty id yields the entity defaults.
func (c *Catalog) Load(ctx context.Context, name string, orgID int64, id string) (any, error) {
	r, err := c.lookup(name)
	if err != nil {
		return nil, err
	}
	return r.entity.load(ctx, r.resource, c.formOptions(r, orgID), id)
}

// Save decodes body into the entity's record and saves it through a master
// form. Validation failures come back as validation.Errors.
func (c *Catalog) Save(ctx context.Context, name string, orgID int64, body json.RawMessage) (any, error) {
	r, err := c.lookup(name)
	if err != nil {
		return nil, err
	}
	return r.entity.save(ctx, r.resource, c.formOptions(r, orgID), body)
}

func (c *Catalog) formOptions(r registered, orgID int64) formOptions {
	spec := r.resource.Spec()
	return formOptions{Resource: spec.Name, Keys: spec.RecordKeys, OrgID: orgID, Observer: c.observers.Form}
}
