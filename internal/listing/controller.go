// Package listing implements the paginated, filtered, server-backed list
// controller shared by every list screen.
//
// A Controller owns page/count/search/filter state and turns every change
// into one backend fetch. Responses are applied only if they belong to the
// most recently issued fetch, so a slow early response can never overwrite a
// later one.
package listing

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"fleetdesk/internal/backend"

	"github.com/rs/zerolog/log"
)

var (
	ErrPageOutOfRange  = errors.New("page out of range")
	ErrInvalidPageSize = errors.New("page size must be positive")
)

const (
	DefaultCount    = 20
	DefaultDebounce = 300 * time.Millisecond
	DefaultTimeout  = 20 * time.Second
)

// Source is the backend side of a list: a resource client.
type Source interface {
	List(ctx context.Context, p backend.ListParams) (*backend.Envelope, error)
}

// Outcome classifies a completed fetch.
type Outcome string

const (
	OutcomeApplied Outcome = "applied"
	OutcomeFailed  Outcome = "failed"
	OutcomeStale   Outcome = "stale"
	OutcomeNoData  Outcome = "no_data"
)

// Observer is notified once per completed fetch.
type Observer interface {
	FetchCompleted(resource string, outcome Outcome, took time.Duration)
}

type Options struct {
	Resource string   // name used in logs and metrics
	Keys     []string // envelope keys, in lookup order
	OrgID    int64
	Count    int
	Debounce time.Duration
	Timeout  time.Duration
	Observer Observer

	// Initial search and filters, applied before the first fetch.
	Search  string
	Filters map[string]string
}

// Controller is safe for concurrent use.
type Controller[T any] struct {
	src  Source
	opts Options

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	state   State[T]
	token   uint64
	timer   *time.Timer
	changed chan struct{}
	closed  bool
}

func NewController[T any](src Source, opts Options) *Controller[T] {
	if opts.Count <= 0 {
		opts.Count = DefaultCount
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	filters := make(map[string]string, len(opts.Filters))
	for k, v := range opts.Filters {
		if !backend.IsUnset(v) {
			filters[k] = v
		}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller[T]{
		src:    src,
		opts:   opts,
		ctx:    ctx,
		cancel: cancel,
		state: State[T]{
			Query:      Query{Page: 1, Count: opts.Count, Search: opts.Search, Filters: filters},
			Rows:       []T{},
			TotalPages: 1,
		},
		changed: make(chan struct{}),
	}
}

// Start issues the first fetch.
func (c *Controller[T]) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.issueLocked()
}

// Refresh re-fetches the current query.
func (c *Controller[T]) Refresh() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.issueLocked()
}

// SetSearch updates the search text right away and fetches page 1 once the
// input has been quiet for the debounce window.
func (c *Controller[T]) SetSearch(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.state.Search = text
	c.state.Page = 1
	c.state.Loading = true

	// Any response still in flight was issued for the old text.
	c.token++
	scheduled := c.token
	c.stopTimerLocked()
	c.timer = time.AfterFunc(c.opts.Debounce, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.closed || c.token != scheduled {
			return
		}
		c.issueLocked()
	})
	c.notifyLocked()
}

// SetFilter sets one filter dimension; "" and "all" clear it.
func (c *Controller[T]) SetFilter(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	filters := make(map[string]string, len(c.state.Filters)+1)
	for k, v := range c.state.Filters {
		filters[k] = v
	}
	if backend.IsUnset(value) {
		delete(filters, key)
	} else {
		filters[key] = value
	}
	c.state.Filters = filters
	c.state.Page = 1
	c.issueLocked()
}

// SetPage moves to page n. Out-of-range pages are rejected, not clamped.
func (c *Controller[T]) SetPage(n int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n < 1 || n > c.state.TotalPages {
		return fmt.Errorf("%w: %d not in [1,%d]", ErrPageOutOfRange, n, c.state.TotalPages)
	}
	c.state.Page = n
	c.issueLocked()
	return nil
}

// SetCount changes the page size and returns to page 1.
func (c *Controller[T]) SetCount(n int) error {
	if n <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidPageSize, n)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Count = n
	c.state.Page = 1
	c.issueLocked()
	return nil
}

// Close stops pending work; later responses are dropped.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.stopTimerLocked()
	c.cancel()
	c.state.Loading = false
	c.notifyLocked()
}

// Snapshot returns a copy of the current state.
func (c *Controller[T]) Snapshot() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.state
	s.Query = s.Query.clone()
	return s
}

func (c *Controller[T]) Summary() Summary { return c.Snapshot().Summary() }

func (c *Controller[T]) Frame() Frame {
	s := c.Snapshot()
	return Frame{Summary: s.Summary(), Rows: s.Rows}
}

// Changed returns a channel closed at the next state change.
func (c *Controller[T]) Changed() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.changed
}

// WaitIdle blocks until no fetch is pending and returns that state.
func (c *Controller[T]) WaitIdle(ctx context.Context) (State[T], error) {
	for {
		c.mu.Lock()
		if !c.state.Loading || c.closed {
			s := c.state
			s.Query = s.Query.clone()
			c.mu.Unlock()
			return s, nil
		}
		ch := c.changed
		c.mu.Unlock()

		select {
		case <-ctx.Done():
			return c.Snapshot(), ctx.Err()
		case <-ch:
		}
	}
}

func (c *Controller[T]) issueLocked() {
	if c.closed {
		return
	}
	c.stopTimerLocked()
	c.token++
	tok := c.token
	q := c.state.Query.clone()
	c.state.Loading = true
	c.notifyLocked()
	go c.fetch(tok, q)
}

func (c *Controller[T]) fetch(tok uint64, q Query) {
	start := time.Now()
	res, outcome, err := c.load(q)

	c.mu.Lock()
	if c.closed || tok != c.token {
		c.mu.Unlock()
		log.Debug().
			Str("resource", c.opts.Resource).
			Int("page", q.Page).
			Str("search", q.Search).
			Msg("discarding stale list response")
		c.observe(OutcomeStale, time.Since(start))
		return
	}
	if err != nil {
		res = emptyResult[T]()
	}
	c.state.Rows = res.Rows
	c.state.TotalCount = res.TotalCount
	c.state.TotalPages = res.TotalPages
	c.state.Err = err
	c.state.Loading = false
	c.notifyLocked()
	c.mu.Unlock()

	if err != nil {
		log.Error().
			Err(err).
			Str("resource", c.opts.Resource).
			Int64("org_id", c.opts.OrgID).
			Int("page", q.Page).
			Msg("list fetch failed")
	}
	c.observe(outcome, time.Since(start))
}

// load never panics out of the fetch goroutine.
func (c *Controller[T]) load(q Query) (res Result[T], outcome Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, outcome, err = Result[T]{}, OutcomeFailed, fmt.Errorf("list %s: panic: %v", c.opts.Resource, r)
		}
	}()

	ctx, cancel := context.WithTimeout(c.ctx, c.opts.Timeout)
	defer cancel()

	env, err := c.src.List(ctx, q.Params(c.opts.OrgID))
	if err != nil {
		return Result[T]{}, OutcomeFailed, err
	}
	page, found, err := backend.DecodePage[T](env, c.opts.Keys)
	if err != nil {
		return Result[T]{}, OutcomeFailed, err
	}
	if !found {
		log.Warn().
			Str("resource", c.opts.Resource).
			Strs("keys", c.opts.Keys).
			Msg("list envelope has none of the expected keys, showing no data")
		return emptyResult[T](), OutcomeNoData, nil
	}
	return Normalize(page, q.Count), OutcomeApplied, nil
}

func (c *Controller[T]) observe(o Outcome, took time.Duration) {
	if c.opts.Observer != nil {
		c.opts.Observer.FetchCompleted(c.opts.Resource, o, took)
	}
}

func (c *Controller[T]) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Controller[T]) notifyLocked() {
	close(c.changed)
	c.changed = make(chan struct{})
}
