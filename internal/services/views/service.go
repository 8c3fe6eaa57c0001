// Package views keeps the list sessions the dashboard opens on the BFF. A
// session is one list controller; the browser pushes filter panel changes to
// it and reads back frames.
package views

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"fleetdesk/internal/fleet"
	"fleetdesk/internal/listing"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	// ErrPageWithReset rejects a patch that moves to a page while also
	// changing something that resets the page to 1.
	ErrPageWithReset = errors.New("page cannot be combined with search, filters or count")
)

// Opener builds list views by entity name.
type Opener interface {
	OpenView(name string, opts listing.Options) (fleet.View, error)
}

// Gauge is told the number of open sessions after every change.
type Gauge interface {
	SetActiveSessions(n int)
}

type Config struct {
	DefaultCount int
	Debounce     time.Duration
	Timeout      time.Duration
	// Settle bounds how long a call waits for the fetch it triggered before
	// returning a frame that is still loading.
	Settle time.Duration
}

type session struct {
	id       string
	entity   string
	orgID    int64
	view     fleet.View
	lastUsed time.Time
}

// Service handles list sessions.
type Service struct {
	opener Opener
	gauge  Gauge
	cfg    Config
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

func NewService(opener Opener, gauge Gauge, cfg Config) *Service {
	if cfg.Settle <= 0 {
		cfg.Settle = 5 * time.Second
	}
	return &Service{
		opener:   opener,
		gauge:    gauge,
		cfg:      cfg,
		now:      time.Now,
		sessions: make(map[string]*session),
	}
}

// Open starts a session on entity for orgID and returns its first frame.
func (s *Service) Open(ctx context.Context, orgID int64, entity string, req OpenRequest) (*SessionFrame, error) {
	count := req.Count
	if count <= 0 {
		count = s.cfg.DefaultCount
	}
	view, err := s.opener.OpenView(entity, listing.Options{
		OrgID:    orgID,
		Count:    count,
		Debounce: s.cfg.Debounce,
		Timeout:  s.cfg.Timeout,
		Search:   req.Search,
		Filters:  req.Filters,
	})
	if err != nil {
		return nil, &ServiceError{Op: "open", Err: err}
	}

	sess := &session{id: uuid.NewString(), entity: entity, orgID: orgID, view: view, lastUsed: s.now()}
	s.mu.Lock()
	s.sessions[sess.id] = sess
	n := len(s.sessions)
	s.mu.Unlock()
	s.report(n)

	view.Start()
	log.Info().Str("session_id", sess.id).Str("entity", entity).Int64("org_id", orgID).Msg("list session opened")

	return &SessionFrame{SessionID: sess.id, Entity: entity, Frame: s.settle(ctx, view)}, nil
}

// Get returns the current frame without triggering a fetch.
func (s *Service) Get(orgID int64, id string) (listing.Frame, error) {
	sess, err := s.lookup(orgID, id)
	if err != nil {
		return listing.Frame{}, &ServiceError{Op: "get", Err: err}
	}
	return sess.view.Frame(), nil
}

// Apply pushes the patch into the session's controller: count, then filters,
// then search, then page. The first rejected change stops the rest.
func (s *Service) Apply(ctx context.Context, orgID int64, id string, p Patch) (listing.Frame, error) {
	sess, err := s.lookup(orgID, id)
	if err != nil {
		return listing.Frame{}, &ServiceError{Op: "apply", Err: err}
	}
	v := sess.view
	if p.Page != nil && p.resetsPage() {
		return v.Frame(), &ServiceError{Op: "apply", Err: ErrPageWithReset}
	}

	if p.Count != nil {
		if err := v.SetCount(*p.Count); err != nil {
			return v.Frame(), &ServiceError{Op: "apply", Err: err}
		}
	}
	keys := make([]string, 0, len(p.Filters))
	for k := range p.Filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v.SetFilter(k, p.Filters[k])
	}
	if p.Search != nil {
		v.SetSearch(*p.Search)
	}
	if p.Page != nil {
		if err := v.SetPage(*p.Page); err != nil {
			return v.Frame(), &ServiceError{Op: "apply", Err: err}
		}
	}
	if p.Refresh {
		v.Refresh()
	}
	return s.settle(ctx, v), nil
}

// Close ends a session and drops its pending responses.
func (s *Service) Close(orgID int64, id string) error {
	sess, err := s.lookup(orgID, id)
	if err != nil {
		return &ServiceError{Op: "close", Err: err}
	}
	s.mu.Lock()
	delete(s.sessions, id)
	n := len(s.sessions)
	s.mu.Unlock()

	sess.view.Close()
	s.report(n)
	log.Info().Str("session_id", id).Str("entity", sess.entity).Msg("list session closed")
	return nil
}

// Evict closes every session unused for longer than idle and returns how
// many went.
func (s *Service) Evict(idle time.Duration) int {
	cutoff := s.now().Add(-idle)

	s.mu.Lock()
	var stale []*session
	for id, sess := range s.sessions {
		if sess.lastUsed.Before(cutoff) {
			stale = append(stale, sess)
			delete(s.sessions, id)
		}
	}
	n := len(s.sessions)
	s.mu.Unlock()

	for _, sess := range stale {
		sess.view.Close()
		log.Debug().Str("session_id", sess.id).Str("entity", sess.entity).Msg("list session evicted")
	}
	if len(stale) > 0 {
		s.report(n)
	}
	return len(stale)
}

// CloseAll ends every session; used on shutdown.
func (s *Service) CloseAll() {
	s.mu.Lock()
	all := s.sessions
	s.sessions = make(map[string]*session)
	s.mu.Unlock()

	for _, sess := range all {
		sess.view.Close()
	}
	s.report(0)
}

func (s *Service) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// lookup finds the session and marks it used. A session of another org is
// reported as missing.
func (s *Service) lookup(orgID int64, id string) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok || sess.orgID != orgID {
		return nil, ErrSessionNotFound
	}
	sess.lastUsed = s.now()
	return sess, nil
}

func (s *Service) settle(ctx context.Context, v fleet.View) listing.Frame {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Settle)
	defer cancel()
	frame, err := v.WaitIdle(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("returning frame before fetch settled")
	}
	return frame
}

func (s *Service) report(n int) {
	if s.gauge != nil {
		s.gauge.SetActiveSessions(n)
	}
}

// ServiceError represents a views service error
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string {
	return "views service " + e.Op + ": " + e.Err.Error()
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}
