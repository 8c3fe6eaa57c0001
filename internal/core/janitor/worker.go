package janitor

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Evicter drops sessions idle for longer than the given duration.
type Evicter interface {
	Evict(idle time.Duration) int
}

// Purger removes expired mirror copies. Stores that expire on their own do
// not need one.
type Purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

type Worker struct {
	sessions  Evicter
	purger    Purger
	idle      time.Duration
	pollEvery time.Duration
}

// NewWorker evicts sessions idle for longer than idle. purger may be nil.
func NewWorker(sessions Evicter, purger Purger, idle time.Duration) *Worker {
	poll := idle / 4
	if poll < time.Second {
		poll = time.Second
	}
	if poll > time.Minute {
		poll = time.Minute
	}
	return &Worker{sessions: sessions, purger: purger, idle: idle, pollEvery: poll}
}

func (w *Worker) Run(ctx context.Context) {
	log.Info().Dur("idle_ttl", w.idle).Dur("poll", w.pollEvery).Msg("janitor: started")
	t := time.NewTicker(w.pollEvery)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("janitor: stopping")
			return
		case <-t.C:
			w.tick(ctx)
		}
	}
}

func (w *Worker) tick(ctx context.Context) {
	if n := w.sessions.Evict(w.idle); n > 0 {
		log.Info().Int("evicted", n).Msg("janitor: closed idle list sessions")
	}
	if w.purger == nil {
		return
	}
	n, err := w.purger.PurgeExpired(ctx)
	if err != nil {
		log.Error().Err(err).Msg("janitor: mirror purge failed")
		return
	}
	if n > 0 {
		log.Info().Int64("purged", n).Msg("janitor: removed expired mirror rows")
	}
}
