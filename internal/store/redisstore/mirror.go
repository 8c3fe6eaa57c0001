// Package redisstore keeps the offline mirror in Redis, one JSON document per
// record under "<prefix><entity>:<org>:<id>".
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"fleetdesk/internal/store/repositories"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const DefaultPrefix = "fleetdesk:mirror:"

// MustOpen connects to addr, retrying the first ping with exponential backoff
// for up to maxWait before giving up.
func MustOpen(ctx context.Context, addr string, maxWait time.Duration) *redis.Client {
	client := redis.NewClient(&redis.Options{Addr: addr})

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = maxWait
	err := backoff.RetryNotify(func() error {
		return client.Ping(ctx).Err()
	}, backoff.WithContext(b, ctx), func(err error, next time.Duration) {
		log.Warn().Err(err).Str("addr", addr).Dur("retry_in", next).Msg("redis not ready")
	})
	if err != nil {
		log.Fatal().Err(err).Str("addr", addr).Msg("redis connect fail")
	}
	return client
}

type mirrorDoc struct {
	Payload json.RawMessage `json:"payload"`
	SavedAt time.Time       `json:"savedAt"`
}

// mirrorRepository implements repositories.MirrorRepository on Redis.
type mirrorRepository struct {
	rdb    redis.Cmdable
	prefix string
	ttl    time.Duration
}

// NewMirrorRepository returns a mirror whose entries expire after ttl; zero
// keeps them forever.
func NewMirrorRepository(rdb redis.Cmdable, prefix string, ttl time.Duration) *mirrorRepository {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &mirrorRepository{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (r *mirrorRepository) key(k repositories.MirrorKey) string {
	return r.prefix + k.Entity + ":" + strconv.FormatInt(k.OrgID, 10) + ":" + k.ID
}

func (r *mirrorRepository) Put(ctx context.Context, rec repositories.MirroredRecord) error {
	if !json.Valid(rec.Payload) {
		return fmt.Errorf("mirror %s/%s: payload is not JSON", rec.Key.Entity, rec.Key.ID)
	}
	if rec.SavedAt.IsZero() {
		rec.SavedAt = time.Now().UTC()
	}
	b, err := json.Marshal(mirrorDoc{Payload: rec.Payload, SavedAt: rec.SavedAt})
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, r.key(rec.Key), b, r.ttl).Err()
}

func (r *mirrorRepository) Get(ctx context.Context, k repositories.MirrorKey) (*repositories.MirroredRecord, error) {
	b, err := r.rdb.Get(ctx, r.key(k)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, repositories.ErrNotMirrored
	}
	if err != nil {
		return nil, err
	}
	var doc mirrorDoc
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("mirror %s/%s: %w", k.Entity, k.ID, err)
	}
	return &repositories.MirroredRecord{Key: k, Payload: doc.Payload, SavedAt: doc.SavedAt}, nil
}

func (r *mirrorRepository) Delete(ctx context.Context, k repositories.MirrorKey) error {
	return r.rdb.Del(ctx, r.key(k)).Err()
}
