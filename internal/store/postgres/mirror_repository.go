package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fleetdesk/internal/store/repositories"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const mirrorSchema = `
CREATE TABLE IF NOT EXISTS offline_mirror (
	entity     text        NOT NULL,
	org_id     bigint      NOT NULL,
	record_id  text        NOT NULL,
	payload    jsonb       NOT NULL,
	saved_at   timestamptz NOT NULL DEFAULT now(),
	expires_at timestamptz,
	PRIMARY KEY (entity, org_id, record_id)
)`

// DB is the part of *pgxpool.Pool the repository uses.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// mirrorRepository implements MirrorRepository on the offline_mirror table.
type mirrorRepository struct {
	db  DB
	ttl time.Duration
}

// NewMirrorRepository creates a mirror whose rows stop being served after
// ttl; zero keeps them forever.
func NewMirrorRepository(db DB, ttl time.Duration) *mirrorRepository {
	return &mirrorRepository{db: db, ttl: ttl}
}

// EnsureSchema creates the offline_mirror table if it is missing.
func (r *mirrorRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.Exec(ctx, mirrorSchema)
	return err
}

// Put upserts the latest payload for the key.
func (r *mirrorRepository) Put(ctx context.Context, rec repositories.MirroredRecord) error {
	if rec.SavedAt.IsZero() {
		rec.SavedAt = time.Now().UTC()
	}
	var expires *time.Time
	if r.ttl > 0 {
		t := rec.SavedAt.Add(r.ttl)
		expires = &t
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO offline_mirror (entity, org_id, record_id, payload, saved_at, expires_at)
		VALUES ($1, $2, $3, $4::jsonb, $5, $6)
		ON CONFLICT (entity, org_id, record_id)
		DO UPDATE SET payload = EXCLUDED.payload,
		              saved_at = EXCLUDED.saved_at,
		              expires_at = EXCLUDED.expires_at`,
		rec.Key.Entity, rec.Key.OrgID, rec.Key.ID, string(rec.Payload), rec.SavedAt, expires,
	)
	if err != nil {
		return fmt.Errorf("mirror put %s/%s: %w", rec.Key.Entity, rec.Key.ID, err)
	}
	return nil
}

// Get returns the mirrored copy, or ErrNotMirrored when there is none or it
// has expired.
func (r *mirrorRepository) Get(ctx context.Context, k repositories.MirrorKey) (*repositories.MirroredRecord, error) {
	row := r.db.QueryRow(ctx, `
		SELECT payload::text, saved_at
		  FROM offline_mirror
		 WHERE entity = $1 AND org_id = $2 AND record_id = $3
		   AND (expires_at IS NULL OR expires_at > now())`,
		k.Entity, k.OrgID, k.ID,
	)

	var (
		payload string
		savedAt time.Time
	)
	if err := row.Scan(&payload, &savedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repositories.ErrNotMirrored
		}
		return nil, fmt.Errorf("mirror get %s/%s: %w", k.Entity, k.ID, err)
	}
	return &repositories.MirroredRecord{Key: k, Payload: []byte(payload), SavedAt: savedAt}, nil
}

func (r *mirrorRepository) Delete(ctx context.Context, k repositories.MirrorKey) error {
	_, err := r.db.Exec(ctx, `
		DELETE FROM offline_mirror
		 WHERE entity = $1 AND org_id = $2 AND record_id = $3`,
		k.Entity, k.OrgID, k.ID,
	)
	return err
}

// PurgeExpired removes rows past their expiry and reports how many went.
func (r *mirrorRepository) PurgeExpired(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM offline_mirror WHERE expires_at IS NOT NULL AND expires_at <= now()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
