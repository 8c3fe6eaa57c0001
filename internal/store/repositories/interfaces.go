package repositories

import (
	"context"
	"errors"
	"time"
)

// ErrNotMirrored is returned by MirrorRepository.Get for a record that was
// never saved through the mirror, or whose copy has expired.
var ErrNotMirrored = errors.New("record not mirrored")

// MirrorKey addresses one record in the offline mirror.
type MirrorKey struct {
	Entity string
	OrgID  int64
	ID     string
}

// MirroredRecord is the last payload that was saved successfully.
type MirroredRecord struct {
	Key     MirrorKey
	Payload []byte
	SavedAt time.Time
}

// MirrorRepository defines the contract for the offline record mirror. It is
// never authoritative: readers use it only when the backend is unreachable.
type MirrorRepository interface {
	Put(ctx context.Context, rec MirroredRecord) error
	Get(ctx context.Context, key MirrorKey) (*MirroredRecord, error)
	Delete(ctx context.Context, key MirrorKey) error
}
