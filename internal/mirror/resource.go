// Package mirror wraps a backend resource with an offline copy of every record
// saved through it. Reads fall back to the copy only when the backend read
// fails, and such envelopes carry statusFlag "Mirrored".
package mirror

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"fleetdesk/internal/backend"
	"fleetdesk/internal/store/repositories"

	"github.com/rs/zerolog/log"
)

// Backend is the resource being mirrored.
type Backend interface {
	Spec() backend.Spec
	List(ctx context.Context, p backend.ListParams) (*backend.Envelope, error)
	GetByID(ctx context.Context, orgID int64, id string) (*backend.Envelope, error)
	CreateOrUpdate(ctx context.Context, payload any) (*backend.Envelope, error)
}

type Resource struct {
	inner Backend
	repo  repositories.MirrorRepository
}

func Wrap(inner Backend, repo repositories.MirrorRepository) *Resource {
	return &Resource{inner: inner, repo: repo}
}

func (r *Resource) Spec() backend.Spec { return r.inner.Spec() }

// List is never served from the mirror.
func (r *Resource) List(ctx context.Context, p backend.ListParams) (*backend.Envelope, error) {
	return r.inner.List(ctx, p)
}

func (r *Resource) GetByID(ctx context.Context, orgID int64, id string) (*backend.Envelope, error) {
	spec := r.inner.Spec()
	key := repositories.MirrorKey{Entity: spec.Name, OrgID: orgID, ID: id}

	env, err := r.inner.GetByID(ctx, orgID, id)
	if err == nil {
		if _, _, ok := env.Lookup(spec.RecordKeys); !ok {
			r.evict(ctx, key)
		}
		return env, nil
	}

	rec, merr := r.repo.Get(ctx, key)
	if merr != nil {
		if !errors.Is(merr, repositories.ErrNotMirrored) {
			log.Warn().Err(merr).Str("resource", spec.Name).Str("id", id).Msg("mirror read failed")
		}
		return nil, err
	}

	log.Warn().
		Err(err).
		Str("resource", spec.Name).
		Str("id", id).
		Time("saved_at", rec.SavedAt).
		Msg("backend read failed, serving mirrored record")

	ok := true
	return &backend.Envelope{
		Status:     &ok,
		StatusFlag: backend.FlagMirrored,
		ParamObjectsMap: map[string]json.RawMessage{
			spec.RecordKeys[0]: json.RawMessage(rec.Payload),
		},
	}, nil
}

// CreateOrUpdate saves through the backend and, on success, mirrors the saved
// record. A mirror failure is logged and does not fail the save.
func (r *Resource) CreateOrUpdate(ctx context.Context, payload any) (*backend.Envelope, error) {
	env, err := r.inner.CreateOrUpdate(ctx, payload)
	if err != nil {
		return nil, err
	}

	spec := r.inner.Spec()
	doc, err := savedDocument(env, spec.RecordKeys, payload)
	if err != nil {
		log.Warn().Err(err).Str("resource", spec.Name).Msg("cannot mirror saved record")
		return env, nil
	}
	key, ok := keyOf(spec.Name, doc, payload)
	if !ok {
		log.Debug().Str("resource", spec.Name).Msg("saved record has no id, not mirrored")
		return env, nil
	}
	if err := r.repo.Put(ctx, repositories.MirroredRecord{Key: key, Payload: doc}); err != nil {
		log.Warn().Err(err).Str("resource", spec.Name).Str("id", key.ID).Msg("mirror write failed")
		// The previous copy no longer matches the backend.
		r.evict(ctx, key)
	}
	return env, nil
}

// evict drops a copy the backend no longer agrees with.
func (r *Resource) evict(ctx context.Context, key repositories.MirrorKey) {
	if err := r.repo.Delete(ctx, key); err != nil {
		log.Warn().Err(err).Str("resource", key.Entity).Str("id", key.ID).Msg("mirror evict failed")
	}
}

// savedDocument prefers the record the backend echoed back, since only that
// one carries the id of a newly created record.
func savedDocument(env *backend.Envelope, keys []string, payload any) (json.RawMessage, error) {
	if rec, found, err := backend.DecodeRecord[json.RawMessage](env, keys); err == nil && found {
		return rec, nil
	}
	return json.Marshal(payload)
}

type recordIDs struct {
	ID    json.RawMessage `json:"id"`
	OrgID backend.Count   `json:"orgId"`
}

func idsOf(doc []byte) recordIDs {
	var ids recordIDs
	_ = json.Unmarshal(doc, &ids)
	return ids
}

func (ids recordIDs) id() string {
	id := strings.Trim(strings.TrimSpace(string(ids.ID)), `"`)
	if id == "0" || id == "null" {
		return ""
	}
	return id
}

// keyOf addresses the saved record. The org is the one in the outgoing
// payload, else the echo's; the id is the echo's, else the payload's.
func keyOf(entity string, doc json.RawMessage, payload any) (repositories.MirrorKey, bool) {
	echo := idsOf(doc)
	var sent recordIDs
	if raw, err := json.Marshal(payload); err == nil {
		sent = idsOf(raw)
	}

	id := echo.id()
	if id == "" {
		id = sent.id()
	}
	org := int64(sent.OrgID)
	if org == 0 {
		org = int64(echo.OrgID)
	}
	if id == "" || org == 0 {
		return repositories.MirrorKey{}, false
	}
	return repositories.MirrorKey{Entity: entity, OrgID: org, ID: id}, true
}
