package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/iliyamo/colmena-layout/internal/apperr"
	"github.com/iliyamo/colmena-layout/internal/layout"
	"github.com/iliyamo/colmena-layout/internal/repository"
)

// Slot is a single-value key/value capability.  Get returns
// repository.ErrSlotEmpty when nothing is stored under key.
type Slot interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Store persists envelopes under one fixed key of a Slot.
type Store struct {
	slot Slot
	key  string
	now  func() time.Time
}

// NewStore returns a Store writing to key in slot.  An empty key means
// DefaultKey.
func NewStore(slot Slot, key string) *Store {
	if key == "" {
		key = DefaultKey
	}
	return &Store{slot: slot, key: key, now: time.Now}
}

// Key returns the slot key in use.
func (st *Store) Key() string { return st.key }

// Save snapshots s into a fresh envelope and writes it.
func (st *Store) Save(ctx context.Context, s *layout.State) (Meta, error) {
	env := Wrap(s.Snapshot(), st.now())
	b, err := json.Marshal(env)
	if err != nil {
		return Meta{}, apperr.New(apperr.CodeStorage, err)
	}
	if err := st.slot.Set(ctx, st.key, string(b)); err != nil {
		return Meta{}, apperr.New(apperr.CodeStorage, err)
	}
	return Meta{SavedAt: env.SavedAt}, nil
}

// Load reads and validates the stored envelope.  It does not apply it.
func (st *Store) Load(ctx context.Context) (layout.Snapshot, Meta, error) {
	text, err := st.read(ctx)
	if err != nil {
		return layout.Snapshot{}, Meta{}, err
	}
	return Decode([]byte(text))
}

// LoadAndApply loads the stored snapshot and applies it to s.  A snapshot
// that fails structural validation yields APPLY_FAILED with s untouched.
func (st *Store) LoadAndApply(ctx context.Context, s *layout.State) (Meta, error) {
	snap, meta, err := st.Load(ctx)
	if err != nil {
		return Meta{}, err
	}
	if err := s.Apply(snap); err != nil {
		return Meta{}, apperr.New(apperr.CodeApplyFailed, err)
	}
	return meta, nil
}

// HasSaved reports whether anything is stored.
func (st *Store) HasSaved(ctx context.Context) (bool, error) {
	_, err := st.read(ctx)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, apperr.ErrNoData):
		return false, nil
	default:
		return false, err
	}
}

// Clear removes whatever is stored.
func (st *Store) Clear(ctx context.Context) error {
	if err := st.slot.Remove(ctx, st.key); err != nil {
		return apperr.New(apperr.CodeStorage, err)
	}
	return nil
}

func (st *Store) read(ctx context.Context) (string, error) {
	text, err := st.slot.Get(ctx, st.key)
	if errors.Is(err, repository.ErrSlotEmpty) || (err == nil && text == "") {
		return "", apperr.ErrNoData
	}
	if err != nil {
		return "", apperr.New(apperr.CodeStorage, err)
	}
	return text, nil
}
