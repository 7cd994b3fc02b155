package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// BadgerSlot stores values in an embedded Badger database.
type BadgerSlot struct {
	db *badger.DB
}

// OpenBadger opens a Badger database at dir, or an in-memory one when dir
// is empty.  Badger's own logging is silenced.
func OpenBadger(dir string) (*badger.DB, error) {
	var opts badger.Options
	if dir == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(dir)
	}
	db, err := badger.Open(opts.WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return db, nil
}

// NewBadgerSlot wraps an open database.  The caller owns db.
func NewBadgerSlot(db *badger.DB) *BadgerSlot {
	return &BadgerSlot{db: db}
}

func (r *BadgerSlot) Get(_ context.Context, key string) (string, error) {
	var out []byte
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		out, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", ErrSlotEmpty
	}
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (r *BadgerSlot) Set(_ context.Context, key, value string) error {
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), []byte(value))
	})
}

func (r *BadgerSlot) Remove(_ context.Context, key string) error {
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}
