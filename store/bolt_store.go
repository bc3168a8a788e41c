package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.etcd.io/bbolt"

	"url-triage-poc/model"
)

var (
	bucketState = []byte("state")
	keyAppState = []byte("app_state")
)

// BoltStore persists the whole AppState as one JSON value in a BoltDB file.
type BoltStore struct {
	mu sync.Mutex
	db *bbolt.DB
}

// OpenBolt opens (or creates) the state file at path.
func OpenBolt(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketState)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create bucket: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// State returns the stored blob, or the initial state if nothing was saved yet.
func (b *BoltStore) State(ctx context.Context) (model.AppState, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.db == nil {
		return model.AppState{}, ErrClosed
	}
	var state model.AppState
	err := b.db.View(func(tx *bbolt.Tx) error {
		var err error
		state, err = readState(tx)
		return err
	})
	if err != nil {
		return model.AppState{}, err
	}
	return state, nil
}

func (b *BoltStore) AddDataset(ctx context.Context, meta model.DatasetMetadata, records []model.DatasetEntry) error {
	return b.update(addDataset(meta, records))
}

func (b *BoltStore) UpdateLists(ctx context.Context, allowlist, blocklist []string) error {
	return b.update(updateLists(allowlist, blocklist))
}

func (b *BoltStore) SetSession(ctx context.Context, role model.UserRole, loggedIn bool) error {
	return b.update(setSession(role, loggedIn))
}

// Clear deletes the stored blob so the next read yields the initial state.
func (b *BoltStore) Clear(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.db == nil {
		return ErrClosed
	}
	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketState).Delete(keyAppState)
	})
}

func (b *BoltStore) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.db == nil {
		return nil
	}
	err := b.db.Close()
	b.db = nil
	return err
}

// update runs a read-modify-write of the blob in a single transaction.
func (b *BoltStore) update(fn func(*model.AppState)) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.db == nil {
		return ErrClosed
	}
	return b.db.Update(func(tx *bbolt.Tx) error {
		state, err := readState(tx)
		if err != nil {
			return err
		}
		data, err := json.Marshal(mutate(state, fn))
		if err != nil {
			return fmt.Errorf("marshal state: %w", err)
		}
		return tx.Bucket(bucketState).Put(keyAppState, data)
	})
}

func readState(tx *bbolt.Tx) (model.AppState, error) {
	bucket := tx.Bucket(bucketState)
	if bucket == nil {
		return model.AppState{}, fmt.Errorf("bucket %s not found", bucketState)
	}
	raw := bucket.Get(keyAppState)
	if raw == nil {
		return model.InitialState(), nil
	}
	state := model.InitialState()
	if err := json.Unmarshal(raw, &state); err != nil {
		return model.AppState{}, fmt.Errorf("unmarshal state: %w", err)
	}
	return state, nil
}
