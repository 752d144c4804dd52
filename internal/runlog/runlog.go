// Steamlens - Steam Review Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamlens

package runlog

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/steamlens/internal/models"
)

const (
	runPrefix = "run:"
	idPrefix  = "id:"

	// keyTimeFormat is fixed width so keys sort chronologically.
	keyTimeFormat = "2006-01-02T15:04:05.000000000Z"
)

// ErrNotFound is returned when no run matches.
var ErrNotFound = errors.New("run not found")

// Recorder receives run records as a run progresses.
type Recorder interface {
	Save(ctx context.Context, run *models.RunRecord) error
}

// Store is a BadgerDB-backed run history.
type Store struct {
	db *badger.DB
}

// Open opens (creating if needed) the run log directory at path.
func Open(path string) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // Suppress BadgerDB logs

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open run log %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// OpenInMemory opens a run log that is discarded on Close.
func OpenInMemory() (*Store, error) {
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("open in-memory run log: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying BadgerDB.
func (s *Store) Close() error {
	return s.db.Close()
}

func runKey(run *models.RunRecord) []byte {
	return []byte(runPrefix + run.StartedAt.UTC().Format(keyTimeFormat) + ":" + run.ID)
}

// Save stores run, replacing any earlier version of the same run.
func (s *Store) Save(ctx context.Context, run *models.RunRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if run.ID == "" {
		return errors.New("run id is required")
	}
	if run.StartedAt.IsZero() {
		return errors.New("run start time is required")
	}

	data, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("marshal run: %w", err)
	}

	key := runKey(run)
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(key, data); err != nil {
			return err
		}
		return txn.Set([]byte(idPrefix+run.ID), key)
	})
}

// Get returns the run with id.
func (s *Store) Get(ctx context.Context, id string) (*models.RunRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var run models.RunRecord
	err := s.db.View(func(txn *badger.Txn) error {
		idItem, err := txn.Get([]byte(idPrefix + id))
		if err != nil {
			return err
		}
		key, err := idItem.ValueCopy(nil)
		if err != nil {
			return err
		}
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &run)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load run %s: %w", id, err)
	}
	return &run, nil
}

// List returns up to limit runs, newest first. A limit <= 0 returns all.
func (s *Store) List(ctx context.Context, limit int) ([]models.RunRecord, error) {
	var runs []models.RunRecord
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = []byte(runPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		// Reverse iteration must seek past the last key with the prefix.
		seek := []byte(runPrefix + "\xff")
		for it.Seek(seek); it.ValidForPrefix(opts.Prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var run models.RunRecord
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &run)
			}); err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}
			runs = append(runs, run)
			if limit > 0 && len(runs) >= limit {
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// Latest returns the most recently started run.
func (s *Store) Latest(ctx context.Context) (*models.RunRecord, error) {
	runs, err := s.List(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, ErrNotFound
	}
	return &runs[0], nil
}

// Prune deletes all but the newest keep runs and returns how many it removed.
func (s *Store) Prune(ctx context.Context, keep int) (int, error) {
	if keep < 0 {
		return 0, fmt.Errorf("keep must be non-negative, got %d", keep)
	}
	runs, err := s.List(ctx, 0)
	if err != nil {
		return 0, err
	}
	if len(runs) <= keep {
		return 0, nil
	}

	stale := runs[keep:]
	err = s.db.Update(func(txn *badger.Txn) error {
		for i := range stale {
			if err := txn.Delete(runKey(&stale[i])); err != nil {
				return err
			}
			if err := txn.Delete([]byte(idPrefix + stale[i].ID)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	return len(stale), nil
}
