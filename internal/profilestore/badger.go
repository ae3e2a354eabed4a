// Venuerank - Activity Recommendation Scoring and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuerank

package profilestore

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"
	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/venuerank/internal/recommend"
)

// Key prefixes for the BadgerDB keyspace.
const (
	statedKeyPrefix  = "profile:stated:"
	learnedKeyPrefix = "profile:learned:"
)

// BadgerStore implements recommend.ProfileStore on an embedded BadgerDB.
// It is safe for concurrent use; learned-profile writes for the same user
// are serialized with a store-wide mutex to uphold the single-writer
// contract the engine relies on.
type BadgerStore struct {
	db     *badger.DB
	logger zerolog.Logger

	// writeMu serializes SaveAIProfile. Badger transactions are atomic but
	// not per-key ordered under contention; a lost update here would drop
	// feedback.
	writeMu sync.Mutex
}

// NewBadgerStore wraps an open BadgerDB handle. The caller owns the handle
// and closes it after the store is no longer used.
func NewBadgerStore(db *badger.DB, logger zerolog.Logger) (*BadgerStore, error) {
	if db == nil {
		return nil, fmt.Errorf("profilestore: db must not be nil")
	}
	return &BadgerStore{db: db, logger: logger}, nil
}

// Open opens a BadgerDB at dir and wraps it. Close releases the database.
func Open(dir string, logger zerolog.Logger) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // badger's own logger is too chatty at INFO
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("profilestore: open %s: %w", dir, err)
	}
	return &BadgerStore{db: db, logger: logger}, nil
}

// Close closes the underlying database. Only valid for stores created with
// Open; stores wrapping a caller-owned handle must not call it.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// GetUserProfile returns the stated profile, or a zero profile when the
// user has never saved one.
func (s *BadgerStore) GetUserProfile(ctx context.Context, userID string) (recommend.UserProfile, error) {
	var profile recommend.UserProfile
	found, err := s.get(ctx, statedKeyPrefix+userID, &profile)
	if err != nil {
		return recommend.UserProfile{}, fmt.Errorf("profilestore: get stated profile for %s: %w", userID, err)
	}
	if !found {
		return recommend.UserProfile{}, nil
	}
	return profile, nil
}

// GetAIProfile returns the learned profile, or the neutral default when no
// feedback has ever been applied for the user.
func (s *BadgerStore) GetAIProfile(ctx context.Context, userID string) (recommend.AIProfile, error) {
	var profile recommend.AIProfile
	found, err := s.get(ctx, learnedKeyPrefix+userID, &profile)
	if err != nil {
		return recommend.AIProfile{}, fmt.Errorf("profilestore: get learned profile for %s: %w", userID, err)
	}
	if !found {
		return recommend.DefaultAIProfile(), nil
	}
	return profile, nil
}

// SaveAIProfile persists an updated learned profile.
func (s *BadgerStore) SaveAIProfile(ctx context.Context, userID string, profile recommend.AIProfile) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.set(ctx, learnedKeyPrefix+userID, profile); err != nil {
		return fmt.Errorf("profilestore: save learned profile for %s: %w", userID, err)
	}
	s.logger.Debug().Str("user_id", userID).Msg("Learned profile saved")
	return nil
}

// SaveUserProfile persists a stated profile.
func (s *BadgerStore) SaveUserProfile(ctx context.Context, userID string, profile recommend.UserProfile) error {
	if err := s.set(ctx, statedKeyPrefix+userID, profile); err != nil {
		return fmt.Errorf("profilestore: save stated profile for %s: %w", userID, err)
	}
	return nil
}

// DeleteUser removes both profiles for a user. Missing keys are not an
// error; deletion is idempotent.
func (s *BadgerStore) DeleteUser(ctx context.Context, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		for _, key := range []string{statedKeyPrefix + userID, learnedKeyPrefix + userID} {
			if err := txn.Delete([]byte(key)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("profilestore: delete user %s: %w", userID, err)
	}
	return nil
}

// CountLearned returns how many users have a persisted learned profile.
func (s *BadgerStore) CountLearned(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(learnedKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("profilestore: count learned profiles: %w", err)
	}
	return count, nil
}

// get unmarshals the value at key into out. The bool reports whether the
// key existed.
func (s *BadgerStore) get(ctx context.Context, key string, out any) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	found := true
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			found = false
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, out)
		})
	})
	if err != nil {
		return false, err
	}
	return found, nil
}

func (s *BadgerStore) set(ctx context.Context, key string, value any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

var _ recommend.ProfileStore = (*BadgerStore)(nil)
