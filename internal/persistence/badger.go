// Unistream - Streaming Catalog Aggregation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unistream

package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/unistream/internal/logging"
	"github.com/tomtom215/unistream/internal/models"
)

// BadgerStore implements Store on BadgerDB with JSON values.
type BadgerStore struct {
	db *badger.DB
}

var _ Store = (*BadgerStore)(nil)

// OpenBadger opens (or creates) a database at path. inMemory ignores
// path and keeps everything in RAM.
func OpenBadger(path string, inMemory bool) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.Logger = nil // Suppress BadgerDB logs

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}

	logging.Info().Str("path", path).Bool("in_memory", inMemory).Msg("user state store opened")
	return &BadgerStore{db: db}, nil
}

// NewBadgerStore wraps an already open database.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

func (s *BadgerStore) put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(key), data); err != nil {
			return fmt.Errorf("set %s: %w", key, err)
		}
		return nil
	})
}

// get decodes key into out, returning ErrNotFound when absent.
func (s *BadgerStore) get(key string, out any) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get %s: %w", key, err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, out)
		})
	})
}

// SaveAuthState implements Store.
func (s *BadgerStore) SaveAuthState(_ context.Context, userID uuid.UUID, authenticated bool) error {
	return s.put(authKeyPrefix+userID.String(), authenticated)
}

// LoadAuthState implements Store.
func (s *BadgerStore) LoadAuthState(_ context.Context, userID uuid.UUID) (bool, error) {
	var authenticated bool
	err := s.get(authKeyPrefix+userID.String(), &authenticated)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return authenticated, err
}

// SaveUser implements Store.
func (s *BadgerStore) SaveUser(_ context.Context, user *models.User) error {
	return s.put(userKeyPrefix+user.ID.String(), user)
}

// LoadUser implements Store.
func (s *BadgerStore) LoadUser(_ context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.get(userKeyPrefix+userID.String(), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// SaveMyList implements Store.
func (s *BadgerStore) SaveMyList(_ context.Context, userID uuid.UUID, list []models.Content) error {
	return s.put(myListKeyPrefix+userID.String(), list)
}

// LoadMyList implements Store.
func (s *BadgerStore) LoadMyList(_ context.Context, userID uuid.UUID) ([]models.Content, error) {
	list := []models.Content{}
	err := s.get(myListKeyPrefix+userID.String(), &list)
	if errors.Is(err, ErrNotFound) {
		return []models.Content{}, nil
	}
	if err != nil {
		return nil, err
	}
	for i := range list {
		list[i].LinkEpisodes()
	}
	return list, nil
}

// SaveComments implements Store.
func (s *BadgerStore) SaveComments(_ context.Context, userID uuid.UUID, comments []models.Comment) error {
	return s.put(commentsKeyPrefix+userID.String(), comments)
}

// LoadComments implements Store.
func (s *BadgerStore) LoadComments(_ context.Context, userID uuid.UUID) ([]models.Comment, error) {
	comments := []models.Comment{}
	err := s.get(commentsKeyPrefix+userID.String(), &comments)
	if errors.Is(err, ErrNotFound) {
		return []models.Comment{}, nil
	}
	return comments, err
}

// SaveInteractions implements Store.
func (s *BadgerStore) SaveInteractions(_ context.Context, sets InteractionSets) error {
	return s.put(interactionsKey, sets)
}

// LoadInteractions implements Store.
func (s *BadgerStore) LoadInteractions(_ context.Context) (InteractionSets, error) {
	var sets InteractionSets
	err := s.get(interactionsKey, &sets)
	if errors.Is(err, ErrNotFound) {
		return NewInteractionSets(), nil
	}
	if err != nil {
		return InteractionSets{}, err
	}
	sets.fill()
	return sets, nil
}

// SaveCredential implements Store.
func (s *BadgerStore) SaveCredential(_ context.Context, email string, hash []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(credentialKeyPrefix+NormalizeEmail(email)), hash)
	})
}

// LoadCredential implements Store.
func (s *BadgerStore) LoadCredential(_ context.Context, email string) ([]byte, error) {
	var hash []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(credentialKeyPrefix + NormalizeEmail(email)))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get credential: %w", err)
		}
		hash, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return hash, nil
}

// Clear implements Store.
func (s *BadgerStore) Clear(_ context.Context, userID uuid.UUID) error {
	return s.db.Update(func(txn *badger.Txn) error {
		for _, key := range userKeys(userID) {
			if err := txn.Delete([]byte(key)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("delete %s: %w", key, err)
			}
		}
		return nil
	})
}

// RunGC reclaims value log space. badger.ErrNoRewrite means there was
// nothing to collect and is not reported.
func (s *BadgerStore) RunGC(discardRatio float64) error {
	err := s.db.RunValueLogGC(discardRatio)
	if err == nil || errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrGCInMemoryMode) {
		return nil
	}
	return fmt.Errorf("value log gc: %w", err)
}

// Close implements Store.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}
